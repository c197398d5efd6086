package jdbc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils/typeutils"
)

type Reader[T types.Iterable] struct {
	query string
	args  []any
	ctx   context.Context

	exec func(ctx context.Context, query string, args ...any) (T, error)
}

func NewReader[T types.Iterable](ctx context.Context, baseQuery string,
	exec func(ctx context.Context, query string, args ...any) (T, error), args ...any) *Reader[T] {
	return &Reader[T]{
		query: baseQuery,
		ctx:   ctx,
		exec:  exec,
		args:  args,
	}
}

func (o *Reader[T]) Capture(onCapture func(T) error) error {
	if strings.HasSuffix(o.query, ";") {
		return fmt.Errorf("base query ends with ';': %s", o.query)
	}

	rows, err := o.exec(o.ctx, o.query, o.args...)
	if err != nil {
		return err
	}

	for rows.Next() {
		if err := onCapture(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}

func getColumnMetadata(rows *sql.Rows) ([]string, []*sql.ColumnType, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, err
	}

	return columns, colTypes, nil
}

// MapScan scans the current row into dest, running every value through the
// converter keyed on the database type name. Null conversions store nil.
func MapScan(rows *sql.Rows, dest map[string]any, converter func(value any, columnType string) (any, error)) error {
	columns, colTypes, err := getColumnMetadata(rows)
	if err != nil {
		return err
	}

	scanValues := make([]any, len(columns))
	for i := range scanValues {
		scanValues[i] = new(any)
	}

	if err := rows.Scan(scanValues...); err != nil {
		return err
	}

	for i, col := range columns {
		rawData := *(scanValues[i].(*any))
		if converter == nil {
			dest[col] = rawData
			continue
		}
		conv, err := converter(rawData, colTypes[i].DatabaseTypeName())
		if err != nil && !errors.Is(err, typeutils.ErrNullValue) {
			return err
		}
		dest[col] = conv
	}

	return nil
}
