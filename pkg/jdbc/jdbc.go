package jdbc

import (
	"fmt"
	"strings"

	"github.com/inletio/inlet/types"
)

// QuoteIdentifier quotes a Postgres identifier.
func QuoteIdentifier(identifier string) string {
	return fmt.Sprintf(`"%s"`, strings.ReplaceAll(identifier, `"`, `""`))
}

func QuoteTable(schema, table string) string {
	return fmt.Sprintf("%s.%s", QuoteIdentifier(schema), QuoteIdentifier(table))
}

func DiscoverTablesQuery() string {
	return `SELECT nspname as table_schema,
		relname as table_name
		FROM pg_class c
		JOIN pg_namespace n ON c.relnamespace = n.oid
		WHERE has_table_privilege(c.oid, 'SELECT')
		AND has_schema_privilege(current_user, nspname, 'USAGE')
		AND relkind IN ('r', 'm', 't', 'f', 'p')
		AND nspname NOT LIKE 'pg_%'
		AND nspname != 'information_schema'`
}

func TableSchemaQuery() string {
	return `SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`
}

func TablePrimaryKeyQuery() string {
	return `SELECT column_name FROM information_schema.key_column_usage WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`
}

// MinMaxQuery returns the chunking bounds of the stream on the given column.
func MinMaxQuery(stream types.StreamInterface, column string) string {
	return fmt.Sprintf(
		`SELECT MIN(%[1]s) AS min_value, MAX(%[1]s) AS max_value FROM %[2]s`,
		QuoteIdentifier(column), QuoteTable(stream.Namespace(), stream.Name()),
	)
}

// NextChunkEndQuery walks the chunk column forward by chunkSize rows.
func NextChunkEndQuery(stream types.StreamInterface, column string, chunkSize int64) string {
	return fmt.Sprintf(
		`SELECT MAX(%[1]s) FROM (SELECT %[1]s FROM %[2]s WHERE %[1]s >= $1 ORDER BY %[1]s ASC LIMIT %[3]d) AS T`,
		QuoteIdentifier(column), QuoteTable(stream.Namespace(), stream.Name()), chunkSize,
	)
}

// ChunkScanQuery selects the rows of one half-open chunk. The final chunk has
// no Max and runs to the end of the table.
func ChunkScanQuery(stream types.StreamInterface, column string, chunk types.Chunk) (string, []any) {
	condition := fmt.Sprintf("%s >= $1", QuoteIdentifier(column))
	args := []any{chunk.Min}
	if chunk.Max != nil {
		condition = fmt.Sprintf("%s AND %s < $2", condition, QuoteIdentifier(column))
		args = append(args, chunk.Max)
	}
	return fmt.Sprintf("SELECT * FROM %s WHERE %s", QuoteTable(stream.Namespace(), stream.Name()), condition), args
}

// IncrementalPageQuery selects one page of rows at or beyond the cursor,
// keyset style. The cursor condition is inclusive so rows sharing the
// boundary value are never skipped.
func IncrementalPageQuery(stream types.StreamInterface, cursorField string, cursorValue any, pageSize int) (string, []any) {
	quoted := QuoteIdentifier(cursorField)
	table := QuoteTable(stream.Namespace(), stream.Name())
	if cursorValue == nil {
		return fmt.Sprintf("SELECT * FROM %s ORDER BY %s ASC LIMIT %d", table, quoted, pageSize), nil
	}
	return fmt.Sprintf("SELECT * FROM %s WHERE %s >= $1 ORDER BY %s ASC LIMIT %d", table, quoted, quoted, pageSize),
		[]any{cursorValue}
}

func RowCountQuery(stream types.StreamInterface) string {
	return fmt.Sprintf(`SELECT reltuples::bigint AS approx_row_count FROM pg_class WHERE oid = '%s.%s'::regclass`, stream.Namespace(), stream.Name())
}
