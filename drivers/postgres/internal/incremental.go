package driver

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/drivers/abstract"
	"github.com/inletio/inlet/pkg/jdbc"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils/logger"
	"github.com/inletio/inlet/utils/typeutils"
)

// pageToken pins the cursor bound of the whole paged scan so OFFSET paging
// stays stable while the loop's cursor advances.
type pageToken struct {
	Bound  any `json:"bound"`
	Offset int `json:"offset"`
}

func (p *Postgres) FetchPage(ctx context.Context, stream types.StreamInterface, req abstract.PageRequest) (*abstract.Page, error) {
	token := pageToken{Bound: typeutils.FormatCursorValue(req.Cursor)}
	if req.PageToken != "" {
		if err := json.Unmarshal([]byte(req.PageToken), &token); err != nil {
			return nil, fmt.Errorf("%w: malformed page token[%s]: %s", constants.ErrNonRetryable, req.PageToken, err)
		}
	}

	query, args := jdbc.IncrementalPageQuery(stream, stream.Cursor(), token.Bound, req.PageSize)
	if token.Offset > 0 {
		query = fmt.Sprintf("%s OFFSET %d", query, token.Offset)
	}
	logger.Debugf("Fetching page for stream[%s] with query: %s args: %v", stream.ID(), query, args)

	records := make([]types.Record, 0, req.PageSize)
	err := jdbc.NewReader(ctx, query, func(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
		return p.client.QueryContext(ctx, query, args...)
	}, args...).Capture(func(rows *sql.Rows) error {
		record := make(types.Record)
		if err := jdbc.MapScan(rows, record, p.dataTypeConverter); err != nil {
			return fmt.Errorf("failed to scan record: %s", err)
		}
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute incremental page query: %s", err)
	}

	nextToken, err := json.Marshal(pageToken{Bound: token.Bound, Offset: token.Offset + len(records)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode page token: %s", err)
	}

	return &abstract.Page{
		Records:       records,
		NextPageToken: string(nextToken),
		HasMore:       len(records) == req.PageSize,
	}, nil
}
