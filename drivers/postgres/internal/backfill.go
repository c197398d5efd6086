package driver

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inletio/inlet/drivers/abstract"
	"github.com/inletio/inlet/pkg/jdbc"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils/logger"
)

// GetOrSplitChunks walks the split column in chunk-size steps so the backfill
// can run chunks in parallel and resume from the unfinished ones.
func (p *Postgres) GetOrSplitChunks(ctx context.Context, stream types.StreamInterface) (*types.Set[types.Chunk], error) {
	splitColumn, err := p.splitColumn(stream)
	if err != nil {
		return nil, err
	}

	var minValue, maxValue any
	row := p.client.QueryRowxContext(ctx, jdbc.MinMaxQuery(stream, splitColumn))
	if err := row.Scan(&minValue, &maxValue); err != nil {
		return nil, fmt.Errorf("failed to query min/max of column[%s]: %s", splitColumn, err)
	}

	chunks := types.NewSet[types.Chunk]()
	if minValue == nil {
		return chunks, nil // empty table
	}

	chunkStart := minValue
	for {
		var chunkEnd any
		nextQuery := jdbc.NextChunkEndQuery(stream, splitColumn, p.config.ChunkSize)
		if err := p.client.QueryRowxContext(ctx, nextQuery, chunkStart).Scan(&chunkEnd); err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to compute next chunk end: %s", err)
		}

		if chunkEnd == nil || typesEqual(chunkEnd, maxValue) {
			chunks.Insert(types.Chunk{Min: chunkStart, Max: nil})
			break
		}

		chunks.Insert(types.Chunk{Min: chunkStart, Max: chunkEnd})
		chunkStart = chunkEnd
	}

	logger.Infof("Split stream[%s] into %d chunks on column[%s]", stream.ID(), chunks.Len(), splitColumn)
	return chunks, nil
}

func (p *Postgres) ChunkIterator(ctx context.Context, stream types.StreamInterface, chunk types.Chunk, processFn abstract.MessageFn) error {
	splitColumn, err := p.splitColumn(stream)
	if err != nil {
		return err
	}

	query, args := jdbc.ChunkScanQuery(stream, splitColumn, chunk)
	return jdbc.NewReader(ctx, query, func(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
		return p.client.QueryContext(ctx, query, args...)
	}, args...).Capture(func(rows *sql.Rows) error {
		record := make(types.Record)
		if err := jdbc.MapScan(rows, record, p.dataTypeConverter); err != nil {
			return fmt.Errorf("failed to scan record: %s", err)
		}
		return processFn(ctx, record)
	})
}

// splitColumn picks the chunking column, preferring the primary key.
func (p *Postgres) splitColumn(stream types.StreamInterface) (string, error) {
	if keys := stream.GetStream().SourceDefinedPrimaryKey.Array(); len(keys) > 0 {
		return keys[0], nil
	}
	if cursors := stream.GetStream().AvailableCursorFields.Array(); len(cursors) > 0 {
		return cursors[0], nil
	}
	return "", fmt.Errorf("stream[%s] has no primary key or cursor candidate to chunk on", stream.ID())
}

func typesEqual(a, b any) bool {
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
