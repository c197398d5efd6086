package abstract

import (
	"context"
	"fmt"
	"sort"

	"github.com/inletio/inlet/destination"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils"
	"github.com/inletio/inlet/utils/logger"
	"github.com/inletio/inlet/utils/typeutils"
)

// Backfill reads the stream in chunks through the connection group. Completed
// chunks drop out of the state so an interrupted run resumes with the
// remainder only.
func (a *AbstractDriver) Backfill(ctx context.Context, pool *destination.WriterPool, stream types.StreamInterface) error {
	chunksSet := a.state.GetChunks(stream.Self())
	var err error
	if chunksSet == nil || chunksSet.Len() == 0 {
		if a.state.HasCompletedBackfill(stream.Self()) {
			logger.Infof("Backfill skipped for stream[%s], already completed", stream.ID())
			return nil
		}
		chunksSet, err = a.driver.GetOrSplitChunks(ctx, stream)
		if err != nil {
			return fmt.Errorf("failed to get or split chunks: %s", err)
		}
		a.state.SetChunks(stream.Self(), chunksSet)
		if err := a.state.LogState(); err != nil {
			return fmt.Errorf("failed to persist chunk plan: %s", err)
		}
	}
	chunks := chunksSet.Array()
	if len(chunks) == 0 {
		return nil
	}
	sort.Slice(chunks, func(i, j int) bool {
		return typeutils.Compare(chunks[i].Min, chunks[j].Min) < 0
	})
	logger.Infof("Starting backfill for stream[%s] with %d chunks", stream.ID(), len(chunks))

	flattener := typeutils.NewFlattener()
	chunkProcessor := func(ctx context.Context, chunk types.Chunk) (err error) {
		threadID := generateThreadID(stream.ID(), "backfill")
		inserter, err := pool.NewThread(ctx, stream, destination.WithIdentifier(threadID), destination.WithBackfill(true))
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := inserter.Close(ctx); closeErr != nil {
				err = utils.Ternary(err == nil, closeErr, fmt.Errorf("%s: prev error: %w", closeErr, err)).(error)
			}
			if err == nil {
				logger.Infof("finished chunk min[%v] and max[%v] of stream %s", chunk.Min, chunk.Max, stream.ID())
				a.state.RemoveChunk(stream.Self(), chunk)
				err = a.state.LogState()
			}
		}()
		return a.driver.ChunkIterator(ctx, stream, chunk, func(ctx context.Context, data map[string]any) error {
			flattened, err := flattener.Flatten(data)
			if err != nil {
				return fmt.Errorf("failed to flatten record: %s", err)
			}
			rawRecord, err := a.emitter.EmitRaw(stream.ID(), flattened, "r")
			if err != nil {
				return fmt.Errorf("failed to emit record for stream[%s]: %s", stream.ID(), err)
			}
			return inserter.Push(ctx, rawRecord)
		})
	}
	utils.ConcurrentInGroup(a.GlobalConnGroup, chunks, chunkProcessor)
	return nil
}
