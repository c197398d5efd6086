package abstract

import (
	"context"
	"fmt"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/destination"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils"
	"github.com/inletio/inlet/utils/logger"
	"github.com/inletio/inlet/utils/typeutils"
)

// Incremental runs the paged sync loop for a single stream. The cursor from
// the last checkpoint seeds the first page request; every served page advances
// the cursor to the maximum value observed and persists it. Retry exhaustion
// aborts without persisting, so the next run resumes from the last durable
// cursor rather than mid-page state.
func (a *AbstractDriver) Incremental(mainCtx context.Context, pool *destination.WriterPool, stream types.StreamInterface) (err error) {
	cursorField := stream.Cursor()
	if cursorField == "" {
		return fmt.Errorf("%w: stream[%s] configured for incremental sync without a cursor field", constants.ErrNonRetryable, stream.ID())
	}

	// typecast in case state was read from file
	maxCursorValue, err := ReformatCursorValue(cursorField, a.state.GetCursor(stream.Self(), cursorField), stream)
	if err != nil {
		return fmt.Errorf("failed to typecast cursor value from state: %s", err)
	}

	// incremental context, so that main context not affected by per-stream cancel
	incrementalCtx, incrementalCtxCancel := context.WithCancel(mainCtx)
	defer incrementalCtxCancel()

	threadID := generateThreadID(stream.ID(), "incremental")
	inserter, err := pool.NewThread(incrementalCtx, stream, destination.WithIdentifier(threadID))
	if err != nil {
		return fmt.Errorf("failed to create new writer thread: %s", err)
	}
	logger.Infof("Thread[%s]: created incremental writer for stream %s", threadID, stream.ID())

	defer func() {
		if closeErr := inserter.Close(incrementalCtx); closeErr != nil {
			err = utils.Ternary(err == nil, closeErr, fmt.Errorf("%s: prev error: %w", closeErr, err)).(error)
		}
		if err != nil {
			incrementalCtxCancel()
			return
		}
		// final checkpoint on Done
		if checkpointErr := a.checkpoint(stream, cursorField, maxCursorValue); checkpointErr != nil {
			err = checkpointErr
		}
	}()

	flattener := typeutils.NewFlattener()
	pageToken := ""
	sinceCheckpoint := 0
	for {
		request := PageRequest{
			Cursor:    maxCursorValue,
			PageToken: pageToken,
			PageSize:  constants.DefaultPageSize,
		}

		var page *Page
		fetchErr := RetryOnBackoff(a.driver.MaxRetries(), constants.DefaultRetryDelay, func() error {
			var err error
			page, err = a.driver.FetchPage(incrementalCtx, stream, request)
			return err
		})
		if fetchErr != nil {
			return fmt.Errorf("failed to fetch page for stream[%s] after %d attempts: %s", stream.ID(), a.driver.MaxRetries(), fetchErr)
		}

		for _, record := range page.Records {
			flattened, err := flattener.Flatten(record)
			if err != nil {
				return fmt.Errorf("failed to flatten record: %s", err)
			}

			rawRecord, err := a.emitter.EmitRaw(stream.ID(), flattened, "u")
			if err != nil {
				return fmt.Errorf("failed to emit record for stream[%s]: %s", stream.ID(), err)
			}
			if err := inserter.Push(incrementalCtx, rawRecord); err != nil {
				return fmt.Errorf("failed to push record: %s", err)
			}

			// advance cursor; ties keep emitting, only strictly greater values move it
			if cursorValue := flattened[cursorField]; cursorValue != nil {
				if maxCursorValue == nil || typeutils.Compare(cursorValue, maxCursorValue) == 1 {
					maxCursorValue = cursorValue
				}
			}

			sinceCheckpoint++
			if sinceCheckpoint >= constants.CheckpointRecordThreshold {
				if err := a.checkpoint(stream, cursorField, maxCursorValue); err != nil {
					return err
				}
				sinceCheckpoint = 0
			}
		}

		if len(page.Records) == 0 || !page.HasMore {
			return nil // Done, final checkpoint happens in the deferred cleanup
		}

		// page boundary checkpoint
		if err := a.checkpoint(stream, cursorField, maxCursorValue); err != nil {
			return err
		}
		sinceCheckpoint = 0
		pageToken = page.NextPageToken
	}
}

func (a *AbstractDriver) checkpoint(stream types.StreamInterface, cursorField string, cursorValue any) error {
	if cursorValue != nil {
		a.state.SetCursor(stream.Self(), cursorField, typeutils.FormatCursorValue(cursorValue))
	}
	if err := a.state.LogState(); err != nil {
		return fmt.Errorf("failed to persist state: %s", err)
	}
	return nil
}

// ReformatCursorValue parses the cursor value to the cursor column type.
func ReformatCursorValue(cursorField string, cursorValue any, stream types.StreamInterface) (any, error) {
	if cursorField == "" || cursorValue == nil {
		return cursorValue, nil
	}
	cursorColType, err := stream.Schema().GetType(cursorField)
	if err != nil {
		return nil, fmt.Errorf("failed to get cursor column type: %s", err)
	}
	return typeutils.ReformatValue(cursorColType, cursorValue)
}
