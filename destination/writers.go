package destination

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils"
	"github.com/inletio/inlet/utils/logger"
)

const DestError = "destination error"

type NewFunc func() Writer

var RegisteredWriters = map[types.DestinationType]NewFunc{}

// WriterPool owns every destination writer thread of a sync and accounts for
// the records flowing through them.
type WriterPool struct {
	batchSize     int
	totalRecords  atomic.Int64
	ThreadCounter atomic.Int64 // global counter used for thread and file naming
	config        any          // respective writer config
	init          NewFunc
	group         *errgroup.Group
	groupCtx      context.Context
}

// NewWriterPool validates the destination and prepares a pool bound to its
// adapter type.
func NewWriterPool(ctx context.Context, config *types.WriterConfig) (*WriterPool, error) {
	newfunc, found := RegisteredWriters[config.Type]
	if !found {
		return nil, fmt.Errorf("invalid destination type has been passed [%s]", config.Type)
	}

	adapter := newfunc()
	if err := utils.Unmarshal(config.WriterConfig, adapter.GetConfigRef()); err != nil {
		return nil, err
	}

	if err := adapter.GetConfigRef().Validate(); err != nil {
		return nil, fmt.Errorf("invalid destination config: %s", err)
	}

	if err := adapter.Check(ctx); err != nil {
		return nil, fmt.Errorf("failed to test destination: %s", err)
	}

	if config.BatchSize <= 0 {
		config.BatchSize = 10000
	}

	group, groupCtx := errgroup.WithContext(ctx)
	if config.MaxThreads > 0 {
		group.SetLimit(config.MaxThreads)
	}

	return &WriterPool{
		batchSize: config.BatchSize,
		config:    config.WriterConfig,
		init:      newfunc,
		group:     group,
		groupCtx:  groupCtx,
	}, nil
}

// WriterThread is one dedicated adapter consuming records for one stream.
// Push blocks once the buffer is full so each record is consumed before the
// next is produced.
type WriterThread struct {
	pool       *WriterPool
	stream     types.StreamInterface
	adapter    Writer
	recordChan chan types.RawRecord
	done       chan error
	closed     atomic.Bool
}

// NewThread sets up a fresh adapter for the stream and starts its consumer
// goroutine.
func (w *WriterPool) NewThread(ctx context.Context, stream types.StreamInterface, options ...ThreadOptions) (*WriterThread, error) {
	opts := &Options{
		Number: w.ThreadCounter.Add(1),
	}
	for _, one := range options {
		one(opts)
	}
	if opts.Identifier == "" {
		opts.Identifier = fmt.Sprintf("%s_%d", stream.ID(), opts.Number)
	}

	adapter := w.init()
	if err := utils.Unmarshal(w.config, adapter.GetConfigRef()); err != nil {
		return nil, err
	}
	if err := adapter.Setup(stream, opts); err != nil {
		return nil, fmt.Errorf("failed to setup writer thread: %s", err)
	}

	thread := &WriterThread{
		pool:       w,
		stream:     stream,
		adapter:    adapter,
		recordChan: make(chan types.RawRecord, w.batchSize),
		done:       make(chan error, 1),
	}

	go func() {
		thread.done <- thread.consume(ctx)
	}()

	logger.Debugf("created writer thread[%s] for stream %s", opts.Identifier, stream.ID())
	return thread, nil
}

func (t *WriterThread) consume(ctx context.Context) error {
	for record := range t.recordChan {
		if err := t.adapter.Write(ctx, record); err != nil {
			// drain the channel so Push never blocks forever
			for range t.recordChan {
			}
			return fmt.Errorf("%s: %s", DestError, err)
		}
		t.pool.totalRecords.Add(1)
	}

	return nil
}

// Push hands one record to the writer; blocks when the buffer is full.
func (t *WriterThread) Push(ctx context.Context, record types.RawRecord) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case t.recordChan <- record:
		return nil
	}
}

// Close stops the consumer, flushes the adapter and returns any write error.
func (t *WriterThread) Close(ctx context.Context) error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(t.recordChan)
	writeErr := <-t.done
	closeErr := t.adapter.Close(ctx)

	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

func (w *WriterPool) TotalRecords() int64 {
	return w.totalRecords.Load()
}
