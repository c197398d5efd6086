package abstract

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/inletio/inlet/destination"
	"github.com/inletio/inlet/types"
)

// NoopWriter satisfies the Writer interface and records what was written.
type NoopWriter struct {
	config *NoopConfig
}

type NoopConfig struct{}

func (c *NoopConfig) Validate() error {
	return nil
}

// writtenRecords collects every record pushed through noop writers so tests
// can assert on emission counts and payloads.
var writtenRecords struct {
	sync.Mutex
	records []types.RawRecord
}

func resetWrittenRecords() {
	writtenRecords.Lock()
	defer writtenRecords.Unlock()
	writtenRecords.records = nil
}

func collectedRecords() []types.RawRecord {
	writtenRecords.Lock()
	defer writtenRecords.Unlock()
	return append([]types.RawRecord{}, writtenRecords.records...)
}

func (w *NoopWriter) GetConfigRef() destination.Config {
	w.config = &NoopConfig{}
	return w.config
}

func (w *NoopWriter) Spec() any {
	return NoopConfig{}
}

func (w *NoopWriter) Type() string {
	return "noop"
}

func (w *NoopWriter) Check(_ context.Context) error {
	return nil
}

func (w *NoopWriter) Setup(_ types.StreamInterface, _ *destination.Options) error {
	return nil
}

func (w *NoopWriter) Write(_ context.Context, record types.RawRecord) error {
	writtenRecords.Lock()
	defer writtenRecords.Unlock()
	writtenRecords.records = append(writtenRecords.records, record)
	return nil
}

func (w *NoopWriter) Close(_ context.Context) error {
	return nil
}

func init() {
	destination.RegisteredWriters["noop"] = func() destination.Writer {
		return &NoopWriter{}
	}
}

func createTestWriterPool(ctx context.Context) (*destination.WriterPool, error) {
	return destination.NewWriterPool(ctx, &types.WriterConfig{
		Type:         "noop",
		WriterConfig: map[string]any{},
		BatchSize:    100,
	})
}

// MockDriver implements DriverInterface with overridable behavior per test.
type MockDriver struct {
	getStreamNamesFunc   func(ctx context.Context) ([]string, error)
	produceSchemaFunc    func(ctx context.Context, stream string) (*types.Stream, error)
	getOrSplitChunksFunc func(ctx context.Context, stream types.StreamInterface) (*types.Set[types.Chunk], error)
	chunkIteratorFunc    func(ctx context.Context, stream types.StreamInterface, chunk types.Chunk, processFn MessageFn) error
	fetchPageFunc        func(ctx context.Context, stream types.StreamInterface, req PageRequest) (*Page, error)
	maxRetries           int
	fetchCalls           atomic.Int64
}

func (m *MockDriver) GetConfigRef() Config {
	return nil
}

func (m *MockDriver) Spec() any {
	return nil
}

func (m *MockDriver) Type() string {
	return "mock"
}

func (m *MockDriver) Setup(_ context.Context) error {
	return nil
}

func (m *MockDriver) SetupState(_ *types.State) {}

func (m *MockDriver) MaxConnections() int {
	return 0
}

func (m *MockDriver) MaxRetries() int {
	if m.maxRetries > 0 {
		return m.maxRetries
	}
	return 3
}

func (m *MockDriver) GetStreamNames(ctx context.Context) ([]string, error) {
	if m.getStreamNamesFunc != nil {
		return m.getStreamNamesFunc(ctx)
	}
	return []string{}, nil
}

func (m *MockDriver) ProduceSchema(ctx context.Context, stream string) (*types.Stream, error) {
	if m.produceSchemaFunc != nil {
		return m.produceSchemaFunc(ctx, stream)
	}
	return types.NewStream(stream, "public"), nil
}

func (m *MockDriver) GetOrSplitChunks(ctx context.Context, stream types.StreamInterface) (*types.Set[types.Chunk], error) {
	if m.getOrSplitChunksFunc != nil {
		return m.getOrSplitChunksFunc(ctx, stream)
	}
	return types.NewSet[types.Chunk](), nil
}

func (m *MockDriver) ChunkIterator(ctx context.Context, stream types.StreamInterface, chunk types.Chunk, processFn MessageFn) error {
	if m.chunkIteratorFunc != nil {
		return m.chunkIteratorFunc(ctx, stream, chunk, processFn)
	}
	return nil
}

func (m *MockDriver) FetchPage(ctx context.Context, stream types.StreamInterface, req PageRequest) (*Page, error) {
	m.fetchCalls.Add(1)
	if m.fetchPageFunc != nil {
		return m.fetchPageFunc(ctx, stream, req)
	}
	return &Page{}, nil
}

func createMockStream(name, namespace string, syncMode types.SyncMode) *types.Stream {
	stream := types.NewStream(name, namespace)
	stream.UpsertField("id", types.Int64, false)
	stream.UpsertField("updated_at", types.TimestampMicro, false)
	stream.WithSyncMode(types.FULLREFRESH, types.INCREMENTAL)
	stream.WithPrimaryKey("id")
	stream.WithCursorField("updated_at")
	stream.SyncMode = syncMode
	stream.CursorField = "updated_at"
	return stream
}

func createConfiguredStream(name, namespace string, syncMode types.SyncMode) *types.ConfiguredStream {
	return &types.ConfiguredStream{
		Stream: createMockStream(name, namespace, syncMode),
	}
}

// newTestDriver wires a MockDriver into an AbstractDriver with fresh state
// and a registry seeded from nothing, the way a sync run starts.
func newTestDriver(ctx context.Context, mock *MockDriver) *AbstractDriver {
	driver := NewAbstractDriver(ctx, mock)
	driver.SetupState(types.NewState())
	driver.SetupRegistry(types.NewSchemaRegistry())
	return driver
}
