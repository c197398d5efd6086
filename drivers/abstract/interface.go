package abstract

import (
	"context"

	"github.com/inletio/inlet/types"
)

type MessageFn func(ctx context.Context, message map[string]any) error

type Config interface {
	Validate() error
}

type DriverInterface interface {
	GetConfigRef() Config
	Spec() any
	Type() string
	// specific to test & setup
	Setup(ctx context.Context) error
	SetupState(state *types.State)
	// sync artifacts
	MaxConnections() int
	MaxRetries() int
	// specific to discover
	GetStreamNames(ctx context.Context) ([]string, error)
	ProduceSchema(ctx context.Context, stream string) (*types.Stream, error)
	// specific to backfill
	GetOrSplitChunks(ctx context.Context, stream types.StreamInterface) (*types.Set[types.Chunk], error)
	ChunkIterator(ctx context.Context, stream types.StreamInterface, chunk types.Chunk, processFn MessageFn) error
	// incremental specific
	FetchPage(ctx context.Context, stream types.StreamInterface, req PageRequest) (*Page, error)
}

// PageRequest describes one fetch of the incremental loop. Cursor carries the
// typed lower bound, PageToken the source continuation token from the
// previous page (empty on the first fetch).
type PageRequest struct {
	Cursor    any
	PageToken string
	PageSize  int
}

// Page is a single batch of source records. HasMore false or an empty
// Records slice terminates the loop.
type Page struct {
	Records       []types.Record
	NextPageToken string
	HasMore       bool
}
