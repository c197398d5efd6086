package driver

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/drivers/abstract"
	"github.com/inletio/inlet/drivers/base"
	"github.com/inletio/inlet/types"
	"github.com/inletio/inlet/utils/typeutils"
)

const restNamespace = "rest"

// pageEnvelope is the response shape every supported endpoint serves. HasMore
// is optional; when the source omits it a short page implies end-of-data.
type pageEnvelope struct {
	Data          []types.Record `json:"data"`
	NextPageToken string         `json:"next_page_token"`
	HasMore       *bool          `json:"has_more"`
}

type REST struct {
	*base.Driver
	client *Client
	config *Config
}

func New() *REST {
	return &REST{Driver: base.NewBase()}
}

func (r *REST) GetConfigRef() abstract.Config {
	r.config = &Config{}
	return r.config
}

func (r *REST) Spec() any {
	return Config{}
}

func (r *REST) Type() string {
	return string(constants.REST)
}

func (r *REST) MaxConnections() int {
	return r.config.MaxThreads
}

func (r *REST) MaxRetries() int {
	return r.config.RetryCount
}

func (r *REST) Setup(ctx context.Context) error {
	r.client = NewClient(r.config)

	// probe the first declared stream to verify credentials and reachability
	probe := r.config.Streams[0]
	params := url.Values{}
	params.Set("limit", "1")
	if _, err := r.client.Get(ctx, probe.Path, params); err != nil {
		return fmt.Errorf("failed to reach endpoint[%s]: %s", probe.Path, err)
	}
	return nil
}

func (r *REST) GetStreamNames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(r.config.Streams))
	for _, stream := range r.config.Streams {
		names = append(names, stream.Name)
	}
	return names, nil
}

// ProduceSchema samples the first page of the endpoint and infers column
// types from the returned rows.
func (r *REST) ProduceSchema(ctx context.Context, streamName string) (*types.Stream, error) {
	streamConfig, found := r.config.stream(streamName)
	if !found {
		return nil, fmt.Errorf("stream[%s] not declared in config", streamName)
	}

	stream := types.NewStream(streamConfig.Name, restNamespace)
	envelope, err := r.fetchEnvelope(ctx, streamConfig, abstract.PageRequest{PageSize: r.pageSize()})
	if err != nil {
		return nil, fmt.Errorf("failed to sample stream[%s]: %s", streamName, err)
	}

	// an empty schema would make the parquet writers drop every data column,
	// so a stream with nothing to sample fails discovery outright
	if len(envelope.Data) == 0 {
		return nil, fmt.Errorf("stream[%s] returned no rows to sample a schema from; remove it from the config until the endpoint serves data", streamName)
	}

	samples := make([]map[string]any, 0, len(envelope.Data))
	for _, record := range envelope.Data {
		samples = append(samples, record)
	}
	if err := typeutils.Resolve(stream, samples...); err != nil {
		return nil, fmt.Errorf("failed to resolve schema for stream[%s]: %s", streamName, err)
	}

	stream.WithSyncMode(types.FULLREFRESH)
	stream.WithPrimaryKey(streamConfig.PrimaryKeys...)
	if streamConfig.CursorField != "" {
		stream.WithCursorField(streamConfig.CursorField)
		stream.CursorField = streamConfig.CursorField
	}

	return stream, nil
}

func (r *REST) FetchPage(ctx context.Context, stream types.StreamInterface, req abstract.PageRequest) (*abstract.Page, error) {
	streamConfig, found := r.config.stream(stream.Name())
	if !found {
		return nil, fmt.Errorf("%w: stream[%s] not declared in config", constants.ErrNonRetryable, stream.Name())
	}

	envelope, err := r.fetchEnvelope(ctx, streamConfig, req)
	if err != nil {
		return nil, err
	}

	hasMore := envelope.NextPageToken != ""
	if envelope.HasMore != nil {
		hasMore = *envelope.HasMore
	} else if len(envelope.Data) < req.PageSize {
		// short page without an explicit has_more means end-of-data
		hasMore = false
	}

	return &abstract.Page{
		Records:       envelope.Data,
		NextPageToken: envelope.NextPageToken,
		HasMore:       hasMore,
	}, nil
}

// GetOrSplitChunks returns the stream as a single chunk. REST endpoints offer
// no server-side split, so full refresh pages through sequentially.
func (r *REST) GetOrSplitChunks(_ context.Context, _ types.StreamInterface) (*types.Set[types.Chunk], error) {
	chunks := types.NewSet[types.Chunk]()
	chunks.Insert(types.Chunk{Min: "", Max: nil})
	return chunks, nil
}

func (r *REST) ChunkIterator(ctx context.Context, stream types.StreamInterface, _ types.Chunk, processFn abstract.MessageFn) error {
	request := abstract.PageRequest{PageSize: r.pageSize()}
	for {
		page, err := r.FetchPage(ctx, stream, request)
		if err != nil {
			return err
		}
		for _, record := range page.Records {
			if err := processFn(ctx, record); err != nil {
				return err
			}
		}
		if len(page.Records) == 0 || !page.HasMore {
			return nil
		}
		request.PageToken = page.NextPageToken
	}
}

func (r *REST) fetchEnvelope(ctx context.Context, streamConfig *StreamConfig, req abstract.PageRequest) (*pageEnvelope, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(req.PageSize))
	if req.PageToken != "" {
		params.Set("page_token", req.PageToken)
	}
	if req.Cursor != nil && streamConfig.CursorField != "" {
		params.Set(streamConfig.CursorField, fmt.Sprintf("%v", typeutils.FormatCursorValue(req.Cursor)))
	}

	body, err := r.client.Get(ctx, streamConfig.Path, params)
	if err != nil {
		return nil, err
	}

	envelope := &pageEnvelope{}
	if err := json.Unmarshal(body, envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed response from endpoint[%s]: %s", constants.ErrNonRetryable, streamConfig.Path, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: response from endpoint[%s] missing data field", constants.ErrNonRetryable, streamConfig.Path)
	}

	return envelope, nil
}

func (r *REST) pageSize() int {
	if r.config.PageSize > 0 {
		return r.config.PageSize
	}
	return constants.DefaultPageSize
}
