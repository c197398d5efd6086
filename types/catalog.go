package types

type DestinationType string

const (
	ParquetDestination DestinationType = "parquet"
	S3Destination      DestinationType = "s3"
)

// WriterConfig is the destination side of a sync invocation.
type WriterConfig struct {
	Type         DestinationType `json:"type"`
	WriterConfig any             `json:"writer"`
	MaxThreads   int             `json:"max_threads,omitempty"`
	BatchSize    int             `json:"batch_size,omitempty"`
}

// StreamMetadata carries per-stream selection settings from the streams file.
type StreamMetadata struct {
	StreamName     string `json:"stream_name"`
	AppendOnly     bool   `json:"append_only,omitempty"`
	ChunkColumn    string `json:"chunk_column,omitempty"`
	SyncNewColumns bool   `json:"sync_new_columns,omitempty"`
}

// Catalog is the user-facing streams file: everything the source discovered
// plus which streams the user selected.
type Catalog struct {
	SelectedStreams map[string][]StreamMetadata `json:"selected_streams,omitempty"`
	Streams         []*ConfiguredStream         `json:"streams,omitempty"`
}

func GetWrappedCatalog(streams []*Stream) *Catalog {
	catalog := &Catalog{
		Streams:         []*ConfiguredStream{},
		SelectedStreams: map[string][]StreamMetadata{},
	}

	for _, stream := range streams {
		catalog.Streams = append(catalog.Streams, stream.Wrap())
		catalog.SelectedStreams[stream.Namespace] = append(catalog.SelectedStreams[stream.Namespace], StreamMetadata{
			StreamName: stream.Name,
		})
	}

	return catalog
}
