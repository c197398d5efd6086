package types

import (
	"fmt"
)

// Stream is the source-discovered shape of one logical table/collection.
type Stream struct {
	Name                    string         `json:"name"`
	Namespace               string         `json:"namespace,omitempty"`
	Schema                  *TypeSchema    `json:"type_schema,omitempty"`
	SupportedSyncModes      *Set[SyncMode] `json:"supported_sync_modes,omitempty"`
	SourceDefinedPrimaryKey *Set[string]   `json:"source_defined_primary_key,omitempty"`
	AvailableCursorFields   *Set[string]   `json:"available_cursor_fields,omitempty"`

	// mutated while being configured
	SyncMode    SyncMode `json:"sync_mode,omitempty"`
	CursorField string   `json:"cursor_field,omitempty"`
}

func NewStream(name, namespace string) *Stream {
	return &Stream{
		Name:                    name,
		Namespace:               namespace,
		Schema:                  NewTypeSchema(),
		SupportedSyncModes:      NewSet[SyncMode](FULLREFRESH),
		SourceDefinedPrimaryKey: NewSet[string](),
		AvailableCursorFields:   NewSet[string](),
	}
}

func (s *Stream) ID() string {
	if s.Namespace == "" {
		return s.Name
	}
	return fmt.Sprintf("%s.%s", s.Namespace, s.Name)
}

func (s *Stream) WithSyncMode(modes ...SyncMode) *Stream {
	for _, mode := range modes {
		s.SupportedSyncModes.Insert(mode)
	}

	return s
}

func (s *Stream) WithPrimaryKey(keys ...string) *Stream {
	s.SourceDefinedPrimaryKey.Insert(keys...)
	return s
}

func (s *Stream) WithCursorField(columns ...string) *Stream {
	s.AvailableCursorFields.Insert(columns...)
	s.SupportedSyncModes.Insert(INCREMENTAL)
	return s
}

// UpsertField merges a column declaration into the stream schema.
func (s *Stream) UpsertField(column string, typ DataType, nullable bool) {
	datatypes := []DataType{typ}
	if nullable {
		datatypes = append(datatypes, Null)
	}

	s.Schema.AddTypes(column, datatypes...)
}

// Wrap converts a source Stream into a ConfiguredStream ready for sync.
func (s *Stream) Wrap() *ConfiguredStream {
	return &ConfiguredStream{
		Stream: s,
	}
}

func StreamsToMap(streams ...*Stream) map[string]*Stream {
	output := make(map[string]*Stream)
	for _, stream := range streams {
		output[stream.ID()] = stream
	}

	return output
}
