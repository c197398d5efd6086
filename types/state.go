package types

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/spf13/viper"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/utils/logger"
)

type StateType string

const (
	// StreamType helps in keeping cursor state per stream
	StreamType StateType = "STREAM"
)

const chunksKey = "chunks"

// State is the durable resume marker for a sync. It is owned by the
// orchestrating thread; writers never touch it.
type State struct {
	*sync.RWMutex `json:"-"`
	Version       int            `json:"version"`
	Type          StateType      `json:"type"`
	Streams       []*StreamState `json:"streams"`
}

type StreamState struct {
	HoldsValue atomic.Bool `json:"-"`

	Stream    string   `json:"stream"`
	Namespace string   `json:"namespace"`
	SyncMode  string   `json:"sync_mode"`
	State     sync.Map `json:"state"`
}

func NewState() *State {
	return &State{
		RWMutex: &sync.RWMutex{},
		Version: constants.LatestStateVersion,
		Type:    StreamType,
		Streams: []*StreamState{},
	}
}

func (s *State) SetType(typ StateType) {
	s.Type = typ
}

func (s *State) ResetStreams() {
	s.Lock()
	defer s.Unlock()

	s.Streams = []*StreamState{}
}

func (s *State) isZero() bool {
	for _, stream := range s.Streams {
		if stream.HoldsValue.Load() {
			return false
		}
	}

	return true
}

// fetch populates the stream state for the given stream, creating it on first
// touch when write is set.
func (s *State) fetchStreamState(stream *ConfiguredStream, write bool) *StreamState {
	s.Lock()
	defer s.Unlock()

	for _, streamState := range s.Streams {
		if streamState.Stream == stream.Name() && streamState.Namespace == stream.Namespace() {
			return streamState
		}
	}

	if !write {
		return nil
	}

	streamState := &StreamState{
		Stream:    stream.Name(),
		Namespace: stream.Namespace(),
		SyncMode:  string(stream.GetSyncMode()),
	}
	s.Streams = append(s.Streams, streamState)
	return streamState
}

func (s *State) GetCursor(stream *ConfiguredStream, key string) any {
	if key == "" {
		return nil
	}

	streamState := s.fetchStreamState(stream, false)
	if streamState == nil {
		return nil
	}

	value, _ := streamState.State.Load(key)
	return value
}

func (s *State) SetCursor(stream *ConfiguredStream, key string, value any) {
	if key == "" || value == nil {
		return
	}

	streamState := s.fetchStreamState(stream, true)
	streamState.State.Store(key, value)
	streamState.HoldsValue.Store(true)
}

// ResetCursor clears the cursor value while preserving other state keys.
func (s *State) ResetCursor(stream *ConfiguredStream) {
	streamState := s.fetchStreamState(stream, false)
	if streamState == nil {
		return
	}

	streamState.State.Delete(stream.Cursor())
}

func (s *State) GetChunks(stream *ConfiguredStream) *Set[Chunk] {
	streamState := s.fetchStreamState(stream, false)
	if streamState == nil {
		return nil
	}

	chunks, found := streamState.State.Load(chunksKey)
	if !found {
		return nil
	}

	return chunks.(*Set[Chunk])
}

func (s *State) SetChunks(stream *ConfiguredStream, chunks *Set[Chunk]) {
	streamState := s.fetchStreamState(stream, true)
	streamState.State.Store(chunksKey, chunks)
	streamState.HoldsValue.Store(true)
}

// RemoveChunk deletes a finished chunk and returns how many remain, or -1 if
// no chunk state exists for the stream.
func (s *State) RemoveChunk(stream *ConfiguredStream, chunk Chunk) int {
	streamState := s.fetchStreamState(stream, false)
	if streamState == nil {
		return -1
	}

	stored, found := streamState.State.Load(chunksKey)
	if !found {
		return -1
	}

	chunks := stored.(*Set[Chunk])
	chunks.Remove(chunk)
	return chunks.Len()
}

// HasCompletedBackfill reports whether all chunks of the stream were synced.
func (s *State) HasCompletedBackfill(stream *ConfiguredStream) bool {
	streamState := s.fetchStreamState(stream, false)
	if streamState == nil {
		return false
	}

	stored, found := streamState.State.Load(chunksKey)
	if !found {
		return false
	}

	return stored.(*Set[Chunk]).Len() == 0
}

// LogState checkpoints: the state is written durably to the configured state
// path and emitted as a STATE message. Must only be called once the rows it
// covers have been handed to the destination.
func (s *State) LogState() error {
	s.RLock()
	defer s.RUnlock()

	content, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %s", err)
	}

	if err := os.WriteFile(viper.GetString(constants.StatePath), content, 0o644); err != nil {
		return fmt.Errorf("failed to persist state file: %s", err)
	}

	logger.LogState(s)
	return nil
}

// MarshalJSON custom marshaller to handle sync.Map encoding
func (s *StreamState) MarshalJSON() ([]byte, error) {
	stateMap := make(map[string]any)
	s.State.Range(func(key, value interface{}) bool {
		stateMap[key.(string)] = value
		return true
	})

	type Alias StreamState
	return json.Marshal(&struct {
		*Alias
		State map[string]any `json:"state"`
	}{
		Alias: (*Alias)(s),
		State: stateMap,
	})
}

// UnmarshalJSON custom unmarshaller to handle sync.Map decoding
func (s *StreamState) UnmarshalJSON(data []byte) error {
	type Alias StreamState
	aux := &struct {
		*Alias
		State map[string]any `json:"state"`
	}{
		Alias: (*Alias)(s),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	for key, value := range aux.State {
		if key == chunksKey {
			// chunks were persisted as a plain array
			raw, err := json.Marshal(value)
			if err != nil {
				return err
			}
			chunks := NewSet[Chunk]()
			if err := json.Unmarshal(raw, chunks); err != nil {
				return err
			}
			s.State.Store(key, chunks)
			s.HoldsValue.Store(true)
			continue
		}

		s.State.Store(key, value)
		s.HoldsValue.Store(true)
	}

	return nil
}

// Chunk is one independently fetchable partition of a stream used by
// full-refresh workers.
type Chunk struct {
	Min any `json:"min"`
	Max any `json:"max"`
}
