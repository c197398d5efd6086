package types

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inletio/inlet/constants"
)

func init() {
	// prevent LogState() from writing logs during tests
	viper.Set(constants.StatePath, "/dev/null")
}

func newConfiguredStream(name, namespace, cursor string, mode SyncMode) *ConfiguredStream {
	s := NewStream(name, namespace)
	s.CursorField = cursor
	s.SyncMode = mode
	return s.Wrap()
}

func TestSetTypeAndResetStreams(t *testing.T) {
	s := NewState()
	assert.True(t, s.isZero(), "new state without streams should be zero")

	s.SetType(StreamType)
	assert.Equal(t, StreamType, s.Type)

	cfg := newConfiguredStream("s1", "ns1", "id", INCREMENTAL)
	s.SetCursor(cfg, "id", 123)
	require.False(t, s.isZero(), "state should not be zero after adding cursor")

	s.ResetStreams()
	assert.Equal(t, 0, len(s.Streams), "ResetStreams should clear stream slice")
}

func TestCursorSetGetReset(t *testing.T) {
	s := NewState()
	cfg := newConfiguredStream("users", "public", "id", INCREMENTAL)

	// empty key should be ignored
	s.SetCursor(cfg, "", 10)
	assert.Nil(t, s.GetCursor(cfg, ""), "GetCursor with empty key should return nil")

	// set cursor (creates stream state)
	s.SetCursor(cfg, "id", 42)
	got := s.GetCursor(cfg, "id")
	require.NotNil(t, got)
	assert.Equal(t, 42, got.(int))

	s.ResetCursor(cfg)
	assert.Nil(t, s.GetCursor(cfg, "id"))
}

func TestCursorIsolatedPerStream(t *testing.T) {
	s := NewState()
	users := newConfiguredStream("users", "public", "updated_at", INCREMENTAL)
	orders := newConfiguredStream("orders", "public", "updated_at", INCREMENTAL)

	s.SetCursor(users, "updated_at", "2025-08-12T15:00:00Z")
	assert.Nil(t, s.GetCursor(orders, "updated_at"))
	assert.Equal(t, "2025-08-12T15:00:00Z", s.GetCursor(users, "updated_at"))
}

func TestChunksLifecycle(t *testing.T) {
	s := NewState()
	cfg := newConfiguredStream("users", "public", "", FULLREFRESH)

	assert.Nil(t, s.GetChunks(cfg))
	assert.False(t, s.HasCompletedBackfill(cfg))

	chunks := NewSet[Chunk]()
	chunks.Insert(Chunk{Min: "1", Max: "100"})
	chunks.Insert(Chunk{Min: "100", Max: nil})
	s.SetChunks(cfg, chunks)

	require.Equal(t, 2, s.GetChunks(cfg).Len())
	assert.False(t, s.HasCompletedBackfill(cfg))

	assert.Equal(t, 1, s.RemoveChunk(cfg, Chunk{Min: "1", Max: "100"}))
	assert.Equal(t, 0, s.RemoveChunk(cfg, Chunk{Min: "100", Max: nil}))
	assert.True(t, s.HasCompletedBackfill(cfg))
}

func TestStateRoundTrip(t *testing.T) {
	s := NewState()
	cfg := newConfiguredStream("users", "public", "updated_at", INCREMENTAL)
	s.SetCursor(cfg, "updated_at", "2025-08-12T15:00:00Z")

	chunks := NewSet[Chunk]()
	chunks.Insert(Chunk{Min: float64(1), Max: float64(100)})
	s.SetChunks(cfg, chunks)

	content, err := json.Marshal(s)
	require.NoError(t, err)

	restored := NewState()
	require.NoError(t, json.Unmarshal(content, restored))

	assert.Equal(t, constants.LatestStateVersion, restored.Version)
	assert.Equal(t, "2025-08-12T15:00:00Z", restored.GetCursor(cfg, "updated_at"))
	require.NotNil(t, restored.GetChunks(cfg))
	assert.Equal(t, 1, restored.GetChunks(cfg).Len())
}
