package destination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inletio/inlet/types"
)

func TestEmitDeclaredTypesConvert(t *testing.T) {
	registry := types.NewSchemaRegistry()
	registry.Declare("public.orders", map[string]types.DataType{
		"id":         types.Int64,
		"amount":     types.Float64,
		"updated_at": types.TimestampMicro,
		"active":     types.Bool,
	}, "id")

	emitter := NewEmitter(registry)
	typed, err := emitter.Emit("public.orders", types.Record{
		"id":         "42",
		"amount":     "10.5",
		"updated_at": "2025-08-12T15:00:00.123456+00:00",
		"active":     "true",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), typed["id"])
	assert.Equal(t, 10.5, typed["amount"])
	assert.Equal(t, true, typed["active"])
	ts, ok := typed["updated_at"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 123456000, ts.Nanosecond())
}

func TestEmitNullPassesThroughTyped(t *testing.T) {
	registry := types.NewSchemaRegistry()
	registry.Declare("public.orders", map[string]types.DataType{
		"id":   types.Int64,
		"note": types.String,
	}, "id")

	emitter := NewEmitter(registry)
	typed, err := emitter.Emit("public.orders", types.Record{"id": int64(1), "note": nil})
	require.NoError(t, err)

	value, present := typed["note"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestEmitUnknownColumnsInferred(t *testing.T) {
	registry := types.NewSchemaRegistry()
	emitter := NewEmitter(registry)

	// first record of an unseen table synthesizes the column set
	typed, err := emitter.Emit("public.events", types.Record{
		"a": int64(7),
		"b": "plain text",
		"c": 3.14,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), typed["a"])
	assert.Equal(t, "plain text", typed["b"])
	assert.Equal(t, 3.14, typed["c"])

	decl, found := registry.Get("public.events")
	require.True(t, found)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, decl.Schema.Columns())
}

func TestEmitArrayValueFatal(t *testing.T) {
	registry := types.NewSchemaRegistry()
	emitter := NewEmitter(registry)

	_, err := emitter.Emit("public.events", types.Record{
		"tags": []any{"a", "b"},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "array")
}

func TestEmitMalformedTimestampFatal(t *testing.T) {
	registry := types.NewSchemaRegistry()
	registry.Declare("public.orders", map[string]types.DataType{
		"updated_at": types.TimestampMicro,
	})

	emitter := NewEmitter(registry)
	_, err := emitter.Emit("public.orders", types.Record{"updated_at": "not-a-date"})
	require.Error(t, err)
}

func TestEmitRawRecordIDFromPrimaryKeys(t *testing.T) {
	registry := types.NewSchemaRegistry()
	registry.Declare("public.orders", map[string]types.DataType{
		"id": types.Int64,
	}, "id")

	emitter := NewEmitter(registry)
	first, err := emitter.EmitRaw("public.orders", types.Record{"id": int64(1)}, "u")
	require.NoError(t, err)
	again, err := emitter.EmitRaw("public.orders", types.Record{"id": int64(1)}, "u")
	require.NoError(t, err)
	other, err := emitter.EmitRaw("public.orders", types.Record{"id": int64(2)}, "u")
	require.NoError(t, err)

	// same keys hash to the same identifier so upserts deduplicate
	assert.Equal(t, first.RecordID, again.RecordID)
	assert.NotEqual(t, first.RecordID, other.RecordID)
	assert.Equal(t, "u", first.OperationType)
}

func TestEmitKeylessTableGetsUniqueIDs(t *testing.T) {
	registry := types.NewSchemaRegistry()
	emitter := NewEmitter(registry)

	first, err := emitter.EmitRaw("public.logs", types.Record{"line": "a"}, "r")
	require.NoError(t, err)
	second, err := emitter.EmitRaw("public.logs", types.Record{"line": "a"}, "r")
	require.NoError(t, err)

	assert.NotEqual(t, first.RecordID, second.RecordID)
}
