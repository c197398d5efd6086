package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetOrCreateSynthesizesFromRecord(t *testing.T) {
	registry := NewSchemaRegistry()

	record := Record{"a": 1, "b": "two", "c": nil}
	decl := registry.GetOrCreate("public.users", record)
	require.NotNil(t, decl)

	assert.ElementsMatch(t, []string{"a", "b", "c"}, decl.Schema.Columns())
	for _, column := range []string{"a", "b", "c"} {
		typ, err := decl.Schema.GetType(column)
		require.NoError(t, err)
		assert.Equal(t, Unknown, typ, "synthesized column should be Unknown")
	}
	assert.True(t, decl.Keyless())

	// first sight pins the column set for the process
	again := registry.GetOrCreate("public.users", Record{"a": 1, "d": 4})
	assert.Same(t, decl, again)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, again.Schema.Columns())
}

func TestRegistryDeclareOverridesInference(t *testing.T) {
	registry := NewSchemaRegistry()

	decl := registry.Declare("public.orders", map[string]DataType{
		"id":         Int64,
		"updated_at": TimestampMicro,
	}, "id")

	typ, err := decl.Schema.GetType("id")
	require.NoError(t, err)
	assert.Equal(t, Int64, typ)

	assert.False(t, decl.Keyless())
	assert.True(t, decl.PrimaryKeys.Exists("id"))

	// GetOrCreate must return the declared table untouched
	same := registry.GetOrCreate("public.orders", Record{"extra": true})
	assert.Same(t, decl, same)
	_, err = same.Schema.GetType("extra")
	assert.Error(t, err, "declared tables do not grow columns from records")
}

func TestRegistryGetAndTables(t *testing.T) {
	registry := NewSchemaRegistry()

	_, found := registry.Get("missing")
	assert.False(t, found)

	registry.Declare("a", map[string]DataType{"x": String})
	registry.Declare("b", map[string]DataType{"y": String})

	_, found = registry.Get("a")
	assert.True(t, found)
	assert.ElementsMatch(t, []string{"a", "b"}, registry.Tables())
}

func TestNoteBoolInferenceFiresOnce(t *testing.T) {
	registry := NewSchemaRegistry()
	decl := registry.GetOrCreate("public.flags", Record{"active": true})

	assert.True(t, decl.NoteBoolInference(), "first call reports first use")
	assert.False(t, decl.NoteBoolInference())
	assert.False(t, decl.NoteBoolInference())
}
