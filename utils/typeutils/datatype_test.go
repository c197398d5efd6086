package typeutils

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"

	"github.com/inletio/inlet/types"
)

func TestTypeFromValueScalars(t *testing.T) {
	cases := []struct {
		name     string
		value    any
		expected types.DataType
	}{
		{"nil", nil, types.Null},
		{"bool", true, types.Bool},
		{"int", 42, types.Int32},
		{"int64", int64(42), types.Int64},
		{"float64", 3.14, types.Float64},
		{"float32", float32(3.14), types.Float32},
		{"string", "hello", types.String},
		{"bytes", []byte{0x01}, types.Binary},
		{"array", []any{1, 2}, types.Array},
		{"object", map[string]any{"a": 1}, types.Object},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, TypeFromValue(c.value))
		})
	}
}

func TestTypeFromValueWideIntegersBecomeFloat(t *testing.T) {
	// uint64 beyond int64 range cannot be represented as integer
	assert.Equal(t, types.Float64, TypeFromValue(uint64(math.MaxUint64)))
	assert.Equal(t, types.Int64, TypeFromValue(uint64(42)))

	// json.Number with a value beyond int64 fails Int64() and widens
	assert.Equal(t, types.Float64, TypeFromValue(json.Number("18446744073709551615")))
	assert.Equal(t, types.Int64, TypeFromValue(json.Number("42")))
}

func TestTypeFromValueTimestampStrings(t *testing.T) {
	assert.Equal(t, types.TimestampMicro, TypeFromValue("2025-08-12T15:00:00.123456+00:00"))
	assert.Equal(t, types.Timestamp, TypeFromValue("2025-08-12T15:00:00Z"))
	assert.Equal(t, types.String, TypeFromValue("not-a-date"))
}

func TestTypeFromValueNilPointers(t *testing.T) {
	var p *int64
	assert.Equal(t, types.Null, TypeFromValue(p))

	value := int64(7)
	assert.Equal(t, types.Int64, TypeFromValue(&value))
}

func TestExtractAndMapColumnType(t *testing.T) {
	mapping := map[string]types.DataType{
		"varchar": types.String,
		"numeric": types.Decimal,
	}

	assert.Equal(t, types.String, ExtractAndMapColumnType("VARCHAR(50)", mapping))
	assert.Equal(t, types.Decimal, ExtractAndMapColumnType("numeric(10,2)", mapping))
}
