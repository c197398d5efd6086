package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inletio/inlet/utils/typeutils"
)

func TestDataTypeConverterMappedTypes(t *testing.T) {
	p := &Postgres{}

	value, err := p.dataTypeConverter(int64(42), "bigint")
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)

	value, err = p.dataTypeConverter("true", "boolean")
	require.NoError(t, err)
	assert.Equal(t, true, value)

	// parametrized types resolve to their base type
	value, err = p.dataTypeConverter("hello", "varchar(50)")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
}

func TestDataTypeConverterUnmappedTypeFallsBackToString(t *testing.T) {
	p := &Postgres{}

	// column types outside the map convert as strings, matching discovery
	cases := map[string]struct {
		value      any
		columnType string
		expected   string
	}{
		"interval":   {"00:01:00", "INTERVAL", "00:01:00"},
		"inet":       {"10.0.0.1/32", "INET", "10.0.0.1/32"},
		"enum":       {"active", "mood", "active"},
		"text array": {[]byte(`{"a","b"}`), "_TEXT", `{"a","b"}`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			value, err := p.dataTypeConverter(tc.value, tc.columnType)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func TestDataTypeConverterNull(t *testing.T) {
	p := &Postgres{}

	_, err := p.dataTypeConverter(nil, "bigint")
	assert.ErrorIs(t, err, typeutils.ErrNullValue)
}
