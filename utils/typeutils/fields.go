package typeutils

import (
	"github.com/inletio/inlet/types"
)

// Fields is the working set of column declarations built while resolving a
// batch of records.
type Fields map[string]*Field

type Field struct {
	dataType types.DataType
	nullable bool
}

func NewField(dataType types.DataType) *Field {
	return &Field{
		dataType: dataType,
		nullable: dataType == types.Null,
	}
}

func (f *Field) getType() types.DataType {
	if f.dataType == types.Null || f.dataType == "" {
		return types.Unknown
	}
	return f.dataType
}

func (f *Field) isNullable() bool {
	return f.nullable
}

func (f *Field) setNullable() {
	f.nullable = true
}

// merge widens the field type when occurrences disagree across records.
func (f *Field) merge(other *Field) {
	if other.nullable {
		f.nullable = true
	}

	a, b := f.getType(), other.getType()
	switch {
	case a == b:
	case a == types.Unknown:
		f.dataType = b
	case b == types.Unknown:
	case isInteger(a) && isInteger(b):
		f.dataType = types.Int64
	case isNumeric(a) && isNumeric(b):
		f.dataType = types.Float64
	case isTimestamp(a) && isTimestamp(b):
		f.dataType = maxTimestampPrecision(a, b)
	default:
		// conflicting variants fall back to string, never silently
		f.dataType = types.String
	}
}

// Merge combines fields from another record into the accumulated set.
func (f Fields) Merge(other Fields) {
	for name, field := range other {
		if existing, found := f[name]; found {
			existing.merge(field)
			continue
		}
		f[name] = field
	}
}

func isInteger(d types.DataType) bool {
	return d == types.Int32 || d == types.Int64
}

func isNumeric(d types.DataType) bool {
	return isInteger(d) || d == types.Float32 || d == types.Float64
}

func isTimestamp(d types.DataType) bool {
	switch d {
	case types.Timestamp, types.TimestampMilli, types.TimestampMicro, types.TimestampNano:
		return true
	}
	return false
}

var timestampPrecisionOrder = map[types.DataType]int{
	types.Timestamp:      0,
	types.TimestampMilli: 1,
	types.TimestampMicro: 2,
	types.TimestampNano:  3,
}

func maxTimestampPrecision(a, b types.DataType) types.DataType {
	if timestampPrecisionOrder[a] >= timestampPrecisionOrder[b] {
		return a
	}
	return b
}
