package types

import (
	"github.com/parquet-go/parquet-go"
)

type DataType string

const (
	Null    DataType = "null"
	Bool    DataType = "boolean"
	Int32   DataType = "integer_small"
	Int64   DataType = "integer"
	Float32 DataType = "float"
	Float64 DataType = "number"
	Decimal DataType = "decimal"
	String  DataType = "string"
	Binary  DataType = "binary"
	Object  DataType = "object"
	Array   DataType = "array"
	Date    DataType = "date"
	// TimestampNTZ is a wall-clock datetime with no zone attached.
	TimestampNTZ DataType = "timestamp_ntz"
	// Timestamp* are UTC instants at increasing precision.
	Timestamp      DataType = "timestamp"
	TimestampMilli DataType = "timestamp_milli" // storing datetime upto 3 precisions
	TimestampMicro DataType = "timestamp_micro" // storing datetime upto 6 precisions
	TimestampNano  DataType = "timestamp_nano"  // storing datetime upto 9 precisions
	// Unknown means no type has been declared; the emitter infers the wire
	// type from the first value it sees.
	Unknown DataType = "unknown"
)

type SyncMode string

const (
	FULLREFRESH SyncMode = "full_refresh"
	INCREMENTAL SyncMode = "incremental"
)

// ToNewParquet maps a DataType onto a parquet-go node.
func (d DataType) ToNewParquet() parquet.Node {
	var node parquet.Node
	switch d {
	case Bool:
		node = parquet.Leaf(parquet.BooleanType)
	case Int32:
		node = parquet.Int(32)
	case Int64:
		node = parquet.Int(64)
	case Float32:
		node = parquet.Leaf(parquet.FloatType)
	case Float64, Decimal:
		node = parquet.Leaf(parquet.DoubleType)
	case Date:
		node = parquet.Date()
	case Timestamp, TimestampMilli:
		node = parquet.Timestamp(parquet.Millisecond)
	case TimestampNTZ, TimestampMicro:
		node = parquet.Timestamp(parquet.Microsecond)
	case TimestampNano:
		node = parquet.Timestamp(parquet.Nanosecond)
	case Binary:
		node = parquet.Leaf(parquet.ByteArrayType)
	case Object, Array:
		node = parquet.JSON()
	default:
		node = parquet.String()
	}

	return parquet.Optional(node)
}
