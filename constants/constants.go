package constants

import (
	"errors"
	"time"
)

type DriverType string

const (
	Postgres DriverType = "postgres"
	REST     DriverType = "rest"
)

const (
	ParquetFileExt = "parquet"
	InletID        = "_inlet_id"
	InletTimestamp = "_inlet_timestamp"
	OpType         = "_op_type"

	// viper keys
	ConfigFolder = "CONFIG_FOLDER"
	StatePath    = "STATE_PATH"
	StreamsPath  = "STREAMS_PATH"

	DefaultRetryCount  = 3
	DefaultThreadCount = 3
	DefaultRetryDelay  = time.Second

	// DefaultPageSize is the number of rows requested per fetch when a driver
	// does not configure its own page size.
	DefaultPageSize = 10000

	// CheckpointRecordThreshold bounds how many rows can be emitted inside a
	// single page before the cursor is persisted again. Page boundaries always
	// checkpoint regardless of this threshold.
	CheckpointRecordThreshold = 10000
)

var (
	// ErrNonRetryable marks failures that must not be retried with backoff,
	// e.g. permanent HTTP 4xx responses or malformed response bodies.
	ErrNonRetryable = errors.New("non retryable error")

	// ErrGlobalContextGroup is surfaced when the shared connection group has
	// already failed and dependent work must stop.
	ErrGlobalContextGroup = errors.New("global context group failed")
)
