package types

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Record is one raw row scoped to a single stream; keys are field names.
type Record map[string]any

func (r Record) GetStringifiedJSONValue(key string) (string, error) {
	value := r[key]
	switch value.(type) {
	case struct{}, map[string]interface{}, []interface{}:
		s, err := json.Marshal(value)
		return string(s), err
	default:
		return fmt.Sprintf("%v", r[key]), nil
	}
}

// RawRecord is the wire form handed to destination writers. Data holds values
// already converted by the emitter; a record is immutable once created.
type RawRecord struct {
	Data          Record    `json:"data"`
	RecordID      string    `json:"record_id"`
	OperationType string    `json:"operation_type"` // "r" for read, "u" for upsert
	EmittedAt     time.Time `json:"emitted_at"`
}

func CreateRawRecord(recordID string, data Record, operationType string) RawRecord {
	return RawRecord{
		RecordID:      recordID,
		Data:          data,
		OperationType: operationType,
		EmittedAt:     time.Now().UTC(),
	}
}
