package typeutils

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/inletio/inlet/types"
)

// Flattener prepares raw source records for the emitter: column names are
// normalized, scalars pass through, and anything nested or iterable is
// serialized to JSON text so no array ever reaches typed conversion.
type Flattener interface {
	Flatten(record types.Record) (types.Record, error)
}

type flattener struct {
	// normalized column names, keyed by the raw source name
	keys sync.Map
}

func NewFlattener() Flattener {
	return &flattener{}
}

func (f *flattener) Flatten(record types.Record) (types.Record, error) {
	flattened := make(types.Record, len(record))

	for rawKey, value := range record {
		if value == nil {
			continue
		}

		key := f.normalizeKey(rawKey)
		switch typed := value.(type) {
		case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, string, time.Time:
			flattened[key] = typed
		case []byte:
			flattened[key] = string(typed)
		default:
			serialized, err := json.Marshal(typed)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize column [%s]: %s", rawKey, err)
			}
			flattened[key] = string(serialized)
		}
	}

	return flattened, nil
}

func (f *flattener) normalizeKey(key string) string {
	if cached, found := f.keys.Load(key); found {
		return cached.(string)
	}

	normalized := strings.ToLower(strings.TrimSpace(key))
	f.keys.Store(key, normalized)
	return normalized
}
