package typeutils

import (
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/inletio/inlet/types"
)

var timeType = reflect.TypeOf(time.Time{})

// TypeFromValue infers a destination type for a value in an "unknown" typed
// column. Total over the closed variant set; anything unrecognized lands on
// String rather than being dropped.
func TypeFromValue(v interface{}) types.DataType {
	if v == nil {
		return types.Null
	}

	switch val := v.(type) {
	case bool:
		return types.Bool
	case int, int8, int16, int32, uint, uint8, uint16, uint32:
		return types.Int32
	case int64:
		return types.Int64
	case uint64:
		// values beyond int64 magnitude widen to floating point
		if val > uint64(math.MaxInt64) {
			return types.Float64
		}
		return types.Int64
	case float32:
		return types.Float32
	case float64:
		return types.Float64
	case string:
		t, err := ReformatDate(v)
		if err == nil {
			return detectTimestampPrecision(t)
		}
		return types.String
	case []byte:
		return types.Binary
	case time.Time:
		return detectTimestampPrecision(val)
	case []any:
		return types.Array
	case map[string]any:
		return types.Object
	case *bool:
		if val == nil {
			return types.Null
		}
		return types.Bool
	case *int:
		if val == nil {
			return types.Null
		}
		return types.Int32
	case *int32:
		if val == nil {
			return types.Null
		}
		return types.Int32
	case *int64:
		if val == nil {
			return types.Null
		}
		return types.Int64
	case *float32:
		if val == nil {
			return types.Null
		}
		return types.Float32
	case *float64:
		if val == nil {
			return types.Null
		}
		return types.Float64
	case *string:
		if val == nil {
			return types.Null
		}
		t, err := ReformatDate(*val)
		if err == nil {
			return detectTimestampPrecision(t)
		}
		return types.String
	case *time.Time:
		if val == nil {
			return types.Null
		}
		return detectTimestampPrecision(*val)
	}

	return typeFromValueReflect(v)
}

// typeFromValueReflect handles types that require reflection
func typeFromValueReflect(v interface{}) types.DataType {
	valType := reflect.TypeOf(v)
	if valType == nil {
		return types.Null
	}
	// Handle pointers
	if valType.Kind() == reflect.Pointer {
		val := reflect.ValueOf(v)
		if val.IsNil() {
			return types.Null
		}
		return TypeFromValue(val.Elem().Interface())
	}

	// Handle json.Number (when using json.Decoder with UseNumber());
	// integers beyond int64 fail Int64() and widen to float
	if num, ok := v.(json.Number); ok {
		if _, err := num.Int64(); err == nil {
			return types.Int64
		}
		return types.Float64
	}

	switch valType.Kind() {
	case reflect.Invalid:
		return types.Null
	case reflect.Bool:
		return types.Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return types.Int32
	case reflect.Int64, reflect.Uint64:
		return types.Int64
	case reflect.Float32:
		return types.Float32
	case reflect.Float64:
		return types.Float64
	case reflect.String:
		// NOTE: strings in a recognized datetime format are detected as timestamps
		t, err := ReformatDate(v)
		if err == nil {
			return detectTimestampPrecision(t)
		}
		return types.String
	case reflect.Slice, reflect.Array:
		return types.Array
	case reflect.Map:
		return types.Object
	default:
		if valType == timeType {
			return detectTimestampPrecision(v.(time.Time))
		}
		return types.Unknown
	}
}

// Detect timestamp precision depending on time value
func detectTimestampPrecision(t time.Time) types.DataType {
	nanos := t.Nanosecond()
	if nanos == 0 {
		return types.Timestamp
	}
	switch {
	case nanos%int(time.Millisecond) == 0:
		return types.TimestampMilli
	case nanos%int(time.Microsecond) == 0:
		return types.TimestampMicro
	default:
		return types.TimestampNano
	}
}

func ExtractAndMapColumnType(columnType string, typeMapping map[string]types.DataType) types.DataType {
	// extracts the base type (e.g., varchar(50) -> varchar)
	baseType := strings.ToLower(strings.TrimSpace(strings.Split(columnType, "(")[0]))
	return typeMapping[baseType]
}
