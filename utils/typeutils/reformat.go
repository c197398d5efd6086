package typeutils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/inletio/inlet/constants"
	"github.com/inletio/inlet/types"
)

var (
	ErrNullValue = errors.New("null value")

	// ErrArrayValue is fatal: callers are expected to pre-flatten
	// iterable-valued fields into strings or JSON before emitting.
	ErrArrayValue = fmt.Errorf("%w: array valued field reached the emitter", constants.ErrNonRetryable)
)

// ReformatValue converts a raw value into the exact declared destination
// type. A value that cannot be converted is a fatal, non-retryable error;
// there is no partial-record salvage.
func ReformatValue(dt types.DataType, v any) (any, error) {
	if v == nil {
		return nil, ErrNullValue
	}

	switch dt {
	case types.Bool:
		return ReformatBool(v)
	case types.Int32:
		value, err := ReformatInt64(v)
		if err != nil {
			return nil, err
		}
		if value > math.MaxInt32 || value < math.MinInt32 {
			return nil, fmt.Errorf("%w: value [%v] out of int32 range", constants.ErrNonRetryable, v)
		}
		return int32(value), nil
	case types.Int64:
		return ReformatInt64(v)
	case types.Float32:
		value, err := ReformatFloat64(v)
		if err != nil {
			return nil, err
		}
		return float32(value), nil
	case types.Float64, types.Decimal:
		return ReformatFloat64(v)
	case types.String:
		return reformatString(v)
	case types.Binary:
		switch value := v.(type) {
		case []byte:
			return value, nil
		case string:
			return []byte(value), nil
		default:
			return nil, fmt.Errorf("%w: value of type %T is not convertible to binary", constants.ErrNonRetryable, v)
		}
	case types.Date:
		t, err := ReformatDate(v)
		if err != nil {
			return nil, err
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	case types.TimestampNTZ:
		t, err := ReformatDate(v)
		if err != nil {
			return nil, err
		}
		// naive datetime keeps the wall clock and drops the zone
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
	case types.Timestamp, types.TimestampMilli, types.TimestampMicro, types.TimestampNano:
		t, err := ReformatDate(v)
		if err != nil {
			return nil, err
		}
		return t.UTC(), nil
	case types.Object:
		switch value := v.(type) {
		case string:
			return value, nil
		case map[string]any, []any:
			content, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("%w: failed to serialize object: %s", constants.ErrNonRetryable, err)
			}
			return string(content), nil
		default:
			return nil, fmt.Errorf("%w: value of type %T is not convertible to object", constants.ErrNonRetryable, v)
		}
	case types.Array:
		return nil, ErrArrayValue
	default:
		return nil, fmt.Errorf("%w: unsupported declared type [%s]", constants.ErrNonRetryable, dt)
	}
}

func ReformatBool(v any) (bool, error) {
	switch value := v.(type) {
	case bool:
		return value, nil
	case string:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("%w: value [%s] is not convertible to boolean", constants.ErrNonRetryable, value)
		}
		return parsed, nil
	case int, int8, int16, int32, int64:
		num, _ := ReformatInt64(v)
		return num != 0, nil
	default:
		return false, fmt.Errorf("%w: value of type %T is not convertible to boolean", constants.ErrNonRetryable, v)
	}
}

func ReformatInt64(v any) (int64, error) {
	switch value := v.(type) {
	case int:
		return int64(value), nil
	case int8:
		return int64(value), nil
	case int16:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case int64:
		return value, nil
	case uint:
		return int64(value), nil
	case uint8:
		return int64(value), nil
	case uint16:
		return int64(value), nil
	case uint32:
		return int64(value), nil
	case uint64:
		if value > uint64(math.MaxInt64) {
			return 0, fmt.Errorf("%w: value [%d] overflows int64", constants.ErrNonRetryable, value)
		}
		return int64(value), nil
	case float32:
		return int64(value), nil
	case float64:
		return int64(value), nil
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: value [%s] is not convertible to integer", constants.ErrNonRetryable, value)
		}
		return parsed, nil
	case string:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: value [%s] is not convertible to integer", constants.ErrNonRetryable, value)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%w: value of type %T is not convertible to integer", constants.ErrNonRetryable, v)
	}
}

func ReformatFloat64(v any) (float64, error) {
	switch value := v.(type) {
	case float32:
		return float64(value), nil
	case float64:
		return value, nil
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: value [%s] is not convertible to number", constants.ErrNonRetryable, value)
		}
		return parsed, nil
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: value [%s] is not convertible to number", constants.ErrNonRetryable, value)
		}
		return parsed, nil
	default:
		num, err := ReformatInt64(v)
		if err != nil {
			return 0, fmt.Errorf("%w: value of type %T is not convertible to number", constants.ErrNonRetryable, v)
		}
		return float64(num), nil
	}
}

// ReformatDate accepts a native date/time value or a string in a recognized
// ISO-8601-like layout.
func ReformatDate(v any) (time.Time, error) {
	switch value := v.(type) {
	case time.Time:
		return value, nil
	case *time.Time:
		if value == nil {
			return time.Time{}, ErrNullValue
		}
		return *value, nil
	case Time:
		return value.Time, nil
	case string:
		parsed, err := parseStringTimestamp(value)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", constants.ErrNonRetryable, err)
		}
		return parsed, nil
	case int64:
		// unix epoch seconds
		return time.Unix(value, 0).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: value of type %T is not convertible to timestamp", constants.ErrNonRetryable, v)
	}
}

func reformatString(v any) (string, error) {
	switch value := v.(type) {
	case string:
		return value, nil
	case []byte:
		return string(value), nil
	case time.Time:
		return value.Format(time.RFC3339Nano), nil
	case map[string]any, []any:
		content, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("%w: failed to stringify value: %s", constants.ErrNonRetryable, err)
		}
		return string(content), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// FormatCursorValue makes a cursor value safe to persist in the state file:
// timestamps become RFC3339Nano strings, everything else passes through.
func FormatCursorValue(v any) any {
	switch value := v.(type) {
	case time.Time:
		return value.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if value == nil {
			return nil
		}
		return value.UTC().Format(time.RFC3339Nano)
	case Time:
		return value.UTC().Format(time.RFC3339Nano)
	default:
		return v
	}
}
