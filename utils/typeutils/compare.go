package typeutils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Compare orders two cursor values: 0 for equal, -1 when a sorts before b,
// 1 when a sorts after b. Values read back from a state file may arrive as
// strings; timestamps are parsed before falling back to string ordering.
func Compare(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	if aInt, ok := toInt64(a); ok {
		if bInt, ok := toInt64(b); ok {
			return orderInt(aInt, bInt)
		}
	}

	if aUint, ok := toUint64(a); ok {
		if bUint, ok := toUint64(b); ok {
			switch {
			case aUint < bUint:
				return -1
			case aUint > bUint:
				return 1
			}
			return 0
		}
	}

	// mixed numeric kinds, e.g. an int64 row value against a float64 read
	// back from JSON state, promote to float
	if aNum, ok := asNumber(a); ok {
		if bNum, ok := asNumber(b); ok {
			return orderFloat(aNum, bNum)
		}
	}

	if aTime, ok := a.(time.Time); ok {
		// b may be the string form persisted in state
		if bTime, err := ReformatDate(b); err == nil {
			return aTime.Compare(bTime)
		}
	}

	if aBool, ok := a.(bool); ok {
		if bBool, ok := b.(bool); ok {
			return orderBool(aBool, bBool)
		}
	}

	if aCustom, ok := a.(Time); ok {
		if bCustom, ok := b.(Time); ok {
			return aCustom.Compare(bCustom)
		}
	}

	// both sides parseable as timestamps compare chronologically
	if aTime, err := ReformatDate(a); err == nil {
		if bTime, err := ReformatDate(b); err == nil {
			return aTime.Compare(bTime)
		}
	}

	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

func orderInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func orderFloat(a, b float64) int {
	if math.IsNaN(a) {
		if math.IsNaN(b) {
			return 0
		}
		return -1
	}
	if math.IsNaN(b) {
		return 1
	}

	// exact ordering; fuzzy equality would stall cursors that advance in
	// sub-epsilon steps
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func orderBool(a, b bool) int {
	switch {
	case !a && b:
		return -1
	case a && !b:
		return 1
	}
	return 0
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	}
	return 0, false
}

func asNumber(v any) (float64, bool) {
	if n, ok := toInt64(v); ok {
		return float64(n), true
	}
	if n, ok := toUint64(v); ok {
		return float64(n), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
