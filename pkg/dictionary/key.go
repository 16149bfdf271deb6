package dictionary

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// KeyKind is the type a dictionary coerces its keys to.
type KeyKind int

const (
	// KeyInt coerces keys to int64.
	KeyInt KeyKind = iota
	// KeyString coerces keys to string.
	KeyString
	// KeyUUID coerces keys to uuid.UUID.
	KeyUUID
)

// String returns the config name of the kind.
func (k KeyKind) String() string {
	switch k {
	case KeyInt:
		return "int"
	case KeyString:
		return "string"
	case KeyUUID:
		return "uuid"
	default:
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}
}

// ParseKeyKind parses "int", "string" or "uuid" (case-insensitive).
// An empty string yields KeyInt.
func ParseKeyKind(s string) (KeyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "int", "integer":
		return KeyInt, nil
	case "string", "str":
		return KeyString, nil
	case "uuid":
		return KeyUUID, nil
	default:
		return 0, fmt.Errorf("key type %q: %w", s, ErrInvalidConfig)
	}
}

// Coerce converts key to the kind's Go type (int64, string or uuid.UUID).
// It reports false when there is no unambiguous conversion.
func (k KeyKind) Coerce(key any) (any, bool) {
	switch k {
	case KeyString:
		return CoerceString(key)
	case KeyUUID:
		return CoerceUUID(key)
	default:
		return CoerceInt(key)
	}
}

// CoerceString converts strings, byte slices, integers and integral floats
// to a string. nil, bools and everything else are rejected.
func CoerceString(key any) (any, bool) {
	switch v := key.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return formatIntegral(float64(v))
	case float64:
		return formatIntegral(v)
	}
	return nil, false
}

// CoerceInt converts integers, integral floats and decimal integer strings
// to int64. Empty strings, nil and out-of-range values are rejected.
func CoerceInt(key any) (any, bool) {
	switch v := key.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return uintToInt64(uint64(v))
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return uintToInt64(v)
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	case json.Number:
		return parseDecimal(v.String())
	case string:
		return parseDecimal(v)
	case []byte:
		return parseDecimal(string(v))
	}
	return nil, false
}

// CoerceUUID converts uuid.UUID values, 16-byte arrays and UUID strings.
// The nil UUID is rejected.
func CoerceUUID(key any) (any, bool) {
	var id uuid.UUID
	switch v := key.(type) {
	case uuid.UUID:
		id = v
	case [16]byte:
		id = uuid.UUID(v)
	case string:
		parsed, err := uuid.Parse(strings.TrimSpace(v))
		if err != nil {
			return nil, false
		}
		id = parsed
	case []byte:
		parsed, err := uuid.ParseBytes(v)
		if err != nil {
			return nil, false
		}
		id = parsed
	default:
		return nil, false
	}
	if id == uuid.Nil {
		return nil, false
	}
	return id, true
}

func parseDecimal(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	digits := s
	if digits[0] == '+' || digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" {
		return nil, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, false
	}
	return n, true
}

func uintToInt64(v uint64) (any, bool) {
	if v > math.MaxInt64 {
		return nil, false
	}
	return int64(v), true
}

func floatToInt64(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, false
	}
	return int64(f), true
}

func formatIntegral(f float64) (any, bool) {
	n, ok := floatToInt64(f)
	if !ok {
		return nil, false
	}
	return strconv.FormatInt(n.(int64), 10), true
}
