package dictionary

import (
	"encoding/json"
	"maps"
)

// Value is one dictionary entry: its coerced key, a display label and
// arbitrary metadata. Values are immutable; accessors return copies.
type Value struct {
	key   any
	label string
	meta  map[string]any
}

// NewValue creates a Value. The meta map is copied.
func NewValue(key any, label string, meta map[string]any) Value {
	return Value{
		key:   key,
		label: label,
		meta:  copyMeta(meta),
	}
}

// Key returns the coerced key.
func (v Value) Key() any { return v.key }

// Label returns the display label.
func (v Value) Label() string { return v.label }

// Meta returns a copy of all metadata. Never nil.
func (v Value) Meta() map[string]any { return copyMeta(v.meta) }

// MetaValue returns a single metadata attribute.
func (v Value) MetaValue(metaKey string) (any, bool) {
	m, ok := v.meta[metaKey]
	return m, ok
}

// HasMeta reports whether the metadata attribute exists.
func (v Value) HasMeta(metaKey string) bool {
	_, ok := v.meta[metaKey]
	return ok
}

// IsZero reports whether v was never initialised.
func (v Value) IsZero() bool {
	return v.key == nil && v.label == "" && v.meta == nil
}

// ToMap returns the value as {"key", "label", "meta"}.
func (v Value) ToMap() map[string]any {
	return map[string]any{
		"key":   v.key,
		"label": v.label,
		"meta":  v.Meta(),
	}
}

type valueJSON struct {
	Key   any            `json:"key"`
	Label string         `json:"label"`
	Meta  map[string]any `json:"meta"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{
		Key:   v.key,
		Label: v.label,
		Meta:  v.Meta(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. Numeric keys decode as float64,
// callers that need a typed key run it through Dictionary.CoerceKey.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw valueJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = NewValue(raw.Key, raw.Label, raw.Meta)
	return nil
}

func copyMeta(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	maps.Copy(out, meta)
	return out
}
