package dictionary

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Definition is one entry of a static dictionary.
// NewStatic defaults an empty Label to the title-cased key.
type Definition struct {
	Key   string
	Label string
	Meta  map[string]any
}

// KeyLabel pairs a key with its label.
type KeyLabel struct {
	Key   string
	Label string
}

// Static is an in-memory dictionary with string keys. Entries keep the order
// they were defined in. Static is safe for concurrent use.
type Static struct {
	order []string
	defns map[string]Definition
}

var _ Dictionary = (*Static)(nil)

// NewStatic builds a dictionary from definitions. When a key is defined
// twice the later definition wins but the entry keeps its first position.
// An empty Label defaults to the title-cased key.
func NewStatic(defs []Definition) *Static {
	return newStatic(defs, true)
}

// FromKeys builds a dictionary whose labels are the title-cased keys.
func FromKeys(keys ...string) *Static {
	defs := make([]Definition, len(keys))
	for i, k := range keys {
		defs[i] = Definition{Key: k}
	}
	return newStatic(defs, true)
}

// FromLabels builds a dictionary from explicit key/label pairs.
// Labels are used as given, including empty ones.
func FromLabels(pairs []KeyLabel) *Static {
	defs := make([]Definition, len(pairs))
	for i, p := range pairs {
		defs[i] = Definition{Key: p.Key, Label: p.Label}
	}
	return newStatic(defs, false)
}

func newStatic(defs []Definition, defaultLabels bool) *Static {
	s := &Static{
		order: make([]string, 0, len(defs)),
		defns: make(map[string]Definition, len(defs)),
	}
	for _, d := range defs {
		if _, exists := s.defns[d.Key]; !exists {
			s.order = append(s.order, d.Key)
		}
		label := d.Label
		if label == "" && defaultLabels {
			label = TitleCase(d.Key)
		}
		s.defns[d.Key] = Definition{
			Key:   d.Key,
			Label: label,
			Meta:  copyMeta(d.Meta),
		}
	}
	return s
}

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// CoerceKey implements Dictionary. Static dictionaries use string keys.
func (s *Static) CoerceKey(key any) (any, bool) {
	return CoerceString(key)
}

func (s *Static) lookup(key any) (Definition, string, bool) {
	coerced, ok := s.CoerceKey(key)
	if !ok {
		return Definition{}, "", false
	}
	k := coerced.(string)
	d, ok := s.defns[k]
	return d, k, ok
}

func (s *Static) valueOf(d Definition) Value {
	return NewValue(d.Key, d.Label, d.Meta)
}

// Has implements Dictionary.
func (s *Static) Has(_ context.Context, key any) (bool, error) {
	_, _, ok := s.lookup(key)
	return ok, nil
}

// Label implements Dictionary.
func (s *Static) Label(_ context.Context, key any) (string, bool, error) {
	d, _, ok := s.lookup(key)
	if !ok {
		return "", false, nil
	}
	return s.valueOf(d).Label(), true, nil
}

// Meta implements Dictionary.
func (s *Static) Meta(_ context.Context, key any, metaKey string) (any, bool, error) {
	d, _, ok := s.lookup(key)
	if !ok {
		return nil, false, nil
	}
	m, ok := d.Meta[metaKey]
	return m, ok, nil
}

// Get implements Dictionary.
func (s *Static) Get(_ context.Context, key any) (Value, bool, error) {
	d, _, ok := s.lookup(key)
	if !ok {
		return Value{}, false, nil
	}
	return s.valueOf(d), true, nil
}

// All implements Dictionary.
func (s *Static) All(_ context.Context) ([]Value, error) {
	out := make([]Value, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.valueOf(s.defns[k]))
	}
	return out, nil
}

// AllKeys implements Dictionary.
func (s *Static) AllKeys(_ context.Context) ([]any, error) {
	out := make([]any, len(s.order))
	for i, k := range s.order {
		out[i] = k
	}
	return out, nil
}

// Len returns the number of entries.
func (s *Static) Len() int { return len(s.order) }
