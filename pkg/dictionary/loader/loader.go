// Package loader batches dictionary lookups issued by concurrent callers.
// A Loader is created per request (or per unit of work): it keeps results
// for its lifetime, and lookups issued within a short window are resolved
// with a single GetMany call when the dictionary supports it.
package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/dictionary/pkg/dictionary"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// Result is a batched lookup outcome.
type Result struct {
	Value dictionary.Value
	Found bool
}

// Loader batches Get calls against one dictionary.
type Loader struct {
	dict   dictionary.Dictionary
	loader *dataloader.Loader[any, Result]
}

// New creates a Loader for d.
func New(d dictionary.Dictionary) *Loader {
	return &Loader{
		dict: d,
		loader: dataloader.NewBatchedLoader(
			newBatchFn(d),
			dataloader.WithWait[any, Result](wait),
			dataloader.WithBatchCapacity[any, Result](maxBatch),
		),
	}
}

// Get returns the value for key, batching with other in-flight calls.
// Uncoercible keys are reported as not found without a lookup.
func (l *Loader) Get(ctx context.Context, key any) (dictionary.Value, bool, error) {
	k, ok := l.dict.CoerceKey(key)
	if !ok {
		return dictionary.Value{}, false, nil
	}
	r, err := l.loader.Load(ctx, k)()
	if err != nil {
		return dictionary.Value{}, false, err
	}
	return r.Value, r.Found, nil
}

// Label returns the label for key, batching with other in-flight calls.
func (l *Loader) Label(ctx context.Context, key any) (string, bool, error) {
	v, ok, err := l.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	return v.Label(), true, nil
}

// GetAll resolves many keys at once. The result has one entry per key.
func (l *Loader) GetAll(ctx context.Context, keys []any) ([]Result, error) {
	results := make([]Result, len(keys))
	coerced := make([]any, 0, len(keys))
	index := make([]int, 0, len(keys))
	for i, key := range keys {
		if k, ok := l.dict.CoerceKey(key); ok {
			coerced = append(coerced, k)
			index = append(index, i)
		}
	}

	loaded, errs := l.loader.LoadMany(ctx, coerced)()
	for j, r := range loaded {
		if j < len(errs) && errs[j] != nil {
			return nil, errs[j]
		}
		results[index[j]] = r
	}
	return results, nil
}

// Clear drops the loader's memoised result for key.
func (l *Loader) Clear(ctx context.Context, key any) {
	if k, ok := l.dict.CoerceKey(key); ok {
		l.loader.Clear(ctx, k)
	}
}

// ---------------------------------------------------------------------------
// Batch function
// ---------------------------------------------------------------------------

func newBatchFn(d dictionary.Dictionary) dataloader.BatchFunc[any, Result] {
	if bg, ok := d.(dictionary.BatchGetter); ok {
		return func(ctx context.Context, keys []any) []*dataloader.Result[Result] {
			found, err := bg.GetMany(ctx, keys)
			if err != nil {
				return errorResults(len(keys), err)
			}
			out := make([]*dataloader.Result[Result], len(keys))
			for i, k := range keys {
				v, ok := found[k]
				out[i] = &dataloader.Result[Result]{Data: Result{Value: v, Found: ok}}
			}
			return out
		}
	}

	return func(ctx context.Context, keys []any) []*dataloader.Result[Result] {
		out := make([]*dataloader.Result[Result], len(keys))
		for i, k := range keys {
			v, ok, err := d.Get(ctx, k)
			if err != nil {
				out[i] = &dataloader.Result[Result]{Error: fmt.Errorf("load %v: %w", k, err)}
				continue
			}
			out[i] = &dataloader.Result[Result]{Data: Result{Value: v, Found: ok}}
		}
		return out
	}
}

func errorResults(n int, err error) []*dataloader.Result[Result] {
	out := make([]*dataloader.Result[Result], n)
	for i := range out {
		out[i] = &dataloader.Result[Result]{Error: err}
	}
	return out
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "dictionary_loaders"

// Set is a per-request collection of loaders keyed by dictionary name.
type Set struct {
	provider *dictionary.Provider

	mu      sync.Mutex
	loaders map[string]*Loader
}

// NewSet creates an empty Set resolving dictionaries through p.
func NewSet(p *dictionary.Provider) *Set {
	return &Set{provider: p, loaders: make(map[string]*Loader)}
}

// For returns the loader for the named dictionary, creating it on first use.
func (s *Set) For(ctx context.Context, name string) (*Loader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.loaders[name]; ok {
		return l, nil
	}
	d, err := s.provider.Dictionary(ctx, name)
	if err != nil {
		return nil, err
	}
	l := New(d)
	s.loaders[name] = l
	return l, nil
}

// WithSet stores a Set in the context.
func WithSet(ctx context.Context, s *Set) context.Context {
	return context.WithValue(ctx, loadersKey, s)
}

// FromContext retrieves the Set from the context.
func FromContext(ctx context.Context) (*Set, bool) {
	s, ok := ctx.Value(loadersKey).(*Set)
	return s, ok && s != nil
}
