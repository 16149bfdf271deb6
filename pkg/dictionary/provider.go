package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/singleflight"
)

// Getter resolves a dictionary by name. It returns (nil, nil) when it does
// not know the name, so the next getter is tried.
type Getter func(ctx context.Context, name string) (Dictionary, error)

// Named returns a Getter that only answers to name and builds the dictionary
// with factory.
func Named(name string, factory func(ctx context.Context) (Dictionary, error)) Getter {
	return func(ctx context.Context, n string) (Dictionary, error) {
		if n != name {
			return nil, nil
		}
		return factory(ctx)
	}
}

// Fixed returns a Getter that answers to name with an existing dictionary.
func Fixed(name string, d Dictionary) Getter {
	return Named(name, func(context.Context) (Dictionary, error) { return d, nil })
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithProviderLogger sets the logger. Defaults to slog.Default().
func WithProviderLogger(l *slog.Logger) ProviderOption {
	return func(p *Provider) { p.log = l }
}

// Provider resolves dictionaries by name. Getters are tried in registration
// order; the first non-nil dictionary is cached under the name, so each
// name's getters run at most once, even with concurrent callers.
// Provider is safe for concurrent use.
type Provider struct {
	log *slog.Logger

	mu      sync.RWMutex
	getters []Getter

	cache *xsync.MapOf[string, Dictionary]
	group singleflight.Group
}

// NewProvider creates an empty Provider.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		log:   slog.Default(),
		cache: xsync.NewMapOf[string, Dictionary](),
	}
	for _, fn := range opts {
		fn(p)
	}
	p.log = p.log.With("component", "dictionary_provider")
	return p
}

// Register appends a getter. Getters registered later are only consulted
// for names that earlier getters do not resolve.
func (p *Provider) Register(g Getter) {
	if g == nil {
		return
	}
	p.mu.Lock()
	p.getters = append(p.getters, g)
	p.mu.Unlock()
}

// Dictionary returns the dictionary registered under name.
// Returns ErrUnknownDictionary when no getter resolves it. Getter errors are
// returned as-is (wrapped) and nothing is cached.
//
// Concurrent first lookups of one name share a single getter run. The run
// is detached from the callers' cancellation; a caller whose ctx ends stops
// waiting with ctx.Err() while the others still get the result.
func (p *Provider) Dictionary(ctx context.Context, name string) (Dictionary, error) {
	if d, ok := p.cache.Load(name); ok {
		return d, nil
	}

	resolveCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan(name, func() (any, error) {
		// Another caller may have finished while we waited on the group.
		if d, ok := p.cache.Load(name); ok {
			return d, nil
		}
		d, err := p.resolve(resolveCtx, name)
		if err != nil {
			return nil, err
		}
		p.cache.Store(name, d)
		return d, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Dictionary), nil
	}
}

// Searchable returns the named dictionary if it supports search.
// Returns ErrNotSearchable when it exists but cannot be searched.
func (p *Provider) Searchable(ctx context.Context, name string) (Searchable, error) {
	d, err := p.Dictionary(ctx, name)
	if err != nil {
		return nil, err
	}
	s, ok := d.(Searchable)
	if !ok {
		return nil, fmt.Errorf("dictionary %q: %w", name, ErrNotSearchable)
	}
	return s, nil
}

// Forget drops the cached instance for name. The next lookup runs the
// getters again.
func (p *Provider) Forget(name string) {
	p.cache.Delete(name)
}

// Names returns the names of the dictionaries resolved so far, sorted.
func (p *Provider) Names() []string {
	names := make([]string, 0, p.cache.Size())
	p.cache.Range(func(name string, _ Dictionary) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

func (p *Provider) resolve(ctx context.Context, name string) (Dictionary, error) {
	p.mu.RLock()
	getters := make([]Getter, len(p.getters))
	copy(getters, p.getters)
	p.mu.RUnlock()

	for i, g := range getters {
		d, err := g(ctx, name)
		if err != nil {
			p.log.ErrorContext(ctx, "dictionary getter failed",
				slog.String("dictionary", name),
				slog.Int("getter", i),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("resolve dictionary %q: %w", name, err)
		}
		if d != nil {
			p.log.DebugContext(ctx, "dictionary resolved",
				slog.String("dictionary", name),
				slog.Int("getter", i),
			)
			return d, nil
		}
	}

	return nil, fmt.Errorf("dictionary %q: %w", name, ErrUnknownDictionary)
}
