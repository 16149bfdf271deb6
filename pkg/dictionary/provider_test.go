package dictionary

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchableStub is a Static that also answers Search.
type searchableStub struct {
	*Static
}

func (s searchableStub) Search(ctx context.Context, _ string, _ SearchOptions) (*SearchResult, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return NewSearchResult().SetValues(all), nil
}

func TestProvider_FactoryRunsOncePerName(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32

	p := NewProvider()
	p.Register(Named("fruits", func(context.Context) (Dictionary, error) {
		calls.Add(1)
		return FromKeys("apple", "pear"), nil
	}))

	first, err := p.Dictionary(ctx, "fruits")
	require.NoError(t, err)
	second, err := p.Dictionary(ctx, "fruits")
	require.NoError(t, err)

	assert.Same(t, first.(*Static), second.(*Static))
	assert.Equal(t, int32(1), calls.Load())

	label, ok, err := second.Label(ctx, "pear")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Pear", label)
}

func TestProvider_GettersInOrder(t *testing.T) {
	ctx := context.Background()

	p := NewProvider()
	p.Register(Fixed("cheeses", FromKeys("brie")))
	p.Register(func(_ context.Context, name string) (Dictionary, error) {
		// Catch-all: any name becomes a one-entry dictionary.
		return FromKeys(name), nil
	})
	p.Register(Fixed("cheeses", FromKeys("cheddar")))
	p.Register(nil)

	cheeses, err := p.Dictionary(ctx, "cheeses")
	require.NoError(t, err)
	has, err := cheeses.Has(ctx, "brie")
	require.NoError(t, err)
	assert.True(t, has, "earlier getters win")

	other, err := p.Dictionary(ctx, "anything")
	require.NoError(t, err)
	has, err = other.Has(ctx, "anything")
	require.NoError(t, err)
	assert.True(t, has)

	assert.Equal(t, []string{"anything", "cheeses"}, p.Names())
}

func TestProvider_Unknown(t *testing.T) {
	p := NewProvider()
	p.Register(Fixed("fruits", FromKeys("apple")))

	d, err := p.Dictionary(context.Background(), "veg")
	require.Error(t, err)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrUnknownDictionary)

	_, err = p.Searchable(context.Background(), "veg")
	assert.ErrorIs(t, err, ErrUnknownDictionary)
	assert.Empty(t, p.Names())
}

func TestProvider_Searchable(t *testing.T) {
	ctx := context.Background()

	p := NewProvider()
	p.Register(Fixed("veg", FromKeys("carrot")))
	p.Register(Fixed("fruits", searchableStub{FromKeys("apple", "pear")}))

	_, err := p.Searchable(ctx, "veg")
	assert.ErrorIs(t, err, ErrNotSearchable)

	s, err := p.Searchable(ctx, "fruits")
	require.NoError(t, err)
	res, err := s.Search(ctx, "", SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Len())
}

func TestProvider_GetterErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	var calls atomic.Int32

	p := NewProvider()
	p.Register(Named("flaky", func(context.Context) (Dictionary, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return FromKeys("ok"), nil
	}))

	_, err := p.Dictionary(ctx, "flaky")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUnknownDictionary)

	d, err := p.Dictionary(ctx, "flaky")
	require.NoError(t, err)
	assert.NotNil(t, d)
	assert.Equal(t, int32(2), calls.Load())
}

func TestProvider_Forget(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32

	p := NewProvider()
	p.Register(Named("fruits", func(context.Context) (Dictionary, error) {
		calls.Add(1)
		return FromKeys("apple"), nil
	}))

	_, err := p.Dictionary(ctx, "fruits")
	require.NoError(t, err)
	p.Forget("fruits")
	assert.Empty(t, p.Names())

	_, err = p.Dictionary(ctx, "fruits")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestProvider_ConcurrentFirstUse(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	release := make(chan struct{})

	p := NewProvider()
	p.Register(Named("slow", func(context.Context) (Dictionary, error) {
		calls.Add(1)
		<-release
		return FromKeys("x"), nil
	}))

	const workers = 16
	var wg sync.WaitGroup
	results := make([]Dictionary, workers)
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = p.Dictionary(ctx, "slow")
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := range workers {
		require.NoError(t, errs[i])
		assert.Same(t, results[0].(*Static), results[i].(*Static))
	}
}

func TestProvider_CancelledCallerDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	p := NewProvider()
	p.Register(Named("slow", func(ctx context.Context) (Dictionary, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return FromKeys("x"), nil
	}))

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := p.Dictionary(firstCtx, "slow")
		firstErr <- err
	}()
	<-started

	type result struct {
		d   Dictionary
		err error
	}
	second := make(chan result, 1)
	go func() {
		d, err := p.Dictionary(context.Background(), "slow")
		second <- result{d, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.NotNil(t, res.d)
	assert.Equal(t, int32(1), calls.Load())

	d, err := p.Dictionary(context.Background(), "slow")
	require.NoError(t, err)
	assert.Same(t, res.d.(*Static), d.(*Static))
}
