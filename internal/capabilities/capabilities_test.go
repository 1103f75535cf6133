package capabilities

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice-engine/internal/gate"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStoreExpires(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(time.Minute, clock.Now)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "u1", gate.NewCapabilities(gate.CapGRNView)))
	caps, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, caps.Has(gate.CapGRNView))

	clock.Advance(59 * time.Second)
	_, ok, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)

	clock.Advance(time.Second)
	_, ok, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, store.Set(ctx, "", gate.NewCapabilities()), ErrUserRequired)
}

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStoreRoundTripAndTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "u1", gate.NewCapabilities(gate.CapSaleInvoiceEdit, gate.CapSaleInvoiceView)))
	caps, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{gate.CapSaleInvoiceEdit, gate.CapSaleInvoiceView}, caps.List())
	require.True(t, mr.Exists("capabilities:u1"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "u2", gate.NewCapabilities(gate.CapGRNView)))
	require.NoError(t, store.Invalidate(ctx, "u2"))
	require.False(t, mr.Exists("capabilities:u2"))
}

func TestResolverLoadsOnceAndCaches(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	loader := LoaderFunc(func(ctx context.Context, userID string) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{gate.CapGRNView, gate.CapGRNEdit}, nil
	})
	resolver := NewResolver(NewMemoryStore(time.Minute, nil), loader)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]gate.Capabilities, 8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = resolver.Resolve(ctx, "u1")
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load())
	for i, caps := range results {
		require.NoError(t, errs[i])
		require.True(t, caps.HasAll(gate.CapGRNView, gate.CapGRNEdit))
	}

	_, err := resolver.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())

	require.NoError(t, resolver.Invalidate(ctx, "u1"))
	_, err = resolver.Resolve(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestResolverWithRedisAndStaticLoader(t *testing.T) {
	store, _ := newRedisStore(t, time.Minute)
	resolver := NewResolver(store, StaticLoader{"clerk": {"SALE_INVOICES_VIEW"}})

	caps, err := resolver.Resolve(context.Background(), "clerk")
	require.NoError(t, err)
	require.True(t, caps.Has(gate.CapSaleInvoiceView))

	caps, err = resolver.Resolve(context.Background(), "stranger")
	require.NoError(t, err)
	require.Zero(t, caps.Len())

	_, err = resolver.Resolve(context.Background(), "")
	require.ErrorIs(t, err, ErrUserRequired)
}

func TestResolverPropagatesLoaderError(t *testing.T) {
	boom := errors.New("directory down")
	resolver := NewResolver(NewMemoryStore(time.Minute, nil), LoaderFunc(func(context.Context, string) ([]string, error) {
		return nil, boom
	}))
	_, err := resolver.Resolve(context.Background(), "u1")
	require.ErrorIs(t, err, boom)
}
