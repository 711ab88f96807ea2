package neows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/couchcryptid/asteroid-impact-service/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int
	err   error
}

func (m *countingSource) Lookup(_ context.Context, id string) (domain.NearEarthObject, error) {
	m.calls++
	if m.err != nil {
		return domain.NearEarthObject{}, m.err
	}
	return domain.NearEarthObject{ID: id, Name: "neo " + id, Diameter: 100, Velocity: 15}, nil
}

func TestCachedSource_Hit(t *testing.T) {
	inner := &countingSource{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedSource(inner, 10, metrics)

	n1, err := cached.Lookup(context.Background(), "2099942")
	require.NoError(t, err)
	n2, err := cached.Lookup(context.Background(), "2099942")
	require.NoError(t, err)

	assert.Equal(t, n1, n2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.NeoWsCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.NeoWsCache.WithLabelValues("miss")))
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	inner := &countingSource{err: domain.ErrNEONotFound}
	cached := NewCachedSource(inner, 10, observability.NewMetricsForTesting())

	_, err := cached.Lookup(context.Background(), "0")
	require.ErrorIs(t, err, domain.ErrNEONotFound)

	inner.err = errors.New("transient")
	_, err = cached.Lookup(context.Background(), "0")
	require.Error(t, err)

	inner.err = nil
	_, err = cached.Lookup(context.Background(), "0")
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestCachedSource_Eviction(t *testing.T) {
	inner := &countingSource{}
	cached := NewCachedSource(inner, 2, observability.NewMetricsForTesting())
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		_, err := cached.Lookup(ctx, id)
		require.NoError(t, err)
	}
	// Touch "a" so "b" becomes least recently used.
	_, err := cached.Lookup(ctx, "a")
	require.NoError(t, err)
	_, err = cached.Lookup(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls)

	_, err = cached.Lookup(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls, "a should still be cached")

	_, err = cached.Lookup(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 4, inner.calls, "b should have been evicted")
}

func TestLRUCache_BoundedSize(t *testing.T) {
	c := newLRUCache(5)
	for i := range 20 {
		c.put(fmt.Sprintf("k%d", i), domain.NearEarthObject{ID: fmt.Sprint(i)})
	}
	assert.Equal(t, 5, c.len())

	_, ok := c.get("k0")
	assert.False(t, ok)
	v, ok := c.get("k19")
	require.True(t, ok)
	assert.Equal(t, "19", v.ID)
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)
	c.put("a", domain.NearEarthObject{Name: "old"})
	c.put("a", domain.NearEarthObject{Name: "new"})

	v, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, "new", v.Name)
	assert.Equal(t, 1, c.len())
}
