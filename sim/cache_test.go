package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermsim/ops"
)

func fullRun(t *testing.T, list []ops.Operation) []complex128 {
	t.Helper()
	vec := NewState(ops.QubitCount(list))
	_, err := Evolve(vec, list)
	require.NoError(t, err)
	return vec
}

func TestCacheStartsEmpty(t *testing.T) {
	c := NewCache()
	assert.Equal(t, -1, c.Index())
	assert.True(t, c.Empty())
	assert.Nil(t, c.Vector())
}

func TestCacheAdvanceReusesPrefix(t *testing.T) {
	list := []ops.Operation{
		ops.MustNew(ops.H, []int{0}),
		ops.MustNew(ops.CX, []int{0, 1}),
		ops.MustNew(ops.RZ, []int{1}, 0.4),
	}
	c := NewCache()

	vec, ev, err := c.Advance(list[:2], 2)
	require.NoError(t, err)
	assert.Equal(t, CacheMiss, ev)
	assert.Equal(t, 1, c.Index())
	assert.True(t, Same(vec, fullRun(t, list[:2]), DefaultEpsilon))

	vec, ev, err = c.Advance(list, 2)
	require.NoError(t, err)
	assert.Equal(t, CachePartial, ev)
	assert.Equal(t, 2, c.Index())
	assert.True(t, Same(vec, fullRun(t, list), DefaultEpsilon))

	again, ev, err := c.Advance(list, 2)
	require.NoError(t, err)
	assert.Equal(t, CacheHit, ev)
	assert.Equal(t, vec, again)
}

func TestCacheReturnsPrivateVectors(t *testing.T) {
	list := []ops.Operation{ops.MustNew(ops.X, []int{0})}
	c := NewCache()
	vec, _, err := c.Advance(list, 1)
	require.NoError(t, err)
	vec[0], vec[1] = 42, 42

	again, ev, err := c.Advance(list, 1)
	require.NoError(t, err)
	assert.Equal(t, CacheHit, ev)
	assert.Equal(t, []complex128{0, 1}, again)
}

func TestCacheRecomputesWhenPrefixChanged(t *testing.T) {
	c := NewCache()
	_, _, err := c.Advance([]ops.Operation{ops.MustNew(ops.X, []int{0})}, 1)
	require.NoError(t, err)

	changed := []ops.Operation{ops.MustNew(ops.H, []int{0}), ops.MustNew(ops.Z, []int{0})}
	vec, ev, err := c.Advance(changed, 1)
	require.NoError(t, err)
	assert.Equal(t, CacheMiss, ev)
	assert.True(t, Same(vec, fullRun(t, changed), DefaultEpsilon))
}

func TestCacheRecomputesWhenListShrank(t *testing.T) {
	list := []ops.Operation{ops.MustNew(ops.X, []int{0}), ops.MustNew(ops.H, []int{0})}
	c := NewCache()
	_, _, err := c.Advance(list, 1)
	require.NoError(t, err)

	vec, ev, err := c.Advance(list[:1], 1)
	require.NoError(t, err)
	assert.Equal(t, CacheMiss, ev)
	assert.Equal(t, []complex128{0, 1}, vec)
	assert.Equal(t, 0, c.Index())
}

func TestCachePadsNewQubits(t *testing.T) {
	list := []ops.Operation{ops.MustNew(ops.H, []int{0}), ops.MustNew(ops.I, []int{1})}
	c := NewCache()
	_, _, err := c.Advance(list[:1], 1)
	require.NoError(t, err)

	vec, ev, err := c.Advance(list, 2)
	require.NoError(t, err)
	assert.Equal(t, CachePartial, ev)
	assert.True(t, Same(vec, fullRun(t, list), DefaultEpsilon))
}

func TestCacheInvalidate(t *testing.T) {
	list := []ops.Operation{ops.MustNew(ops.X, []int{0}), ops.MustNew(ops.H, []int{0})}
	c := NewCache()
	_, _, err := c.Advance(list, 1)
	require.NoError(t, err)

	assert.False(t, c.Invalidate(2), "mutation after the cached index keeps the entry")
	assert.Equal(t, 1, c.Index())
	assert.True(t, c.Invalidate(1))
	assert.Equal(t, -1, c.Index())
	assert.True(t, c.Empty())
}

func TestCacheCloneIsDeep(t *testing.T) {
	list := []ops.Operation{ops.MustNew(ops.H, []int{0})}
	c := NewCache()
	_, _, err := c.Advance(list, 1)
	require.NoError(t, err)

	cc := c.Clone()
	assert.Equal(t, c.Index(), cc.Index())
	assert.Equal(t, c.Vector(), cc.Vector())

	cc.vec[0] = 7
	assert.NotEqual(t, c.vec[0], cc.vec[0])
	cc.Reset()
	assert.False(t, c.Empty())
}

func TestCacheEmptyListResets(t *testing.T) {
	c := NewCache()
	_, _, err := c.Advance([]ops.Operation{ops.MustNew(ops.X, []int{0})}, 1)
	require.NoError(t, err)

	vec, _, err := c.Advance(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []complex128{1}, vec)
	assert.Equal(t, -1, c.Index())
	assert.True(t, c.Empty())
}

func TestCacheKeepsEntryOnError(t *testing.T) {
	good := []ops.Operation{ops.MustNew(ops.X, []int{0})}
	c := NewCache()
	_, _, err := c.Advance(good, 1)
	require.NoError(t, err)

	bad := append(good, ops.MustNew(ops.X, []int{3}))
	_, _, err = c.Advance(bad, 1)
	require.ErrorIs(t, err, ops.ErrInvalidQubitIndex)
	assert.Equal(t, 0, c.Index())
}
