package cedar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReducedTrie_LeafEmbeddedValue(t *testing.T) {
	t.Parallel()

	tr := New[int32](WithReducedTrie[int32]())

	tr.Update([]byte("a"), 1)
	tr.Update([]byte("ab"), 2)
	tr.Update([]byte("abc"), 3)

	assert.Equal(t, int32(1), tr.ExactMatchSearch([]byte("a")))
	assert.Equal(t, int32(2), tr.ExactMatchSearch([]byte("ab")))
	assert.Equal(t, int32(3), tr.ExactMatchSearch([]byte("abc")))
	assert.Equal(t, tr.cfg.noValue, tr.ExactMatchSearch([]byte("abcd")))

	require.True(t, tr.Erase([]byte("ab")))
	assert.Equal(t, tr.cfg.noValue, tr.ExactMatchSearch([]byte("ab")))
	assert.Equal(t, int32(1), tr.ExactMatchSearch([]byte("a")))
	assert.Equal(t, int32(3), tr.ExactMatchSearch([]byte("abc")))
}

func TestMinimalPrefix_BehavesLikeStandard(t *testing.T) {
	t.Parallel()

	std := New[int32]()
	mp := New[int32](WithMinimalPrefix[int32]())

	keys := []string{"a", "ab", "abc", "b"}
	for i, k := range keys {
		std.Update([]byte(k), int32(i))
		mp.Update([]byte(k), int32(i))
	}

	for i, k := range keys {
		assert.Equal(t, std.ExactMatchSearch([]byte(k)), mp.ExactMatchSearch([]byte(k)), k)
		assert.Equal(t, int32(i), mp.ExactMatchSearch([]byte(k)))
	}
}

func TestWithSentinels(t *testing.T) {
	t.Parallel()

	tr := New[int32](WithSentinels[int32](-100, -200))

	assert.Equal(t, int32(-100), tr.ExactMatchSearch([]byte("missing")))

	var from int64
	pos := 0
	assert.Equal(t, int32(-200), tr.Traverse([]byte("x"), &from, &pos))
}

func TestWithOrdered_False_StillFindsAll(t *testing.T) {
	t.Parallel()

	tr := New[int32](WithOrdered[int32](false))
	keys := []string{"z", "a", "m", "q", "b"}
	for i, k := range keys {
		tr.Update([]byte(k), int32(i))
	}
	for i, k := range keys {
		assert.Equal(t, int32(i), tr.ExactMatchSearch([]byte(k)))
	}
}

func TestWithRelocationCallback(t *testing.T) {
	t.Parallel()

	var moved [][2]int64
	tr := New[int32](WithRelocationCallback[int32](func(oldIndex, newIndex int64) {
		moved = append(moved, [2]int64{oldIndex, newIndex})
	}))

	for _, kv := range collisionResolveKeys {
		tr.Update([]byte(kv.Key), kv.Val)
	}

	assert.NotEmpty(t, moved, "resolve should have migrated at least one slot for this colliding key set")
}

func TestDefaultSentinels_Float32(t *testing.T) {
	t.Parallel()

	noValue, noPath := defaultSentinels[float32]()
	assert.True(t, math.IsNaN(float64(noValue)))
	assert.True(t, math.IsNaN(float64(noPath)))
	assert.NotEqual(t, math.Float32bits(noValue), math.Float32bits(noPath))
}

func TestDefaultSentinels_Float64FallsBackToIntegerDefaults(t *testing.T) {
	t.Parallel()

	noValue, noPath := defaultSentinels[float64]()
	assert.Equal(t, float64(-1), noValue)
	assert.Equal(t, float64(-2), noPath)
}
