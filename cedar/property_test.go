package cedar

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRandomKeys_InsertFindErase runs a large-random-key insert/find/erase
// scenario at a size that keeps a single test run fast; the law it checks —
// every inserted key is retrievable and num_keys matches the distinct count
// — does not depend on the corpus size.
func TestRandomKeys_InsertFindErase(t *testing.T) {
	t.Parallel()

	const (
		total = 2000
		seed  = 20260806
	)

	fake := gofakeit.New(seed)
	tr := New[int32]()
	state := map[string]int32{}

	for i := 0; i < total; i++ {
		key := fake.LetterN(uint(1 + fake.Number(0, 19)))
		val := int32(fake.Number(0, 1<<30))

		tr.Update([]byte(key), val)
		state[key] += val
	}

	assert.Equal(t, int64(len(state)), tr.NumKeys())

	for key, val := range state {
		assert.Equal(t, val, tr.ExactMatchSearch([]byte(key)), key)
	}

	require.NoError(t, tr.CheckInvariants())

	// erase half, confirm both halves behave correctly afterward
	i := 0
	for key := range state {
		if i%2 == 0 {
			require.True(t, tr.Erase([]byte(key)))
			delete(state, key)
		}
		i++
	}

	for key, val := range state {
		assert.Equal(t, val, tr.ExactMatchSearch([]byte(key)), key)
	}
	assert.Equal(t, int64(len(state)), tr.NumKeys())
	require.NoError(t, tr.CheckInvariants())
}

func TestSaveOpen_RandomKeys_RoundTrip(t *testing.T) {
	t.Parallel()

	const (
		total = 500
		seed  = 987654321
	)

	fake := gofakeit.New(seed)
	tr := New[int64]()
	state := map[string]int64{}

	for i := 0; i < total; i++ {
		key := fake.LetterN(uint(1 + fake.Number(0, 19)))
		val := int64(fake.Number(0, 1<<40))

		tr.Update([]byte(key), val)
		state[key] += val
	}

	dir := t.TempDir()
	path := dir + "/random.bin"
	require.NoError(t, tr.Save(path))

	loaded := New[int64]()
	require.NoError(t, loaded.Open(path))

	for key, val := range state {
		assert.Equal(t, val, loaded.ExactMatchSearch([]byte(key)), key)
	}
}
