package cedar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraverse_ResumableCursor(t *testing.T) {
	t.Parallel()

	tr := New[int32]()
	tr.Update([]byte("abc"), 42)

	key := []byte("abc")
	var from int64
	pos := 0

	// feed the key one byte at a time, the way bytes might arrive over a
	// stream, confirming the cursor resumes correctly each time.
	got := tr.Traverse(key[:1], &from, &pos)
	assert.Equal(t, tr.cfg.noValue, got)

	got = tr.Traverse(key[:2], &from, &pos)
	assert.Equal(t, tr.cfg.noValue, got)

	got = tr.Traverse(key[:3], &from, &pos)
	assert.Equal(t, int32(42), got)
}

func TestTraverse_NoPath(t *testing.T) {
	t.Parallel()

	tr := New[int32]()
	tr.Update([]byte("abc"), 1)

	var from int64
	pos := 0
	got := tr.Traverse([]byte("xyz"), &from, &pos)
	assert.Equal(t, tr.cfg.noPath, got)
}

func TestExactMatchSearchFrom(t *testing.T) {
	t.Parallel()

	tr := New[int32]()
	tr.Update([]byte("house"), 1)
	tr.Update([]byte("household"), 2)

	// resolve "hold" relative to the node reached by "house"
	var from int64
	pos := 0
	tr.Traverse([]byte("house"), &from, &pos)

	assert.Equal(t, int32(2), tr.ExactMatchSearchFrom([]byte("hold"), from))
}

func TestUpdate_ZeroLengthKey_Fatal(t *testing.T) {
	// mutates the package-level exit hook; must not run in parallel with
	// other tests that do the same.
	restore := exit
	var exited bool
	exit = func(int) {
		exited = true
		panic("cedar: fatal exit")
	}
	defer func() { exit = restore }()

	tr := New[int32]()
	assert.Panics(t, func() { tr.Update(nil, 1) })
	assert.True(t, exited)
}
