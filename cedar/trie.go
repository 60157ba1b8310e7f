package cedar

import "unsafe"

const maxAllocSize = int64(1) << 32

// Trie is an in-memory double-array trie mapping byte-string keys to a
// value of type V. The zero value is not usable; construct one with New.
type Trie[V Number] struct {
	cfg config[V]

	array []Node[V]
	ninfo []ninfo
	block []block

	bheadF, bheadC, bheadO int64
	capacity, size         int64
	noDelete               bool
	reject                 [257]int16

	tracking map[int]int64
}

// New builds an empty Trie. Options select the node-layout variant,
// sibling ordering, allocator tuning, and sentinel values; see the With*
// functions in node.go.
func New[V Number](opts ...Option[V]) *Trie[V] {
	noValue, noPath := defaultSentinels[V]()
	cfg := config[V]{
		ordered:  true,
		maxTrial: 1,
		variant:  Standard,
		noValue:  noValue,
		noPath:   noPath,
		relocate: func(int64, int64) {},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.relocate == nil {
		cfg.relocate = func(int64, int64) {}
	}
	t := &Trie[V]{cfg: cfg, tracking: make(map[int]int64)}
	t.initialize()
	return t
}

func (t *Trie[V]) base(n Node[V]) int64 {
	if t.cfg.variant == Reduced {
		return -(n.word + 1)
	}
	return n.word
}

func (t *Trie[V]) setBase(idx int64, b int64) {
	if t.cfg.variant == Reduced {
		t.array[idx].word = -(b + 1)
	} else {
		t.array[idx].word = b
	}
}

func (t *Trie[V]) initialize() {
	t.array = make([]Node[V], 256)
	t.ninfo = make([]ninfo, 256)
	t.block = make([]block, 1)

	if t.cfg.variant == Reduced {
		t.array[0] = Node[V]{word: -1, Check: -1}
	} else {
		t.array[0] = Node[V]{word: 0, Check: -1}
	}
	for i := int64(1); i < 256; i++ {
		prev, next := i-1, i+1
		if i == 1 {
			prev = 255
		}
		if i == 255 {
			next = 1
		}
		t.array[i] = Node[V]{word: -prev, Check: -next}
	}
	t.block[0] = block{num: 256, reject: 257, ehead: 1}
	markOccupied(&t.block[0], 0)
	t.capacity = 256
	t.size = 256
	for i := range t.reject {
		t.reject[i] = int16(i + 1)
	}
}

// grow enforces the capacity policy backing add_block: double capacity by
// default, or advance in 256-slot steps toward a configured byte cap,
// reporting a fatal error if even one more block would exceed it.
func (t *Trie[V]) grow() {
	newCapacity := t.capacity + t.capacity
	if newCapacity > t.capacity+maxAllocSize {
		newCapacity = t.capacity + maxAllocSize
	}
	if t.cfg.maxAlloc > 0 {
		if t.bytesFor(newCapacity) > t.cfg.maxAlloc {
			newCapacity = t.capacity
			for t.bytesFor(newCapacity+blockSize) <= t.cfg.maxAlloc {
				newCapacity += blockSize
			}
			if newCapacity <= t.size {
				fatal("cedar: memory limit %d bytes too low for another block (size=%d)", t.cfg.maxAlloc, t.size)
			}
		}
	}
	t.capacity = newCapacity
	grownArray := make([]Node[V], t.size, t.capacity)
	copy(grownArray, t.array)
	t.array = grownArray
	grownNinfo := make([]ninfo, t.size, t.capacity)
	copy(grownNinfo, t.ninfo)
	t.ninfo = grownNinfo
	grownBlock := make([]block, t.size>>blockBits, t.capacity>>blockBits)
	copy(grownBlock, t.block)
	t.block = grownBlock
}

func (t *Trie[V]) bytesFor(capacity int64) int64 {
	return capacity*int64(unsafe.Sizeof(Node[V]{})) +
		capacity*int64(unsafe.Sizeof(ninfo{})) +
		(capacity>>blockBits)*int64(unsafe.Sizeof(block{}))
}

// SetMaxAlloc installs (or changes) the byte cap enforced by grow.
func (t *Trie[V]) SetMaxAlloc(maxBytes int64) { t.cfg.maxAlloc = maxBytes }

// Capacity returns the number of slots currently backing the array,
// including ones not yet handed out by the allocator.
func (t *Trie[V]) Capacity() int64 { return t.capacity }

// Size returns the number of slots handed out so far (allocated or free,
// but counted as part of the structure).
func (t *Trie[V]) Size() int64 { return t.size }

// UnitSize returns the byte size of one Node[V], mirroring cedar.h's
// unit_size().
func (t *Trie[V]) UnitSize() int64 { return int64(unsafe.Sizeof(Node[V]{})) }

// TotalSize returns Size * UnitSize.
func (t *Trie[V]) TotalSize() int64 { return t.size * t.UnitSize() }

// NonzeroSize counts slots currently holding a real node (check >= 0). It
// prefers the per-block popcount cache when block state is available,
// falling back to a linear array scan right after Open (array-only, no
// sidecar) when it is not.
func (t *Trie[V]) NonzeroSize() int64 {
	if t.block == nil {
		var n int64
		for i := int64(0); i < t.size; i++ {
			if t.array[i].Check >= 0 {
				n++
			}
		}
		return n
	}
	var n int64
	for bi := range t.block {
		n += popcountBlock(&t.block[bi])
	}
	return n
}

// NumKeys counts distinct keys stored in the trie.
func (t *Trie[V]) NumKeys() int64 {
	var n int64
	for to := int64(0); to < t.size; to++ {
		if t.array[to].Check < 0 {
			continue
		}
		if t.cfg.variant == Reduced {
			if t.array[to].word >= 0 {
				n++
			}
			continue
		}
		from := t.array[to].Check
		if t.base(t.array[from]) == to {
			n++
		}
	}
	return n
}

// Array exposes the raw backing slice, e.g. to hand to another Trie via
// SetArray or to persist with a caller's own format.
func (t *Trie[V]) Array() []Node[V] { return t.array }

// SetArray installs a pre-existing node buffer, borrowing it rather than
// copying: the Trie never reallocates or frees it on its own, matching
// cedar.h's set_array ownership model. Callers must follow with
// Restore (or OpenFast-equivalent state) before mutating.
func (t *Trie[V]) SetArray(data []Node[V]) {
	t.array = data
	t.ninfo = nil
	t.block = nil
	t.size = int64(len(data))
	t.capacity = t.size
	t.bheadF, t.bheadC, t.bheadO = 0, 0, 0
	t.noDelete = true
}

// Clear empties the trie. If reuse is true a fresh internal array is
// allocated immediately and the borrowed-array flag is cleared, since the
// flag should only be cleared once ownership has genuinely returned to the
// trie; if false the trie is left with no backing array at all and the
// flag is left as-is, since no new array has been allocated to own.
func (t *Trie[V]) Clear(reuse bool) {
	t.array = nil
	t.ninfo = nil
	t.block = nil
	t.bheadF, t.bheadC, t.bheadO = 0, 0, 0
	t.capacity, t.size = 0, 0
	if reuse {
		t.initialize()
		t.noDelete = false
	}
}

// Track registers node as tracked under id; resolve will keep the
// registry's entry current as conflict resolution relocates nodes.
func (t *Trie[V]) Track(id int, node int64) { t.tracking[id] = node }

// Untrack removes id from the tracking registry.
func (t *Trie[V]) Untrack(id int) { delete(t.tracking, id) }

// TrackedPosition returns id's current node index and whether id is
// registered at all.
func (t *Trie[V]) TrackedPosition(id int) (int64, bool) {
	pos, ok := t.tracking[id]
	return pos, ok
}

// Update inserts key with value val, or adds val to the existing value if
// key is already present (cedar.h's update() folds repeat inserts by
// addition rather than overwrite). It returns the resulting value and the
// node index holding it, so a caller can later overwrite it directly with
// SetValue without repeating the traversal.
func (t *Trie[V]) Update(key []byte, val V) (V, int64) {
	from, pos := int64(0), 0
	return t.UpdateFrom(key, &from, &pos, val)
}

// UpdateFrom is Update with an explicit (from, pos) cursor, letting a
// caller resume a partial insert the way Traverse resumes a partial
// search.
func (t *Trie[V]) UpdateFrom(key []byte, from *int64, pos *int, val V) (V, int64) {
	if len(key) == 0 && *from == 0 {
		fatal("cedar: cannot insert a zero-length key")
	}
	if t.ninfo == nil || t.block == nil {
		t.Restore()
	}
	for *pos < len(key) {
		if t.cfg.variant == Reduced {
			if v := t.array[*from].word; v >= 0 && v != ValueLimit {
				to := t.follow(from, 0)
				t.array[to].word = v
			}
		}
		label := key[*pos]
		*from = t.follow(from, label)
		*pos++
	}

	var to int64
	if t.cfg.variant == Reduced && t.array[*from].word >= 0 {
		to = *from
	} else {
		to = t.follow(from, 0)
	}
	if t.cfg.variant == Reduced && t.array[to].word == ValueLimit {
		t.array[to].word = valueToWord[V](0)
	}
	cur := t.array[to].Value() + val
	t.array[to].SetValue(cur)
	return cur, to
}

// SetValue overwrites the value at node id, the index Update returned.
func (t *Trie[V]) SetValue(id int64, v V) { t.array[id].SetValue(v) }

// ValueAt reads the value at node id.
func (t *Trie[V]) ValueAt(id int64) V { return t.array[id].Value() }

// Build bulk-inserts keys, accepting them in any order. If vals is nil,
// each key's value defaults to its index in keys (matching cedar.h's
// build()); otherwise vals must be the same length as keys.
func (t *Trie[V]) Build(keys [][]byte, vals []V) {
	for i, k := range keys {
		v := V(i)
		if vals != nil {
			v = vals[i]
		}
		t.Update(k, v)
	}
}
