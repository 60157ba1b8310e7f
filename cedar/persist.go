package cedar

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
)

// Save writes the backing array to path. The file holds only node
// records, enough to reconstruct the trie's lookup structure but not its
// allocator state; Open followed by a lookup-only workload needs nothing
// more, while mutating it requires either Restore (rebuilt on demand) or
// a file written by SaveFast.
func (t *Trie[V]) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i := int64(0); i < t.size; i++ {
		if err := writeNode(w, t.array[i]); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeNode[V Number](w io.Writer, n Node[V]) error {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(n.word))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(n.Check))
	_, err := w.Write(buf[:])
	return err
}

func readNode[V Number](r io.Reader) (Node[V], error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Node[V]{}, err
	}
	return Node[V]{
		word:  int64(binary.LittleEndian.Uint64(buf[0:8])),
		Check: int64(binary.LittleEndian.Uint64(buf[8:16])),
	}, nil
}

// Open replaces the trie's contents with the array saved at path by
// Save. The result is immutable until Restore (or a successful Update,
// which calls Restore itself) rebuilds ninfo and block state.
func (t *Trie[V]) Open(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size()%16 != 0 {
		return ErrTruncated
	}
	size := info.Size() / 16

	array := make([]Node[V], size)
	r := bufio.NewReader(f)
	for i := range array {
		n, err := readNode[V](r)
		if err != nil {
			return err
		}
		array[i] = n
	}

	t.array = array
	t.ninfo = nil
	t.block = nil
	t.size = size
	t.capacity = size
	t.bheadF, t.bheadC, t.bheadO = 0, 0, 0
	t.noDelete = false
	return nil
}

// SaveFast writes both the node array (as Save does) and a ".sbl"
// sidecar carrying block-ring heads, ninfo, and per-block state, so that
// OpenFast can reload a trie ready to mutate immediately.
func (t *Trie[V]) SaveFast(path string) error {
	if err := t.Save(path); err != nil {
		return err
	}
	f, err := os.Create(path + ".sbl")
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	var head [24]byte
	binary.LittleEndian.PutUint64(head[0:8], uint64(t.bheadF))
	binary.LittleEndian.PutUint64(head[8:16], uint64(t.bheadC))
	binary.LittleEndian.PutUint64(head[16:24], uint64(t.bheadO))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	for i := int64(0); i < t.size; i++ {
		if _, err := w.Write([]byte{t.ninfo[i].child, t.ninfo[i].sibling}); err != nil {
			return err
		}
	}
	for i := int64(0); i < t.size>>blockBits; i++ {
		if err := writeBlock(w, t.block[i]); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeBlock(w io.Writer, b block) error {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(b.prev))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(b.next))
	binary.LittleEndian.PutUint16(buf[16:18], uint16(b.num))
	binary.LittleEndian.PutUint16(buf[18:20], uint16(b.reject))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(b.trial))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(b.ehead))
	_, err := w.Write(buf[:])
	return err
}

func readBlock(r io.Reader) (block, error) {
	var buf [32]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return block{}, err
	}
	return block{
		prev:   int64(binary.LittleEndian.Uint64(buf[0:8])),
		next:   int64(binary.LittleEndian.Uint64(buf[8:16])),
		num:    int16(binary.LittleEndian.Uint16(buf[16:18])),
		reject: int16(binary.LittleEndian.Uint16(buf[18:20])),
		trial:  int32(binary.LittleEndian.Uint32(buf[20:24])),
		ehead:  int64(binary.LittleEndian.Uint64(buf[24:32])),
	}, nil
}

// OpenFast loads the array written by SaveFast along with its ".sbl"
// sidecar, producing a trie ready to mutate without any on-demand
// restore.
func (t *Trie[V]) OpenFast(path string) error {
	if err := t.Open(path); err != nil {
		return err
	}
	f, err := os.Open(path + ".sbl")
	if err != nil {
		return ErrNoSidecar
	}
	defer f.Close()
	r := bufio.NewReader(f)

	var head [24]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return err
	}
	t.bheadF = int64(binary.LittleEndian.Uint64(head[0:8]))
	t.bheadC = int64(binary.LittleEndian.Uint64(head[8:16]))
	t.bheadO = int64(binary.LittleEndian.Uint64(head[16:24]))

	t.ninfo = make([]ninfo, t.size)
	for i := range t.ninfo {
		var pair [2]byte
		if _, err := io.ReadFull(r, pair[:]); err != nil {
			return err
		}
		t.ninfo[i] = ninfo{child: pair[0], sibling: pair[1]}
	}

	t.block = make([]block, t.size>>blockBits)
	for i := range t.block {
		b, err := readBlock(r)
		if err != nil {
			return err
		}
		t.block[i] = b
	}
	t.rebuildOccupancy()
	return nil
}

func (t *Trie[V]) rebuildOccupancy() {
	for bi := range t.block {
		t.block[bi].occupied = [4]uint64{}
	}
	for i := int64(0); i < t.size; i++ {
		if t.array[i].Check >= 0 {
			bi := i >> blockBits
			markOccupied(&t.block[bi], i-bi*blockSize)
		}
	}
}

// Restore rebuilds whatever of ninfo/block is missing from the node
// array alone, the on-demand counterpart to a plain Open. Update calls
// this automatically before its first mutation of a freshly opened trie.
func (t *Trie[V]) Restore() {
	if t.block == nil {
		t.restoreBlock()
	}
	if t.ninfo == nil {
		t.restoreNinfo()
	}
	t.capacity = t.size
}

func (t *Trie[V]) restoreNinfo() {
	t.ninfo = make([]ninfo, t.size)
	for to := int64(0); to < t.size; to++ {
		from := t.array[to].Check
		if from < 0 {
			continue
		}
		base := t.base(t.array[from])
		label := byte(base ^ to)
		if label == 0 {
			continue
		}
		flag := from == 0 || t.ninfo[from].child != 0 || t.array[base^0].Check == from
		t.pushSibling(from, base, label, flag)
	}
}

// restoreBlock rebuilds per-block free-ring state by scanning the array.
// Block 0 is deliberately never pushed into a ring here, matching the
// invariant that it never migrates between rings during normal
// operation either (see DESIGN.md).
func (t *Trie[V]) restoreBlock() {
	nblocks := t.size >> blockBits
	t.block = make([]block, nblocks)
	t.bheadF, t.bheadC, t.bheadO = 0, 0, 0
	e := int64(0)
	for bi := int64(0); bi < nblocks; bi++ {
		b := &t.block[bi]
		b.reject = 257
		for ; e < (bi<<blockBits)+blockSize; e++ {
			if t.array[e].Check < 0 {
				b.num++
				if b.num == 1 {
					b.ehead = e
				}
			} else {
				markOccupied(b, e-bi*blockSize)
			}
		}
		if bi == 0 {
			continue
		}
		var headOut *int64
		switch {
		case b.num == 0:
			headOut = &t.bheadF
		case b.num == 1:
			headOut = &t.bheadC
		default:
			headOut = &t.bheadO
		}
		pushBlock(t.block, bi, headOut, *headOut == 0)
	}
}
