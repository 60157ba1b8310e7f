package cedar

import "github.com/hideo55/go-popcount"

const (
	blockBits = 8
	blockSize = int64(1) << blockBits
)

func markOccupied(b *block, slot int64) {
	b.occupied[slot>>6] |= uint64(1) << uint(slot&63)
}

func clearOccupied(b *block, slot int64) {
	b.occupied[slot>>6] &^= uint64(1) << uint(slot&63)
}

func popcountBlock(b *block) int64 {
	var n int64
	for _, word := range b.occupied {
		n += int64(popcount.Count(word))
	}
	return n
}

// popBlock unlinks bi from whichever ring headIn points into. last must be
// true exactly when bi is the ring's only member.
func popBlock(blocks []block, bi int64, headIn *int64, last bool) {
	if last {
		*headIn = 0
		return
	}
	b := &blocks[bi]
	blocks[b.prev].next = b.next
	blocks[b.next].prev = b.prev
	if bi == *headIn {
		*headIn = b.next
	}
}

// pushBlock links bi into the ring headOut points into, immediately
// before the current head (i.e. at the tail), leaving the head unchanged so
// the most recently pushed block is visited last. empty must be true
// exactly when the ring was previously empty.
func pushBlock(blocks []block, bi int64, headOut *int64, empty bool) {
	b := &blocks[bi]
	if empty {
		*headOut = bi
		b.prev, b.next = bi, bi
		return
	}
	oldHead := *headOut
	oldTail := blocks[oldHead].prev
	b.prev = oldTail
	b.next = oldHead
	blocks[oldTail].next = bi
	blocks[oldHead].prev = bi
}

// transferBlock moves bi from the ring headIn points into to the ring
// headOut points into.
func transferBlock(blocks []block, bi int64, headIn, headOut *int64) {
	popBlock(blocks, bi, headIn, bi == blocks[bi].next)
	pushBlock(blocks, bi, headOut, *headOut == 0)
}
