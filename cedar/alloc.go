package cedar

// addBlock grows the array by one 256-slot block, links its slots into a
// fresh empty ring, and pushes the new block onto the Open ring. It
// returns the new block's index.
func (t *Trie[V]) addBlock() int64 {
	if t.size == t.capacity {
		t.grow()
	}
	bi := t.size >> blockBits
	base := t.size

	t.array = append(t.array, make([]Node[V], blockSize)...)
	t.ninfo = append(t.ninfo, make([]ninfo, blockSize)...)
	t.block = append(t.block, block{num: 256, reject: 257, ehead: base})

	t.array[base] = Node[V]{word: -(base + 255), Check: -(base + 1)}
	for i := base + 1; i < base+255; i++ {
		t.array[i] = Node[V]{word: -(i - 1), Check: -(i + 1)}
	}
	t.array[base+255] = Node[V]{word: -(base + 254), Check: -base}

	pushBlock(t.block, bi, &t.bheadO, t.bheadO == 0)
	t.size += blockSize
	return bi
}

// findPlace locates a single free slot for a node with exactly one child,
// preferring a block already in the Closed ring (one free slot left, or
// trial count exhausted) and
// falling back to the Open ring, then to a freshly allocated block.
func (t *Trie[V]) findPlace() int64 {
	if t.bheadC != 0 {
		return t.block[t.bheadC].ehead
	}
	if t.bheadO != 0 {
		return t.block[t.bheadO].ehead
	}
	return t.addBlock() << blockBits
}

// findPlaceForGroup locates a base such that base^labels[i] is free for
// every label in labels simultaneously, walking the Open ring and
// updating each visited block's reject/trial bookkeeping as it goes.
func (t *Trie[V]) findPlaceForGroup(labels []byte) int64 {
	first := labels[0]
	rest := labels[1:]
	nc := int16(len(labels))

	if t.bheadO != 0 {
		bi := t.bheadO
		bz := t.block[t.bheadO].prev
		for {
			b := &t.block[bi]
			if b.num >= nc && nc < b.reject {
				e := b.ehead
				for {
					base := e ^ int64(first)
					fits := true
					for _, l := range rest {
						if t.array[base^int64(l)].Check >= 0 {
							fits = false
							break
						}
					}
					if fits {
						b.ehead = e
						return e
					}
					e = -t.array[e].Check
					if e == b.ehead {
						break
					}
				}
			}
			b.reject = nc
			if b.reject < t.reject[b.num] {
				t.reject[b.num] = b.reject
			}
			biNext := b.next
			b.trial++
			if b.trial == t.cfg.maxTrial {
				transferBlock(t.block, bi, &t.bheadO, &t.bheadC)
			}
			if bi == bz {
				break
			}
			bi = biNext
		}
	}
	return t.addBlock() << blockBits
}

// popEnode removes a free slot from its block's empty ring and claims it
// as a real node: base (if >= 0) selects the exact slot base^label,
// otherwise findPlace chooses one. from becomes the new node's check
// back-pointer, and if base < 0 the caller's own base field is updated to
// point at the freshly claimed slot.
func (t *Trie[V]) popEnode(base int64, label byte, from int64) int64 {
	var e int64
	if base < 0 {
		e = t.findPlace()
	} else {
		e = base ^ int64(label)
	}

	bi := e >> blockBits
	b := &t.block[bi]
	n := &t.array[e]
	b.num--
	if b.num == 0 {
		if bi != 0 {
			transferBlock(t.block, bi, &t.bheadC, &t.bheadF)
		}
	} else {
		prevEmpty := -n.word
		nextEmpty := -n.Check
		t.array[prevEmpty].Check = n.Check
		t.array[nextEmpty].word = n.word
		if e == b.ehead {
			b.ehead = nextEmpty
		}
		if bi != 0 && b.num == 1 && b.trial != t.cfg.maxTrial {
			transferBlock(t.block, bi, &t.bheadO, &t.bheadC)
		}
	}

	if t.cfg.variant == Reduced {
		n.word = ValueLimit
	} else if label != 0 {
		n.word = -1
	} else {
		n.word = 0
	}
	n.Check = from
	if base < 0 {
		t.setBase(from, e^int64(label))
	}
	markOccupied(b, e-bi*blockSize)
	return e
}

// pushEnode returns slot e to its block's empty ring.
func (t *Trie[V]) pushEnode(e int64) {
	bi := e >> blockBits
	b := &t.block[bi]
	b.num++
	if b.num == 1 {
		b.ehead = e
		t.array[e] = Node[V]{word: -e, Check: -e}
		if bi != 0 {
			transferBlock(t.block, bi, &t.bheadF, &t.bheadC)
		}
	} else {
		prev := b.ehead
		next := -t.array[prev].Check
		t.array[e] = Node[V]{word: -prev, Check: -next}
		t.array[prev].Check = -e
		t.array[next].word = -e
		if (b.num == 2 || b.trial == t.cfg.maxTrial) && bi != 0 {
			transferBlock(t.block, bi, &t.bheadC, &t.bheadO)
		}
		b.trial = 0
	}
	if b.reject < t.reject[b.num] {
		b.reject = t.reject[b.num]
	}
	t.ninfo[e] = ninfo{}
	clearOccupied(b, e-bi*blockSize)
}
