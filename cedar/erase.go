package cedar

// Erase removes key from the trie if present, reporting whether it was
// found. It does not compact or reclaim the path's now-unused internal
// nodes beyond returning their slots to the relevant empty rings.
func (t *Trie[V]) Erase(key []byte) bool {
	return t.EraseFrom(key, 0)
}

// EraseFrom is Erase starting the search at node from.
func (t *Trie[V]) EraseFrom(key []byte, from int64) bool {
	pos := 0
	_, status := t.find(key, &from, &pos, len(key))
	if status != findOK {
		return false
	}
	t.eraseNode(from)
	return true
}

// eraseNode frees the value node reached from, then walks back up toward
// the root freeing every ancestor that has no other children, stopping
// at the first ancestor that still does.
func (t *Trie[V]) eraseNode(from int64) {
	var e int64
	if t.cfg.variant == Reduced {
		if t.array[from].word >= 0 {
			e = from
		} else {
			e = t.base(t.array[from]) ^ 0
		}
		from = t.array[e].Check
	} else {
		e = t.base(t.array[from]) ^ 0
	}
	for {
		n := t.array[from]
		hasSibling := t.ninfo[t.base(n)^int64(t.ninfo[from].child)].sibling != 0
		if hasSibling {
			t.popSibling(from, t.base(n), byte(t.base(n)^e))
		}
		t.pushEnode(e)
		e = from
		from = t.array[from].Check
		if hasSibling {
			break
		}
	}
}
