package cedar

// follow walks one edge labeled label out of the node at *from, creating
// it if necessary. It may relocate *from itself as a side effect (when
// resolving a collision elsewhere happens to move the node *from points
// at); callers move to the child by assigning follow's return value into
// their own cursor, not by re-reading *from.
func (t *Trie[V]) follow(from *int64, label byte) int64 {
	base := t.base(t.array[*from])
	if base >= 0 {
		to := base ^ int64(label)
		if t.array[to].Check < 0 {
			to = t.popEnode(base, label, *from)
			t.pushSibling(*from, to^int64(label), label, true)
			return to
		}
		if t.array[to].Check != *from {
			return t.resolve(from, base, label)
		}
		return to
	}
	to := t.popEnode(base, label, *from)
	t.pushSibling(*from, to^int64(label), label, false)
	return to
}

// resolve handles the case where the slot base^label that a new edge
// needs is already occupied by some other node's edge. It relocates the
// shorter of the two colliding child-lists (the newcomer's, rooted at
// fromN, or the incumbent's, rooted at the slot's actual parent) into a
// freshly found address range that fits every one of its labels at once,
// then rewires every migrated slot's check pointers, sibling links, and
// any grandchildren, tracking-node registrations, and caller-installed
// relocation callback along the way.
func (t *Trie[V]) resolve(fromN *int64, baseN int64, labelN byte) int64 {
	toPN := baseN ^ int64(labelN)
	fromP := t.array[toPN].Check
	baseP := t.base(t.array[fromP])

	flag := t.consult(baseN, baseP, t.ninfo[*fromN].child, t.ninfo[fromP].child)

	var labels []byte
	if flag {
		labels = t.buildChildLabels(baseN, t.ninfo[*fromN].child, int(labelN))
	} else {
		labels = t.buildChildLabels(baseP, t.ninfo[fromP].child, -1)
	}

	var rawBase int64
	if len(labels) == 1 {
		rawBase = t.findPlace()
	} else {
		rawBase = t.findPlaceForGroup(labels)
	}
	newBase := rawBase ^ int64(labels[0])

	from, baseMoving := fromP, baseP
	if flag {
		from, baseMoving = *fromN, baseN
	}
	if flag && labels[0] == labelN {
		t.ninfo[from].child = labelN
	}
	t.setBase(from, newBase)

	for i, label := range labels {
		to := t.popEnode(newBase, label, from)
		to_ := baseMoving ^ int64(label)

		if i == len(labels)-1 {
			t.ninfo[to].sibling = 0
		} else {
			t.ninfo[to].sibling = labels[i+1]
		}

		if flag && to_ == toPN {
			continue // the newcomer's own edge: nothing pre-existing to migrate
		}
		t.cfg.relocate(to_, to)

		n := &t.array[to]
		old := t.array[to_]
		n.word = old.word
		isInternal := n.word > 0
		if t.cfg.variant == Reduced {
			isInternal = n.word < 0
		}
		if isInternal && label != 0 {
			c := t.ninfo[to_].child
			t.ninfo[to].child = c
			for {
				t.array[t.base(*n)^int64(c)].Check = to
				c = t.ninfo[t.base(*n)^int64(c)].sibling
				if c == 0 {
					break
				}
			}
		}

		if !flag && to_ == *fromN {
			*fromN = to
		}
		if !flag && to_ == toPN {
			t.pushSibling(*fromN, toPN^int64(labelN), labelN, true)
			t.ninfo[to_].child = 0
			switch {
			case t.cfg.variant == Reduced:
				t.array[to_].word = ValueLimit
			case labelN != 0:
				t.array[to_].word = -1
			default:
				t.array[to_].word = 0
			}
			t.array[to_].Check = *fromN
		} else {
			t.pushEnode(to_)
		}

		for id, pos := range t.tracking {
			if pos == to_ {
				t.tracking[id] = to
			}
		}
	}

	if flag {
		return newBase ^ int64(labelN)
	}
	return toPN
}
