package cedar

// PredictMatch is one hit from CommonPrefixPredict or Dump: a stored
// value, the depth below the search root at which it was found, and the
// node index holding it (pass both to Suffix to recover the key bytes
// below the search root; for Dump that is the full key).
type PredictMatch[V Number] struct {
	Value  V
	Length int
	ID     int64
}

// Begin descends from the node at *from to its left-most leaf, updating
// *from to the leaf and adding the number of edges descended to
// *length. It reports false (NO_PATH) if *from has no descendants at
// all.
func (t *Trie[V]) Begin(from *int64, length *int) (V, bool) {
	if t.ninfo == nil {
		t.restoreNinfo()
	}
	base := t.base(t.array[*from])
	c := t.ninfo[*from].child
	if *from == 0 {
		c = t.ninfo[base^int64(c)].sibling
		if c == 0 {
			return t.cfg.noPath, false
		}
	}
	for c != 0 {
		*from = t.base(t.array[*from]) ^ int64(c)
		c = t.ninfo[*from].child
		*length++
	}
	if t.cfg.variant == Reduced && t.array[*from].word >= 0 {
		return wordToValue[V](t.array[*from].word), true
	}
	term := t.base(t.array[*from]) ^ int64(c)
	return wordToValue[V](t.array[term].word), true
}

// Next advances from the leaf at *from (as left by Begin or a prior Next)
// to the next leaf to its right within the subtree rooted at root,
// updating *from and *length. It reports false (NO_PATH) once the
// subtree is exhausted.
func (t *Trie[V]) Next(from *int64, length *int, root int64) (V, bool) {
	var c byte
	if t.cfg.variant != Reduced || t.array[*from].word < 0 {
		c = t.ninfo[t.base(t.array[*from])^0].sibling
	}
	for c == 0 && *from != root {
		c = t.ninfo[*from].sibling
		*from = t.array[*from].Check
		*length--
	}
	if c == 0 {
		return t.cfg.noPath, false
	}
	*from = t.base(t.array[*from]) ^ int64(c)
	*length++
	return t.Begin(from, length)
}

// Suffix recovers the last length bytes of the path leading to node to.
func (t *Trie[V]) Suffix(length int, to int64) []byte {
	key := make([]byte, length)
	for length > 0 {
		length--
		from := t.array[to].Check
		key[length] = byte(t.base(t.array[from]) ^ to)
		to = from
	}
	return key
}

// CommonPrefixPredict enumerates every stored key that has key as a
// prefix, keeping at most max of them (max < 0 means unlimited). It
// returns the matches kept and the total number seen.
func (t *Trie[V]) CommonPrefixPredict(key []byte, max int) ([]PredictMatch[V], int) {
	return t.CommonPrefixPredictFrom(key, 0, max)
}

// CommonPrefixPredictFrom is CommonPrefixPredict rooted at node from.
func (t *Trie[V]) CommonPrefixPredictFrom(key []byte, from int64, max int) ([]PredictMatch[V], int) {
	pos := 0
	if _, status := t.find(key, &from, &pos, len(key)); status == findNoPath {
		return nil, 0
	}
	root := from
	length := 0
	var out []PredictMatch[V]
	total := 0
	value, ok := t.Begin(&from, &length)
	for ok {
		if max < 0 || total < max {
			out = append(out, PredictMatch[V]{Value: value, Length: length, ID: from})
		}
		total++
		value, ok = t.Next(&from, &length, root)
	}
	return out, total
}

// Dump enumerates every key stored in the trie, in the order a pre-order
// walk of the double array visits them.
func (t *Trie[V]) Dump() []PredictMatch[V] {
	var from int64
	length := 0
	var out []PredictMatch[V]
	value, ok := t.Begin(&from, &length)
	for ok {
		out = append(out, PredictMatch[V]{Value: value, Length: length, ID: from})
		value, ok = t.Next(&from, &length, 0)
	}
	return out
}
