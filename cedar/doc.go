// Package cedar implements a dynamically-updatable double-array trie: an
// in-memory map from byte-string keys (no zero byte, no empty key) to a
// caller-chosen numeric value type, with O(|key|) lookup, common-prefix and
// predictive enumeration, incremental insert/erase, and a compact on-disk
// snapshot.
//
// A double array encodes a trie as two parallel arrays, base and check.
// A child of node p reached by label l lives at index base[p] ^ l; the
// child confirms its parentage by check[c] == p. Because XOR addressing
// guarantees every child of a node falls in the same 256-slot block as its
// siblings, free-slot bookkeeping is done per block rather than globally.
//
//	            base[p] = 0x0100
//	     p ------------------------> [0x0100 ^ 'a'] = child reached by 'a'
//	     |                           [0x0100 ^ 'b'] = child reached by 'b'
//	     `-- check[child] == p confirms the edge is real, not an XOR collision
//
// Three node layouts share this addressing scheme:
//
//   - Standard: base(n) = n.word; a key's value lives at the label-0 child
//     of the node reached after consuming the whole key.
//   - Reduced: base(n) = -(n.word+1); a non-negative word means the slot is
//     a leaf carrying the value directly, saving one level of indirection
//     for keys with no extensions.
//   - MinimalPrefix: identical node layout to Standard; the out-of-band
//     tail compression that would otherwise distinguish it is out of scope
//     here, so it behaves exactly like Standard.
//
// Inserting a new edge can collide with an edge already owned by a
// different parent at the same base^label address. Resolving the collision
// means relocating the smaller of the two colliding child-lists into a
// fresh address range that can hold every one of its labels simultaneously
// — the conflict-resolution machinery in resolve.go is the heart of the
// package.
package cedar
