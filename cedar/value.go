package cedar

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the set of value types a Trie may store, standing in for
// cedar.h's value_type template parameter. Any fixed-width integer or
// floating-point type fits in the 64-bit word shared with a node's base
// index.
type Number interface {
	constraints.Integer | constraints.Float
}

// ValueLimit marks a reduced-trie leaf that has been allocated (by
// following a path down to it) but never assigned a value by Update — the
// gap between "slot exists" and "slot holds the caller's value".
const ValueLimit = 2147483647

// wordToValue and valueToWord convert between the 64-bit word stored next
// to check and the caller's value type. Floating-point types go through
// float64 bits so a single branch covers float32 and float64 alike; the
// caller-visible NaN sentinels below only need to be computed once per
// Trie, not on every access.
func wordToValue[V Number](w int64) V {
	var zero V
	switch any(zero).(type) {
	case float32, float64:
		return V(math.Float64frombits(uint64(w)))
	default:
		return V(w)
	}
}

func valueToWord[V Number](v V) int64 {
	var zero V
	switch any(zero).(type) {
	case float32, float64:
		return int64(math.Float64bits(float64(v)))
	default:
		return int64(v)
	}
}

// defaultSentinels reproduces NaN<value_type>::N1 / N2 from cedar.h. Only
// the float32 specialization there departs from -1/-2 (two quiet NaNs,
// 0x7f800001 and 0x7f800002); float64 and every integer type fall back to
// the generic template's -1/-2, exactly as the original leaves double
// unspecialized.
func defaultSentinels[V Number]() (noValue, noPath V) {
	var zero V
	switch any(zero).(type) {
	case float32:
		return V(math.Float32frombits(0x7f800001)), V(math.Float32frombits(0x7f800002))
	default:
		n1, n2 := int64(-1), int64(-2)
		return V(n1), V(n2)
	}
}
