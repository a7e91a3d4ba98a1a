package sources

// Registry assembly lives in the app package because the per-provider
// packages import this one; keeping construction out of this package avoids
// the cycle. This file only defines the declaration-order contract.

// Declared pairs a Source with its declaration index. Declaration order is
// the final dedup tie-break, so it must be stable across cycles.
type Declared struct {
	Source Source
	Order  int
}

// Declare assigns stable declaration indexes to sources in the given order.
func Declare(srcs ...Source) []Declared {
	out := make([]Declared, len(srcs))
	for i, s := range srcs {
		out[i] = Declared{Source: s, Order: i}
	}
	return out
}
