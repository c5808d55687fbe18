package types

import (
	"fmt"
	"math"
)

/*
EdgeKey stores the two nodes of an edge in one comparable word, independent of
traversal direction. The edge (4,0) and the edge (0,4) share the key [0,4]:
the smaller node index lives in the low 32 bits, the larger one in the high
32 bits, so keys sort by their high node first.
*/
type EdgeKey uint64

// NewEdgeKey packs the nodes of an edge. Node indices must fit in 32 bits.
func NewEdgeKey(n0, n1 int) EdgeKey {
	const limit = math.MaxUint32
	if n0 < 0 || n0 > limit || n1 < 0 || n1 > limit {
		panic(fmt.Errorf("unable to pack edge nodes %d and %d into an edge key", n0, n1))
	}
	if n1 < n0 {
		n0, n1 = n1, n0
	}
	return EdgeKey(uint64(n0) | uint64(n1)<<32)
}

// Nodes returns the node indices of the edge in ascending order.
func (ek EdgeKey) Nodes() (lo, hi int) {
	lo = int(ek & math.MaxUint32)
	hi = int(ek >> 32)
	return
}
