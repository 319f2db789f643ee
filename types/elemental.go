package types

import (
	"fmt"
	"math"
)

/*
EdgeKey packs an undirected edge into one comparable value. The lower vertex
index sits in the low 32 bits, so [4,0] and [0,4] share a key.
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) EdgeKey {
	lo, hi := verts[0], verts[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 || hi > math.MaxUint32 {
		panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
			verts[0], verts[1]))
	}
	return EdgeKey(uint64(lo) | uint64(hi)<<32)
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	verts[0] = int(ek & math.MaxUint32)
	verts[1] = int(ek >> 32)
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

/*
EdgeCounter collects directed edges and counts how many times each undirected
edge was seen. Edges seen exactly once form the boundary of the collected
triangles and are returned in insertion order with their original direction.
*/
type EdgeCounter struct {
	count map[EdgeKey]int
	edges [][2]int
}

func NewEdgeCounter() *EdgeCounter {
	return &EdgeCounter{count: make(map[EdgeKey]int)}
}

func (ec *EdgeCounter) Add(verts [2]int) {
	ec.count[NewEdgeKey(verts)]++
	ec.edges = append(ec.edges, verts)
}

func (ec *EdgeCounter) Count(verts [2]int) int { return ec.count[NewEdgeKey(verts)] }

func (ec *EdgeCounter) Boundary() (boundary [][2]int) {
	for _, e := range ec.edges {
		if ec.count[NewEdgeKey(e)] == 1 {
			boundary = append(boundary, e)
		}
	}
	return
}
