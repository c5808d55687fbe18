package fv

import (
	"github.com/notargets/femesh/types"
	"github.com/notargets/femesh/utils"
)

// ConstructEdges derives the edges of the mesh from its faces. Each pair of
// consecutive face nodes, wrapping around, bounds an edge; edges are numbered
// in the order they are first met walking the faces.
func (m *Mesh) ConstructEdges() {
	index := utils.NewOrderedIndex[types.EdgeKey](m.FaceNodeOffsets.Total() / 2)
	m.FaceEdgeOffsets = make(utils.Offsets, 1, m.NumFaces+1)
	m.FaceEdges = make([]int, 0, m.FaceNodeOffsets.Total())
	for f := 0; f < m.NumFaces; f++ {
		nodes := m.FaceNodesOf(f)
		for i, n0 := range nodes {
			n1 := nodes[(i+1)%len(nodes)]
			id, _ := index.Insert(types.NewEdgeKey(n0, n1))
			m.FaceEdges = append(m.FaceEdges, id)
		}
		m.FaceEdgeOffsets.Append(len(nodes))
	}
	m.NumEdges = index.Len()
	m.EdgeNodes = make([]int, 2*m.NumEdges)
	for e := 0; e < m.NumEdges; e++ {
		m.EdgeNodes[2*e], m.EdgeNodes[2*e+1] = index.Key(e).Nodes()
	}
}
