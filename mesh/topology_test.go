package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopologyFromName(t *testing.T) {
	tests := []struct {
		name     string
		numNodes int
		want     ElementTopology
	}{
		{"TETRA4", 4, Tetrahedron4},
		{"tetra", 8, Tetrahedron8},
		{"Tetra10", 10, Tetrahedron10},
		{"tetrahedron", 14, Tetrahedron14},
		{"PYRAMID5", 5, Pyramid5},
		{"pyramid13", 13, Pyramid13},
		{"WEDGE6", 6, Wedge6},
		{"wedge15", 15, Wedge15},
		{"wedge", 16, Wedge16},
		{"HEX8", 8, Hexahedron8},
		{"hex9", 9, Hexahedron9},
		{"HEXAHEDRON", 20, Hexahedron20},
		{"hex27", 27, Hexahedron27},
		{"NFACED", 0, Polyhedron},
		{"nfaced_polyhedra", 0, Polyhedron},
		// Arity must match a variant of the named shape
		{"tetra", 5, Invalid},
		{"hex", 4, Invalid},
		{"nfaced", 8, Invalid},
		{"pyramid", 16, Invalid},
		{"tri3", 3, Invalid},
		{"quad4", 4, Invalid},
		{"", 4, Invalid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TopologyFromName(tt.name, tt.numNodes), "%s/%d", tt.name, tt.numNodes)
	}
}

func TestTopologyProperties(t *testing.T) {
	tests := []struct {
		topo     ElementTopology
		shape    Shape
		numNodes int
		numFaces int
	}{
		{Invalid, ShapeInvalid, 0, -1},
		{Tetrahedron4, ShapeTetrahedron, 4, 4},
		{Tetrahedron14, ShapeTetrahedron, 14, 4},
		{Pyramid5, ShapePyramid, 5, 5},
		{Pyramid13, ShapePyramid, 13, 5},
		{Wedge6, ShapeWedge, 6, 5},
		{Wedge16, ShapeWedge, 16, 5},
		{Hexahedron8, ShapeHexahedron, 8, 6},
		{Hexahedron27, ShapeHexahedron, 27, 6},
		{Polyhedron, ShapePolyhedron, 0, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.shape, tt.topo.Shape(), tt.topo.String())
		assert.Equal(t, tt.numNodes, tt.topo.NumNodes(), tt.topo.String())
		assert.Equal(t, tt.numFaces, tt.topo.NumFaces(), tt.topo.String())
	}
	assert.True(t, Polyhedron.IsPolyhedral())
	assert.False(t, Hexahedron8.IsPolyhedral())
	assert.Equal(t, "Wedge15", Wedge15.String())
	assert.Equal(t, "Invalid", ElementTopology(99).String())
	assert.Equal(t, ShapeInvalid, ElementTopology(-1).Shape())
}

func TestFaceTemplates(t *testing.T) {
	// Every corner node appears on at least three faces of a closed shape
	for _, shape := range []Shape{ShapeTetrahedron, ShapePyramid, ShapeWedge, ShapeHexahedron} {
		tmpl := FaceTemplates(shape)
		assert.Len(t, tmpl, shape.NumFaces(), shape.String())
		count := make([]int, shape.NumCorners())
		for _, f := range tmpl {
			for _, v := range f {
				count[v]++
			}
		}
		for v, c := range count {
			assert.GreaterOrEqual(t, c, 3, "%s corner %d", shape, v)
		}
	}
	assert.Nil(t, FaceTemplates(ShapePolyhedron))

	// Higher order variants use their corner nodes only
	nodes := make([]int, 20)
	for i := range nodes {
		nodes[i] = 100 + i
	}
	faces := ElementFaces(Hexahedron20, nodes)
	assert.Equal(t, []int{100, 101, 102, 103}, faces[0])
	assert.Equal(t, []int{103, 100, 104, 107}, faces[5])

	pyr := ElementFaces(Pyramid5, []int{10, 11, 12, 13, 14})
	assert.Equal(t, [][]int{
		{10, 11, 12, 13},
		{10, 11, 14},
		{11, 12, 14},
		{12, 13, 14},
		{13, 10, 14},
	}, pyr)

	fk := NewFaceKey([]int{7, 3, 5})
	assert.Equal(t, FaceKey{N: 3, V: [4]int{3, 5, 7, -1}}, fk)
	assert.Equal(t, fk, NewFaceKey([]int{5, 7, 3}))
	assert.NotEqual(t, fk, NewFaceKey([]int{3, 5, 7, 9}))
	assert.Equal(t, []int{3, 5, 7}, fk.Nodes())
}
