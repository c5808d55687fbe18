package mesh

import "sort"

// Local corner node indices bounding each face, in face order. Shared faces
// of adjacent elements resolve to the same node set through these tables.
var (
	tetFaces = [][]int{
		{0, 1, 2},
		{0, 1, 3},
		{1, 2, 3},
		{2, 0, 3},
	}
	pyramidFaces = [][]int{
		{0, 1, 2, 3}, // base quad
		{0, 1, 4},
		{1, 2, 4},
		{2, 3, 4},
		{3, 0, 4},
	}
	wedgeFaces = [][]int{
		{0, 1, 2}, // bottom tri
		{3, 4, 5}, // top tri
		{0, 1, 4, 3},
		{1, 2, 5, 4},
		{2, 0, 3, 5},
	}
	hexFaces = [][]int{
		{0, 1, 2, 3}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4},
		{2, 3, 7, 6},
		{1, 2, 6, 5},
		{3, 0, 4, 7},
	}
)

// FaceTemplates returns the face templates of a shape, nil for shapes without
// fixed faces. The tables are shared and must not be modified.
func FaceTemplates(shape Shape) [][]int {
	switch shape {
	case ShapeTetrahedron:
		return tetFaces
	case ShapePyramid:
		return pyramidFaces
	case ShapeWedge:
		return wedgeFaces
	case ShapeHexahedron:
		return hexFaces
	default:
		return nil
	}
}

// ElementFaces returns the global node indices of each face of an element
func ElementFaces(topology ElementTopology, nodes []int) [][]int {
	templates := FaceTemplates(topology.Shape())
	faces := make([][]int, len(templates))
	for i, tmpl := range templates {
		faces[i] = make([]int, len(tmpl))
		for j, local := range tmpl {
			faces[i][j] = nodes[local]
		}
	}
	return faces
}

// FaceKey is the canonical identity of a face: its node indices in ascending
// order, padded with -1.
type FaceKey struct {
	N int
	V [4]int
}

func NewFaceKey(faceNodes []int) (fk FaceKey) {
	fk.N = len(faceNodes)
	fk.V = [4]int{-1, -1, -1, -1}
	copy(fk.V[:], faceNodes)
	sort.Ints(fk.V[:fk.N])
	return
}

// Nodes returns the sorted node indices of the key
func (fk FaceKey) Nodes() []int {
	return append([]int(nil), fk.V[:fk.N]...)
}
