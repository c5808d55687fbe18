package mesh

import (
	"fmt"

	"github.com/notargets/femesh/utils"
)

// TestMeshes provides a collection of standard meshes shared by the tests of
// the mesh, translation and reader packages
type TestMeshes struct {
	CubeNodes NodeSet

	SingleTet     CompleteMesh
	SingleHex     CompleteMesh
	SinglePrism   CompleteMesh
	SinglePyramid CompleteMesh

	TwoTetMesh CompleteMesh
	MixedMesh  CompleteMesh
}

// NodeSet represents a set of nodes with their coordinates
type NodeSet struct {
	Nodes   [][]float64    // Coordinates [N][3]
	NodeMap map[string]int // Logical name -> array index
}

// ElementSet is one block of elements given by logical node names
type ElementSet struct {
	Type     ElementTopology
	Elements [][]string
}

// CompleteMesh represents a complete mesh with nodes and element blocks
type CompleteMesh struct {
	Nodes    NodeSet
	Elements []ElementSet
}

// GetStandardTestMeshes returns a set of standard test meshes
func GetStandardTestMeshes() *TestMeshes {
	tm := &TestMeshes{}
	tm.CubeNodes = createCubeNodes()

	tm.SingleTet = CompleteMesh{
		Nodes: createTetraNodes(),
		Elements: []ElementSet{{
			Type:     Tetrahedron4,
			Elements: [][]string{{"v0", "v1", "v2", "v3"}},
		}},
	}
	tm.SingleHex = CompleteMesh{
		Nodes: tm.CubeNodes,
		Elements: []ElementSet{{
			Type:     Hexahedron8,
			Elements: [][]string{{"origin", "x", "xy", "y", "z", "xz", "xyz", "yz"}},
		}},
	}
	tm.SinglePrism = CompleteMesh{
		Nodes: tm.CubeNodes,
		Elements: []ElementSet{{
			Type:     Wedge6,
			Elements: [][]string{{"origin", "x", "y", "z", "xz", "yz"}},
		}},
	}
	tm.SinglePyramid = CompleteMesh{
		Nodes: tm.CubeNodes,
		Elements: []ElementSet{{
			Type:     Pyramid5,
			Elements: [][]string{{"origin", "x", "xy", "y", "apex"}},
		}},
	}
	tm.TwoTetMesh = createTwoTetMesh()
	tm.MixedMesh = createMixedMesh(tm.CubeNodes)
	return tm
}

func createCubeNodes() NodeSet {
	nodes := [][]float64{
		{0, 0, 0},       // 0: origin
		{1, 0, 0},       // 1: x
		{1, 1, 0},       // 2: xy
		{0, 1, 0},       // 3: y
		{0, 0, 1},       // 4: z
		{1, 0, 1},       // 5: xz
		{1, 1, 1},       // 6: xyz
		{0, 1, 1},       // 7: yz
		{0.5, 0.5, 2},   // 8: top_apex
		{2, 0, 0.5},     // 9: wedge_front
		{2, 1, 0.5},     // 10: wedge_back
		{1.5, 0.5, 1.8}, // 11: tet_tip
		{0.5, 0.5, 0.5}, // 12: apex
	}
	nodeMap := map[string]int{
		"origin": 0, "x": 1, "xy": 2, "y": 3,
		"z": 4, "xz": 5, "xyz": 6, "yz": 7,
		"top_apex": 8, "wedge_front": 9, "wedge_back": 10, "tet_tip": 11,
		"apex": 12,
	}
	return NodeSet{Nodes: nodes, NodeMap: nodeMap}
}

func createTetraNodes() NodeSet {
	return NodeSet{
		Nodes: [][]float64{
			{0, 0, 0},
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
			{1, 1, 1},
		},
		NodeMap: map[string]int{"v0": 0, "v1": 1, "v2": 2, "v3": 3, "v4": 4},
	}
}

// Two tets sharing the face (v1,v2,v3)
func createTwoTetMesh() CompleteMesh {
	return CompleteMesh{
		Nodes: createTetraNodes(),
		Elements: []ElementSet{{
			Type: Tetrahedron4,
			Elements: [][]string{
				{"v0", "v1", "v2", "v3"},
				{"v1", "v2", "v3", "v4"},
			},
		}},
	}
}

/*
A hex with a pyramid on its top face, a wedge on its +x face and a tet on the
+x triangle of the pyramid: 4 elements, 20 element faces of which 3 are
shared, 17 faces total.
*/
func createMixedMesh(cube NodeSet) CompleteMesh {
	return CompleteMesh{
		Nodes: cube,
		Elements: []ElementSet{
			{Type: Hexahedron8, Elements: [][]string{
				{"origin", "x", "xy", "y", "z", "xz", "xyz", "yz"}}},
			{Type: Pyramid5, Elements: [][]string{
				{"z", "xz", "xyz", "yz", "top_apex"}}},
			{Type: Wedge6, Elements: [][]string{
				{"x", "xz", "wedge_front", "xy", "xyz", "wedge_back"}}},
			{Type: Tetrahedron4, Elements: [][]string{
				{"xz", "xyz", "top_apex", "tet_tip"}}},
		},
	}
}

// Build assembles the mesh, one block per element set named block_<n>
func (cm CompleteMesh) Build() (fm *FEMesh, err error) {
	if fm, err = NewFEMesh(utils.SerialGroup, len(cm.Nodes.Nodes)); err != nil {
		return
	}
	coords := fm.NodeCoordinates()
	for i, xyz := range cm.Nodes.Nodes {
		coords[i].X, coords[i].Y, coords[i].Z = xyz[0], xyz[1], xyz[2]
	}
	for n, es := range cm.Elements {
		var conn []int
		for _, elem := range es.Elements {
			for _, name := range elem {
				ind, ok := cm.Nodes.NodeMap[name]
				if !ok {
					return nil, fmt.Errorf("unknown node %q", name)
				}
				conn = append(conn, ind)
			}
		}
		var eb *ElementBlock
		if eb, err = NewElementBlock(len(es.Elements), es.Type, es.Type.NumNodes(), conn); err != nil {
			return nil, err
		}
		if err = fm.AddBlock(fmt.Sprintf("block_%d", n+1), eb); err != nil {
			return nil, err
		}
	}
	return
}

// hexCorners lists the grid offsets of the corners of a hexahedron
var hexCorners = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// kuhnTets splits a hexahedron into 6 tets around its 0-6 diagonal. Every
// cell of a grid uses the same diagonal, so neighboring cells conform.
var kuhnTets = [6][4]int{
	{0, 1, 2, 6},
	{0, 1, 5, 6},
	{0, 3, 2, 6},
	{0, 3, 7, 6},
	{0, 4, 5, 6},
	{0, 4, 7, 6},
}

// gridHexNodes returns the node lists of an nx*ny*nz structured grid of unit
// hexahedra, with relabel applied to every node index when it is non nil
func gridHexNodes(nx, ny, nz int, relabel []int) (cells [][8]int) {
	node := func(i, j, k int) int {
		n := i + (nx+1)*(j+(ny+1)*k)
		if relabel != nil {
			n = relabel[n]
		}
		return n
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var c [8]int
				for v, off := range hexCorners {
					c[v] = node(i+off[0], j+off[1], k+off[2])
				}
				cells = append(cells, c)
			}
		}
	}
	return
}

func gridMesh(nx, ny, nz int, relabel []int) (fm *FEMesh, err error) {
	numNodes := (nx + 1) * (ny + 1) * (nz + 1)
	if fm, err = NewFEMesh(utils.SerialGroup, numNodes); err != nil {
		return
	}
	coords := fm.NodeCoordinates()
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				n := i + (nx+1)*(j+(ny+1)*k)
				if relabel != nil {
					n = relabel[n]
				}
				coords[n].X, coords[n].Y, coords[n].Z = float64(i), float64(j), float64(k)
			}
		}
	}
	return
}

// NewHexGridMesh builds a structured grid of hexahedra as a single block.
// relabel, when non nil, is a permutation of the node indices.
func NewHexGridMesh(nx, ny, nz int, relabel []int) (fm *FEMesh, err error) {
	if fm, err = gridMesh(nx, ny, nz, relabel); err != nil {
		return
	}
	cells := gridHexNodes(nx, ny, nz, relabel)
	conn := make([]int, 0, 8*len(cells))
	for _, c := range cells {
		conn = append(conn, c[:]...)
	}
	var eb *ElementBlock
	if eb, err = NewElementBlock(len(cells), Hexahedron8, 8, conn); err != nil {
		return nil, err
	}
	err = fm.AddBlock("block_1", eb)
	return
}

// NewTetGridMesh builds the same grid as NewHexGridMesh with each hexahedron
// split into six tetrahedra
func NewTetGridMesh(nx, ny, nz int, relabel []int) (fm *FEMesh, err error) {
	if fm, err = gridMesh(nx, ny, nz, relabel); err != nil {
		return
	}
	cells := gridHexNodes(nx, ny, nz, relabel)
	conn := make([]int, 0, 24*len(cells))
	for _, c := range cells {
		for _, tet := range kuhnTets {
			for _, v := range tet {
				conn = append(conn, c[v])
			}
		}
	}
	var eb *ElementBlock
	if eb, err = NewElementBlock(6*len(cells), Tetrahedron4, 4, conn); err != nil {
		return nil, err
	}
	err = fm.AddBlock("block_1", eb)
	return
}
