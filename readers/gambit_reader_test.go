package readers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/femesh/mesh"
)

// Helper function to create temporary test files
func createTempNeuFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.neu")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

var gambitTypeCodes = map[mesh.Shape]int{
	mesh.ShapeHexahedron:  4,
	mesh.ShapeWedge:       5,
	mesh.ShapeTetrahedron: 6,
	mesh.ShapePyramid:     7,
}

// buildGambitFile writes a standard test mesh in Gambit neutral format with
// one group holding every element and the given boundary records
func buildGambitFile(cm mesh.CompleteMesh, boundaries ...string) string {
	var (
		sb    strings.Builder
		nelem int
	)
	for _, es := range cm.Elements {
		nelem += len(es.Elements)
	}
	sb.WriteString("        CONTROL INFO 2.0.0\n** GAMBIT NEUTRAL FILE\ntest\n")
	sb.WriteString("PROGRAM:                Gambit     VERSION:  2.4.6\n")
	sb.WriteString("     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL\n")
	fmt.Fprintf(&sb, "%10d%10d%10d%10d%10d%10d\n", len(cm.Nodes.Nodes), nelem, 1, len(boundaries), 3, 3)
	sb.WriteString("ENDOFSECTION\n   NODAL COORDINATES 2.0.0\n")
	for i, xyz := range cm.Nodes.Nodes {
		fmt.Fprintf(&sb, "%10d%20.11e%20.11e%20.11e\n", i+1, xyz[0], xyz[1], xyz[2])
	}
	sb.WriteString("ENDOFSECTION\n      ELEMENTS/CELLS 2.0.0\n")
	id := 1
	for _, es := range cm.Elements {
		for _, elem := range es.Elements {
			fmt.Fprintf(&sb, "%8d %2d %2d ", id, gambitTypeCodes[es.Type.Shape()], len(elem))
			for _, name := range elem {
				fmt.Fprintf(&sb, "%8d", cm.Nodes.NodeMap[name]+1)
			}
			sb.WriteString("\n")
			id++
		}
	}
	sb.WriteString("ENDOFSECTION\n       ELEMENT GROUP 2.0.0\n")
	fmt.Fprintf(&sb, "GROUP:          1 ELEMENTS:%11d MATERIAL:          2 NFLAGS:          1\n", nelem)
	sb.WriteString("                           fluid\n       0\n")
	for e := 1; e <= nelem; e++ {
		fmt.Fprintf(&sb, "%8d", e)
		if e%10 == 0 || e == nelem {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("ENDOFSECTION\n")
	for _, bc := range boundaries {
		sb.WriteString(" BOUNDARY CONDITIONS 2.0.0\n")
		sb.WriteString(bc)
		sb.WriteString("ENDOFSECTION\n")
	}
	return sb.String()
}

func TestReadGambitNeutralHeader(t *testing.T) {
	content := `        CONTROL INFO 2.0.0
** GAMBIT NEUTRAL FILE
Test mesh for unit testing
PROGRAM:                  Gmsh     VERSION:  4.13.1
Sat Jun  7 21:41:35 2025
     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         8        1         1         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         2   1.00000000000e+00   0.00000000000e+00   0.00000000000e+00
         3   1.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         4   0.00000000000e+00   1.00000000000e+00   0.00000000000e+00
         5   0.00000000000e+00   0.00000000000e+00   1.00000000000e+00
         6   1.00000000000e+00   0.00000000000e+00   1.00000000000e+00
         7   1.00000000000e+00   1.00000000000e+00   1.00000000000e+00
         8   0.00000000000e+00   1.00000000000e+00   1.00000000000e+00
ENDOFSECTION
   ELEMENTS/CELLS 2.0.0
         1         4         8         1         2         3         4         5
                                       6         7         8
ENDOFSECTION
       ELEMENT GROUP 2.0.0
GROUP:           1 ELEMENTS:           1 MATERIAL:           2 NFLAGS:           0
fluid
         1
ENDOFSECTION`

	fm, err := ReadGambitNeutral(createTempNeuFile(t, content))
	require.NoError(t, err)
	assert.Equal(t, 8, fm.NumNodes())
	assert.Equal(t, 1, fm.NumElements())
	name, eb := fm.Block(0)
	assert.Equal(t, "block_1", name)
	assert.Equal(t, mesh.Hexahedron8, eb.Topology())
	buf := make([]int, 8)
	fm.ElementNodes(0, buf)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, buf)
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, fm.NodeCoordinates()[6])
	fluid, ok := fm.Sets(mesh.ElementEntity).Tag("fluid")
	require.True(t, ok)
	assert.Equal(t, []int{0}, fluid)
}

func TestReadGambitNeutralMixed(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	wall := "wall 1 2 0 6\n       1       4       1\n       4       6       3\n"
	inlet := "inlet 0 2 0 6\n       1\n       9\n"
	fm, err := ReadGambitNeutral(createTempNeuFile(t, buildGambitFile(tm.MixedMesh, wall, inlet)))
	require.NoError(t, err)

	assert.Equal(t, 13, fm.NumNodes())
	assert.Equal(t, 4, fm.NumElements())
	require.Equal(t, 4, fm.NumBlocks())
	want := []mesh.ElementTopology{mesh.Hexahedron8, mesh.Pyramid5, mesh.Wedge6, mesh.Tetrahedron4}
	for b, topo := range want {
		name, eb := fm.Block(b)
		assert.Equal(t, fmt.Sprintf("block_%d", b+1), name)
		assert.Equal(t, topo, eb.Topology())
	}

	ref, err := tm.MixedMesh.Build()
	require.NoError(t, err)
	assert.Equal(t, ref.NodeCoordinates(), fm.NodeCoordinates())
	got, exp := make([]int, 8), make([]int, 8)
	for elem := 0; elem < 4; elem++ {
		n := fm.ElementNodes(elem, got)
		ref.ElementNodes(elem, exp)
		assert.Equal(t, exp[:n], got[:n], "element %d", elem)
	}

	side, ok := fm.Sets(mesh.SideEntity).Tag("wall")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0, 3, 2}, side)
	nodes, ok := fm.Sets(mesh.NodeEntity).Tag("inlet")
	require.True(t, ok)
	assert.Equal(t, []int{0, 8}, nodes)
	fluid, _ := fm.Sets(mesh.ElementEntity).Tag("fluid")
	assert.Equal(t, []int{0, 1, 2, 3}, fluid)
}

func TestReadGambitNeutralFaceNumbering(t *testing.T) {
	// Gambit tetrahedron faces 1-4 are nodes 123, 124, 234, 134
	tm := mesh.GetStandardTestMeshes()
	wall := "wall 1 4 0 6\n" +
		"       1       6       1\n       1       6       2\n" +
		"       1       6       3\n       1       6       4\n"
	fm, err := ReadGambitNeutral(createTempNeuFile(t, buildGambitFile(tm.SingleTet, wall)))
	require.NoError(t, err)
	side, ok := fm.Sets(mesh.SideEntity).Tag("wall")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0, 0, 1, 0, 2, 0, 3}, side)

	nodes := make([]int, 4)
	fm.ElementNodes(0, nodes)
	faces := mesh.ElementFaces(mesh.Tetrahedron4, nodes)
	gambitFaces := [][]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}}
	for i := 0; i < len(side); i += 2 {
		assert.Equal(t, mesh.NewFaceKey(gambitFaces[side[i+1]]), mesh.NewFaceKey(faces[side[i+1]]),
			"face %d", side[i+1]+1)
	}
}

func TestReadGambitNeutralRuns(t *testing.T) {
	// Consecutive elements of one type share a block
	tm := mesh.GetStandardTestMeshes()
	fm, err := ReadGambitNeutral(createTempNeuFile(t, buildGambitFile(tm.TwoTetMesh)))
	require.NoError(t, err)
	assert.Equal(t, 1, fm.NumBlocks())
	assert.Equal(t, 2, fm.NumElements())
	assert.Equal(t, 0, fm.NumSets(mesh.SideEntity))
}

func TestReadGambitNeutralErrors(t *testing.T) {
	header := `     NUMNP     NELEM     NGRPS    NBSETS     NDFCD     NDFVL
         4         1         0         0         3         3
ENDOFSECTION
   NODAL COORDINATES 2.0.0
         1   0.0   0.0   0.0
         2   1.0   0.0   0.0
         3   0.0   1.0   0.0
         4   0.0   0.0   1.0
ENDOFSECTION
   ELEMENTS/CELLS 2.0.0
`
	// A triangle is not a 3D element
	_, err := ReadGambitNeutral(createTempNeuFile(t, header+"         1         3         3         1         2         3\nENDOFSECTION\n"))
	assert.ErrorIs(t, err, mesh.ErrInvalidTopology)

	// Node count that fits no tetrahedron variant
	_, err = ReadGambitNeutral(createTempNeuFile(t, header+"         1         6         5         1         2         3         4         4\nENDOFSECTION\n"))
	assert.ErrorIs(t, err, mesh.ErrInvalidTopology)

	// Node beyond the mesh
	_, err = ReadGambitNeutral(createTempNeuFile(t, header+"         1         6         4         1         2         3         5\nENDOFSECTION\n"))
	assert.ErrorIs(t, err, mesh.ErrOutOfRangeIndex)

	// Truncated element section
	_, err = ReadGambitNeutral(createTempNeuFile(t, header))
	assert.Error(t, err)

	_, err = ReadGambitNeutral(filepath.Join(t.TempDir(), "missing.neu"))
	assert.Error(t, err)
}

func TestReadMeshFile(t *testing.T) {
	tm := mesh.GetStandardTestMeshes()
	fm, err := ReadMeshFile(createTempNeuFile(t, buildGambitFile(tm.SingleTet)))
	require.NoError(t, err)
	assert.Equal(t, 1, fm.NumElements())

	_, err = ReadMeshFile("mesh.obj")
	assert.ErrorContains(t, err, "unsupported mesh format")
}
