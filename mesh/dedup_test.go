package mesh

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dedupMesh numbers the faces of every element of a fixed arity mesh in
// block then element order
func dedupMesh(t *testing.T, fm *FEMesh) (fd *FaceDeduplicator, cellFaces [][]int) {
	fd = NewFaceDeduplicator(3 * fm.NumElements())
	nodes := make([]int, 27)
	for elem := 0; elem < fm.NumElements(); elem++ {
		b, _ := fm.LocateElement(elem)
		_, eb := fm.Block(b)
		nn := fm.ElementNodes(elem, nodes)
		cf := make([]int, eb.Topology().NumFaces())
		require.NoError(t, fd.AddElement(eb.Topology(), nodes[:nn], cf))
		cellFaces = append(cellFaces, cf)
	}
	return
}

// distinctFaces counts distinct sorted node tuples over all element faces
func distinctFaces(fm *FEMesh) int {
	faceMap := make(map[string]struct{})
	nodes := make([]int, 27)
	for elem := 0; elem < fm.NumElements(); elem++ {
		b, _ := fm.LocateElement(elem)
		_, eb := fm.Block(b)
		nn := fm.ElementNodes(elem, nodes)
		for _, faceVerts := range ElementFaces(eb.Topology(), nodes[:nn]) {
			sorted := append([]int(nil), faceVerts...)
			sort.Ints(sorted)
			faceMap[fmt.Sprintf("%v", sorted)] = struct{}{}
		}
	}
	return len(faceMap)
}

func TestDedupSingleElements(t *testing.T) {
	tm := GetStandardTestMeshes()
	tests := []struct {
		name      string
		mesh      CompleteMesh
		numFaces  int
		faceSizes []int
	}{
		{"tet", tm.SingleTet, 4, []int{3, 3, 3, 3}},
		{"hex", tm.SingleHex, 6, []int{4, 4, 4, 4, 4, 4}},
		{"prism", tm.SinglePrism, 5, []int{3, 3, 4, 4, 4}},
		{"pyramid", tm.SinglePyramid, 5, []int{4, 3, 3, 3, 3}},
	}
	for _, tt := range tests {
		fm, err := tt.mesh.Build()
		require.NoError(t, err, tt.name)
		fd, cellFaces := dedupMesh(t, fm)
		assert.Equal(t, tt.numFaces, fd.NumFaces(), tt.name)
		require.Len(t, cellFaces, 1)
		// A single element numbers its faces in template order
		for lf, f := range cellFaces[0] {
			assert.Equal(t, lf, f, tt.name)
		}
		o := fd.FaceNodeOffsets()
		for f, size := range tt.faceSizes {
			assert.Equal(t, size, o.Count(f), "%s face %d", tt.name, f)
		}
	}
}

func TestDedupTwoTets(t *testing.T) {
	tm := GetStandardTestMeshes()
	fm, err := tm.TwoTetMesh.Build()
	require.NoError(t, err)
	fd, cellFaces := dedupMesh(t, fm)
	assert.Equal(t, 7, fd.NumFaces())
	assert.Equal(t, []int{0, 1, 2, 3}, cellFaces[0])
	// The second tet's first face is the first tet's third face, then new ids follow
	assert.Equal(t, []int{2, 4, 5, 6}, cellFaces[1])

	// Face nodes keep the template order of the element that created them
	assert.Equal(t, []int{
		0, 1, 2,
		0, 1, 3,
		1, 2, 3,
		2, 0, 3,
		1, 2, 4,
		2, 3, 4,
		3, 1, 4,
	}, fd.FaceNodes())
	assert.Equal(t, NewFaceKey([]int{3, 2, 1}), fd.FaceKey(2))
}

func TestDedupMixed(t *testing.T) {
	tm := GetStandardTestMeshes()
	fm, err := tm.MixedMesh.Build()
	require.NoError(t, err)
	fd, cellFaces := dedupMesh(t, fm)
	assert.Equal(t, 17, fd.NumFaces())
	assert.Equal(t, distinctFaces(fm), fd.NumFaces())

	hex, pyr, wedge, tet := cellFaces[0], cellFaces[1], cellFaces[2], cellFaces[3]
	assert.Equal(t, hex[1], pyr[0], "hex top is pyramid base")
	assert.Equal(t, hex[4], wedge[2], "hex +x face is a wedge quad")
	assert.Equal(t, pyr[2], tet[0], "pyramid +x triangle is a tet face")
}

func TestDedupGridCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 8; trial++ {
		nx, ny, nz := 1+rng.Intn(4), 1+rng.Intn(4), 1+rng.Intn(4)
		numNodes := (nx + 1) * (ny + 1) * (nz + 1)
		var relabel []int
		if trial%2 == 1 {
			relabel = rng.Perm(numNodes)
		}

		hm, err := NewHexGridMesh(nx, ny, nz, relabel)
		require.NoError(t, err)
		fd, _ := dedupMesh(t, hm)
		want := (nx+1)*ny*nz + nx*(ny+1)*nz + nx*ny*(nz+1)
		assert.Equal(t, want, fd.NumFaces(), "hex grid %dx%dx%d", nx, ny, nz)
		assert.Equal(t, distinctFaces(hm), fd.NumFaces())

		tmesh, err := NewTetGridMesh(nx, ny, nz, relabel)
		require.NoError(t, err)
		fd, cellFaces := dedupMesh(t, tmesh)
		assert.Equal(t, distinctFaces(tmesh), fd.NumFaces(), "tet grid %dx%dx%d", nx, ny, nz)

		// Every face has one or two incident cells
		incidence := make([]int, fd.NumFaces())
		for _, cf := range cellFaces {
			for _, f := range cf {
				incidence[f]++
			}
		}
		for f, n := range incidence {
			assert.True(t, n == 1 || n == 2, "face %d has %d cells", f, n)
		}
	}
}

func TestDedupErrors(t *testing.T) {
	fd := NewFaceDeduplicator(0)
	cf := make([]int, 6)
	assert.ErrorIs(t, fd.AddElement(Polyhedron, []int{0, 1, 2, 3}, cf), ErrInvalidTopology)
	assert.ErrorIs(t, fd.AddElement(Hexahedron8, []int{0, 1, 2, 3}, cf), ErrMalformedBlock)
	assert.ErrorIs(t, fd.AddElement(Hexahedron8, []int{0, 1, 2, 3, 4, 5, 6, 7}, cf[:4]), ErrMalformedBlock)
	assert.Equal(t, 0, fd.NumFaces())
}
