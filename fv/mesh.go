package fv

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/femesh/mesh"
	"github.com/notargets/femesh/tagger"
	"github.com/notargets/femesh/utils"
)

var ErrInconsistent = errors.New("inconsistent finite volume mesh")

/*
Mesh is the topology of a finite volume mesh: cells bounded by faces, faces
bounded by nodes. Connectivity is kept as offset tables over flat index
arrays. FaceCells holds two cells per face, the owner first; the second slot
is -1 on a boundary face.

Geometric properties (volumes, areas, centroids) are not kept here.
*/
type Mesh struct {
	Comm utils.ProcessGroup

	NumCells      int
	NumGhostCells int
	NumFaces      int
	NumNodes      int
	NumEdges      int

	CellFaceOffsets utils.Offsets
	CellFaces       []int
	FaceNodeOffsets utils.Offsets
	FaceNodes       []int
	FaceCells       []int
	FaceEdgeOffsets utils.Offsets
	FaceEdges       []int
	EdgeNodes       []int

	Nodes []r3.Vec

	CellTags *tagger.Tagger
	FaceTags *tagger.Tagger
	EdgeTags *tagger.Tagger
	NodeTags *tagger.Tagger
	// SideTags hold (cell, local face) pairs
	SideTags *tagger.Tagger
}

func New(comm utils.ProcessGroup, numCells, numFaces, numNodes int) (m *Mesh, err error) {
	if numCells < 0 || numFaces < 0 || numNodes < 0 {
		err = fmt.Errorf("%w: %d cells, %d faces, %d nodes", mesh.ErrOutOfRangeIndex, numCells, numFaces, numNodes)
		return
	}
	m = &Mesh{
		Comm:     comm,
		NumCells: numCells,
		NumFaces: numFaces,
		NumNodes: numNodes,
		Nodes:    make([]r3.Vec, numNodes),
		CellTags: tagger.New(),
		FaceTags: tagger.New(),
		EdgeTags: tagger.New(),
		NodeTags: tagger.New(),
		SideTags: tagger.New(),
	}
	return
}

// ReserveConnectivityStorage sizes CellFaces, FaceNodes and FaceCells from
// the cell to face and face to node offset tables, which must be set first.
// FaceCells starts out as all -1.
func (m *Mesh) ReserveConnectivityStorage() error {
	if m.CellFaceOffsets.NumBuckets() != m.NumCells {
		return fmt.Errorf("%w: cell face offsets cover %d of %d cells",
			ErrInconsistent, m.CellFaceOffsets.NumBuckets(), m.NumCells)
	}
	if m.FaceNodeOffsets.NumBuckets() != m.NumFaces {
		return fmt.Errorf("%w: face node offsets cover %d of %d faces",
			ErrInconsistent, m.FaceNodeOffsets.NumBuckets(), m.NumFaces)
	}
	m.CellFaces = make([]int, m.CellFaceOffsets.Total())
	m.FaceNodes = make([]int, m.FaceNodeOffsets.Total())
	m.FaceCells = make([]int, 2*m.NumFaces)
	for i := range m.FaceCells {
		m.FaceCells[i] = -1
	}
	return nil
}

// CellFacesOf returns the faces of cell c. The slice aliases CellFaces.
func (m *Mesh) CellFacesOf(c int) []int {
	begin, end := m.CellFaceOffsets.Range(c)
	return m.CellFaces[begin:end]
}

// FaceNodesOf returns the nodes of face f. The slice aliases FaceNodes.
func (m *Mesh) FaceNodesOf(f int) []int {
	begin, end := m.FaceNodeOffsets.Range(f)
	return m.FaceNodes[begin:end]
}

// OppositeCell is the cell across face f from cell c, -1 on the boundary
func (m *Mesh) OppositeCell(f, c int) int {
	switch c {
	case m.FaceCells[2*f]:
		return m.FaceCells[2*f+1]
	case m.FaceCells[2*f+1]:
		return m.FaceCells[2*f]
	default:
		return -1
	}
}

func (m *Mesh) IsBoundaryFace(f int) bool {
	return m.FaceCells[2*f+1] == -1
}

// BoundaryFaces returns the set of faces with a single incident cell
func (m *Mesh) BoundaryFaces() *roaring.Bitmap {
	bm := roaring.New()
	for f := 0; f < m.NumFaces; f++ {
		if m.IsBoundaryFace(f) {
			bm.Add(uint32(f))
		}
	}
	return bm
}

// CellFaceIncidence is the NumCells x NumFaces matrix holding +1 where a cell
// owns a face and -1 where it is the neighbor.
func (m *Mesh) CellFaceIncidence() *sparse.CSR {
	inc := sparse.NewDOK(m.NumCells, m.NumFaces)
	for f := 0; f < m.NumFaces; f++ {
		if owner := m.FaceCells[2*f]; owner >= 0 {
			inc.Set(owner, f, 1)
		}
		if nbr := m.FaceCells[2*f+1]; nbr >= 0 {
			inc.Set(nbr, f, -1)
		}
	}
	return inc.ToCSR()
}

// CellAdjacency is the product of the incidence matrix with its transpose.
// The diagonal counts the faces of each cell; entry (i,j), i != j, is minus
// the number of faces cells i and j share.
func (m *Mesh) CellAdjacency() *sparse.CSR {
	inc := m.CellFaceIncidence()
	adj := sparse.NewCSR(m.NumCells, m.NumCells, nil, nil, nil)
	adj.Mul(inc, inc.T())
	return adj
}

// SideFaces resolves the (cell, local face) pairs of a side tag to face ids
func (m *Mesh) SideFaces(name string) (faces []int, err error) {
	pairs, ok := m.SideTags.Tag(name)
	if !ok {
		err = fmt.Errorf("side set %q: %w", name, tagger.ErrTagNotFound)
		return
	}
	faces = make([]int, len(pairs)/2)
	for i := range faces {
		c, lf := pairs[2*i], pairs[2*i+1]
		if c < 0 || c >= m.NumCells || lf < 0 || lf >= m.CellFaceOffsets.Count(c) {
			err = fmt.Errorf("%w: side set %q entry %d is cell %d face %d",
				mesh.ErrOutOfRangeIndex, name, i, c, lf)
			return nil, err
		}
		faces[i] = m.CellFaces[m.CellFaceOffsets[c]+lf]
	}
	return
}

// BoundaryConditions classifies the side and face tags whose names denote a
// boundary condition
func (m *Mesh) BoundaryConditions() map[string]utils.BCType {
	bcs := make(map[string]utils.BCType)
	for _, tg := range []*tagger.Tagger{m.SideTags, m.FaceTags} {
		var pos int
		for name, _, ok := tg.Next(&pos); ok; name, _, ok = tg.Next(&pos) {
			if bc, found := utils.ParseBCName(name); found {
				bcs[name] = bc
			}
		}
	}
	return bcs
}

// Verify checks that face to cell connectivity agrees with cell to face
// connectivity and that every index is within the mesh
func (m *Mesh) Verify() error {
	if len(m.FaceCells) != 2*m.NumFaces {
		return fmt.Errorf("%w: %d face cell slots for %d faces", ErrInconsistent, len(m.FaceCells), m.NumFaces)
	}
	for c := 0; c < m.NumCells; c++ {
		for _, f := range m.CellFacesOf(c) {
			if f < 0 || f >= m.NumFaces {
				return fmt.Errorf("%w: cell %d references face %d", mesh.ErrOutOfRangeIndex, c, f)
			}
			if m.FaceCells[2*f] != c && m.FaceCells[2*f+1] != c {
				return fmt.Errorf("%w: cell %d lists face %d which lists cells %v",
					ErrInconsistent, c, f, m.FaceCells[2*f:2*f+2])
			}
		}
	}
	for f := 0; f < m.NumFaces; f++ {
		if m.FaceCells[2*f] < 0 {
			return fmt.Errorf("%w: face %d has no cell", ErrInconsistent, f)
		}
		for _, c := range m.FaceCells[2*f : 2*f+2] {
			if c >= m.NumCells {
				return fmt.Errorf("%w: face %d references cell %d", mesh.ErrOutOfRangeIndex, f, c)
			}
		}
		for _, n := range m.FaceNodesOf(f) {
			if n < 0 || n >= m.NumNodes {
				return fmt.Errorf("%w: face %d references node %d", mesh.ErrOutOfRangeIndex, f, n)
			}
		}
	}
	return nil
}
