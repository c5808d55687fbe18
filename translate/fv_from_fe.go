package translate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/notargets/femesh/fv"
	"github.com/notargets/femesh/mesh"
	"github.com/notargets/femesh/tagger"
	"github.com/notargets/femesh/utils"
)

/*
FVFromFE builds the finite volume topology of a finite element mesh, one cell
per element in global element order.

When the FE mesh has no faces yet, faces are derived by deduplicating the
template faces of every element, block by block. Otherwise each block must
carry its element faces and the mesh its face to node connectivity, which are
copied unchanged.

Entity sets become tags of the same name: element sets become cell tags and
side sets keep their (cell, local face) pairs.
*/
func FVFromFE(fe *mesh.FEMesh) (m *fv.Mesh, err error) {
	numCells := fe.NumElements()
	if numCells == 0 {
		err = fmt.Errorf("%w: mesh has no elements", mesh.ErrMalformedBlock)
		return
	}
	var (
		cellFaceOffsets utils.Offsets
		cellFaces       []int
		faceNodeOffsets utils.Offsets
		faceNodes       []int
		deduplicated    = fe.NumFaces() == 0
	)
	if deduplicated {
		cellFaceOffsets, cellFaces, faceNodeOffsets, faceNodes, err = deduplicateFaces(fe)
	} else {
		cellFaceOffsets, cellFaces, faceNodeOffsets, faceNodes, err = explicitFaces(fe)
	}
	if err != nil {
		return
	}
	numFaces := faceNodeOffsets.NumBuckets()

	if m, err = fv.New(fe.Comm(), numCells, numFaces, fe.NumNodes()); err != nil {
		return
	}
	m.CellFaceOffsets = cellFaceOffsets
	m.FaceNodeOffsets = faceNodeOffsets
	if err = m.ReserveConnectivityStorage(); err != nil {
		return nil, err
	}
	copy(m.CellFaces, cellFaces)
	copy(m.FaceNodes, faceNodes)

	if err = connectFaceCells(m); err != nil {
		return nil, err
	}

	if fe.HasFaceEdges() && fe.NumEdges() > 0 {
		feo, fee := fe.FaceEdgeTable()
		m.FaceEdgeOffsets = feo.Clone()
		m.FaceEdges = append([]int(nil), fee...)
		m.EdgeNodes = append([]int(nil), fe.EdgeNodeTable()...)
		m.NumEdges = fe.NumEdges()
	} else {
		m.ConstructEdges()
	}

	copy(m.Nodes, fe.NodeCoordinates())

	for _, pair := range []struct {
		kind mesh.EntityKind
		dst  *tagger.Tagger
	}{
		{mesh.ElementEntity, m.CellTags},
		{mesh.FaceEntity, m.FaceTags},
		{mesh.EdgeEntity, m.EdgeTags},
		{mesh.NodeEntity, m.NodeTags},
		{mesh.SideEntity, m.SideTags},
	} {
		if err = copyTags(pair.dst, fe.Sets(pair.kind)); err != nil {
			return nil, fmt.Errorf("%s sets: %w", pair.kind, err)
		}
	}

	logger.Debug("built finite volume mesh",
		zap.Int("cells", m.NumCells),
		zap.Int("faces", m.NumFaces),
		zap.Int("edges", m.NumEdges),
		zap.Int("nodes", m.NumNodes),
		zap.Bool("deduplicated", deduplicated))
	return
}

func deduplicateFaces(fe *mesh.FEMesh) (cfo utils.Offsets, cf []int, fno utils.Offsets, fn []int, err error) {
	var (
		counts   = make([]int, 0, fe.NumElements())
		pos      int
		name     string
		eb       *mesh.ElementBlock
		ok       bool
		capacity int
	)
	for name, eb, ok = fe.NextBlock(&pos); ok; name, eb, ok = fe.NextBlock(&pos) {
		nf := eb.Topology().NumFaces()
		if nf < 0 {
			err = fmt.Errorf("%w: block %q of %s has no faces", mesh.ErrMalformedBlock, name, eb.Topology())
			return
		}
		for e := 0; e < eb.NumElements(); e++ {
			counts = append(counts, nf)
		}
	}
	if cfo, err = utils.OffsetsFromCounts(counts); err != nil {
		return
	}
	cf = make([]int, cfo.Total())
	// Each interior face is met twice
	capacity = cfo.Total()/2 + 1
	fd := mesh.NewFaceDeduplicator(capacity)

	var cell int
	pos = 0
	for name, eb, ok = fe.NextBlock(&pos); ok; name, eb, ok = fe.NextBlock(&pos) {
		no, nodes := eb.NodeConnectivity()
		for e := 0; e < eb.NumElements(); e++ {
			begin, end := cfo.Range(cell)
			if err = fd.AddElement(eb.Topology(), nodes[no[e]:no[e+1]], cf[begin:end]); err != nil {
				err = fmt.Errorf("block %q element %d: %w", name, e, err)
				return
			}
			cell++
		}
	}
	fno, fn = fd.FaceNodeOffsets(), fd.FaceNodes()
	return
}

func explicitFaces(fe *mesh.FEMesh) (cfo utils.Offsets, cf []int, fno utils.Offsets, fn []int, err error) {
	cfo = utils.NewOffsets()
	var pos int
	for name, eb, ok := fe.NextBlock(&pos); ok; name, eb, ok = fe.NextBlock(&pos) {
		if !eb.HasFaces() {
			err = fmt.Errorf("%w: block %q of %s carries no faces in a mesh with %d faces",
				mesh.ErrMalformedBlock, name, eb.Topology(), fe.NumFaces())
			return
		}
		o, faces := eb.FaceConnectivity()
		for e := 0; e < eb.NumElements(); e++ {
			cfo.Append(o.Count(e))
		}
		cf = append(cf, faces...)
	}
	fno, fn = fe.FaceNodeTable()
	fno = fno.Clone()
	switch {
	case fno == nil:
		err = fmt.Errorf("%w: mesh has %d faces but no face nodes", mesh.ErrMalformedBlock, fe.NumFaces())
	case fno.NumBuckets() < fe.NumFaces():
		err = fmt.Errorf("%w: face nodes cover %d of %d faces", mesh.ErrOutOfRangeIndex,
			fno.NumBuckets(), fe.NumFaces())
	default:
		// Faces set on a block after it joined the mesh are not counted in NumFaces
		for _, f := range cf {
			if f >= fno.NumBuckets() {
				err = fmt.Errorf("%w: cell face %d beyond the %d faces with nodes",
					mesh.ErrOutOfRangeIndex, f, fno.NumBuckets())
				break
			}
		}
	}
	return
}

// connectFaceCells fills FaceCells from the cell to face table, the first
// cell met taking slot 0
func connectFaceCells(m *fv.Mesh) error {
	for c := 0; c < m.NumCells; c++ {
		for _, f := range m.CellFacesOf(c) {
			switch {
			case m.FaceCells[2*f] == -1:
				m.FaceCells[2*f] = c
			case m.FaceCells[2*f+1] == -1:
				m.FaceCells[2*f+1] = c
			default:
				return &mesh.NonManifoldFaceError{Face: f, Cells: cellsOfFace(m, f)}
			}
		}
	}
	return nil
}

func cellsOfFace(m *fv.Mesh, face int) (cells []int) {
	for c := 0; c < m.NumCells; c++ {
		for _, f := range m.CellFacesOf(c) {
			if f == face {
				cells = append(cells, c)
			}
		}
	}
	return
}

func copyTags(dst, src *tagger.Tagger) error {
	var pos int
	for name, set, ok := src.Next(&pos); ok; name, set, ok = src.Next(&pos) {
		tag, err := dst.CreateTag(name, len(set))
		if err != nil {
			return err
		}
		copy(tag, set)
	}
	return nil
}
