package translate

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"go.uber.org/zap"

	"github.com/notargets/femesh/fv"
	"github.com/notargets/femesh/mesh"
	"github.com/notargets/femesh/tagger"
	"github.com/notargets/femesh/utils"
)

// DefaultBlockName names the single block of an untagged translation
const DefaultBlockName = "block_1"

/*
FEFromFV wraps the cells of a finite volume mesh as polyhedral element blocks.

With no block tags all cells form one block named DefaultBlockName. Otherwise
each named cell tag becomes a block of that name holding the tagged cells in
tag order; elements are renumbered block after block. A cell may belong to
at most one block tag.

Face, edge and node tags are copied as they are. Cell and side tags are
renumbered to the new elements, losing cells that are in no block.
*/
func FEFromFV(m *fv.Mesh, blockTags []string) (fe *mesh.FEMesh, err error) {
	if fe, err = mesh.NewFEMesh(m.Comm, m.NumNodes); err != nil {
		return
	}
	newIndex := make([]int, m.NumCells)
	if len(blockTags) == 0 {
		for c := range newIndex {
			newIndex[c] = c
		}
		if err = addPolyhedralBlock(fe, m, DefaultBlockName, newIndex); err != nil {
			return nil, err
		}
	} else if err = addTaggedBlocks(fe, m, blockTags, newIndex); err != nil {
		return nil, err
	}

	if m.NumFaces > 0 {
		if err = fe.SetFaceNodes(offsetCounts(m.FaceNodeOffsets), m.FaceNodes); err != nil {
			return nil, err
		}
	}
	if m.FaceEdgeOffsets != nil && m.NumEdges > 0 {
		if err = fe.SetEdgeNodes(m.EdgeNodes); err != nil {
			return nil, err
		}
		if err = fe.SetFaceEdges(offsetCounts(m.FaceEdgeOffsets), m.FaceEdges); err != nil {
			return nil, err
		}
	}

	copy(fe.NodeCoordinates(), m.Nodes)

	for _, pair := range []struct {
		kind mesh.EntityKind
		src  *tagger.Tagger
	}{
		{mesh.FaceEntity, m.FaceTags},
		{mesh.EdgeEntity, m.EdgeTags},
		{mesh.NodeEntity, m.NodeTags},
	} {
		if err = copyTags(fe.Sets(pair.kind), pair.src); err != nil {
			return nil, fmt.Errorf("%s sets: %w", pair.kind, err)
		}
	}
	if err = remapCellTags(fe, m.CellTags, newIndex); err != nil {
		return nil, err
	}
	if err = remapSideTags(fe, m.SideTags, newIndex); err != nil {
		return nil, err
	}

	logger.Debug("built finite element mesh",
		zap.Int("blocks", fe.NumBlocks()),
		zap.Int("elements", fe.NumElements()),
		zap.Int("faces", fe.NumFaces()))
	return
}

func offsetCounts(o utils.Offsets) []int {
	counts := make([]int, o.NumBuckets())
	for i := range counts {
		counts[i] = o.Count(i)
	}
	return counts
}

// addPolyhedralBlock adds the given cells, in order, as one polyhedral block
func addPolyhedralBlock(fe *mesh.FEMesh, m *fv.Mesh, name string, cells []int) error {
	var (
		counts = make([]int, 0, len(cells))
		faces  = make([]int, 0, 6*len(cells))
	)
	for _, c := range cells {
		cf := m.CellFacesOf(c)
		counts = append(counts, len(cf))
		faces = append(faces, cf...)
	}
	eb, err := mesh.NewPolyhedralBlock(len(cells), counts, faces)
	if err != nil {
		return fmt.Errorf("block %q: %w", name, err)
	}
	return fe.AddBlock(name, eb)
}

func addTaggedBlocks(fe *mesh.FEMesh, m *fv.Mesh, blockTags []string, newIndex []int) error {
	for c := range newIndex {
		newIndex[c] = -1
	}
	var (
		claimed = roaring.New()
		next    int
	)
	for _, name := range blockTags {
		cells, ok := m.CellTags.Tag(name)
		if !ok {
			return fmt.Errorf("block tag %q: %w", name, tagger.ErrTagNotFound)
		}
		if len(cells) == 0 {
			logger.Debug("skipping empty block tag", zap.String("tag", name))
			continue
		}
		for _, c := range cells {
			if c < 0 || c >= m.NumCells {
				return fmt.Errorf("%w: block tag %q holds cell %d of %d",
					mesh.ErrOutOfRangeIndex, name, c, m.NumCells)
			}
			if !claimed.CheckedAdd(uint32(c)) {
				return fmt.Errorf("%w: cell %d is in more than one block tag, found again in %q",
					mesh.ErrMalformedBlock, c, name)
			}
			newIndex[c] = next
			next++
		}
		if err := addPolyhedralBlock(fe, m, name, cells); err != nil {
			return err
		}
	}
	if dropped := uint64(m.NumCells) - claimed.GetCardinality(); dropped > 0 {
		logger.Debug("cells outside every block tag dropped", zap.Uint64("cells", dropped))
	}
	return nil
}

func remapCellTags(fe *mesh.FEMesh, cellTags *tagger.Tagger, newIndex []int) error {
	var pos int
	for name, set, ok := cellTags.Next(&pos); ok; name, set, ok = cellTags.Next(&pos) {
		kept := make([]int, 0, len(set))
		for _, c := range set {
			if c >= 0 && c < len(newIndex) && newIndex[c] >= 0 {
				kept = append(kept, newIndex[c])
			}
		}
		if len(kept) < len(set) {
			logger.Debug("cell tag entries dropped", zap.String("tag", name),
				zap.Int("dropped", len(set)-len(kept)))
		}
		tag, err := fe.CreateSet(mesh.ElementEntity, name, len(kept))
		if err != nil {
			return fmt.Errorf("element sets: %w", err)
		}
		copy(tag, kept)
	}
	return nil
}

func remapSideTags(fe *mesh.FEMesh, sideTags *tagger.Tagger, newIndex []int) error {
	var pos int
	for name, set, ok := sideTags.Next(&pos); ok; name, set, ok = sideTags.Next(&pos) {
		kept := make([]int, 0, len(set))
		for i := 0; i+1 < len(set); i += 2 {
			c, lf := set[i], set[i+1]
			if c >= 0 && c < len(newIndex) && newIndex[c] >= 0 {
				kept = append(kept, newIndex[c], lf)
			}
		}
		if len(kept) < len(set) {
			logger.Debug("side tag entries dropped", zap.String("tag", name),
				zap.Int("dropped", (len(set)-len(kept))/2))
		}
		tag, err := fe.CreateSet(mesh.SideEntity, name, len(kept)/2)
		if err != nil {
			return fmt.Errorf("side sets: %w", err)
		}
		copy(tag, kept)
	}
	return nil
}
