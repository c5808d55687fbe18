package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/femesh/tagger"
	"github.com/notargets/femesh/utils"
)

// EntityKind selects one of the entity set collections of a mesh
type EntityKind int

const (
	ElementEntity EntityKind = iota
	FaceEntity
	EdgeEntity
	NodeEntity
	// SideEntity sets hold (element, local face) pairs
	SideEntity
	numEntityKinds
)

func (ek EntityKind) String() string {
	return [...]string{"Element", "Face", "Edge", "Node", "Side"}[ek]
}

/*
FEMesh is a block structured finite element mesh. Elements are numbered
globally in block order, the elements of block b occupying
[blockOffsets[b], blockOffsets[b+1]).

Face and edge connectivity is optional. It is present when the faces are
already known, for instance when the mesh was rebuilt from a finite volume
mesh, and is otherwise derived on translation.
*/
type FEMesh struct {
	comm utils.ProcessGroup

	blockNames   []string
	blocks       []*ElementBlock
	blockOffsets utils.Offsets

	numNodes int
	coords   []r3.Vec

	numFaces        int
	faceNodeOffsets utils.Offsets
	faceNodes       []int
	faceEdgeOffsets utils.Offsets
	faceEdges       []int
	numEdges        int
	edgeNodes       []int

	sets [numEntityKinds]*tagger.Tagger
}

// MinNodes is the node count of the smallest 3D element
const MinNodes = 4

// NewFEMesh creates an empty mesh over numNodes nodes, all at the origin
func NewFEMesh(comm utils.ProcessGroup, numNodes int) (fm *FEMesh, err error) {
	if numNodes < MinNodes {
		err = fmt.Errorf("%w: a 3D mesh needs at least %d nodes, got %d", ErrTooFewNodes, MinNodes, numNodes)
		return
	}
	fm = &FEMesh{
		comm:         comm,
		blockOffsets: utils.NewOffsets(),
		numNodes:     numNodes,
		coords:       make([]r3.Vec, numNodes),
	}
	for k := range fm.sets {
		fm.sets[k] = tagger.New()
	}
	return
}

func (fm *FEMesh) Comm() utils.ProcessGroup { return fm.comm }

// AddBlock appends a named block. Node indices must be within the mesh. A
// block carrying faces widens NumFaces to cover every face it references.
func (fm *FEMesh) AddBlock(name string, block *ElementBlock) error {
	if block == nil {
		return fmt.Errorf("%w: block %q is nil", ErrMalformedBlock, name)
	}
	if mx := maxIndex(block.nodes); mx >= fm.numNodes {
		return fmt.Errorf("%w: block %q references node %d of a %d node mesh",
			ErrOutOfRangeIndex, name, mx, fm.numNodes)
	}
	if block.HasFaces() {
		if mx := maxIndex(block.faces); mx+1 > fm.numFaces {
			fm.numFaces = mx + 1
		}
	}
	fm.blockNames = append(fm.blockNames, name)
	fm.blocks = append(fm.blocks, block)
	fm.blockOffsets.Append(block.NumElements())
	return nil
}

func (fm *FEMesh) NumBlocks() int { return len(fm.blocks) }

// Block returns the name and block at position i
func (fm *FEMesh) Block(i int) (string, *ElementBlock) {
	return fm.blockNames[i], fm.blocks[i]
}

// NextBlock advances *pos through the blocks in insertion order
func (fm *FEMesh) NextBlock(pos *int) (name string, block *ElementBlock, ok bool) {
	if *pos < 0 || *pos >= len(fm.blocks) {
		return
	}
	name, block, ok = fm.blockNames[*pos], fm.blocks[*pos], true
	*pos++
	return
}

// BlockOffsets is the cumulative element count table of the blocks. It must
// not be modified.
func (fm *FEMesh) BlockOffsets() utils.Offsets { return fm.blockOffsets }

func (fm *FEMesh) NumElements() int { return fm.blockOffsets.Total() }

// LocateElement resolves a global element index to its block and the index
// within that block. The owner is the first block whose cumulative end offset
// exceeds elem.
func (fm *FEMesh) LocateElement(elem int) (block, local int) {
	assertIndex("element", elem, fm.NumElements())
	return fm.blockOffsets.Locate(elem)
}

func (fm *FEMesh) element(elem int) (*ElementBlock, int) {
	b, e := fm.LocateElement(elem)
	return fm.blocks[b], e
}

func (fm *FEMesh) NumElementNodes(elem int) int {
	b, e := fm.element(elem)
	return b.NumElementNodes(e)
}

func (fm *FEMesh) ElementNodes(elem int, buf []int) int {
	b, e := fm.element(elem)
	return b.ElementNodes(e, buf)
}

func (fm *FEMesh) NumElementFaces(elem int) int {
	b, e := fm.element(elem)
	return b.NumElementFaces(e)
}

func (fm *FEMesh) ElementFaces(elem int, buf []int) int {
	b, e := fm.element(elem)
	return b.ElementFaces(e, buf)
}

func (fm *FEMesh) NumElementEdges(elem int) int {
	b, e := fm.element(elem)
	return b.NumElementEdges(e)
}

func (fm *FEMesh) ElementEdges(elem int, buf []int) int {
	b, e := fm.element(elem)
	return b.ElementEdges(e, buf)
}

func (fm *FEMesh) NumNodes() int { return fm.numNodes }

// NodeCoordinates returns the node position array itself; positions are set
// by writing through it.
func (fm *FEMesh) NodeCoordinates() []r3.Vec { return fm.coords }

// SetCoordinates fills the node positions from per component arrays
func (fm *FEMesh) SetCoordinates(x, y, z []float64) error {
	if len(x) != fm.numNodes || len(y) != fm.numNodes || len(z) != fm.numNodes {
		return fmt.Errorf("%w: coordinate arrays of length %d, %d, %d for %d nodes",
			ErrOutOfRangeIndex, len(x), len(y), len(z), fm.numNodes)
	}
	for i := range fm.coords {
		fm.coords[i] = r3.Vec{X: x[i], Y: y[i], Z: z[i]}
	}
	return nil
}

// NumFaces is the size of the global face space, 0 until faces are known
func (fm *FEMesh) NumFaces() int { return fm.numFaces }

// SetFaceNodes replaces the face to node connectivity. NumFaces grows to
// len(numFaceNodes) and never shrinks below the faces blocks reference.
func (fm *FEMesh) SetFaceNodes(numFaceNodes, faceNodes []int) (err error) {
	var o utils.Offsets
	if o, err = connectivityOffsets("node", len(numFaceNodes), numFaceNodes, faceNodes); err != nil {
		return fmt.Errorf("face nodes: %w", err)
	}
	if mx := maxIndex(faceNodes); mx >= fm.numNodes {
		return fmt.Errorf("%w: face nodes reference node %d of a %d node mesh",
			ErrOutOfRangeIndex, mx, fm.numNodes)
	}
	fm.faceNodeOffsets, fm.faceNodes = o, append([]int(nil), faceNodes...)
	if len(numFaceNodes) > fm.numFaces {
		fm.numFaces = len(numFaceNodes)
	}
	return
}

// SetFaceEdges sets the face to edge connectivity of the current faces
func (fm *FEMesh) SetFaceEdges(numFaceEdges, faceEdges []int) (err error) {
	if len(numFaceEdges) != fm.numFaces {
		return fmt.Errorf("%w: %d face edge counts for %d faces", ErrMalformedBlock, len(numFaceEdges), fm.numFaces)
	}
	var o utils.Offsets
	if o, err = connectivityOffsets("edge", fm.numFaces, numFaceEdges, faceEdges); err != nil {
		return fmt.Errorf("face edges: %w", err)
	}
	fm.faceEdgeOffsets, fm.faceEdges = o, append([]int(nil), faceEdges...)
	return
}

// SetEdgeNodes sets the edges of the mesh, two nodes per edge
func (fm *FEMesh) SetEdgeNodes(edgeNodes []int) error {
	if len(edgeNodes)%2 != 0 {
		return fmt.Errorf("%w: odd edge node count %d", ErrMalformedBlock, len(edgeNodes))
	}
	if err := checkNonNegative("node", edgeNodes); err != nil {
		return err
	}
	if mx := maxIndex(edgeNodes); mx >= fm.numNodes {
		return fmt.Errorf("%w: edges reference node %d of a %d node mesh", ErrOutOfRangeIndex, mx, fm.numNodes)
	}
	fm.edgeNodes = append([]int(nil), edgeNodes...)
	fm.numEdges = len(edgeNodes) / 2
	return nil
}

func (fm *FEMesh) HasFaceNodes() bool { return fm.faceNodeOffsets != nil }

func (fm *FEMesh) HasFaceEdges() bool { return fm.faceEdgeOffsets != nil }

func (fm *FEMesh) NumFaceNodes(f int) int {
	assertIndex("face", f, fm.numFaces)
	return numOf(fm.faceNodeOffsets, f)
}

func (fm *FEMesh) FaceNodes(f int, buf []int) int {
	assertIndex("face", f, fm.numFaces)
	return copyOf(fm.faceNodeOffsets, fm.faceNodes, f, buf)
}

func (fm *FEMesh) NumFaceEdges(f int) int {
	assertIndex("face", f, fm.numFaces)
	return numOf(fm.faceEdgeOffsets, f)
}

func (fm *FEMesh) FaceEdges(f int, buf []int) int {
	assertIndex("face", f, fm.numFaces)
	return copyOf(fm.faceEdgeOffsets, fm.faceEdges, f, buf)
}

func (fm *FEMesh) NumEdges() int { return fm.numEdges }

func (fm *FEMesh) NumEdgeNodes(e int) int {
	assertIndex("edge", e, fm.numEdges)
	if fm.edgeNodes == nil {
		return -1
	}
	return 2
}

func (fm *FEMesh) EdgeNodes(e int, buf []int) int {
	assertIndex("edge", e, fm.numEdges)
	if fm.edgeNodes == nil {
		return -1
	}
	copy(buf, fm.edgeNodes[2*e:2*e+2])
	return 2
}

// FaceNodeTable, FaceEdgeTable and EdgeNodeTable expose the explicit
// connectivity without copying. The returned slices must not be modified.
func (fm *FEMesh) FaceNodeTable() (utils.Offsets, []int) { return fm.faceNodeOffsets, fm.faceNodes }

func (fm *FEMesh) FaceEdgeTable() (utils.Offsets, []int) { return fm.faceEdgeOffsets, fm.faceEdges }

func (fm *FEMesh) EdgeNodeTable() []int { return fm.edgeNodes }

// Sets returns the entity set collection of one kind
func (fm *FEMesh) Sets(kind EntityKind) *tagger.Tagger { return fm.sets[kind] }

func (fm *FEMesh) NumSets(kind EntityKind) int { return fm.sets[kind].Len() }

// CreateSet reserves a named set of size entries. Side sets reserve two
// slots per entry, element then local face.
func (fm *FEMesh) CreateSet(kind EntityKind, name string, size int) ([]int, error) {
	if kind < 0 || kind >= numEntityKinds {
		return nil, fmt.Errorf("unknown entity kind %d", kind)
	}
	if kind == SideEntity {
		size *= 2
	}
	return fm.sets[kind].CreateTag(name, size)
}

func (fm *FEMesh) NextSet(kind EntityKind, pos *int) (string, []int, bool) {
	return fm.sets[kind].Next(pos)
}

// Clone returns a deep copy of the mesh. The process group handle is shared.
func (fm *FEMesh) Clone() *FEMesh {
	r := &FEMesh{
		comm:            fm.comm,
		blockNames:      append([]string(nil), fm.blockNames...),
		blocks:          make([]*ElementBlock, len(fm.blocks)),
		blockOffsets:    fm.blockOffsets.Clone(),
		numNodes:        fm.numNodes,
		coords:          append([]r3.Vec(nil), fm.coords...),
		numFaces:        fm.numFaces,
		faceNodeOffsets: fm.faceNodeOffsets.Clone(),
		faceEdgeOffsets: fm.faceEdgeOffsets.Clone(),
		numEdges:        fm.numEdges,
	}
	for i, b := range fm.blocks {
		r.blocks[i] = b.Clone()
	}
	if fm.faceNodes != nil {
		r.faceNodes = append([]int(nil), fm.faceNodes...)
	}
	if fm.faceEdges != nil {
		r.faceEdges = append([]int(nil), fm.faceEdges...)
	}
	if fm.edgeNodes != nil {
		r.edgeNodes = append([]int(nil), fm.edgeNodes...)
	}
	for k := range fm.sets {
		r.sets[k] = fm.sets[k].Clone()
	}
	return r
}
