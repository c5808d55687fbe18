package mesh

import (
	"fmt"

	"github.com/notargets/femesh/utils"
)

/*
ElementBlock is a homogeneous run of elements of one topology.

Fixed arity blocks store element to node connectivity. Polyhedral blocks store
element to face connectivity instead, with face indices in the global face
space of the mesh the block is added to. Either kind may additionally carry
element to face and element to edge connectivity once it is known.

Each connectivity kind is an offset table plus a flat index array; a nil
offset table means the kind was never populated.
*/
type ElementBlock struct {
	numElements int
	topology    ElementTopology

	nodeOffsets utils.Offsets
	nodes       []int
	faceOffsets utils.Offsets
	faces       []int
	edgeOffsets utils.Offsets
	edges       []int
}

// NewElementBlock builds a fixed arity block from a flat node list holding
// nodesPerElement indices per element.
func NewElementBlock(numElements int, topology ElementTopology, nodesPerElement int,
	elemNodes []int) (eb *ElementBlock, err error) {
	switch {
	case numElements <= 0:
		err = fmt.Errorf("%w: element count %d", ErrInvalidTopology, numElements)
		return
	case topology.Shape() == ShapeInvalid || topology.IsPolyhedral():
		err = fmt.Errorf("%w: %s requires node connectivity of a fixed arity type",
			ErrInvalidTopology, topology)
		return
	case nodesPerElement != topology.NumNodes():
		err = fmt.Errorf("%w: %s has %d nodes per element, got %d",
			ErrInvalidTopology, topology, topology.NumNodes(), nodesPerElement)
		return
	case len(elemNodes) != numElements*nodesPerElement:
		err = fmt.Errorf("%w: %d elements of %d nodes need %d node indices, got %d",
			ErrMalformedBlock, numElements, nodesPerElement, numElements*nodesPerElement,
			len(elemNodes))
		return
	}
	if err = checkNonNegative("node", elemNodes); err != nil {
		return
	}
	eb = &ElementBlock{
		numElements: numElements,
		topology:    topology,
		nodeOffsets: uniformOffsets(numElements, nodesPerElement),
		nodes:       append([]int(nil), elemNodes...),
	}
	return
}

// NewPolyhedralBlock builds a polyhedral block from per element face counts and
// a flat list of mesh global face indices.
func NewPolyhedralBlock(numElements int, numElemFaces []int, elemFaces []int) (eb *ElementBlock, err error) {
	if numElements <= 0 {
		err = fmt.Errorf("%w: element count %d", ErrInvalidTopology, numElements)
		return
	}
	var offsets utils.Offsets
	if offsets, err = connectivityOffsets("face", numElements, numElemFaces, elemFaces); err != nil {
		return
	}
	eb = &ElementBlock{
		numElements: numElements,
		topology:    Polyhedron,
		faceOffsets: offsets,
		faces:       append([]int(nil), elemFaces...),
	}
	return
}

func uniformOffsets(numElements, stride int) utils.Offsets {
	o := make(utils.Offsets, numElements+1)
	for i := 1; i <= numElements; i++ {
		o[i] = o[i-1] + stride
	}
	return o
}

func checkNonNegative(what string, indices []int) error {
	for i, ind := range indices {
		if ind < 0 {
			return fmt.Errorf("%w: %s index %d at position %d", ErrOutOfRangeIndex, what, ind, i)
		}
	}
	return nil
}

func connectivityOffsets(what string, numElements int, counts, indices []int) (o utils.Offsets, err error) {
	switch {
	case len(counts) == 0 || len(indices) == 0:
		err = fmt.Errorf("%w: missing element %s connectivity", ErrMalformedBlock, what)
		return
	case len(counts) != numElements:
		err = fmt.Errorf("%w: %d elements but %d %s counts", ErrMalformedBlock,
			numElements, len(counts), what)
		return
	}
	for e, n := range counts {
		if n <= 0 {
			err = fmt.Errorf("%w: element %d has %d %ss", ErrInvalidTopology, e, n, what)
			return
		}
	}
	if o, err = utils.OffsetsFromCounts(counts); err != nil {
		return
	}
	if o.Total() != len(indices) {
		err = fmt.Errorf("%w: %s counts sum to %d, got %d %s indices", ErrMalformedBlock,
			what, o.Total(), len(indices), what)
		o = nil
		return
	}
	if err = checkNonNegative(what, indices); err != nil {
		o = nil
	}
	return
}

// SetElementFaces attaches element to face connectivity to a fixed arity
// block, for meshes whose faces are already numbered. Every element must list
// exactly as many faces as its topology has.
func (eb *ElementBlock) SetElementFaces(numElemFaces, elemFaces []int) (err error) {
	if eb.topology.IsPolyhedral() {
		return fmt.Errorf("%w: polyhedral block faces are set at construction", ErrMalformedBlock)
	}
	var offsets utils.Offsets
	if offsets, err = connectivityOffsets("face", eb.numElements, numElemFaces, elemFaces); err != nil {
		return
	}
	for e, n := range numElemFaces {
		if n != eb.topology.NumFaces() {
			return fmt.Errorf("%w: element %d of %s lists %d faces", ErrMalformedBlock, e, eb.topology, n)
		}
	}
	eb.faceOffsets, eb.faces = offsets, append([]int(nil), elemFaces...)
	return
}

// SetElementEdges attaches element to edge connectivity to the block
func (eb *ElementBlock) SetElementEdges(numElemEdges, elemEdges []int) (err error) {
	var offsets utils.Offsets
	if offsets, err = connectivityOffsets("edge", eb.numElements, numElemEdges, elemEdges); err != nil {
		return
	}
	eb.edgeOffsets, eb.edges = offsets, append([]int(nil), elemEdges...)
	return
}

func (eb *ElementBlock) Topology() ElementTopology { return eb.topology }

func (eb *ElementBlock) NumElements() int { return eb.numElements }

// HasFaces reports whether element to face connectivity is populated
func (eb *ElementBlock) HasFaces() bool { return eb.faceOffsets != nil }

func (eb *ElementBlock) HasEdges() bool { return eb.edgeOffsets != nil }

func numOf(o utils.Offsets, e int) int {
	if o == nil {
		return -1
	}
	return o.Count(e)
}

func copyOf(o utils.Offsets, flat []int, e int, buf []int) int {
	if o == nil {
		return -1
	}
	begin, end := o.Range(e)
	copy(buf, flat[begin:end])
	return end - begin
}

/*
The per element accessors take an element index local to the block. Counts
are -1 when the connectivity kind was never populated; the copying forms then
leave buf untouched and return -1. Otherwise they copy into buf, which must
hold the element's count, and return the count.
*/

func (eb *ElementBlock) NumElementNodes(e int) int {
	assertIndex("element", e, eb.numElements)
	return numOf(eb.nodeOffsets, e)
}

func (eb *ElementBlock) ElementNodes(e int, buf []int) int {
	assertIndex("element", e, eb.numElements)
	return copyOf(eb.nodeOffsets, eb.nodes, e, buf)
}

func (eb *ElementBlock) NumElementFaces(e int) int {
	assertIndex("element", e, eb.numElements)
	return numOf(eb.faceOffsets, e)
}

func (eb *ElementBlock) ElementFaces(e int, buf []int) int {
	assertIndex("element", e, eb.numElements)
	return copyOf(eb.faceOffsets, eb.faces, e, buf)
}

func (eb *ElementBlock) NumElementEdges(e int) int {
	assertIndex("element", e, eb.numElements)
	return numOf(eb.edgeOffsets, e)
}

func (eb *ElementBlock) ElementEdges(e int, buf []int) int {
	assertIndex("element", e, eb.numElements)
	return copyOf(eb.edgeOffsets, eb.edges, e, buf)
}

// NodeConnectivity exposes the element to node tables without copying. The
// returned slices must not be modified.
func (eb *ElementBlock) NodeConnectivity() (utils.Offsets, []int) {
	return eb.nodeOffsets, eb.nodes
}

// FaceConnectivity exposes the element to face tables without copying. The
// returned slices must not be modified.
func (eb *ElementBlock) FaceConnectivity() (utils.Offsets, []int) {
	return eb.faceOffsets, eb.faces
}

func maxIndex(indices []int) int {
	m := -1
	for _, ind := range indices {
		if ind > m {
			m = ind
		}
	}
	return m
}

// Clone returns a deep copy of the block
func (eb *ElementBlock) Clone() *ElementBlock {
	cloneInts := func(s []int) []int {
		if s == nil {
			return nil
		}
		return append([]int(nil), s...)
	}
	return &ElementBlock{
		numElements: eb.numElements,
		topology:    eb.topology,
		nodeOffsets: eb.nodeOffsets.Clone(),
		nodes:       cloneInts(eb.nodes),
		faceOffsets: eb.faceOffsets.Clone(),
		faces:       cloneInts(eb.faces),
		edgeOffsets: eb.edgeOffsets.Clone(),
		edges:       cloneInts(eb.edges),
	}
}
