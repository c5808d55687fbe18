package mesh

import (
	"fmt"

	"github.com/notargets/femesh/utils"
)

/*
FaceDeduplicator numbers the faces of fixed arity elements as they are added.
Each template face of an element is keyed by its sorted node tuple; a new key
takes the next face id and its nodes, in template order, are appended to the
face to node table. A key seen before reuses its id. Face ids therefore follow
first encounter order across all elements added.
*/
type FaceDeduplicator struct {
	index           *utils.OrderedIndex[FaceKey]
	faceNodeOffsets utils.Offsets
	faceNodes       []int
	faceNodeBuf     [4]int
}

// NewFaceDeduplicator takes the expected number of faces as a sizing hint
func NewFaceDeduplicator(capHint int) *FaceDeduplicator {
	if capHint < 0 {
		capHint = 0
	}
	fd := &FaceDeduplicator{
		index:           utils.NewOrderedIndex[FaceKey](capHint),
		faceNodeOffsets: make(utils.Offsets, 1, capHint+1),
		faceNodes:       make([]int, 0, 4*capHint),
	}
	return fd
}

// AddElement numbers the faces of one element and writes the face ids into
// cellFaces in template order. cellFaces must hold topology.NumFaces() entries.
func (fd *FaceDeduplicator) AddElement(topology ElementTopology, nodes []int, cellFaces []int) error {
	templates := FaceTemplates(topology.Shape())
	switch {
	case templates == nil:
		return fmt.Errorf("%w: no face templates for %s", ErrInvalidTopology, topology)
	case len(nodes) < topology.Shape().NumCorners():
		return fmt.Errorf("%w: %s element with %d nodes", ErrMalformedBlock, topology, len(nodes))
	case len(cellFaces) < len(templates):
		return fmt.Errorf("%w: room for %d of %d cell faces", ErrMalformedBlock, len(cellFaces), len(templates))
	}
	for lf, tmpl := range templates {
		fn := fd.faceNodeBuf[:len(tmpl)]
		for j, local := range tmpl {
			fn[j] = nodes[local]
		}
		id, inserted := fd.index.Insert(NewFaceKey(fn))
		if inserted {
			fd.faceNodes = append(fd.faceNodes, fn...)
			fd.faceNodeOffsets.Append(len(fn))
		}
		cellFaces[lf] = id
	}
	return nil
}

func (fd *FaceDeduplicator) NumFaces() int { return fd.index.Len() }

// FaceNodeOffsets and FaceNodes return the face to node table built so far
func (fd *FaceDeduplicator) FaceNodeOffsets() utils.Offsets { return fd.faceNodeOffsets }

func (fd *FaceDeduplicator) FaceNodes() []int { return fd.faceNodes }

// FaceKey returns the canonical key of face id
func (fd *FaceDeduplicator) FaceKey(id int) FaceKey { return fd.index.Key(id) }
