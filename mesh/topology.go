package mesh

import "strings"

// ElementTopology identifies a 3D element type together with its node count.
type ElementTopology int

const (
	Invalid ElementTopology = iota
	Tetrahedron4
	Tetrahedron8
	Tetrahedron10
	Tetrahedron14
	Pyramid5
	Pyramid13
	Wedge6
	Wedge15
	Wedge16
	Hexahedron8
	Hexahedron9
	Hexahedron20
	Hexahedron27
	Polyhedron
)

// Shape is the corner geometry shared by all node count variants of a topology
type Shape int

const (
	ShapeInvalid Shape = iota
	ShapeTetrahedron
	ShapePyramid
	ShapeWedge
	ShapeHexahedron
	ShapePolyhedron
)

func (s Shape) String() string {
	return [...]string{"Invalid", "Tetrahedron", "Pyramid", "Wedge", "Hexahedron", "Polyhedron"}[s]
}

// NumFaces is the number of faces of the shape, -1 when it is not fixed
func (s Shape) NumFaces() int {
	switch s {
	case ShapeTetrahedron:
		return 4
	case ShapePyramid, ShapeWedge:
		return 5
	case ShapeHexahedron:
		return 6
	default:
		return -1
	}
}

// NumCorners is the number of corner nodes of the shape
func (s Shape) NumCorners() int {
	return [...]int{0, 4, 5, 6, 8, 0}[s]
}

var topologyInfo = [...]struct {
	name     string
	shape    Shape
	numNodes int
}{
	Invalid:       {"Invalid", ShapeInvalid, 0},
	Tetrahedron4:  {"Tetrahedron4", ShapeTetrahedron, 4},
	Tetrahedron8:  {"Tetrahedron8", ShapeTetrahedron, 8},
	Tetrahedron10: {"Tetrahedron10", ShapeTetrahedron, 10},
	Tetrahedron14: {"Tetrahedron14", ShapeTetrahedron, 14},
	Pyramid5:      {"Pyramid5", ShapePyramid, 5},
	Pyramid13:     {"Pyramid13", ShapePyramid, 13},
	Wedge6:        {"Wedge6", ShapeWedge, 6},
	Wedge15:       {"Wedge15", ShapeWedge, 15},
	Wedge16:       {"Wedge16", ShapeWedge, 16},
	Hexahedron8:   {"Hexahedron8", ShapeHexahedron, 8},
	Hexahedron9:   {"Hexahedron9", ShapeHexahedron, 9},
	Hexahedron20:  {"Hexahedron20", ShapeHexahedron, 20},
	Hexahedron27:  {"Hexahedron27", ShapeHexahedron, 27},
	Polyhedron:    {"Polyhedron", ShapePolyhedron, 0},
}

func (et ElementTopology) valid() bool {
	return et >= Invalid && int(et) < len(topologyInfo)
}

func (et ElementTopology) String() string {
	if !et.valid() {
		return "Invalid"
	}
	return topologyInfo[et].name
}

func (et ElementTopology) Shape() Shape {
	if !et.valid() {
		return ShapeInvalid
	}
	return topologyInfo[et].shape
}

// NumNodes is the fixed node count of the topology, 0 for Polyhedron and Invalid
func (et ElementTopology) NumNodes() int {
	if !et.valid() {
		return 0
	}
	return topologyInfo[et].numNodes
}

func (et ElementTopology) NumFaces() int { return et.Shape().NumFaces() }

func (et ElementTopology) IsPolyhedral() bool { return et == Polyhedron }

var namePrefixes = []struct {
	prefix   string
	variants []ElementTopology
}{
	{"nfaced", []ElementTopology{Polyhedron}},
	{"tetra", []ElementTopology{Tetrahedron4, Tetrahedron8, Tetrahedron10, Tetrahedron14}},
	{"pyramid", []ElementTopology{Pyramid5, Pyramid13}},
	{"wedge", []ElementTopology{Wedge6, Wedge15, Wedge16}},
	{"hex", []ElementTopology{Hexahedron8, Hexahedron9, Hexahedron20, Hexahedron27}},
}

/*
TopologyFromName maps an element type name as it appears in mesh exchange
files ("TETRA4", "hex", "NFACED", ...) and a node count to a topology.
The name is matched case-insensitively on its prefix and the node count
selects the variant. "nfaced" names a polyhedron and requires a node count of
zero. Any other combination gives Invalid.
*/
func TopologyFromName(name string, numNodes int) ElementTopology {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	for _, np := range namePrefixes {
		if !strings.HasPrefix(lowerName, np.prefix) {
			continue
		}
		for _, et := range np.variants {
			if et.NumNodes() == numNodes {
				return et
			}
		}
		return Invalid
	}
	return Invalid
}
