package readers

import (
	"cmp"
	"fmt"
	"os"
	"slices"

	"github.com/ghodss/yaml"

	"github.com/notargets/femesh/mesh"
	"github.com/notargets/femesh/utils"
)

// MeshDescription is the YAML form of a finite element mesh. Node and element
// indices are 0-based.
type MeshDescription struct {
	Nodes       [][3]float64        `json:"Nodes"`
	Blocks      []BlockDescription  `json:"Blocks"`
	FaceNodes   [][]int             `json:"FaceNodes,omitempty"`
	ElementSets map[string][]int    `json:"ElementSets,omitempty"`
	FaceSets    map[string][]int    `json:"FaceSets,omitempty"`
	EdgeSets    map[string][]int    `json:"EdgeSets,omitempty"`
	NodeSets    map[string][]int    `json:"NodeSets,omitempty"`
	SideSets    map[string][][2]int `json:"SideSets,omitempty"` // (element, local face) pairs
}

// BlockDescription gives a block either by element nodes or, for "nfaced"
// blocks, by element faces
type BlockDescription struct {
	Name            string  `json:"Name"`
	Type            string  `json:"Type"`
	NodesPerElement int     `json:"NodesPerElement,omitempty"`
	Connectivity    [][]int `json:"Connectivity,omitempty"`
	Faces           [][]int `json:"Faces,omitempty"`
}

// ReadYAML reads a mesh description file
func ReadYAML(filename string) (*mesh.FEMesh, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// ParseYAML builds a mesh from a YAML mesh description. Sets are created in
// name order within each kind.
func ParseYAML(data []byte) (fm *mesh.FEMesh, err error) {
	var md MeshDescription
	if err = yaml.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("parsing mesh description: %w", err)
	}
	return md.Build()
}

func flatten(rows [][]int) (counts, flat []int) {
	counts = make([]int, len(rows))
	for i, row := range rows {
		counts[i] = len(row)
		flat = append(flat, row...)
	}
	return
}

// Build assembles the described mesh
func (md *MeshDescription) Build() (fm *mesh.FEMesh, err error) {
	if fm, err = mesh.NewFEMesh(utils.SerialGroup, len(md.Nodes)); err != nil {
		return
	}
	coords := fm.NodeCoordinates()
	for i, xyz := range md.Nodes {
		coords[i].X, coords[i].Y, coords[i].Z = xyz[0], xyz[1], xyz[2]
	}

	for b, bd := range md.Blocks {
		var eb *mesh.ElementBlock
		if eb, err = bd.build(); err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", b, bd.Name, err)
		}
		name := bd.Name
		if name == "" {
			name = fmt.Sprintf("block_%d", b+1)
		}
		if err = fm.AddBlock(name, eb); err != nil {
			return nil, err
		}
	}

	if len(md.FaceNodes) > 0 {
		if err = fm.SetFaceNodes(flatten(md.FaceNodes)); err != nil {
			return nil, err
		}
	}

	for _, s := range []struct {
		kind mesh.EntityKind
		sets map[string][]int
	}{
		{mesh.ElementEntity, md.ElementSets},
		{mesh.FaceEntity, md.FaceSets},
		{mesh.EdgeEntity, md.EdgeSets},
		{mesh.NodeEntity, md.NodeSets},
	} {
		for _, name := range sortedKeys(s.sets) {
			var set []int
			if set, err = fm.CreateSet(s.kind, name, len(s.sets[name])); err != nil {
				return nil, err
			}
			copy(set, s.sets[name])
		}
	}
	for _, name := range sortedKeys(md.SideSets) {
		pairs := md.SideSets[name]
		var set []int
		if set, err = fm.CreateSet(mesh.SideEntity, name, len(pairs)); err != nil {
			return nil, err
		}
		for i, p := range pairs {
			set[2*i], set[2*i+1] = p[0], p[1]
		}
	}
	return
}

func (bd BlockDescription) build() (*mesh.ElementBlock, error) {
	npe := bd.NodesPerElement
	if npe == 0 && len(bd.Connectivity) > 0 {
		npe = len(bd.Connectivity[0])
	}
	topology := mesh.TopologyFromName(bd.Type, npe)
	switch topology {
	case mesh.Invalid:
		return nil, fmt.Errorf("%w: type %q with %d nodes", mesh.ErrInvalidTopology, bd.Type, npe)
	case mesh.Polyhedron:
		counts, flat := flatten(bd.Faces)
		return mesh.NewPolyhedralBlock(len(bd.Faces), counts, flat)
	}
	var conn []int
	for e, row := range bd.Connectivity {
		if len(row) != npe {
			return nil, fmt.Errorf("%w: element %d has %d nodes, expected %d",
				mesh.ErrMalformedBlock, e, len(row), npe)
		}
		conn = append(conn, row...)
	}
	eb, err := mesh.NewElementBlock(len(bd.Connectivity), topology, npe, conn)
	if err != nil {
		return nil, err
	}
	if len(bd.Faces) > 0 {
		if err = eb.SetElementFaces(flatten(bd.Faces)); err != nil {
			return nil, err
		}
	}
	return eb, nil
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
