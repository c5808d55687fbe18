package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/femesh/mesh"
)

// faceGroup is a named list of boundary faces given by their nodes
type faceGroup struct {
	name  string
	faces [][]int
}

// sideSetsOf finds the (element, local face) pair of every face of each group
// by matching node sets against the element faces
func sideSetsOf(elements []fileElement, groups []faceGroup) (sets []namedSet, err error) {
	if len(groups) == 0 {
		return
	}
	sides := make(map[mesh.FaceKey][2]int)
	for k, elem := range elements {
		for lf, fn := range mesh.ElementFaces(elem.topology, elem.nodes) {
			key := mesh.NewFaceKey(fn)
			if _, seen := sides[key]; !seen {
				sides[key] = [2]int{k, lf}
			}
		}
	}
	for _, fg := range groups {
		set := namedSet{name: fg.name, indices: make([]int, 0, 2*len(fg.faces))}
		for _, fn := range fg.faces {
			side, ok := sides[mesh.NewFaceKey(fn)]
			if !ok {
				return nil, fmt.Errorf("%s: face %v matches no element face", fg.name, fn)
			}
			set.indices = append(set.indices, side[0], side[1])
		}
		sets = append(sets, set)
	}
	return
}

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*mesh.FEMesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".neu":
		return ReadGambitNeutral(filename)
	case ".msh":
		return ReadGmsh(filename)
	case ".su2":
		return ReadSU2(filename)
	case ".yaml", ".yml":
		return ReadYAML(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format: %s", ext)
	}
}
