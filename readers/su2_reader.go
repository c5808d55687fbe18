package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/femesh/mesh"
)

// SU2 (VTK) volume element type codes
var su2Topologies = map[int]mesh.ElementTopology{
	10: mesh.Tetrahedron4, // VTK_TETRA
	12: mesh.Hexahedron8,  // VTK_HEXAHEDRON
	13: mesh.Wedge6,       // VTK_WEDGE
	14: mesh.Pyramid5,     // VTK_PYRAMID
}

// SU2 (VTK) boundary element type codes and their node counts
var su2BoundaryNodes = map[int]int{
	5: 3, // VTK_TRIANGLE
	9: 4, // VTK_QUAD
}

/*
ReadSU2 reads an SU2 native format file (.su2). Only 3D meshes are accepted.

Elements are taken in file order and grouped into blocks the same way as
ReadGambitNeutral. Each marker becomes a side set: its boundary faces are
matched by node set against the element faces.
*/
func ReadSU2(filename string) (*mesh.FEMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseSU2(bufio.NewScanner(file))
}

func su2Line(scanner *bufio.Scanner) (line string, ok bool) {
	for scanner.Scan() {
		line = scanner.Text()
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = line[:idx]
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, true
		}
	}
	return "", false
}

func su2Count(line, keyword string) (n int, err error) {
	if n, err = strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, keyword))); err != nil {
		return 0, fmt.Errorf("invalid %s line: %q", keyword, line)
	}
	return
}

func parseSU2(scanner *bufio.Scanner) (fm *mesh.FEMesh, err error) {
	var (
		ndime, npoin int
		hasNDIME     bool
		x, y, z      []float64
		elements     []fileElement
		markers      []faceGroup
	)

	for {
		line, ok := su2Line(scanner)
		if !ok {
			break
		}
		switch {
		case strings.HasPrefix(line, "NDIME="):
			if ndime, err = su2Count(line, "NDIME="); err != nil {
				return nil, err
			}
			if ndime != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", ndime)
			}
			hasNDIME = true

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return nil, fmt.Errorf("NPOIN= before NDIME=")
			}
			// NPOIN may carry a second count of domain points
			fields := strings.Fields(strings.TrimPrefix(line, "NPOIN="))
			if len(fields) == 0 {
				return nil, fmt.Errorf("invalid NPOIN= line: %q", line)
			}
			if npoin, err = strconv.Atoi(fields[0]); err != nil {
				return nil, fmt.Errorf("invalid NPOIN= line: %q", line)
			}
			x, y, z = make([]float64, npoin), make([]float64, npoin), make([]float64, npoin)
			for i := 0; i < npoin; i++ {
				var pl string
				if pl, ok = su2Line(scanner); !ok {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(pl)
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid node line: %q", pl)
				}
				// A trailing point index is ignored, points are numbered by order
				for j, c := range []*float64{&x[i], &y[i], &z[i]} {
					if *c, err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("invalid coordinate %q: %w", fields[j], err)
					}
				}
			}

		case strings.HasPrefix(line, "NELEM="):
			var nelem int
			if nelem, err = su2Count(line, "NELEM="); err != nil {
				return nil, err
			}
			elements = make([]fileElement, 0, nelem)
			for i := 0; i < nelem; i++ {
				var el string
				if el, ok = su2Line(scanner); !ok {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				var elem fileElement
				if elem, err = parseSU2Element(el); err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				elements = append(elements, elem)
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			if nmark, err = su2Count(line, "NMARK="); err != nil {
				return nil, err
			}
			for i := 0; i < nmark; i++ {
				var mk faceGroup
				if mk, err = readSU2Marker(scanner); err != nil {
					return nil, fmt.Errorf("marker %d: %w", i, err)
				}
				markers = append(markers, mk)
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if !hasNDIME {
		return nil, fmt.Errorf("missing required NDIME= section")
	}
	if x == nil {
		return nil, fmt.Errorf("missing required NPOIN= section")
	}

	var sideSets []namedSet
	if sideSets, err = sideSetsOf(elements, markers); err != nil {
		return nil, err
	}
	return buildBlockMesh(npoin, x, y, z, elements, nil, sideSets, nil)
}

func parseSU2Element(line string) (elem fileElement, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return elem, fmt.Errorf("invalid element line: %q", line)
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return elem, fmt.Errorf("invalid element type %q", fields[0])
	}
	topology, ok := su2Topologies[code]
	if !ok {
		return elem, fmt.Errorf("unsupported element type %d", code)
	}
	numNodes := topology.NumNodes()
	if len(fields) < numNodes+1 {
		return elem, fmt.Errorf("type %d expects %d nodes, got %d fields", code, numNodes, len(fields)-1)
	}
	elem.topology = topology
	elem.nodes = make([]int, numNodes)
	for j := range elem.nodes {
		if elem.nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
			return elem, fmt.Errorf("invalid node index %q", fields[1+j])
		}
	}
	return
}

func readSU2Marker(scanner *bufio.Scanner) (mk faceGroup, err error) {
	line, ok := su2Line(scanner)
	if !ok || !strings.HasPrefix(line, "MARKER_TAG=") {
		return mk, fmt.Errorf("expected MARKER_TAG=, got %q", line)
	}
	mk.name = strings.TrimSpace(strings.TrimPrefix(line, "MARKER_TAG="))
	if line, ok = su2Line(scanner); !ok || !strings.HasPrefix(line, "MARKER_ELEMS=") {
		return mk, fmt.Errorf("expected MARKER_ELEMS= for %s, got %q", mk.name, line)
	}
	var n int
	if n, err = su2Count(line, "MARKER_ELEMS="); err != nil {
		return
	}
	mk.faces = make([][]int, n)
	for i := range mk.faces {
		if line, ok = su2Line(scanner); !ok {
			return mk, fmt.Errorf("unexpected EOF reading marker %s", mk.name)
		}
		fields := strings.Fields(line)
		code, _ := strconv.Atoi(fields[0])
		nn, known := su2BoundaryNodes[code]
		if !known {
			return mk, fmt.Errorf("marker %s: unsupported boundary element type %q", mk.name, fields[0])
		}
		if len(fields) < nn+1 {
			return mk, fmt.Errorf("marker %s: boundary element expects %d nodes", mk.name, nn)
		}
		mk.faces[i] = make([]int, nn)
		for j := range mk.faces[i] {
			if mk.faces[i][j], err = strconv.Atoi(fields[1+j]); err != nil {
				return mk, fmt.Errorf("marker %s: invalid node index %q", mk.name, fields[1+j])
			}
		}
	}
	return
}
