package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/femesh/mesh"
	"github.com/notargets/femesh/utils"
)

// Gambit element type codes and the exchange names of their 3D shapes
var gambitTypeNames = map[int]string{
	4: "hex",
	5: "wedge",
	6: "tetra",
	7: "pyramid",
}

type fileElement struct {
	topology mesh.ElementTopology
	nodes    []int
}

type namedSet struct {
	name    string
	indices []int
}

/*
ReadGambitNeutral reads a Gambit neutral file (.neu).

Element nodes are taken in file order. Each run of consecutive elements of
one type becomes a block named block_<n>, counting from 1, so global element
indices match the file. Element groups become element sets. Element boundary
conditions become side sets of (element, face) pairs with the file's 1-based
face numbers made 0-based; nodal boundary conditions become node sets.
Neither the element node order nor the face numbers are permuted onto
mesh.FaceTemplates, so a side set's local face follows Gambit's numbering.
Gambit's tetrahedron faces coincide with the templates; brick, wedge and
pyramid faces generally do not.
*/
func ReadGambitNeutral(filename string) (*mesh.FEMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	// Control variables from header
	var numnp, nelem int

	// Read control info section
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM") {
			// Next line contains the actual values
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF after control header")
			}
			values := strings.Fields(scanner.Text())
			if len(values) < 2 {
				return nil, fmt.Errorf("malformed control info: %q", scanner.Text())
			}
			numnp, _ = strconv.Atoi(values[0]) // Number of nodes
			nelem, _ = strconv.Atoi(values[1]) // Number of elements
			break
		}
	}

	var (
		x, y, z  []float64
		elements = make([]fileElement, 0, nelem)
		groups   []namedSet
		sideSets []namedSet
		nodeSets []namedSet
	)

	// Continue reading sections
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "ENDOFSECTION" {
			continue
		}

		if strings.Contains(line, "NODAL COORDINATES") {
			x, y, z = make([]float64, numnp), make([]float64, numnp), make([]float64, numnp)
			for i := 0; i < numnp; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 3 {
					return nil, fmt.Errorf("malformed node line: %q", scanner.Text())
				}
				nodeID, _ := strconv.Atoi(fields[0])
				// Gambit uses 1-based node IDs
				idx := nodeID - 1
				if idx < 0 || idx >= numnp {
					return nil, fmt.Errorf("%w: node id %d of %d", mesh.ErrOutOfRangeIndex, nodeID, numnp)
				}
				x[idx], _ = strconv.ParseFloat(fields[1], 64)
				y[idx], _ = strconv.ParseFloat(fields[2], 64)
				if len(fields) > 3 {
					z[idx], _ = strconv.ParseFloat(fields[3], 64)
				}
			}

		} else if strings.Contains(line, "ELEMENTS/CELLS") {
			for i := 0; i < nelem; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 3 {
					return nil, fmt.Errorf("malformed element line: %q", scanner.Text())
				}
				elemID, _ := strconv.Atoi(fields[0])
				gambitType, _ := strconv.Atoi(fields[1])
				numNodes, _ := strconv.Atoi(fields[2])

				// Long node lists continue on the following lines
				for len(fields) < 3+numNodes {
					if !scanner.Scan() {
						return nil, fmt.Errorf("unexpected EOF reading element %d", elemID)
					}
					fields = append(fields, strings.Fields(scanner.Text())...)
				}

				typeName, ok := gambitTypeNames[gambitType]
				if !ok {
					return nil, fmt.Errorf("%w: element %d has Gambit type %d, only 3D elements are supported",
						mesh.ErrInvalidTopology, elemID, gambitType)
				}
				topology := mesh.TopologyFromName(typeName, numNodes)
				if topology == mesh.Invalid {
					return nil, fmt.Errorf("%w: element %d is a %s with %d nodes",
						mesh.ErrInvalidTopology, elemID, typeName, numNodes)
				}

				nodes := make([]int, numNodes)
				for j := range nodes {
					nodeID, _ := strconv.Atoi(fields[3+j])
					// Convert from 1-based to 0-based
					nodes[j] = nodeID - 1
				}
				elements = append(elements, fileElement{topology: topology, nodes: nodes})
			}

		} else if strings.Contains(line, "ELEMENT GROUP") {
			group, err := readGambitGroup(scanner)
			if err != nil {
				return nil, err
			}
			groups = append(groups, group)

		} else if strings.Contains(line, "BOUNDARY CONDITIONS") {
			set, isSide, err := readGambitBoundary(scanner)
			if err != nil {
				return nil, err
			}
			if isSide {
				sideSets = append(sideSets, set)
			} else {
				nodeSets = append(nodeSets, set)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %v", err)
	}
	if len(elements) != nelem {
		return nil, fmt.Errorf("expected %d elements, read %d", nelem, len(elements))
	}

	return buildBlockMesh(numnp, x, y, z, elements, groups, sideSets, nodeSets)
}

// readGambitGroup reads one element group record following its section header
func readGambitGroup(scanner *bufio.Scanner) (group namedSet, err error) {
	if !scanner.Scan() {
		err = fmt.Errorf("unexpected EOF reading element group")
		return
	}
	var numElems, nflags int
	parts := strings.Fields(scanner.Text())
	for i := 0; i < len(parts)-1; i++ {
		switch parts[i] {
		case "ELEMENTS:":
			numElems, _ = strconv.Atoi(parts[i+1])
		case "NFLAGS:":
			nflags, _ = strconv.Atoi(parts[i+1])
		}
	}

	// Entity name
	if !scanner.Scan() {
		err = fmt.Errorf("unexpected EOF reading element group name")
		return
	}
	group.name = strings.TrimSpace(scanner.Text())

	// Solver flags are not kept
	if nflags > 0 && !scanner.Scan() {
		err = fmt.Errorf("unexpected EOF reading element group flags")
		return
	}

	group.indices = make([]int, 0, numElems)
	for len(group.indices) < numElems {
		if !scanner.Scan() {
			err = fmt.Errorf("unexpected EOF reading element group %q", group.name)
			return
		}
		for _, field := range strings.Fields(scanner.Text()) {
			elemID, e := strconv.Atoi(field)
			if e != nil {
				err = fmt.Errorf("element group %q: %w", group.name, e)
				return
			}
			// Elements are 1-indexed in file, 0-indexed in mesh
			group.indices = append(group.indices, elemID-1)
		}
	}
	return
}

// readGambitBoundary reads one boundary condition record. Element records
// give side set pairs, nodal records node indices.
func readGambitBoundary(scanner *bufio.Scanner) (set namedSet, isSide bool, err error) {
	if !scanner.Scan() {
		err = fmt.Errorf("unexpected EOF reading boundary condition")
		return
	}
	// Format: NAME ITYPE NENTRY NVALUES IBCODE1 ...
	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		err = fmt.Errorf("malformed boundary condition line: %q", scanner.Text())
		return
	}
	set.name = parts[0]
	itype, _ := strconv.Atoi(parts[1])  // 0=node, 1=element/cell
	nentry, _ := strconv.Atoi(parts[2]) // Number of entries
	isSide = itype == 1

	for i := 0; i < nentry; i++ {
		if !scanner.Scan() {
			err = fmt.Errorf("unexpected EOF reading boundary condition %q", set.name)
			return
		}
		fields := strings.Fields(scanner.Text())
		if isSide {
			if len(fields) < 3 {
				err = fmt.Errorf("malformed boundary entry in %q: %q", set.name, scanner.Text())
				return
			}
			elemID, _ := strconv.Atoi(fields[0])
			faceID, _ := strconv.Atoi(fields[2])
			set.indices = append(set.indices, elemID-1, faceID-1)
		} else {
			if len(fields) < 1 {
				err = fmt.Errorf("malformed boundary entry in %q: %q", set.name, scanner.Text())
				return
			}
			nodeID, _ := strconv.Atoi(fields[0])
			set.indices = append(set.indices, nodeID-1)
		}
	}
	return
}

func buildBlockMesh(numnp int, x, y, z []float64, elements []fileElement,
	groups, sideSets, nodeSets []namedSet) (fm *mesh.FEMesh, err error) {
	if fm, err = mesh.NewFEMesh(utils.SerialGroup, numnp); err != nil {
		return
	}
	if x != nil {
		if err = fm.SetCoordinates(x, y, z); err != nil {
			return nil, err
		}
	}

	// One block per run of a single topology
	for begin, nb := 0, 1; begin < len(elements); nb++ {
		topology := elements[begin].topology
		end := begin
		var conn []int
		for end < len(elements) && elements[end].topology == topology {
			conn = append(conn, elements[end].nodes...)
			end++
		}
		var eb *mesh.ElementBlock
		if eb, err = mesh.NewElementBlock(end-begin, topology, topology.NumNodes(), conn); err != nil {
			return nil, err
		}
		if err = fm.AddBlock(fmt.Sprintf("block_%d", nb), eb); err != nil {
			return nil, err
		}
		begin = end
	}

	for _, s := range []struct {
		kind mesh.EntityKind
		sets []namedSet
		per  int
	}{
		{mesh.ElementEntity, groups, 1},
		{mesh.SideEntity, sideSets, 2},
		{mesh.NodeEntity, nodeSets, 1},
	} {
		for _, gs := range s.sets {
			var set []int
			if set, err = fm.CreateSet(s.kind, gs.name, len(gs.indices)/s.per); err != nil {
				return nil, fmt.Errorf("%s set %q: %w", s.kind, gs.name, err)
			}
			copy(set, gs.indices)
		}
	}
	return
}
