package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/femesh/mesh"
)

// ReadGmsh22 reads a Gmsh MSH file format version 2.2. The first tag of an
// element is its physical group, 0 meaning none.
func ReadGmsh22(filename string) (*mesh.FEMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseGmsh22(bufio.NewScanner(file))
}

func parseGmsh22(scanner *bufio.Scanner) (*mesh.FEMesh, error) {
	gm := newGmshMesh()
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		var err error
		switch line {
		case "":
			continue
		case "$MeshFormat":
			err = readMeshFormat(scanner, "2.")
		case "$PhysicalNames":
			err = readPhysicalNames(scanner, gm)
		case "$Nodes":
			err = readNodes22(scanner, gm)
		case "$Elements":
			err = readElements22(scanner, gm)
		default:
			// $Periodic, $NodeData and other sections carry nothing for the mesh
			if strings.HasPrefix(line, "$") && !strings.HasPrefix(line, "$End") {
				err = skipSection(scanner, "$End"+line[1:])
			}
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	return gm.build()
}

// readNodes22 reads nodes in v2.2 format
func readNodes22(scanner *bufio.Scanner, gm *gmshMesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}
	numNodes, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid node count: %q", scanner.Text())
	}
	for i := 0; i < numNodes; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading nodes")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return fmt.Errorf("invalid node line: %s", scanner.Text())
		}
		tag, err := strconv.Atoi(parts[0])
		if err != nil {
			return fmt.Errorf("invalid node tag %q", parts[0])
		}
		if err = gm.addNode(tag, parts[1:]); err != nil {
			return err
		}
	}
	return skipSection(scanner, "$EndNodes")
}

// readElements22 reads elements in v2.2 format:
// elem-id elem-type num-tags tag... node...
func readElements22(scanner *bufio.Scanner, gm *gmshMesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}
	numElements, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid element count: %q", scanner.Text())
	}
	for i := 0; i < numElements; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading elements")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return fmt.Errorf("invalid element line: %q", scanner.Text())
		}
		header, err := parseInts(parts[:3])
		if err != nil {
			return fmt.Errorf("invalid element line: %q", scanner.Text())
		}
		elemID, elemType, numTags := header[0], header[1], header[2]
		if numTags < 0 || len(parts) < 3+numTags {
			return fmt.Errorf("element %d: invalid tags", elemID)
		}
		var physical []int
		if numTags > 0 {
			var tag int
			if tag, err = strconv.Atoi(parts[3]); err != nil {
				return fmt.Errorf("element %d: invalid tag %q", elemID, parts[3])
			}
			if tag != 0 {
				physical = []int{tag}
			}
		}
		if err = gm.addElement(elemType, physical, parts[3+numTags:]); err != nil {
			return fmt.Errorf("element %d: %w", elemID, err)
		}
	}
	return skipSection(scanner, "$EndElements")
}
