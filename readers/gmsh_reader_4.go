package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/femesh/mesh"
)

// entityKey is the (dimension, tag) pair naming a geometric entity
type entityKey [2]int

// ReadGmsh4 reads a Gmsh MSH file format version 4.1. Elements take the
// physical groups of the geometric entity they belong to.
func ReadGmsh4(filename string) (*mesh.FEMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseGmsh4(bufio.NewScanner(file))
}

func parseGmsh4(scanner *bufio.Scanner) (*mesh.FEMesh, error) {
	var (
		gm       = newGmshMesh()
		entities = make(map[entityKey][]int)
	)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		var err error
		switch line {
		case "":
			continue
		case "$MeshFormat":
			err = readMeshFormat(scanner, "4.1")
		case "$PhysicalNames":
			err = readPhysicalNames(scanner, gm)
		case "$Entities":
			err = readEntities4(scanner, entities)
		case "$Nodes":
			err = readNodes4(scanner, gm)
		case "$Elements":
			err = readElements4(scanner, gm, entities)
		default:
			// $PartitionedEntities, $Periodic, $GhostElements and data sections
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

// readEntities4 reads the physical tags of every entity. Point lines are
// tag x y z numPhysical physical...; curve, surface and volume lines carry a
// bounding box in place of the point, then their bounding entities.
func readEntities4(scanner *bufio.Scanner, entities map[entityKey][]int) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Entities")
	}
	counts, err := parseInts(strings.Fields(scanner.Text()))
	if err != nil || len(counts) < 4 {
		return fmt.Errorf("invalid entity counts: %q", scanner.Text())
	}
	for dim := 0; dim < 4; dim++ {
		physicalAt := 7
		if dim == 0 {
			physicalAt = 4
		}
		for i := 0; i < counts[dim]; i++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading dimension %d entity", dim)
			}
			fields := strings.Fields(scanner.Text())
			if len(fields) < physicalAt {
				return fmt.Errorf("invalid dimension %d entity: %q", dim, scanner.Text())
			}
			tag, err := strconv.Atoi(fields[0])
			if err != nil {
				return fmt.Errorf("invalid entity tag %q", fields[0])
			}
			if len(fields) == physicalAt {
				continue
			}
			numPhysical, err := strconv.Atoi(fields[physicalAt])
			if err != nil || len(fields) < physicalAt+1+numPhysical {
				return fmt.Errorf("invalid physical tags of dimension %d entity %d", dim, tag)
			}
			var physical []int
			if physical, err = parseInts(fields[physicalAt+1 : physicalAt+1+numPhysical]); err != nil {
				return fmt.Errorf("dimension %d entity %d: %w", dim, tag, err)
			}
			entities[entityKey{dim, tag}] = physical
		}
	}
	return skipSection(scanner, "$EndEntities")
}

// readNodes4 reads nodes in v4.1 format: per entity block the node tags, one
// per line, then the coordinates, followed by parametric coordinates when
// the block is parametric
func readNodes4(scanner *bufio.Scanner, gm *gmshMesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Nodes")
	}
	header, err := parseInts(strings.Fields(scanner.Text()))
	if err != nil || len(header) < 4 {
		return fmt.Errorf("invalid Nodes header: %q", scanner.Text())
	}
	for b := 0; b < header[0]; b++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in node entity block %d", b)
		}
		blockHeader, err := parseInts(strings.Fields(scanner.Text()))
		if err != nil || len(blockHeader) < 4 {
			return fmt.Errorf("invalid node block header: %q", scanner.Text())
		}
		numNodes := blockHeader[3]
		tags := make([]int, numNodes)
		for j := range tags {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading node tags")
			}
			if tags[j], err = strconv.Atoi(strings.TrimSpace(scanner.Text())); err != nil {
				return fmt.Errorf("invalid node tag %q", scanner.Text())
			}
		}
		for _, tag := range tags {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading node coordinates")
			}
			if err = gm.addNode(tag, strings.Fields(scanner.Text())); err != nil {
				return err
			}
		}
	}
	return skipSection(scanner, "$EndNodes")
}

// readElements4 reads elements in v4.1 format: per entity block a header of
// entityDim entityTag elementType numElements, then one element tag and its
// node tags per line
func readElements4(scanner *bufio.Scanner, gm *gmshMesh, entities map[entityKey][]int) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in Elements")
	}
	header, err := parseInts(strings.Fields(scanner.Text()))
	if err != nil || len(header) < 4 {
		return fmt.Errorf("invalid Elements header: %q", scanner.Text())
	}
	for b := 0; b < header[0]; b++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF in element entity block %d", b)
		}
		blockHeader, err := parseInts(strings.Fields(scanner.Text()))
		if err != nil || len(blockHeader) < 4 {
			return fmt.Errorf("invalid element block header: %q", scanner.Text())
		}
		entityDim, entityTag, elemType, numElems := blockHeader[0], blockHeader[1], blockHeader[2], blockHeader[3]
		physical := entities[entityKey{entityDim, entityTag}]
		for j := 0; j < numElems; j++ {
			if !scanner.Scan() {
				return fmt.Errorf("unexpected EOF reading elements")
			}
			if entityDim < 2 {
				continue
			}
			fields := strings.Fields(scanner.Text())
			if len(fields) < 2 {
				return fmt.Errorf("invalid element line: %q", scanner.Text())
			}
			if err = gm.addElement(elemType, physical, fields[1:]); err != nil {
				return fmt.Errorf("element %s: %w", fields[0], err)
			}
		}
	}
	return skipSection(scanner, "$EndElements")
}
