package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/femesh/mesh"
)

// Gmsh element type codes of the supported 3D elements
var gmshVolumeTypes = map[int]mesh.ElementTopology{
	4:  mesh.Tetrahedron4,
	5:  mesh.Hexahedron8,
	6:  mesh.Wedge6,
	7:  mesh.Pyramid5,
	11: mesh.Tetrahedron10,
	12: mesh.Hexahedron27,
	17: mesh.Hexahedron20,
	18: mesh.Wedge15,
	19: mesh.Pyramid13,
}

// Gmsh surface element type codes, node count and number of corner nodes
var gmshSurfaceTypes = map[int]struct{ nodes, corners int }{
	2:  {3, 3},  // 3-node triangle
	3:  {4, 4},  // 4-node quadrangle
	9:  {6, 3},  // 6-node triangle
	10: {9, 4},  // 9-node quadrangle
	16: {8, 4},  // 8-node quadrangle
	20: {9, 3},  // 9-node triangle
	21: {10, 3}, // 10-node triangle
}

// Gmsh point and line element type codes, skipped on reading
var gmshLowerTypes = map[int]bool{
	1:  true, // 2-node line
	8:  true, // 3-node line
	15: true, // point
	26: true, // 4-node line
	27: true, // 5-node line
	28: true, // 6-node line
}

type gmshVolume struct {
	topology mesh.ElementTopology
	nodes    []int // node tags
	physical []int
}

type gmshFace struct {
	nodes    []int // corner node tags
	physical []int
}

// gmshMesh collects the sections of a Gmsh file, in file node tags, until
// the whole file is read
type gmshMesh struct {
	nodeIndex     map[int]int
	x, y, z       []float64
	physicalNames map[[2]int]string // (dimension, physical tag) -> name
	volumes       []gmshVolume
	faces         []gmshFace
}

func newGmshMesh() *gmshMesh {
	return &gmshMesh{
		nodeIndex:     make(map[int]int),
		physicalNames: make(map[[2]int]string),
	}
}

/*
ReadGmsh reads a Gmsh MSH file (.msh), detecting the format version from the
$MeshFormat section. ASCII versions 2.2 and 4.1 are supported.

Nodes are numbered in file order whatever their tags. Volume elements are
taken in file order and grouped into blocks as ReadGambitNeutral does; point,
line and surface elements are not elements of the mesh. Physical volume groups
become element sets and physical surface groups become side sets, each
surface element matched to its (element, local face) by node set. Groups are
named from $PhysicalNames, or volume_<tag> and boundary_<tag> otherwise.
*/
func ReadGmsh(filename string) (*mesh.FEMesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(file)
	var version string
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "$MeshFormat" {
			if scanner.Scan() {
				if parts := strings.Fields(scanner.Text()); len(parts) > 0 {
					version = parts[0]
				}
			}
			break
		}
	}
	file.Close()

	switch {
	case strings.HasPrefix(version, "4."):
		return ReadGmsh4(filename)
	case strings.HasPrefix(version, "2."):
		return ReadGmsh22(filename)
	case version == "":
		return nil, fmt.Errorf("could not find $MeshFormat section")
	default:
		return nil, fmt.Errorf("unsupported Gmsh format version: %s", version)
	}
}

// readMeshFormat checks the version and file type of the $MeshFormat section
func readMeshFormat(scanner *bufio.Scanner, version string) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}
	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line: %q", scanner.Text())
	}
	if !strings.HasPrefix(parts[0], version) {
		return fmt.Errorf("unsupported Gmsh format version: %s", parts[0])
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary Gmsh files are not supported")
	}
	return skipSection(scanner, "$EndMeshFormat")
}

// readPhysicalNames reads physical group names (common to v2.2 and v4)
func readPhysicalNames(scanner *bufio.Scanner, gm *gmshMesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in PhysicalNames")
	}
	numNames, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return fmt.Errorf("invalid PhysicalNames count: %q", scanner.Text())
	}
	for i := 0; i < numNames; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading physical names")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return fmt.Errorf("invalid physical name line: %q", scanner.Text())
		}
		dim, err1 := strconv.Atoi(parts[0])
		tag, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return fmt.Errorf("invalid physical name line: %q", scanner.Text())
		}
		// Names are quoted and may hold spaces
		name := strings.Trim(strings.Join(parts[2:], " "), "\"")
		gm.physicalNames[[2]int{dim, tag}] = name
	}
	return skipSection(scanner, "$EndPhysicalNames")
}

// skipSection skips a section until the end marker
func skipSection(scanner *bufio.Scanner, endMarker string) error {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == endMarker {
			return nil
		}
	}
	return fmt.Errorf("unexpected EOF while looking for %s", endMarker)
}

func parseInts(fields []string) (vals []int, err error) {
	vals = make([]int, len(fields))
	for i, f := range fields {
		if vals[i], err = strconv.Atoi(f); err != nil {
			return nil, fmt.Errorf("invalid integer %q", f)
		}
	}
	return
}

func (gm *gmshMesh) addNode(tag int, coords []string) (err error) {
	if len(coords) < 3 {
		return fmt.Errorf("node %d: expected 3 coordinates, got %d", tag, len(coords))
	}
	if _, dup := gm.nodeIndex[tag]; dup {
		return fmt.Errorf("duplicate node tag %d", tag)
	}
	var xyz [3]float64
	for j := range xyz {
		if xyz[j], err = strconv.ParseFloat(coords[j], 64); err != nil {
			return fmt.Errorf("node %d: invalid coordinate %q", tag, coords[j])
		}
	}
	gm.nodeIndex[tag] = len(gm.x)
	gm.x, gm.y, gm.z = append(gm.x, xyz[0]), append(gm.y, xyz[1]), append(gm.z, xyz[2])
	return
}

// addElement records a volume or surface element given its type code,
// physical groups and node tag fields. Point and line elements are skipped.
func (gm *gmshMesh) addElement(code int, physical []int, nodeFields []string) error {
	if topology, ok := gmshVolumeTypes[code]; ok {
		if len(nodeFields) < topology.NumNodes() {
			return fmt.Errorf("type %d expects %d nodes, got %d", code, topology.NumNodes(), len(nodeFields))
		}
		nodes, err := parseInts(nodeFields[:topology.NumNodes()])
		if err != nil {
			return err
		}
		gm.volumes = append(gm.volumes, gmshVolume{topology: topology, nodes: nodes, physical: physical})
		return nil
	}
	if st, ok := gmshSurfaceTypes[code]; ok {
		if len(nodeFields) < st.nodes {
			return fmt.Errorf("type %d expects %d nodes, got %d", code, st.nodes, len(nodeFields))
		}
		// Corner nodes come first and alone identify the face
		nodes, err := parseInts(nodeFields[:st.corners])
		if err != nil {
			return err
		}
		gm.faces = append(gm.faces, gmshFace{nodes: nodes, physical: physical})
		return nil
	}
	if gmshLowerTypes[code] {
		return nil
	}
	return fmt.Errorf("unsupported Gmsh element type %d", code)
}

func (gm *gmshMesh) nodeIndices(tags []int) (nodes []int, err error) {
	nodes = make([]int, len(tags))
	for i, tag := range tags {
		var ok bool
		if nodes[i], ok = gm.nodeIndex[tag]; !ok {
			return nil, fmt.Errorf("unknown node tag %d", tag)
		}
	}
	return
}

func (gm *gmshMesh) groupName(dim, tag int) string {
	if name, ok := gm.physicalNames[[2]int{dim, tag}]; ok {
		return name
	}
	if dim == 3 {
		return fmt.Sprintf("volume_%d", tag)
	}
	return fmt.Sprintf("boundary_%d", tag)
}

func (gm *gmshMesh) build() (fm *mesh.FEMesh, err error) {
	elements := make([]fileElement, len(gm.volumes))
	volumeGroups := make(map[int][]int)
	for k, v := range gm.volumes {
		if elements[k].nodes, err = gm.nodeIndices(v.nodes); err != nil {
			return nil, fmt.Errorf("element %d: %w", k, err)
		}
		elements[k].topology = v.topology
		for _, p := range v.physical {
			volumeGroups[p] = append(volumeGroups[p], k)
		}
	}

	surfaceGroups := make(map[int][][]int)
	for _, f := range gm.faces {
		var nodes []int
		if nodes, err = gm.nodeIndices(f.nodes); err != nil {
			return nil, fmt.Errorf("surface element: %w", err)
		}
		for _, p := range f.physical {
			surfaceGroups[p] = append(surfaceGroups[p], nodes)
		}
	}

	var (
		groups     []namedSet
		boundaries []faceGroup
		sideSets   []namedSet
	)
	for _, p := range sortedKeys(volumeGroups) {
		groups = append(groups, namedSet{name: gm.groupName(3, p), indices: volumeGroups[p]})
	}
	for _, p := range sortedKeys(surfaceGroups) {
		boundaries = append(boundaries, faceGroup{name: gm.groupName(2, p), faces: surfaceGroups[p]})
	}
	if sideSets, err = sideSetsOf(elements, boundaries); err != nil {
		return nil, err
	}
	return buildBlockMesh(len(gm.x), gm.x, gm.y, gm.z, elements, groups, sideSets, nil)
}
