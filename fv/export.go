package fv

import (
	"github.com/notargets/femesh/tagger"
)

// NamedSet is one tag of an Export
type NamedSet struct {
	Name    string `json:"name"`
	Indices []int  `json:"indices"`
}

// Export is a self contained snapshot of a mesh for serialization
type Export struct {
	NumCells        int          `json:"num_cells"`
	NumFaces        int          `json:"num_faces"`
	NumNodes        int          `json:"num_nodes"`
	NumEdges        int          `json:"num_edges,omitempty"`
	CellFaceOffsets []int        `json:"cell_face_offsets"`
	CellFaces       []int        `json:"cell_faces"`
	FaceNodeOffsets []int        `json:"face_node_offsets"`
	FaceNodes       []int        `json:"face_nodes"`
	FaceCells       []int        `json:"face_cells"`
	EdgeNodes       []int        `json:"edge_nodes,omitempty"`
	Nodes           [][3]float64 `json:"nodes"`
	CellTags        []NamedSet   `json:"cell_tags,omitempty"`
	FaceTags        []NamedSet   `json:"face_tags,omitempty"`
	EdgeTags        []NamedSet   `json:"edge_tags,omitempty"`
	NodeTags        []NamedSet   `json:"node_tags,omitempty"`
	SideTags        []NamedSet   `json:"side_tags,omitempty"`
}

func exportTags(tg *tagger.Tagger) (sets []NamedSet) {
	var pos int
	for name, set, ok := tg.Next(&pos); ok; name, set, ok = tg.Next(&pos) {
		sets = append(sets, NamedSet{Name: name, Indices: append([]int{}, set...)})
	}
	return
}

// Export copies the mesh into an Export. Tags keep their creation order.
func (m *Mesh) Export() *Export {
	ex := &Export{
		NumCells:        m.NumCells,
		NumFaces:        m.NumFaces,
		NumNodes:        m.NumNodes,
		NumEdges:        m.NumEdges,
		CellFaceOffsets: append([]int{}, m.CellFaceOffsets...),
		CellFaces:       append([]int{}, m.CellFaces...),
		FaceNodeOffsets: append([]int{}, m.FaceNodeOffsets...),
		FaceNodes:       append([]int{}, m.FaceNodes...),
		FaceCells:       append([]int{}, m.FaceCells...),
		EdgeNodes:       append([]int(nil), m.EdgeNodes...),
		Nodes:           make([][3]float64, len(m.Nodes)),
		CellTags:        exportTags(m.CellTags),
		FaceTags:        exportTags(m.FaceTags),
		EdgeTags:        exportTags(m.EdgeTags),
		NodeTags:        exportTags(m.NodeTags),
		SideTags:        exportTags(m.SideTags),
	}
	for i, x := range m.Nodes {
		ex.Nodes[i] = [3]float64{x.X, x.Y, x.Z}
	}
	return ex
}
