package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/femesh/InputParameters"
	"github.com/notargets/femesh/fv"
	"github.com/notargets/femesh/readers"
	"github.com/notargets/femesh/tagger"
	"github.com/notargets/femesh/translate"
	"github.com/notargets/femesh/utils"
)

type ModelFV struct {
	MeshFile   string
	ParamsFile string
	OutputFile string
}

// FVCmd represents the fv command
var FVCmd = &cobra.Command{
	Use:   "fv",
	Short: "Build the finite volume topology of a finite element mesh",
	Long: `Reads a finite element mesh, derives its faces and face to cell
connectivity, prints a summary and optionally writes the finite volume mesh
as YAML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mfv := &ModelFV{}
		mfv.MeshFile, _ = cmd.Flags().GetString("meshFile")
		mfv.ParamsFile, _ = cmd.Flags().GetString("inputParametersFile")
		mfv.OutputFile, _ = cmd.Flags().GetString("outputFile")
		return RunFV(cmd.OutOrStdout(), mfv)
	},
}

func init() {
	rootCmd.AddCommand(FVCmd)
	FVCmd.Flags().StringP("meshFile", "F", "", "Mesh file to read, Gambit (.neu), Gmsh (.msh), SU2 (.su2) or YAML (.yaml, .yml)")
	FVCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file of translation parameters")
	FVCmd.Flags().StringP("outputFile", "o", "", "Write the finite volume mesh to this YAML file")
}

func readParameters(filename string) (tp *InputParameters.TranslationParameters, err error) {
	tp = &InputParameters.TranslationParameters{}
	if filename == "" {
		return
	}
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return nil, err
	}
	if err = tp.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return
}

func loadFV(meshFile string) (m *fv.Mesh, err error) {
	if len(meshFile) == 0 {
		return nil, fmt.Errorf("must supply a mesh file (-F, --meshFile) in .neu (Gambit neutral), .msh (Gmsh), .su2 (SU2) or .yaml format")
	}
	fe, err := readers.ReadMeshFile(meshFile)
	if err != nil {
		return nil, err
	}
	logger.Debug("read mesh", zap.String("file", meshFile),
		zap.Int("blocks", fe.NumBlocks()), zap.Int("elements", fe.NumElements()))
	if m, err = translate.FVFromFE(fe); err != nil {
		return nil, fmt.Errorf("%s: %w", meshFile, err)
	}
	return
}

func RunFV(w io.Writer, mfv *ModelFV) (err error) {
	var (
		tp *InputParameters.TranslationParameters
		m  *fv.Mesh
	)
	if tp, err = readParameters(mfv.ParamsFile); err != nil {
		return
	}
	if m, err = loadFV(mfv.MeshFile); err != nil {
		return
	}
	if err = m.Verify(); err != nil {
		return
	}
	overrides, err := tp.BCTypes()
	if err != nil {
		return
	}
	PrintStatistics(w, m, overrides)

	outputFile := mfv.OutputFile
	if outputFile == "" {
		outputFile = tp.OutputFile
	}
	if outputFile != "" {
		if err = WriteExport(m, outputFile); err != nil {
			return
		}
		fmt.Fprintf(w, "Wrote %s\n", outputFile)
	}
	return
}

// PrintStatistics prints mesh statistics. overrides assigns boundary
// condition types to sets whose names do not carry one.
func PrintStatistics(w io.Writer, m *fv.Mesh, overrides map[string]utils.BCType) {
	fmt.Fprintf(w, "Finite Volume Mesh Statistics:\n")
	fmt.Fprintf(w, "  Nodes: %d\n", m.NumNodes)
	fmt.Fprintf(w, "  Cells: %d\n", m.NumCells)
	fmt.Fprintf(w, "  Faces: %d\n", m.NumFaces)
	fmt.Fprintf(w, "  Boundary faces: %d\n", m.BoundaryFaces().GetCardinality())
	fmt.Fprintf(w, "  Edges: %d\n", m.NumEdges)

	for _, tg := range []struct {
		kind string
		tags *tagger.Tagger
	}{
		{"Cell", m.CellTags},
		{"Face", m.FaceTags},
		{"Edge", m.EdgeTags},
		{"Node", m.NodeTags},
		{"Side", m.SideTags},
	} {
		var pos int
		for name, set, ok := tg.tags.Next(&pos); ok; name, set, ok = tg.tags.Next(&pos) {
			n := len(set)
			if tg.tags == m.SideTags {
				n /= 2
			}
			fmt.Fprintf(w, "  %s tag %s: %d\n", tg.kind, name, n)
		}
	}

	bcs := m.BoundaryConditions()
	for name, bc := range overrides {
		bcs[name] = bc
	}
	names := make([]string, 0, len(bcs))
	for name := range bcs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  BC[%s] = %s\n", name, bcs[name])
	}
}

// WriteExport writes the finite volume mesh as YAML
func WriteExport(m *fv.Mesh, filename string) error {
	data, err := yaml.Marshal(m.Export())
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
