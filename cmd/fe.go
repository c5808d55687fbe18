package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/notargets/femesh/mesh"
	"github.com/notargets/femesh/translate"
)

type ModelFE struct {
	MeshFile   string
	ParamsFile string
}

// FECmd represents the fe command
var FECmd = &cobra.Command{
	Use:   "fe",
	Short: "Rebuild polyhedral element blocks from the finite volume form of a mesh",
	Long: `Reads a finite element mesh, translates it to finite volume topology and
back into polyhedral element blocks, one per BlockTags entry of the
translation parameters, then prints the blocks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mfe := &ModelFE{}
		mfe.MeshFile, _ = cmd.Flags().GetString("meshFile")
		mfe.ParamsFile, _ = cmd.Flags().GetString("inputParametersFile")
		return RunFE(cmd.OutOrStdout(), mfe)
	},
}

func init() {
	rootCmd.AddCommand(FECmd)
	FECmd.Flags().StringP("meshFile", "F", "", "Mesh file to read, Gambit (.neu), Gmsh (.msh), SU2 (.su2) or YAML (.yaml, .yml)")
	FECmd.Flags().StringP("inputParametersFile", "I", "", "YAML file of translation parameters, BlockTags selects the blocks")
}

func RunFE(w io.Writer, mfe *ModelFE) error {
	tp, err := readParameters(mfe.ParamsFile)
	if err != nil {
		return err
	}
	m, err := loadFV(mfe.MeshFile)
	if err != nil {
		return err
	}
	fe, err := translate.FEFromFV(m, tp.BlockTags)
	if err != nil {
		return err
	}
	PrintBlocks(w, fe)
	return nil
}

// PrintBlocks prints the blocks and entity sets of a finite element mesh
func PrintBlocks(w io.Writer, fe *mesh.FEMesh) {
	fmt.Fprintf(w, "Finite Element Mesh:\n")
	fmt.Fprintf(w, "  Nodes: %d\n", fe.NumNodes())
	fmt.Fprintf(w, "  Elements: %d\n", fe.NumElements())
	fmt.Fprintf(w, "  Faces: %d\n", fe.NumFaces())
	var pos int
	for name, eb, ok := fe.NextBlock(&pos); ok; name, eb, ok = fe.NextBlock(&pos) {
		fmt.Fprintf(w, "  Block %s: %d %s\n", name, eb.NumElements(), eb.Topology())
	}
	for kind := mesh.ElementEntity; kind <= mesh.SideEntity; kind++ {
		fmt.Fprintf(w, "  %s sets: %d\n", kind, fe.NumSets(kind))
	}
}
