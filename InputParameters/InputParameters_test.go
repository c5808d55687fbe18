package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/femesh/utils"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
BlockTags:
  - fluid
  - solid
OutputFile: out.yaml
BCs:
  side_1: Inflow
  side_2: wall
`)
	var input TranslationParameters
	require.NoError(t, input.Parse(fileInput))
	assert.Equal(t, "Test Case", input.Title)
	assert.Equal(t, []string{"fluid", "solid"}, input.BlockTags)
	assert.Equal(t, "out.yaml", input.OutputFile)
	input.Print()

	bcs, err := input.BCTypes()
	require.NoError(t, err)
	assert.Equal(t, map[string]utils.BCType{
		"side_1": utils.BCInflow,
		"side_2": utils.BCWall,
	}, bcs)

	input.BCs["side_3"] = "warp drive"
	_, err = input.BCTypes()
	assert.ErrorContains(t, err, "side_3")
}
