package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/femesh/utils"
)

// Parameters obtained from the YAML translation parameters file
type TranslationParameters struct {
	Title      string            `json:"Title"`
	BlockTags  []string          `json:"BlockTags"`  // Cell tags that become element blocks, in order
	OutputFile string            `json:"OutputFile"` // Where the finite volume export is written
	BCs        map[string]string `json:"BCs"`        // Set name -> boundary condition type
}

func (tp *TranslationParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, tp)
}

// BCTypes resolves the BCs entries. Unknown boundary condition types are an error.
func (tp *TranslationParameters) BCTypes() (bcs map[string]utils.BCType, err error) {
	bcs = make(map[string]utils.BCType, len(tp.BCs))
	for setName, typeName := range tp.BCs {
		bc, ok := utils.ParseBCName(typeName)
		if !ok {
			return nil, fmt.Errorf("set %q: unknown boundary condition type %q", setName, typeName)
		}
		bcs[setName] = bc
	}
	return
}

func (tp *TranslationParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", tp.Title)
	fmt.Printf("%v\t\t= Block Tags\n", tp.BlockTags)
	if tp.OutputFile != "" {
		fmt.Printf("[%s]\t= Output File\n", tp.OutputFile)
	}
	keys := make([]string, len(tp.BCs))
	i := 0
	for k := range tp.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, tp.BCs[key])
	}
}
