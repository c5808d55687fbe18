package utils

import "strings"

// BCType classifies the boundary condition a named side or face set stands for
type BCType uint8

const (
	// BCNone indicates a set whose name carries no boundary meaning
	BCNone BCType = iota

	BCInflow
	BCOutflow
	BCWall
	BCSlipWall
	BCSymmetry
	BCPeriodic
	BCFarfield
	BCDirichlet
	BCNeumann
	BCInterface
)

var bcNames = [...]string{
	BCNone:      "None",
	BCInflow:    "Inflow",
	BCOutflow:   "Outflow",
	BCWall:      "Wall",
	BCSlipWall:  "SlipWall",
	BCSymmetry:  "Symmetry",
	BCPeriodic:  "Periodic",
	BCFarfield:  "Farfield",
	BCDirichlet: "Dirichlet",
	BCNeumann:   "Neumann",
	BCInterface: "Interface",
}

func (bc BCType) String() string {
	if int(bc) < len(bcNames) {
		return bcNames[bc]
	}
	return "Unknown"
}

// BCNameMap maps lower case set names, as mesh generators write them, to BCType.
var BCNameMap = map[string]BCType{
	"inlet":      BCInflow,
	"inflow":     BCInflow,
	"outlet":     BCOutflow,
	"outflow":    BCOutflow,
	"exit":       BCOutflow,
	"wall":       BCWall,
	"no_slip":    BCWall,
	"noslip":     BCWall,
	"slip":       BCSlipWall,
	"slip_wall":  BCSlipWall,
	"symmetry":   BCSymmetry,
	"symmetric":  BCSymmetry,
	"periodic":   BCPeriodic,
	"farfield":   BCFarfield,
	"far_field":  BCFarfield,
	"freestream": BCFarfield,
	"dirichlet":  BCDirichlet,
	"neumann":    BCNeumann,
	"interface":  BCInterface,
	"internal":   BCInterface,
}

// ParseBCName converts a set name to a BCType. Matching is case-insensitive,
// ignores surrounding whitespace and accepts a numeric suffix such as
// "wall_2" or "inlet-1". Unrecognized names give BCNone, false.
func ParseBCName(name string) (BCType, bool) {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if bc, ok := BCNameMap[lowerName]; ok {
		return bc, true
	}
	base := strings.TrimRight(lowerName, "0123456789")
	base = strings.TrimRight(base, "_- ")
	if base != lowerName {
		if bc, ok := BCNameMap[base]; ok {
			return bc, true
		}
	}
	return BCNone, false
}
