//go:build femeshdebug

package mesh

import "fmt"

// assertIndex panics on an index outside [0,n)
func assertIndex(what string, i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Errorf("%w: %s %d not in [0,%d)", ErrOutOfRangeIndex, what, i, n))
	}
}
