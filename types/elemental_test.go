package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeKey(t *testing.T) {
	en := NewEdgeKey(1, 0)
	assert.Equal(t, EdgeKey(1<<32), en)
	assert.Equal(t, NewEdgeKey(0, 1), en)

	lo, hi := NewEdgeKey(100, 1).Nodes()
	assert.Equal(t, 1, lo)
	assert.Equal(t, 100, hi)

	en = NewEdgeKey(100, 100001)
	assert.Equal(t, EdgeKey(100001*(1<<32)+100), en)

	// Maximum indices
	en = NewEdgeKey(1<<32-1, 1<<32-1)
	assert.Equal(t, EdgeKey(1<<64-1), en)
	lo, hi = en.Nodes()
	assert.Equal(t, 1<<32-1, lo)
	assert.Equal(t, 1<<32-1, hi)

	assert.Panics(t, func() { NewEdgeKey(-1, 2) })
	assert.Panics(t, func() { NewEdgeKey(0, 1<<32) })
}
