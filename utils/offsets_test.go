package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetsAppendAndLocate(t *testing.T) {
	o := NewOffsets()
	o.Append(3)
	o.Append(1)
	o.Append(4)
	assert.Equal(t, Offsets{0, 3, 4, 8}, o)
	assert.Equal(t, 3, o.NumBuckets())
	assert.Equal(t, 8, o.Total())
	assert.Equal(t, 4, o.Count(2))

	type loc struct{ b, l int }
	expected := []loc{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {2, 0}, {2, 1}, {2, 2}, {2, 3}}
	for i, e := range expected {
		b, l := o.Locate(i)
		assert.Equal(t, e.b, b, "bucket of %d", i)
		assert.Equal(t, e.l, l, "local index of %d", i)
	}
	b, _ := o.Locate(8)
	assert.Equal(t, -1, b)
	b, _ = o.Locate(-1)
	assert.Equal(t, -1, b)
}

func TestOffsetsLocateMatchesLinearScan(t *testing.T) {
	counts := []int{1, 5, 2, 7, 1, 1, 9}
	o, err := OffsetsFromCounts(counts)
	require.NoError(t, err)
	for i := 0; i < o.Total(); i++ {
		// first bucket whose cumulative offset exceeds i
		linear := 0
		for o[linear+1] <= i {
			linear++
		}
		b, l := o.Locate(i)
		assert.Equal(t, linear, b)
		assert.Equal(t, i-o[linear], l)
	}
}

func TestOffsetsSkipEmptyBuckets(t *testing.T) {
	o, err := OffsetsFromCounts([]int{2, 0, 0, 2})
	require.NoError(t, err)
	b, l := o.Locate(2)
	assert.Equal(t, 3, b)
	assert.Equal(t, 0, l)
}

func TestOffsetsFromCountsRejectsNegative(t *testing.T) {
	_, err := OffsetsFromCounts([]int{1, -1})
	assert.Error(t, err)
}

func TestOffsetsClone(t *testing.T) {
	o := Offsets{0, 2}
	c := o.Clone()
	c[1] = 5
	assert.Equal(t, 2, o[1])
}
