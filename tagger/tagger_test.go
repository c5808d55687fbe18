package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaggerCreate(t *testing.T) {
	tg := New()
	assert.Equal(t, 0, tg.Len())

	set, err := tg.CreateTag("inlet", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, set)
	set[0], set[1], set[2] = 7, 3, 5

	got, ok := tg.Tag("inlet")
	require.True(t, ok)
	assert.Equal(t, []int{7, 3, 5}, got)

	empty, err := tg.CreateTag("empty", 0)
	require.NoError(t, err)
	assert.Len(t, empty, 0)

	_, err = tg.CreateTag("inlet", 1)
	assert.ErrorIs(t, err, ErrDuplicateTag)
	_, err = tg.CreateTag("bad", -1)
	assert.ErrorIs(t, err, ErrInvalidSize)
	_, err = tg.CreateTag("", 1)
	assert.ErrorIs(t, err, ErrEmptyName)

	assert.Equal(t, 2, tg.Len())
	_, ok = tg.Tag("missing")
	assert.False(t, ok)
}

func TestTaggerTraversal(t *testing.T) {
	tg := New()
	names := []string{"zeta", "alpha", "mid"}
	for i, name := range names {
		set, err := tg.CreateTag(name, i+1)
		require.NoError(t, err)
		for j := range set {
			set[j] = 10*i + j
		}
	}
	assert.Equal(t, names, tg.Names())

	var (
		pos  int
		seen []string
	)
	for name, set, ok := tg.Next(&pos); ok; name, set, ok = tg.Next(&pos) {
		seen = append(seen, name)
		assert.Len(t, set, len(seen))
	}
	assert.Equal(t, names, seen)

	// Exhausted cursor stays exhausted until reset
	_, _, ok := tg.Next(&pos)
	assert.False(t, ok)
	pos = 0
	name, set, ok := tg.Next(&pos)
	assert.True(t, ok)
	assert.Equal(t, "zeta", name)
	assert.Equal(t, []int{0}, set)
}

func TestTaggerCloneDelete(t *testing.T) {
	tg := New()
	a, _ := tg.CreateTag("a", 2)
	a[1] = 9
	_, _ = tg.CreateTag("b", 1)

	c := tg.Clone()
	a[0] = 4
	ca, _ := c.Tag("a")
	assert.Equal(t, []int{0, 9}, ca)
	assert.Equal(t, tg.Names(), c.Names())

	assert.True(t, tg.Delete("a"))
	assert.False(t, tg.Delete("a"))
	assert.Equal(t, []string{"b"}, tg.Names())
	assert.Equal(t, 2, c.Len())

	// A deleted name can be reused
	_, err := tg.CreateTag("a", 1)
	assert.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, tg.Names())
}
