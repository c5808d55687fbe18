package tagger

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateTag = errors.New("duplicate tag name")
	ErrInvalidSize  = errors.New("invalid tag size")
	ErrEmptyName    = errors.New("empty tag name")
	ErrTagNotFound  = errors.New("tag not found")
)

// Tagger is an ordered collection of named integer sets. Sets are traversed
// in the order they were created.
type Tagger struct {
	names []string
	sets  map[string][]int
}

func New() *Tagger {
	return &Tagger{
		sets: make(map[string][]int),
	}
}

// CreateTag reserves a zeroed set of the given size under name and returns
// it. The returned slice is the stored set, writes through it are visible to
// later readers of the tag.
func (tg *Tagger) CreateTag(name string, size int) (set []int, err error) {
	switch {
	case name == "":
		err = ErrEmptyName
		return
	case size < 0:
		err = fmt.Errorf("%w: tag %q, size %d", ErrInvalidSize, name, size)
		return
	}
	if _, present := tg.sets[name]; present {
		err = fmt.Errorf("%w: %q", ErrDuplicateTag, name)
		return
	}
	set = make([]int, size)
	tg.sets[name] = set
	tg.names = append(tg.names, name)
	return
}

// Tag returns the set stored under name
func (tg *Tagger) Tag(name string) (set []int, ok bool) {
	set, ok = tg.sets[name]
	return
}

func (tg *Tagger) Len() int { return len(tg.names) }

// Names returns the tag names in creation order.
func (tg *Tagger) Names() []string {
	r := make([]string, len(tg.names))
	copy(r, tg.names)
	return r
}

/*
Next advances the cursor *pos through the tags in creation order:

	var pos int
	for name, set, ok := tg.Next(&pos); ok; name, set, ok = tg.Next(&pos) {
		...
	}

Setting *pos back to zero restarts the traversal.
*/
func (tg *Tagger) Next(pos *int) (name string, set []int, ok bool) {
	if *pos < 0 || *pos >= len(tg.names) {
		return
	}
	name = tg.names[*pos]
	set = tg.sets[name]
	ok = true
	*pos++
	return
}

// Delete removes a tag, reporting whether it existed.
func (tg *Tagger) Delete(name string) bool {
	if _, present := tg.sets[name]; !present {
		return false
	}
	delete(tg.sets, name)
	for i, n := range tg.names {
		if n == name {
			tg.names = append(tg.names[:i], tg.names[i+1:]...)
			break
		}
	}
	return true
}

func (tg *Tagger) Clone() *Tagger {
	r := &Tagger{
		names: make([]string, len(tg.names)),
		sets:  make(map[string][]int, len(tg.sets)),
	}
	copy(r.names, tg.names)
	for name, set := range tg.sets {
		c := make([]int, len(set))
		copy(c, set)
		r.sets[name] = c
	}
	return r
}
