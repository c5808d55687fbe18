package utils

import (
	"fmt"
	"sort"
)

// Offsets is a monotone prefix-sum table: Offsets[0] == 0 and bucket b owns
// the half open range [Offsets[b], Offsets[b+1]).
type Offsets []int

// NewOffsets returns a table with no buckets.
func NewOffsets() Offsets {
	return Offsets{0}
}

// OffsetsFromCounts builds the prefix sums of counts.
func OffsetsFromCounts(counts []int) (o Offsets, err error) {
	o = make(Offsets, len(counts)+1)
	for i, c := range counts {
		if c < 0 {
			err = fmt.Errorf("negative count %d at position %d", c, i)
			return nil, err
		}
		o[i+1] = o[i] + c
	}
	return
}

// Append adds a bucket holding count items.
func (o *Offsets) Append(count int) {
	if len(*o) == 0 {
		*o = append(*o, 0)
	}
	*o = append(*o, (*o)[len(*o)-1]+count)
}

// NumBuckets is the number of buckets, len(o)-1.
func (o Offsets) NumBuckets() int {
	if len(o) == 0 {
		return 0
	}
	return len(o) - 1
}

// Total is the number of items over all buckets.
func (o Offsets) Total() int {
	if len(o) == 0 {
		return 0
	}
	return o[len(o)-1]
}

// Count is the size of bucket b.
func (o Offsets) Count(b int) int {
	return o[b+1] - o[b]
}

// Range returns the bounds of bucket b.
func (o Offsets) Range(b int) (begin, end int) {
	return o[b], o[b+1]
}

// Locate finds the bucket that owns item i and the position of i inside it.
// The owner is the first bucket whose end offset exceeds i, so empty buckets
// never own anything. bucket is -1 when i is outside [0, Total()).
func (o Offsets) Locate(i int) (bucket, local int) {
	nb := o.NumBuckets()
	if i < 0 || i >= o.Total() {
		return -1, 0
	}
	bucket = sort.Search(nb, func(b int) bool { return o[b+1] > i })
	local = i - o[bucket]
	return
}

// Clone returns a copy that shares no storage with o.
func (o Offsets) Clone() Offsets {
	if o == nil {
		return nil
	}
	r := make(Offsets, len(o))
	copy(r, o)
	return r
}
