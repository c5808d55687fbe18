package utils

// OrderedIndex assigns dense integer ids to keys in first-insert order.
// Id n is always the n-th distinct key inserted.
type OrderedIndex[K comparable] struct {
	ids  map[K]int
	keys []K
}

func NewOrderedIndex[K comparable](capHint int) *OrderedIndex[K] {
	if capHint < 0 {
		capHint = 0
	}
	return &OrderedIndex[K]{
		ids:  make(map[K]int, capHint),
		keys: make([]K, 0, capHint),
	}
}

// Lookup returns the id of k, if present.
func (oi *OrderedIndex[K]) Lookup(k K) (id int, ok bool) {
	id, ok = oi.ids[k]
	return
}

// Insert returns the id of k, assigning the next id when k is new.
func (oi *OrderedIndex[K]) Insert(k K) (id int, inserted bool) {
	var ok bool
	if id, ok = oi.ids[k]; ok {
		return id, false
	}
	id = len(oi.keys)
	oi.ids[k] = id
	oi.keys = append(oi.keys, k)
	return id, true
}

func (oi *OrderedIndex[K]) Len() int { return len(oi.keys) }

// Key returns the key that was given id.
func (oi *OrderedIndex[K]) Key(id int) K { return oi.keys[id] }
