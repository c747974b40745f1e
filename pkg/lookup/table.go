package lookup

import "sort"

// Table maps lookup keys to the record of the last CSV row carrying that key.
type Table map[Key]Record

// Put stores rec under key. Empty keys and empty records are rejected and
// Put reports whether the record was stored; an existing record for the same
// key is replaced.
func (t Table) Put(key Key, rec Record) bool {
	if key.IsZero() || rec.Len() == 0 {
		return false
	}
	t[key] = rec
	return true
}

// Get returns the record for key.
func (t Table) Get(key Key) (Record, bool) {
	rec, ok := t[key]
	return rec, ok
}

// Len returns the number of keys.
func (t Table) Len() int {
	return len(t)
}

// Keys returns all keys in ascending order.
func (t Table) Keys() []Key {
	keys := make([]Key, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

// Missing returns, in ascending order, the keys of t that are not in applied.
// The slice is never nil.
func (t Table) Missing(applied KeySet) []Key {
	missing := []Key{}
	for k := range t {
		if !applied.Has(k) {
			missing = append(missing, k)
		}
	}
	SortKeys(missing)
	return missing
}

// KeySet is a set of lookup keys.
type KeySet map[Key]struct{}

// Add inserts key into the set.
func (s KeySet) Add(key Key) {
	s[key] = struct{}{}
}

// Has reports whether key is in the set.
func (s KeySet) Has(key Key) bool {
	_, ok := s[key]
	return ok
}

// Union adds every key of other to s.
func (s KeySet) Union(other KeySet) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Len returns the number of keys.
func (s KeySet) Len() int {
	return len(s)
}

// Sorted returns the keys in ascending order.
func (s KeySet) Sorted() []Key {
	keys := make([]Key, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

// SortKeys sorts keys in ascending byte order.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
}

// Strings converts keys to plain strings.
func Strings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}
