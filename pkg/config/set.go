package config

import (
	"encoding/json"

	"github.com/peakflow-tools/spconf/pkg/util"
)

// StringSet is an unordered set of strings. Add on a nil set allocates.
type StringSet map[string]struct{}

// NewStringSet returns a set holding values, duplicates collapsed.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts v. Re-adding an existing value is a no-op.
func (s *StringSet) Add(v string) {
	if *s == nil {
		*s = make(StringSet)
	}
	(*s)[v] = struct{}{}
}

// Remove deletes v if present.
func (s StringSet) Remove(v string) {
	delete(s, v)
}

// Has reports whether v is in the set.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of values.
func (s StringSet) Len() int {
	return len(s)
}

// Sorted returns the values in ascending order.
func (s StringSet) Sorted() []string {
	return util.SortedKeys(s)
}

// Equal reports whether both sets hold the same values.
func (s StringSet) Equal(other StringSet) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s StringSet) Clone() StringSet {
	c := make(StringSet, len(s))
	for v := range s {
		c[v] = struct{}{}
	}
	return c
}

// MarshalJSON encodes the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array into the set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}
