// Package util provides small generic collection helpers shared across the
// ictiobus packages: a dense-id set built for symbol/rule/state ids, and a
// simple stack.
package util

import (
	"fmt"
	"sort"
	"strings"
)

// IDSet is a set of small non-negative integer ids, such as symbol ids, rule
// ids, or state ids. It is the dense-id analogue of the teacher's
// string-keyed StringSet.
type IDSet map[int]bool

// NewIDSet creates an IDSet optionally pre-populated from the given sets.
func NewIDSet(of ...IDSet) IDSet {
	s := IDSet{}
	for _, o := range of {
		s.AddAll(o)
	}
	return s
}

// IDSetOf creates an IDSet containing exactly the given ids.
func IDSetOf(ids ...int) IDSet {
	s := IDSet{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s IDSet) Add(id int) {
	s[id] = true
}

func (s IDSet) Remove(id int) {
	delete(s, id)
}

func (s IDSet) Has(id int) bool {
	return s[id]
}

func (s IDSet) Len() int {
	return len(s)
}

func (s IDSet) Empty() bool {
	return len(s) == 0
}

func (s IDSet) Copy() IDSet {
	return NewIDSet(s)
}

func (s IDSet) AddAll(o IDSet) {
	for id := range o {
		s.Add(id)
	}
}

// AddAllReturnGrew adds every id in o to s and reports whether s grew as a
// result. It is the primitive the NULLABLE/FIRST/FOLLOW fixed-point loops are
// built on: they repeat until a full pass returns false everywhere.
func (s IDSet) AddAllReturnGrew(o IDSet) bool {
	grew := false
	for id := range o {
		if !s.Has(id) {
			s.Add(id)
			grew = true
		}
	}
	return grew
}

func (s IDSet) Union(o IDSet) IDSet {
	n := s.Copy()
	n.AddAll(o)
	return n
}

func (s IDSet) Intersection(o IDSet) IDSet {
	n := NewIDSet()
	for id := range s {
		if o.Has(id) {
			n.Add(id)
		}
	}
	return n
}

func (s IDSet) Difference(o IDSet) IDSet {
	n := s.Copy()
	for id := range o {
		n.Remove(id)
	}
	return n
}

func (s IDSet) DisjointWith(o IDSet) bool {
	for id := range s {
		if o.Has(id) {
			return false
		}
	}
	return true
}

// Elements returns the ids in s in ascending order. Callers that need a
// deterministic traversal (diagnostics, emission) should always go through
// this rather than ranging over the map directly.
func (s IDSet) Elements() []int {
	elems := make([]int, 0, len(s))
	for id := range s {
		elems = append(elems, id)
	}
	sort.Ints(elems)
	return elems
}

func (s IDSet) Equal(o any) bool {
	other, ok := o.(IDSet)
	if !ok {
		return false
	}
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

func (s IDSet) String() string {
	elems := s.Elements()
	strs := make([]string, len(elems))
	for i, id := range elems {
		strs[i] = fmt.Sprintf("%d", id)
	}
	return "{" + strings.Join(strs, ", ") + "}"
}
