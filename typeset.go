package gamebridge

import "sort"

// TypeSet is a read-only snapshot of event types.
type TypeSet struct {
	m map[Type]struct{}
}

func newTypeSet(src map[Type]struct{}) TypeSet {
	m := make(map[Type]struct{}, len(src))
	for t := range src {
		m[t] = struct{}{}
	}
	return TypeSet{m: m}
}

// Has reports whether t is in the set.
func (s TypeSet) Has(t Type) bool {
	_, ok := s.m[t]
	return ok
}

// Len returns the number of types in the set.
func (s TypeSet) Len() int { return len(s.m) }

// Types returns the members in ascending order.
func (s TypeSet) Types() []Type {
	types := make([]Type, 0, len(s.m))
	for t := range s.m {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
