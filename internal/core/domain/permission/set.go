package permission

import "maps"

// Set is an unordered collection of permissions.
type Set map[Permission]struct{}

// NewSet builds a set from the given permissions.
func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// HasAny is false for an empty argument list.
func (s Set) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// HasAll is true for an empty argument list.
func (s Set) HasAll(perms ...Permission) bool {
	for _, p := range perms {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// Intersect returns a new set holding the permissions present in both sets.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for p := range s {
		if other.Has(p) {
			out[p] = struct{}{}
		}
	}
	return out
}

// Union returns a new set holding the permissions of both sets.
func (s Set) Union(other Set) Set {
	out := maps.Clone(s)
	if out == nil {
		out = make(Set)
	}
	for p := range other {
		out[p] = struct{}{}
	}
	return out
}

func (s Set) IsSubsetOf(other Set) bool {
	for p := range s {
		if !other.Has(p) {
			return false
		}
	}
	return true
}

func (s Set) Clone() Set {
	if s == nil {
		return make(Set)
	}
	return maps.Clone(s)
}

// Sorted lists the set in declaration order so responses are stable.
func (s Set) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for _, p := range GetAllPermissions() {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}
