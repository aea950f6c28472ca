package mesh

import "strings"

// NamedSets is an insertion ordered collection of named member lists. Names
// are matched case-insensitively; the first spelling seen is kept. Appending
// to an existing name extends its list, duplicates included. The zero value
// is ready to use.
type NamedSets[T comparable] struct {
	names   []string
	members [][]T
	index   map[string]int
}

func NewNamedSets[T comparable]() *NamedSets[T] {
	return &NamedSets[T]{index: make(map[string]int)}
}

func setKey(name string) string { return strings.ToUpper(strings.TrimSpace(name)) }

// Append adds members to the named set, creating it if needed
func (s *NamedSets[T]) Append(name string, members ...T) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	key := setKey(name)
	i, ok := s.index[key]
	if !ok {
		i = len(s.names)
		s.index[key] = i
		s.names = append(s.names, strings.TrimSpace(name))
		s.members = append(s.members, nil)
	}
	s.members[i] = append(s.members[i], members...)
}

// Get returns the members of a set. The returned slice is owned by the
// collection.
func (s *NamedSets[T]) Get(name string) ([]T, bool) {
	if s == nil || s.index == nil {
		return nil, false
	}
	i, ok := s.index[setKey(name)]
	if !ok {
		return nil, false
	}
	return s.members[i], true
}

func (s *NamedSets[T]) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Names returns the set names in insertion order
func (s *NamedSets[T]) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

func (s *NamedSets[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Each visits the sets in insertion order
func (s *NamedSets[T]) Each(fn func(name string, members []T)) {
	if s == nil {
		return
	}
	for i, name := range s.names {
		fn(name, s.members[i])
	}
}

// Delete drops a set, reporting whether it existed
func (s *NamedSets[T]) Delete(name string) bool {
	if s == nil || s.index == nil {
		return false
	}
	key := setKey(name)
	i, ok := s.index[key]
	if !ok {
		return false
	}
	s.names = append(s.names[:i], s.names[i+1:]...)
	s.members = append(s.members[:i], s.members[i+1:]...)
	delete(s.index, key)
	for k, j := range s.index {
		if j > i {
			s.index[k] = j - 1
		}
	}
	return true
}

// Remove deletes every occurrence of the given members from a set and
// returns how many entries were removed. The set itself is kept, even empty.
func (s *NamedSets[T]) Remove(name string, members ...T) (removed int) {
	if s == nil || s.index == nil {
		return
	}
	i, ok := s.index[setKey(name)]
	if !ok {
		return
	}
	drop := make(map[T]struct{}, len(members))
	for _, m := range members {
		drop[m] = struct{}{}
	}
	kept := s.members[i][:0]
	for _, m := range s.members[i] {
		if _, ok := drop[m]; ok {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	s.members[i] = kept
	return
}

// RemoveAll deletes the members from every set
func (s *NamedSets[T]) RemoveAll(members ...T) (removed int) {
	for _, name := range s.Names() {
		removed += s.Remove(name, members...)
	}
	return
}

// Merge unions other into s by name, preserving the order of other
func (s *NamedSets[T]) Merge(other *NamedSets[T]) {
	other.Each(func(name string, members []T) {
		s.Append(name, members...)
	})
}

// Copy returns a deep copy
func (s *NamedSets[T]) Copy() *NamedSets[T] {
	c := NewNamedSets[T]()
	c.Merge(s)
	return c
}
