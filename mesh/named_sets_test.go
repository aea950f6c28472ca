package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedSets(t *testing.T) {
	var s NamedSets[int] // zero value is usable
	s.Append("Alpha", 1, 2)
	s.Append("beta", 5)
	s.Append("ALPHA", 2, 3) // same set, duplicates kept
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"Alpha", "beta"}, s.Names())

	ids, ok := s.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 2, 3}, ids)

	assert.Equal(t, 2, s.Remove("Alpha", 2))
	ids, _ = s.Get("Alpha")
	assert.Equal(t, []int{1, 3}, ids)

	assert.True(t, s.Delete("ALPHA"))
	assert.False(t, s.Delete("ALPHA"))
	assert.False(t, s.Has("Alpha"))
	assert.Equal(t, []string{"beta"}, s.Names())
	ids, ok = s.Get("BETA")
	require.True(t, ok)
	assert.Equal(t, []int{5}, ids)

	// Names stay addressable after a delete reindexes
	s.Append("gamma", 7)
	s.Append("Beta", 6)
	ids, _ = s.Get("beta")
	assert.Equal(t, []int{5, 6}, ids)
	assert.Equal(t, 1, s.RemoveAll(7))
}

func TestNamedSetsMergeAndCopy(t *testing.T) {
	a := NewNamedSets[string]()
	a.Append("S1", "x")
	b := NewNamedSets[string]()
	b.Append("s2", "y")
	b.Append("s1", "z")
	a.Merge(b)
	assert.Equal(t, []string{"S1", "s2"}, a.Names())
	v, _ := a.Get("S1")
	assert.Equal(t, []string{"x", "z"}, v)

	c := a.Copy()
	c.Append("S1", "w")
	v, _ = a.Get("S1")
	assert.Equal(t, []string{"x", "z"}, v)

	var nilSets *NamedSets[int]
	assert.Equal(t, 0, nilSets.Len())
	assert.False(t, nilSets.Has("any"))
	a.Merge(nil)
	assert.Equal(t, 2, a.Len())
}
