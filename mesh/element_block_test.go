package mesh

import (
	"errors"
	"testing"

	"github.com/notargets/meshdeck/elements"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewElementBlock(t *testing.T) {
	cat := elements.Default()
	{ // Valid block, type is canonicalized
		b, err := NewElementBlock(cat, "c3d4", []int{1, 2}, [][]int{{1, 2, 3, 4}, {2, 3, 4, 5}})
		require.NoError(t, err)
		assert.Equal(t, "C3D4", b.Type)
		assert.Equal(t, 3, b.Dim)
		assert.Equal(t, 4, b.NumNodes)
		assert.Equal(t, 2, b.Len())
		assert.Equal(t, "<ElementBlock: C3D4, dim=3, #nodes_per_cell=4, #elements=2>", b.String())
	}
	{ // Row count differs from id count
		_, err := NewElementBlock(cat, "C3D4", []int{1, 2}, [][]int{{1, 2, 3, 4}})
		assert.True(t, errors.Is(err, ErrShapeMismatch))
	}
	{ // Row width differs from the catalog
		_, err := NewElementBlock(cat, "C3D4", []int{1}, [][]int{{1, 2, 3}})
		assert.True(t, errors.Is(err, ErrShapeMismatch))
	}
	{ // Unknown type
		_, err := NewElementBlock(cat, "NOPE", []int{1}, [][]int{{1}})
		assert.True(t, errors.Is(err, elements.ErrUnknownElementType))
	}
	{ // Empty type and no rows is the empty block
		b, err := NewElementBlock(cat, "", nil, nil)
		require.NoError(t, err)
		assert.True(t, b.IsEmpty())
		assert.Equal(t, 0, b.Dim)
		assert.Equal(t, 0, b.NumNodes)
	}
}

func TestConcat(t *testing.T) {
	cat := elements.Default()
	b1, err := NewElementBlock(cat, "S3", []int{1}, [][]int{{1, 2, 3}})
	require.NoError(t, err)
	b2, err := NewElementBlock(cat, "S3", []int{7, 8}, [][]int{{3, 4, 5}, {5, 6, 7}})
	require.NoError(t, err)
	q, err := NewElementBlock(cat, "S4", []int{9}, [][]int{{1, 2, 3, 4}})
	require.NoError(t, err)

	c, err := Concat(b1, b2)
	require.NoError(t, err)
	assert.Equal(t, "S3", c.Type)
	assert.Equal(t, []int{1, 7, 8}, c.IDs)
	assert.Equal(t, [][]int{{1, 2, 3}, {3, 4, 5}, {5, 6, 7}}, c.Connectivity)

	// Inputs are not aliased by the result
	c.Connectivity[0][0] = 99
	assert.Equal(t, 1, b1.Connectivity[0][0])

	_, err = Concat(b1, q)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	// Empty is the identity
	c, err = Concat(b2, EmptyBlock())
	require.NoError(t, err)
	assert.Equal(t, b2, c)
	c, err = Concat(EmptyBlock(), b2)
	require.NoError(t, err)
	assert.Equal(t, b2, c)

	c, err = Concat()
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "", c.Type)
}

func TestGroupConcat(t *testing.T) {
	cat := elements.Default()
	mk := func(typ string, id int, row ...int) *ElementBlock {
		b, err := NewElementBlock(cat, typ, []int{id}, [][]int{row})
		require.NoError(t, err)
		return b
	}
	blocks := []*ElementBlock{
		mk("S4", 1, 1, 2, 3, 4),
		mk("S3", 2, 1, 2, 3),
		EmptyBlock(),
		mk("S4", 3, 2, 3, 4, 5),
		mk("T3D2", 4, 1, 2),
		mk("S3", 5, 3, 4, 5),
	}
	grouped, err := GroupConcat(blocks)
	require.NoError(t, err)
	require.Len(t, grouped, 3)
	assert.Equal(t, "S4", grouped[0].Type)
	assert.Equal(t, []int{1, 3}, grouped[0].IDs)
	assert.Equal(t, "S3", grouped[1].Type)
	assert.Equal(t, []int{2, 5}, grouped[1].IDs)
	assert.Equal(t, "T3D2", grouped[2].Type)
	assert.Equal(t, []int{4}, grouped[2].IDs)

	grouped, err = GroupConcat(nil)
	require.NoError(t, err)
	assert.Empty(t, grouped)
}
