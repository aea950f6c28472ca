package mesh

import (
	"errors"
	"testing"

	"github.com/notargets/meshdeck/elements"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
)

// twoQuads builds a 6 point mesh with two S4 elements sharing an edge
//
//	4---5---6
//	| 2 | 3 |
//	1---2---3
func twoQuads(t *testing.T) *Mesh {
	t.Helper()
	points := [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
		{0, 1, 0}, {1, 1, 0}, {2, 1, 0.5},
	}
	ids := []int{1, 2, 3, 4, 5, 6}
	b, err := NewElementBlock(elements.Default(), "S4", []int{2, 3}, [][]int{{1, 2, 5, 4}, {2, 3, 6, 5}})
	require.NoError(t, err)
	sets := NewSets()
	sets.NodeSets.Append("Bottom", 1, 2, 3)
	sets.ElementSets.Append("All", 2, 3)
	sets.SurfaceSets.Append("Top", "All", "SPOS")
	m, err := New(nil, points, ids, []*ElementBlock{b}, sets, true)
	require.NoError(t, err)
	return m
}

func TestNewValidMesh(t *testing.T) {
	m := twoQuads(t)
	assert.Equal(t, 6, m.NumPoints())
	assert.Equal(t, 2, m.NumElements())
	assert.Equal(t, map[string]int{"S4": 2}, m.ElementCounts())
	assert.Equal(t, []int{2, 3}, m.ElementIDs())
	assert.Equal(t, "ELEMENT", m.SurfaceType("top"))
	assert.Contains(t, m.String(), "<Mesh with 6 points and 1 cell blocks>")
	assert.Contains(t, m.String(), "# S4 elements: 2")
}

func TestValidateDanglingNodes(t *testing.T) {
	cat := elements.Default()
	b1, err := NewElementBlock(cat, "T3D2", []int{1, 2}, [][]int{{1, 9}, {7, 9}})
	require.NoError(t, err)
	b2, err := NewElementBlock(cat, "T3D2", []int{3}, [][]int{{2, 8}})
	require.NoError(t, err)
	_, err = New(cat, [][3]float64{{0, 0, 0}, {1, 0, 0}}, []int{1, 2}, []*ElementBlock{b1, b2}, NewSets(), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDanglingNode))

	var de *DanglingError
	require.True(t, errors.As(err, &de))
	// Every id once, sorted ascending
	assert.Equal(t, []int{7, 8, 9}, de.IDs)
	assert.Contains(t, err.Error(), "[7, 8, 9]")

	// Validation can be skipped
	m, err := New(cat, [][3]float64{{0, 0, 0}, {1, 0, 0}}, []int{1, 2}, []*ElementBlock{b1, b2}, NewSets(), false)
	require.NoError(t, err)
	assert.Error(t, m.Validate())
}

func TestValidateAggregatesSetErrors(t *testing.T) {
	m := twoQuads(t)
	m.NodeSets.Append("Extra", 40, 1, 30, 40)
	m.ElementSets.Append("Ghosts", 100)
	m.SurfaceSets.Append("Unchecked", "NOWHERE", "S1")
	err := m.Validate()
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.True(t, errors.Is(e, ErrDanglingSetMember))
	}
	var de *DanglingError
	require.True(t, errors.As(errs[0], &de))
	assert.Equal(t, "Extra", de.Set)
	assert.Equal(t, []int{30, 40}, de.IDs)
	require.True(t, errors.As(errs[1], &de))
	assert.Equal(t, "Ghosts", de.Set)
	assert.Equal(t, []int{100}, de.IDs)
}

func TestValidateShape(t *testing.T) {
	m := twoQuads(t)
	m.PointIDs = m.PointIDs[:5]
	err := m.Validate()
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	m = twoQuads(t)
	m.Cells[0].Connectivity[1] = []int{2, 3}
	err = m.Validate()
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestPointPrimitives(t *testing.T) {
	m := twoQuads(t)
	require.NoError(t, m.AppendPoint(10, [3]float64{5, 5, 5}))
	assert.True(t, errors.Is(m.AppendPoint(10, [3]float64{}), ErrDuplicateID))
	assert.Equal(t, len(m.Points), len(m.PointIDs))

	require.NoError(t, m.UpdatePoint(10, [3]float64{6, 6, 6}))
	i, ok := m.PointIndex(10)
	require.True(t, ok)
	assert.Equal(t, [3]float64{6, 6, 6}, m.Points[i])

	require.NoError(t, m.RemovePoint(10))
	assert.True(t, errors.Is(m.RemovePoint(10), ErrNotFound))
	assert.True(t, errors.Is(m.UpdatePoint(10, [3]float64{}), ErrNotFound))
	assert.Equal(t, 6, len(m.Points))
	assert.NoError(t, m.Validate())

	// Removing a referenced point leaves the mesh for the caller to repair
	assert.Equal(t, []int{2, 3}, m.ElementsUsingPoint(5))
	require.NoError(t, m.RemovePoint(5))
	assert.True(t, errors.Is(m.Validate(), ErrDanglingNode))
}

func TestElementPrimitives(t *testing.T) {
	m := twoQuads(t)
	require.NoError(t, m.AppendElement("s4", 4, []int{1, 2, 5, 4}))
	assert.Len(t, m.Cells, 1)
	assert.Equal(t, []int{2, 3, 4}, m.Cells[0].IDs)

	require.NoError(t, m.AppendElement("T3D2", 5, []int{1, 6}))
	require.Len(t, m.Cells, 2)
	assert.Equal(t, "T3D2", m.Cells[1].Type)

	assert.True(t, errors.Is(m.AppendElement("T3D2", 5, []int{1, 2}), ErrDuplicateID))
	assert.True(t, errors.Is(m.AppendElement("T3D2", 6, []int{1}), ErrShapeMismatch))
	assert.True(t, errors.Is(m.AppendElement("BOGUS", 6, []int{1}), elements.ErrUnknownElementType))

	require.NoError(t, m.RemoveElement(5))
	assert.Len(t, m.Cells, 1)
	assert.True(t, errors.Is(m.RemoveElement(5), ErrNotFound))

	require.NoError(t, m.RemoveElement(3))
	bi, ri, ok := m.ElementLocation(4)
	require.True(t, ok)
	assert.Equal(t, 0, bi)
	assert.Equal(t, 1, ri)
	for _, b := range m.Cells {
		assert.Equal(t, len(b.IDs), len(b.Connectivity))
	}

	// Set "All" still lists element 3 until the caller removes it
	assert.True(t, errors.Is(m.Validate(), ErrDanglingSetMember))
	assert.Equal(t, 1, m.RemoveElementSetMembers("all", 3))
	assert.NoError(t, m.Validate())
}

func TestSetPrimitives(t *testing.T) {
	m := &Mesh{}
	m.AddNodeSetMembers("n", 1, 2)
	m.AddElementSetMembers("e", 3)
	m.AddSurface("S", "NODE", "n", "1")
	m.AddSurface("s", "ELEMENT", "e", "S2")
	ids, ok := m.NodeSets.Get("N")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, ids)
	assert.Equal(t, 1, m.RemoveNodeSetMembers("n", 2))
	tokens, _ := m.SurfaceSets.Get("S")
	assert.Equal(t, []string{"n", "1", "e", "S2"}, tokens)
	assert.Equal(t, "NODE", m.SurfaceType("S"))
}

func TestCoordinatesAndBounds(t *testing.T) {
	m := twoQuads(t)
	X := m.Coordinates()
	r, c := X.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 0.5, X.At(5, 2))
	assert.True(t, mat.Equal(X.RowView(1), mat.NewVecDense(3, []float64{1, 0, 0})))

	lo, hi := m.Bounds()
	assert.Equal(t, [3]float64{0, 0, 0}, lo)
	assert.Equal(t, [3]float64{2, 1, 0.5}, hi)

	empty := &Mesh{}
	assert.Nil(t, empty.Coordinates())
	lo, hi = empty.Bounds()
	assert.Equal(t, [3]float64{}, lo)
	assert.Equal(t, [3]float64{}, hi)
}

func TestIncidence(t *testing.T) {
	m := twoQuads(t)
	require.NoError(t, m.AppendPoint(99, [3]float64{9, 9, 9}))
	EToP := m.NodeIncidence()
	require.NotNil(t, EToP)
	r, c := EToP.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 7, c)
	assert.Equal(t, 1., EToP.At(0, 0))
	assert.Equal(t, 0., EToP.At(0, 2))
	assert.Equal(t, []int{1, 2, 1, 1, 2, 1, 0}, m.NodeValence())
	assert.Equal(t, []int{99}, m.OrphanPoints())

	empty := &Mesh{}
	assert.Nil(t, empty.NodeIncidence())
	assert.Empty(t, empty.OrphanPoints())
}

func TestCopy(t *testing.T) {
	m := twoQuads(t)
	c := m.Copy()
	c.Points[0][0] = 42
	c.Cells[0].Connectivity[0][0] = 42
	c.NodeSets.Append("Bottom", 4)
	assert.Equal(t, 0., m.Points[0][0])
	assert.Equal(t, 1, m.Cells[0].Connectivity[0][0])
	ids, _ := m.NodeSets.Get("Bottom")
	assert.Equal(t, []int{1, 2, 3}, ids)
}
