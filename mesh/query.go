package mesh

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Coordinates returns the point coordinates as an [npoints x 3] matrix, nil
// for a mesh without points
func (m *Mesh) Coordinates() *mat.Dense {
	if len(m.Points) == 0 {
		return nil
	}
	data := make([]float64, 0, 3*len(m.Points))
	for _, p := range m.Points {
		data = append(data, p[0], p[1], p[2])
	}
	return mat.NewDense(len(m.Points), 3, data)
}

// Bounds returns the axis aligned bounding box of the points
func (m *Mesh) Bounds() (lo, hi [3]float64) {
	X := m.Coordinates()
	if X == nil {
		return
	}
	col := make([]float64, len(m.Points))
	for j := 0; j < 3; j++ {
		mat.Col(col, j, X)
		lo[j], hi[j] = floats.Min(col), floats.Max(col)
	}
	return
}

// NodeIncidence returns the element to point incidence matrix, one row per
// element in block order and one column per point in PointIDs order. Node ids
// that do not resolve to a point are ignored. Returns nil for a mesh without
// points or elements.
func (m *Mesh) NodeIncidence() *sparse.CSR {
	var (
		nElem = m.NumElements()
		nPts  = len(m.PointIDs)
	)
	if nElem == 0 || nPts == 0 {
		return nil
	}
	column := make(map[int]int, nPts)
	for i, id := range m.PointIDs {
		column[id] = i
	}
	EToP := sparse.NewDOK(nElem, nPts)
	var row int
	for _, b := range m.Cells {
		for _, nodes := range b.Connectivity {
			for _, node := range nodes {
				if j, ok := column[node]; ok {
					EToP.Set(row, j, 1)
				}
			}
			row++
		}
	}
	return EToP.ToCSR()
}

// NodeValence returns, per point in PointIDs order, the number of elements
// using it
func (m *Mesh) NodeValence() (valence []int) {
	valence = make([]int, len(m.PointIDs))
	EToP := m.NodeIncidence()
	if EToP == nil {
		return
	}
	raw := EToP.RawMatrix()
	for _, j := range raw.Ind {
		valence[j]++
	}
	return
}

// OrphanPoints returns the ids of points no element references
func (m *Mesh) OrphanPoints() (ids []int) {
	for i, v := range m.NodeValence() {
		if v == 0 {
			ids = append(ids, m.PointIDs[i])
		}
	}
	return
}
