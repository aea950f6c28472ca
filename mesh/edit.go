package mesh

import (
	"fmt"

	"github.com/notargets/meshdeck/elements"
)

// The primitives below keep Points/PointIDs and each block's IDs/Connectivity
// row-consistent. They do not re-validate references; call Validate when the
// mesh must be confirmed consistent again.

// PointIndex returns the position of a point id
func (m *Mesh) PointIndex(id int) (int, bool) {
	for i, pid := range m.PointIDs {
		if pid == id {
			return i, true
		}
	}
	return -1, false
}

// ElementLocation returns the block and row holding an element id
func (m *Mesh) ElementLocation(id int) (block, row int, ok bool) {
	for bi, b := range m.Cells {
		for ri, eid := range b.IDs {
			if eid == id {
				return bi, ri, true
			}
		}
	}
	return -1, -1, false
}

func (m *Mesh) AppendPoint(id int, xyz [3]float64) error {
	if _, exists := m.PointIndex(id); exists {
		return fmt.Errorf("%w: point %d", ErrDuplicateID, id)
	}
	m.Points = append(m.Points, xyz)
	m.PointIDs = append(m.PointIDs, id)
	return nil
}

func (m *Mesh) UpdatePoint(id int, xyz [3]float64) error {
	i, ok := m.PointIndex(id)
	if !ok {
		return fmt.Errorf("%w: point %d", ErrNotFound, id)
	}
	m.Points[i] = xyz
	return nil
}

// RemovePoint drops a point. Elements and sets that reference it are left
// untouched.
func (m *Mesh) RemovePoint(id int) error {
	i, ok := m.PointIndex(id)
	if !ok {
		return fmt.Errorf("%w: point %d", ErrNotFound, id)
	}
	m.Points = append(m.Points[:i], m.Points[i+1:]...)
	m.PointIDs = append(m.PointIDs[:i], m.PointIDs[i+1:]...)
	return nil
}

// AppendElement adds an element to the last block of its type, opening a new
// block at the end of Cells when none exists
func (m *Mesh) AppendElement(typ string, id int, nodes []int) error {
	if m.Catalog == nil {
		m.Catalog = elements.Default()
	}
	info, err := m.Catalog.Lookup(typ)
	if err != nil {
		return err
	}
	if len(nodes) != info.Nodes {
		return fmt.Errorf("%w: element %d of type %s has %d nodes, expected %d",
			ErrShapeMismatch, id, elements.Canonical(typ), len(nodes), info.Nodes)
	}
	if _, _, exists := m.ElementLocation(id); exists {
		return fmt.Errorf("%w: element %d", ErrDuplicateID, id)
	}
	row := append([]int(nil), nodes...)
	key := elements.Canonical(typ)
	for i := len(m.Cells) - 1; i >= 0; i-- {
		if b := m.Cells[i]; b.Type == key {
			b.IDs = append(b.IDs, id)
			b.Connectivity = append(b.Connectivity, row)
			return nil
		}
	}
	b, err := NewElementBlock(m.Catalog, key, []int{id}, [][]int{row})
	if err != nil {
		return err
	}
	m.Cells = append(m.Cells, b)
	return nil
}

// RemoveElement drops an element, discarding its block if it becomes empty
func (m *Mesh) RemoveElement(id int) error {
	bi, ri, ok := m.ElementLocation(id)
	if !ok {
		return fmt.Errorf("%w: element %d", ErrNotFound, id)
	}
	b := m.Cells[bi]
	b.IDs = append(b.IDs[:ri], b.IDs[ri+1:]...)
	b.Connectivity = append(b.Connectivity[:ri], b.Connectivity[ri+1:]...)
	if b.IsEmpty() {
		m.Cells = append(m.Cells[:bi], m.Cells[bi+1:]...)
	}
	return nil
}

// ElementsUsingPoint returns the ids of elements whose connectivity lists the
// point id
func (m *Mesh) ElementsUsingPoint(id int) (ids []int) {
	for _, b := range m.Cells {
		for ri, row := range b.Connectivity {
			for _, node := range row {
				if node == id {
					ids = append(ids, b.IDs[ri])
					break
				}
			}
		}
	}
	return
}

func (m *Mesh) AddNodeSetMembers(name string, ids ...int) {
	m.Sets.init()
	m.NodeSets.Append(name, ids...)
}

func (m *Mesh) RemoveNodeSetMembers(name string, ids ...int) int {
	return m.NodeSets.Remove(name, ids...)
}

func (m *Mesh) AddElementSetMembers(name string, ids ...int) {
	m.Sets.init()
	m.ElementSets.Append(name, ids...)
}

func (m *Mesh) RemoveElementSetMembers(name string, ids ...int) int {
	return m.ElementSets.Remove(name, ids...)
}

