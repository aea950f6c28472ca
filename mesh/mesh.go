package mesh

import (
	"fmt"
	"strings"

	"github.com/notargets/meshdeck/elements"
)

// Sets groups the three named set collections of a mesh
type Sets struct {
	NodeSets     *NamedSets[int]    // node ids
	ElementSets  *NamedSets[int]    // element ids
	SurfaceSets  *NamedSets[string] // set name / face label tokens
	SurfaceTypes map[string]string  // upper case surface name -> TYPE option
}

func NewSets() Sets {
	return Sets{
		NodeSets:     NewNamedSets[int](),
		ElementSets:  NewNamedSets[int](),
		SurfaceSets:  NewNamedSets[string](),
		SurfaceTypes: make(map[string]string),
	}
}

func (s *Sets) init() {
	if s.NodeSets == nil {
		s.NodeSets = NewNamedSets[int]()
	}
	if s.ElementSets == nil {
		s.ElementSets = NewNamedSets[int]()
	}
	if s.SurfaceSets == nil {
		s.SurfaceSets = NewNamedSets[string]()
	}
	if s.SurfaceTypes == nil {
		s.SurfaceTypes = make(map[string]string)
	}
}

// Merge unions every collection of other into s by set name
func (s *Sets) Merge(other Sets) {
	s.init()
	s.NodeSets.Merge(other.NodeSets)
	s.ElementSets.Merge(other.ElementSets)
	s.SurfaceSets.Merge(other.SurfaceSets)
	for name, typ := range other.SurfaceTypes {
		if _, ok := s.SurfaceTypes[name]; !ok {
			s.SurfaceTypes[name] = typ
		}
	}
}

// AddSurface appends tokens to a surface, recording its type the first time
// the surface is seen
func (s *Sets) AddSurface(name, typ string, tokens ...string) {
	s.init()
	s.SurfaceSets.Append(name, tokens...)
	if _, ok := s.SurfaceTypes[setKey(name)]; !ok && len(typ) != 0 {
		s.SurfaceTypes[setKey(name)] = typ
	}
}

// SurfaceType returns the declared TYPE of a surface, ELEMENT by default
func (s *Sets) SurfaceType(name string) string {
	if typ, ok := s.SurfaceTypes[setKey(name)]; ok && len(typ) != 0 {
		return typ
	}
	return "ELEMENT"
}

// Mesh holds points, element blocks and named sets
type Mesh struct {
	Points   [][3]float64    // coordinates, parallel to PointIDs
	PointIDs []int           // external point ids in insertion order
	Cells    []*ElementBlock // blocks in declaration order
	Sets
	Catalog *elements.Catalog
}

// New assembles a mesh and, if validate is set, checks referential integrity.
// A nil catalog selects elements.Default().
func New(cat *elements.Catalog, points [][3]float64, pointIDs []int, cells []*ElementBlock,
	sets Sets, validate bool) (m *Mesh, err error) {
	if cat == nil {
		cat = elements.Default()
	}
	sets.init()
	m = &Mesh{
		Points:   points,
		PointIDs: pointIDs,
		Cells:    cells,
		Sets:     sets,
		Catalog:  cat,
	}
	if validate {
		if err = m.Validate(); err != nil {
			return nil, err
		}
	}
	return
}

func (m *Mesh) NumPoints() int { return len(m.PointIDs) }

func (m *Mesh) NumElements() (n int) {
	for _, b := range m.Cells {
		n += b.Len()
	}
	return
}

// ElementCounts returns the number of elements per element type
func (m *Mesh) ElementCounts() map[string]int {
	counts := make(map[string]int)
	for _, b := range m.Cells {
		if b.IsEmpty() {
			continue
		}
		counts[b.Type] += b.Len()
	}
	return counts
}

// ElementIDs returns every element id in block order
func (m *Mesh) ElementIDs() (ids []int) {
	ids = make([]int, 0, m.NumElements())
	for _, b := range m.Cells {
		ids = append(ids, b.IDs...)
	}
	return
}

func (m *Mesh) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<Mesh with %d points and %d cell blocks>\n", len(m.Points), len(m.Cells))
	sb.WriteString("  Cell blocks:\n")
	for _, b := range m.Cells {
		fmt.Fprintf(&sb, "    - # %s elements: %d\n", b.Type, b.Len())
	}
	fmt.Fprintf(&sb, "  # Points: %d\n", len(m.PointIDs))
	fmt.Fprintf(&sb, "  # Node Sets: %d\n", m.NodeSets.Len())
	fmt.Fprintf(&sb, "  # Element Sets: %d\n", m.ElementSets.Len())
	fmt.Fprintf(&sb, "  # Surface Sets: %d", m.SurfaceSets.Len())
	return sb.String()
}

// Copy returns a deep copy sharing only the catalog
func (m *Mesh) Copy() *Mesh {
	c := &Mesh{
		Points:   make([][3]float64, len(m.Points)),
		PointIDs: make([]int, len(m.PointIDs)),
		Cells:    make([]*ElementBlock, len(m.Cells)),
		Sets: Sets{
			NodeSets:     m.NodeSets.Copy(),
			ElementSets:  m.ElementSets.Copy(),
			SurfaceSets:  m.SurfaceSets.Copy(),
			SurfaceTypes: make(map[string]string, len(m.SurfaceTypes)),
		},
		Catalog: m.Catalog,
	}
	copy(c.Points, m.Points)
	copy(c.PointIDs, m.PointIDs)
	for i, b := range m.Cells {
		c.Cells[i] = b.Copy()
	}
	for k, v := range m.SurfaceTypes {
		c.SurfaceTypes[k] = v
	}
	return c
}
