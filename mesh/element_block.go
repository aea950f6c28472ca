package mesh

import (
	"fmt"

	"github.com/notargets/meshdeck/elements"
)

// ElementBlock is a homogeneous batch of elements of one type
type ElementBlock struct {
	Type         string  // canonical catalog name, empty for the empty block
	Dim          int     // geometric dimension from the catalog
	NumNodes     int     // node ids per connectivity row
	IDs          []int   // element ids, one per row
	Connectivity [][]int // [len(IDs)][NumNodes] node ids
}

// NewElementBlock checks the block shape against the catalog. An empty type
// with no rows gives the empty block.
func NewElementBlock(cat *elements.Catalog, typ string, ids []int, conn [][]int) (*ElementBlock, error) {
	b := &ElementBlock{
		Type:         elements.Canonical(typ),
		IDs:          ids,
		Connectivity: conn,
	}
	if len(conn) != len(ids) {
		return nil, fmt.Errorf("%w: %d element ids but %d connectivity rows", ErrShapeMismatch, len(ids), len(conn))
	}
	if len(b.Type) == 0 {
		if len(ids) != 0 {
			return nil, fmt.Errorf("%w: untyped block with %d elements", ErrShapeMismatch, len(ids))
		}
		return b, nil
	}
	info, err := cat.Lookup(b.Type)
	if err != nil {
		return nil, err
	}
	b.Dim, b.NumNodes = info.Dim, info.Nodes
	for i, row := range conn {
		if len(row) != b.NumNodes {
			return nil, fmt.Errorf("%w: element %d of type %s has %d nodes, expected %d",
				ErrShapeMismatch, ids[i], b.Type, len(row), b.NumNodes)
		}
	}
	return b, nil
}

// EmptyBlock is the identity for Concat
func EmptyBlock() *ElementBlock {
	return &ElementBlock{IDs: []int{}, Connectivity: [][]int{}}
}

func (b *ElementBlock) Len() int { return len(b.IDs) }

func (b *ElementBlock) IsEmpty() bool { return len(b.IDs) == 0 }

func (b *ElementBlock) String() string {
	return fmt.Sprintf("<ElementBlock: %s, dim=%d, #nodes_per_cell=%d, #elements=%d>",
		b.Type, b.Dim, b.NumNodes, b.Len())
}

// Copy returns a deep copy of the block
func (b *ElementBlock) Copy() *ElementBlock {
	c := &ElementBlock{
		Type:         b.Type,
		Dim:          b.Dim,
		NumNodes:     b.NumNodes,
		IDs:          make([]int, len(b.IDs)),
		Connectivity: make([][]int, len(b.Connectivity)),
	}
	copy(c.IDs, b.IDs)
	for i, row := range b.Connectivity {
		c.Connectivity[i] = append([]int(nil), row...)
	}
	return c
}

// Concat appends blocks row-wise in input order. Empty blocks are skipped;
// the rest must share type and dimension.
func Concat(blocks ...*ElementBlock) (*ElementBlock, error) {
	var (
		out   *ElementBlock
		first *ElementBlock
		nRows int
	)
	for _, b := range blocks {
		if b == nil || b.IsEmpty() {
			continue
		}
		if first == nil {
			first = b
		} else if b.Type != first.Type || b.Dim != first.Dim {
			return nil, fmt.Errorf("%w: cannot concatenate %s (dim %d) with %s (dim %d)",
				ErrTypeMismatch, first.Type, first.Dim, b.Type, b.Dim)
		}
		nRows += b.Len()
	}
	if first == nil {
		return EmptyBlock(), nil
	}
	out = &ElementBlock{
		Type:         first.Type,
		Dim:          first.Dim,
		NumNodes:     first.NumNodes,
		IDs:          make([]int, 0, nRows),
		Connectivity: make([][]int, 0, nRows),
	}
	for _, b := range blocks {
		if b == nil || b.IsEmpty() {
			continue
		}
		out.IDs = append(out.IDs, b.IDs...)
		for _, row := range b.Connectivity {
			out.Connectivity = append(out.Connectivity, append([]int(nil), row...))
		}
	}
	return out, nil
}

// GroupConcat returns one block per distinct element type, types ordered by
// first appearance. Empty blocks are dropped.
func GroupConcat(blocks []*ElementBlock) (grouped []*ElementBlock, err error) {
	var (
		order  []string
		groups = make(map[string][]*ElementBlock)
	)
	for _, b := range blocks {
		if b == nil || b.IsEmpty() {
			continue
		}
		if _, seen := groups[b.Type]; !seen {
			order = append(order, b.Type)
		}
		groups[b.Type] = append(groups[b.Type], b)
	}
	grouped = make([]*ElementBlock, 0, len(order))
	for _, typ := range order {
		var cat *ElementBlock
		if cat, err = Concat(groups[typ]...); err != nil {
			return nil, err
		}
		grouped = append(grouped, cat)
	}
	return
}
