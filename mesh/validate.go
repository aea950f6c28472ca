package mesh

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks structural shape and referential integrity. Every failure
// is collected; use multierr.Errors to enumerate them. Surface sets are not
// cross-checked.
func (m *Mesh) Validate() (err error) {
	if len(m.PointIDs) != len(m.Points) {
		err = multierr.Append(err, fmt.Errorf("%w: point ids has length %d, but there are %d points",
			ErrShapeMismatch, len(m.PointIDs), len(m.Points)))
	}
	declared := make(map[int]struct{}, len(m.PointIDs))
	for _, id := range m.PointIDs {
		declared[id] = struct{}{}
	}

	var (
		missing    []int
		elementIDs = make(map[int]struct{})
	)
	for i, b := range m.Cells {
		if b == nil {
			err = multierr.Append(err, fmt.Errorf("%w: cell block %d is nil", ErrShapeMismatch, i))
			continue
		}
		if len(b.Connectivity) != len(b.IDs) {
			err = multierr.Append(err, fmt.Errorf("%w: block %d (%s) has %d ids but %d connectivity rows",
				ErrShapeMismatch, i, b.Type, len(b.IDs), len(b.Connectivity)))
		}
		if len(b.Type) != 0 && m.Catalog != nil {
			info, lerr := m.Catalog.Lookup(b.Type)
			if lerr != nil {
				err = multierr.Append(err, lerr)
			} else if info.Nodes != b.NumNodes || info.Dim != b.Dim {
				err = multierr.Append(err, fmt.Errorf("%w: block %d (%s) declares %d nodes in dim %d, catalog has %d in dim %d",
					ErrShapeMismatch, i, b.Type, b.NumNodes, b.Dim, info.Nodes, info.Dim))
			}
		}
		for j, row := range b.Connectivity {
			if len(row) != b.NumNodes {
				id := j
				if j < len(b.IDs) {
					id = b.IDs[j]
				}
				err = multierr.Append(err, fmt.Errorf("%w: element %d of type %s has %d nodes, expected %d",
					ErrShapeMismatch, id, b.Type, len(row), b.NumNodes))
			}
			for _, node := range row {
				if _, ok := declared[node]; !ok {
					missing = append(missing, node)
				}
			}
		}
		for _, id := range b.IDs {
			elementIDs[id] = struct{}{}
		}
	}
	if len(missing) != 0 {
		err = multierr.Append(err, NewDanglingError(ErrDanglingNode, "", missing))
	}

	m.NodeSets.Each(func(name string, members []int) {
		if undeclared := notIn(members, declared); len(undeclared) != 0 {
			err = multierr.Append(err, NewDanglingError(ErrDanglingSetMember, name, undeclared))
		}
	})
	m.ElementSets.Each(func(name string, members []int) {
		if undeclared := notIn(members, elementIDs); len(undeclared) != 0 {
			err = multierr.Append(err, NewDanglingError(ErrDanglingSetMember, name, undeclared))
		}
	})
	return
}

func notIn(ids []int, declared map[int]struct{}) (out []int) {
	for _, id := range ids {
		if _, ok := declared[id]; !ok {
			out = append(out, id)
		}
	}
	return
}
