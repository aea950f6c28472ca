package mesh

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrTypeMismatch      = errors.New("element type mismatch")
	ErrDanglingReference = errors.New("dangling node reference")
	ErrDanglingNode      = errors.New("dangling node")
	ErrDanglingSetMember = errors.New("dangling set member")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrNotFound          = errors.New("not found")
)

// DanglingError reports ids that are referenced but never declared. Kind is
// one of ErrDanglingReference, ErrDanglingNode or ErrDanglingSetMember.
type DanglingError struct {
	Kind    error
	Set     string // set name, empty for connectivity checks
	Element int    // referencing element, only for ErrDanglingReference
	IDs     []int  // sorted ascending, unique
}

// NewDanglingError sorts and de-duplicates ids
func NewDanglingError(kind error, set string, ids []int) *DanglingError {
	return &DanglingError{Kind: kind, Set: set, IDs: sortedUnique(ids)}
}

func (e *DanglingError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = fmt.Sprint(id)
	}
	list := "[" + strings.Join(ids, ", ") + "]"
	switch {
	case errors.Is(e.Kind, ErrDanglingReference):
		return fmt.Sprintf("%v: element %d references undefined node ids %s", e.Kind, e.Element, list)
	case len(e.Set) != 0:
		return fmt.Sprintf("%v: set %q has ids not declared: %s", e.Kind, e.Set, list)
	default:
		return fmt.Sprintf("%v: node ids in element connectivity do not exist in point ids: %s", e.Kind, list)
	}
}

func (e *DanglingError) Unwrap() error { return e.Kind }

func sortedUnique(ids []int) (out []int) {
	out = make([]int, len(ids))
	copy(out, ids)
	sort.Ints(out)
	if len(out) == 0 {
		return
	}
	j := 0
	for i := 1; i < len(out); i++ {
		if out[i] != out[j] {
			j++
			out[j] = out[i]
		}
	}
	return out[:j+1]
}
