// Package hierarchy implements the data-to-tree pipeline: the parent/child
// index over the full row set, the cascading filter pipeline, the
// collapse-aware visibility walk, and single-rooted tree construction.
//
// Every stage is a pure function of its inputs; the only cached piece is
// the ChildrenIndex, which survives filter and collapse changes and is
// rebuilt only when the full row set itself changes.
package hierarchy

import (
	"github.com/vanderheijden86/arborview/pkg/model"
)

// ChildrenIndex maps node ids to their ordered direct children, derived
// from the full (unfiltered) row set. Child order follows original row
// order so downstream layout stays deterministic.
type ChildrenIndex struct {
	children map[string][]string
	byID     map[string]*model.Row
	order    map[string]int
	rows     []model.Row
}

// BuildIndex constructs the children index in a single pass.
// Rows with blank ids are kept in the row list but never become parents;
// duplicate ids are tolerated here and rejected later by Construct.
func BuildIndex(rows []model.Row) *ChildrenIndex {
	idx := &ChildrenIndex{
		children: make(map[string][]string, len(rows)),
		byID:     make(map[string]*model.Row, len(rows)),
		order:    make(map[string]int, len(rows)),
		rows:     rows,
	}
	for i := range rows {
		r := &rows[i]
		if r.ID == "" {
			continue
		}
		if _, seen := idx.byID[r.ID]; !seen {
			idx.byID[r.ID] = r
			idx.order[r.ID] = i
		}
	}
	for i := range rows {
		r := &rows[i]
		if r.ID == "" || r.ParentID == "" {
			continue
		}
		if _, ok := idx.byID[r.ParentID]; ok {
			idx.children[r.ParentID] = append(idx.children[r.ParentID], r.ID)
		}
	}
	return idx
}

// Children returns the ordered direct child ids of a node.
func (idx *ChildrenIndex) Children(id string) []string {
	return idx.children[id]
}

// Row returns the row for an id, or nil.
func (idx *ChildrenIndex) Row(id string) *model.Row {
	return idx.byID[id]
}

// Has reports whether an id exists in the indexed row set.
func (idx *ChildrenIndex) Has(id string) bool {
	_, ok := idx.byID[id]
	return ok
}

// Rows returns the full row set backing the index.
func (idx *ChildrenIndex) Rows() []model.Row { return idx.rows }

// Len returns the number of indexed rows.
func (idx *ChildrenIndex) Len() int { return len(idx.rows) }

// Descendants appends every id reachable below start (start excluded) to
// dst and returns it. Traversal is depth-first over the ordered child
// lists. A visited set guards against malformed cyclic input so a walk
// always terminates; cycles are rejected for real later by Construct.
func (idx *ChildrenIndex) Descendants(start string, dst []string) []string {
	visited := map[string]bool{start: true}
	stack := append([]string(nil), idx.children[start]...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		dst = append(dst, id)
		kids := idx.children[id]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return dst
}

// Ancestors appends the parent chain of id (id excluded) to dst, walking
// ParentID links until a blank or unindexed parent.
func (idx *ChildrenIndex) Ancestors(id string, dst []string) []string {
	seen := map[string]bool{id: true}
	cur := idx.byID[id]
	for cur != nil && cur.ParentID != "" {
		parent := idx.byID[cur.ParentID]
		if parent == nil || seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		dst = append(dst, parent.ID)
		cur = parent
	}
	return dst
}
