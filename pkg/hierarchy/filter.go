package hierarchy

import (
	"strings"

	"github.com/vanderheijden86/arborview/pkg/model"
)

// FilterState holds the four orthogonal filter predicates. Empty string
// means inactive. Filters compose by intersection: each stage operates on
// the previous stage's survivors, in the fixed order hierarchy -> parent
// -> dropdown -> search.
type FilterState struct {
	SearchQuery     string
	HierarchyFilter string // pinned node id
	ParentFilter    string // pinned parent id
	DropdownFilter  string // pinned tag value
}

// Active reports whether any filter or search is currently set.
func (f FilterState) Active() bool {
	return f.SearchQuery != "" || f.HierarchyFilter != "" ||
		f.ParentFilter != "" || f.DropdownFilter != ""
}

// ApplyFilters runs the filter pipeline over the full row set and returns
// the surviving rows in original order. Every stage expands its direct
// match set to closure (ancestors plus descendants), so a non-empty result
// is always a connected sub-hierarchy.
func ApplyFilters(rows []model.Row, f FilterState) []model.Row {
	out := rows
	if f.HierarchyFilter != "" {
		out = filterHierarchy(out, f.HierarchyFilter)
	}
	if f.ParentFilter != "" {
		out = filterParent(out, f.ParentFilter)
	}
	if f.DropdownFilter != "" {
		out = filterDropdown(out, f.DropdownFilter)
	}
	if f.SearchQuery != "" {
		out = filterSearch(out, f.SearchQuery)
	}
	return out
}

// stageSet is the ancestor/descendant walker for one pipeline stage. It is
// rebuilt per stage because each stage's closure is computed over that
// stage's surviving rows, not the original set.
type stageSet struct {
	byID     map[string]*model.Row
	children map[string][]string
}

func newStageSet(rows []model.Row) *stageSet {
	s := &stageSet{
		byID:     make(map[string]*model.Row, len(rows)),
		children: make(map[string][]string, len(rows)),
	}
	for i := range rows {
		if rows[i].ID == "" {
			continue
		}
		if _, seen := s.byID[rows[i].ID]; !seen {
			s.byID[rows[i].ID] = &rows[i]
		}
	}
	for i := range rows {
		r := &rows[i]
		if r.ID == "" || r.ParentID == "" {
			continue
		}
		if _, ok := s.byID[r.ParentID]; ok {
			s.children[r.ParentID] = append(s.children[r.ParentID], r.ID)
		}
	}
	return s
}

// markAncestors marks id and its full parent chain.
func (s *stageSet) markAncestors(id string, keep map[string]bool) {
	cur := s.byID[id]
	for cur != nil {
		if keep[cur.ID] {
			break // chain above is already marked
		}
		keep[cur.ID] = true
		if cur.ParentID == "" {
			break
		}
		cur = s.byID[cur.ParentID]
	}
}

// markDescendants marks everything below id (id itself excluded).
func (s *stageSet) markDescendants(id string, keep map[string]bool) {
	stack := append([]string(nil), s.children[id]...)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if keep[cur] {
			continue
		}
		keep[cur] = true
		stack = append(stack, s.children[cur]...)
	}
}

// selectKept filters rows to the keep set, preserving original order.
func selectKept(rows []model.Row, keep map[string]bool) []model.Row {
	out := make([]model.Row, 0, len(keep))
	for i := range rows {
		if keep[rows[i].ID] {
			out = append(out, rows[i])
		}
	}
	return out
}

// filterSearch keeps rows whose label contains the query
// (case-insensitive), expanded to ancestor+descendant closure.
func filterSearch(rows []model.Row, query string) []model.Row {
	q := strings.ToLower(query)
	s := newStageSet(rows)
	keep := make(map[string]bool)
	for i := range rows {
		if rows[i].ID == "" {
			continue
		}
		if strings.Contains(strings.ToLower(rows[i].Label), q) {
			s.markAncestors(rows[i].ID, keep)
			s.markDescendants(rows[i].ID, keep)
		}
	}
	return selectKept(rows, keep)
}

// filterHierarchy scopes the view around one pinned node: its ancestors,
// itself, and its descendants. The pinned node is not required to match
// anything; pinning an id absent from the current set yields an empty
// result.
func filterHierarchy(rows []model.Row, id string) []model.Row {
	s := newStageSet(rows)
	if s.byID[id] == nil {
		return nil
	}
	keep := make(map[string]bool)
	s.markAncestors(id, keep)
	s.markDescendants(id, keep)
	return selectKept(rows, keep)
}

// filterParent keeps the pinned parent's ancestor chain plus its direct
// children and their descendants. A pinned parent with zero children in
// the current set is a no-op: the option list the value came from may be
// stale, and dead-ending the whole view on it helps nobody.
func filterParent(rows []model.Row, parentID string) []model.Row {
	s := newStageSet(rows)
	kids := s.children[parentID]
	if len(kids) == 0 {
		return rows
	}
	keep := make(map[string]bool)
	s.markAncestors(parentID, keep)
	for _, kid := range kids {
		keep[kid] = true
		s.markDescendants(kid, keep)
	}
	return selectKept(rows, keep)
}

// filterDropdown keeps rows whose tag, label, or id equals the pinned
// value. Each match's closure is rooted at the match's parent (or the
// match itself when it has none): the parent's ancestor chain plus the
// match's own descendants.
func filterDropdown(rows []model.Row, value string) []model.Row {
	s := newStageSet(rows)
	keep := make(map[string]bool)
	for i := range rows {
		r := &rows[i]
		if r.ID == "" {
			continue
		}
		if r.DropdownTag != value && r.Label != value && r.ID != value {
			continue
		}
		root := r.ID
		if r.ParentID != "" && s.byID[r.ParentID] != nil {
			root = r.ParentID
		}
		keep[r.ID] = true
		s.markAncestors(root, keep)
		s.markDescendants(r.ID, keep)
	}
	return selectKept(rows, keep)
}
