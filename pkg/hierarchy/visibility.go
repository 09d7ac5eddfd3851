package hierarchy

import (
	"github.com/vanderheijden86/arborview/pkg/model"
)

// Visible computes the collapse-aware visible row set. Roots are filtered
// rows whose parent is blank or not present in the filtered set. A node is
// visible once reached from a root; children of a collapsed node are never
// pushed, so they stay invisible even if they independently matched a
// filter. Output preserves original row order for stable rendering.
func Visible(rows []model.Row, collapsed map[string]bool) []model.Row {
	if len(rows) == 0 {
		return nil
	}
	s := newStageSet(rows)

	visible := make(map[string]bool, len(rows))
	var walk func(id string)
	walk = func(id string) {
		if visible[id] {
			return
		}
		visible[id] = true
		if collapsed[id] {
			return
		}
		for _, kid := range s.children[id] {
			walk(kid)
		}
	}

	for i := range rows {
		r := &rows[i]
		if r.ID == "" {
			continue
		}
		if r.ParentID == "" || s.byID[r.ParentID] == nil {
			walk(r.ID)
		}
	}

	return selectKept(rows, visible)
}

// HasVisibleChildren reports whether id has at least one child inside the
// given row set. Used to decide which nodes carry a collapse toggle.
func HasVisibleChildren(rows []model.Row, id string) bool {
	for i := range rows {
		if rows[i].ParentID == id {
			return true
		}
	}
	return false
}
