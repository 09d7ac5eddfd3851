package hierarchy

import (
	"github.com/vanderheijden86/arborview/pkg/model"
)

// Cache holds the last full row set and its index so collapse and filter
// state survive a server-side "drill" refresh: when a refresh delivers a
// strict subset of the ids we already know, the cached structure is kept
// and only the scalar display fields of the matching rows are overlaid.
//
// A refresh that is a superset in some ids and a subset in others is not
// a drill; the cache is discarded and rebuilt from the new set.
type Cache struct {
	rows  []model.Row
	index *ChildrenIndex
}

// Rows returns the current full row set, or nil before the first update.
func (c *Cache) Rows() []model.Row { return c.rows }

// Index returns the current children index, or nil before the first update.
func (c *Cache) Index() *ChildrenIndex { return c.index }

// Update ingests a refreshed row set. It returns the effective full row
// set, its index, and whether the cached structure was reused (drill
// refresh) rather than replaced.
func (c *Cache) Update(rows []model.Row) ([]model.Row, *ChildrenIndex, bool) {
	if c.canReuse(rows) {
		c.overlay(rows)
		return c.rows, c.index, true
	}
	c.rows = model.Clone(rows)
	c.index = BuildIndex(c.rows)
	return c.rows, c.index, false
}

// Invalidate drops the cached row set, forcing the next Update to rebuild.
func (c *Cache) Invalidate() {
	c.rows = nil
	c.index = nil
}

// canReuse reports whether the incoming set is a strict id-subset of the
// cached full set: every incoming id must already be known, and the
// incoming set must be strictly smaller.
func (c *Cache) canReuse(rows []model.Row) bool {
	if c.index == nil || len(rows) == 0 || len(rows) >= len(c.rows) {
		return false
	}
	for i := range rows {
		if rows[i].ID == "" || !c.index.Has(rows[i].ID) {
			return false
		}
	}
	return true
}

// overlay copies the scalar display fields of the incoming rows onto the
// cached rows with matching ids. Structure (ParentID) stays as cached, so
// the descendant shape the user was drilling through is preserved.
func (c *Cache) overlay(rows []model.Row) {
	for i := range rows {
		cached := c.index.Row(rows[i].ID)
		if cached == nil {
			continue
		}
		cached.Label = rows[i].Label
		cached.Tooltip = rows[i].Tooltip
		cached.DropdownTag = rows[i].DropdownTag
		cached.Identity = rows[i].Identity
		if rows[i].Value != nil {
			v := *rows[i].Value
			cached.Value = &v
		}
		if rows[i].Sparkline != nil {
			sp := make([]float64, len(rows[i].Sparkline))
			copy(sp, rows[i].Sparkline)
			cached.Sparkline = sp
		}
	}
}
