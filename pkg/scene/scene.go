// Package scene owns the interactive view state of the hierarchy viewer:
// filter values, the collapse set, focus/selection, and the view
// transform. All state is mutated through the documented setters, each of
// which triggers the minimum necessary recomputation — a filter change
// refilters, relayouts, and refits; a single collapse toggle relayouts
// without refitting and keeps the toggled node visually stationary; pan
// and zoom touch only the transform.
//
// Everything runs synchronously within the caller's event turn; there is
// no background computation.
package scene

import (
	"github.com/vanderheijden86/arborview/pkg/hierarchy"
	"github.com/vanderheijden86/arborview/pkg/layout"
	"github.com/vanderheijden86/arborview/pkg/model"
)

// Options are the read-only settings a Scene is built with.
type Options struct {
	Footprint   layout.Footprint
	Orientation layout.Orientation

	// DoubleClickZoom is the factor applied to the current scale when
	// zooming to a node (e.g. 1.5 = 150% of current).
	DoubleClickZoom float64

	// ToggleSize is the side, in screen pixels, of the collapse toggle
	// square anchored to a parent-capable node's corner.
	ToggleSize float64
}

// DefaultOptions returns the footprint and interaction defaults.
func DefaultOptions() Options {
	return Options{
		Footprint:       layout.DefaultFootprint(),
		Orientation:     layout.TopDown,
		DoubleClickZoom: 1.5,
		ToggleSize:      14,
	}
}

// Scene is the view-state machine. Not safe for concurrent use; the host
// is expected to drive it from a single event loop.
type Scene struct {
	opts Options

	cache    hierarchy.Cache
	rows     []model.Row // full row set (possibly cache-expanded)
	index    *hierarchy.ChildrenIndex
	filtered []model.Row // survivors of the filter pipeline

	filters   hierarchy.FilterState
	collapsed map[string]bool

	transform Transform
	vw, vh    float64
	fitted    bool

	focusedID string
	selected  map[string]bool

	frame     Frame
	positions map[string]layout.Point
}

// New creates an empty scene.
func New(opts Options) *Scene {
	if opts.Footprint.CardWidth <= 0 {
		opts = DefaultOptions()
	}
	s := &Scene{
		opts:      opts,
		collapsed: make(map[string]bool),
		selected:  make(map[string]bool),
		transform: Identity(),
	}
	s.recompute(false)
	return s
}

// Frame returns the current frame. The pointer stays valid until the next
// recomputation.
func (s *Scene) Frame() *Frame { return &s.frame }

// Options returns the settings the scene was built with.
func (s *Scene) Options() Options { return s.opts }

// Transform returns the current view transform.
func (s *Scene) Transform() Transform { return s.transform }

// Filters returns the current filter state.
func (s *Scene) Filters() hierarchy.FilterState { return s.filters }

// Rows returns the current full row set.
func (s *Scene) Rows() []model.Row { return s.rows }

// Index returns the children index over the full row set.
func (s *Scene) Index() *hierarchy.ChildrenIndex { return s.index }

// IsCollapsed reports the collapse state of a node.
func (s *Scene) IsCollapsed(id string) bool { return s.collapsed[id] }

// SetViewport updates the viewport dimensions in logical pixels. The
// first non-empty viewport triggers an automatic fit.
func (s *Scene) SetViewport(w, h float64) {
	s.vw, s.vh = w, h
	if !s.fitted && w > 0 && h > 0 {
		s.FitToViewport()
	}
}

// SetRows ingests a refreshed row set. A drill refresh (strict id-subset
// of the cached full set) keeps the cached structure and the user's
// collapse/filter context; anything else replaces the cache wholesale.
func (s *Scene) SetRows(rows []model.Row) {
	full, idx, reused := s.cache.Update(rows)
	s.rows, s.index = full, idx
	if !reused {
		// Collapse state may reference ids that no longer exist; prune.
		for id := range s.collapsed {
			if !idx.Has(id) {
				delete(s.collapsed, id)
			}
		}
	}
	s.recompute(true)
}

// SetSearchQuery sets the case-insensitive substring search.
func (s *Scene) SetSearchQuery(q string) {
	if s.filters.SearchQuery == q {
		return
	}
	s.filters.SearchQuery = q
	s.recompute(true)
}

// SetHierarchyFilter pins the view around a single node id ("" clears).
func (s *Scene) SetHierarchyFilter(id string) {
	if s.filters.HierarchyFilter == id {
		return
	}
	s.filters.HierarchyFilter = id
	s.recompute(true)
}

// SetParentFilter pins a parent id ("" clears).
func (s *Scene) SetParentFilter(id string) {
	if s.filters.ParentFilter == id {
		return
	}
	s.filters.ParentFilter = id
	s.recompute(true)
}

// SetDropdownFilter pins a tag value ("" clears).
func (s *Scene) SetDropdownFilter(v string) {
	if s.filters.DropdownFilter == v {
		return
	}
	s.filters.DropdownFilter = v
	s.recompute(true)
}

// ClearFilters resets search and all three filters.
func (s *Scene) ClearFilters() {
	if !s.filters.Active() {
		return
	}
	s.filters = hierarchy.FilterState{}
	s.recompute(true)
}

// ToggleCollapse flips the collapse state of one node. Toggling a leaf is
// a no-op. The view is not refit; instead the toggled node keeps its
// exact screen position so the interaction feels anchored.
func (s *Scene) ToggleCollapse(id string) {
	n := s.frame.Node(id)
	if n == nil || !n.HasChildren {
		return
	}
	ax, ay := s.transform.Apply(n.X, n.Y)

	if s.collapsed[id] {
		delete(s.collapsed, id)
	} else {
		s.collapsed[id] = true
	}
	s.recompute(false)

	// Solve translate against the unchanged scale so the node's layout
	// position maps back to its captured screen point.
	if after := s.frame.Node(id); after != nil {
		s.transform.TranslateX = ax - after.X*s.transform.Scale
		s.transform.TranslateY = ay - after.Y*s.transform.Scale
	}
}

// CollapseAll collapses every parent-capable node and refits.
func (s *Scene) CollapseAll() {
	ids := make(map[string]bool, len(s.filtered))
	for i := range s.filtered {
		ids[s.filtered[i].ID] = true
	}
	changed := false
	for i := range s.filtered {
		p := s.filtered[i].ParentID
		if p == "" || !ids[p] || s.collapsed[p] {
			continue
		}
		s.collapsed[p] = true
		changed = true
	}
	if changed {
		s.recompute(true)
	}
}

// ExpandAll clears the collapse set and refits.
func (s *Scene) ExpandAll() {
	if len(s.collapsed) == 0 {
		return
	}
	s.collapsed = make(map[string]bool)
	s.recompute(true)
}

// PanBy shifts the view by a screen-space delta. Scale-independent.
func (s *Scene) PanBy(dx, dy float64) {
	s.transform.TranslateX += dx
	s.transform.TranslateY += dy
}

// ZoomAt multiplies the scale by factor, anchored at the given screen
// point (wheel zoom under the cursor).
func (s *Scene) ZoomAt(factor, ax, ay float64) {
	newScale := clampScale(s.transform.Scale*factor, MaxScale)
	s.transform = s.transform.ZoomedAt(newScale, ax, ay)
}

// ZoomBy multiplies the scale by factor, anchored at the viewport center
// (toolbar +/- buttons).
func (s *Scene) ZoomBy(factor float64) {
	s.ZoomAt(factor, s.vw/2, s.vh/2)
}

// ZoomTo sets the scale to a percentage (100 = 1.0), anchored at the
// viewport center (direct percentage entry).
func (s *Scene) ZoomTo(percent float64) {
	newScale := clampScale(percent/100, MaxScale)
	s.transform = s.transform.ZoomedAt(newScale, s.vw/2, s.vh/2)
}

// ZoomToNode scales by the configured double-click factor and centers the
// node in the viewport.
func (s *Scene) ZoomToNode(id string) {
	n := s.frame.Node(id)
	if n == nil {
		return
	}
	newScale := clampScale(s.transform.Scale*s.opts.DoubleClickZoom, MaxScale)
	s.transform = Transform{
		TranslateX: s.vw/2 - n.X*newScale,
		TranslateY: s.vh/2 - n.Y*newScale,
		Scale:      newScale,
	}
}

// FitToViewport chooses the largest scale (capped at MaxFitScale) that
// shows every visible node footprint, centered.
func (s *Scene) FitToViewport() {
	if s.vw <= 0 || s.vh <= 0 {
		return
	}
	order := make([]string, 0, len(s.frame.Nodes))
	for _, n := range s.frame.Nodes {
		order = append(order, n.ID)
	}
	minX, minY, maxX, maxY, ok := layout.Bounds(s.positions, order, s.opts.Footprint)
	if !ok {
		s.transform = Identity()
		return
	}
	cw, ch := maxX-minX, maxY-minY
	if cw <= 0 {
		cw = 1
	}
	if ch <= 0 {
		ch = 1
	}
	scale := s.vw / cw
	if alt := s.vh / ch; alt < scale {
		scale = alt
	}
	scale = clampScale(scale, MaxFitScale)
	s.transform = Transform{
		TranslateX: (s.vw-cw*scale)/2 - minX*scale,
		TranslateY: (s.vh-ch*scale)/2 - minY*scale,
		Scale:      scale,
	}
	s.fitted = true
}

// FocusedID returns the id of the keyboard-focused node, or "".
func (s *Scene) FocusedID() string { return s.focusedID }

// MoveFocus shifts keyboard focus by delta within the table (display)
// order, clamped to the ends.
func (s *Scene) MoveFocus(delta int) {
	if len(s.frame.Table) == 0 {
		return
	}
	idx := 0
	for i, n := range s.frame.Table {
		if n.ID == s.focusedID {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.frame.Table) {
		idx = len(s.frame.Table) - 1
	}
	s.focusedID = s.frame.Table[idx].ID
}

// Select adds a node to the selection, replacing it unless additive.
func (s *Scene) Select(id string, additive bool) {
	if !additive {
		s.selected = make(map[string]bool)
	}
	if s.frame.Node(id) != nil {
		s.selected[id] = true
		s.focusedID = id
	}
}

// SelectedIDs returns the selected ids in display order.
func (s *Scene) SelectedIDs() []string {
	out := make([]string, 0, len(s.selected))
	for _, n := range s.frame.Table {
		if s.selected[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// recompute rebuilds the frame from the current rows, filters, and
// collapse set. When fit is true the transform is refit to the result;
// a single collapse toggle passes false and adjusts the transform itself.
func (s *Scene) recompute(fit bool) {
	s.frame = Frame{byID: make(map[string]*RenderNode)}
	s.positions = nil
	s.filtered = nil

	if len(s.rows) == 0 {
		s.frame.Outcome = OutcomeMissingInput
		s.focusedID = ""
		return
	}

	s.filtered = hierarchy.ApplyFilters(s.rows, s.filters)

	// Cycles must be caught before the visibility walk: cycle members are
	// unreachable from any root, so Visible would drop them and a broken
	// snapshot would render as a healthy partial tree.
	if serr := hierarchy.DetectCycle(s.filtered); serr != nil {
		s.frame.Outcome = OutcomeStructuralError
		s.frame.Err = serr
		s.focusedID = ""
		return
	}

	visible := hierarchy.Visible(s.filtered, s.collapsed)
	if len(visible) == 0 {
		if s.filters.Active() {
			s.frame.Outcome = OutcomeEmpty
		} else {
			s.frame.Outcome = OutcomeMissingInput
		}
		s.focusedID = ""
		return
	}

	tree, serr := hierarchy.Construct(visible, hierarchy.ConstructOptions{})
	if serr != nil {
		s.frame.Outcome = OutcomeStructuralError
		s.frame.Err = serr
		s.focusedID = ""
		return
	}

	s.positions = layout.Tidy(tree, s.opts.Footprint, s.opts.Orientation)

	// Parent-capability is judged against the filtered (pre-collapse)
	// set so a collapsed parent keeps its toggle.
	capable := make(map[string]bool, len(s.filtered))
	idsInFiltered := make(map[string]bool, len(s.filtered))
	for i := range s.filtered {
		idsInFiltered[s.filtered[i].ID] = true
	}
	for i := range s.filtered {
		p := s.filtered[i].ParentID
		if p != "" && idsInFiltered[p] {
			capable[p] = true
		}
	}

	for _, id := range tree.Order {
		tn := tree.Nodes[id]
		p := s.positions[id]
		rn := &RenderNode{
			Row:         tn.Row,
			ID:          id,
			Depth:       tn.Depth,
			X:           p.X,
			Y:           p.Y,
			HasChildren: capable[id],
			Collapsed:   s.collapsed[id],
		}
		s.frame.Nodes = append(s.frame.Nodes, rn)
		s.frame.byID[id] = rn
	}

	for _, parent := range tree.Order {
		src := s.frame.byID[parent]
		for _, child := range tree.Children[parent] {
			s.frame.Links = append(s.frame.Links, Link{Source: src, Target: s.frame.byID[child]})
		}
	}

	// Table rows in hierarchical display order.
	var walkTable func(id string)
	walkTable = func(id string) {
		s.frame.Table = append(s.frame.Table, s.frame.byID[id])
		for _, kid := range tree.Children[id] {
			walkTable(kid)
		}
	}
	for _, root := range tree.Roots {
		walkTable(root)
	}

	s.frame.Outcome = OutcomeNodes

	// Best-effort focus preservation: keep the id if it survived,
	// otherwise fall back to the first display row.
	if s.frame.Node(s.focusedID) == nil {
		s.focusedID = s.frame.Table[0].ID
	}
	for id := range s.selected {
		if s.frame.Node(id) == nil {
			delete(s.selected, id)
		}
	}

	if fit {
		s.FitToViewport()
	}
}
