package scene

import (
	"math"
	"testing"

	"github.com/vanderheijden86/arborview/pkg/hierarchy"
	"github.com/vanderheijden86/arborview/pkg/model"
)

func sceneFixture() []model.Row {
	return []model.Row{
		{ID: "A", Label: "A"},
		{ID: "B", ParentID: "A", Label: "B"},
		{ID: "C", ParentID: "A", Label: "C"},
		{ID: "D", ParentID: "B", Label: "D"},
		{ID: "E", ParentID: "B", Label: "E"},
	}
}

func newTestScene(rows []model.Row) *Scene {
	s := New(DefaultOptions())
	s.SetViewport(800, 600)
	if rows != nil {
		s.SetRows(rows)
	}
	return s
}

func TestOutcomeMissingInput(t *testing.T) {
	s := newTestScene(nil)
	if got := s.Frame().Outcome; got != OutcomeMissingInput {
		t.Errorf("Outcome = %v, want missing-input", got)
	}
}

func TestOutcomeEmptyOnlyWhenFiltered(t *testing.T) {
	s := newTestScene(sceneFixture())
	s.SetSearchQuery("no such label")

	if got := s.Frame().Outcome; got != OutcomeEmpty {
		t.Errorf("Outcome = %v, want empty", got)
	}

	s.ClearFilters()
	if got := s.Frame().Outcome; got != OutcomeNodes {
		t.Errorf("Outcome after clear = %v, want nodes", got)
	}
}

func TestOutcomeStructuralError(t *testing.T) {
	s := newTestScene([]model.Row{
		{ID: "A", Label: "A"},
		{ID: "A", Label: "again"},
	})

	f := s.Frame()
	if f.Outcome != OutcomeStructuralError {
		t.Fatalf("Outcome = %v, want structural-error", f.Outcome)
	}
	if f.Err == nil || f.Err.ID != "A" {
		t.Errorf("Err = %v, want duplicate at A", f.Err)
	}
	if len(f.Nodes) != 0 || len(f.Links) != 0 || len(f.Table) != 0 {
		t.Error("outputs must be empty on structural error")
	}
}

func TestOutcomeStructuralErrorCycle(t *testing.T) {
	// The cycle members are unreachable from the healthy root, so a
	// root-reachability walk alone would drop them and render A as a
	// healthy single-node tree.
	s := newTestScene([]model.Row{
		{ID: "A", Label: "A"},
		{ID: "B", ParentID: "C", Label: "B"},
		{ID: "C", ParentID: "B", Label: "C"},
	})

	f := s.Frame()
	if f.Outcome != OutcomeStructuralError {
		t.Fatalf("Outcome = %v, want structural-error", f.Outcome)
	}
	if f.Err == nil || f.Err.Kind != hierarchy.Cycle {
		t.Errorf("Err = %v, want cycle", f.Err)
	}
	if len(f.Nodes) != 0 || len(f.Links) != 0 || len(f.Table) != 0 {
		t.Error("outputs must be empty on structural error")
	}
}

func TestOutcomeStructuralErrorPureCycle(t *testing.T) {
	// With every row on the cycle nothing is reachable from a root, which
	// must read as a broken snapshot, not as absent input.
	s := newTestScene([]model.Row{
		{ID: "B", ParentID: "C", Label: "B"},
		{ID: "C", ParentID: "B", Label: "C"},
	})

	f := s.Frame()
	if f.Outcome != OutcomeStructuralError {
		t.Fatalf("Outcome = %v, want structural-error", f.Outcome)
	}
	if f.Err == nil || f.Err.Kind != hierarchy.Cycle {
		t.Errorf("Err = %v, want cycle", f.Err)
	}
}

func TestFrameShape(t *testing.T) {
	s := newTestScene(sceneFixture())
	f := s.Frame()

	if len(f.Nodes) != 5 {
		t.Fatalf("got %d nodes, want 5", len(f.Nodes))
	}
	if len(f.Links) != 4 {
		t.Errorf("got %d links, want 4", len(f.Links))
	}
	if len(f.Table) != 5 {
		t.Errorf("got %d table rows, want 5", len(f.Table))
	}

	// Nodes preserve row order; table is pre-order display order.
	if f.Nodes[0].ID != "A" || f.Nodes[1].ID != "B" {
		t.Error("node order does not follow row order")
	}
	wantTable := []string{"A", "B", "D", "E", "C"}
	for i, id := range wantTable {
		if f.Table[i].ID != id {
			t.Errorf("Table[%d] = %s, want %s", i, f.Table[i].ID, id)
		}
	}

	a := f.Node("A")
	if !a.HasChildren {
		t.Error("A must be parent-capable")
	}
	if f.Node("D").HasChildren {
		t.Error("D is a leaf")
	}
}

func TestMultiRootSyntheticTransparent(t *testing.T) {
	s := newTestScene([]model.Row{
		{ID: "A", Label: "A"},
		{ID: "B", Label: "B"},
	})
	f := s.Frame()

	if len(f.Nodes) != 2 {
		t.Fatalf("synthetic root leaked: %d nodes", len(f.Nodes))
	}
	for _, n := range f.Nodes {
		if n.Depth != 0 {
			t.Errorf("depth(%s) = %d, want 0", n.ID, n.Depth)
		}
	}
	if len(f.Links) != 0 {
		t.Error("no links should connect to the virtual root")
	}
}

func TestToggleCollapseHidesSubtree(t *testing.T) {
	s := newTestScene(sceneFixture())
	s.ToggleCollapse("B")

	f := s.Frame()
	if f.Node("D") != nil || f.Node("E") != nil {
		t.Error("collapsed subtree still visible")
	}
	b := f.Node("B")
	if b == nil || !b.Collapsed || !b.HasChildren {
		t.Errorf("B = %+v, want collapsed and parent-capable", b)
	}

	s.ToggleCollapse("B")
	if s.Frame().Node("D") == nil {
		t.Error("expand did not restore the subtree")
	}
}

func TestToggleCollapseLeafNoOp(t *testing.T) {
	s := newTestScene(sceneFixture())
	before := len(s.Frame().Nodes)
	s.ToggleCollapse("D")
	if got := len(s.Frame().Nodes); got != before {
		t.Errorf("leaf toggle changed node count %d -> %d", before, got)
	}
	if s.IsCollapsed("D") {
		t.Error("leaf must not enter the collapse set")
	}
}

func TestToggleCollapseKeepsNodeStationary(t *testing.T) {
	s := newTestScene(sceneFixture())

	n := s.Frame().Node("B")
	beforeX, beforeY := s.Transform().Apply(n.X, n.Y)

	s.ToggleCollapse("B")

	after := s.Frame().Node("B")
	afterX, afterY := s.Transform().Apply(after.X, after.Y)

	if math.Abs(afterX-beforeX) > 1e-6 || math.Abs(afterY-beforeY) > 1e-6 {
		t.Errorf("toggled node moved from (%v,%v) to (%v,%v)", beforeX, beforeY, afterX, afterY)
	}
}

func TestCollapseAllExpandAll(t *testing.T) {
	s := newTestScene(sceneFixture())

	s.CollapseAll()
	f := s.Frame()
	if len(f.Nodes) != 1 || f.Node("A") == nil {
		t.Errorf("collapse-all should leave only the root, got %d nodes", len(f.Nodes))
	}
	if !s.IsCollapsed("A") || !s.IsCollapsed("B") {
		t.Error("all parent-capable nodes should be collapsed")
	}

	s.ExpandAll()
	if got := len(s.Frame().Nodes); got != 5 {
		t.Errorf("expand-all restored %d nodes, want 5", got)
	}
}

func TestFocusPreservedAcrossFilterChange(t *testing.T) {
	s := newTestScene(sceneFixture())
	s.Select("B", false)

	s.SetSearchQuery("D") // B survives as ancestor
	if got := s.FocusedID(); got != "B" {
		t.Errorf("focus = %s, want preserved B", got)
	}

	s.SetSearchQuery("C") // B filtered out; focus falls back
	if got := s.FocusedID(); got != "A" {
		t.Errorf("focus = %s, want fallback to first display row", got)
	}
}

func TestSelectionPrunedByFilter(t *testing.T) {
	s := newTestScene(sceneFixture())
	s.Select("B", false)
	s.Select("C", true)

	s.SetSearchQuery("C")
	got := s.SelectedIDs()
	if len(got) != 1 || got[0] != "C" {
		t.Errorf("SelectedIDs = %v, want [C]", got)
	}
}

func TestMoveFocusClampsAtEnds(t *testing.T) {
	s := newTestScene(sceneFixture())
	s.MoveFocus(-10)
	if s.FocusedID() != "A" {
		t.Errorf("focus = %s, want clamped to first", s.FocusedID())
	}
	s.MoveFocus(100)
	if s.FocusedID() != "C" {
		t.Errorf("focus = %s, want clamped to last display row", s.FocusedID())
	}
}

func TestFitToViewportClampsScale(t *testing.T) {
	s := newTestScene([]model.Row{{ID: "only", Label: "only"}})

	// One small card in a large viewport: fit must stop at MaxFitScale,
	// not blow a single node up to fill the screen.
	if got := s.Transform().Scale; got > MaxFitScale {
		t.Errorf("fit scale = %v, want <= %v", got, MaxFitScale)
	}
}

func TestZoomRespectsLimits(t *testing.T) {
	s := newTestScene(sceneFixture())

	for i := 0; i < 50; i++ {
		s.ZoomBy(2)
	}
	if got := s.Transform().Scale; got > MaxScale {
		t.Errorf("scale = %v, want capped at %v", got, MaxScale)
	}

	for i := 0; i < 50; i++ {
		s.ZoomBy(0.5)
	}
	if got := s.Transform().Scale; got < MinScale {
		t.Errorf("scale = %v, want floored at %v", got, MinScale)
	}
}

func TestZoomToNodeCenters(t *testing.T) {
	s := newTestScene(sceneFixture())
	s.ZoomToNode("D")

	n := s.Frame().Node("D")
	sx, sy := s.Transform().Apply(n.X, n.Y)
	if math.Abs(sx-400) > 1e-6 || math.Abs(sy-300) > 1e-6 {
		t.Errorf("node at (%v,%v), want viewport center (400,300)", sx, sy)
	}
}

func TestPanByIsScaleIndependent(t *testing.T) {
	s := newTestScene(sceneFixture())
	before := s.Transform()
	s.PanBy(15, -10)
	after := s.Transform()

	if after.TranslateX-before.TranslateX != 15 || after.TranslateY-before.TranslateY != -10 {
		t.Error("pan delta not applied in screen space")
	}
	if after.Scale != before.Scale {
		t.Error("pan must not change scale")
	}
}

func TestDrillRefreshKeepsCollapseState(t *testing.T) {
	s := newTestScene(sceneFixture())
	s.ToggleCollapse("B")

	// Drill refresh: strict subset with new labels.
	s.SetRows([]model.Row{
		{ID: "B", Label: "B refreshed"},
		{ID: "D", Label: "D refreshed"},
	})

	f := s.Frame()
	if len(f.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3 (full set with B collapsed)", len(f.Nodes))
	}
	if !s.IsCollapsed("B") {
		t.Error("collapse state lost on drill refresh")
	}
	if got := f.Node("B").Row.Label; got != "B refreshed" {
		t.Errorf("label = %q, want overlay applied", got)
	}
}

func TestFullRefreshPrunesStaleCollapse(t *testing.T) {
	s := newTestScene(sceneFixture())
	s.ToggleCollapse("B")

	// Full replacement without B.
	s.SetRows([]model.Row{
		{ID: "X", Label: "X"},
		{ID: "Y", ParentID: "X", Label: "Y"},
		{ID: "Z", ParentID: "X", Label: "Z"},
		{ID: "W", ParentID: "Y", Label: "W"},
		{ID: "V", ParentID: "Y", Label: "V"},
		{ID: "U", ParentID: "Z", Label: "U"},
	})

	if s.IsCollapsed("B") {
		t.Error("stale collapse id survived a full refresh")
	}
	if got := len(s.Frame().Nodes); got != 6 {
		t.Errorf("got %d nodes, want 6", got)
	}
}
