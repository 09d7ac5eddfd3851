package ui

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/arborview/pkg/model"
	"github.com/vanderheijden86/arborview/pkg/scene"
)

func newDiagram(t *testing.T) (*DiagramModel, *scene.Scene) {
	t.Helper()
	sc := scene.New(scene.DefaultOptions())
	d := NewDiagramModel(sc, TestTheme())
	d.SetSize(100, 40)
	sc.SetRows(uiRows())
	return &d, sc
}

// cellOf maps a scene screen point to the terminal cell containing it.
func cellOf(px, py float64) (int, int) {
	return int(px / pxPerCellX), int(py / pxPerCellY)
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func TestDiagramWheelZoom(t *testing.T) {
	d, sc := newDiagram(t)
	before := sc.Transform().Scale

	d.HandleMouse(mouse(50, 20, tea.MouseActionPress, tea.MouseButtonWheelUp))
	if got := sc.Transform().Scale; got <= before {
		t.Errorf("scale = %v after wheel up, want > %v", got, before)
	}

	d.HandleMouse(mouse(50, 20, tea.MouseActionPress, tea.MouseButtonWheelDown))
	if got := sc.Transform().Scale; math.Abs(got-before) > 1e-9 {
		t.Errorf("scale = %v after wheel down, want restored %v", got, before)
	}
}

func TestDiagramDragPans(t *testing.T) {
	d, sc := newDiagram(t)
	before := sc.Transform()

	d.HandleMouse(mouse(10, 10, tea.MouseActionPress, tea.MouseButtonLeft))
	d.HandleMouse(mouse(14, 12, tea.MouseActionMotion, tea.MouseButtonLeft))
	d.HandleMouse(mouse(14, 12, tea.MouseActionRelease, tea.MouseButtonLeft))

	after := sc.Transform()
	if after.TranslateX != before.TranslateX+4*pxPerCellX || after.TranslateY != before.TranslateY+2*pxPerCellY {
		t.Errorf("drag pan delta wrong: %+v -> %+v", before, after)
	}
	if len(sc.SelectedIDs()) != 0 {
		t.Error("a drag must not select the node it was released over")
	}
}

func TestDiagramClickSelects(t *testing.T) {
	d, sc := newDiagram(t)

	n := sc.Frame().Node("C")
	sx, sy := sc.Transform().Apply(n.X, n.Y)
	cx, cy := cellOf(sx, sy)

	d.HandleMouse(mouse(cx, cy, tea.MouseActionPress, tea.MouseButtonLeft))
	d.HandleMouse(mouse(cx, cy, tea.MouseActionRelease, tea.MouseButtonLeft))

	if got := sc.SelectedIDs(); len(got) != 1 || got[0] != "C" {
		t.Errorf("SelectedIDs = %v, want [C]", got)
	}
	if sc.FocusedID() != "C" {
		t.Error("click did not move focus")
	}
}

func TestDiagramToggleClickCollapsesWithoutSelecting(t *testing.T) {
	d, sc := newDiagram(t)

	n := sc.Frame().Node("B")
	tx, ty, size, ok := sc.ToggleRect(n)
	if !ok {
		t.Fatal("B must carry a toggle")
	}
	d.handleClick(tx+size/2, ty+size/2, false)

	if !sc.IsCollapsed("B") {
		t.Error("toggle click did not collapse")
	}
	if len(sc.SelectedIDs()) != 0 {
		t.Error("toggle click must not select")
	}
}

func TestDiagramDoubleClickZoomsToNode(t *testing.T) {
	d, sc := newDiagram(t)
	clock := time.Unix(1000, 0)
	d.now = func() time.Time { return clock }

	n := sc.Frame().Node("D")
	sx, sy := sc.Transform().Apply(n.X, n.Y)
	before := sc.Transform().Scale

	d.handleClick(sx, sy, false)
	clock = clock.Add(doubleClickWindow / 2)
	// The first click may shift focus but not the transform.
	sx, sy = sc.Transform().Apply(n.X, n.Y)
	d.handleClick(sx, sy, false)

	if got := sc.Transform().Scale; got <= before {
		t.Errorf("scale = %v after double click, want zoomed in past %v", got, before)
	}
}

func TestDiagramSlowSecondClickDoesNotZoom(t *testing.T) {
	d, sc := newDiagram(t)
	clock := time.Unix(1000, 0)
	d.now = func() time.Time { return clock }

	n := sc.Frame().Node("D")
	sx, sy := sc.Transform().Apply(n.X, n.Y)
	before := sc.Transform().Scale

	d.handleClick(sx, sy, false)
	clock = clock.Add(doubleClickWindow * 2)
	d.handleClick(sx, sy, false)

	if got := sc.Transform().Scale; got != before {
		t.Errorf("scale = %v, want unchanged %v", got, before)
	}
}

func TestDiagramViewOutcomes(t *testing.T) {
	sc := scene.New(scene.DefaultOptions())
	d := NewDiagramModel(sc, TestTheme())
	d.SetSize(40, 10)

	if out := stripANSI(d.View()); !strings.Contains(out, "No data") {
		t.Errorf("missing-input view = %q", out)
	}

	sc.SetRows(uiRows())
	out := stripANSI(d.View())
	if !strings.Contains(out, "A") || !strings.Contains(out, "╭") {
		t.Errorf("diagram view missing cards:\n%s", out)
	}

	sc.SetSearchQuery("no such node")
	if out := stripANSI(d.View()); !strings.Contains(out, "No matches") {
		t.Errorf("empty view = %q", out)
	}

	sc.ClearFilters()
	sc.SetRows([]model.Row{{ID: "x"}, {ID: "x"}})
	if out := stripANSI(d.View()); !strings.Contains(out, "error") {
		t.Errorf("structural-error view = %q", out)
	}
}
