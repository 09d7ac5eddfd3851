package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/arborview/pkg/scene"
)

// Terminal cells are roughly twice as tall as wide. The diagram maps the
// scene's pixel space onto cells with this fixed ratio so layout
// distances keep their aspect.
const (
	pxPerCellX = 8.0
	pxPerCellY = 16.0
)

// doubleClickWindow is the maximum gap between two clicks on the same
// node for them to count as a double click.
const doubleClickWindow = 400 * time.Millisecond

// DiagramModel renders the scene's frame as a pannable, zoomable node
// diagram and translates mouse input into scene operations.
type DiagramModel struct {
	sc    *scene.Scene
	theme Theme

	width  int
	height int

	dragging   bool
	dragMoved  bool
	lastMouseX int
	lastMouseY int

	lastClickID string
	lastClickAt time.Time

	// now is stubbed in tests for double-click timing.
	now func() time.Time
}

// NewDiagramModel creates a diagram view over a shared scene.
func NewDiagramModel(sc *scene.Scene, theme Theme) DiagramModel {
	return DiagramModel{sc: sc, theme: theme, now: time.Now}
}

// SetSize updates the view dimensions in terminal cells and propagates
// the pixel-space viewport to the scene.
func (d *DiagramModel) SetSize(w, h int) {
	d.width, d.height = w, h
	d.sc.SetViewport(float64(w)*pxPerCellX, float64(h)*pxPerCellY)
}

// cellToPx maps a terminal cell coordinate to scene screen pixels,
// targeting the cell's center.
func cellToPx(x, y int) (float64, float64) {
	return (float64(x) + 0.5) * pxPerCellX, (float64(y) + 0.5) * pxPerCellY
}

// HandleMouse routes a mouse event to the scene. Wheel zooms under the
// cursor, drag pans, click selects or toggles, double click zooms to the
// node.
func (d *DiagramModel) HandleMouse(msg tea.MouseMsg) {
	px, py := cellToPx(msg.X, msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		d.sc.ZoomAt(1.1, px, py)
		return
	case tea.MouseButtonWheelDown:
		d.sc.ZoomAt(1/1.1, px, py)
		return
	}

	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionMotion {
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		d.dragging = true
		d.dragMoved = false
		d.lastMouseX, d.lastMouseY = msg.X, msg.Y

	case tea.MouseActionMotion:
		if !d.dragging {
			return
		}
		dx := msg.X - d.lastMouseX
		dy := msg.Y - d.lastMouseY
		if dx != 0 || dy != 0 {
			d.dragMoved = true
			d.sc.PanBy(float64(dx)*pxPerCellX, float64(dy)*pxPerCellY)
			d.lastMouseX, d.lastMouseY = msg.X, msg.Y
		}

	case tea.MouseActionRelease:
		wasDrag := d.dragging && d.dragMoved
		d.dragging = false
		if wasDrag {
			return
		}
		d.handleClick(px, py, msg.Ctrl)
	}
}

func (d *DiagramModel) handleClick(px, py float64, additive bool) {
	hit := d.sc.HitTest(px, py)
	if hit == nil {
		d.lastClickID = ""
		return
	}
	if hit.Toggle {
		// A toggle hit never selects the node.
		d.sc.ToggleCollapse(hit.Node.ID)
		d.lastClickID = ""
		return
	}

	now := d.now()
	if hit.Node.ID == d.lastClickID && now.Sub(d.lastClickAt) <= doubleClickWindow {
		d.sc.ZoomToNode(hit.Node.ID)
		d.lastClickID = ""
		return
	}
	d.lastClickID = hit.Node.ID
	d.lastClickAt = now
	d.sc.Select(hit.Node.ID, additive)
}

// View renders the diagram at the current size.
func (d DiagramModel) View() string {
	if d.width <= 0 || d.height <= 0 {
		return ""
	}

	frame := d.sc.Frame()
	switch frame.Outcome {
	case scene.OutcomeMissingInput:
		return d.centered("No data loaded yet.\nPoint av at a rows file to get started.")
	case scene.OutcomeEmpty:
		return d.centered("No matches.\nAdjust or clear the active filters.")
	case scene.OutcomeStructuralError:
		return d.centered(d.theme.ErrorText.Render(fmt.Sprintf("Structural error: %v", frame.Err)))
	}

	cv := newCanvas(d.width, d.height)
	t := d.sc.Transform()
	fp := d.sc.Options().Footprint
	halfW := fp.CardWidth / 2 * t.Scale
	halfH := fp.CardHeight / 2 * t.Scale

	selected := make(map[string]bool)
	for _, id := range d.sc.SelectedIDs() {
		selected[id] = true
	}
	focused := d.sc.FocusedID()

	for _, l := range frame.Links {
		x0, y0 := t.Apply(l.Source.X, l.Source.Y)
		x1, y1 := t.Apply(l.Target.X, l.Target.Y)
		cv.line(int(x0/pxPerCellX), int(y0/pxPerCellY), int(x1/pxPerCellX), int(y1/pxPerCellY), classEdge)
	}

	for _, n := range frame.Nodes {
		cx, cy := t.Apply(n.X, n.Y)
		left := int((cx - halfW) / pxPerCellX)
		top := int((cy - halfH) / pxPerCellY)
		w := int(halfW * 2 / pxPerCellX)
		h := int(halfH * 2 / pxPerCellY)

		borderClass := classBorder
		if selected[n.ID] {
			borderClass = classSelect
		}
		if n.ID == focused {
			borderClass = classFocus
		}

		if w < 4 || h < 2 {
			// Too small for a box at this zoom; draw a marker.
			cv.set(int(cx/pxPerCellX), int(cy/pxPerCellY), '▪', borderClass)
			continue
		}

		cv.box(left, top, w, h, borderClass)
		label := Truncate(n.Row.DisplayLabel(), w-4)
		cv.text(left+2, top+1, label, classText)
		if h >= 4 {
			sub := n.ID
			if n.Row.HasValue() {
				sub = fmt.Sprintf("%s  %s", n.ID, n.Row.FormatValue())
			}
			cv.text(left+2, top+2, Truncate(sub, w-4), classSubtle)
		}
		if h >= 5 && len(n.Row.Sparkline) > 0 {
			cv.text(left+2, top+3, Sparkline(n.Row.Sparkline, w-4), classSubtle)
		}

		if tx, ty, _, ok := d.sc.ToggleRect(n); ok {
			mark := '−'
			if n.Collapsed {
				mark = '+'
			}
			cv.set(int(tx/pxPerCellX), int(ty/pxPerCellY), mark, classToggle)
		}
	}

	return cv.render(d.theme.canvasStyles())
}

func (d DiagramModel) centered(msg string) string {
	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, msg)
}
