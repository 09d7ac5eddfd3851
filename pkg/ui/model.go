// Package ui implements the terminal front end: a bubbletea program with
// a diagram view and a table view over one shared scene, a search input,
// filter controls, and live reload driven by the file watcher.
package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/arborview/pkg/debug"
	"github.com/vanderheijden86/arborview/pkg/model"
	"github.com/vanderheijden86/arborview/pkg/scene"
	"github.com/vanderheijden86/arborview/pkg/version"
	"github.com/vanderheijden86/arborview/pkg/watcher"
)

// ViewMode selects the active main view.
type ViewMode int

const (
	ViewDiagram ViewMode = iota
	ViewTable
)

// Messages

// RowsLoadedMsg delivers a freshly loaded row set.
type RowsLoadedMsg struct {
	Rows []model.Row
}

// LoadErrMsg reports a failed load.
type LoadErrMsg struct {
	Err error
}

// FileChangedMsg signals that the watched data file changed on disk.
type FileChangedMsg struct{}

// Model is the root bubbletea model.
type Model struct {
	sc      *scene.Scene
	diagram DiagramModel
	table   TableModel
	theme   Theme

	mode      ViewMode
	width     int
	height    int
	statusMsg string
	loadErr   error

	search    textinput.Model
	searching bool

	// load re-reads the row source; wired by cmd/av so the UI stays
	// decoupled from the datasource package.
	load func() ([]model.Row, error)
	w    *watcher.Watcher
}

// ModelOptions configures the root model.
type ModelOptions struct {
	Scene   *scene.Scene
	Theme   Theme
	Mode    ViewMode
	Load    func() ([]model.Row, error)
	Watcher *watcher.Watcher
}

// NewModel creates the root model.
func NewModel(opts ModelOptions) Model {
	sc := opts.Scene
	if sc == nil {
		sc = scene.New(scene.DefaultOptions())
	}

	search := textinput.New()
	search.Placeholder = "search labels"
	search.Prompt = "/ "
	search.CharLimit = 120

	return Model{
		sc:      sc,
		diagram: NewDiagramModel(sc, opts.Theme),
		table:   NewTableModel(sc, opts.Theme),
		theme:   opts.Theme,
		mode:    opts.Mode,
		search:  search,
		load:    opts.Load,
		w:       opts.Watcher,
	}
}

// Scene exposes the shared scene, mainly for tests.
func (m Model) Scene() *scene.Scene { return m.sc }

// Init starts the initial load and the watcher listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCmd()}
	if m.w != nil {
		cmds = append(cmds, m.waitForChange())
	}
	return tea.Batch(cmds...)
}

func (m Model) loadCmd() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load := m.load
	return func() tea.Msg {
		rows, err := load()
		if err != nil {
			return LoadErrMsg{Err: err}
		}
		return RowsLoadedMsg{Rows: rows}
	}
}

func (m Model) waitForChange() tea.Cmd {
	ch := m.w.Changed()
	return func() tea.Msg {
		<-ch
		return FileChangedMsg{}
	}
}

// Update routes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeViews()
		return m, nil

	case RowsLoadedMsg:
		debug.Log("loaded %d rows", len(msg.Rows))
		m.loadErr = nil
		m.sc.SetRows(msg.Rows)
		return m, nil

	case LoadErrMsg:
		m.loadErr = msg.Err
		return m, nil

	case FileChangedMsg:
		debug.Log("data file changed, reloading")
		m.statusMsg = "reloaded"
		return m, tea.Batch(m.loadCmd(), m.waitForChange())

	case tea.MouseMsg:
		if m.mode == ViewDiagram {
			m.diagram.HandleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) resizeViews() {
	mainH := m.height - 2 // header + status bar
	if mainH < 0 {
		mainH = 0
	}
	m.diagram.SetSize(m.width, mainH)
	m.table.SetSize(m.width, mainH)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "/":
		m.searching = true
		m.search.SetValue(m.sc.Filters().SearchQuery)
		m.search.Focus()
		return m, textinput.Blink

	case "tab", "v":
		if m.mode == ViewDiagram {
			m.mode = ViewTable
		} else {
			m.mode = ViewDiagram
		}

	case "up", "k":
		if m.mode == ViewTable {
			m.sc.MoveFocus(-1)
		} else {
			m.sc.PanBy(0, 3*pxPerCellY)
		}
	case "down", "j":
		if m.mode == ViewTable {
			m.sc.MoveFocus(1)
		} else {
			m.sc.PanBy(0, -3*pxPerCellY)
		}
	case "left", "h":
		if m.mode == ViewDiagram {
			m.sc.PanBy(6*pxPerCellX, 0)
		}
	case "right", "l":
		if m.mode == ViewDiagram {
			m.sc.PanBy(-6*pxPerCellX, 0)
		}

	case "K":
		m.sc.MoveFocus(-1)
	case "J":
		m.sc.MoveFocus(1)

	case "+", "=":
		m.sc.ZoomBy(1.2)
	case "-":
		m.sc.ZoomBy(1 / 1.2)
	case "f", "0":
		m.sc.FitToViewport()

	case "enter", " ":
		if id := m.sc.FocusedID(); id != "" {
			m.sc.Select(id, false)
		}
	case "z":
		if id := m.sc.FocusedID(); id != "" {
			m.sc.ZoomToNode(id)
		}

	case "c":
		if id := m.sc.FocusedID(); id != "" {
			m.sc.ToggleCollapse(id)
		}
	case "C":
		m.sc.CollapseAll()
	case "E":
		m.sc.ExpandAll()

	case "p":
		if id := m.sc.FocusedID(); id != "" {
			m.sc.SetParentFilter(id)
			m.statusMsg = "parent filter: " + id
		}
	case "x":
		if id := m.sc.FocusedID(); id != "" {
			m.sc.SetHierarchyFilter(id)
			m.statusMsg = "hierarchy filter: " + id
		}
	case "d":
		m.cycleDropdownFilter()
	case "F", "esc":
		if m.sc.Filters().Active() {
			m.sc.ClearFilters()
			m.statusMsg = "filters cleared"
		}

	case "y":
		if id := m.sc.FocusedID(); id != "" {
			if err := clipboard.WriteAll(id); err != nil {
				m.statusMsg = "clipboard unavailable"
			} else {
				m.statusMsg = "copied " + id
			}
		}
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.sc.SetSearchQuery("")
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	// Live search: every keystroke refilters.
	m.sc.SetSearchQuery(m.search.Value())
	return m, cmd
}

// cycleDropdownFilter steps through the distinct tag values present in
// the full row set, ending back at no filter.
func (m *Model) cycleDropdownFilter() {
	seen := make(map[string]bool)
	var tags []string
	for _, r := range m.sc.Rows() {
		if r.DropdownTag != "" && !seen[r.DropdownTag] {
			seen[r.DropdownTag] = true
			tags = append(tags, r.DropdownTag)
		}
	}
	if len(tags) == 0 {
		m.statusMsg = "no tags in data"
		return
	}
	sort.Strings(tags)

	current := m.sc.Filters().DropdownFilter
	next := tags[0]
	if current != "" {
		next = ""
		for i, tag := range tags {
			if tag == current && i+1 < len(tags) {
				next = tags[i+1]
				break
			}
		}
	}
	m.sc.SetDropdownFilter(next)
	if next == "" {
		m.statusMsg = "tag filter cleared"
	} else {
		m.statusMsg = "tag filter: " + next
	}
}

// View renders header, main view, and status bar.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	var main string
	if m.mode == ViewDiagram {
		main = m.diagram.View()
	} else {
		main = m.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), main, m.statusView())
}

func (m Model) headerView() string {
	title := m.theme.Header.Render("av " + version.Version)

	mode := "diagram"
	if m.mode == ViewTable {
		mode = "table"
	}

	var right string
	if m.searching {
		right = m.search.View()
	} else if q := m.sc.Filters().SearchQuery; q != "" {
		right = m.theme.SecondaryText.Render("/" + q)
	}

	left := fmt.Sprintf("%s  %s", title, m.theme.SecondaryText.Render(mode))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) statusView() string {
	if m.loadErr != nil {
		return m.theme.ErrorText.Render(Truncate("load error: "+m.loadErr.Error(), m.width))
	}

	frame := m.sc.Frame()
	var parts []string

	switch frame.Outcome {
	case scene.OutcomeNodes:
		parts = append(parts, fmt.Sprintf("%d nodes", len(frame.Nodes)))
	case scene.OutcomeEmpty:
		parts = append(parts, "no matches")
	case scene.OutcomeMissingInput:
		parts = append(parts, "no data")
	case scene.OutcomeStructuralError:
		parts = append(parts, fmt.Sprintf("error: %v", frame.Err))
	}

	parts = append(parts, fmt.Sprintf("%.0f%%", m.sc.Transform().Scale*100))

	f := m.sc.Filters()
	if f.HierarchyFilter != "" {
		parts = append(parts, "pin:"+f.HierarchyFilter)
	}
	if f.ParentFilter != "" {
		parts = append(parts, "parent:"+f.ParentFilter)
	}
	if f.DropdownFilter != "" {
		parts = append(parts, "tag:"+f.DropdownFilter)
	}
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}

	help := "/:search tab:view c:collapse f:fit y:copy q:quit"
	left := m.theme.StatusBar.Render(strings.Join(parts, " │ "))
	right := m.theme.MutedText.Render(help)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return Truncate(left, m.width)
	}
	return left + strings.Repeat(" ", gap) + right
}
