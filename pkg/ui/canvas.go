package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cell classes; the canvas stores a class per cell and resolves it to a
// lipgloss style once per render.
type cellClass uint8

const (
	classNone cellClass = iota
	classEdge
	classBorder
	classText
	classSubtle
	classToggle
	classFocus
	classSelect
)

type cell struct {
	ch    rune
	class cellClass
}

// canvas is a fixed-size grid of styled runes the diagram view draws
// into. Out-of-bounds writes are clipped silently, which keeps the
// drawing code free of edge checks while panning.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i].ch = ' '
	}
	return c
}

func (c *canvas) set(x, y int, ch rune, class cellClass) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{ch: ch, class: class}
}

// text draws a string starting at (x, y), advancing by rune display
// width. Wide runes occupy two cells; the second is blanked so the
// terminal doesn't render stale content under them.
func (c *canvas) text(x, y int, s string, class cellClass) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.set(x, y, r, class)
		if w == 2 {
			c.set(x+1, y, 0, class) // continuation cell
		}
		x += w
	}
}

// box draws a rectangle border with rounded corners. Interior cells are
// cleared so cards occlude edges drawn earlier.
func (c *canvas) box(x, y, w, h int, class cellClass) {
	if w < 2 || h < 2 {
		return
	}
	for iy := y + 1; iy < y+h-1; iy++ {
		for ix := x + 1; ix < x+w-1; ix++ {
			c.set(ix, iy, ' ', classNone)
		}
	}
	for ix := x + 1; ix < x+w-1; ix++ {
		c.set(ix, y, '─', class)
		c.set(ix, y+h-1, '─', class)
	}
	for iy := y + 1; iy < y+h-1; iy++ {
		c.set(x, iy, '│', class)
		c.set(x+w-1, iy, '│', class)
	}
	c.set(x, y, '╭', class)
	c.set(x+w-1, y, '╮', class)
	c.set(x, y+h-1, '╰', class)
	c.set(x+w-1, y+h-1, '╯', class)
}

// line draws a dotted segment between two points (Bresenham).
func (c *canvas) line(x0, y0, x1, y1 int, class cellClass) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if got := c.at(x0, y0); got == ' ' || got == '·' {
			c.set(x0, y0, '·', class)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) at(x, y int) rune {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return 0
	}
	return c.cells[y*c.w+x].ch
}

// render flattens the grid to styled terminal lines. Runs of cells with
// the same class are styled together to keep the output small.
func (c *canvas) render(styles map[cellClass]lipgloss.Style) string {
	var sb strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		runClass := classNone
		run.Reset()
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := styles[runClass]; ok && runClass != classNone {
				sb.WriteString(st.Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.ch == 0 {
				continue // wide rune continuation
			}
			if cl.class != runClass {
				flush()
				runClass = cl.class
			}
			run.WriteRune(cl.ch)
		}
		flush()
		if y < c.h-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
