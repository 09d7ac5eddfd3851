// Package export renders static snapshots of a laid-out hierarchy so a
// view can be shared outside the terminal. SVG output is deterministic
// for a given frame, which keeps golden tests stable.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/arborview/pkg/layout"
	"github.com/vanderheijden86/arborview/pkg/scene"
)

// SnapshotOptions controls snapshot export behaviour.
type SnapshotOptions struct {
	Path      string           // Output path; format inferred from extension when Format empty
	Format    string           // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title     string           // Optional title rendered in the header block
	Frame     *scene.Frame     // Frame to render (already filtered and laid out)
	Footprint layout.Footprint // Card dimensions used by the layout
}

// SaveSnapshot renders a static snapshot (SVG or PNG) of the frame with
// a small header block.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Frame == nil || len(opts.Frame.Nodes) == 0 {
		return fmt.Errorf("no nodes to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	sl := buildSnapshotLayout(opts)

	switch format {
	case "svg":
		return renderSVG(opts.Path, sl)
	case "png":
		return renderPNG(opts.Path, sl)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// --- layout computation ----------------------------------------------------

type snapNode struct {
	ID        string
	Label     string
	Value     string
	Depth     int
	Collapsed bool
	X, Y      float64
	W, H      float64
}

type snapEdge struct {
	From, To string
}

type snapshotLayout struct {
	Nodes  []snapNode
	Edges  []snapEdge
	Width  int
	Height int
	Header float64
	Title  string
	Count  int
}

const (
	snapPadding = 36.0
	snapHeader  = 72.0
)

func buildSnapshotLayout(opts SnapshotOptions) snapshotLayout {
	fp := opts.Footprint
	if fp.CardWidth <= 0 {
		fp = layout.DefaultFootprint()
	}

	// Layout positions are card centers; shift them so the top-left card
	// edge lands at the padding origin.
	minX := math.Inf(1)
	minY := math.Inf(1)
	for _, n := range opts.Frame.Nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
	}

	var nodes []snapNode
	maxX, maxY := 0.0, 0.0
	for _, n := range opts.Frame.Nodes {
		sn := snapNode{
			ID:        n.ID,
			Label:     truncate(n.Row.DisplayLabel(), 40),
			Depth:     n.Depth,
			Collapsed: n.Collapsed,
			X:         n.X - minX + snapPadding + fp.CardWidth/2,
			Y:         n.Y - minY + snapPadding + snapHeader + fp.CardHeight/2,
			W:         fp.CardWidth,
			H:         fp.CardHeight,
		}
		if n.Row.HasValue() {
			sn.Value = n.Row.FormatValue()
		}
		maxX = math.Max(maxX, sn.X+sn.W/2)
		maxY = math.Max(maxY, sn.Y+sn.H/2)
		nodes = append(nodes, sn)
	}

	var edges []snapEdge
	for _, l := range opts.Frame.Links {
		edges = append(edges, snapEdge{From: l.Source.ID, To: l.Target.ID})
	}

	width := int(maxX + snapPadding)
	if width < 640 {
		width = 640
	}
	height := int(maxY + snapPadding)
	if height < 400 {
		height = 400
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Hierarchy Snapshot"
	}

	return snapshotLayout{
		Nodes:  nodes,
		Edges:  edges,
		Width:  width,
		Height: height,
		Header: snapHeader,
		Title:  title,
		Count:  len(nodes),
	}
}

// --- rendering -------------------------------------------------------------

var (
	colorRoot     = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorBranch   = color.RGBA{0xe3, 0xf2, 0xfd, 0xff}
	colorDeep     = color.RGBA{0xff, 0xf3, 0xe0, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorEdge     = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
)

func depthColor(depth int) color.RGBA {
	switch {
	case depth == 0:
		return colorRoot
	case depth < 3:
		return colorBranch
	default:
		return colorDeep
	}
}

func renderPNG(path string, sl snapshotLayout) error {
	dc := gg.NewContext(sl.Width, sl.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(sl.Width)-32, sl.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(sl.Title, 32, 34, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("nodes: %d  links: %d", sl.Count, len(sl.Edges)), 32, 52, 0, 0.5)

	nodePos := make(map[string]snapNode, len(sl.Nodes))
	for _, n := range sl.Nodes {
		nodePos[n.ID] = n
	}
	dc.SetColor(colorEdge)
	dc.SetLineWidth(1.5)
	for _, e := range sl.Edges {
		from := nodePos[e.From]
		to := nodePos[e.To]
		dc.DrawLine(from.X, from.Y, to.X, to.Y)
		dc.Stroke()
	}

	for _, n := range sl.Nodes {
		drawCard(dc, n)
	}

	return dc.SavePNG(path)
}

func renderSVG(path string, sl snapshotLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, sl)
}

func renderSVGToWriter(w io.Writer, sl snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(sl.Width, sl.Height)
	canvas.Rect(0, 0, sl.Width, sl.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, sl.Width-32, int(sl.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	canvas.Text(32, 38, sl.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 56, fmt.Sprintf("nodes: %d  links: %d", sl.Count, len(sl.Edges)),
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))

	nodePos := make(map[string]snapNode, len(sl.Nodes))
	for _, n := range sl.Nodes {
		nodePos[n.ID] = n
	}

	for _, e := range sl.Edges {
		from := nodePos[e.From]
		to := nodePos[e.To]
		canvas.Line(int(from.X), int(from.Y), int(to.X), int(to.Y),
			fmt.Sprintf("stroke:%s;stroke-width:1.5", css(colorEdge)))
	}

	for _, n := range sl.Nodes {
		x := int(n.X - n.W/2)
		y := int(n.Y - n.H/2)
		canvas.Roundrect(x, y, int(n.W), int(n.H), 8, 8,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.2", css(depthColor(n.Depth)), css(colorStroke)))
		canvas.Text(x+10, y+20, n.Label,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
		sub := n.ID
		if n.Value != "" {
			sub = fmt.Sprintf("%s  %s", n.ID, n.Value)
		}
		if n.Collapsed {
			sub += "  [+]"
		}
		canvas.Text(x+10, y+38, truncate(sub, 44),
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace", css(colorSubtle)))
	}

	canvas.End()
	return nil
}

func drawCard(dc *gg.Context, n snapNode) {
	x := n.X - n.W/2
	y := n.Y - n.H/2

	dc.SetColor(depthColor(n.Depth))
	dc.DrawRoundedRectangle(x, y, n.W, n.H, 8)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.SetLineWidth(1.2)
	dc.DrawRoundedRectangle(x, y, n.W, n.H, 8)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored(n.Label, x+10, y+16, 0, 0.5)
	sub := n.ID
	if n.Value != "" {
		sub = fmt.Sprintf("%s  %s", n.ID, n.Value)
	}
	if n.Collapsed {
		sub += "  [+]"
	}
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(truncate(sub, 44), x+10, y+34, 0, 0.5)
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
