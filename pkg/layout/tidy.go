// Package layout assigns 2D positions to the nodes of a constructed tree
// using a tidy (Reingold-Tilford style) algorithm: leaves are placed at
// successive slots, every parent is centered over the span of its
// children, and depth maps to the second axis. Positions are a pure
// function of tree shape, footprint, and orientation — sibling order is
// fixed by original row order, so identical inputs always produce
// identical coordinates.
package layout

import (
	"github.com/vanderheijden86/arborview/pkg/hierarchy"
)

// Orientation selects which axis depth grows along.
type Orientation int

const (
	// TopDown places siblings left-to-right and depth downward.
	TopDown Orientation = iota
	// LeftRight places siblings top-to-bottom and depth rightward; it is
	// produced by swapping the axes of a top-down layout post-hoc.
	LeftRight
)

// ParseOrientation maps a config string to an Orientation. Unknown values
// fall back to top-down.
func ParseOrientation(s string) Orientation {
	if s == "left-right" {
		return LeftRight
	}
	return TopDown
}

func (o Orientation) String() string {
	if o == LeftRight {
		return "left-right"
	}
	return "top-down"
}

// Footprint is the fixed per-node area: card size plus the gaps between
// siblings and between levels.
type Footprint struct {
	CardWidth  float64
	CardHeight float64
	SiblingGap float64
	LevelGap   float64
}

// DefaultFootprint returns the card dimensions used when a caller has no
// configured settings.
func DefaultFootprint() Footprint {
	return Footprint{
		CardWidth:  160,
		CardHeight: 48,
		SiblingGap: 24,
		LevelGap:   40,
	}
}

// Point is a node position in layout space (the card center).
type Point struct {
	X float64
	Y float64
}

// Tidy computes positions for every node of the tree. The synthetic root
// of a multi-root tree is laid out as a virtual parent of the real roots
// and then discarded; only real node ids appear in the result.
func Tidy(t *hierarchy.Tree, fp Footprint, o Orientation) map[string]Point {
	pos := make(map[string]Point, len(t.Order))
	if t.Empty() {
		return pos
	}

	slotW := fp.CardWidth + fp.SiblingGap
	levelH := fp.CardHeight + fp.LevelGap

	// First walk: post-order slot assignment. Leaves take the next free
	// slot; internal nodes center over their first and last child.
	slots := make(map[string]float64, len(t.Order))
	nextSlot := 0.0
	var place func(id string)
	place = func(id string) {
		kids := t.Children[id]
		if len(kids) == 0 {
			slots[id] = nextSlot
			nextSlot++
			return
		}
		for _, kid := range kids {
			place(kid)
		}
		first := slots[kids[0]]
		last := slots[kids[len(kids)-1]]
		slots[id] = (first + last) / 2
	}
	for _, root := range t.Roots {
		place(root)
	}

	// Second walk: slots and depths to coordinates.
	for _, id := range t.Order {
		n := t.Nodes[id]
		p := Point{X: slots[id] * slotW, Y: float64(n.Depth) * levelH}
		if o == LeftRight {
			p.X, p.Y = p.Y, p.X
		}
		pos[id] = p
	}
	return pos
}

// Bounds returns the bounding box of all node footprints (position plus
// half a card in every direction). The card keeps its width/height in
// both orientations; only positions swap axes. ok is false for an empty
// layout.
func Bounds(pos map[string]Point, order []string, fp Footprint) (minX, minY, maxX, maxY float64, ok bool) {
	w, h := fp.CardWidth, fp.CardHeight
	for _, id := range order {
		p, present := pos[id]
		if !present {
			continue
		}
		if !ok {
			minX, maxX = p.X-w/2, p.X+w/2
			minY, maxY = p.Y-h/2, p.Y+h/2
			ok = true
			continue
		}
		if p.X-w/2 < minX {
			minX = p.X - w/2
		}
		if p.X+w/2 > maxX {
			maxX = p.X + w/2
		}
		if p.Y-h/2 < minY {
			minY = p.Y - h/2
		}
		if p.Y+h/2 > maxY {
			maxY = p.Y + h/2
		}
	}
	return minX, minY, maxX, maxY, ok
}
