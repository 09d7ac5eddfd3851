package scene

// Hit is the result of a pointer hit-test. Toggle is true when the point
// landed on the collapse affordance rather than the card body; a toggle
// hit must not also select the node.
type Hit struct {
	Node   *RenderNode
	Toggle bool

	// OffsetX/OffsetY are the pointer's offsets within the card
	// rectangle, in screen pixels, for tooltip anchoring.
	OffsetX float64
	OffsetY float64
}

// HitTest maps a screen point to a node or collapse toggle, or nil.
// Toggle affordances are tested first across all nodes so a toggle always
// wins over an overlapping card. Cards are tested in reverse draw order:
// the topmost-drawn node claims the point.
func (s *Scene) HitTest(sx, sy float64) *Hit {
	nodes := s.frame.Nodes
	if len(nodes) == 0 {
		return nil
	}
	t := s.transform
	halfW := s.opts.Footprint.CardWidth / 2 * t.Scale
	halfH := s.opts.Footprint.CardHeight / 2 * t.Scale
	half := s.opts.ToggleSize / 2

	// Toggle pass. The affordance is a fixed-size screen square centered
	// on the card's bottom-right corner of each parent-capable node.
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if !n.HasChildren {
			continue
		}
		cx, cy := t.Apply(n.X, n.Y)
		tx, ty := cx+halfW, cy+halfH
		if sx >= tx-half && sx <= tx+half && sy >= ty-half && sy <= ty+half {
			return &Hit{Node: n, Toggle: true}
		}
	}

	// Card pass, topmost first.
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		cx, cy := t.Apply(n.X, n.Y)
		left, top := cx-halfW, cy-halfH
		if sx >= left && sx <= cx+halfW && sy >= top && sy <= cy+halfH {
			return &Hit{Node: n, OffsetX: sx - left, OffsetY: sy - top}
		}
	}
	return nil
}

// ToggleRect returns the screen-space collapse affordance square for a
// node, for rendering. ok is false for leaf nodes.
func (s *Scene) ToggleRect(n *RenderNode) (x, y, size float64, ok bool) {
	if n == nil || !n.HasChildren {
		return 0, 0, 0, false
	}
	t := s.transform
	cx, cy := t.Apply(n.X, n.Y)
	halfW := s.opts.Footprint.CardWidth / 2 * t.Scale
	halfH := s.opts.Footprint.CardHeight / 2 * t.Scale
	size = s.opts.ToggleSize
	return cx + halfW - size/2, cy + halfH - size/2, size, true
}
