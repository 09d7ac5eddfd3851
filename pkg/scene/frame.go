package scene

import (
	"github.com/vanderheijden86/arborview/pkg/hierarchy"
	"github.com/vanderheijden86/arborview/pkg/model"
)

// Outcome is the tri-state result of a recomputation. Hosts always get
// one of these back; nothing in the pipeline panics or throws.
type Outcome int

const (
	// OutcomeNodes: the frame has visible nodes to render.
	OutcomeNodes Outcome = iota
	// OutcomeEmpty: filters or search excluded every row — render a
	// "no matches" indicator, not a blank canvas.
	OutcomeEmpty
	// OutcomeMissingInput: no rows at all — a "getting started" state.
	OutcomeMissingInput
	// OutcomeStructuralError: duplicate id, cycle, or dangling parent;
	// node, link, and table outputs are empty and Err carries the reason.
	OutcomeStructuralError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNodes:
		return "nodes"
	case OutcomeEmpty:
		return "empty"
	case OutcomeMissingInput:
		return "missing-input"
	case OutcomeStructuralError:
		return "structural-error"
	default:
		return "unknown"
	}
}

// RenderNode is one positioned, visible node. Positions are in layout
// space; nodes are rebuilt wholesale on every recomputation and never
// mutated in place.
type RenderNode struct {
	Row   *model.Row
	ID    string
	Depth int
	X, Y  float64

	// HasChildren is true when the node has at least one child in the
	// filtered (pre-collapse) set, i.e. it is parent-capable and carries
	// a collapse toggle even while collapsed.
	HasChildren bool
	Collapsed   bool
}

// Link is one visible parent->child edge.
type Link struct {
	Source *RenderNode
	Target *RenderNode
}

// Frame is everything the host needs to render one recomputed state.
// Nodes preserve original row order; Table is the same visible nodes in
// hierarchical display order (pre-order), with Depth for indentation.
// The synthetic root of a multi-root forest never appears in any list.
type Frame struct {
	Outcome Outcome
	Err     *hierarchy.StructuralError
	Nodes   []*RenderNode
	Links   []Link
	Table   []*RenderNode

	byID map[string]*RenderNode
}

// Node returns the render node for an id, or nil.
func (f *Frame) Node(id string) *RenderNode {
	return f.byID[id]
}
