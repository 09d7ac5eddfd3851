package hierarchy

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/arborview/pkg/model"
)

// StructuralErrorKind classifies hard construction failures.
type StructuralErrorKind int

const (
	// DuplicateID means the same id appeared on more than one row.
	DuplicateID StructuralErrorKind = iota
	// Cycle means a node is its own ancestor.
	Cycle
	// DanglingParent means a parent reference resolves to no node in the
	// working set (strict construction only; the pipeline turns missing
	// parents into roots instead).
	DanglingParent
)

func (k StructuralErrorKind) String() string {
	switch k {
	case DuplicateID:
		return "duplicate id"
	case Cycle:
		return "cycle"
	case DanglingParent:
		return "dangling parent reference"
	default:
		return "unknown"
	}
}

// StructuralError is the tagged failure result of Construct. It is
// returned as a value, never thrown, so callers always see the tri-state
// outcome (tree / empty / structural failure) without exception machinery.
type StructuralError struct {
	Kind StructuralErrorKind
	ID   string // offending node id
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("hierarchy: %s at %q", e.Kind, e.ID)
}

// Node is one arena record of a constructed tree. Depth is 0 for real
// roots regardless of whether a synthetic root was inserted above them.
type Node struct {
	Row   *model.Row
	ID    string
	Depth int
}

// Tree is a single-rooted hierarchy over a visible row set. When the
// input had zero or multiple roots, Synthetic is true and the tree's
// entry point is a virtual parent of every id in Roots; the virtual root
// is a tag on the Tree, not a node, so it can never collide with a real
// id and never leaks into nodes, links, or table output.
type Tree struct {
	Synthetic bool
	Roots     []string // real root ids, original row order
	Nodes     map[string]*Node
	Children  map[string][]string // recomputed per construction, id -> ordered child ids
	Order     []string            // every id in original row order
}

// Empty reports whether the tree has no real nodes.
func (t *Tree) Empty() bool { return len(t.Order) == 0 }

// SingleRoot returns the sole root id when Synthetic is false.
func (t *Tree) SingleRoot() string {
	if t.Synthetic || len(t.Roots) == 0 {
		return ""
	}
	return t.Roots[0]
}

// ConstructOptions tunes Construct.
type ConstructOptions struct {
	// Strict rejects parent references that resolve to no row in the
	// working set instead of promoting the child to a root. The view
	// pipeline runs non-strict because filtering legitimately removes
	// parents; strict mode is for hosts validating raw ingested data.
	Strict bool
}

// Construct builds a single-rooted tree from the visible row set.
// It rejects duplicate ids, cycles, and (in strict mode) dangling parent
// references; on failure the returned tree is nil and the error carries
// the offending id. An empty input yields an empty tree and no error —
// empty is a normal outcome, not a failure.
func Construct(rows []model.Row, opts ConstructOptions) (*Tree, *StructuralError) {
	t := &Tree{
		Nodes:    make(map[string]*Node, len(rows)),
		Children: make(map[string][]string, len(rows)),
		Order:    make([]string, 0, len(rows)),
	}
	if len(rows) == 0 {
		return t, nil
	}

	byID := make(map[string]*model.Row, len(rows))
	for i := range rows {
		r := &rows[i]
		if r.ID == "" {
			continue // blank ids are tolerated, they just never enter the tree
		}
		if _, dup := byID[r.ID]; dup {
			return nil, &StructuralError{Kind: DuplicateID, ID: r.ID}
		}
		byID[r.ID] = r
		t.Order = append(t.Order, r.ID)
	}

	for i := range rows {
		r := &rows[i]
		if r.ID == "" {
			continue
		}
		if r.ParentID == "" {
			t.Roots = append(t.Roots, r.ID)
			continue
		}
		if _, ok := byID[r.ParentID]; !ok {
			if opts.Strict {
				return nil, &StructuralError{Kind: DanglingParent, ID: r.ID}
			}
			t.Roots = append(t.Roots, r.ID)
			continue
		}
		t.Children[r.ParentID] = append(t.Children[r.ParentID], r.ID)
	}

	if err := DetectCycle(rows); err != nil {
		return nil, err
	}

	// Assign depths by walking down from the real roots. Every node is
	// reachable once cycles are excluded, because each non-root's parent
	// is present in the working set.
	for i := range t.Order {
		id := t.Order[i]
		t.Nodes[id] = &Node{Row: byID[id], ID: id}
	}
	for _, root := range t.Roots {
		assignDepth(t, root, 0)
	}

	t.Synthetic = len(t.Roots) != 1
	return t, nil
}

func assignDepth(t *Tree, id string, depth int) {
	t.Nodes[id].Depth = depth
	for _, kid := range t.Children[id] {
		assignDepth(t, kid, depth+1)
	}
}

// DetectCycle reports whether the row set contains a parent cycle. It runs
// a topological sort over the parent->child edges and maps an unorderable
// component back to one of its member ids. Callers projecting rows through
// a root-reachability walk must run this on the unprojected set first:
// cycle members have no root, so such a walk silently drops them.
func DetectCycle(rows []model.Row) *StructuralError {
	g := simple.NewDirectedGraph()
	nodeOf := make(map[string]int64, len(rows))
	idOf := make(map[int64]string, len(rows))
	for i := range rows {
		if rows[i].ID == "" {
			continue
		}
		n := int64(i)
		nodeOf[rows[i].ID] = n
		idOf[n] = rows[i].ID
		g.AddNode(simple.Node(n))
	}
	for i := range rows {
		r := &rows[i]
		if r.ID == "" || r.ParentID == "" {
			continue
		}
		if r.ParentID == r.ID {
			return &StructuralError{Kind: Cycle, ID: r.ID}
		}
		p, ok := nodeOf[r.ParentID]
		if !ok {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(p), simple.Node(nodeOf[r.ID])))
	}
	if _, err := topo.Sort(g); err != nil {
		if un, ok := err.(topo.Unorderable); ok && len(un) > 0 && len(un[0]) > 0 {
			return &StructuralError{Kind: Cycle, ID: idOf[un[0][0].ID()]}
		}
		return &StructuralError{Kind: Cycle, ID: ""}
	}
	return nil
}
