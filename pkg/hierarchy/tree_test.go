package hierarchy

import (
	"reflect"
	"testing"

	"github.com/vanderheijden86/arborview/pkg/model"
	"github.com/vanderheijden86/arborview/pkg/testutil"
)

func TestConstructSingleRoot(t *testing.T) {
	tree, serr := Construct(rowsFixture(), ConstructOptions{})
	if serr != nil {
		t.Fatalf("unexpected error: %v", serr)
	}

	if tree.Synthetic {
		t.Error("single-root input must not get a synthetic root")
	}
	if got := tree.SingleRoot(); got != "A" {
		t.Errorf("SingleRoot() = %q, want A", got)
	}

	wantDepths := map[string]int{"A": 0, "B": 1, "C": 1, "D": 2, "E": 2}
	for id, want := range wantDepths {
		if got := tree.Nodes[id].Depth; got != want {
			t.Errorf("depth(%s) = %d, want %d", id, got, want)
		}
	}
	if !reflect.DeepEqual(tree.Children["A"], []string{"B", "C"}) {
		t.Errorf("Children[A] = %v", tree.Children["A"])
	}
}

func TestConstructTwoRootsSynthetic(t *testing.T) {
	rows := []model.Row{
		{ID: "A", Label: "A"},
		{ID: "B", Label: "B"},
	}
	tree, serr := Construct(rows, ConstructOptions{})
	if serr != nil {
		t.Fatalf("unexpected error: %v", serr)
	}

	if !tree.Synthetic {
		t.Fatal("two-root input must be marked synthetic")
	}
	if !reflect.DeepEqual(tree.Roots, []string{"A", "B"}) {
		t.Errorf("Roots = %v, want [A B]", tree.Roots)
	}
	// Both real roots sit at depth 0; the virtual parent is a tag on the
	// tree, not a node, and must not appear anywhere.
	for _, id := range []string{"A", "B"} {
		if d := tree.Nodes[id].Depth; d != 0 {
			t.Errorf("depth(%s) = %d, want 0", id, d)
		}
	}
	if len(tree.Nodes) != 2 || len(tree.Order) != 2 {
		t.Errorf("virtual root leaked into outputs: %d nodes, %d order", len(tree.Nodes), len(tree.Order))
	}
	if tree.SingleRoot() != "" {
		t.Error("SingleRoot() must be empty for a synthetic tree")
	}
}

func TestConstructEmptyInput(t *testing.T) {
	tree, serr := Construct(nil, ConstructOptions{})
	if serr != nil {
		t.Fatalf("empty input is a normal outcome, got error %v", serr)
	}
	if !tree.Empty() {
		t.Error("expected empty tree")
	}
}

func TestConstructDuplicateID(t *testing.T) {
	rows := testutil.NewDefault().WithDuplicate(4)
	tree, serr := Construct(rows, ConstructOptions{})

	if serr == nil {
		t.Fatal("expected duplicate id error")
	}
	if serr.Kind != DuplicateID {
		t.Errorf("Kind = %v, want DuplicateID", serr.Kind)
	}
	if serr.ID != rows[0].ID {
		t.Errorf("offending id = %q, want %q", serr.ID, rows[0].ID)
	}
	if tree != nil {
		t.Error("tree must be nil on structural failure")
	}
}

func TestConstructCycle(t *testing.T) {
	rows := testutil.NewDefault().WithCycle(3)
	tree, serr := Construct(rows, ConstructOptions{})

	if serr == nil {
		t.Fatal("expected cycle error")
	}
	if serr.Kind != Cycle {
		t.Errorf("Kind = %v, want Cycle", serr.Kind)
	}
	if serr.ID == "" {
		t.Error("cycle error should name a member id")
	}
	if tree != nil {
		t.Error("tree must be nil on structural failure")
	}
}

func TestConstructSelfParent(t *testing.T) {
	rows := []model.Row{{ID: "A", ParentID: "A"}}
	_, serr := Construct(rows, ConstructOptions{})
	if serr == nil || serr.Kind != Cycle || serr.ID != "A" {
		t.Errorf("got %v, want cycle at A", serr)
	}
}

func TestConstructDanglingParent(t *testing.T) {
	rows := []model.Row{
		{ID: "A", Label: "A"},
		{ID: "B", ParentID: "missing", Label: "B"},
	}

	// Non-strict: the orphan is promoted to a root.
	tree, serr := Construct(rows, ConstructOptions{})
	if serr != nil {
		t.Fatalf("non-strict construction must tolerate dangling parents: %v", serr)
	}
	if !reflect.DeepEqual(tree.Roots, []string{"A", "B"}) {
		t.Errorf("Roots = %v, want [A B]", tree.Roots)
	}
	if !tree.Synthetic {
		t.Error("promotion to root makes this a two-root tree")
	}

	// Strict: hard error naming the child.
	_, serr = Construct(rows, ConstructOptions{Strict: true})
	if serr == nil || serr.Kind != DanglingParent || serr.ID != "B" {
		t.Errorf("strict: got %v, want dangling parent at B", serr)
	}
}

func TestConstructBlankIDsTolerated(t *testing.T) {
	rows := []model.Row{
		{ID: "", Label: "nameless one"},
		{ID: "A", Label: "A"},
		{ID: "", Label: "nameless two"},
	}
	tree, serr := Construct(rows, ConstructOptions{})
	if serr != nil {
		t.Fatalf("blank ids must not fail construction: %v", serr)
	}
	if len(tree.Order) != 1 {
		t.Errorf("blank-id rows entered the tree: %v", tree.Order)
	}
}

func TestConstructOrderFollowsRowOrder(t *testing.T) {
	rows := []model.Row{
		{ID: "C", Label: "C"},
		{ID: "A", ParentID: "C", Label: "A"},
		{ID: "B", ParentID: "C", Label: "B"},
	}
	tree, serr := Construct(rows, ConstructOptions{})
	if serr != nil {
		t.Fatal(serr)
	}
	if !reflect.DeepEqual(tree.Order, []string{"C", "A", "B"}) {
		t.Errorf("Order = %v, want row order", tree.Order)
	}
	if !reflect.DeepEqual(tree.Children["C"], []string{"A", "B"}) {
		t.Errorf("Children[C] = %v, want row order", tree.Children["C"])
	}
}
