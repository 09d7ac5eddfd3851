package hierarchy

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/arborview/pkg/model"
	"github.com/vanderheijden86/arborview/pkg/testutil"
)

func TestSearchClosureRetainsAncestors(t *testing.T) {
	rows := []model.Row{
		{ID: "A", Label: "A"},
		{ID: "B", ParentID: "A", Label: "B"},
		{ID: "C", ParentID: "A", Label: "C"},
		{ID: "D", ParentID: "B", Label: "D"},
	}

	got := ApplyFilters(rows, FilterState{SearchQuery: "D"})
	testutil.AssertIDs(t, got, "A", "B", "D")
	testutil.AssertConnected(t, got)
}

func TestSearchCaseInsensitive(t *testing.T) {
	rows := []model.Row{
		{ID: "A", Label: "Payments"},
		{ID: "B", ParentID: "A", Label: "Refund Service"},
	}

	got := ApplyFilters(rows, FilterState{SearchQuery: "refund"})
	testutil.AssertIDs(t, got, "A", "B")
}

func TestSearchMatchIncludesDescendants(t *testing.T) {
	rows := rowsFixture()

	// Matching B pulls in its ancestor A and its descendants D, E; the
	// sibling subtree C stays out.
	got := ApplyFilters(rows, FilterState{SearchQuery: "B"})
	testutil.AssertIDs(t, got, "A", "B", "D", "E")
}

func TestSearchNoMatchesYieldsEmpty(t *testing.T) {
	got := ApplyFilters(rowsFixture(), FilterState{SearchQuery: "zzz"})
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", model.IDs(got))
	}
}

func TestHierarchyFilterScopesAroundPin(t *testing.T) {
	got := ApplyFilters(rowsFixture(), FilterState{HierarchyFilter: "B"})
	testutil.AssertIDs(t, got, "A", "B", "D", "E")
}

func TestHierarchyFilterAbsentPinYieldsEmpty(t *testing.T) {
	got := ApplyFilters(rowsFixture(), FilterState{HierarchyFilter: "nope"})
	if len(got) != 0 {
		t.Errorf("expected empty result for absent pin, got %v", model.IDs(got))
	}
}

func TestParentFilterKeepsChainAndChildren(t *testing.T) {
	got := ApplyFilters(rowsFixture(), FilterState{ParentFilter: "B"})
	testutil.AssertIDs(t, got, "A", "B", "D", "E")
}

func TestParentFilterZeroChildrenIsNoOp(t *testing.T) {
	rows := rowsFixture()

	// D is a leaf; pinning it as parent leaves the set untouched.
	got := ApplyFilters(rows, FilterState{ParentFilter: "D"})
	testutil.AssertIDs(t, got, model.IDs(rows)...)
}

func TestDropdownFilterRootsClosureAtParent(t *testing.T) {
	rows := []model.Row{
		{ID: "A", Label: "A"},
		{ID: "B", ParentID: "A", Label: "B"},
		{ID: "C", ParentID: "B", Label: "C", DropdownTag: "svc"},
		{ID: "D", ParentID: "C", Label: "D"},
		{ID: "E", ParentID: "B", Label: "E"},
	}

	// The match is C; its closure is rooted at parent B, so B's ancestor
	// chain comes along, but B's other child E does not.
	got := ApplyFilters(rows, FilterState{DropdownFilter: "svc"})
	testutil.AssertIDs(t, got, "A", "B", "C", "D")
}

func TestDropdownFilterMatchesLabelAndID(t *testing.T) {
	rows := []model.Row{
		{ID: "A", Label: "A"},
		{ID: "B", ParentID: "A", Label: "billing"},
	}

	if got := ApplyFilters(rows, FilterState{DropdownFilter: "billing"}); len(got) == 0 {
		t.Error("dropdown value should match labels")
	}
	if got := ApplyFilters(rows, FilterState{DropdownFilter: "B"}); len(got) == 0 {
		t.Error("dropdown value should match ids")
	}
}

func TestPipelineStagesCompose(t *testing.T) {
	rows := []model.Row{
		{ID: "A", Label: "root"},
		{ID: "B", ParentID: "A", Label: "teams", DropdownTag: "group"},
		{ID: "C", ParentID: "B", Label: "alpha"},
		{ID: "D", ParentID: "B", Label: "beta"},
		{ID: "E", ParentID: "A", Label: "alpha standalone"},
	}

	// Dropdown narrows to B's subtree (closure rooted at A), then search
	// runs over those survivors only: E matches "alpha" but was already
	// filtered out by the earlier stage.
	got := ApplyFilters(rows, FilterState{DropdownFilter: "group", SearchQuery: "alpha"})
	testutil.AssertIDs(t, got, "A", "B", "C")
}

func TestFilterStateActive(t *testing.T) {
	tests := []struct {
		name string
		f    FilterState
		want bool
	}{
		{"empty", FilterState{}, false},
		{"search", FilterState{SearchQuery: "x"}, true},
		{"hierarchy", FilterState{HierarchyFilter: "x"}, true},
		{"parent", FilterState{ParentFilter: "x"}, true},
		{"dropdown", FilterState{DropdownFilter: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Active(); got != tt.want {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Property: whatever the input forest and query, filter output is a
// connected sub-hierarchy in original row order.
func TestFilterOutputConnectedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen := testutil.New(testutil.GeneratorConfig{
			Seed: rapid.Int64Range(1, 1<<20).Draw(t, "seed"),
		})
		trees := rapid.IntRange(1, 3).Draw(t, "trees")
		size := rapid.IntRange(1, 8).Draw(t, "size")
		rows := gen.Forest(trees, size)

		query := rapid.SampledFrom([]string{"n0", "n2", "t1", "Node", "zzz"}).Draw(t, "query")
		got := ApplyFilters(rows, FilterState{SearchQuery: query})

		testutil.AssertConnected(t, got)
		testutil.AssertOrderPreserved(t, rows, got)
	})
}

// Property: the hierarchy filter keeps exactly the pin's ancestor chain,
// the pin, and its descendants.
func TestHierarchyFilterClosureProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen := testutil.New(testutil.GeneratorConfig{
			Seed: rapid.Int64Range(1, 1<<20).Draw(t, "seed"),
		})
		rows := gen.Balanced(rapid.IntRange(1, 3).Draw(t, "depth"), 2)
		pin := rows[rapid.IntRange(0, len(rows)-1).Draw(t, "pin")].ID

		got := ApplyFilters(rows, FilterState{HierarchyFilter: pin})

		idx := BuildIndex(rows)
		want := map[string]bool{pin: true}
		for _, id := range idx.Ancestors(pin, nil) {
			want[id] = true
		}
		for _, id := range idx.Descendants(pin, nil) {
			want[id] = true
		}
		if len(got) != len(want) {
			t.Fatalf("kept %d rows, want %d", len(got), len(want))
		}
		for _, r := range got {
			if !want[r.ID] {
				t.Errorf("unexpected row %s in closure", r.ID)
			}
		}
	})
}
