package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"pgregory.net/rapid"

	"github.com/vanderheijden86/arborview/pkg/model"
)

// AssertRowCount verifies the expected number of rows.
func AssertRowCount(t *testing.T, rows []model.Row, expected int) {
	t.Helper()
	if len(rows) != expected {
		t.Errorf("expected %d rows, got %d", expected, len(rows))
	}
}

// AssertNoDuplicateIDs verifies all row IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, rows []model.Row) {
	t.Helper()
	seen := make(map[string]bool)
	for _, r := range rows {
		if seen[r.ID] {
			t.Errorf("duplicate row ID: %s", r.ID)
		}
		seen[r.ID] = true
	}
}

// AssertIDs verifies the rows carry exactly the expected IDs in order.
// Accepts rapid.TB so it works under both *testing.T and *rapid.T.
func AssertIDs(t rapid.TB, rows []model.Row, expected ...string) {
	t.Helper()
	if len(rows) != len(expected) {
		t.Fatalf("expected IDs %v, got %v", expected, model.IDs(rows))
	}
	for i, r := range rows {
		if r.ID != expected[i] {
			t.Errorf("row %d: expected ID %s, got %s", i, expected[i], r.ID)
		}
	}
}

// AssertContainsID verifies a row with the given ID is present.
func AssertContainsID(t *testing.T, rows []model.Row, id string) {
	t.Helper()
	for _, r := range rows {
		if r.ID == id {
			return
		}
	}
	t.Errorf("expected row %s not found in %v", id, model.IDs(rows))
}

// AssertConnected verifies every row's parent is either blank or also
// present in the slice. Filter output must always satisfy this.
// Accepts rapid.TB so it works under both *testing.T and *rapid.T.
func AssertConnected(t rapid.TB, rows []model.Row) {
	t.Helper()
	present := make(map[string]bool, len(rows))
	for _, r := range rows {
		present[r.ID] = true
	}
	for _, r := range rows {
		if r.ParentID != "" && !present[r.ParentID] {
			t.Errorf("row %s references parent %s which is not in the set", r.ID, r.ParentID)
		}
	}
}

// AssertOrderPreserved verifies that rows appear in the same relative
// order as in the original slice.
// Accepts rapid.TB so it works under both *testing.T and *rapid.T.
func AssertOrderPreserved(t rapid.TB, original, subset []model.Row) {
	t.Helper()
	pos := make(map[string]int, len(original))
	for i, r := range original {
		pos[r.ID] = i
	}
	last := -1
	for _, r := range subset {
		p, ok := pos[r.ID]
		if !ok {
			t.Errorf("row %s not present in the original slice", r.ID)
			continue
		}
		if p < last {
			t.Errorf("row %s out of order relative to the original slice", r.ID)
		}
		last = p
	}
}

// FindRow returns the row with the given ID, or nil if not found.
func FindRow(rows []model.Row, id string) *model.Row {
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i]
		}
	}
	return nil
}

// WriteRowsFile writes rows as JSONL to the given path, creating parent
// directories as needed.
func WriteRowsFile(t *testing.T, path string, rows []model.Row) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(ToJSONL(rows)), 0644); err != nil {
		t.Fatalf("failed to write rows file: %v", err)
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) != actual {
		expectedLines := strings.Split(string(expected), "\n")
		actualLines := strings.Split(actual, "\n")
		for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
			var expLine, actLine string
			if i < len(expectedLines) {
				expLine = expectedLines[i]
			}
			if i < len(actualLines) {
				actLine = actualLines[i]
			}
			if expLine != actLine {
				g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s",
					i+1, expLine, actLine)
				return
			}
		}
		g.t.Errorf("golden file mismatch (length differs)")
	}
}

// AssertJSON compares actual value as JSON against the golden file.
func (g *GoldenFile) AssertJSON(actual interface{}) {
	g.t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		g.t.Fatalf("failed to marshal actual value: %v", err)
	}
	g.Assert(string(data))
}
