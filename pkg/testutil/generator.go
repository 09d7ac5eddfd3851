// Package testutil provides test fixture generators for various hierarchy
// topologies. All generators produce deterministic output for reproducible
// tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/arborview/pkg/model"
)

// GeneratorConfig controls row generation.
type GeneratorConfig struct {
	Seed          int64  // Random seed for determinism (0 = 42)
	IDPrefix      string // Prefix for row IDs (default: "test")
	IncludeValues bool   // Generate numeric values
	IncludeTags   bool   // Generate dropdown tags
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		IDPrefix: "test",
	}
}

// Generator creates row fixtures with various topologies.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "test"
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

func (g *Generator) id(name string) string {
	return fmt.Sprintf("%s-%s", g.cfg.IDPrefix, name)
}

func (g *Generator) row(name, parentName string) model.Row {
	r := model.Row{
		ID:    g.id(name),
		Label: fmt.Sprintf("Node %s", name),
	}
	if parentName != "" {
		r.ParentID = g.id(parentName)
	}
	if g.cfg.IncludeValues {
		v := float64(g.rng.Intn(1000)) / 10
		r.Value = &v
	}
	if g.cfg.IncludeTags {
		r.DropdownTag = sampleTags[g.rng.Intn(len(sampleTags))]
	}
	return r
}

var sampleTags = []string{"region", "service", "team", "cluster", "tier"}

// Chain creates a linear chain: root <- n1 <- n2 <- ... <- n{size-1}.
// Depth of the last node is size-1.
func (g *Generator) Chain(size int) []model.Row {
	rows := make([]model.Row, 0, size)
	for i := 0; i < size; i++ {
		name := fmt.Sprintf("n%d", i)
		parent := ""
		if i > 0 {
			parent = fmt.Sprintf("n%d", i-1)
		}
		rows = append(rows, g.row(name, parent))
	}
	return rows
}

// Balanced creates a tree with the given depth and branching factor.
// Every non-leaf node has breadth children.
func (g *Generator) Balanced(depth, breadth int) []model.Row {
	if depth < 1 {
		depth = 1
	}
	if breadth < 1 {
		breadth = 1
	}

	var rows []model.Row
	nodeID := 0

	rootName := fmt.Sprintf("n%d", nodeID)
	rows = append(rows, g.row(rootName, ""))
	nodeID++

	currentLevel := []string{rootName}
	for d := 0; d < depth; d++ {
		var nextLevel []string
		for _, parent := range currentLevel {
			for b := 0; b < breadth; b++ {
				name := fmt.Sprintf("n%d", nodeID)
				rows = append(rows, g.row(name, parent))
				nextLevel = append(nextLevel, name)
				nodeID++
			}
		}
		currentLevel = nextLevel
	}
	return rows
}

// Forest creates multiple independent trees, each a chain of treeSize rows.
// Multiple roots exercise the synthetic-root path.
func (g *Generator) Forest(trees, treeSize int) []model.Row {
	var rows []model.Row
	for t := 0; t < trees; t++ {
		for i := 0; i < treeSize; i++ {
			name := fmt.Sprintf("t%d_n%d", t, i)
			parent := ""
			if i > 0 {
				parent = fmt.Sprintf("t%d_n%d", t, i-1)
			}
			rows = append(rows, g.row(name, parent))
		}
	}
	return rows
}

// WithCycle creates a parent loop: n0 -> n1 -> ... -> n{size-1} -> n0.
// Construction must reject this input.
func (g *Generator) WithCycle(size int) []model.Row {
	rows := make([]model.Row, 0, size)
	for i := 0; i < size; i++ {
		name := fmt.Sprintf("n%d", i)
		parent := fmt.Sprintf("n%d", (i+size-1)%size)
		rows = append(rows, g.row(name, parent))
	}
	return rows
}

// WithDuplicate creates a chain whose last row reuses the first row's ID.
func (g *Generator) WithDuplicate(size int) []model.Row {
	rows := g.Chain(size)
	dup := rows[len(rows)-1]
	dup.ID = rows[0].ID
	rows[len(rows)-1] = dup
	return rows
}

// WithDangling creates a chain plus one row whose parent does not exist.
func (g *Generator) WithDangling(size int) []model.Row {
	rows := g.Chain(size)
	orphan := g.row("orphan", "")
	orphan.ParentID = g.id("missing")
	return append(rows, orphan)
}

// Subset returns the rows whose IDs appear in keep, preserving order.
// Useful for building drill-refresh payloads.
func Subset(rows []model.Row, keep ...string) []model.Row {
	set := make(map[string]bool, len(keep))
	for _, id := range keep {
		set[id] = true
	}
	out := make([]model.Row, 0, len(keep))
	for _, r := range rows {
		if set[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

// ToJSONL converts rows to JSONL format (one JSON object per line).
func ToJSONL(rows []model.Row) string {
	var sb strings.Builder
	for _, r := range rows {
		data, err := json.Marshal(r)
		if err != nil {
			continue
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Empty returns an empty row slice for edge case testing.
func Empty() []model.Row {
	return []model.Row{}
}

// Single returns one root row with no children.
func Single() []model.Row {
	gen := NewDefault()
	return []model.Row{gen.row("single", "")}
}
