package datasource

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/arborview/pkg/model"
)

// maxLineSize bounds a single JSONL line (16MB). Rows with large inline
// sparklines stay well under this.
const maxLineSize = 16 * 1024 * 1024

// LoadRowsFromFile reads rows from a JSONL file, one JSON object per line.
// Blank lines are skipped. A malformed line fails the whole load with its
// line number so the user can fix the file.
func LoadRowsFromFile(path string) ([]model.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rows file: %w", err)
	}
	defer f.Close()

	var rows []model.Row
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var r model.Row
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, fmt.Errorf("%s:%d: parsing row: %w", path, lineNo, err)
		}
		rows = append(rows, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return rows, nil
}

// countJSONLRows counts parseable row lines, failing on the first
// malformed one. Used during source validation.
func countJSONLRows(path string) (int, error) {
	rows, err := LoadRowsFromFile(path)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
