package datasource

import (
	"fmt"
	"os"
	"strings"

	"github.com/vanderheijden86/arborview/pkg/model"
)

// LoadRows loads rows from an explicit path or, when path is a
// directory, performs source detection within it: discover candidates,
// validate them, and load from the freshest valid one. SQLite is
// preferred over JSONL at equal freshness since the database reflects
// the most recent state.
func LoadRows(path string) ([]model.Row, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("data path: %w", err)
	}

	if !info.IsDir() {
		return loadFile(path)
	}

	sources, err := DiscoverSources(DiscoveryOptions{
		DataDir:                path,
		ValidateAfterDiscovery: true,
		IncludeInvalid:         false,
	})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no row sources found in %s", path)
	}

	best, err := SelectBestSource(sources)
	if err != nil {
		return nil, err
	}
	return LoadFromSource(best)
}

// LoadFromSource loads rows from a specific DataSource, dispatching to
// the appropriate reader based on source type.
func LoadFromSource(source DataSource) ([]model.Row, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadRows()

	case SourceTypeJSONL:
		return LoadRowsFromFile(source.Path)

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}

// loadFile dispatches a direct file path on its extension.
func loadFile(path string) ([]model.Row, error) {
	switch {
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"):
		return LoadFromSource(DataSource{Type: SourceTypeSQLite, Path: path})
	default:
		return LoadRowsFromFile(path)
	}
}
