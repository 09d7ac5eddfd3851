// Package datasource provides multi-source data detection and selection
// for av. It discovers, validates, and selects the freshest valid source
// from SQLite databases and JSONL files.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (rows.db)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSONL is a JSONL file (one row object per line)
	SourceTypeJSONL SourceType = "jsonl"
)

// Priority values for source types (higher = more authoritative)
const (
	PrioritySQLite = 100
	PriorityJSONL  = 50
)

// DataSource represents a potential source of row data
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// Priority determines preference when timestamps are equal (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// RowCount is the number of rows in the source (set during validation)
	RowCount int `json:"row_count"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, rows=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.RowCount, status)
}

// DiscoveryOptions configures source discovery behavior
type DiscoveryOptions struct {
	// DataDir is the directory to scan (optional, auto-detected if empty)
	DataDir string
	// ValidateAfterDiscovery runs validation on each discovered source
	ValidateAfterDiscovery bool
	// IncludeInvalid includes sources that failed validation in results
	IncludeInvalid bool
	// Verbose enables detailed logging during discovery
	Verbose bool
	// Logger receives log messages when Verbose is true
	Logger func(msg string)
}

// DiscoverSources finds all potential data sources in the data directory.
// Candidates are *.jsonl files and *.db SQLite databases.
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	if opts.Logger == nil {
		opts.Logger = func(string) {}
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		if envDir := os.Getenv("AV_DATA_DIR"); envDir != "" {
			dataDir = envDir
		} else {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			dataDir = cwd
		}
	}

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovering sources in: %s", dataDir))
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var sources []DataSource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		var typ SourceType
		var priority int
		switch {
		case strings.HasSuffix(name, ".jsonl"):
			// Skip backups and merge artifacts
			if strings.Contains(name, ".backup") || strings.Contains(name, ".orig") {
				continue
			}
			typ = SourceTypeJSONL
			priority = PriorityJSONL
		case strings.HasSuffix(name, ".db") || strings.HasSuffix(name, ".sqlite"):
			typ = SourceTypeSQLite
			priority = PrioritySQLite
		default:
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		sources = append(sources, DataSource{
			Type:     typ,
			Path:     filepath.Join(dataDir, name),
			Priority: priority,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})

		if opts.Verbose {
			opts.Logger(fmt.Sprintf("Found %s: %s (mod=%s)", typ, name, info.ModTime().Format(time.RFC3339)))
		}
	}

	if opts.ValidateAfterDiscovery {
		validateAll(sources, opts)
	}

	if opts.ValidateAfterDiscovery && !opts.IncludeInvalid {
		var validSources []DataSource
		for _, s := range sources {
			if s.Valid {
				validSources = append(validSources, s)
			}
		}
		sources = validSources
	}

	// Sort by mod time, priority breaking ties
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	if opts.Verbose {
		opts.Logger(fmt.Sprintf("Discovered %d sources", len(sources)))
	}

	return sources, nil
}

// validateAll probes sources concurrently. Validation touches the
// filesystem per source, so the fan-out pays off on slow disks.
func validateAll(sources []DataSource, opts DiscoveryOptions) {
	var g errgroup.Group
	g.SetLimit(4)
	for i := range sources {
		src := &sources[i]
		g.Go(func() error {
			if err := ValidateSource(src); err != nil && opts.Verbose {
				opts.Logger(fmt.Sprintf("Validation failed for %s: %v", src.Path, err))
			}
			return nil
		})
	}
	g.Wait()
}

// ValidateSource checks that the source can be opened and counted.
// Updates Valid, ValidationError, and RowCount in place.
func ValidateSource(s *DataSource) error {
	var count int
	var err error

	switch s.Type {
	case SourceTypeJSONL:
		count, err = countJSONLRows(s.Path)
	case SourceTypeSQLite:
		count, err = countSQLiteRows(s.Path)
	default:
		err = fmt.Errorf("unknown source type: %s", s.Type)
	}

	if err != nil {
		s.Valid = false
		s.ValidationError = err.Error()
		return err
	}

	s.Valid = true
	s.ValidationError = ""
	s.RowCount = count
	return nil
}

// SelectBestSource returns the freshest valid source. Sources must
// already be sorted by DiscoverSources.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	for _, s := range sources {
		if s.Valid {
			return s, nil
		}
	}
	return DataSource{}, fmt.Errorf("no valid source among %d candidates", len(sources))
}
