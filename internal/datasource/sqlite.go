package datasource

import (
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/arborview/pkg/model"
)

// SQLiteReader provides read access to a rows SQLite database.
//
// Expected schema:
//
//	CREATE TABLE rows (
//	    id        TEXT PRIMARY KEY,
//	    parent_id TEXT,
//	    label     TEXT,
//	    value     REAL,
//	    tooltip   TEXT,
//	    tag       TEXT,
//	    sparkline TEXT,          -- JSON array of numbers
//	    position  INTEGER        -- display order
//	);
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	// Open in read-only mode with various pragmas for read performance
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_journal_mode=WAL", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -64000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		db.Exec(pragma) // non-fatal
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRows reads all rows from the database in position order. Position
// order is the display order the viewer preserves through filtering.
func (r *SQLiteReader) LoadRows() ([]model.Row, error) {
	query := `
		SELECT id, parent_id, label, value, tooltip, tag, sparkline
		FROM rows
		ORDER BY position, id
	`

	sqlRows, err := r.db.Query(query)
	if err != nil {
		// Try without the position column
		return r.loadRowsSimple()
	}
	defer sqlRows.Close()

	return scanRows(sqlRows)
}

// loadRowsSimple is a fallback for databases without a position column.
func (r *SQLiteReader) loadRowsSimple() ([]model.Row, error) {
	query := `
		SELECT id, parent_id, label, value, tooltip, tag, sparkline
		FROM rows
		ORDER BY id
	`
	sqlRows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer sqlRows.Close()

	return scanRows(sqlRows)
}

func scanRows(sqlRows *sql.Rows) ([]model.Row, error) {
	var rows []model.Row
	for sqlRows.Next() {
		var row model.Row
		var parentID, label, tooltip, tag, sparklineJSON sql.NullString
		var value sql.NullFloat64

		err := sqlRows.Scan(&row.ID, &parentID, &label, &value, &tooltip, &tag, &sparklineJSON)
		if err != nil {
			return nil, fmt.Errorf("scanning row %d: %w", len(rows)+1, err)
		}

		if parentID.Valid {
			row.ParentID = parentID.String
		}
		if label.Valid {
			row.Label = label.String
		}
		if value.Valid {
			v := value.Float64
			row.Value = &v
		}
		if tooltip.Valid {
			row.Tooltip = tooltip.String
		}
		if tag.Valid {
			row.DropdownTag = tag.String
		}
		if sparklineJSON.Valid && sparklineJSON.String != "" && sparklineJSON.String != "null" {
			var points []float64
			if err := json.Unmarshal([]byte(sparklineJSON.String), &points); err == nil {
				row.Sparkline = points
			}
		}

		rows = append(rows, row)
	}
	if err := sqlRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return rows, nil
}

// CountRows returns the number of rows in the database
func (r *SQLiteReader) CountRows() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM rows").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetLastModified returns the most recent update time if the table
// carries an updated_at column, or the zero time otherwise.
func (r *SQLiteReader) GetLastModified() (time.Time, error) {
	var updatedAt sql.NullTime
	err := r.db.QueryRow("SELECT MAX(updated_at) FROM rows").Scan(&updatedAt)
	if err != nil {
		return time.Time{}, nil
	}
	if !updatedAt.Valid {
		return time.Time{}, nil
	}
	return updatedAt.Time, nil
}

// countSQLiteRows opens the database just long enough to count rows.
func countSQLiteRows(path string) (int, error) {
	reader, err := NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: path})
	if err != nil {
		return 0, err
	}
	defer reader.Close()
	return reader.CountRows()
}
