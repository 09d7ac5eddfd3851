// Package model defines the row shape consumed by the arborview core.
//
// Rows arrive from a data-binding layer (see internal/datasource) already
// associated with stable identities. The core never mutates a Row; a data
// refresh replaces the whole set, except for the drill-refresh overlay
// implemented in pkg/hierarchy.
package model

import (
	"errors"
	"fmt"
)

// Row is one input record of the hierarchy. ParentID is empty for root
// candidates; a ParentID that resolves to no known row also makes the row
// a root candidate rather than an error (the referenced parent may simply
// be outside the current working set).
type Row struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id,omitempty"`
	Label       string    `json:"label"`
	Value       *float64  `json:"value,omitempty"`
	Sparkline   []float64 `json:"sparkline,omitempty"`
	Tooltip     string    `json:"tooltip,omitempty"`
	DropdownTag string    `json:"tag,omitempty"`

	// Identity is an opaque token handed back to the host on selection
	// callbacks. The core never inspects it.
	Identity any `json:"-"`
}

// ErrBlankID reports a row with an empty id. Blank ids are tolerated at
// ingestion (the row simply never becomes a parent); Validate exists for
// callers that want to reject them up front.
var ErrBlankID = errors.New("row has blank id")

// Validate checks the minimal shape constraints on a single row.
// Duplicate ids across rows are detected later, at hierarchy-construction
// time, because they are a property of the set rather than the row.
func (r Row) Validate() error {
	if r.ID == "" {
		return ErrBlankID
	}
	return nil
}

// HasValue reports whether the optional scalar value is present.
func (r Row) HasValue() bool { return r.Value != nil }

// DisplayLabel returns the label, falling back to the id so a row without
// a label still renders as something selectable.
func (r Row) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.ID
}

// IDs returns the ids of a row slice in order.
func IDs(rows []Row) []string {
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].ID
	}
	return out
}

// ByID builds an id -> *Row lookup over the given slice. Later duplicates
// win, mirroring the overlay semantics of a drill refresh; construction is
// where duplicates become a hard error.
func ByID(rows []Row) map[string]*Row {
	m := make(map[string]*Row, len(rows))
	for i := range rows {
		m[rows[i].ID] = &rows[i]
	}
	return m
}

// Clone returns a deep copy of the row slice. Sparkline backing arrays are
// copied too so an overlay cannot alias cached data.
func Clone(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	for i := range out {
		if out[i].Sparkline != nil {
			sp := make([]float64, len(out[i].Sparkline))
			copy(sp, out[i].Sparkline)
			out[i].Sparkline = sp
		}
		if out[i].Value != nil {
			v := *out[i].Value
			out[i].Value = &v
		}
	}
	return out
}

// FormatValue renders the optional value for table display.
func (r Row) FormatValue() string {
	if r.Value == nil {
		return ""
	}
	return fmt.Sprintf("%g", *r.Value)
}
