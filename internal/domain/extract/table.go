// Package extract locates and extracts tabular data from uploaded PDF
// documents. Geometry and text decoding are delegated to PDF libraries;
// this package only selects between heuristic presets (profiles) and
// shapes the results into ordered row/column grids.
package extract

import (
	"fmt"
	"strings"
)

// Table is an ordered grid of text cells representing one detected table.
type Table struct {
	Name string     // Worksheet-friendly table name
	Page int        // 1-indexed source page, 0 when document-scoped
	Rows [][]string // Ordered rows of ordered cell strings
}

// RowCount returns the number of rows in the table.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColCount returns the widest row length.
func (t *Table) ColCount() int {
	max := 0
	for _, row := range t.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Profile selects a table-detection heuristic preset.
type Profile string

const (
	// ProfileAuto sniffs the document text and picks a preset.
	ProfileAuto Profile = "auto"
	// ProfileGeneric uses geometric table detection on any PDF.
	ProfileGeneric Profile = "generic"
	// ProfileShopeeIncome targets the Shopee seller income statement
	// layout and rebuilds its structured tables from statement text.
	ProfileShopeeIncome Profile = "shopee-income-statement"
)

// ParseProfile validates a user-supplied profile value. An empty value
// resolves to ProfileAuto.
func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return ProfileAuto, nil
	case ProfileAuto:
		return ProfileAuto, nil
	case ProfileGeneric:
		return ProfileGeneric, nil
	case ProfileShopeeIncome:
		return ProfileShopeeIncome, nil
	default:
		return "", fmt.Errorf("unknown extraction profile %q", s)
	}
}

// StatementMeta carries document-level fields recognized by statement
// profiles. Used for download naming and the summary worksheet.
type StatementMeta struct {
	Company     string
	Bank        string
	Username    string
	PeriodStart string
	PeriodEnd   string
}

// Period renders the statement period as "<start> to <end>".
func (m *StatementMeta) Period() string {
	if m.PeriodStart == "" || m.PeriodEnd == "" {
		return ""
	}
	return m.PeriodStart + " to " + m.PeriodEnd
}

// Result is the outcome of a successful extraction.
type Result struct {
	Profile Profile        // Preset actually applied after auto resolution
	Tables  []Table        // Tables in document order
	Meta    *StatementMeta // Non-nil for statement-style profiles
}
