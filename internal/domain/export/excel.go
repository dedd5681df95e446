// Package export serializes extracted tables into downloadable files.
// The xlsx container is produced with excelize; a CSV rendering of
// two-column summary tables is also available.
package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Figo14045/pdf-to-excel-converter/internal/domain/extract"
)

// Excel worksheet names: max 31 chars, a handful of forbidden characters.
const maxSheetNameLen = 31

var sheetNameSanitizer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// WriteWorkbook serializes tables into an xlsx workbook, one worksheet per
// table in order. Cell values that parse as numbers are written as numbers
// so the spreadsheet is immediately usable for analysis.
func WriteWorkbook(tables []extract.Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("write workbook: no tables to write")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	used := make(map[string]bool, len(tables))
	for i, table := range tables {
		name := uniqueSheetName(table.Name, i, used)

		if i == 0 {
			// excelize seeds new workbooks with "Sheet1"; rename it
			// instead of leaving an empty first tab.
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, table, headerStyle); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, table extract.Table, headerStyle int) error {
	widths := make([]int, table.ColCount())

	for r, row := range table.Rows {
		values := make([]interface{}, len(row))
		for c, cell := range row {
			values[c] = coerceCell(cell)
			if len(cell) > widths[c] {
				widths[c] = len(cell)
			}
		}

		anchor, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return fmt.Errorf("sheet %q row %d: %w", name, r+1, err)
		}
		if err := f.SetSheetRow(name, anchor, &values); err != nil {
			return fmt.Errorf("sheet %q row %d: %w", name, r+1, err)
		}
	}

	if len(table.Rows) > 0 && len(table.Rows[0]) > 0 {
		last, err := excelize.CoordinatesToCellName(len(table.Rows[0]), 1)
		if err != nil {
			return fmt.Errorf("sheet %q header style: %w", name, err)
		}
		if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("sheet %q header style: %w", name, err)
		}
	}

	for c, w := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return fmt.Errorf("sheet %q column %d: %w", name, c+1, err)
		}
		if err := f.SetColWidth(name, col, col, fitWidth(w)); err != nil {
			return fmt.Errorf("sheet %q column %s: %w", name, col, err)
		}
	}

	return nil
}

// coerceCell writes numeric-looking text as a number and leaves everything
// else as a string. Currency-formatted values keep their text form.
func coerceCell(cell string) interface{} {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return ""
	}
	if d, err := decimal.NewFromString(trimmed); err == nil {
		return d.InexactFloat64()
	}
	return cell
}

func fitWidth(chars int) float64 {
	const (
		minWidth = 10
		maxWidth = 50
	)
	w := float64(chars) + 2
	if w < minWidth {
		return minWidth
	}
	if w > maxWidth {
		return maxWidth
	}
	return w
}

// uniqueSheetName sanitizes a table name into a legal, unused worksheet
// name, falling back to a positional name.
func uniqueSheetName(name string, ordinal int, used map[string]bool) string {
	name = sheetNameSanitizer.Replace(strings.TrimSpace(name))
	if name == "" {
		name = fmt.Sprintf("Table_%d", ordinal+1)
	}
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}

	candidate := name
	for n := 2; used[candidate]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		base := name
		if len(base)+len(suffix) > maxSheetNameLen {
			base = base[:maxSheetNameLen-len(suffix)]
		}
		candidate = base + suffix
	}
	used[candidate] = true
	return candidate
}
