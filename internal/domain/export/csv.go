package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/Figo14045/pdf-to-excel-converter/internal/domain/extract"
)

// summaryRecord is the typed row of a property/value summary table.
type summaryRecord struct {
	Property string `csv:"Property"`
	Value    string `csv:"Value"`
}

// WriteCSV renders a single table as CSV. Two-column property/value tables
// go through gocsv typed records; wider tables fall back to a plain row
// writer because gocsv marshals fixed struct shapes, not dynamic widths.
func WriteCSV(table extract.Table) ([]byte, error) {
	if table.RowCount() == 0 {
		return nil, fmt.Errorf("write csv: table %q is empty", table.Name)
	}

	if table.ColCount() == 2 {
		return writeSummaryCSV(table)
	}
	return writeRowsCSV(table)
}

func writeSummaryCSV(table extract.Table) ([]byte, error) {
	rows := table.Rows
	// Drop the table's own header row; gocsv emits one from struct tags.
	if len(rows) > 0 && strings.EqualFold(first(rows[0]), "property") {
		rows = rows[1:]
	}

	records := make([]*summaryRecord, 0, len(rows))
	for _, row := range rows {
		rec := &summaryRecord{Property: first(row)}
		if len(row) > 1 {
			rec.Value = row[1]
		}
		records = append(records, rec)
	}

	out, err := gocsv.MarshalBytes(&records)
	if err != nil {
		return nil, fmt.Errorf("write csv for %q: %w", table.Name, err)
	}
	return out, nil
}

func writeRowsCSV(table extract.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range table.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv for %q: %w", table.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv for %q: %w", table.Name, err)
	}
	return buf.Bytes(), nil
}

func first(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}
