package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/model"
)

// Keywords that commonly appear in table header rows. Used only to derive
// readable worksheet names; detection itself is the library's job.
var headerKeywords = []string{
	"date", "description", "amount", "total", "quantity", "qty",
	"price", "item", "name", "no", "balance", "fee", "payout",
}

// geometricExtractor delegates table detection to the tabula library,
// which locates tables from ruling lines and whitespace alignment.
type geometricExtractor struct {
	logger *slog.Logger
}

func newGeometricExtractor(logger *slog.Logger) *geometricExtractor {
	return &geometricExtractor{logger: logger}
}

// extract runs geometric detection over every page. The library reads
// from files, so the buffer is staged in a temp file for the call.
func (g *geometricExtractor) extract(ctx context.Context, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, cleanup, err := stageTempFile(data)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	doc, warnings, err := tabula.Open(path).Document()
	if err != nil {
		return nil, fmt.Errorf("geometric table detection: %w", err)
	}
	if len(warnings) > 0 {
		g.logger.Debug("table detection warnings",
			slog.String("details", tabula.FormatWarnings(warnings)))
	}

	var tables []Table
	for _, page := range doc.Pages {
		for i, t := range page.ExtractTables() {
			rows := cellGrid(t)
			if len(rows) == 0 {
				continue
			}
			tables = append(tables, Table{
				Name: tableName(rows, page.Number, i+1),
				Page: page.Number,
				Rows: rows,
			})
		}
	}

	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	return &Result{Profile: ProfileGeneric, Tables: tables}, nil
}

// cellGrid flattens a detected table into trimmed cell strings, dropping
// rows that are entirely empty.
func cellGrid(t *model.Table) [][]string {
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		empty := true
		for j, cell := range row {
			cells[j] = strings.TrimSpace(cell.Text)
			if cells[j] != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, cells)
		}
	}
	return rows
}

// tableName derives a worksheet name from the first row when it looks like
// a header, falling back to a positional name.
func tableName(rows [][]string, page, ordinal int) string {
	fallback := fmt.Sprintf("Page%d_Table%d", page, ordinal)
	if len(rows) == 0 {
		return fallback
	}

	matched := 0
	first := ""
	for _, cell := range rows[0] {
		if cell == "" {
			continue
		}
		if first == "" {
			first = cell
		}
		for _, kw := range headerKeywords {
			if fuzzy.RankMatchNormalizedFold(kw, cell) >= 0 {
				matched++
				break
			}
		}
	}

	// Two keyword hits is a strong enough signal that the first row is a
	// header; name the sheet after its leading cell.
	if matched >= 2 && first != "" {
		return fmt.Sprintf("Page%d_%s", page, sanitizeNamePart(first))
	}
	return fallback
}

// sanitizeNamePart reduces a header cell to a short identifier-ish token.
func sanitizeNamePart(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '_', r == '-':
			sb.WriteRune('_')
		}
		if sb.Len() >= 20 {
			break
		}
	}
	if sb.Len() == 0 {
		return "Table"
	}
	return sb.String()
}

// stageTempFile writes the upload to a temp file and returns its path and
// a cleanup func. The file never outlives the request.
func stageTempFile(data []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}
	return path, cleanup, nil
}
