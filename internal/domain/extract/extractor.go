package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoTables indicates a valid PDF in which no tabular data was detected.
// Non-fatal: callers surface it as an empty-result message.
var ErrNoTables = errors.New("no tables found in document")

// Extractor locates tables in a validated PDF byte buffer.
type Extractor interface {
	Extract(ctx context.Context, data []byte, profile Profile) (*Result, error)
}

// PDFExtractor dispatches between heuristic presets. The geometric preset
// delegates to the tabula library, the statement preset parses plain text
// extracted by the pdf library.
type PDFExtractor struct {
	logger    *slog.Logger
	detector  *profileDetector
	geometric *geometricExtractor
	statement *statementParser
}

// NewPDFExtractor creates an extractor with all presets registered.
func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	return &PDFExtractor{
		logger:    logger,
		detector:  newProfileDetector(),
		geometric: newGeometricExtractor(logger),
		statement: newStatementParser(),
	}
}

// Extract runs the selected preset against the document. ProfileAuto
// resolves to a concrete preset by sniffing the document text first.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte, profile Profile) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved := profile
	var text string

	if profile == ProfileAuto || profile == ProfileShopeeIncome {
		var err error
		text, err = plainText(data)
		if err != nil {
			return nil, fmt.Errorf("extract document text: %w", err)
		}
	}

	if profile == ProfileAuto {
		resolved = ProfileGeneric
		if e.detector.isShopeeStatement(text) {
			resolved = ProfileShopeeIncome
		}
		e.logger.Debug("auto profile resolved", slog.String("profile", string(resolved)))
	}

	switch resolved {
	case ProfileShopeeIncome:
		return e.statement.parse(text)
	case ProfileGeneric:
		return e.geometric.extract(ctx, data)
	default:
		return nil, fmt.Errorf("unknown extraction profile %q", resolved)
	}
}

// plainText concatenates the plain text of every page. The pdf library
// panics on some malformed documents, so the recover converts that into
// an ordinary extraction error.
func plainText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text extraction failed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single undecodable page should not sink the document.
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
