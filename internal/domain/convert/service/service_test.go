package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Figo14045/pdf-to-excel-converter/internal/domain/extract"
	"github.com/Figo14045/pdf-to-excel-converter/internal/observability"
)

// fakeExtractor implements extract.Extractor for pipeline tests.
type fakeExtractor struct {
	result *extract.Result
	err    error

	gotProfile extract.Profile
	calls      int
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, profile extract.Profile) (*extract.Result, error) {
	f.calls++
	f.gotProfile = profile
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validPDF() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< >>\nendobj\ntrailer\n%%EOF\n")
}

func singleTableResult() *extract.Result {
	return &extract.Result{
		Profile: extract.ProfileGeneric,
		Tables: []extract.Table{
			{Name: "Page1_Table1", Page: 1, Rows: [][]string{{"a", "b"}, {"c", "d"}}},
		},
	}
}

func newTestService(ext extract.Extractor) *ConvertService {
	return NewConvertService(ext, observability.NewUnregistered(), testLogger())
}

func TestConvert_Success(t *testing.T) {
	ext := &fakeExtractor{result: singleTableResult()}
	svc := newTestService(ext)

	res, err := svc.Convert(context.Background(), Request{
		Filename: "report.pdf",
		Data:     validPDF(),
		Profile:  extract.ProfileGeneric,
		Format:   FormatXLSX,
	})
	require.NoError(t, err)

	assert.Equal(t, "report.xlsx", res.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", res.ContentType)
	assert.Equal(t, 1, res.TableCount)
	assert.Equal(t, extract.ProfileGeneric, res.Profile)
	assert.NotEqual(t, res.ID.String(), "00000000-0000-0000-0000-000000000000")

	// The payload must be a readable workbook.
	f, err := excelize.OpenReader(bytes.NewReader(res.Data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Page1_Table1"}, f.GetSheetList())
}

func TestConvert_EmptyUploadNeverReachesExtractor(t *testing.T) {
	ext := &fakeExtractor{result: singleTableResult()}
	svc := newTestService(ext)

	_, err := svc.Convert(context.Background(), Request{
		Filename: "empty.pdf",
		Data:     nil,
		Profile:  extract.ProfileAuto,
		Format:   FormatXLSX,
	})

	ce, ok := AsConvertError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidInput, ce.Code)
	assert.Equal(t, 0, ext.calls, "extractor must not run for rejected uploads")
}

func TestConvert_NotAPDF(t *testing.T) {
	svc := newTestService(&fakeExtractor{result: singleTableResult()})

	_, err := svc.Convert(context.Background(), Request{
		Filename: "notes.txt",
		Data:     []byte("just some text"),
		Format:   FormatXLSX,
	})

	ce, ok := AsConvertError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidInput, ce.Code)
	assert.NotEmpty(t, ce.Message())
}

func TestConvert_NoTablesFound(t *testing.T) {
	ext := &fakeExtractor{err: extract.ErrNoTables}
	svc := newTestService(ext)

	res, err := svc.Convert(context.Background(), Request{
		Filename: "prose.pdf",
		Data:     validPDF(),
		Profile:  extract.ProfileGeneric,
		Format:   FormatXLSX,
	})

	require.Nil(t, res, "no spreadsheet may be produced without tables")
	ce, ok := AsConvertError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNoTablesFound, ce.Code)
}

func TestConvert_ExtractionFailure(t *testing.T) {
	ext := &fakeExtractor{err: errors.New("damaged xref table")}
	svc := newTestService(ext)

	_, err := svc.Convert(context.Background(), Request{
		Filename: "broken.pdf",
		Data:     validPDF(),
		Profile:  extract.ProfileAuto,
		Format:   FormatXLSX,
	})

	ce, ok := AsConvertError(err)
	require.True(t, ok)
	assert.Equal(t, CodeExtractionError, ce.Code)
}

func TestConvert_ProfilePassedThrough(t *testing.T) {
	ext := &fakeExtractor{result: &extract.Result{
		Profile: extract.ProfileShopeeIncome,
		Tables:  singleTableResult().Tables,
		Meta: &extract.StatementMeta{
			Company:     "Acme Trading Pte Ltd",
			PeriodStart: "2025-08-18",
			PeriodEnd:   "2025-08-24",
		},
	}}
	svc := newTestService(ext)

	res, err := svc.Convert(context.Background(), Request{
		Filename: "statement.pdf",
		Data:     validPDF(),
		Profile:  extract.ProfileShopeeIncome,
		Format:   FormatXLSX,
	})
	require.NoError(t, err)

	assert.Equal(t, extract.ProfileShopeeIncome, ext.gotProfile)
	assert.Equal(t, "Acme_Trading_Pte_Ltd_Income_Statement_2025-08-18_Dataset.xlsx", res.Filename)
}

func TestConvert_CSVFormat(t *testing.T) {
	ext := &fakeExtractor{result: &extract.Result{
		Profile: extract.ProfileGeneric,
		Tables: []extract.Table{
			{Name: "Summary", Rows: [][]string{{"Property", "Value"}, {"Company", "Acme"}}},
		},
	}}
	svc := newTestService(ext)

	res, err := svc.Convert(context.Background(), Request{
		Filename: "statement.pdf",
		Data:     validPDF(),
		Profile:  extract.ProfileGeneric,
		Format:   FormatCSV,
	})
	require.NoError(t, err)

	assert.Equal(t, "text/csv", res.ContentType)
	assert.Equal(t, "statement.csv", res.Filename)
	assert.Contains(t, string(res.Data), "Company,Acme")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatXLSX, false},
		{"xlsx", FormatXLSX, false},
		{"csv", FormatCSV, false},
		{" CSV ", FormatCSV, false},
		{"ods", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}
