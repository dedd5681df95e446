// Package service orchestrates the upload, extract and write pipeline.
// Each conversion is a synchronous, stateless sequence: nothing survives
// the request beyond logs and metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Figo14045/pdf-to-excel-converter/internal/domain/convert/sniffer"
	"github.com/Figo14045/pdf-to-excel-converter/internal/domain/export"
	"github.com/Figo14045/pdf-to-excel-converter/internal/domain/extract"
	"github.com/Figo14045/pdf-to-excel-converter/internal/observability"
)

const tracerName = "github.com/Figo14045/pdf-to-excel-converter/internal/domain/convert"

// OutputFormat selects the download container.
type OutputFormat string

const (
	FormatXLSX OutputFormat = "xlsx"
	FormatCSV  OutputFormat = "csv"
)

// ParseFormat validates a user-supplied format value; empty means xlsx.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Request is one upload to convert.
type Request struct {
	Filename string
	Data     []byte
	Profile  extract.Profile
	Format   OutputFormat
}

// Result is a finished conversion ready for download.
type Result struct {
	ID          uuid.UUID
	Filename    string // Suggested download filename
	ContentType string
	Data        []byte
	Profile     extract.Profile // Profile actually applied
	TableCount  int
}

// ConvertService wires the three pipeline stages together.
type ConvertService struct {
	extractor extract.Extractor
	logger    *slog.Logger
	metrics   *observability.Metrics
	tracer    trace.Tracer
}

// NewConvertService creates the conversion service.
func NewConvertService(extractor extract.Extractor, metrics *observability.Metrics, logger *slog.Logger) *ConvertService {
	return &ConvertService{
		extractor: extractor,
		logger:    logger,
		metrics:   metrics,
		tracer:    otel.Tracer(tracerName),
	}
}

// Convert runs the full pipeline for one uploaded document. Either a
// complete spreadsheet is produced or a classified error is returned;
// there is no partial-success mode.
func (s *ConvertService) Convert(ctx context.Context, req Request) (*Result, error) {
	id := uuid.New()
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "convert",
		trace.WithAttributes(
			attribute.String("conversion.id", id.String()),
			attribute.String("conversion.profile", string(req.Profile)),
		))
	defer span.End()

	result, err := s.convert(ctx, id, req)

	profile := string(req.Profile)
	outcome := "success"
	if err != nil {
		outcome = "error"
		if ce, ok := AsConvertError(err); ok {
			outcome = string(ce.Code)
		}
	} else {
		profile = string(result.Profile)
	}
	s.metrics.ConversionsTotal.WithLabelValues(profile, outcome).Inc()
	s.metrics.ConversionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Warn("conversion failed",
			slog.String("conversion_id", id.String()),
			slog.String("filename", req.Filename),
			slog.String("outcome", outcome),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.logger.Info("conversion completed",
		slog.String("conversion_id", id.String()),
		slog.String("filename", req.Filename),
		slog.String("profile", profile),
		slog.Int("tables", result.TableCount),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (s *ConvertService) convert(ctx context.Context, id uuid.UUID, req Request) (*Result, error) {
	info, err := s.sniff(ctx, req)
	if err != nil {
		return nil, err
	}
	s.metrics.UploadBytes.Observe(float64(info.Size))

	extraction, err := s.extract(ctx, req)
	if err != nil {
		return nil, err
	}

	data, contentType, err := s.write(ctx, extraction, req.Format)
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:          id,
		Filename:    downloadFilename(info.Filename, extraction, req.Format),
		ContentType: contentType,
		Data:        data,
		Profile:     extraction.Profile,
		TableCount:  len(extraction.Tables),
	}, nil
}

func (s *ConvertService) sniff(ctx context.Context, req Request) (*sniffer.FileInfo, error) {
	_, span := s.tracer.Start(ctx, "sniff")
	defer span.End()

	info, err := sniffer.Sniff(req.Data, req.Filename)
	if err != nil {
		return nil, newConvertError(CodeInvalidInput, err)
	}

	s.logger.Debug("upload validated",
		slog.String("filename", info.Filename),
		slog.String("pdf_version", info.Version),
		slog.Int64("size", info.Size),
		slog.Bool("encrypted", info.Encrypted),
		slog.String("fingerprint", info.Fingerprint),
	)
	return info, nil
}

func (s *ConvertService) extract(ctx context.Context, req Request) (*extract.Result, error) {
	ctx, span := s.tracer.Start(ctx, "extract")
	defer span.End()

	res, err := s.extractor.Extract(ctx, req.Data, req.Profile)
	if err != nil {
		if errors.Is(err, extract.ErrNoTables) {
			return nil, newConvertError(CodeNoTablesFound, err)
		}
		return nil, newConvertError(CodeExtractionError, err)
	}
	span.SetAttributes(attribute.Int("tables", len(res.Tables)))
	return res, nil
}

func (s *ConvertService) write(ctx context.Context, extraction *extract.Result, format OutputFormat) ([]byte, string, error) {
	_, span := s.tracer.Start(ctx, "write")
	defer span.End()

	switch format {
	case FormatCSV:
		data, err := export.WriteCSV(extraction.Tables[0])
		if err != nil {
			return nil, "", newConvertError(CodeWriteError, err)
		}
		return data, "text/csv", nil
	default:
		data, err := export.WriteWorkbook(extraction.Tables)
		if err != nil {
			return nil, "", newConvertError(CodeWriteError, err)
		}
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	}
}

// downloadFilename builds the attachment name. Statement extractions get a
// name derived from the statement metadata; everything else keeps the
// upload basename with the new extension.
func downloadFilename(uploaded string, extraction *extract.Result, format OutputFormat) string {
	ext := ".xlsx"
	if format == FormatCSV {
		ext = ".csv"
	}

	if m := extraction.Meta; m != nil && m.Company != "" {
		company := strings.ReplaceAll(m.Company, " ", "_")
		period := m.PeriodStart
		if period == "" {
			period = time.Now().Format("20060102")
		}
		return fmt.Sprintf("%s_Income_Statement_%s_Dataset%s", company, period, ext)
	}

	base := strings.TrimSuffix(uploaded, ".pdf")
	base = strings.TrimSuffix(base, ".PDF")
	if base == "" {
		base = "converted"
	}
	return base + ext
}
