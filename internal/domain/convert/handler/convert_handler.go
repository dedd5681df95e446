// Package handler exposes the conversion pipeline over HTTP: an upload
// form, a convert endpoint returning the generated file, and a liveness
// probe.
package handler

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Figo14045/pdf-to-excel-converter/internal/domain/convert/service"
	"github.com/Figo14045/pdf-to-excel-converter/internal/domain/extract"
)

//go:embed index.html
var indexHTML []byte

// Converter is the slice of the conversion service the handler needs.
type Converter interface {
	Convert(ctx context.Context, req service.Request) (*service.Result, error)
}

// ConvertHandler handles upload/convert/download requests.
type ConvertHandler struct {
	svc            Converter
	logger         *slog.Logger
	maxUploadBytes int64
	defaultProfile extract.Profile
}

// NewConvertHandler creates a new convert handler.
func NewConvertHandler(svc Converter, maxUploadBytes int64, defaultProfile extract.Profile, logger *slog.Logger) *ConvertHandler {
	return &ConvertHandler{
		svc:            svc,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
		defaultProfile: defaultProfile,
	}
}

// Index serves the upload page.
func (h *ConvertHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

// Health is the liveness probe.
func (h *ConvertHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Convert accepts a multipart upload and responds with the converted file
// as an attachment, or a JSON error body.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "use POST with a multipart file upload")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.rejectUpload(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "missing_file", "the request carries no file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.rejectUpload(w, err)
		return
	}

	profile := h.defaultProfile
	if v := r.FormValue("profile"); v != "" {
		profile, err = extract.ParseProfile(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_profile", err.Error())
			return
		}
	}

	format, err := service.ParseFormat(r.FormValue("format"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_format", err.Error())
		return
	}

	result, err := h.svc.Convert(r.Context(), service.Request{
		Filename: header.Filename,
		Data:     data,
		Profile:  profile,
		Format:   format,
	})
	if err != nil {
		h.writeConvertError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("X-Conversion-Id", result.ID.String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// rejectUpload maps body-reading failures, distinguishing oversized
// uploads from malformed multipart bodies.
func (h *ConvertHandler) rejectUpload(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.writeError(w, http.StatusRequestEntityTooLarge, "upload_too_large",
			fmt.Sprintf("the upload exceeds the %d byte limit", maxErr.Limit))
		return
	}
	h.writeError(w, http.StatusBadRequest, "malformed_upload", "the upload could not be read")
}

func (h *ConvertHandler) writeConvertError(w http.ResponseWriter, err error) {
	ce, ok := service.AsConvertError(err)
	if !ok {
		h.logger.Error("unclassified conversion error", slog.Any("error", err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "the conversion failed unexpectedly")
		return
	}

	status := http.StatusInternalServerError
	switch ce.Code {
	case service.CodeInvalidInput, service.CodeExtractionError:
		status = http.StatusBadRequest
	case service.CodeNoTablesFound:
		status = http.StatusUnprocessableEntity
	case service.CodeWriteError:
		status = http.StatusInternalServerError
	}
	h.writeError(w, status, string(ce.Code), ce.Message())
}

func (h *ConvertHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}
