package service

import (
	"errors"
	"fmt"
)

// ErrorCode classifies conversion failures for user-facing reporting.
type ErrorCode string

const (
	// CodeInvalidInput covers empty or unreadable uploads; the user must
	// re-upload a valid PDF.
	CodeInvalidInput ErrorCode = "invalid_input"
	// CodeNoTablesFound is a valid PDF with no detectable tabular data;
	// no file is produced.
	CodeNoTablesFound ErrorCode = "no_tables_found"
	// CodeExtractionError is a PDF the extraction library cannot parse;
	// treated as a rejected upload.
	CodeExtractionError ErrorCode = "extraction_error"
	// CodeWriteError is a spreadsheet serialization failure; an internal
	// fault, reported and logged but never retried.
	CodeWriteError ErrorCode = "write_error"
)

// ConvertError carries an error class alongside the underlying cause.
// Every failure path produces one, so no error reaches the user without a
// message.
type ConvertError struct {
	Code ErrorCode
	Err  error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *ConvertError) Unwrap() error { return e.Err }

// Message returns the user-facing description for the error class.
func (e *ConvertError) Message() string {
	switch e.Code {
	case CodeInvalidInput:
		return "The uploaded file is not a readable PDF. Please re-upload a valid PDF document."
	case CodeNoTablesFound:
		return "No tabular data was found in the document, so no spreadsheet was produced."
	case CodeExtractionError:
		return "The PDF could not be processed. Please verify the file and try again."
	default:
		return "The conversion failed due to an internal error. Please try again later."
	}
}

func newConvertError(code ErrorCode, err error) *ConvertError {
	return &ConvertError{Code: code, Err: err}
}

// AsConvertError extracts a ConvertError from an error chain.
func AsConvertError(err error) (*ConvertError, bool) {
	var ce *ConvertError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
