// Package sniffer validates uploaded byte buffers before extraction.
// It performs cheap container-level checks (PDF signature, trailer marker,
// encryption hint) and generates fingerprints for request logging. Deep
// structural validation is left to the PDF library in the extract package.
package sniffer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
)

var (
	// ErrEmptyFile indicates a zero-length upload.
	ErrEmptyFile = errors.New("uploaded file is empty")
	// ErrNotPDF indicates the buffer does not carry a PDF signature.
	ErrNotPDF = errors.New("uploaded file is not a PDF document")
	// ErrTruncated indicates the PDF trailer marker is missing, which
	// usually means an interrupted upload.
	ErrTruncated = errors.New("uploaded PDF is truncated")
)

var (
	pdfSignature = []byte("%PDF-")
	eofMarker    = []byte("%%EOF")
	encryptKey   = []byte("/Encrypt")
)

const (
	// The PDF spec allows the signature to appear within the first 1024
	// bytes of the file.
	signatureWindow = 1024
	// Tail window searched for the %%EOF marker. Some writers append
	// whitespace or multiple revisions after it.
	trailerWindow = 2048
	// Leading bytes hashed into the fingerprint.
	fingerprintWindow = 2048
)

// FileInfo holds the detected properties of an uploaded PDF.
type FileInfo struct {
	Filename    string // Declared filename, sanitized
	Size        int64  // Upload size in bytes
	Version     string // PDF version from the header, e.g. "1.7"
	Encrypted   bool   // True when an /Encrypt dictionary reference is present
	Fingerprint string // SHA256 of the leading bytes, for log correlation
}

// Sniff validates that data is a plausible PDF container and returns its
// detected properties. It never reads beyond the provided buffer.
func Sniff(data []byte, filename string) (*FileInfo, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	sigIdx := indexWithin(data, pdfSignature, signatureWindow)
	if sigIdx < 0 {
		return nil, ErrNotPDF
	}

	if !hasTrailerMarker(data) {
		return nil, ErrTruncated
	}

	return &FileInfo{
		Filename:    sanitizeFilename(filename),
		Size:        int64(len(data)),
		Version:     readVersion(data[sigIdx+len(pdfSignature):]),
		Encrypted:   bytes.Contains(data, encryptKey),
		Fingerprint: fingerprint(data),
	}, nil
}

// indexWithin searches for needle in the first window bytes of data.
func indexWithin(data, needle []byte, window int) int {
	if len(data) > window {
		data = data[:window]
	}
	return bytes.Index(data, needle)
}

func hasTrailerMarker(data []byte) bool {
	tail := data
	if len(tail) > trailerWindow {
		tail = tail[len(tail)-trailerWindow:]
	}
	return bytes.Contains(tail, eofMarker)
}

// readVersion extracts the version digits following the %PDF- signature.
func readVersion(rest []byte) string {
	var sb strings.Builder
	for _, b := range rest {
		r := rune(b)
		if !unicode.IsDigit(r) && r != '.' {
			break
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func fingerprint(data []byte) string {
	head := data
	if len(head) > fingerprintWindow {
		head = head[:fingerprintWindow]
	}
	sum := sha256.Sum256(head)
	return hex.EncodeToString(sum[:])
}

// sanitizeFilename strips directory components and control characters from
// a client-declared filename.
func sanitizeFilename(name string) string {
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}
