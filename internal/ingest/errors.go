package ingest

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an ingestion failure. Callers branch on the kind,
// never on error strings.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindUnsupportedPlatform Kind = "unsupported_platform"
	KindMetadataExtraction  Kind = "metadata_extraction_failed"
	KindDownload            Kind = "download_failed"
	KindUpload              Kind = "upload_failed"
	KindPersist             Kind = "persist_failed"
	KindNotFound            Kind = "not_found"
	KindInternal            Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to the status code the API surface
// reports: 400 for input/platform errors, 422 for extraction/download
// failures, 404 for missing records, 500 otherwise.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidInput, KindUnsupportedPlatform:
		return http.StatusBadRequest
	case KindMetadataExtraction, KindDownload:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatusOf returns the HTTP status for err, 500 for foreign errors.
func HTTPStatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
