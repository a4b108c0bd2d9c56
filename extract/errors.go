package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingIdentifier rejects a container without a product identifier.
var ErrMissingIdentifier = errors.New("missing product identifier")

// ErrorKind labels, shared with metrics and batch errors.
const (
	KindMissingIdentifier = "missing_identifier"
	KindExtractorFailure  = "extractor_failure"
	KindLocateFailure     = "locate_failure"
	KindOther             = "other"
)

// ExtractorError is one isolated extractor failure. The record still
// carries the field's default value.
type ExtractorError struct {
	Field string
	Err   error
}

func (e *ExtractorError) Error() string {
	return fmt.Errorf("extract %s: %w", e.Field, e.Err).Error()
}

func (e *ExtractorError) Unwrap() error {
	return e.Err
}

// FieldErrors collects the extractor failures of one assembled record.
type FieldErrors []*ExtractorError

func (fe FieldErrors) Error() string {
	msgs := make([]string, 0, len(fe))
	for _, e := range fe {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes every member to errors.Is and errors.As.
func (fe FieldErrors) Unwrap() []error {
	out := make([]error, 0, len(fe))
	for _, e := range fe {
		out = append(out, e)
	}
	return out
}

// LocateError reports a page the locator could not read.
type LocateError struct {
	Err error
}

func (e LocateError) Error() string {
	return fmt.Errorf("locate: %w", e.Err).Error()
}

func (e LocateError) Unwrap() error {
	return e.Err
}

// ErrorKind maps an error to its label.
func ErrorKind(err error) string {
	if err == nil {
		return KindOther
	}
	if errors.Is(err, ErrMissingIdentifier) {
		return KindMissingIdentifier
	}
	var extractorErr *ExtractorError
	if errors.As(err, &extractorErr) {
		return KindExtractorFailure
	}
	var locateErr LocateError
	if errors.As(err, &locateErr) {
		return KindLocateFailure
	}
	return KindOther
}
