// Package apperr defines the error taxonomy shared across pipeline stages.
//
// Configuration errors abort a whole run; the remaining kinds are scoped to a
// single metadata row or document and are caught by the stage runners.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindConfiguration  Kind = "configuration"
	KindDownload       Kind = "download"
	KindTranscription  Kind = "transcription"
	KindDataValidation Kind = "data_validation"
	KindNotFound       Kind = "not_found"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func Configuration(err error, format string, args ...any) *Error {
	return newf(KindConfiguration, err, format, args...)
}

func Download(err error, format string, args ...any) *Error {
	return newf(KindDownload, err, format, args...)
}

func Transcription(err error, format string, args ...any) *Error {
	return newf(KindTranscription, err, format, args...)
}

func DataValidation(err error, format string, args ...any) *Error {
	return newf(KindDataValidation, err, format, args...)
}

func NotFound(err error, format string, args ...any) *Error {
	return newf(KindNotFound, err, format, args...)
}

// IsKind reports whether any error in err's chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
