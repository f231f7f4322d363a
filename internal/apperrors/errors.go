package apperrors

import (
	"errors"
	"strings"
)

type Kind string

const (
	// Provider-side kinds. The retrier treats all of them as failed attempts;
	// the kind only shapes log output and backoff hints.
	KindTransient  Kind = "transient"
	KindRateLimit  Kind = "rate_limit"
	KindAuth       Kind = "auth"
	KindBadRequest Kind = "bad_request"
	KindValidation Kind = "validation"

	// File-boundary kinds. These are recorded per file and never abort a run.
	KindParse Kind = "parse"
	KindIO    Kind = "io"
)

type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindTransient:
		return "Temporary provider error. The request will be retried."
	case KindRateLimit:
		return "Provider rate limit exceeded."
	case KindAuth:
		return "Provider authentication failed. Please verify your API key."
	case KindBadRequest:
		return "Request rejected by the translation provider."
	case KindValidation:
		return "Provider response could not be understood."
	case KindParse:
		return "File is not a JSON array of objects."
	case KindIO:
		return "File could not be read or written."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Transient(err error) error  { return New(KindTransient, "", err) }
func RateLimit(err error) error  { return New(KindRateLimit, "", err) }
func Auth(err error) error       { return New(KindAuth, "", err) }
func BadRequest(err error) error { return New(KindBadRequest, "", err) }
func Validation(err error) error { return New(KindValidation, "", err) }

// Parse marks a file whose content cannot be treated as a record list.
// The cause is kept in the message since it names a local file, not user data.
func Parse(err error) error {
	msg := defaultSafeMessage(KindParse)
	if err != nil {
		msg = msg + " (" + err.Error() + ")"
	}
	return New(KindParse, msg, err)
}

func IO(err error) error {
	msg := defaultSafeMessage(KindIO)
	if err != nil {
		msg = msg + " (" + err.Error() + ")"
	}
	return New(KindIO, msg, err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

// IsRetryable reports whether another attempt can plausibly succeed.
// Auth and bad-request failures are still retried by the translator
// (every provider error counts as one attempt), but callers may use this
// to log them louder.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindTransient || e.Kind == KindRateLimit || e.Kind == KindValidation
}

func IsRateLimit(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindRateLimit
}

func IsParse(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindParse
}
