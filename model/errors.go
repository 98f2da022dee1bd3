package model

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrorKind classifies failures across service boundaries.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota

	// KindNotFound means a referenced student or group did not exist at the
	// time of lookup.
	KindNotFound

	// KindValidation means the input was rejected before any store call.
	KindValidation

	// KindUpstream means a downstream store or peer service could not be
	// reached or answered with a server-side error.
	KindUpstream

	// KindPartialConsistency means a multi-step relationship operation
	// completed some but not all of its writes. The error names the step
	// that failed so the inconsistency is diagnosable.
	KindPartialConsistency
)

// Error is the domain error carried between services.
type Error struct {
	Kind ErrorKind
	Msg  string

	// Op and Step are set for partial-consistency failures.
	Op   string
	Step string

	Err error
}

func (e *Error) Error() string {
	if e.Kind == KindPartialConsistency {
		return fmt.Sprintf("operation %s left stores inconsistent at step %s: %v", e.Op, e.Step, e.Err)
	}
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("%s: %v", e.Msg, e.Err)
		}
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFoundf builds a not-found error naming the missing resource.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Validationf builds a validation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Upstream wraps a downstream failure.
func Upstream(err error, format string, args ...any) error {
	return &Error{Kind: KindUpstream, Msg: fmt.Sprintf(format, args...), Err: err}
}

// PartialConsistency wraps a failure that occurred after earlier writes of a
// multi-step operation had already been applied.
func PartialConsistency(op, step string, err error) error {
	return &Error{Kind: KindPartialConsistency, Op: op, Step: step, Err: err}
}

// KindOf returns the classification of err, KindUnknown for plain errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// HTTPStatus maps an error to the status code services answer with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUpstream, KindPartialConsistency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError translates err into a status code and a short message. Internal
// error text is never exposed for unclassified failures.
func WriteError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	http.Error(w, msg, status)
}

// ErrorFromResponse reconstructs a domain error from a non-2xx peer response.
func ErrorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Msg: msg}
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest:
		return &Error{Kind: KindValidation, Msg: msg}
	default:
		return &Error{Kind: KindUpstream, Msg: fmt.Sprintf("peer returned status %d: %s", resp.StatusCode, msg)}
	}
}
