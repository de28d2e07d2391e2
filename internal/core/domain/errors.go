package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// DomainError is a failure with a stable code of the form
// HX-<AREA>-<NNNN>. The first three digits of NNNN are the HTTP status
// the error is served with.
//
// Invalid colors are verdicts, not DomainErrors.
type DomainError struct {
	Code    string
	Message string
	Details string // optional, shown after Message
	Cause   error
}

// NewDomainError returns a DomainError for code.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string {
	if e.Details == "" {
		return "[" + e.Code + "] " + e.Message
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
}

func (e *DomainError) Unwrap() error { return e.Cause }

// Is matches any DomainError with the same code, so errors.Is works
// against the package sentinels regardless of details or cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// WithDetails returns a copy carrying details.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// HTTPStatus derives the HTTP status from the code's numeric part.
// Codes without a usable number map to 500.
func (e *DomainError) HTTPStatus() int {
	i := strings.LastIndexByte(e.Code, '-')
	num := e.Code[i+1:]
	if len(num) != 4 {
		return http.StatusInternalServerError
	}
	status, err := strconv.Atoi(num[:3])
	if err != nil || http.StatusText(status) == "" || status < 400 {
		return http.StatusInternalServerError
	}
	return status
}

// IsDomainError reports whether err wraps a DomainError with code.
// An empty code matches any DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return code == "" || de.Code == code
}

// GetErrorCode returns the code of the DomainError in err, or "".
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Request errors.
var (
	ErrInvalidRequest   = NewDomainError("HX-ARG-4000", "invalid request body")
	ErrInvalidInputType = NewDomainError("HX-ARG-4001", "input must be a string")
	ErrBatchEmpty       = NewDomainError("HX-ARG-4002", "batch is empty")
	ErrBatchTooLarge    = NewDomainError("HX-ARG-4003", "batch too large")
	ErrBodyTooLarge     = NewDomainError("HX-ARG-4130", "request body too large")
)

// ErrUnknownEngine is returned for an engine name that is not registered.
var ErrUnknownEngine = NewDomainError("HX-CFG-4004", "unknown matching engine")

// System errors.
var (
	ErrRateLimited = NewDomainError("HX-SYS-4290", "too many requests")
	ErrInternal    = NewDomainError("HX-SYS-5000", "internal server error")
	ErrCancelled   = NewDomainError("HX-SYS-5030", "request cancelled")
	ErrNotReady    = NewDomainError("HX-SYS-5031", "service not ready")
)
