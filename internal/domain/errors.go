package domain

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies failures so the HTTP layer can map them exhaustively.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindAuth
	KindTimeout
	KindNotFound
	KindUpstream
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is the tagged error type used across the adapter.
// UpstreamBody holds the raw upstream payload for diagnostics only; it is
// never echoed to callers on 5xx responses.
type Error struct {
	Kind         ErrorKind
	Status       int
	Message      string
	Fields       []string // missing/invalid request fields (campos)
	UpstreamBody []byte
	Err          error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)", e.Kind, e.Status)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a 400 error. fields lists the offending request fields.
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message, Fields: fields}
}

// Auth builds an authentication failure against the upstream ERP.
// status defaults to 401 when zero.
func Auth(status int, message string, err error) *Error {
	if status == 0 {
		status = http.StatusUnauthorized
	}
	return &Error{Kind: KindAuth, Status: status, Message: message, Err: err}
}

// Timeout builds a 504 for an upstream call that exceeded its budget.
func Timeout(operation string, err error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Status:  http.StatusGatewayTimeout,
		Message: "timeout calling " + operation,
		Err:     err,
	}
}

// NotFound builds a 404 whose message is safe to show to the caller.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// UpstreamNotFound builds a 404 relayed from the ERP. It has no caller-facing
// message; the HTTP layer substitutes its generic one.
func UpstreamNotFound(body []byte) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, UpstreamBody: body}
}

// Upstream builds an error for a non-2xx upstream reply.
func Upstream(status int, message string, body []byte) *Error {
	if status == 0 {
		status = http.StatusBadGateway
	}
	return &Error{Kind: KindUpstream, Status: status, Message: message, UpstreamBody: body}
}

// Unavailable builds a 503.
func Unavailable(message string, err error) *Error {
	return &Error{Kind: KindUnavailable, Status: http.StatusServiceUnavailable, Message: message, Err: err}
}
