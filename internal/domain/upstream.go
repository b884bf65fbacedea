package domain

import (
	"net/http"
	"time"
)

// AuthToken is the bearer token issued by SIG Integração. It is never
// returned to portal callers.
type AuthToken struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token can still be used at now.
func (t AuthToken) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// UpstreamRequest describes one call to the ERP.
type UpstreamRequest struct {
	Method string            // defaults to GET
	Query  map[string]string // empty values are dropped
	Body   any               // JSON-encoded when non-nil
	Accept string            // defaults to application/json
}

// UpstreamPayload is the result of a successful (2xx) upstream call.
type UpstreamPayload struct {
	Status      int
	ContentType string
	Body        []byte // raw bytes as received
	Value       any    // decoded JSON; nil for empty or non-JSON bodies
	Decoded     bool   // Value was produced by JSON decoding
}

// NoContent reports an explicit 204 reply, as opposed to a 200 with an empty body.
func (p *UpstreamPayload) NoContent() bool {
	return p != nil && p.Status == http.StatusNoContent
}

// Empty reports whether the payload carries no usable data.
func (p *UpstreamPayload) Empty() bool {
	return p == nil || p.NoContent() || (p.Value == nil && len(p.Body) == 0)
}
