package sig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/observability"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("sig")

// Tokens is what the client needs from the token source.
type Tokens interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// maskedParams are query keys that carry tax ids.
var maskedParams = map[string]bool{"cpf": true, "cnpj": true, "documento": true, "cpfCnpj": true}

// Client performs authenticated calls to SIG Integração.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	tokens     Tokens
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a SIG client. timeout applies to every single attempt.
func NewClient(
	httpClient *http.Client,
	baseURL string,
	timeout time.Duration,
	tokens Tokens,
	cb *gobreaker.CircuitBreaker,
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		tokens:     tokens,
		cb:         cb,
		bulkhead:   bulkhead,
		metrics:    metrics,
		logger:     logger,
	}
}

// CountsAsFailure tells the circuit breaker which errors indicate an
// unhealthy upstream: timeouts, transport failures and 5xx replies.
func CountsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindTimeout, domain.KindUnavailable:
			return true
		case domain.KindUpstream:
			return de.Status >= 500
		default:
			return false
		}
	}
	// The caller gave up; that says nothing about the upstream.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// Call performs one upstream request. A 401 triggers exactly one
// re-authentication and retry, each attempt with its own timeout.
func (c *Client) Call(ctx context.Context, path string, req domain.UpstreamRequest) (*domain.UpstreamPayload, error) {
	ctx, span := tracer.Start(ctx, "sig.Client.Call")
	defer span.End()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	span.SetAttributes(
		attribute.String("sig.path", path),
		attribute.String("http.method", method),
	)

	target, err := c.buildURL(path, req.Query)
	if err != nil {
		return nil, err
	}

	var body []byte
	if req.Body != nil {
		if body, err = json.Marshal(req.Body); err != nil {
			return nil, fmt.Errorf("encode upstream body: %w", err)
		}
	}

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.bulkhead.Release()

	result, err := c.cb.Execute(func() (any, error) {
		return c.callWithReauth(ctx, method, path, target, body, req.Accept)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = domain.Unavailable("SIG Integração indisponível (circuit breaker aberto)", err)
		}
		c.recordFailure(ctx, err, method, path, req.Query)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return result.(*domain.UpstreamPayload), nil
}

func (c *Client) callWithReauth(ctx context.Context, method, path, target string, body []byte, accept string) (*domain.UpstreamPayload, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := c.attempt(ctx, method, path, target, body, accept, token)
	if err == nil || !isUnauthorized(err) {
		return payload, err
	}

	observability.L(ctx, c.logger).Warn("sig: 401 received, renewing token", zap.String("path", path))
	c.tokens.Invalidate()

	token, err = c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	payload, err = c.attempt(ctx, method, path, target, body, accept, token)
	if err != nil && isUnauthorized(err) {
		var de *domain.Error
		errors.As(err, &de)
		ae := domain.Auth(http.StatusUnauthorized, "token recusado pelo SIG após renovação", err)
		ae.UpstreamBody = de.UpstreamBody
		return nil, ae
	}
	return payload, err
}

// attempt is a single HTTP round trip with its own timeout window.
func (c *Client) attempt(ctx context.Context, method, path, target string, body []byte, accept, token string) (*domain.UpstreamPayload, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(callCtx, method, target, reader)
	if err != nil {
		return nil, withoutURL(path, err)
	}

	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", accept)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.RecordUpstream(path, "error", time.Since(start))
		return nil, classifyTransportError(ctx, callCtx, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.metrics.RecordUpstream(path, strconv.Itoa(resp.StatusCode), time.Since(start))
	if err != nil {
		return nil, classifyTransportError(ctx, callCtx, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.UpstreamNotFound(raw)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, domain.Upstream(resp.StatusCode,
			fmt.Sprintf("Erro ao consultar dados no sistema SIG (%d).", resp.StatusCode), raw)
	}

	return decodePayload(resp.StatusCode, resp.Header.Get("Content-Type"), raw), nil
}

// decodePayload parses JSON when possible and otherwise keeps the raw bytes.
func decodePayload(status int, contentType string, raw []byte) *domain.UpstreamPayload {
	p := &domain.UpstreamPayload{Status: status, ContentType: contentType, Body: raw}
	if status == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return p
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return p
	}
	// Trailing garbage means this was not a JSON document.
	if _, err := dec.Token(); err != io.EOF {
		return p
	}
	p.Value = v
	p.Decoded = true
	return p
}

func classifyTransportError(parent, callCtx context.Context, path string, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	err = withoutURL(path, err)
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return domain.Timeout(path, err)
	}
	return domain.Unavailable("falha de comunicação com o SIG", err)
}

// withoutURL drops the request URL from transport errors: its query string
// carries the tax id.
func withoutURL(path string, err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s %s: %w", ue.Op, path, ue.Err)
	}
	return err
}

func isUnauthorized(err error) bool {
	var de *domain.Error
	return errors.As(err, &de) && de.Kind == domain.KindUpstream && de.Status == http.StatusUnauthorized
}

func (c *Client) buildURL(path string, query map[string]string) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid upstream url: %w", err)
	}
	q := u.Query()
	for k, v := range query {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) recordFailure(ctx context.Context, err error, method, path string, query map[string]string) {
	kind := domain.KindInternal
	status := 0
	var body []byte
	var de *domain.Error
	if errors.As(err, &de) {
		kind, status, body = de.Kind, de.Status, de.UpstreamBody
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	c.metrics.IncrUpstreamError(kind.String())

	log := observability.L(ctx, c.logger)
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.String("query", maskQuery(query)),
		zap.String("kind", kind.String()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if len(body) > 0 {
		fields = append(fields, zap.String("upstream_body", truncate(body, 500)))
	}
	if kind == domain.KindNotFound {
		log.Debug("sig: call returned no data", fields...)
		return
	}
	log.Error("sig: call failed", fields...)
}

// maskQuery renders query params for logs with tax ids redacted.
func maskQuery(query map[string]string) string {
	keys := make([]string, 0, len(query))
	for k, v := range query {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := query[k]
		if maskedParams[k] {
			v = domain.MaskDocument(v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, "&")
}
