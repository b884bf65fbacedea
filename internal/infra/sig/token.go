// Package sig talks to the SIG Integração ERP (Prodata): it owns the bearer
// token lifecycle and the authenticated HTTP call wrapper.
package sig

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/cache"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/observability"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	tokenKey = "sig:bearer"

	// expiryMargin is subtracted from the reported lifetime so a token is
	// never presented right at its expiry.
	expiryMargin = 30 * time.Second

	authFailedMsg = "Falha na autenticação com o sistema SIG. Verifique as credenciais."
)

// Credentials configure how the token source authenticates.
type Credentials struct {
	BaseURL     string
	AuthPath    string
	User        string
	Password    string
	StaticToken string        // bypass: always used, never refreshed
	DefaultTTL  time.Duration // used when the auth reply carries no expiry
	Timeout     time.Duration
}

// TokenSource caches the upstream bearer token and refreshes it on demand.
// Concurrent refreshes are tolerated: the last successful one wins.
type TokenSource struct {
	httpClient *http.Client
	creds      Credentials
	store      *cache.InMemory[domain.AuthToken]
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewTokenSource creates a token source. store holds the cached token and
// supplies the clock used for expiry decisions.
func NewTokenSource(httpClient *http.Client, creds Credentials, store *cache.InMemory[domain.AuthToken], metrics *observability.Metrics, logger *zap.Logger) *TokenSource {
	if creds.DefaultTTL <= 0 {
		creds.DefaultTTL = 1500 * time.Second
	}
	if creds.AuthPath == "" {
		creds.AuthPath = "/auth"
	}
	return &TokenSource{
		httpClient: httpClient,
		creds:      creds,
		store:      store,
		metrics:    metrics,
		logger:     logger,
	}
}

// Token returns a valid bearer token, authenticating when needed.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if s.creds.StaticToken != "" {
		return s.creds.StaticToken, nil
	}
	if tok, ok := s.store.Get(tokenKey); ok && tok.Valid(s.store.Now()) {
		return tok.Value, nil
	}
	tok, err := s.requestToken(ctx)
	if err != nil {
		return "", err
	}
	return tok.Value, nil
}

// Invalidate drops the cached token so the next Token call re-authenticates.
func (s *TokenSource) Invalidate() {
	s.store.Delete(tokenKey)
}

type authRequest struct {
	Usuario string `json:"usuario"`
	Senha   string `json:"senha"`
}

func (s *TokenSource) requestToken(ctx context.Context) (domain.AuthToken, error) {
	ctx, span := tracer.Start(ctx, "sig.TokenSource.requestToken")
	defer span.End()

	log := observability.L(ctx, s.logger)

	if s.creds.User == "" || s.creds.Password == "" {
		s.metrics.IncrTokenRefresh("misconfigured")
		log.Error("sig auth: PRODATA_USER/PRODATA_PASSWORD not configured")
		return domain.AuthToken{}, domain.Auth(http.StatusInternalServerError, "credenciais do SIG não configuradas", nil)
	}

	body, err := json.Marshal(authRequest{Usuario: s.creds.User, Senha: s.creds.Password})
	if err != nil {
		return domain.AuthToken{}, err
	}

	callCtx := ctx
	if s.creds.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.creds.Timeout)
		defer cancel()
	}

	url := s.creds.BaseURL + s.creds.AuthPath
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.AuthToken{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.metrics.IncrTokenRefresh("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "auth request failed")
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return domain.AuthToken{}, domain.Timeout("sig auth", err)
		}
		if ctx.Err() != nil {
			return domain.AuthToken{}, ctx.Err()
		}
		return domain.AuthToken{}, domain.Unavailable("falha de comunicação com o SIG", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		s.metrics.IncrTokenRefresh("error")
		return domain.AuthToken{}, domain.Unavailable("falha ao ler resposta de autenticação", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.metrics.IncrTokenRefresh("rejected")
		log.Error("sig auth: non-2xx response",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(raw, 500)),
		)
		span.SetStatus(codes.Error, "auth rejected")
		ae := domain.Auth(resp.StatusCode, authFailedMsg, nil)
		ae.UpstreamBody = raw
		return domain.AuthToken{}, ae
	}

	var parsed map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	_ = dec.Decode(&parsed)

	value := firstNonEmptyString(parsed, "token", "access_token", "dados.token", "dados.access_token")
	if value == "" {
		s.metrics.IncrTokenRefresh("no_token")
		log.Error("sig auth: response without token", zap.String("body", truncate(raw, 500)))
		return domain.AuthToken{}, domain.Unavailable("resposta de autenticação do SIG não contém token", nil)
	}

	ttl := s.lifetime(parsed, value)
	now := s.store.Now()
	tok := domain.AuthToken{Value: value, ExpiresAt: now.Add(ttl - expiryMargin)}
	s.store.SetUntil(tokenKey, tok, tok.ExpiresAt)

	s.metrics.IncrTokenRefresh("ok")
	log.Info("sig auth: token refreshed", zap.Duration("ttl", ttl))
	return tok, nil
}

// lifetime reads the token lifetime from the reply, then from the JWT exp
// claim, then falls back to the configured default.
func (s *TokenSource) lifetime(parsed map[string]any, token string) time.Duration {
	for _, key := range []string{"expiresIn", "expires_in", "dados.expiresIn"} {
		if secs, ok := positiveInt(lookup(parsed, key)); ok {
			return time.Duration(secs) * time.Second
		}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			if d := exp.Time.Sub(s.store.Now()); d > expiryMargin {
				return d
			}
		}
	}

	return s.creds.DefaultTTL
}

func lookup(m map[string]any, path string) any {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[part]
	}
	return cur
}

func firstNonEmptyString(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s, ok := lookup(m, p).(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func positiveInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil && i > 0 {
			return i, true
		}
		if f, err := n.Float64(); err == nil && f > 0 {
			return int64(f), true
		}
	case float64:
		if n > 0 {
			return int64(n), true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil && i > 0 {
			return i, true
		}
	}
	return 0, false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
