package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// InitSentry enables error reporting. An empty DSN leaves Sentry disabled.
func InitSentry(dsn, environment string) error {
	if dsn == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		AttachStacktrace: true,
	})
}

// FlushSentry waits for buffered events to be delivered.
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// CaptureError reports err tagged with the request correlation id.
// It is a no-op when Sentry was not initialized.
func CaptureError(ctx context.Context, r *http.Request, err error) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub = hub.Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("correlation_id", CorrelationID(ctx))
		if r != nil {
			scope.SetTag("path", r.URL.Path)
			scope.SetTag("method", r.Method)
		}
		hub.CaptureException(err)
	})
}

// RecoverMiddleware turns panics into a JSON 500, logging them and reporting
// them to Sentry.
func RecoverMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				L(r.Context(), logger).Error("panic recovered",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				CaptureError(r.Context(), r, fmt.Errorf("panic: %v", rec))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Erro interno ao processar requisição."})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
