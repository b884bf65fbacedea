package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/observability"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

const (
	msgAuthFailed   = "Falha na autenticação com o sistema SIG. Verifique as credenciais."
	msgTimeout      = "Serviço temporariamente indisponível. Tente novamente."
	msgNotFound     = "Registro não encontrado para os parâmetros informados."
	msgUpstream5xx  = "Ocorreu um erro ao consultar os dados de IPTU. Tente novamente."
	msgInternal     = "Erro interno ao processar requisição."
	msgInvalidBody  = "Corpo da requisição inválido."
	maxLoggedUpBody = 500
)

type errorResponse struct {
	Error    string   `json:"error"`
	Campos   []string `json:"campos,omitempty"`
	Detalhes any      `json:"detalhes,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writePDF(w http.ResponseWriter, doc *domain.PDFDocument) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+doc.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Content)
}

// decodeBody reads an optional JSON body into dst. An empty body leaves dst
// untouched so the service can report the missing fields.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// handleServiceError maps domain errors to HTTP responses. document is the
// raw tax id of the request, logged masked.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, document string, logger *zap.Logger) {
	ctx := r.Context()
	log := observability.L(ctx, logger)

	if errors.Is(err, context.Canceled) {
		log.Debug("request cancelled by client", zap.String("path", r.URL.Path))
		return
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Error("request deadline exceeded", zap.Error(err))
			writeError(w, http.StatusGatewayTimeout, msgTimeout)
			return
		}
		log.Error("unhandled error", zap.Error(err), zap.String("documento", domain.MaskDocument(document)))
		observability.CaptureError(ctx, r, err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	fields := []zap.Field{
		zap.String("kind", de.Kind.String()),
		zap.Int("status", de.Status),
		zap.String("documento", domain.MaskDocument(document)),
		zap.Error(err),
	}
	if len(de.UpstreamBody) > 0 {
		fields = append(fields, zap.String("upstream_body", truncate(de.UpstreamBody, maxLoggedUpBody)))
	}

	status := de.Status
	resp := errorResponse{}

	switch de.Kind {
	case domain.KindValidation:
		log.Debug("validation error", fields...)
		status = http.StatusBadRequest
		resp.Error = de.Message
		resp.Campos = de.Fields
	case domain.KindAuth:
		log.Error("upstream authentication failed", fields...)
		resp.Error = msgAuthFailed
	case domain.KindTimeout:
		log.Error("upstream timeout", fields...)
		status = http.StatusGatewayTimeout
		resp.Error = msgTimeout
	case domain.KindNotFound:
		log.Debug("not found", fields...)
		status = http.StatusNotFound
		resp.Error = de.Message
		if resp.Error == "" {
			resp.Error = msgNotFound
		}
	case domain.KindUpstream:
		if status >= 500 {
			log.Error("upstream error", fields...)
			resp.Error = msgUpstream5xx
		} else {
			log.Warn("upstream rejected request", fields...)
			resp.Error = de.Message
			resp.Detalhes = upstreamDetails(de.UpstreamBody)
		}
	case domain.KindUnavailable:
		log.Error("upstream unavailable", fields...)
		status = http.StatusServiceUnavailable
		resp.Error = msgTimeout
	default:
		log.Error("internal error", fields...)
		status = http.StatusInternalServerError
		resp.Error = msgInternal
	}

	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= 500 {
		observability.CaptureError(ctx, r, err)
	}
	writeJSON(w, status, resp)
}

// upstreamDetails returns the upstream body as JSON when it is JSON, as text
// otherwise.
func upstreamDetails(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return truncate(body, maxLoggedUpBody)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
