package handler

import (
	"net/http"

	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/araguaina/iptu-portal-bfa/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const msgNoProperties = "Nenhum imóvel encontrado para este documento."

// noPropertiesResponse keeps the listing shape so the portal can render an
// empty state from a 404.
type noPropertiesResponse struct {
	Mensagem     string                    `json:"mensagem"`
	TotalImoveis int                       `json:"totalImoveis"`
	Itens        []domain.EnrichedProperty `json:"itens"`
}

// POST /functions/consultarContribuinte
func consultTaxpayerHandler(svc port.PropertyQuerier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /functions/consultarContribuinte")
		defer span.End()
		r = r.WithContext(ctx)

		var req domain.DocumentFields
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		doc, err := domain.ParseDocument(req.Raw())
		if err != nil {
			handleServiceError(w, r, err, req.Raw(), logger)
			return
		}
		span.SetAttributes(attribute.String("document.kind", string(doc.Kind)))

		result, err := svc.ConsultTaxpayer(ctx, doc)
		if err != nil {
			handleServiceError(w, r, err, doc.Digits, logger)
			return
		}

		if result.TotalImoveis == 0 {
			writeJSON(w, http.StatusNotFound, noPropertiesResponse{
				Mensagem: msgNoProperties,
				Itens:    []domain.EnrichedProperty{},
			})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// POST /functions/consultarDebitos
func consultDebtsHandler(svc port.PropertyQuerier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /functions/consultarDebitos")
		defer span.End()
		r = r.WithContext(ctx)

		var ref domain.PropertyRef
		if err := decodeBody(r, &ref); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		statement, err := svc.ConsultDebts(ctx, ref)
		if err != nil {
			handleServiceError(w, r, err, "", logger)
			return
		}
		writeJSON(w, http.StatusOK, statement)
	}
}

// POST /functions/consultarDetalhesImovel
func propertyDetailHandler(svc port.PropertyQuerier, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /functions/consultarDetalhesImovel")
		defer span.End()
		r = r.WithContext(ctx)

		var ref domain.PropertyRef
		if err := decodeBody(r, &ref); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		detail, err := svc.PropertyDetail(ctx, ref)
		if err != nil {
			handleServiceError(w, r, err, "", logger)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}
