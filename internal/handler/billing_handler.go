package handler

import (
	"context"
	"net/http"

	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/araguaina/iptu-portal-bfa/internal/port"

	"go.uber.org/zap"
)

// ============================================================
// Boletos: consulta, simulação, emissão e impressão
// ============================================================

// billingHandler decodes a BillingRequest, runs op and writes its JSON result.
func billingHandler(
	span string,
	op func(ctx context.Context, req *domain.BillingRequest) (any, error),
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, s := tracer.Start(r.Context(), span)
		defer s.End()
		r = r.WithContext(ctx)

		var req domain.BillingRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		result, err := op(ctx, &req)
		if err != nil {
			handleServiceError(w, r, err, req.Raw(), logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// POST /api/public/boletos/consulta
func consultBillingHandler(svc port.BillingWorkflow, logger *zap.Logger) http.HandlerFunc {
	return billingHandler("POST /api/public/boletos/consulta",
		func(ctx context.Context, req *domain.BillingRequest) (any, error) {
			return svc.Consult(ctx, req)
		}, logger)
}

// POST /api/public/boletos/simular
func simulateHandler(svc port.BillingWorkflow, logger *zap.Logger) http.HandlerFunc {
	return billingHandler("POST /api/public/boletos/simular",
		func(ctx context.Context, req *domain.BillingRequest) (any, error) {
			return svc.Simulate(ctx, req)
		}, logger)
}

// POST /api/public/boletos/gerar
func generateHandler(svc port.BillingWorkflow, logger *zap.Logger) http.HandlerFunc {
	return billingHandler("POST /api/public/boletos/gerar",
		func(ctx context.Context, req *domain.BillingRequest) (any, error) {
			return svc.Generate(ctx, req)
		}, logger)
}

// POST /functions/simularParcelamento
// The portal UI identifies the property only, so the tax id is optional here.
func uiSimulateHandler(svc port.BillingWorkflow, logger *zap.Logger) http.HandlerFunc {
	return billingHandler("POST /functions/simularParcelamento",
		func(ctx context.Context, req *domain.BillingRequest) (any, error) {
			req.DocumentOptional = true
			return svc.Simulate(ctx, req)
		}, logger)
}

// POST /functions/emitirDuam
func uiGenerateHandler(svc port.BillingWorkflow, logger *zap.Logger) http.HandlerFunc {
	return billingHandler("POST /functions/emitirDuam",
		func(ctx context.Context, req *domain.BillingRequest) (any, error) {
			req.DocumentOptional = true
			return svc.Generate(ctx, req)
		}, logger)
}

func printHandler(
	span string,
	op func(ctx context.Context, req *domain.PrintRequest) (*domain.PDFDocument, error),
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, s := tracer.Start(r.Context(), span)
		defer s.End()
		r = r.WithContext(ctx)

		var req domain.PrintRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		doc, err := op(ctx, &req)
		if err != nil {
			handleServiceError(w, r, err, req.Raw(), logger)
			return
		}
		writePDF(w, doc)
	}
}

// POST /api/public/boletos/imprimir
func printSlipHandler(svc port.BillingWorkflow, logger *zap.Logger) http.HandlerFunc {
	return printHandler("POST /api/public/boletos/imprimir", svc.PrintSlip, logger)
}

// POST /api/public/boletos/imprimir-virtual
func printVirtualSlipHandler(svc port.BillingWorkflow, logger *zap.Logger) http.HandlerFunc {
	return printHandler("POST /api/public/boletos/imprimir-virtual", svc.PrintVirtualSlip, logger)
}
