package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/araguaina/iptu-portal-bfa/internal/config"
	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/normalize"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/observability"
	"github.com/araguaina/iptu-portal-bfa/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var billingTracer = otel.Tracer("service/billing")

const (
	missingFieldsMsg = "Campos obrigatórios não informados."
	invalidReplyMsg  = "Resposta inválida do sistema SIG."
	invalidPDFMsg    = "O sistema SIG não retornou um PDF válido."
	pdfContentType   = "application/pdf"
)

// pdfKeys are the JSON fields that may carry a base64 encoded PDF.
var pdfKeys = []string{"pdf", "arquivo", "conteudo", "base64"}

// BillingService drives the boletos workflow: debt consultation,
// installment simulation, virtual slip generation and slip printing.
type BillingService struct {
	upstream    port.UpstreamCaller
	properties  port.PropertyQuerier
	endpoints   config.Endpoints
	maxParcelas int
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewBillingService creates a new billing service.
func NewBillingService(
	upstream port.UpstreamCaller,
	properties port.PropertyQuerier,
	endpoints config.Endpoints,
	maxParcelas int,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *BillingService {
	if maxParcelas <= 0 {
		maxParcelas = 10
	}
	return &BillingService{
		upstream:    upstream,
		properties:  properties,
		endpoints:   endpoints,
		maxParcelas: maxParcelas,
		metrics:     metrics,
		logger:      logger,
	}
}

// Consult returns the debt statement of the identified property.
func (s *BillingService) Consult(ctx context.Context, req *domain.BillingRequest) (*domain.DebtStatement, error) {
	if _, err := s.validate(req, false); err != nil {
		return nil, err
	}
	return s.properties.ConsultDebts(ctx, req.Identificacao)
}

// Simulate asks the ERP for an installment plan over the selected debts.
func (s *BillingService) Simulate(ctx context.Context, req *domain.BillingRequest) (*domain.InstallmentSimulation, error) {
	doc, err := s.validate(req, true)
	if err != nil {
		return nil, err
	}

	ctx, span := billingTracer.Start(ctx, "BillingService.Simulate")
	defer span.End()
	span.SetAttributes(attribute.Int("billing.parcelas", req.Opcoes.Parcelas))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("simular_parcelamento", time.Since(start))
	}()

	payload, err := s.upstream.Call(ctx, s.endpoints.Simulacao, domain.UpstreamRequest{
		Method: http.MethodPost,
		Body:   upstreamBody(doc, req),
	})
	if err != nil {
		return nil, fmt.Errorf("simulate installments: %w", err)
	}
	if payload.Empty() || !payload.Decoded {
		return nil, domain.Upstream(http.StatusBadGateway, invalidReplyMsg, payload.Body)
	}

	sim := normalize.Simulation(payload.Value)
	if len(sim.Parcelas) == 0 {
		return nil, domain.Upstream(http.StatusBadGateway, invalidReplyMsg, payload.Body)
	}

	observability.L(ctx, s.logger).Info("installments simulated",
		zap.String("documento", doc.Masked()),
		zap.Int("parcelas", len(sim.Parcelas)),
	)
	return &sim, nil
}

// Generate issues a virtual slip for the selected debts.
func (s *BillingService) Generate(ctx context.Context, req *domain.BillingRequest) (*domain.VirtualSlip, error) {
	doc, err := s.validate(req, true)
	if err != nil {
		return nil, err
	}

	ctx, span := billingTracer.Start(ctx, "BillingService.Generate")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("gerar_boleto", time.Since(start))
	}()

	body := upstreamBody(doc, req)
	if len(req.Simulacao) > 0 {
		body["simulacao"] = req.Simulacao
	}

	payload, err := s.upstream.Call(ctx, s.endpoints.GerarBoletoVirtual, domain.UpstreamRequest{
		Method: http.MethodPost,
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("generate virtual slip: %w", err)
	}
	if payload.Empty() || !payload.Decoded {
		return nil, domain.Upstream(http.StatusBadGateway, invalidReplyMsg, payload.Body)
	}

	slip := normalize.VirtualSlip(payload.Value)
	observability.L(ctx, s.logger).Info("virtual slip generated",
		zap.String("documento", doc.Masked()),
		zap.String("numero", slip.Numero),
	)
	return &slip, nil
}

// PrintSlip returns the PDF of a DUAM.
func (s *BillingService) PrintSlip(ctx context.Context, req *domain.PrintRequest) (*domain.PDFDocument, error) {
	doc, err := validatePrint(req, "duam", req.Duam)
	if err != nil {
		return nil, err
	}

	ctx, span := billingTracer.Start(ctx, "BillingService.PrintSlip")
	defer span.End()

	payload, err := s.upstream.Call(ctx, s.endpoints.ImprimirDuam, domain.UpstreamRequest{
		Query: map[string]string{
			string(doc.Kind): doc.Digits,
			"duam":           req.Duam,
			"parcela":        req.Parcela,
		},
		Accept: pdfContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("print duam: %w", err)
	}

	content, err := extractPDF(payload)
	if err != nil {
		return nil, err
	}

	name := "duam-" + req.Duam
	if req.Parcela != "" {
		name += "-" + req.Parcela
	}
	return &domain.PDFDocument{Filename: name + ".pdf", Content: content}, nil
}

// PrintVirtualSlip returns the PDF of a generated virtual slip.
func (s *BillingService) PrintVirtualSlip(ctx context.Context, req *domain.PrintRequest) (*domain.PDFDocument, error) {
	doc, err := validatePrint(req, "numero", req.Numero)
	if err != nil {
		return nil, err
	}

	ctx, span := billingTracer.Start(ctx, "BillingService.PrintVirtualSlip")
	defer span.End()

	payload, err := s.upstream.Call(ctx, s.endpoints.ImprimirBoletoVirtual, domain.UpstreamRequest{
		Query: map[string]string{
			string(doc.Kind): doc.Digits,
			"numero":         req.Numero,
		},
		Accept: pdfContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("print virtual slip: %w", err)
	}

	content, err := extractPDF(payload)
	if err != nil {
		return nil, err
	}
	return &domain.PDFDocument{Filename: "boleto-virtual-" + req.Numero + ".pdf", Content: content}, nil
}

// validate checks the billing request. Missing fields are reported together
// in campos; full adds the plan fields required by simular and gerar.
func (s *BillingService) validate(req *domain.BillingRequest, full bool) (domain.Document, error) {
	if req == nil {
		return domain.Document{}, domain.Validation(missingFieldsMsg, "documento", "identificacao")
	}

	hasDocument := strings.TrimSpace(req.Raw()) != ""

	var campos []string
	if !hasDocument && !req.DocumentOptional {
		campos = append(campos, "documento")
	}
	if req.Identificacao.Identifier() == "" {
		campos = append(campos, "identificacao")
	}
	if full {
		if len(req.ItensSelecionados) == 0 {
			campos = append(campos, "itensSelecionados")
		}
		if req.Opcoes.Parcelas == 0 {
			campos = append(campos, "parcelas")
		}
		if strings.TrimSpace(req.Opcoes.Vencimento) == "" {
			campos = append(campos, "vencimento")
		}
	}
	if len(campos) > 0 {
		return domain.Document{}, domain.Validation(missingFieldsMsg, campos...)
	}

	var doc domain.Document
	if hasDocument {
		parsed, err := domain.ParseDocument(req.Raw())
		if err != nil {
			return domain.Document{}, err
		}
		doc = parsed
	}
	if !full {
		return doc, nil
	}

	if req.Opcoes.Parcelas < 1 || req.Opcoes.Parcelas > s.maxParcelas {
		return domain.Document{}, domain.Validation(
			fmt.Sprintf("A quantidade de parcelas deve estar entre 1 e %d.", s.maxParcelas), "parcelas")
	}
	if _, err := time.Parse("2006-01-02", req.Opcoes.Vencimento); err != nil {
		return domain.Document{}, domain.Validation("Data de vencimento inválida.", "vencimento")
	}
	return doc, nil
}

func validatePrint(req *domain.PrintRequest, field, value string) (domain.Document, error) {
	if req == nil {
		return domain.Document{}, domain.Validation(missingFieldsMsg, "documento", field)
	}
	var campos []string
	if strings.TrimSpace(req.Raw()) == "" {
		campos = append(campos, "documento")
	}
	if strings.TrimSpace(value) == "" {
		campos = append(campos, field)
	}
	if len(campos) > 0 {
		return domain.Document{}, domain.Validation(missingFieldsMsg, campos...)
	}
	return domain.ParseDocument(req.Raw())
}

// upstreamBody forwards the UI payload with the normalized tax id, when one
// was informed.
func upstreamBody(doc domain.Document, req *domain.BillingRequest) map[string]any {
	body := map[string]any{
		"identificacao":     req.Identificacao,
		"itensSelecionados": req.ItensSelecionados,
		"opcoes":            req.Opcoes,
	}
	if doc.Digits != "" {
		body[string(doc.Kind)] = doc.Digits
		body["documento"] = doc.Digits
	}
	return body
}

// extractPDF accepts raw PDF bytes or a JSON object carrying the file as
// base64 (optionally as a data URL).
func extractPDF(payload *domain.UpstreamPayload) ([]byte, error) {
	if payload == nil || len(payload.Body) == 0 {
		return nil, domain.Upstream(http.StatusBadGateway, invalidPDFMsg, nil)
	}
	if bytes.HasPrefix(payload.Body, []byte("%PDF")) || strings.HasPrefix(payload.ContentType, pdfContentType) {
		return payload.Body, nil
	}

	if rec := normalize.Object(payload.Value); rec != nil {
		if encoded := normalize.String(rec, pdfKeys...); encoded != "" {
			if i := strings.Index(encoded, "base64,"); i >= 0 {
				encoded = encoded[i+len("base64,"):]
			}
			if content, err := base64.StdEncoding.DecodeString(encoded); err == nil && len(content) > 0 {
				return content, nil
			}
		}
	}
	return nil, domain.Upstream(http.StatusBadGateway, invalidPDFMsg, payload.Body)
}
