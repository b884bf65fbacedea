// Package service provides the business logic layer (use cases): property
// listing and debt aggregation, and the billing (boletos) workflow, both on
// top of SIG Integração.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/araguaina/iptu-portal-bfa/internal/config"
	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/normalize"
	"github.com/araguaina/iptu-portal-bfa/internal/infra/observability"
	"github.com/araguaina/iptu-portal-bfa/internal/port"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/property")

// PropertyOptions tunes pagination and fan-out.
type PropertyOptions struct {
	PageSize int // records requested per page
	MaxPages int // hard stop for the listing loop
	Fanout   int // properties enriched concurrently per request
}

// PropertyService lists a taxpayer's properties and aggregates their debts.
type PropertyService struct {
	upstream  port.UpstreamCaller
	endpoints config.Endpoints
	opts      PropertyOptions
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewPropertyService creates the property service with all dependencies injected.
func NewPropertyService(
	upstream port.UpstreamCaller,
	endpoints config.Endpoints,
	opts PropertyOptions,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *PropertyService {
	if opts.PageSize <= 0 {
		opts.PageSize = 200
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 20
	}
	if opts.Fanout <= 0 {
		opts.Fanout = 4
	}
	return &PropertyService{
		upstream:  upstream,
		endpoints: endpoints,
		opts:      opts,
		metrics:   metrics,
		logger:    logger,
	}
}

// ListProperties reads every page of the document's properties and returns
// them deduplicated. Listing stops at MaxPages even when the upstream
// reports more data.
func (s *PropertyService) ListProperties(ctx context.Context, doc domain.Document) ([]domain.Property, error) {
	ctx, span := tracer.Start(ctx, "PropertyService.ListProperties")
	defer span.End()

	log := observability.L(ctx, s.logger)

	var collected []domain.Property
	for page := 1; page <= s.opts.MaxPages; page++ {
		payload, err := s.upstream.Call(ctx, s.endpoints.Imoveis, domain.UpstreamRequest{
			Query: map[string]string{
				string(doc.Kind): doc.Digits,
				"pagina":         strconv.Itoa(page),
				"itens":          strconv.Itoa(s.opts.PageSize),
			},
		})
		if isNotFound(err) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list properties page %d: %w", page, err)
		}

		items := normalize.Items(payload.Value)
		for _, rec := range items {
			collected = append(collected, normalize.Property(rec))
		}

		if !normalize.HasMore(payload.Value, len(items), s.opts.PageSize, page) {
			break
		}
		if page == s.opts.MaxPages {
			log.Warn("property listing truncated at page limit",
				zap.String("documento", doc.Masked()),
				zap.Int("max_pages", s.opts.MaxPages),
			)
		}
	}

	span.SetAttributes(attribute.Int("properties.raw", len(collected)))
	return Dedupe(collected), nil
}

// Dedupe keeps the first occurrence of each property key. Records without
// any identifier are always kept.
func Dedupe(props []domain.Property) []domain.Property {
	seen := make(map[string]struct{}, len(props))
	out := make([]domain.Property, 0, len(props))
	for _, p := range props {
		key := p.Key()
		if key == "" {
			out = append(out, p)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// EnrichDebts fetches active debts and open charges for one property
// concurrently. Both lookups complete before the result is combined.
func (s *PropertyService) EnrichDebts(ctx context.Context, key string) (*domain.PropertyDebts, error) {
	debts := &domain.PropertyDebts{
		DividasAtivas: []domain.ActiveDebt{},
		IPTUPendentes: []domain.OpenCharge{},
	}
	if key == "" {
		return debts, nil
	}

	ctx, span := tracer.Start(ctx, "PropertyService.EnrichDebts")
	defer span.End()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		active, err := s.activeDebts(gCtx, key)
		if err != nil {
			return err
		}
		debts.DividasAtivas = active
		return nil
	})
	g.Go(func() error {
		charges, err := s.openCharges(gCtx, key)
		if err != nil {
			return err
		}
		debts.IPTUPendentes = charges
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return debts, nil
}

// ConsultTaxpayer lists the document's properties and attaches the debts of
// each one, keeping the listing order.
func (s *PropertyService) ConsultTaxpayer(ctx context.Context, doc domain.Document) (*domain.TaxpayerResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "PropertyService.ConsultTaxpayer")
	defer span.End()
	span.SetAttributes(attribute.String("document.kind", string(doc.Kind)))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("consultar_contribuinte", time.Since(start))
	}()

	props, err := s.ListProperties(ctx, doc)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return &domain.TaxpayerResult{TotalImoveis: 0, Itens: []domain.EnrichedProperty{}}, nil
	}

	items := make([]domain.EnrichedProperty, len(props))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Fanout)
	for i, p := range props {
		i, p := i, p
		g.Go(func() error {
			debts, err := s.EnrichDebts(gCtx, p.Key())
			if err != nil {
				return fmt.Errorf("debts for property %s: %w", p.Key(), err)
			}
			items[i] = domain.EnrichedProperty{Property: p, PropertyDebts: *debts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.metrics.AddPropertiesListed(len(items))
	observability.L(ctx, s.logger).Info("taxpayer consulted",
		zap.String("documento", doc.Masked()),
		zap.Int("total_imoveis", len(items)),
	)
	return &domain.TaxpayerResult{TotalImoveis: len(items), Itens: items}, nil
}

// ConsultDebts builds the debt statement of one property. The property detail
// is best effort: when the ERP has no detail record the statement falls back
// to the identifiers the caller sent.
func (s *PropertyService) ConsultDebts(ctx context.Context, ref domain.PropertyRef) (*domain.DebtStatement, error) {
	id := ref.Identifier()
	if id == "" {
		return nil, domain.Validation("É necessário informar inscrição ou CCI do imóvel.", "inscricao", "cci")
	}

	ctx, span := tracer.Start(ctx, "PropertyService.ConsultDebts")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("consultar_debitos", time.Since(start))
	}()

	var (
		charges []domain.OpenCharge
		active  []domain.ActiveDebt
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		charges, err = s.openCharges(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = s.activeDebts(gCtx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(charges) == 0 && len(active) == 0 {
		return nil, domain.NotFound("Nenhum débito encontrado para este imóvel.")
	}

	rec, err := s.detailRecord(ctx, domain.PropertyRef{
		CCI:       firstNonEmpty(domain.OnlyDigits(ref.CCI), id),
		Inscricao: firstNonEmpty(ref.Inscricao, id),
	})
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("property detail: %w", err)
	}
	detail := normalize.PropertyDetail(rec)

	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.Valor)
	}

	return &domain.DebtStatement{
		Imovel: domain.StatementProperty{
			CCI:       firstNonEmpty(detail.CCI, id),
			Inscricao: optional(detail.Inscricao),
			CCP:       optional(firstNonEmpty(detail.CCP, ref.CCP)),
			Endereco:  optional(firstNonEmpty(detail.Endereco.EnderecoCompleto, detail.Endereco.Logradouro)),
		},
		Proprietario:      detail.Proprietario,
		Itens:             charges,
		DividasAtivas:     active,
		QuantidadeDebitos: len(charges) + len(active),
		TotalDebitos:      total,
	}, nil
}

// PropertyDetail returns the cadastral record of one property.
func (s *PropertyService) PropertyDetail(ctx context.Context, ref domain.PropertyRef) (*domain.PropertyDetail, error) {
	if ref.CCI == "" && ref.Inscricao == "" {
		return nil, domain.Validation("Informe inscrição ou CCI para consultar o imóvel.", "inscricao", "cci")
	}

	ctx, span := tracer.Start(ctx, "PropertyService.PropertyDetail")
	defer span.End()

	rec, err := s.detailRecord(ctx, ref)
	if isNotFound(err) || (err == nil && rec == nil) {
		return nil, domain.NotFound("Imóvel não encontrado.")
	}
	if err != nil {
		return nil, err
	}

	detail := normalize.PropertyDetail(rec)
	return &detail, nil
}

func (s *PropertyService) activeDebts(ctx context.Context, key string) ([]domain.ActiveDebt, error) {
	payload, err := s.upstream.Call(ctx, s.endpoints.DividaAtiva, domain.UpstreamRequest{
		Query: map[string]string{"cci": key, "inscricao": key},
	})
	if isNotFound(err) {
		return []domain.ActiveDebt{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("active debts: %w", err)
	}
	return normalize.ActiveDebts(payload.Value), nil
}

func (s *PropertyService) openCharges(ctx context.Context, key string) ([]domain.OpenCharge, error) {
	payload, err := s.upstream.Call(ctx, s.endpoints.DebitosAbertos, domain.UpstreamRequest{
		Query: map[string]string{"cci": key, "inscricao": key},
	})
	if isNotFound(err) {
		return []domain.OpenCharge{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open charges: %w", err)
	}
	return normalize.OpenCharges(payload.Value), nil
}

// detailRecord returns the raw detail object, or nil when the ERP replied
// with nothing usable.
func (s *PropertyService) detailRecord(ctx context.Context, ref domain.PropertyRef) (map[string]any, error) {
	payload, err := s.upstream.Call(ctx, s.endpoints.DetalhesImovel, domain.UpstreamRequest{
		Query: map[string]string{"cci": ref.CCI, "inscricao": ref.Inscricao},
	})
	if err != nil {
		return nil, err
	}
	if payload.Empty() {
		return nil, nil
	}
	return normalize.Object(payload.Value), nil
}

func isNotFound(err error) bool {
	var de *domain.Error
	return errors.As(err, &de) && de.Kind == domain.KindNotFound
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
