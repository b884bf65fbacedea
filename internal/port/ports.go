// Package port defines the interfaces (ports) between layers.
// Following hexagonal architecture, services depend on UpstreamCaller rather
// than on the concrete SIG client, and handlers depend on the service ports.
package port

//go:generate mockgen -destination=mocks/mock_ports.go -source=ports.go

import (
	"context"

	"github.com/araguaina/iptu-portal-bfa/internal/domain"
)

// UpstreamCaller performs one authenticated call against SIG Integração.
type UpstreamCaller interface {
	Call(ctx context.Context, path string, req domain.UpstreamRequest) (*domain.UpstreamPayload, error)
}

// PropertyQuerier answers the property and debt lookups of the portal.
type PropertyQuerier interface {
	ConsultTaxpayer(ctx context.Context, doc domain.Document) (*domain.TaxpayerResult, error)
	ConsultDebts(ctx context.Context, ref domain.PropertyRef) (*domain.DebtStatement, error)
	PropertyDetail(ctx context.Context, ref domain.PropertyRef) (*domain.PropertyDetail, error)
}

// BillingWorkflow drives the installment simulation and slip issuance flow.
type BillingWorkflow interface {
	Consult(ctx context.Context, req *domain.BillingRequest) (*domain.DebtStatement, error)
	Simulate(ctx context.Context, req *domain.BillingRequest) (*domain.InstallmentSimulation, error)
	Generate(ctx context.Context, req *domain.BillingRequest) (*domain.VirtualSlip, error)
	PrintSlip(ctx context.Context, req *domain.PrintRequest) (*domain.PDFDocument, error)
	PrintVirtualSlip(ctx context.Context, req *domain.PrintRequest) (*domain.PDFDocument, error)
}
