package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ============================================================
// Boletos / DUAM workflow
// ============================================================

// DocumentFields carries the tax id in any of the accepted field names.
type DocumentFields struct {
	CPF       string `json:"cpf,omitempty"`
	CNPJ      string `json:"cnpj,omitempty"`
	Documento string `json:"documento,omitempty"`
}

// Raw returns the first informed tax id.
func (d DocumentFields) Raw() string {
	for _, v := range []string{d.CPF, d.CNPJ, d.Documento} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// InstallmentOptions are the taxpayer's choices for a plan.
type InstallmentOptions struct {
	Parcelas   int    `json:"parcelas"`
	Vencimento string `json:"vencimento"` // first due date, YYYY-MM-DD
}

// BillingRequest is the body accepted by consulta, simular and gerar.
type BillingRequest struct {
	DocumentFields
	Identificacao     PropertyRef        `json:"identificacao"`
	ItensSelecionados []string           `json:"itensSelecionados"`
	Opcoes            InstallmentOptions `json:"opcoes"`
	Simulacao         map[string]any     `json:"simulacao,omitempty"`

	// DocumentOptional is set by routes whose callers identify the property
	// only; the tax id is then validated and forwarded only when present.
	DocumentOptional bool `json:"-"`
}

// PrintRequest is the body accepted by imprimir and imprimir-virtual.
type PrintRequest struct {
	DocumentFields
	Duam    string `json:"duam,omitempty"`
	Parcela string `json:"parcela,omitempty"`
	Numero  string `json:"numero,omitempty"` // virtual slip number
}

// Installment is one row of a simulated plan or a generated slip.
type Installment struct {
	Numero         int             `json:"numero"`
	Valor          decimal.Decimal `json:"valor"`
	ValorPrincipal decimal.Decimal `json:"valorPrincipal"`
	Juros          decimal.Decimal `json:"juros"`
	Multa          decimal.Decimal `json:"multa"`
	Vencimento     string          `json:"vencimento,omitempty"`
	CodigoBarras   string          `json:"codigoBarras,omitempty"`
	LinhaDigitavel string          `json:"linhaDigitavel,omitempty"`
}

// SimulationSummary totals a simulated plan.
type SimulationSummary struct {
	TotalPrincipal decimal.Decimal `json:"totalPrincipal"`
	TotalJuros     decimal.Decimal `json:"totalJuros"`
	TotalMulta     decimal.Decimal `json:"totalMulta"`
}

// InstallmentSimulation is the normalized upstream simulation.
type InstallmentSimulation struct {
	Parcelas   []Installment     `json:"parcelas"`
	Resumo     SimulationSummary `json:"resumo"`
	TotalGeral decimal.Decimal   `json:"totalGeral"`
}

// VirtualSlip is a generated payment slip.
type VirtualSlip struct {
	Numero         string          `json:"numero,omitempty"`
	ValorTotal     decimal.Decimal `json:"valorTotal"`
	Vencimento     string          `json:"vencimento,omitempty"`
	LinhaDigitavel string          `json:"linhaDigitavel,omitempty"`
	CodigoBarras   string          `json:"codigoBarras,omitempty"`
	Parcelas       []Installment   `json:"parcelas"`
}

// PDFDocument is a printable slip.
type PDFDocument struct {
	Filename string
	Content  []byte
}
