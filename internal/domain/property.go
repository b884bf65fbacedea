package domain

import "github.com/shopspring/decimal"

func init() {
	// The portal UI does arithmetic on these values; emit numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ============================================================
// Imóveis (properties)
// ============================================================

// Owner identifies the taxpayer attached to a property.
type Owner struct {
	Nome      string `json:"nome,omitempty"`
	Documento string `json:"documento,omitempty"`
}

// Property is a taxable real-estate unit as listed by document.
type Property struct {
	Inscricao         string `json:"inscricao,omitempty"`
	InscricaoAnterior string `json:"inscricaoAnterior,omitempty"`
	CCI               string `json:"cci,omitempty"`
	CCP               string `json:"ccp,omitempty"`
	Endereco          string `json:"endereco"`
	Situacao          string `json:"situacao,omitempty"`
	Proprietario      Owner  `json:"proprietario"`
}

// Key is the identity used for deduplication and debt lookups:
// the first non-empty of CCI, Inscricao, CCP.
func (p Property) Key() string {
	for _, k := range []string{p.CCI, p.Inscricao, p.CCP} {
		if k != "" {
			return k
		}
	}
	return ""
}

// PropertyRef is the set of identifiers a caller may use to address a property.
type PropertyRef struct {
	Inscricao string `json:"inscricao,omitempty"`
	CCI       string `json:"cci,omitempty"`
	CCP       string `json:"ccp,omitempty"`
}

// Identifier returns the digits of the first non-empty of CCI, Inscricao, CCP.
func (r PropertyRef) Identifier() string {
	for _, k := range []string{r.CCI, r.Inscricao, r.CCP} {
		if k != "" {
			return OnlyDigits(k)
		}
	}
	return ""
}

// ============================================================
// Débitos
// ============================================================

// ActiveDebt is a registered ("dívida ativa") debt.
type ActiveDebt struct {
	Processo  string          `json:"processo,omitempty"`
	Ano       string          `json:"ano,omitempty"`
	Valor     decimal.Decimal `json:"valor"`
	Situacao  string          `json:"situacao"`
	Descricao string          `json:"descricao,omitempty"`
}

// OpenCharge is one DUAM installment currently billable.
type OpenCharge struct {
	ID            string          `json:"id"` // duam-parcela
	Duam          string          `json:"duam"`
	Descricao     string          `json:"descricao"`
	Exercicio     string          `json:"exercicio,omitempty"`
	Parcela       string          `json:"parcela"`
	ValorOriginal decimal.Decimal `json:"valorOriginal"`
	Desconto      decimal.Decimal `json:"desconto"`
	Valor         decimal.Decimal `json:"valor"` // amount due, after discount
	Vencimento    *string         `json:"vencimento"`
}

// PropertyDebts groups both debt families for one property.
type PropertyDebts struct {
	DividasAtivas []ActiveDebt `json:"dividasAtivas"`
	IPTUPendentes []OpenCharge `json:"iptuPendentes"`
}

// EnrichedProperty is a listed property with its debts attached.
type EnrichedProperty struct {
	Property
	PropertyDebts
}

// TaxpayerResult is returned by consultarContribuinte.
type TaxpayerResult struct {
	TotalImoveis int                `json:"totalImoveis"`
	Itens        []EnrichedProperty `json:"itens"`
}

// StatementProperty identifies the property in a debt statement.
type StatementProperty struct {
	CCI       string  `json:"cci"`
	Inscricao *string `json:"inscricao"`
	CCP       *string `json:"ccp"`
	Endereco  *string `json:"endereco"`
}

// DebtStatement is the aggregated debt view for one property.
type DebtStatement struct {
	Imovel            StatementProperty `json:"imovel"`
	Proprietario      Owner             `json:"proprietario"`
	Itens             []OpenCharge      `json:"itens"`
	DividasAtivas     []ActiveDebt      `json:"dividasAtivas"`
	QuantidadeDebitos int               `json:"quantidadeDebitos"`
	TotalDebitos      decimal.Decimal   `json:"totalDebitos"`
}

// ============================================================
// Detalhes do imóvel
// ============================================================

// CadastralData holds the cadastral attributes of a property.
type CadastralData struct {
	TipoImovel     string          `json:"tipoImovel,omitempty"`
	AreaLote       decimal.Decimal `json:"areaLote"`
	AreaConstruida decimal.Decimal `json:"areaConstruida"`
	ValorVenal     decimal.Decimal `json:"valorVenal"`
}

// Neighborhood wraps the bairro name.
type Neighborhood struct {
	Nome *string `json:"nome"`
}

// Address is the structured address of a property detail.
type Address struct {
	EnderecoCompleto string       `json:"enderecoCompleto,omitempty"`
	Logradouro       string       `json:"logradouro,omitempty"`
	BairroInfo       Neighborhood `json:"bairroInfo"`
}

// PropertyDetail is the richer single-property record.
type PropertyDetail struct {
	Inscricao         string        `json:"inscricao,omitempty"`
	InscricaoAnterior string        `json:"inscricaoAnterior,omitempty"`
	CCI               string        `json:"cci,omitempty"`
	CCP               string        `json:"ccp,omitempty"`
	DadosCadastrais   CadastralData `json:"dadosCadastrais"`
	Endereco          Address       `json:"endereco"`
	Proprietario      Owner         `json:"proprietario"`
	Situacao          string        `json:"situacao,omitempty"`
}
