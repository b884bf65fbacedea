package normalize

import (
	"strings"

	"github.com/araguaina/iptu-portal-bfa/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	unknownAddress           = "Endereço não informado"
	defaultSituacao          = "PENDENTE"
	defaultChargeDescription = "IPTU"
	defaultParcela           = "1"
)

// Candidate key tables, in priority order.
var (
	inscricaoKeys         = []string{"inscricaoImobiliaria", "inscricao", "inscricao_imobiliaria"}
	inscricaoAnteriorKeys = []string{"inscricaoAnterior", "inscricao_anterior"}
	cciKeys               = []string{"cci", "cciImovel", "cci_imovel"}
	ccpKeys               = []string{"ccp", "ccpImovel", "ccp_imovel"}
	situacaoKeys          = []string{"situacao", "status", "situacaoCadastral"}
	ownerNameKeys         = []string{"proprietario.nome", "proprietario", "nomeProprietario", "nome_contribuinte", "nomeContribuinte"}
	ownerDocumentKeys     = []string{"proprietario.documento", "cpfCnpj", "documento", "documentoContribuinte"}
	fullAddressKeys       = []string{"enderecoCompleto", "endereco_completo", "endereco", "logradouro"}
	addressPartKeys       = []string{"tipoLogradouro", "logradouro", "numero", "bairro", "complemento"}

	debtProcessoKeys  = []string{"processo", "numeroProcesso", "numero", "id"}
	debtAnoKeys       = []string{"exercicio", "ano", "anoReferencia"}
	debtValorKeys     = []string{"valor", "valorTotal", "saldo"}
	debtSituacaoKeys  = []string{"situacao", "status"}
	debtDescricaoKeys = []string{"descricao", "motivo", "observacao"}

	chargeDuamKeys          = []string{"numeroDuam", "numero", "id", "duam"}
	chargeParcelaKeys       = []string{"parcela", "nrParcela", "parcelaAtual"}
	chargeDescricaoKeys     = []string{"descricao", "receitaDescricao", "referencia"}
	chargeExercicioKeys     = []string{"exercicio", "ano"}
	chargeValorOriginalKeys = []string{"valorOriginal", "valorLancado", "valor"}
	chargeDescontoKeys      = []string{"desconto", "valorDesconto"}
	chargeValorKeys         = []string{"valorAtualizado", "valorAPagar", "valor"}
	vencimentoKeys          = []string{"vencimento", "dataVencimento", "dtVenc"}

	installmentListKeys      = []string{"parcelas", "simulacao.parcelas", "dados.parcelas"}
	installmentNumeroKeys    = []string{"numero", "parcela", "nrParcela"}
	installmentValorKeys     = []string{"valor", "valorParcela", "valorTotal"}
	installmentPrincipalKeys = []string{"valorPrincipal", "principal", "valorOriginal"}
	installmentJurosKeys     = []string{"juros", "valorJuros"}
	installmentMultaKeys     = []string{"multa", "valorMulta"}
	barcodeKeys              = []string{"codigoBarras", "codigo_barras", "codBarras"}
	digitableLineKeys        = []string{"linhaDigitavel", "linha_digitavel"}
	totalGeralKeys           = []string{"totalGeral", "valorTotal", "total"}

	slipNumeroKeys = []string{"numero", "numeroBoleto", "numeroDuam", "id", "duam"}
)

// Property maps a listed property record.
func Property(rec map[string]any) domain.Property {
	return domain.Property{
		Inscricao:         String(rec, inscricaoKeys...),
		InscricaoAnterior: String(rec, inscricaoAnteriorKeys...),
		CCI:               String(rec, cciKeys...),
		CCP:               String(rec, ccpKeys...),
		Endereco:          Address(rec),
		Situacao:          String(rec, situacaoKeys...),
		Proprietario: domain.Owner{
			Nome:      String(rec, ownerNameKeys...),
			Documento: String(rec, ownerDocumentKeys...),
		},
	}
}

// Address renders a one-line address, composing it from its parts when no
// full form is present.
func Address(rec map[string]any) string {
	if s := String(rec, fullAddressKeys...); s != "" {
		return s
	}
	var parts []string
	for _, k := range addressPartKeys {
		if s := String(rec, k); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return unknownAddress
	}
	return strings.Join(parts, ", ")
}

// ActiveDebt maps a dívida ativa record.
func ActiveDebt(rec map[string]any) domain.ActiveDebt {
	situacao := String(rec, debtSituacaoKeys...)
	if situacao == "" {
		situacao = defaultSituacao
	}
	return domain.ActiveDebt{
		Processo:  String(rec, debtProcessoKeys...),
		Ano:       String(rec, debtAnoKeys...),
		Valor:     Decimal(rec, debtValorKeys...),
		Situacao:  situacao,
		Descricao: String(rec, debtDescricaoKeys...),
	}
}

// OpenCharge maps an open DUAM installment.
func OpenCharge(rec map[string]any) domain.OpenCharge {
	duam := String(rec, chargeDuamKeys...)
	parcela := String(rec, chargeParcelaKeys...)
	if parcela == "" {
		parcela = defaultParcela
	}
	descricao := String(rec, chargeDescricaoKeys...)
	if descricao == "" {
		descricao = defaultChargeDescription
	}

	c := domain.OpenCharge{
		ID:            duam + "-" + parcela,
		Duam:          duam,
		Descricao:     descricao,
		Exercicio:     String(rec, chargeExercicioKeys...),
		Parcela:       parcela,
		ValorOriginal: Decimal(rec, chargeValorOriginalKeys...),
		Desconto:      Decimal(rec, chargeDescontoKeys...),
		Valor:         Decimal(rec, chargeValorKeys...),
	}
	if v := String(rec, vencimentoKeys...); v != "" {
		c.Vencimento = &v
	}
	return c
}

// ActiveDebts maps every record of a dívida ativa payload.
func ActiveDebts(raw any) []domain.ActiveDebt {
	items := Items(raw)
	out := make([]domain.ActiveDebt, 0, len(items))
	for _, rec := range items {
		out = append(out, ActiveDebt(rec))
	}
	return out
}

// OpenCharges maps every record of an open-charges payload.
func OpenCharges(raw any) []domain.OpenCharge {
	items := Items(raw)
	out := make([]domain.OpenCharge, 0, len(items))
	for _, rec := range items {
		out = append(out, OpenCharge(rec))
	}
	return out
}

// PropertyDetail maps the single-property detail record. The address may
// arrive as a nested object (endereco, dadosEndereco) or as flat fields.
func PropertyDetail(rec map[string]any) domain.PropertyDetail {
	if rec == nil {
		return domain.PropertyDetail{}
	}

	addr, _ := rec["endereco"].(map[string]any)
	if addr == nil {
		addr, _ = rec["dadosEndereco"].(map[string]any)
	}
	if addr == nil {
		addr = map[string]any{}
	}

	logradouro := String(addr, "logradouro", "logradouro_nome")
	if logradouro == "" {
		logradouro = String(rec, "logradouro", "logradouro_nome")
	}
	completo := String(addr, "enderecoCompleto", "endereco_completo")
	if completo == "" {
		completo = logradouro
	}
	if completo == "" {
		completo = String(rec, "enderecoCompleto", "endereco_completo", "endereco")
	}

	var bairro *string
	if s := String(addr, "bairro", "bairro_nome"); s != "" {
		bairro = &s
	} else if s := String(rec, "bairro", "bairro_nome"); s != "" {
		bairro = &s
	}

	return domain.PropertyDetail{
		Inscricao:         String(rec, inscricaoKeys...),
		InscricaoAnterior: String(rec, inscricaoAnteriorKeys...),
		CCI:               String(rec, cciKeys...),
		CCP:               String(rec, ccpKeys...),
		DadosCadastrais: domain.CadastralData{
			TipoImovel:     String(rec, "tipoImovel", "dadosCadastrais.tipoImovel", "tipo_imovel"),
			AreaLote:       Decimal(rec, "dadosCadastrais.areaLote", "areaLote", "area_lote"),
			AreaConstruida: Decimal(rec, "dadosCadastrais.areaConstruida", "areaConstruida", "area_construida"),
			ValorVenal:     Decimal(rec, "dadosCadastrais.valorVenal", "valorVenal", "valor_venal"),
		},
		Endereco: domain.Address{
			EnderecoCompleto: completo,
			Logradouro:       logradouro,
			BairroInfo:       domain.Neighborhood{Nome: bairro},
		},
		Proprietario: domain.Owner{
			Nome:      String(rec, ownerNameKeys...),
			Documento: String(rec, ownerDocumentKeys...),
		},
		Situacao: String(rec, situacaoKeys...),
	}
}

// Installment maps one plan or slip row; position is used when the row
// carries no number.
func Installment(rec map[string]any, position int) domain.Installment {
	numero := Int(rec, installmentNumeroKeys...)
	if numero <= 0 {
		numero = position
	}
	return domain.Installment{
		Numero:         numero,
		Valor:          Decimal(rec, installmentValorKeys...),
		ValorPrincipal: Decimal(rec, installmentPrincipalKeys...),
		Juros:          Decimal(rec, installmentJurosKeys...),
		Multa:          Decimal(rec, installmentMultaKeys...),
		Vencimento:     String(rec, vencimentoKeys...),
		CodigoBarras:   String(rec, barcodeKeys...),
		LinhaDigitavel: String(rec, digitableLineKeys...),
	}
}

func installments(raw any) []domain.Installment {
	var rows []map[string]any
	if m, ok := raw.(map[string]any); ok {
		for _, k := range installmentListKeys {
			if arr, ok := Lookup(m, k).([]any); ok {
				rows = objects(arr)
				break
			}
		}
	}
	if rows == nil {
		rows = Items(raw)
	}

	out := make([]domain.Installment, 0, len(rows))
	for i, rec := range rows {
		out = append(out, Installment(rec, i+1))
	}
	return out
}

// Simulation maps an installment-plan simulation. Totals reported by the
// upstream win; otherwise they are summed from the rows.
func Simulation(raw any) domain.InstallmentSimulation {
	rows := installments(raw)

	var principal, juros, multa, total decimal.Decimal
	for _, p := range rows {
		principal = principal.Add(p.ValorPrincipal)
		juros = juros.Add(p.Juros)
		multa = multa.Add(p.Multa)
		total = total.Add(p.Valor)
	}

	rec, _ := raw.(map[string]any)
	if rec != nil {
		if v := First(rec, "resumo.totalPrincipal", "totalPrincipal"); v != nil {
			principal = ToDecimal(v)
		}
		if v := First(rec, "resumo.totalJuros", "totalJuros"); v != nil {
			juros = ToDecimal(v)
		}
		if v := First(rec, "resumo.totalMulta", "totalMulta"); v != nil {
			multa = ToDecimal(v)
		}
		if v := First(rec, totalGeralKeys...); v != nil {
			total = ToDecimal(v)
		}
	}

	return domain.InstallmentSimulation{
		Parcelas: rows,
		Resumo: domain.SimulationSummary{
			TotalPrincipal: principal,
			TotalJuros:     juros,
			TotalMulta:     multa,
		},
		TotalGeral: total,
	}
}

// VirtualSlip maps a generated virtual slip.
func VirtualSlip(raw any) domain.VirtualSlip {
	rows := installments(raw)
	rec, _ := raw.(map[string]any)
	if inner, ok := rec["dados"].(map[string]any); ok {
		rec = inner
	}
	if rec == nil {
		rec = Object(raw)
	}
	if rec == nil {
		rec = map[string]any{}
	}

	slip := domain.VirtualSlip{
		Numero:         String(rec, slipNumeroKeys...),
		Vencimento:     String(rec, vencimentoKeys...),
		LinhaDigitavel: String(rec, digitableLineKeys...),
		CodigoBarras:   String(rec, barcodeKeys...),
		Parcelas:       rows,
	}
	if v := First(rec, "valorTotal", "totalGeral", "valor", "total"); v != nil {
		slip.ValorTotal = ToDecimal(v)
	} else {
		for _, p := range rows {
			slip.ValorTotal = slip.ValorTotal.Add(p.Valor)
		}
	}
	return slip
}
