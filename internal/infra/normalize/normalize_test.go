package normalize_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/araguaina/iptu-portal-bfa/internal/infra/normalize"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode parses JSON the way the SIG client does (numbers as json.Number).
func decode(t *testing.T, s string) any {
	t.Helper()
	d := json.NewDecoder(bytes.NewReader([]byte(s)))
	d.UseNumber()
	var v any
	require.NoError(t, d.Decode(&v))
	return v
}

func obj(t *testing.T, s string) map[string]any {
	t.Helper()
	m, ok := decode(t, s).(map[string]any)
	require.True(t, ok)
	return m
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestItems(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "bare array", raw: `[{"a":1},{"a":2}]`, want: 2},
		{name: "itens envelope", raw: `{"itens":[{"a":1}]}`, want: 1},
		{name: "items envelope", raw: `{"items":[{"a":1},{"a":2},{"a":3}]}`, want: 3},
		{name: "data envelope", raw: `{"data":[{"a":1}]}`, want: 1},
		{name: "result envelope", raw: `{"result":[{"a":1}]}`, want: 1},
		{name: "itens wins over data", raw: `{"itens":[],"data":[{"a":1}]}`, want: 0},
		{name: "object without list", raw: `{"a":1}`, want: 0},
		{name: "scalar", raw: `"texto"`, want: 0},
		{name: "null", raw: `null`, want: 0},
		{name: "non-object elements skipped", raw: `[1,"x",{"a":1}]`, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.Items(decode(t, tt.raw))
			require.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestObject(t *testing.T) {
	assert.Equal(t, "1", normalize.String(normalize.Object(decode(t, `{"cci":"1"}`)), "cci"))
	assert.Equal(t, "2", normalize.String(normalize.Object(decode(t, `{"dados":{"cci":"2"}}`)), "cci"))
	assert.Equal(t, "3", normalize.String(normalize.Object(decode(t, `[{"cci":"3"},{"cci":"4"}]`)), "cci"))
	assert.Equal(t, "5", normalize.String(normalize.Object(decode(t, `{"itens":[{"cci":"5"}]}`)), "cci"))
	assert.Nil(t, normalize.Object(decode(t, `[]`)))
	assert.Nil(t, normalize.Object(decode(t, `{"itens":[]}`)))
	assert.Nil(t, normalize.Object(nil))
}

func TestHasMore(t *testing.T) {
	tests := []struct {
		name      string
		envelope  string
		pageItems int
		pageSize  int
		page      int
		want      bool
	}{
		{name: "remaining positive", envelope: `{"quantidadeRestante":5}`, pageItems: 1, pageSize: 200, page: 1, want: true},
		{name: "remaining zero beats full page", envelope: `{"quantidadeRestante":0}`, pageItems: 200, pageSize: 200, page: 1, want: false},
		{name: "remaining as string is ignored", envelope: `{"quantidadeRestante":"5"}`, pageItems: 3, pageSize: 200, page: 1, want: false},
		{name: "total not reached", envelope: `{"total":450}`, pageItems: 200, pageSize: 200, page: 2, want: true},
		{name: "total reached", envelope: `{"total":400}`, pageItems: 200, pageSize: 200, page: 2, want: false},
		{name: "total zero falls through", envelope: `{"total":0}`, pageItems: 200, pageSize: 200, page: 1, want: true},
		{name: "full page", envelope: `[]`, pageItems: 200, pageSize: 200, page: 1, want: true},
		{name: "short page", envelope: `[]`, pageItems: 199, pageSize: 200, page: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.HasMore(decode(t, tt.envelope), tt.pageItems, tt.pageSize, tt.page)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsEmpty(t *testing.T) {
	for _, v := range []any{nil, "", false, json.Number("0"), json.Number("0.00"), 0.0, 0} {
		assert.True(t, normalize.IsEmpty(v), "%#v", v)
	}
	for _, v := range []any{"x", true, json.Number("1"), 2.5, map[string]any{}, []any{}} {
		assert.False(t, normalize.IsEmpty(v), "%#v", v)
	}
}

func TestToDecimal(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: json.Number("1234.56"), want: "1234.56"},
		{in: 10.5, want: "10.5"},
		{in: 7, want: "7"},
		{in: "99.90", want: "99.9"},
		{in: "1.234,56", want: "1234.56"},
		{in: "R$ 12,30", want: "12.3"},
		{in: "abc", want: "0"},
		{in: nil, want: "0"},
		{in: true, want: "0"},
		{in: map[string]any{"v": 1}, want: "0"},
	}

	for _, tt := range tests {
		got := normalize.ToDecimal(tt.in)
		assert.True(t, dec(tt.want).Equal(got), "ToDecimal(%#v) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestProperty_FieldFallbacks(t *testing.T) {
	camel := normalize.Property(obj(t, `{"inscricaoImobiliaria":"01.02.0003","cci":"12345"}`))
	snake := normalize.Property(obj(t, `{"inscricao_imobiliaria":"01.02.0003","cci_imovel":"12345"}`))

	assert.Equal(t, "01.02.0003", camel.Inscricao)
	assert.Equal(t, camel.Inscricao, snake.Inscricao)
	assert.Equal(t, camel.CCI, snake.CCI)

	p := normalize.Property(obj(t, `{
		"inscricao": "",
		"inscricao_imobiliaria": "9",
		"ccpImovel": 77,
		"status": "ATIVO",
		"nomeProprietario": "MARIA DA SILVA",
		"documentoContribuinte": "52998224725",
		"endereco_completo": "RUA 1, 100 - CENTRO"
	}`))
	assert.Equal(t, "9", p.Inscricao, "empty string must fall through")
	assert.Equal(t, "77", p.CCP)
	assert.Equal(t, "ATIVO", p.Situacao)
	assert.Equal(t, "MARIA DA SILVA", p.Proprietario.Nome)
	assert.Equal(t, "52998224725", p.Proprietario.Documento)
	assert.Equal(t, "RUA 1, 100 - CENTRO", p.Endereco)
	assert.Equal(t, "9", p.Key(), "inscricao outranks ccp when cci is absent")
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "AV. CONEGO JOAO LIMA, 1000",
		normalize.Address(obj(t, `{"enderecoCompleto":"AV. CONEGO JOAO LIMA, 1000","logradouro":"X"}`)))
	assert.Equal(t, "RUA DAS FLORES",
		normalize.Address(obj(t, `{"logradouro":"RUA DAS FLORES","numero":"10"}`)))
	assert.Equal(t, "RUA, 10, CENTRO",
		normalize.Address(obj(t, `{"tipoLogradouro":"RUA","numero":"10","bairro":"CENTRO","complemento":""}`)))
	assert.Equal(t, "Endereço não informado", normalize.Address(obj(t, `{}`)))
}

func TestActiveDebt(t *testing.T) {
	d := normalize.ActiveDebt(obj(t, `{"numeroProcesso":"2021/55","anoReferencia":2021,"saldo":"1.500,00","motivo":"IPTU 2021"}`))

	assert.Equal(t, "2021/55", d.Processo)
	assert.Equal(t, "2021", d.Ano)
	assert.True(t, dec("1500").Equal(d.Valor))
	assert.Equal(t, "PENDENTE", d.Situacao)
	assert.Equal(t, "IPTU 2021", d.Descricao)
}

func TestOpenCharge(t *testing.T) {
	c := normalize.OpenCharge(obj(t, `{
		"numeroDuam": "889900",
		"nrParcela": 2,
		"ano": "2024",
		"valorLancado": 120.50,
		"valorDesconto": 20.5,
		"valorAPagar": 100,
		"dtVenc": "2024-05-10"
	}`))

	assert.Equal(t, "889900-2", c.ID)
	assert.Equal(t, "889900", c.Duam)
	assert.Equal(t, "2", c.Parcela)
	assert.Equal(t, "IPTU", c.Descricao)
	assert.Equal(t, "2024", c.Exercicio)
	assert.True(t, dec("120.5").Equal(c.ValorOriginal))
	assert.True(t, dec("20.5").Equal(c.Desconto))
	assert.True(t, dec("100").Equal(c.Valor))
	require.NotNil(t, c.Vencimento)
	assert.Equal(t, "2024-05-10", *c.Vencimento)
}

func TestOpenCharge_Defaults(t *testing.T) {
	c := normalize.OpenCharge(obj(t, `{"id":"55","valor":80}`))

	assert.Equal(t, "55-1", c.ID)
	assert.Equal(t, "1", c.Parcela)
	assert.True(t, dec("80").Equal(c.ValorOriginal))
	assert.True(t, dec("80").Equal(c.Valor))
	assert.True(t, c.Desconto.IsZero())
	assert.Nil(t, c.Vencimento)

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"vencimento":null`)
	assert.Contains(t, string(raw), `"valor":80`)
}

func TestPropertyDetail_NestedAddress(t *testing.T) {
	d := normalize.PropertyDetail(obj(t, `{
		"inscricao": "01.02.0003",
		"cciImovel": "12345",
		"tipo_imovel": "TERRITORIAL",
		"dadosCadastrais": {"areaLote": "360,00", "valorVenal": 85000.75},
		"area_construida": 0,
		"endereco": {"logradouro_nome": "RUA 7", "bairro_nome": "SETOR NORTE"},
		"proprietario": {"nome": "JOÃO PEREIRA"},
		"situacaoCadastral": "ATIVO"
	}`))

	assert.Equal(t, "01.02.0003", d.Inscricao)
	assert.Equal(t, "12345", d.CCI)
	assert.Equal(t, "TERRITORIAL", d.DadosCadastrais.TipoImovel)
	assert.True(t, dec("360").Equal(d.DadosCadastrais.AreaLote))
	assert.True(t, d.DadosCadastrais.AreaConstruida.IsZero())
	assert.True(t, dec("85000.75").Equal(d.DadosCadastrais.ValorVenal))
	assert.Equal(t, "RUA 7", d.Endereco.Logradouro)
	assert.Equal(t, "RUA 7", d.Endereco.EnderecoCompleto)
	require.NotNil(t, d.Endereco.BairroInfo.Nome)
	assert.Equal(t, "SETOR NORTE", *d.Endereco.BairroInfo.Nome)
	assert.Equal(t, "JOÃO PEREIRA", d.Proprietario.Nome)
	assert.Equal(t, "ATIVO", d.Situacao)
}

func TestPropertyDetail_FlatAddress(t *testing.T) {
	d := normalize.PropertyDetail(obj(t, `{"cci":"1","endereco":"QD 10 LT 5","nomeContribuinte":"ANA"}`))

	assert.Equal(t, "QD 10 LT 5", d.Endereco.EnderecoCompleto)
	assert.Empty(t, d.Endereco.Logradouro)
	assert.Nil(t, d.Endereco.BairroInfo.Nome)
	assert.Equal(t, "ANA", d.Proprietario.Nome)
}

func TestSimulation(t *testing.T) {
	s := normalize.Simulation(decode(t, `{
		"parcelas": [
			{"parcela": 1, "valorParcela": 110.10, "principal": 100, "valorJuros": 8.1, "valorMulta": 2, "dataVencimento": "2025-01-10"},
			{"valor": "110,10", "valorPrincipal": 100, "juros": 8.1, "multa": 2, "vencimento": "2025-02-10"}
		]
	}`))

	require.Len(t, s.Parcelas, 2)
	assert.Equal(t, 1, s.Parcelas[0].Numero)
	assert.Equal(t, 2, s.Parcelas[1].Numero, "position is used when the row has no number")
	assert.Equal(t, "2025-01-10", s.Parcelas[0].Vencimento)
	assert.True(t, dec("220.2").Equal(s.TotalGeral))
	assert.True(t, dec("200").Equal(s.Resumo.TotalPrincipal))
	assert.True(t, dec("16.2").Equal(s.Resumo.TotalJuros))
	assert.True(t, dec("4").Equal(s.Resumo.TotalMulta))
}

func TestSimulation_UpstreamTotalsWin(t *testing.T) {
	s := normalize.Simulation(decode(t, `{
		"itens": [{"numero": 1, "valor": 50}],
		"resumo": {"totalJuros": 3.5},
		"valorTotal": 53.5
	}`))

	require.Len(t, s.Parcelas, 1)
	assert.True(t, dec("53.5").Equal(s.TotalGeral))
	assert.True(t, dec("3.5").Equal(s.Resumo.TotalJuros))
}

func TestVirtualSlip(t *testing.T) {
	v := normalize.VirtualSlip(decode(t, `{
		"dados": {
			"numeroBoleto": "BV-2024-0001",
			"linha_digitavel": "83690000001-1 23450000000-1",
			"codigoBarras": "8369000000123450000000",
			"vencimento": "2024-12-20",
			"parcelas": [{"numero": 1, "valor": 60}, {"numero": 2, "valor": 40}]
		}
	}`))

	assert.Equal(t, "BV-2024-0001", v.Numero)
	assert.Equal(t, "83690000001-1 23450000000-1", v.LinhaDigitavel)
	assert.Equal(t, "2024-12-20", v.Vencimento)
	require.Len(t, v.Parcelas, 2)
	assert.True(t, dec("100").Equal(v.ValorTotal), "total is summed when absent")
}
