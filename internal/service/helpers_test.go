package service_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/araguaina/iptu-portal-bfa/internal/config"
	"github.com/araguaina/iptu-portal-bfa/internal/domain"

	"github.com/stretchr/testify/require"
)

const validCPF = "52998224725"

var testEndpoints = config.Endpoints{
	Imoveis:               "/imoveis",
	DividaAtiva:           "/divida-ativa",
	DebitosAbertos:        "/debitos",
	DetalhesImovel:        "/detalhes",
	Simulacao:             "/simular",
	GerarBoletoVirtual:    "/gerar",
	ImprimirDuam:          "/imprimir",
	ImprimirBoletoVirtual: "/imprimir-virtual",
}

// jsonPayload builds a decoded 200 payload the way the SIG client does.
func jsonPayload(t *testing.T, s string) *domain.UpstreamPayload {
	t.Helper()
	d := json.NewDecoder(bytes.NewReader([]byte(s)))
	d.UseNumber()
	var v any
	require.NoError(t, d.Decode(&v))
	return &domain.UpstreamPayload{Status: 200, ContentType: "application/json", Body: []byte(s), Value: v, Decoded: true}
}

func mustDocument(t *testing.T, raw string) domain.Document {
	t.Helper()
	doc, err := domain.ParseDocument(raw)
	require.NoError(t, err)
	return doc
}

func requireKind(t *testing.T, err error, kind domain.ErrorKind) *domain.Error {
	t.Helper()
	var de *domain.Error
	require.True(t, errors.As(err, &de), "expected *domain.Error, got %v", err)
	require.Equal(t, kind, de.Kind, de.Error())
	return de
}
