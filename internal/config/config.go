package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port        int
	LogLevel    string
	Environment string
	CORSOrigins []string

	// SIG Integração (Prodata)
	Upstream Upstream

	// Resilience
	MaxConcurrency    int // process-wide ceiling on in-flight upstream calls
	FanoutConcurrency int // per-request property enrichment pool

	// Billing
	MaxParcelas int

	// Observability
	OTLPEndpoint string
	SentryDSN    string
}

// Upstream groups everything needed to talk to the ERP.
type Upstream struct {
	BaseURL     string
	AuthPath    string
	User        string
	Password    string
	StaticToken string
	Timeout     time.Duration
	TokenTTL    time.Duration
	PageSize    int
	MaxPages    int
	Endpoints   Endpoints
}

// Endpoints are the upstream route names; the ERP deployment renames them
// from time to time, so every one is overridable.
type Endpoints struct {
	Imoveis               string
	DividaAtiva           string
	DebitosAbertos        string
	DetalhesImovel        string
	Simulacao             string
	GerarBoletoVirtual    string
	ImprimirDuam          string
	ImprimirBoletoVirtual string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:        getEnvInt("PORT", 3001),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("APP_ENV", "development"),
		CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		Upstream: Upstream{
			BaseURL:     strings.TrimRight(getEnv("PRODATA_BASE_URL", "https://araguaina.prodataweb.inf.br/sigintegracaorest"), "/"),
			AuthPath:    getEnv("PRODATA_AUTH_PATH", "/auth"),
			User:        os.Getenv("PRODATA_USER"),
			Password:    os.Getenv("PRODATA_PASSWORD"),
			StaticToken: getEnv("PRODATA_AUTH_TOKEN", os.Getenv("PRODATA_API_KEY")),
			Timeout:     time.Duration(getEnvInt("PRODATA_TIMEOUT_MS", 10000)) * time.Millisecond,
			TokenTTL:    time.Duration(getEnvInt("PRODATA_TOKEN_TTL_SECONDS", 1500)) * time.Second,
			PageSize:    getEnvInt("PRODATA_IMOVEIS_PAGE_SIZE", 200),
			MaxPages:    getEnvInt("PRODATA_IMOVEIS_MAX_PAGES", 20),
			Endpoints: Endpoints{
				Imoveis:               getEnv("PRODATA_ENDPOINT_IMOVEIS", "/arrecadacao/cargaDosRegistroImobiliario"),
				DividaAtiva:           getEnv("PRODATA_ENDPOINT_DIVIDA_ATIVA", "/arrecadacao/cargaDividaAtivaImovel"),
				DebitosAbertos:        getEnv("PRODATA_ENDPOINT_DEBITOS_ABERTOS", "/arrecadacao/listarDebitosImovel"),
				DetalhesImovel:        getEnv("PRODATA_ENDPOINT_DETALHES_IMOVEL", "/arrecadacao/registroImobiliario"),
				Simulacao:             getEnv("PRODATA_ENDPOINT_SIMULACAO", "/arrecadacao/simularParcelamento"),
				GerarBoletoVirtual:    getEnv("PRODATA_ENDPOINT_GERAR_BOLETO_VIRTUAL", "/arrecadacao/gerarBoletoVirtual"),
				ImprimirDuam:          getEnv("PRODATA_ENDPOINT_IMPRIMIR_DUAM", "/arrecadacao/imprimirDuam"),
				ImprimirBoletoVirtual: getEnv("PRODATA_ENDPOINT_IMPRIMIR_BOLETO_VIRTUAL", "/arrecadacao/imprimirBoletoVirtual"),
			},
		},

		MaxConcurrency:    getEnvInt("MAX_CONCURRENCY", 16),
		FanoutConcurrency: getEnvInt("FANOUT_CONCURRENCY", 4),

		MaxParcelas: getEnvInt("MAX_PARCELAS", 10),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
