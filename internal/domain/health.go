package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /health.
type HealthStatus struct {
	Status string `json:"status"`
}

// APIMetrics is returned by POST /functions/getApiMetrics.
type APIMetrics struct {
	Status             string  `json:"status"`
	Origem             string  `json:"origem"`
	UpstreamCalls      int64   `json:"chamadasSig"`
	UpstreamErrors     int64   `json:"errosSig"`
	UpstreamTimeouts   int64   `json:"timeoutsSig"`
	TokenRefreshes     int64   `json:"renovacoesToken"`
	ErrorRate          float64 `json:"taxaErro"`
	AvgUpstreamLatency float64 `json:"latenciaMediaMs"`
}
