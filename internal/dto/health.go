package dto

// HealthResponse represents the response structure for health checks
type HealthResponse struct {
	Status     string `json:"status"`
	DataSource string `json:"data_source,omitempty"`
	Details    any    `json:"details,omitempty"`
}
