package dto

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type LivenessResponse struct {
	Status string `json:"status"`
}
