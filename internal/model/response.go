package model

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Errors []string `json:"errors"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
