package dto

import "time"

type PhaseResponse struct {
	Phase string `json:"phase"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Phase     string    `json:"phase"`
	Database  string    `json:"database,omitempty"`
}
