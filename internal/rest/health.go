package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Version is reported by the health check.
const Version = "1.0.0"

// HealthResponse defines the response returned back by the health check.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// RegisterHealth connects the health check to the router, it does not require authentication.
func RegisterHealth(r chi.Router) {
	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		renderResponse(w,
			&HealthResponse{
				Status:    "healthy",
				Timestamp: time.Now().UTC(),
				Version:   Version,
			},
			http.StatusOK)
	})
}
