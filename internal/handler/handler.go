package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gibber-dev/gibber/internal/service"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	post        service.PostService
	interaction service.InteractionService
	health      HealthChecker
}

func New(post service.PostService, interaction service.InteractionService, health HealthChecker) *Handler {
	return &Handler{post, interaction, health}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "err", err)
	}
}
