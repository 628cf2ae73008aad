package handler

import (
	"context"
	"encoding/json"
	"github.com/flowglad/pr-relay/internal/pkg/logger"
	"net/http"
)

const livenessMessage = "Flowglad Discord bot is running."

type HealthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	checker HealthChecker
	logger  *logger.Logger
}

func NewHealthHandler(checker HealthChecker, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger.Component("handler/health"),
	}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	WriteText(w, http.StatusOK, livenessMessage, h.logger)
}

type HealthResponse struct {
	Status       string `json:"status"`
	DiscordReady bool   `json:"discord_ready"`
}

// Health always answers 200; a client that is still connecting is reported
// in the body, the relay keeps accepting webhooks meanwhile.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	err := h.checker.Health(r.Context())
	if err != nil {
		h.logger.Debug("discord not ready", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := HealthResponse{
		Status:       "healthy",
		DiscordReady: err == nil,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Warn("failed to write health response", "error", err)
	}
}
