package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/flowglad/pr-relay/internal/domain"
	"github.com/flowglad/pr-relay/internal/pkg/logger"
	"github.com/flowglad/pr-relay/internal/service"
	"github.com/google/go-github/v66/github"
	"io"
	"mime"
	"net/http"
)

type WebhookHandler struct {
	notificationService *service.NotificationService
	secret              []byte
	logger              *logger.Logger
}

// NewWebhookHandler builds the GitHub webhook endpoint. An empty secret
// disables signature verification.
func NewWebhookHandler(notificationService *service.NotificationService, secret string, logger *logger.Logger) *WebhookHandler {
	h := &WebhookHandler{
		notificationService: notificationService,
		logger:              logger.Component("handler/webhook"),
	}
	if secret != "" {
		h.secret = []byte(secret)
	}
	return h
}

func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	eventType := github.WebHookType(r)
	deliveryID := github.DeliveryID(r)
	log := h.logger.With("event", eventType, "delivery_id", deliveryID)

	log.Info("received github event")

	if eventType != domain.EventPullRequest {
		WriteError(w, fmt.Errorf("%w: %q", domain.ErrNotPullRequestEvent, eventType), log)
		return
	}

	payload, err := h.readPayload(r)
	if err != nil {
		WriteError(w, err, log)
		return
	}

	raw, err := decodePayload(payload)
	if err != nil {
		WriteError(w, err, log)
		return
	}

	event, err := service.ValidateEvent(raw)
	if err != nil {
		WriteError(w, err, log)
		return
	}

	log.Info("merged pr detected, sending notification",
		"repository", event.RepositoryFullName,
		"branch", event.BaseBranch,
		"pr_number", event.Number,
	)

	status, err := h.notificationService.NotifyMerged(r.Context(), event)
	if err != nil {
		WriteError(w, err, log)
		return
	}

	// filtered and skipped deliveries still answer "sent" so GitHub does not
	// flag the hook; the real outcome is in the log
	log.Info("pull_request handled", "delivery_status", status)
	WriteText(w, http.StatusOK, MsgSent, log)
}

// readPayload reads the body (json or form encoded) and, when a secret is
// configured, checks the X-Hub-Signature-256 header against the raw body.
func (h *WebhookHandler) readPayload(r *http.Request) ([]byte, error) {
	header := r.Header.Get("Content-Type")
	if header == "" {
		header = "application/json"
	}
	contentType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		if tooLarge := new(http.MaxBytesError); errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit %d bytes", domain.ErrPayloadTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	if len(h.secret) > 0 {
		signature := r.Header.Get(github.SHA256SignatureHeader)
		if signature == "" {
			signature = r.Header.Get(github.SHA1SignatureHeader)
		}
		if err := github.ValidateSignature(signature, body, h.secret); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
		}
	}

	payload, err := github.ValidatePayloadFromBody(contentType, bytes.NewReader(body), "", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	return payload, nil
}

func decodePayload(payload []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	// exactly one json value; only whitespace may follow it
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after json value", domain.ErrInvalidPayload)
	}
	return raw, nil
}
