package handler

import (
	"errors"
	"github.com/flowglad/pr-relay/internal/domain"
	"github.com/flowglad/pr-relay/internal/pkg/logger"
	"net/http"
)

// Response bodies GitHub sees. Expected non-events are all 200s and can only
// be told apart by their text.
const (
	MsgIgnoredEvent  = "Ignored (not a pull_request event)."
	MsgIgnoredPR     = "Ignored (not a merged PR)."
	MsgSent          = "Notification sent."
	MsgFailed        = "Failed to send notification."
	MsgInvalidBody   = "invalid request body"
	MsgTooLarge      = "payload too large"
	MsgInvalidSig    = "invalid signature"
	MsgInternalError = "internal server error"
)

func WriteText(w http.ResponseWriter, status int, body string, logger *logger.Logger) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, err error, logger *logger.Logger) {
	status, body := mapError(err)

	switch {
	case isIgnored(err):
		logger.Info("request ignored", "reason", err.Error())
	case isDomainError(err):
		logger.Warn("request rejected",
			"error", err.Error(),
			"status", status,
		)
	default:
		logger.Error("error sending notification",
			"error", err.Error(),
		)
	}

	WriteText(w, status, body, logger)
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotPullRequestEvent):
		return http.StatusOK, MsgIgnoredEvent

	case errors.Is(err, domain.ErrNotMergedPR),
		errors.Is(err, domain.ErrMalformedEvent):
		return http.StatusOK, MsgIgnoredPR

	case errors.Is(err, domain.ErrInvalidPayload):
		return http.StatusBadRequest, MsgInvalidBody

	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, MsgTooLarge

	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized, MsgInvalidSig

	default:
		return http.StatusInternalServerError, MsgFailed
	}
}

// isIgnored reports deliveries that are answered 200 without a dispatch.
func isIgnored(err error) bool {
	return errors.Is(err, domain.ErrNotPullRequestEvent) ||
		errors.Is(err, domain.ErrNotMergedPR) ||
		errors.Is(err, domain.ErrMalformedEvent)
}

func isDomainError(err error) bool {
	return isIgnored(err) ||
		errors.Is(err, domain.ErrInvalidPayload) ||
		errors.Is(err, domain.ErrPayloadTooLarge) ||
		errors.Is(err, domain.ErrInvalidSignature)
}
