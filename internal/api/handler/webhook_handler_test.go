package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/flowglad/pr-relay/internal/domain"
	"github.com/flowglad/pr-relay/internal/pkg/logger"
	"github.com/flowglad/pr-relay/internal/service"
	"github.com/flowglad/pr-relay/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-webhook-secret"

const mergedPayload = `{"action":"closed","pull_request":{"merged":true,"html_url":"https://github.com/flowglad/flowglad/pull/1","title":"Fix bug","number":1,"user":{"login":"alice"},"base":{"ref":"main","repo":{"full_name":"flowglad/flowglad"}}},"repository":{"full_name":"flowglad/flowglad"},"sender":{"login":"bob"}}`

func setupHandler(t *testing.T, secret string) (*WebhookHandler, *servicetest.Messenger) {
	t.Helper()

	messenger := &servicetest.Messenger{}
	svc := service.NewNotificationService(
		messenger,
		domain.DefaultAllowList(),
		service.NewFormatter(func() time.Time { return time.Unix(0, 0) }),
		"123",
		logger.Discard(),
	)
	return NewWebhookHandler(svc, secret, logger.Discard()), messenger
}

func computeSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func newRequest(event, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/github-webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", event)
	req.Header.Set("X-GitHub-Delivery", "72d3162e-cc78-11e3-81ab-4c9367dc0958")
	return req
}

func TestHandleWebhook_MergedPR(t *testing.T) {
	h, messenger := setupHandler(t, "")

	w := httptest.NewRecorder()
	h.HandleWebhook(w, newRequest("pull_request", mergedPayload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgSent, w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Len(t, messenger.SentMessages(), 1)
}

func TestHandleWebhook_IgnoresOtherEvents(t *testing.T) {
	h, messenger := setupHandler(t, "")

	for _, event := range []string{"push", "issues", "pull_request_review", ""} {
		w := httptest.NewRecorder()
		// body is not even read for other events
		h.HandleWebhook(w, newRequest(event, "not json"))

		assert.Equal(t, http.StatusOK, w.Code, event)
		assert.Equal(t, MsgIgnoredEvent, w.Body.String(), event)
	}
	assert.Empty(t, messenger.SentMessages())
}

func TestHandleWebhook_IgnoredEventIsLoggedWithReason(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(&logger.Config{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)

	svc := service.NewNotificationService(
		&servicetest.Messenger{},
		domain.DefaultAllowList(),
		service.NewFormatter(time.Now),
		"123",
		log,
	)
	h := NewWebhookHandler(svc, "", log)

	w := httptest.NewRecorder()
	h.HandleWebhook(w, newRequest("push", mergedPayload))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgIgnoredEvent, w.Body.String())
	assert.Contains(t, buf.String(), `"msg":"request ignored"`)
	assert.Contains(t, buf.String(), domain.ErrNotPullRequestEvent.Error())
}

func TestHandleWebhook_IgnoresNonMergedPR(t *testing.T) {
	h, messenger := setupHandler(t, "")

	bodies := []string{
		strings.Replace(mergedPayload, `"merged":true`, `"merged":false`, 1),
		strings.Replace(mergedPayload, `"action":"closed"`, `"action":"opened"`, 1),
		`{}`,
		`null`,
		`[]`,
		// merged but unusable
		strings.Replace(mergedPayload, `"sender":{"login":"bob"}`, `"sender":null`, 1),
	}

	for _, body := range bodies {
		w := httptest.NewRecorder()
		h.HandleWebhook(w, newRequest("pull_request", body))

		assert.Equal(t, http.StatusOK, w.Code, body)
		assert.Equal(t, MsgIgnoredPR, w.Body.String(), body)
	}
	assert.Empty(t, messenger.SentMessages())
}

func TestHandleWebhook_InvalidBody(t *testing.T) {
	h, _ := setupHandler(t, "")

	w := httptest.NewRecorder()
	h.HandleWebhook(w, newRequest("pull_request", `{"action":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := newRequest("pull_request", mergedPayload)
	req.Header.Set("Content-Type", "text/plain")
	w = httptest.NewRecorder()
	h.HandleWebhook(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleWebhook_TrailingDataIsRejected(t *testing.T) {
	h, messenger := setupHandler(t, "")

	for _, body := range []string{
		mergedPayload + " garbage",
		mergedPayload + mergedPayload,
		mergedPayload + "{}",
	} {
		w := httptest.NewRecorder()
		h.HandleWebhook(w, newRequest("pull_request", body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MsgInvalidBody, w.Body.String())
	}
	assert.Empty(t, messenger.SentMessages())

	// trailing whitespace is fine
	w := httptest.NewRecorder()
	h.HandleWebhook(w, newRequest("pull_request", mergedPayload+"\n\t "))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, messenger.SentMessages(), 1)
}

func TestHandleWebhook_MissingContentType(t *testing.T) {
	h, messenger := setupHandler(t, "")

	req := newRequest("pull_request", mergedPayload)
	req.Header.Del("Content-Type")

	w := httptest.NewRecorder()
	h.HandleWebhook(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgSent, w.Body.String())
	assert.Len(t, messenger.SentMessages(), 1)
}

func TestHandleWebhook_FormEncodedPayload(t *testing.T) {
	h, messenger := setupHandler(t, "")

	form := url.Values{"payload": {mergedPayload}}.Encode()
	req := newRequest("pull_request", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	h.HandleWebhook(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgSent, w.Body.String())
	assert.Len(t, messenger.SentMessages(), 1)
}

func TestHandleWebhook_Signature(t *testing.T) {
	tests := []struct {
		name       string
		signature  string
		wantStatus int
		wantSent   int
	}{
		{name: "valid", signature: computeSignature([]byte(mergedPayload), testSecret), wantStatus: http.StatusOK, wantSent: 1},
		{name: "wrong secret", signature: computeSignature([]byte(mergedPayload), "other"), wantStatus: http.StatusUnauthorized},
		{name: "garbage", signature: "sha256=invalid", wantStatus: http.StatusUnauthorized},
		{name: "missing", signature: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, messenger := setupHandler(t, testSecret)

			req := newRequest("pull_request", mergedPayload)
			if tt.signature != "" {
				req.Header.Set("X-Hub-Signature-256", tt.signature)
			}

			w := httptest.NewRecorder()
			h.HandleWebhook(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Len(t, messenger.SentMessages(), tt.wantSent)
		})
	}
}

func TestHandleWebhook_DispatchFailure(t *testing.T) {
	h, messenger := setupHandler(t, "")
	messenger.SendErr = errors.New("discord is down")

	w := httptest.NewRecorder()
	h.HandleWebhook(w, newRequest("pull_request", mergedPayload))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MsgFailed, w.Body.String())
}

func TestHandleWebhook_SkippedDeliveriesStillReportSent(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *servicetest.Messenger)
	}{
		{name: "client not ready", setup: func(m *servicetest.Messenger) { m.NotReady = true }},
		{name: "channel not found", setup: func(m *servicetest.Messenger) { m.ChannelErr = domain.ErrChannelNotFound }},
		{name: "client dropped before send", setup: func(m *servicetest.Messenger) { m.SendErr = domain.ErrChannelNotReady }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, messenger := setupHandler(t, "")
			tt.setup(messenger)

			w := httptest.NewRecorder()
			h.HandleWebhook(w, newRequest("pull_request", mergedPayload))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, MsgSent, w.Body.String())
			assert.Empty(t, messenger.SentMessages())
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantBody   string
	}{
		{err: domain.ErrNotPullRequestEvent, wantStatus: http.StatusOK, wantBody: MsgIgnoredEvent},
		{err: domain.ErrNotMergedPR, wantStatus: http.StatusOK, wantBody: MsgIgnoredPR},
		{err: domain.ErrMalformedEvent, wantStatus: http.StatusOK, wantBody: MsgIgnoredPR},
		{err: domain.ErrInvalidPayload, wantStatus: http.StatusBadRequest, wantBody: MsgInvalidBody},
		{err: domain.ErrPayloadTooLarge, wantStatus: http.StatusRequestEntityTooLarge, wantBody: MsgTooLarge},
		{err: domain.ErrInvalidSignature, wantStatus: http.StatusUnauthorized, wantBody: MsgInvalidSig},
		{err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantBody: MsgFailed},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, body := mapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
