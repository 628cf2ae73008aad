package domain

import "errors"

var (
	ErrNotPullRequestEvent = errors.New("not a pull_request event")
	ErrNotMergedPR         = errors.New("pull request is not closed and merged")
	ErrMalformedEvent      = errors.New("malformed pull_request payload")
	ErrInvalidPayload      = errors.New("invalid request body")
	ErrPayloadTooLarge     = errors.New("request body too large")
	ErrInvalidSignature    = errors.New("webhook signature check failed")
	ErrChannelNotReady     = errors.New("chat client not ready")
	ErrChannelNotFound     = errors.New("updates channel not found")
)
