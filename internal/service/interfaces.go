package service

import (
	"context"
	"github.com/flowglad/pr-relay/internal/domain"
)

// Messenger is the outbound chat client. Implementations own their own
// connection lifecycle; the relay only asks whether they are usable.
type Messenger interface {
	Ready() bool
	Channel(ctx context.Context, channelID string) (*domain.Channel, error)
	Send(ctx context.Context, channelID string, notification *domain.Notification) error
}
