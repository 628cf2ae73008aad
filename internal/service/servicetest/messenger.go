// Package servicetest provides an in-memory Messenger for tests.
package servicetest

import (
	"context"
	"github.com/flowglad/pr-relay/internal/domain"
	"sync"
)

type Messenger struct {
	mu sync.Mutex

	NotReady   bool
	ChannelErr error
	SendErr    error

	Sent []SentMessage
}

type SentMessage struct {
	ChannelID    string
	Notification *domain.Notification
}

func (m *Messenger) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.NotReady
}

func (m *Messenger) Health(_ context.Context) error {
	if !m.Ready() {
		return domain.ErrChannelNotReady
	}
	return nil
}

func (m *Messenger) Channel(_ context.Context, channelID string) (*domain.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ChannelErr != nil {
		return nil, m.ChannelErr
	}
	return &domain.Channel{ID: channelID, Name: "updates"}, nil
}

func (m *Messenger) Send(_ context.Context, channelID string, notification *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.Sent = append(m.Sent, SentMessage{ChannelID: channelID, Notification: notification})
	return nil
}

func (m *Messenger) SentMessages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.Sent))
	copy(out, m.Sent)
	return out
}
