package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/flowglad/pr-relay/internal/domain"
	"github.com/flowglad/pr-relay/internal/pkg/logger"
)

type NotificationService struct {
	messenger Messenger
	allowList *domain.AllowList
	formatter *Formatter
	channelID string
	logger    *logger.Logger
}

func NewNotificationService(
	messenger Messenger,
	allowList *domain.AllowList,
	formatter *Formatter,
	channelID string,
	logger *logger.Logger,
) *NotificationService {
	return &NotificationService{
		messenger: messenger,
		allowList: allowList,
		formatter: formatter,
		channelID: channelID,
		logger:    logger.Component("service/notification"),
	}
}

// NotifyMerged announces a merged pull request in the updates channel.
// Filtered events, a client that is not ready and a missing channel are not
// errors: they are reported through the returned status. Only a failure of
// the dispatch itself is returned as an error, and it is never retried.
func (s *NotificationService) NotifyMerged(ctx context.Context, event *domain.PullRequestEvent) (domain.DeliveryStatus, error) {
	if !ShouldNotify(event, s.allowList) {
		s.logger.Info("skipping pr outside allow-list",
			"repository", event.RepositoryFullName,
			"branch", event.BaseBranch,
			"pr_number", event.Number,
		)
		return domain.DeliveryStatusFiltered, nil
	}

	if !s.messenger.Ready() {
		s.logger.Warn("chat client not ready yet, dropping notification",
			"pr_number", event.Number,
			"repository", event.RepositoryFullName,
		)
		return domain.DeliveryStatusClientNotReady, nil
	}

	channel, err := s.messenger.Channel(ctx, s.channelID)
	if err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			s.logger.Warn("updates channel not found", "channel_id", s.channelID)
			return domain.DeliveryStatusChannelNotFound, nil
		}
		return "", fmt.Errorf("fetch channel: %w", err)
	}

	s.logger.Info("preparing notification for merged pr",
		"pr_number", event.Number,
		"repository", event.RepositoryFullName,
		"branch", event.BaseBranch,
	)

	notification := s.formatter.Format(event)

	if err := s.messenger.Send(ctx, channel.ID, notification); err != nil {
		// the gateway can drop between the ready check and the send
		if errors.Is(err, domain.ErrChannelNotReady) {
			s.logger.Warn("chat client dropped before send, skipping notification",
				"pr_number", event.Number,
			)
			return domain.DeliveryStatusClientNotReady, nil
		}
		return "", fmt.Errorf("send notification: %w", err)
	}

	s.logger.Info("notification sent",
		"channel_id", channel.ID,
		"pr_number", event.Number,
	)

	return domain.DeliveryStatusSent, nil
}
