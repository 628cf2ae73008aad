package discord

import (
	"context"
	"errors"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/codeGROOVE-dev/retry"
	"github.com/flowglad/pr-relay/internal/domain"
	"github.com/flowglad/pr-relay/internal/pkg/logger"
	"net/http"
	"sync/atomic"
	"time"
)

// Connection is the long-lived bot session shared by all request handlers.
type Connection struct {
	session *discordgo.Session
	logger  *logger.Logger
	config  *Config
	ready   atomic.Bool
}

func New(logger *logger.Logger, config *Config) (*Connection, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid discord config: %w", err)
	}

	session, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	session.Client = &http.Client{Timeout: config.RequestTimeout}
	// failed deliveries are not retried
	session.MaxRestRetries = 0
	session.ShouldRetryOnRateLimit = false

	c := &Connection{
		session: session,
		config:  config,
		logger:  logger.Component("discord"),
	}

	session.AddHandler(c.onReady)
	session.AddHandler(c.onResumed)
	session.AddHandler(c.onDisconnect)

	return c, nil
}

// Connect opens the gateway. Transient failures are retried with backoff;
// this happens once at startup and is unrelated to message delivery.
func (c *Connection) Connect(ctx context.Context) error {
	err := retry.Do(
		func() error {
			if err := c.session.Open(); err != nil {
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.config.ConnectAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(c.config.ConnectMaxDelay),
		retry.MaxJitter(time.Second),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("discord gateway connect failed, retrying",
				"attempt", n+1,
				"error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}

	c.logger.Info("discord gateway connected", "channel_id", c.config.ChannelID)
	return nil
}

func (c *Connection) Ready() bool {
	return c.ready.Load()
}

// Channel resolves a channel by id. Unknown or inaccessible channels map to
// domain.ErrChannelNotFound.
func (c *Connection) Channel(ctx context.Context, channelID string) (*domain.Channel, error) {
	ch, err := c.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		if isChannelNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, channelID)
		}
		return nil, fmt.Errorf("fetch channel %s: %w", channelID, err)
	}
	if ch == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, channelID)
	}

	return &domain.Channel{ID: ch.ID, Name: ch.Name}, nil
}

func (c *Connection) Send(ctx context.Context, channelID string, notification *domain.Notification) error {
	if !c.Ready() {
		return domain.ErrChannelNotReady
	}

	msg, err := c.session.ChannelMessageSendEmbed(channelID, toEmbed(notification), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send embed to %s: %w", channelID, err)
	}

	c.logger.Debug("embed sent", "channel_id", channelID, "message_id", msg.ID)
	return nil
}

func (c *Connection) Close() {
	c.ready.Store(false)
	if err := c.session.Close(); err != nil {
		c.logger.Warn("failed to close discord session", "error", err)
	}
}

func (c *Connection) Health(_ context.Context) error {
	if !c.Ready() {
		return domain.ErrChannelNotReady
	}
	return nil
}

func (c *Connection) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	c.ready.Store(true)
	if r.User != nil {
		c.logger.Info("discord bot logged in", "user", r.User.String())
	}
}

func (c *Connection) onResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	c.ready.Store(true)
	c.logger.Info("discord session resumed")
}

func (c *Connection) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	c.ready.Store(false)
	c.logger.Warn("discord session disconnected")
}

func isChannelNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeMissingAccess:
			return true
		}
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
