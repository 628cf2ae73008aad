package bootstrap

import (
	"context"
	"fmt"
	"github.com/flowglad/pr-relay/internal/api"
	"github.com/flowglad/pr-relay/internal/api/handler"
	"github.com/flowglad/pr-relay/internal/domain"
	"github.com/flowglad/pr-relay/internal/pkg/config"
	"github.com/flowglad/pr-relay/internal/pkg/discord"
	"github.com/flowglad/pr-relay/internal/pkg/logger"
	"github.com/flowglad/pr-relay/internal/service"
	"time"
)

type Application struct {
	Config  *config.Config
	Logger  *logger.Logger
	Discord *discord.Connection

	AllowList           *domain.AllowList
	NotificationService *service.NotificationService

	WebhookHandler *handler.WebhookHandler
	HealthHandler  *handler.HealthHandler

	HTTPServer *api.HTTPServer
}

// New loads configuration and prepares the chat connection. Missing secrets
// make it fail, so the process never starts serving without them.
func New() (*Application, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: cfg.LogAddSource,
		Service:   cfg.ServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	dc, err := discord.New(log, &discord.Config{
		Token:           cfg.DiscordBotToken,
		ChannelID:       cfg.DiscordChannelID,
		ConnectAttempts: cfg.DiscordConnectAttempts,
		ConnectMaxDelay: cfg.DiscordConnectMaxDelay,
		RequestTimeout:  cfg.DiscordRequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create discord connection: %w", err)
	}

	return &Application{
		Config:  cfg,
		Logger:  log,
		Discord: dc,
	}, nil
}

func (app *Application) Init(ctx context.Context) error {
	app.Logger.Info("initializing application")

	app.AllowList = domain.NewAllowList(app.Config.AllowedRepositories, app.Config.AllowedBranches)
	app.NotificationService = service.NewNotificationService(
		app.Discord,
		app.AllowList,
		service.NewFormatter(time.Now),
		app.Config.DiscordChannelID,
		app.Logger,
	)

	app.WebhookHandler = handler.NewWebhookHandler(app.NotificationService, app.Config.GithubWebhookSecret, app.Logger)
	app.HealthHandler = handler.NewHealthHandler(app, app.Logger)

	if app.Config.GithubWebhookSecret == "" {
		app.Logger.Warn("GITHUB_WEBHOOK_SECRET not set, webhook signatures are not verified")
	}

	app.HTTPServer = api.NewHTTPServer(
		&api.ServerConfig{
			Host:           app.Config.ServerHost,
			Port:           app.Config.ServerPort,
			ReadTimeout:    app.Config.ServerReadTimeout,
			WriteTimeout:   app.Config.ServerWriteTimeout,
			IdleTimeout:    app.Config.ServerIdleTimeout,
			RequestTimeout: app.Config.ServerRequestTimeout,
		},
		app.WebhookHandler,
		app.HealthHandler,
		app.Logger,
	)

	if err := app.HTTPServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start http server: %w", err)
	}

	if err := app.Discord.Connect(ctx); err != nil {
		return fmt.Errorf("discord connection failed: %w", err)
	}

	app.Logger.Info("application initialized successfully",
		"allowed_repositories", app.Config.AllowedRepositories,
		"allowed_branches", app.Config.AllowedBranches)
	return nil
}

func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("shutting down application")

	if app.HTTPServer != nil {
		if err := app.HTTPServer.Stop(ctx); err != nil {
			app.Logger.Error("error stopping http server", "error", err)
		}
	}

	app.Discord.Close()

	app.Logger.Info("application shutdown completed")
	return nil
}

func (app *Application) Health(ctx context.Context) error {
	if err := app.Discord.Health(ctx); err != nil {
		return fmt.Errorf("discord health check failed: %w", err)
	}
	return nil
}
