package config

import (
	"errors"
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"io/fs"
	"time"
)

const defaultEnvFile = ".env"

type Config struct {
	// application settings
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	ServiceName string `env:"SERVICE_NAME" env-default:"flowglad-pr-relay"`

	// logging configuration
	LogLevel     string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat    string `env:"LOG_FORMAT" env-default:"text"`
	LogAddSource bool   `env:"LOG_ADD_SOURCE" env-default:"false"`

	// discord bot settings
	DiscordBotToken        string        `env:"DISCORD_BOT_TOKEN" env-required:"true"`
	DiscordChannelID       string        `env:"DISCORD_UPDATES_CHANNEL_ID" env-required:"true"`
	DiscordConnectAttempts uint          `env:"DISCORD_CONNECT_ATTEMPTS" env-default:"5"`
	DiscordConnectMaxDelay time.Duration `env:"DISCORD_CONNECT_MAX_DELAY" env-default:"30s"`
	DiscordRequestTimeout  time.Duration `env:"DISCORD_REQUEST_TIMEOUT" env-default:"10s"`

	// github webhook settings
	GithubWebhookSecret string   `env:"GITHUB_WEBHOOK_SECRET"`
	AllowedRepositories []string `env:"ALLOWED_REPOSITORIES" env-separator:"," env-default:"flowglad/flowglad,ir3stless/flowglad"`
	AllowedBranches     []string `env:"ALLOWED_BRANCHES" env-separator:"," env-default:"main"`

	// http server configuration
	ServerHost           string        `env:"SERVER_HOST" env-default:"0.0.0.0"`
	ServerPort           int           `env:"PORT" env-default:"3000"`
	ServerReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	ServerWriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	ServerIdleTimeout    time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ServerRequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" env-default:"30s"`
}

func New() (*Config, error) {
	return Load(defaultEnvFile)
}

// Load reads envFile when it exists and then the process environment.
// A missing required variable is an error.
func Load(envFile string) (*Config, error) {
	var cfg Config

	// read from .env file if exists (optional)
	if envFile != "" {
		if err := cleanenv.ReadConfig(envFile, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read dotenv file: %w", err)
		}
	}

	// read from environment variables (required)
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	return &cfg, nil
}
