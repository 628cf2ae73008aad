package discord

import (
	. "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"time"
)

type Config struct {
	Token     string `json:"-"`
	ChannelID string `json:"channel_id"`

	ConnectAttempts uint          `json:"connect_attempts"`
	ConnectMaxDelay time.Duration `json:"connect_max_delay"`
	RequestTimeout  time.Duration `json:"request_timeout"`
}

func (c *Config) Validate() error {
	return ValidateStruct(c,
		Field(&c.Token, Required),
		// channel ids are snowflakes
		Field(&c.ChannelID, Required, is.Digit, Length(1, 20)),

		Field(&c.ConnectAttempts, Required, Min(uint(1)), Max(uint(20))),
		Field(&c.ConnectMaxDelay, Required, Min(time.Second), Max(10*time.Minute)),
		Field(&c.RequestTimeout, Required, Min(time.Second), Max(time.Minute)),
	)
}
