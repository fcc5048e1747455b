// Package internal holds the server configuration shared by the entry points.
package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Host              string        `env:"HOST,default=localhost" validate:"required"`
	Port              int           `env:"PORT,default=1337" validate:"gte=1,lte=65535"`
	LogLevel          string        `env:"LOG_LEVEL,required=true" validate:"required"`
	SendTimeout       time.Duration `env:"SEND_TIMEOUT,default=2s" validate:"gt=0"`
	CloseTimeout      time.Duration `env:"CLOSE_TIMEOUT,default=1s" validate:"gt=0"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=500ms" validate:"gt=0"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	OutboxSize        int           `env:"OUTBOX_SIZE,default=64" validate:"gte=1"`
	EventBufferSize   int           `env:"EVENT_BUFFER_SIZE,default=256" validate:"gte=1"`
	MaxUsernameLength int           `env:"MAX_USERNAME_LENGTH,default=32" validate:"gte=1"`
	MaxMessageLength  int           `env:"MAX_MESSAGE_LENGTH,default=2000" validate:"gte=1"`
	EchoToSender      bool          `env:"ECHO_TO_SENDER,default=true"`
	MetricsPort       int           `env:"METRICS_PORT,default=9090" validate:"gte=0,lte=65535"`
	MetricInterval    time.Duration `env:"METRIC_INTERVAL,default=5s" validate:"gt=0"`
	JournalFilepath   string        `env:"JOURNAL_FILEPATH"`
	LimitJournal      *int          `env:"LIMIT_JOURNAL"`
}

// LoadConfig reads an optional .env file, then the environment.
// Variables already set in the environment win over the file.
func LoadConfig(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
