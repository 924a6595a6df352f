package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/timeindata.db"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Dispatch engine tunables, passed into the notifier at construction.
	ReminderText     string        `envconfig:"REMINDER_TEXT" default:"It's time to set your activity! Type /set_activity command"`
	SendRetryCap     int           `envconfig:"SEND_RETRY_CAP" default:"5"`
	SendPerSecond    float64       `envconfig:"SEND_PER_SECOND" default:"20"`
	SendBurst        int           `envconfig:"SEND_BURST" default:"5"`
	DispatchWorkers  int           `envconfig:"DISPATCH_WORKERS" default:"8"`
	DispatchPageSize int           `envconfig:"DISPATCH_PAGE_SIZE" default:"100"`
	DispatchTimeout  time.Duration `envconfig:"DISPATCH_TIMEOUT" default:"10m"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
