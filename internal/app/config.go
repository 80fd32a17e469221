package app

import (
	"errors"
	"time"

	"github.com/vk/meepgen/internal/notify"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ScenePath  string // scene file or directory
	OutputPath string // "" derives the name from the title, "-" is stdout
	Title      string // overrides the scene title when set

	Watch      bool
	Debounce   time.Duration
	StatusPort int
	Workers    int

	Notify notify.Options // empty URL disables editor notifications

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ScenePath == "" {
		return nil, errors.New("ScenePath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 0 {
		return nil, errors.New("Workers cannot be negative")
	}
	if cfg.Debounce < 0 {
		return nil, errors.New("Debounce cannot be negative")
	}
	return &cfg, nil
}
