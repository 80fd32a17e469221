package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Output  OutputConfig  `toml:"output"`
	Logging LoggingConfig `toml:"logging"`
	Server  ServerConfig  `toml:"server"`
	Watch   WatchConfig   `toml:"watch"`
	Notify  NotifyConfig  `toml:"notify"`
}

type EngineConfig struct {
	// Workers bounds concurrent section generators. Zero means GOMAXPROCS.
	Workers int `toml:"workers"`
}

type OutputConfig struct {
	// Path is the script destination. Empty derives a name from the title;
	// "-" writes to standard output.
	Path  string `toml:"path"`
	Title string `toml:"title"` // overrides the scene title
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

type ServerConfig struct {
	StatusPort int `toml:"status_port"` // 0 disables the status server
}

type WatchConfig struct {
	Debounce time.Duration `toml:"debounce"`
}

// NotifyConfig points at a live editor that receives progress over
// Socket.IO. An empty URL disables it.
type NotifyConfig struct {
	URL                string        `toml:"url"`
	Namespace          string        `toml:"namespace"`
	Timeout            time.Duration `toml:"timeout"`
	InsecureSkipVerify bool          `toml:"insecure_skip_verify"`
}

// Load reads a TOML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("parse config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Notify: NotifyConfig{
			Namespace: "/",
			Timeout:   10 * time.Second,
		},
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.Workers < 0 {
		errs = append(errs, fmt.Errorf("engine.workers must not be negative, got %d", c.Engine.Workers))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be 'debug', 'info', 'warn' or 'error', got %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be 'text' or 'json', got %q", c.Logging.Format))
	}
	if c.Server.StatusPort < 0 || c.Server.StatusPort > 65535 {
		errs = append(errs, fmt.Errorf("server.status_port must be in [0, 65535], got %d", c.Server.StatusPort))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	if c.Notify.Timeout < 0 {
		errs = append(errs, fmt.Errorf("notify.timeout must not be negative, got %s", c.Notify.Timeout))
	}
	return errors.Join(errs...)
}
