package service

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dailypush/dailypush-go/pkg/syncer"
)

// Store backends.
const (
	// StoreFile persists preferences to a JSON state file.
	StoreFile = "file"

	// StoreSQLite persists preferences to a SQLite database.
	StoreSQLite = "sqlite"
)

// Config errors.
var (
	ErrMissingBrokerURL = errors.New("broker url is required")
	ErrUnknownStore     = errors.New("unknown preference store backend")
)

// Duration wraps time.Duration so yaml configs can say "500ms" or "2s".
type Duration time.Duration

// UnmarshalYAML decodes a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// BrokerConfig holds push-broker connection settings.
type BrokerConfig struct {
	// URL is the broker API root.
	URL string `yaml:"url"`

	// APIKey authenticates broker requests.
	APIKey string `yaml:"api_key"`

	// DeviceToken is the device's broker identity. Generated when empty.
	DeviceToken string `yaml:"device_token"`
}

// StoreConfig selects the preference persistence backend.
type StoreConfig struct {
	// Backend is StoreFile or StoreSQLite. Defaults to StoreFile.
	Backend string `yaml:"backend"`

	// Path is the file or database location.
	Path string `yaml:"path"`
}

// Config holds service configuration.
type Config struct {
	// Broker configures the push-broker client.
	Broker BrokerConfig `yaml:"broker"`

	// Store configures preference persistence.
	Store StoreConfig `yaml:"store"`

	// TopicPrefix is the daily-item topic prefix. Defaults to
	// syncer.DefaultPrefix.
	TopicPrefix string `yaml:"topic_prefix"`

	// Debounce is the sync debounce window. Defaults to
	// syncer.DefaultDebounceWindow.
	Debounce Duration `yaml:"debounce"`

	// EventLogPath, when set, appends CBOR sync events to this file.
	EventLogPath string `yaml:"event_log_path"`
}

// LoadConfig reads a yaml config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	return cfg, cfg.Validate()
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	if c.Broker.URL == "" {
		return ErrMissingBrokerURL
	}
	switch c.Store.Backend {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, c.Store.Backend)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.TopicPrefix == "" {
		c.TopicPrefix = syncer.DefaultPrefix
	}
	if c.Debounce <= 0 {
		c.Debounce = Duration(syncer.DefaultDebounceWindow)
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreFile
	}
	if c.Store.Path == "" {
		c.Store.Path = "dailypush-prefs.json"
	}
}
