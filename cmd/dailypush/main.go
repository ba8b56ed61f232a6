// Command dailypush is a reference daily-push subscription client.
//
// It keeps this device subscribed to exactly one broker topic matching
// the configured local delivery hour, and exposes an interactive shell
// for changing the preference and watching synchronization.
//
// Usage:
//
//	dailypush [flags]
//
// Flags:
//
//	-config string        yaml configuration file path
//	-broker-url string    broker API root (overrides config)
//	-api-key string       broker API key (overrides config)
//	-device-token string  broker device token (overrides config)
//	-store string         preference backend: file, sqlite (default "file")
//	-store-path string    preference file/database path
//	-prefix string        topic prefix (default "daily")
//	-event-log string     CBOR sync event log path
//	-verbose              log sync events to the console
//
// Environment:
//
//	DAILYPUSH_BROKER_URL, DAILYPUSH_API_KEY, DAILYPUSH_DEVICE_TOKEN
//	override config values; a .env file in the working directory is
//	loaded first when present.
//
// Examples:
//
//	# Interactive shell against a broker
//	dailypush -broker-url https://push.example.com -api-key k123
//
//	# SQLite preference store and an event log
//	dailypush -config dailypush.yaml -store sqlite -store-path prefs.db -event-log sync.log
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/dailypush/dailypush-go/pkg/service"
	"github.com/dailypush/dailypush-go/pkg/synclog"
)

func main() {
	var (
		configPath  = flag.String("config", "", "yaml configuration file path")
		brokerURL   = flag.String("broker-url", "", "broker API root")
		apiKey      = flag.String("api-key", "", "broker API key")
		deviceToken = flag.String("device-token", "", "broker device token")
		storeKind   = flag.String("store", "", "preference backend: file, sqlite")
		storePath   = flag.String("store-path", "", "preference file/database path")
		prefix      = flag.String("prefix", "", "topic prefix")
		eventLog    = flag.String("event-log", "", "CBOR sync event log path")
		verbose     = flag.Bool("verbose", false, "log sync events to the console")
	)
	flag.Parse()

	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := buildConfig(*configPath, flagOverrides{
		brokerURL:   *brokerURL,
		apiKey:      *apiKey,
		deviceToken: *deviceToken,
		storeKind:   *storeKind,
		storePath:   *storePath,
		prefix:      *prefix,
		eventLog:    *eventLog,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dailypush: %v\n", err)
		os.Exit(1)
	}

	svc, err := service.NewFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dailypush: %v\n", err)
		os.Exit(1)
	}

	sh, err := newShell(svc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dailypush: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		// Route console events through readline's writer so they don't
		// garble the prompt.
		console := slog.New(slog.NewTextHandler(sh.Stdout(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		svc.SetExtraLogger(synclog.NewSlogAdapter(console))
	}

	if err := svc.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "dailypush: %v\n", err)
		os.Exit(1)
	}

	sh.Run()

	if err := svc.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "dailypush: shutdown: %v\n", err)
		os.Exit(1)
	}
}

// flagOverrides carries command-line values that take precedence over
// the config file and environment.
type flagOverrides struct {
	brokerURL   string
	apiKey      string
	deviceToken string
	storeKind   string
	storePath   string
	prefix      string
	eventLog    string
}

func buildConfig(configPath string, overrides flagOverrides) (service.Config, error) {
	var cfg service.Config
	if configPath != "" {
		loaded, err := service.LoadConfig(configPath)
		if err != nil {
			return service.Config{}, err
		}
		cfg = loaded
	}

	// Environment, then flags, most specific last.
	if v := os.Getenv("DAILYPUSH_BROKER_URL"); v != "" {
		cfg.Broker.URL = v
	}
	if v := os.Getenv("DAILYPUSH_API_KEY"); v != "" {
		cfg.Broker.APIKey = v
	}
	if v := os.Getenv("DAILYPUSH_DEVICE_TOKEN"); v != "" {
		cfg.Broker.DeviceToken = v
	}

	if overrides.brokerURL != "" {
		cfg.Broker.URL = overrides.brokerURL
	}
	if overrides.apiKey != "" {
		cfg.Broker.APIKey = overrides.apiKey
	}
	if overrides.deviceToken != "" {
		cfg.Broker.DeviceToken = overrides.deviceToken
	}
	if overrides.storeKind != "" {
		cfg.Store.Backend = overrides.storeKind
	}
	if overrides.storePath != "" {
		cfg.Store.Path = overrides.storePath
	}
	if overrides.prefix != "" {
		cfg.TopicPrefix = overrides.prefix
	}
	if overrides.eventLog != "" {
		cfg.EventLogPath = overrides.eventLog
	}

	// Defaults and validation happen in service.NewFromConfig.
	return cfg, nil
}
