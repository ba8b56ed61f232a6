package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dailypush/dailypush-go/pkg/broker"
	"github.com/dailypush/dailypush-go/pkg/preferences"
	"github.com/dailypush/dailypush-go/pkg/synclog"
	"github.com/dailypush/dailypush-go/pkg/syncer"
	"github.com/dailypush/dailypush-go/pkg/topic"
)

// Status is a snapshot of the subscription state for display.
type Status struct {
	// Subscribed reports whether daily delivery is enabled.
	Subscribed bool

	// Hour is the local delivery hour.
	Hour int

	// UTCOffsetMin is the device's current UTC offset in minutes.
	UTCOffsetMin int

	// DesiredTopic is the broker topic the current preference maps to.
	DesiredTopic string
}

// Service orchestrates the daily-push subscription for one device.
type Service struct {
	cfg    Config
	store  preferences.Store
	prefs  *preferences.Cache
	broker broker.Client
	syncer *syncer.Syncer
	logger synclog.Logger

	utcOffset func() int

	// Owned sinks closed on Stop.
	fileLog *synclog.FileLogger

	mu      sync.Mutex
	started bool
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a service from explicit collaborators. The caller keeps
// ownership of store and brokerClient lifecycles; logger may be nil.
func New(cfg Config, store preferences.Store, brokerClient broker.Client, logger synclog.Logger) *Service {
	cfg.applyDefaults()
	if logger == nil {
		logger = synclog.NoopLogger{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		cfg:    cfg,
		store:  store,
		prefs:  preferences.NewCache(store),
		broker: brokerClient,
		logger: logger,
		utcOffset: func() int {
			_, seconds := time.Now().Zone()
			return seconds / 60
		},
		ctx:    ctx,
		cancel: cancel,
	}

	s.syncer = syncer.New(brokerClient, s.prefs, syncer.Config{
		Prefix:         cfg.TopicPrefix,
		DebounceWindow: time.Duration(cfg.Debounce),
		UTCOffset:      func() int { return s.utcOffset() },
		Logger:         logger,
	})

	// Every successful preference mutation converges the broker in the
	// background; the mutator returns immediately.
	s.prefs.OnChange(func() {
		event := synclog.NewEvent(synclog.CategoryPreferenceChanged)
		s.logger.Log(event)
		s.triggerSync(true)
	})

	return s
}

// NewFromConfig builds the collaborators described by cfg: the
// configured preference store, an HTTP broker client, and (when
// configured) a CBOR event-log sink.
func NewFromConfig(cfg Config) (*Service, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var store preferences.Store
	switch cfg.Store.Backend {
	case StoreSQLite:
		sqlStore, err := preferences.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open preference store: %w", err)
		}
		store = sqlStore
	default:
		store = preferences.NewFileStore(cfg.Store.Path)
	}

	var logger synclog.Logger = synclog.NoopLogger{}
	var fileLog *synclog.FileLogger
	if cfg.EventLogPath != "" {
		var err error
		fileLog, err = synclog.NewFileLogger(cfg.EventLogPath)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		logger = fileLog
	}

	client := broker.NewHTTPClient(broker.HTTPConfig{
		BaseURL:     cfg.Broker.URL,
		APIKey:      cfg.Broker.APIKey,
		DeviceToken: cfg.Broker.DeviceToken,
	})

	s := New(cfg, store, client, logger)
	s.fileLog = fileLog
	return s, nil
}

// SetUTCOffset replaces the timezone source (minutes east of UTC).
// The default reads the system zone; simulators and tests supply their
// own. Call before Start.
func (s *Service) SetUTCOffset(fn func() int) {
	s.utcOffset = fn
}

// SetExtraLogger fans sync events out to an additional sink on top of
// the configured one. Call before Start.
func (s *Service) SetExtraLogger(extra synclog.Logger) {
	if extra == nil {
		return
	}
	s.logger = synclog.NewMultiLogger(s.logger, extra)
	s.syncer.SetLogger(s.logger)
}

// Start runs the startup reconciliation pass in the background. The
// startup pass never strips other topics (a fresh process must not
// clear subscriptions a different install might still expect); only
// explicit preference changes do cleanup.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("service already started")
	}
	s.started = true

	s.triggerSyncLocked(false)
	return nil
}

// Stop cancels in-flight syncs, waits for them, and closes owned sinks.
func (s *Service) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	if s.fileLog != nil {
		if err := s.fileLog.Close(); err != nil {
			return err
		}
	}
	if closer, ok := s.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// SetDeliveryHour updates the local delivery hour. The write succeeds
// locally regardless of broker reachability; the broker converges in
// the background.
func (s *Service) SetDeliveryHour(hour int) error {
	return s.prefs.SetHour(hour)
}

// SetSubscribed enables or disables daily delivery.
func (s *Service) SetSubscribed(subscribed bool) error {
	return s.prefs.SetSubscribed(subscribed)
}

// Resync forces a full reconciliation pass, cleanup included, and waits
// for its outcome. Returns whether this call's broker operations ran.
func (s *Service) Resync(ctx context.Context) (bool, error) {
	return s.syncer.EnsureSync(ctx, true)
}

// Status reports the current subscription state.
func (s *Service) Status() (Status, error) {
	offset := s.utcOffset()
	hour := s.prefs.Hour()

	desired, err := topic.Name(s.cfg.TopicPrefix, hour, offset)
	if err != nil {
		return Status{}, err
	}

	return Status{
		Subscribed:   s.prefs.IsSubscribed(),
		Hour:         hour,
		UTCOffsetMin: offset,
		DesiredTopic: desired,
	}, nil
}

// Topics returns the full topic universe for this service's prefix.
func (s *Service) Topics() []string {
	return topic.Universe(s.cfg.TopicPrefix)
}

// triggerSync launches a background sync attempt.
func (s *Service) triggerSync(unsubscribeOthers bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggerSyncLocked(unsubscribeOthers)
}

func (s *Service) triggerSyncLocked(unsubscribeOthers bool) {
	if s.stopped {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Outcome is carried by the event log; a superseded or failed
		// attempt is converged by the next trigger.
		_, _ = s.syncer.EnsureSync(s.ctx, unsubscribeOthers)
	}()
}
