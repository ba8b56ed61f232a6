package syncer

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dailypush/dailypush-go/pkg/broker"
	"github.com/dailypush/dailypush-go/pkg/preferences"
	"github.com/dailypush/dailypush-go/pkg/synclog"
	"github.com/dailypush/dailypush-go/pkg/topic"
)

// Defaults.
const (
	// DefaultDebounceWindow is how long an attempt waits before broker
	// I/O, coalescing bursts of preference edits.
	DefaultDebounceWindow = 500 * time.Millisecond

	// DefaultPrefix is the topic prefix for the daily-item feature.
	DefaultPrefix = "daily"
)

// Config holds syncer configuration.
type Config struct {
	// Prefix is the topic prefix. Defaults to DefaultPrefix.
	Prefix string

	// DebounceWindow overrides DefaultDebounceWindow. Tests shorten it.
	DebounceWindow time.Duration

	// UTCOffset supplies the device's current UTC offset in minutes
	// east of UTC. Read once per executing attempt, so a timezone
	// change is picked up on the next sync. Defaults to the system
	// zone.
	UTCOffset func() int

	// Logger receives sync events. Defaults to NoopLogger.
	Logger synclog.Logger
}

// Syncer serializes subscription reconciliation against the broker.
// Callers may invoke EnsureSync from any goroutine without external
// locking.
type Syncer struct {
	broker    broker.Client
	prefs     *preferences.Cache
	prefix    string
	debounce  time.Duration
	utcOffset func() int
	logger    synclog.Logger

	// generation is the latest-writer-wins token; each attempt snapshots
	// its own increment and backs off when overtaken.
	generation atomic.Uint64

	// execMu serializes executing attempts so broker calls never
	// interleave.
	execMu sync.Mutex

	// logMu guards logger so the sink can be swapped at runtime.
	logMu sync.RWMutex
}

// New creates a syncer reconciling prefs against brokerClient.
func New(brokerClient broker.Client, prefs *preferences.Cache, cfg Config) *Syncer {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}
	if cfg.UTCOffset == nil {
		cfg.UTCOffset = systemUTCOffset
	}
	if cfg.Logger == nil {
		cfg.Logger = synclog.NoopLogger{}
	}

	return &Syncer{
		broker:    brokerClient,
		prefs:     prefs,
		prefix:    cfg.Prefix,
		debounce:  cfg.DebounceWindow,
		utcOffset: cfg.UTCOffset,
		logger:    cfg.Logger,
	}
}

// EnsureSync makes the broker's subscription set match the current
// preference: exactly the desired topic when subscribed, no topic
// otherwise. unsubscribeOthers additionally strips every other universe
// topic; startup syncs pass false so a fresh process doesn't clear
// topics another install may still hold.
//
// The returned bool reports whether this call's broker operations ran.
// A superseded call returns (false, nil): not an error, a later call
// converges. A broker failure returns (false, err) with no rollback.
func (s *Syncer) EnsureSync(ctx context.Context, unsubscribeOthers bool) (bool, error) {
	gen := s.generation.Add(1)

	event := synclog.NewEvent(synclog.CategorySyncStarted)
	event.Generation = gen
	s.log(event)

	// The only suspension point: wait out the debounce window.
	timer := time.NewTimer(s.debounce)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return false, ctx.Err()
	}

	// Superseded by a newer call: back off without broker I/O.
	if s.generation.Load() != gen {
		event := synclog.NewEvent(synclog.CategorySyncCancelled)
		event.Generation = gen
		s.log(event)
		return false, nil
	}

	s.execMu.Lock()
	defer s.execMu.Unlock()

	subscribed := s.prefs.IsSubscribed()
	hour := s.prefs.Hour()
	offset := s.utcOffset()

	desired, err := topic.Name(s.prefix, hour, offset)
	if err != nil {
		// The cache guarantees the hour range; this indicates a bug.
		s.logFailure(gen, "", err)
		return false, fmt.Errorf("compute desired topic: %w", err)
	}

	if subscribed {
		event := synclog.NewEvent(synclog.CategoryBrokerSubscribe)
		event.Generation = gen
		event.Topic = desired
		s.log(event)

		if err := s.broker.Subscribe(ctx, desired); err != nil {
			s.logFailure(gen, desired, err)
			return false, fmt.Errorf("subscribe to %q: %w", desired, err)
		}
	}

	if unsubscribeOthers {
		if err := s.unsubscribeOthers(ctx, gen, desired, subscribed); err != nil {
			s.logFailure(gen, desired, err)
			return false, err
		}
	}

	done := synclog.NewEvent(synclog.CategorySyncCompleted)
	done.Generation = gen
	done.Topic = desired
	s.log(done)
	return true, nil
}

// unsubscribeOthers strips every universe topic except the desired one
// (all of them when the user is unsubscribed), batching when the broker
// supports it.
func (s *Syncer) unsubscribeOthers(ctx context.Context, gen uint64, desired string, keepDesired bool) error {
	var others []string
	for _, name := range topic.Universe(s.prefix) {
		if keepDesired && name == desired {
			continue
		}
		others = append(others, name)
	}

	event := synclog.NewEvent(synclog.CategoryBrokerUnsubscribe)
	event.Generation = gen
	event.Detail = strconv.Itoa(len(others)) + " topics"
	s.log(event)

	if batch, ok := s.broker.(broker.BatchUnsubscriber); ok {
		if err := batch.UnsubscribeBatch(ctx, others); err != nil {
			return fmt.Errorf("batch unsubscribe: %w", err)
		}
		return nil
	}

	for _, name := range others {
		if err := s.broker.Unsubscribe(ctx, name); err != nil {
			return fmt.Errorf("unsubscribe from %q: %w", name, err)
		}
	}
	return nil
}

// SetLogger replaces the event sink. Safe to call concurrently with
// EnsureSync.
func (s *Syncer) SetLogger(logger synclog.Logger) {
	if logger == nil {
		logger = synclog.NoopLogger{}
	}
	s.logMu.Lock()
	s.logger = logger
	s.logMu.Unlock()
}

func (s *Syncer) log(event synclog.Event) {
	s.logMu.RLock()
	logger := s.logger
	s.logMu.RUnlock()
	logger.Log(event)
}

func (s *Syncer) logFailure(gen uint64, topicName string, err error) {
	event := synclog.NewEvent(synclog.CategorySyncFailed)
	event.Generation = gen
	event.Topic = topicName
	event.Error = err.Error()
	s.log(event)
}

// systemUTCOffset reads the device's current zone offset in minutes.
func systemUTCOffset() int {
	_, seconds := time.Now().Zone()
	return seconds / 60
}
