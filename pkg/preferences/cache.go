package preferences

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultHour is the delivery hour assumed for records that predate the
// hour setting, and for stored values outside the valid range.
const DefaultHour = 9

// ErrInvalidHour is returned when a delivery hour outside [0,23] is
// supplied to SetHour. The stored preference is left untouched.
var ErrInvalidHour = errors.New("delivery hour out of range")

// Cache is the in-memory mirror of the persisted subscription preference.
// It is the single writer of the preference; see the package
// documentation for the staleness semantics.
type Cache struct {
	mu sync.Mutex

	store      Store
	loaded     bool
	subscribed bool
	hour       int
	onChange   func()
}

// NewCache creates a cache backed by store. Nothing is read until the
// first accessor call.
func NewCache(store Store) *Cache {
	return &Cache{
		store: store,
		hour:  DefaultHour,
	}
}

// OnChange registers fn to be invoked once after every successful
// mutation. The service layer wires this to the subscription syncer.
func (c *Cache) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// IsSubscribed reports whether daily delivery is enabled.
func (c *Cache) IsSubscribed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	return c.subscribed
}

// Hour returns the local delivery hour. A legacy record with no stored
// hour is upgraded to DefaultHour on the first read.
func (c *Cache) Hour() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	return c.hour
}

// SetSubscribed persists the subscribed flag, updates the mirror, and
// fires the change callback.
func (c *Cache) SetSubscribed(subscribed bool) error {
	c.mu.Lock()
	c.load()

	if err := c.store.SetBool(KeySubscribed, subscribed); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("persist subscribed flag: %w", err)
	}
	c.subscribed = subscribed

	// Capture the callback for invocation outside the lock.
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// SetHour persists the delivery hour, updates the mirror, and fires the
// change callback. Hours outside [0,23] are rejected with ErrInvalidHour
// and leave the preference untouched; no callback fires.
func (c *Cache) SetHour(hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: %d", ErrInvalidHour, hour)
	}

	c.mu.Lock()
	c.load()

	if err := c.store.SetInt(KeyHour, hour); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("persist delivery hour: %w", err)
	}
	c.hour = hour

	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// load populates the mirror from the store on first access.
// Callers must hold c.mu.
func (c *Cache) load() {
	if c.loaded {
		return
	}
	c.loaded = true

	c.subscribed, _ = c.store.GetBool(KeySubscribed)

	hour, ok := c.store.GetInt(KeyHour)
	if !ok || hour < 0 || hour > 23 {
		// Legacy record: upgrade in place. Persisting the default is
		// best-effort; the mirror carries it either way.
		c.hour = DefaultHour
		_ = c.store.SetInt(KeyHour, DefaultHour)
		return
	}
	c.hour = hour
}
