package preferences

import "sync"

// Preference keys in the backing store.
const (
	// KeySubscribed holds whether daily delivery is enabled.
	KeySubscribed = "daily_push_subscribed"

	// KeyHour holds the local delivery hour (0-23). Absent on records
	// written before the hour setting existed.
	KeyHour = "daily_push_hour"
)

// Store is the key-value preference persistence the cache writes through
// to. Reads are synchronous; a missing key reports ok=false.
type Store interface {
	// GetBool returns the stored value for key, or ok=false if unset.
	GetBool(key string) (value, ok bool)

	// SetBool stores value under key.
	SetBool(key string, value bool) error

	// GetInt returns the stored value for key, or ok=false if unset.
	GetInt(key string) (value int, ok bool)

	// SetInt stores value under key.
	SetInt(key string, value int) error
}

// MemoryStore is an in-memory Store. It is safe for concurrent use and
// usable as a zero value.
type MemoryStore struct {
	mu    sync.RWMutex
	bools map[string]bool
	ints  map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// GetBool returns the stored value for key, or ok=false if unset.
func (s *MemoryStore) GetBool(key string) (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.bools[key]
	return v, ok
}

// SetBool stores value under key.
func (s *MemoryStore) SetBool(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bools == nil {
		s.bools = make(map[string]bool)
	}
	s.bools[key] = value
	return nil
}

// GetInt returns the stored value for key, or ok=false if unset.
func (s *MemoryStore) GetInt(key string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.ints[key]
	return v, ok
}

// SetInt stores value under key.
func (s *MemoryStore) SetInt(key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ints == nil {
		s.ints = make(map[string]int)
	}
	s.ints[key] = value
	return nil
}

// Compile-time interface satisfaction check.
var _ Store = (*MemoryStore)(nil)
