package preferences

import (
	"errors"
	"testing"
)

func TestCacheDefaults(t *testing.T) {
	c := NewCache(NewMemoryStore())

	if c.IsSubscribed() {
		t.Error("IsSubscribed() = true on empty store, want false")
	}
	if got := c.Hour(); got != DefaultHour {
		t.Errorf("Hour() = %d on empty store, want %d", got, DefaultHour)
	}
}

func TestCacheLegacyRecordMigration(t *testing.T) {
	store := NewMemoryStore()
	// A legacy record: subscribed flag only, no hour.
	if err := store.SetBool(KeySubscribed, true); err != nil {
		t.Fatal(err)
	}

	c := NewCache(store)

	if !c.IsSubscribed() {
		t.Error("IsSubscribed() = false, want true")
	}
	if got := c.Hour(); got != DefaultHour {
		t.Errorf("Hour() = %d, want %d", got, DefaultHour)
	}

	// The default must have been persisted on first read.
	if hour, ok := store.GetInt(KeyHour); !ok || hour != DefaultHour {
		t.Errorf("store hour after migration = %d (ok=%v), want %d", hour, ok, DefaultHour)
	}
}

func TestCacheOutOfRangeStoredHour(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SetInt(KeyHour, 99); err != nil {
		t.Fatal(err)
	}

	c := NewCache(store)
	if got := c.Hour(); got != DefaultHour {
		t.Errorf("Hour() = %d for out-of-range record, want %d", got, DefaultHour)
	}
}

func TestCacheSetHour(t *testing.T) {
	store := NewMemoryStore()
	c := NewCache(store)

	fired := 0
	c.OnChange(func() { fired++ })

	if err := c.SetHour(17); err != nil {
		t.Fatalf("SetHour(17) error: %v", err)
	}
	if got := c.Hour(); got != 17 {
		t.Errorf("Hour() = %d, want 17", got)
	}
	if hour, ok := store.GetInt(KeyHour); !ok || hour != 17 {
		t.Errorf("store hour = %d (ok=%v), want 17", hour, ok)
	}
	if fired != 1 {
		t.Errorf("change callback fired %d times, want 1", fired)
	}
}

func TestCacheSetHourRejectsInvalid(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SetInt(KeyHour, 8); err != nil {
		t.Fatal(err)
	}

	c := NewCache(store)
	fired := 0
	c.OnChange(func() { fired++ })

	for _, hour := range []int{-1, 24, 25} {
		err := c.SetHour(hour)
		if !errors.Is(err, ErrInvalidHour) {
			t.Errorf("SetHour(%d) error = %v, want ErrInvalidHour", hour, err)
		}
	}

	if got := c.Hour(); got != 8 {
		t.Errorf("Hour() = %d after rejected writes, want 8", got)
	}
	if hour, _ := store.GetInt(KeyHour); hour != 8 {
		t.Errorf("store hour = %d after rejected writes, want 8", hour)
	}
	if fired != 0 {
		t.Errorf("change callback fired %d times on rejected writes, want 0", fired)
	}
}

func TestCacheSetSubscribed(t *testing.T) {
	store := NewMemoryStore()
	c := NewCache(store)

	fired := 0
	c.OnChange(func() { fired++ })

	if err := c.SetSubscribed(true); err != nil {
		t.Fatalf("SetSubscribed(true) error: %v", err)
	}
	if !c.IsSubscribed() {
		t.Error("IsSubscribed() = false, want true")
	}
	if v, ok := store.GetBool(KeySubscribed); !ok || !v {
		t.Errorf("store subscribed = %v (ok=%v), want true", v, ok)
	}

	if err := c.SetSubscribed(false); err != nil {
		t.Fatalf("SetSubscribed(false) error: %v", err)
	}
	if c.IsSubscribed() {
		t.Error("IsSubscribed() = true, want false")
	}

	if fired != 2 {
		t.Errorf("change callback fired %d times, want 2", fired)
	}
}

// A cache never observes out-of-process store writes; only a fresh cache
// instance does.
func TestCacheStaleReads(t *testing.T) {
	store := NewMemoryStore()
	first := NewCache(store)

	if first.IsSubscribed() {
		t.Fatal("IsSubscribed() = true on empty store")
	}

	// External write, bypassing the cache.
	if err := store.SetBool(KeySubscribed, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetInt(KeyHour, 21); err != nil {
		t.Fatal(err)
	}

	if first.IsSubscribed() {
		t.Error("first cache observed an external write")
	}
	if got := first.Hour(); got != DefaultHour {
		t.Errorf("first cache Hour() = %d, want stale %d", got, DefaultHour)
	}

	second := NewCache(store)
	if !second.IsSubscribed() {
		t.Error("second cache IsSubscribed() = false, want true")
	}
	if got := second.Hour(); got != 21 {
		t.Errorf("second cache Hour() = %d, want 21", got)
	}
}

// failingStore rejects all writes.
type failingStore struct {
	MemoryStore
	err error
}

func (s *failingStore) SetBool(string, bool) error { return s.err }
func (s *failingStore) SetInt(string, int) error   { return s.err }

func TestCachePersistFailure(t *testing.T) {
	store := &failingStore{err: errors.New("disk full")}
	c := NewCache(store)

	fired := 0
	c.OnChange(func() { fired++ })

	if err := c.SetSubscribed(true); err == nil {
		t.Error("SetSubscribed should surface the store error")
	}
	if c.IsSubscribed() {
		t.Error("mirror updated despite persist failure")
	}

	if err := c.SetHour(12); err == nil {
		t.Error("SetHour should surface the store error")
	}
	if got := c.Hour(); got != DefaultHour {
		t.Errorf("Hour() = %d despite persist failure, want %d", got, DefaultHour)
	}

	if fired != 0 {
		t.Errorf("change callback fired %d times on failed writes, want 0", fired)
	}
}
