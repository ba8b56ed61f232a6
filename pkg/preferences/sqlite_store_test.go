package preferences

import (
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t, filepath.Join(t.TempDir(), "prefs.db"))

	if _, ok := store.GetBool(KeySubscribed); ok {
		t.Error("GetBool on empty store reported ok")
	}
	if _, ok := store.GetInt(KeyHour); ok {
		t.Error("GetInt on empty store reported ok")
	}

	if err := store.SetBool(KeySubscribed, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetInt(KeyHour, 18); err != nil {
		t.Fatal(err)
	}

	if v, ok := store.GetBool(KeySubscribed); !ok || !v {
		t.Errorf("GetBool = %v (ok=%v), want true", v, ok)
	}
	if v, ok := store.GetInt(KeyHour); !ok || v != 18 {
		t.Errorf("GetInt = %d (ok=%v), want 18", v, ok)
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	store := newTestSQLiteStore(t, filepath.Join(t.TempDir(), "prefs.db"))

	if err := store.SetInt(KeyHour, 6); err != nil {
		t.Fatal(err)
	}
	if err := store.SetInt(KeyHour, 20); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.GetInt(KeyHour); v != 20 {
		t.Errorf("GetInt = %d after overwrite, want 20", v)
	}

	if err := store.SetBool(KeySubscribed, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetBool(KeySubscribed, false); err != nil {
		t.Fatal(err)
	}
	if v, ok := store.GetBool(KeySubscribed); !ok || v {
		t.Errorf("GetBool = %v (ok=%v) after overwrite, want false", v, ok)
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SetBool(KeySubscribed, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetInt(KeyHour, 13); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := newTestSQLiteStore(t, path)
	if v, ok := reopened.GetBool(KeySubscribed); !ok || !v {
		t.Errorf("reopened GetBool = %v (ok=%v), want true", v, ok)
	}
	if v, ok := reopened.GetInt(KeyHour); !ok || v != 13 {
		t.Errorf("reopened GetInt = %d (ok=%v), want 13", v, ok)
	}
}

func TestSQLiteStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")
	store := newTestSQLiteStore(t, path)

	if err := store.SetInt(KeyHour, 4); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.GetInt(KeyHour); v != 4 {
		t.Errorf("GetInt = %d, want 4", v)
	}
}
