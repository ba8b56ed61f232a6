package preferences

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store := NewFileStore(path)

	if _, ok := store.GetBool(KeySubscribed); ok {
		t.Error("GetBool on empty store reported ok")
	}
	if _, ok := store.GetInt(KeyHour); ok {
		t.Error("GetInt on empty store reported ok")
	}

	if err := store.SetBool(KeySubscribed, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetInt(KeyHour, 7); err != nil {
		t.Fatal(err)
	}

	if v, ok := store.GetBool(KeySubscribed); !ok || !v {
		t.Errorf("GetBool = %v (ok=%v), want true", v, ok)
	}
	if v, ok := store.GetInt(KeyHour); !ok || v != 7 {
		t.Errorf("GetInt = %d (ok=%v), want 7", v, ok)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	store := NewFileStore(path)
	if err := store.SetBool(KeySubscribed, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetInt(KeyHour, 22); err != nil {
		t.Fatal(err)
	}

	reopened := NewFileStore(path)
	if v, ok := reopened.GetBool(KeySubscribed); !ok || !v {
		t.Errorf("reopened GetBool = %v (ok=%v), want true", v, ok)
	}
	if v, ok := reopened.GetInt(KeyHour); !ok || v != 22 {
		t.Errorf("reopened GetInt = %d (ok=%v), want 22", v, ok)
	}
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.json")
	store := NewFileStore(path)

	if err := store.SetInt(KeyHour, 5); err != nil {
		t.Fatalf("SetInt with missing parent dir: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("preference file not created: %v", err)
	}
}

func TestFileStoreCorruptFileBehavesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(path)
	if _, ok := store.GetInt(KeyHour); ok {
		t.Error("corrupt file should behave as empty")
	}

	// A write replaces the corrupt file.
	if err := store.SetInt(KeyHour, 11); err != nil {
		t.Fatal(err)
	}
	reopened := NewFileStore(path)
	if v, ok := reopened.GetInt(KeyHour); !ok || v != 11 {
		t.Errorf("GetInt after rewrite = %d (ok=%v), want 11", v, ok)
	}
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	store := NewFileStore(path)

	if err := store.SetBool(KeySubscribed, true); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("preference file still exists after Clear")
	}
	if _, ok := store.GetBool(KeySubscribed); ok {
		t.Error("cleared store still returns values")
	}

	// Clearing an already-missing file is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
