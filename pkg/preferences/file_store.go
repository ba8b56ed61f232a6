package preferences

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStoreVersion is the current version of the preference file format.
const FileStoreVersion = 1

// fileState is the on-disk JSON shape of a FileStore.
type fileState struct {
	// Version is the file format version.
	Version int `json:"version"`

	// SavedAt is when the file was last written.
	SavedAt time.Time `json:"saved_at"`

	// Bools holds boolean preference values by key.
	Bools map[string]bool `json:"bools,omitempty"`

	// Ints holds integer preference values by key.
	Ints map[string]int `json:"ints,omitempty"`
}

// FileStore persists preferences to a single JSON file. It is safe for
// concurrent use. A missing or unreadable file behaves as an empty store;
// the file is created on first write.
type FileStore struct {
	mu     sync.Mutex
	path   string
	loaded bool
	state  fileState
}

// NewFileStore creates a file store at path. The file is not touched
// until the first access.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// GetBool returns the stored value for key, or ok=false if unset.
func (s *FileStore) GetBool(key string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	v, ok := s.state.Bools[key]
	return v, ok
}

// SetBool stores value under key and writes the file.
func (s *FileStore) SetBool(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	if s.state.Bools == nil {
		s.state.Bools = make(map[string]bool)
	}
	s.state.Bools[key] = value
	return s.save()
}

// GetInt returns the stored value for key, or ok=false if unset.
func (s *FileStore) GetInt(key string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	v, ok := s.state.Ints[key]
	return v, ok
}

// SetInt stores value under key and writes the file.
func (s *FileStore) SetInt(key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()
	if s.state.Ints == nil {
		s.state.Ints = make(map[string]int)
	}
	s.state.Ints[key] = value
	return s.save()
}

// Clear removes the preference file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.state = fileState{}

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// load reads the file on first access. Callers must hold s.mu.
func (s *FileStore) load() {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	// A corrupt file behaves as empty; the next write replaces it.
	_ = json.Unmarshal(data, &s.state)
}

// save writes the current state to disk. Callers must hold s.mu.
func (s *FileStore) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	s.state.Version = FileStoreVersion
	s.state.SavedAt = time.Now()

	data, err := json.MarshalIndent(&s.state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Compile-time interface satisfaction check.
var _ Store = (*FileStore)(nil)
