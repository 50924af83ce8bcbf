package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/stopsmokin/internal/models"
)

// JSONStore keeps the whole state as one flat JSON document. The file uses
// the export field names, so it can be imported elsewhere unchanged.
type JSONStore struct {
	path   string
	state  *models.State
	exists bool
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Init creates the file with an empty state when it does not exist. An
// existing file is loaded and left as is.
func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	state := models.NewState()
	s.state = &state
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	state := models.NewState()
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	state.Normalize()
	s.state = &state
	s.exists = true
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) LoadState() (models.State, bool, error) {
	if s.state == nil {
		return models.State{}, false, ErrNotLoaded
	}
	return s.state.Clone(), s.exists, nil
}

func (s *JSONStore) SaveState(state models.State) error {
	if s.state == nil {
		return ErrNotLoaded
	}
	next := state.Clone()
	prev := s.state
	s.state = &next
	if err := s.save(); err != nil {
		s.state = prev
		return err
	}
	return nil
}

// save writes to a temp file in the same directory and renames it over the
// data file so a crash never leaves a half-written document.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	s.exists = true
	return nil
}

// GetConfigPath returns the path to the data file.
//
// Running multiple stopsmokin processes against the same file at the same
// time is not supported; mutating commands hold a lockfile for that reason.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
