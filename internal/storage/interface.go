package storage

import (
	"errors"

	"github.com/julianstephens/stopsmokin/internal/models"
)

var (
	// ErrNotInitialized is returned by Load when the backing store does not exist yet.
	ErrNotInitialized = errors.New("storage not initialized, run 'stopsmokin init' first")
	// ErrNotLoaded is returned when state is accessed before Init or Load.
	ErrNotLoaded = errors.New("storage not loaded")
)

// Provider is implemented by every backend. It satisfies tracker.StatePort.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// State
	LoadState() (models.State, bool, error)
	SaveState(models.State) error

	// Utils
	GetConfigPath() string
}
