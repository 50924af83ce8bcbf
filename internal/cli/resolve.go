package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/stopsmokin/internal/constants"
	"github.com/julianstephens/stopsmokin/internal/keyring"
	"github.com/julianstephens/stopsmokin/internal/logger"
	"github.com/julianstephens/stopsmokin/internal/storage"
	"github.com/julianstephens/stopsmokin/internal/storage/postgres"
	"github.com/julianstephens/stopsmokin/internal/storage/sqlite"
	"github.com/julianstephens/stopsmokin/internal/utils"
)

// Source names where a storage location came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "environment"
	SourceKeyring Source = "keyring"
	SourceConfig  Source = "config"
	SourceDefault Source = "default"
)

// keyringLookup is replaced in tests.
var keyringLookup = keyring.GetConnectionString

// ResolveLocation picks the storage location: the --store flag, then
// STOPSMOKIN_DB_CONNECTION, then the OS keyring, then the config file,
// then the default path.
func ResolveLocation(flag, configured string) (string, Source) {
	if v := strings.TrimSpace(flag); v != "" {
		return v, SourceFlag
	}
	if v := strings.TrimSpace(os.Getenv(constants.ConnectionEnvVar)); v != "" {
		return v, SourceEnv
	}
	connStr, err := keyringLookup()
	if err == nil && connStr != "" {
		return connStr, SourceKeyring
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("Keyring lookup skipped", "error", err)
	}
	if v := strings.TrimSpace(configured); v != "" && v != constants.DefaultStorePath {
		return v, SourceConfig
	}
	return constants.DefaultStorePath, SourceDefault
}

// NewStore builds the backend for location. Postgres URLs given on the
// command line or in the config file must not carry a password.
func NewStore(location string, source Source) (storage.Provider, error) {
	if postgres.IsConnString(location) || strings.Contains(location, "host=") {
		if source == SourceFlag || source == SourceConfig {
			if _, err := postgres.ValidateConnString(location); err != nil {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return nil, fmt.Errorf("%w; store the connection string with 'stopsmokin keyring set', export %s, or use a .pgpass file", err, constants.ConnectionEnvVar)
				}
				return nil, err
			}
		}
		return postgres.New(location), nil
	}

	path, err := utils.ExpandPath(location)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// Backend names the kind of store for logs and diagnostics.
func Backend(p storage.Provider) string {
	switch p.(type) {
	case *postgres.Store:
		return "postgres"
	case *sqlite.Store:
		return "sqlite"
	case *storage.JSONStore:
		return "json"
	}
	return "unknown"
}
