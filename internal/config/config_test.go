package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/stopsmokin/internal/constants"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want %+v", cfg, Default())
	}
}

func TestEnsureFileWritesParseableDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	created, err := EnsureFile(path)
	if err != nil {
		t.Fatalf("EnsureFile failed: %v", err)
	}
	if !created {
		t.Fatal("EnsureFile should report creation")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# stopsmokin configuration") {
		t.Errorf("default config lacks header comment")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("default file parses to %+v, want %+v", cfg, Default())
	}

	created, err = EnsureFile(path)
	if err != nil || created {
		t.Errorf("second EnsureFile = (%v, %v), want (false, nil)", created, err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Config
		wantErr bool
	}{
		{
			name: "all fields",
			yaml: "storage: /tmp/data.json\ntimezone: America/New_York\nweek_window: 4\ndebug: true\n",
			want: Config{Storage: "/tmp/data.json", Timezone: "America/New_York", WeekWindow: 4, Debug: true},
		},
		{
			name: "partial keeps defaults",
			yaml: "timezone: UTC\n",
			want: Config{Storage: constants.DefaultStorePath, Timezone: "UTC", WeekWindow: constants.DefaultWeekWindow},
		},
		{
			name: "blank storage falls back",
			yaml: "storage: \"  \"\n",
			want: Default(),
		},
		{
			name:    "bad timezone",
			yaml:    "timezone: Mars/Olympus\n",
			wantErr: true,
		},
		{
			name:    "zero week window",
			yaml:    "week_window: 0\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			yaml:    "storage: [unterminated\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0600); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := Config{Storage: "/data/s.db", Timezone: "UTC", WeekWindow: 6, Debug: true}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
