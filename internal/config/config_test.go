package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveBaseURL_EnvWins(t *testing.T) {
	t.Setenv("BWISE_API_URL", "https://api.example.com")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://configured:5091"

	if got := ResolveBaseURL(cfg); got != "https://api.example.com" {
		t.Errorf("ResolveBaseURL = %q, want env value", got)
	}
}

func TestResolveBaseURL_Platforms(t *testing.T) {
	t.Setenv("BWISE_API_URL", "")

	tests := []struct {
		platform string
		host     string
		want     string
	}{
		{"android-emulator", "", "http://10.0.2.2:5091"},
		{"ios-simulator", "", "http://localhost:5091"},
		{"device", "192.168.1.50", "http://192.168.1.50:5091"},
		{"", "", "http://localhost:5091"},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.API.BaseURL = ""
		cfg.API.Platform = tt.platform
		cfg.API.DeviceHost = tt.host
		if got := ResolveBaseURL(cfg); got != tt.want {
			t.Errorf("platform %q: ResolveBaseURL = %q, want %q", tt.platform, got, tt.want)
		}
	}
}

func TestLoadSave_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://10.0.0.9:5091"
	cfg.General.DefaultDays = 7
	cfg.Appearance.Theme = "terminal"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("BaseURL = %q, want %q", loaded.API.BaseURL, cfg.API.BaseURL)
	}
	if loaded.General.DefaultDays != 7 {
		t.Errorf("DefaultDays = %d, want 7", loaded.General.DefaultDays)
	}
	if loaded.Appearance.Theme != "terminal" {
		t.Errorf("Theme = %q, want terminal", loaded.Appearance.Theme)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if cfg.General.DefaultDays != 30 {
		t.Errorf("DefaultDays = %d, want default 30", cfg.General.DefaultDays)
	}
	if cfg.API.TimeoutSec != 30 {
		t.Errorf("TimeoutSec = %d, want 30", cfg.API.TimeoutSec)
	}
}

func TestLoad_CorruptFileReportsError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "bwise", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load on corrupt file returned nil error")
	}
}

func TestStorePath_UsesDataDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BWISE_DATA_DIR", dir)

	if got := StorePath(); got != filepath.Join(dir, "bwise.db") {
		t.Errorf("StorePath = %q, want under %q", got, dir)
	}
}
