package rconfig

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != (Config{}) {
		t.Fatalf("expected zero-value config, got %+v", cfg)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reversi.yaml")
	want := Config{
		BroadcastAddr:  "192.168.1.255",
		BroadcastPort:  9050,
		DiscoverWindow: 3.5,
		LogLevel:       "debug",
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestMergePrefersFlagsThenFileThenDefaults(t *testing.T) {
	flags := Config{BroadcastPort: 9099}
	fromFile := Config{BroadcastAddr: "10.0.0.255", BroadcastPort: 9010, LogLevel: "warn"}
	defaults := Defaults()

	merged := flags.Merge(fromFile).Merge(defaults)

	if merged.BroadcastPort != 9099 {
		t.Fatalf("flag value should win: got port %d", merged.BroadcastPort)
	}
	if merged.BroadcastAddr != "10.0.0.255" {
		t.Fatalf("file value should fill an unset flag: got %q", merged.BroadcastAddr)
	}
	if merged.DiscoverWindow != defaults.DiscoverWindow {
		t.Fatalf("default should fill an unset field: got %v", merged.DiscoverWindow)
	}
	if merged.LogLevel != "warn" {
		t.Fatalf("file log level should survive: got %q", merged.LogLevel)
	}
}
