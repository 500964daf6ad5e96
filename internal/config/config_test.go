package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DefaultRegion != defaultRegion {
		t.Fatalf("DefaultRegion = %q, want %q", cfg.DefaultRegion, defaultRegion)
	}
	if !reflect.DeepEqual(cfg.Regions, []string{defaultRegion}) {
		t.Fatalf("Regions = %v, want [%s]", cfg.Regions, defaultRegion)
	}

	wantDataDir, err := ExpandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("ExpandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
	if cfg.LogFile != filepath.Join(wantDataDir, "sqsnav.log") {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, filepath.Join(wantDataDir, "sqsnav.log"))
	}
	if cfg.StoreDir() != filepath.Join(wantDataDir, "store") {
		t.Fatalf("StoreDir = %q, want %q", cfg.StoreDir(), filepath.Join(wantDataDir, "store"))
	}
	if cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("PollSeconds = %d, want %d", cfg.PollSeconds, defaultPollSeconds)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
default_region = "  eu-west-1  "
regions = ["us-east-1", " eu-west-1 ", "", "us-east-1"]
data_dir = "  ~/.sqsnav  "
poll_seconds = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DefaultRegion != "eu-west-1" {
		t.Fatalf("DefaultRegion = %q, want %q", cfg.DefaultRegion, "eu-west-1")
	}
	if !reflect.DeepEqual(cfg.Regions, []string{"eu-west-1", "us-east-1"}) {
		t.Fatalf("Regions = %v, want [eu-west-1 us-east-1]", cfg.Regions)
	}
	if !strings.HasPrefix(cfg.DataDir, home) {
		t.Fatalf("DataDir = %q, want it under HOME %q", cfg.DataDir, home)
	}
	if cfg.LogFile != filepath.Join(cfg.DataDir, "sqsnav.log") {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, filepath.Join(cfg.DataDir, "sqsnav.log"))
	}
	if cfg.PollSeconds != 0 {
		t.Fatalf("PollSeconds = %d, want 0", cfg.PollSeconds)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
default_region = "   "
data_dir = ""
poll_seconds = -4
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DefaultRegion != defaultRegion {
		t.Fatalf("DefaultRegion = %q, want %q", cfg.DefaultRegion, defaultRegion)
	}
	wantDataDir, err := ExpandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("ExpandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
	if cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("PollSeconds = %d, want %d", cfg.PollSeconds, defaultPollSeconds)
	}
}

func TestLoad_ExplicitLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`log_file = "~/logs/nav.log"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "nav.log") {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, filepath.Join(home, "logs", "nav.log"))
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`default_region = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}

func TestStoreDir_DefaultsWhenDataDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.StoreDir()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("StoreDir = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/store")) {
		t.Fatalf("StoreDir = %q, want it to end with /store", got)
	}
}
