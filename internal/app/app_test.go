package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpen_LogsStoreChanges(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := "data_dir = \"" + filepath.ToSlash(dir) + "\"\npoll_seconds = 0\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	env, err := Open(Options{ConfigPath: cfgPath, PrefsPath: filepath.Join(dir, "prefs.toml")})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, err := env.Store.AddQueue("us-east-1", "https://sqs.us-east-1.amazonaws.com/123/orders"); err != nil {
		t.Fatalf("AddQueue returned error: %v", err)
	}
	if err := env.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(env.Config.LogFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `msg="preferences saved" change=queues`) {
		t.Fatalf("log does not record the store change:\n%s", data)
	}
}

func TestPollInterval(t *testing.T) {
	env := &Env{}
	env.Config.PollSeconds = 30
	if got := env.PollInterval(0).Seconds(); got != 30 {
		t.Fatalf("PollInterval(0) = %vs, want 30s", got)
	}
	if got := env.PollInterval(5).Seconds(); got != 5 {
		t.Fatalf("PollInterval(5) = %vs, want 5s", got)
	}
}
