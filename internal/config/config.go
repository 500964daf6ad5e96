package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings sqsnav reads at startup.
type Config struct {
	DefaultRegion string
	Regions       []string
	DataDir       string
	LogFile       string
	PollSeconds   int
}

const (
	defaultConfigPath  = "~/.config/sqsnav/config.toml"
	defaultDataDir     = "~/.local/share/sqsnav"
	defaultRegion      = "us-east-1"
	defaultPollSeconds = 30
)

// Load locates and parses the sqsnav config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DefaultRegion: defaultRegion,
		Regions:       []string{defaultRegion},
		DataDir:       mustExpand(defaultDataDir),
		PollSeconds:   defaultPollSeconds,
	}
	cfg.LogFile = filepath.Join(cfg.DataDir, "sqsnav.log")

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DefaultRegion string   `toml:"default_region"`
		Regions       []string `toml:"regions"`
		DataDir       string   `toml:"data_dir"`
		LogFile       string   `toml:"log_file"`
		PollSeconds   *int     `toml:"poll_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if region := strings.TrimSpace(raw.DefaultRegion); region != "" {
		cfg.DefaultRegion = region
	}
	cfg.Regions = normalizeRegions(raw.Regions, cfg.DefaultRegion)

	if dir := strings.TrimSpace(raw.DataDir); dir != "" {
		cfg.DataDir = mustExpand(dir)
	}
	cfg.LogFile = filepath.Join(cfg.DataDir, "sqsnav.log")
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	// Zero disables the attribute poller; negative values fall back to the default.
	if raw.PollSeconds != nil && *raw.PollSeconds >= 0 {
		cfg.PollSeconds = *raw.PollSeconds
	}

	return cfg, nil
}

// StoreDir returns the directory holding the bookmark store.
func (c Config) StoreDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/store")
	}
	return filepath.Join(c.DataDir, "store")
}

// normalizeRegions trims, de-duplicates and makes sure the default region is listed first.
func normalizeRegions(regions []string, def string) []string {
	out := []string{def}
	seen := map[string]bool{def: true}
	for _, r := range regions {
		r = strings.TrimSpace(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ to the user's home directory and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
