package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"howett.net/plist"
)

// DefaultPathCandidates lists the locations probed, in order, when no
// explicit config path is given.
func DefaultPathCandidates() []string {
	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "middledrag", "config.ini"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".config", "middledrag", "config.ini"),
			filepath.Join(home, ".middledrag.ini"),
			filepath.Join(home, "Library", "Preferences", "middledrag.plist"),
		)
	}
	return candidates
}

// ResolvePath returns the first existing default config file, or empty
// string if none exists.
func ResolvePath() string {
	for _, candidate := range DefaultPathCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Load reads a config file, merging it over the defaults and clamping
// the result. The format is selected by extension: .ini (or anything
// not .plist) is parsed as INI, .plist as an Apple property list.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".plist") {
		if _, err := plist.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse plist config %s: %w", path, err)
		}
		return cfg.Clamp(), nil
	}

	iniFile, err := ini.Load(data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse ini config %s: %w", path, err)
	}
	if err := iniFile.Section("").MapTo(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to map config %s: %w", path, err)
	}
	return cfg.Clamp(), nil
}

// LoadOrDefault loads the given path, or the first default candidate
// when path is empty, falling back to the shipped defaults when no
// file exists. An explicit path that fails to load is an error; a
// missing default file is not.
func LoadOrDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	if resolved := ResolvePath(); resolved != "" {
		return Load(resolved)
	}
	return DefaultConfig(), nil
}
