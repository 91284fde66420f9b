package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// searchPaths are tried in order by Find when no --config is given.
var searchPaths = []string{
	"printd.yaml",
	"printd.yml",
	"printd.toml",
	"printd.json",
	"~/.config/printd/printd.yaml",
}

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/printd/spool
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// Find returns the first existing default config file, or "" if none.
func Find() string {
	for _, p := range searchPaths {
		exp, err := ExpandHome(p)
		if err != nil {
			continue
		}
		if pathExists(exp) {
			return exp
		}
	}
	return ""
}

// Resolve loads path (or the first file Find reports), applies the
// environment and validates the result. With neither, Default is used.
func Resolve(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path == "" {
		path = Find()
	}
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}
	for _, p := range []*string{&cfg.Printer.SpoolDir, &cfg.Printer.LockFile} {
		exp, err := ExpandHome(*p)
		if err != nil {
			return cfg, err
		}
		*p = exp
	}
	return cfg, cfg.Validate()
}

func pathExists(path string) bool {
	st, err := os.Stat(path)
	if err != nil {
		return !errors.Is(err, os.ErrNotExist)
	}
	return !st.IsDir()
}
