// Package xdg resolves XDG Base Directory paths for paperassist.
//
// The config directory holds config.toml; the state directory holds the
// encrypted file keyring used when no desktop keyring is available.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base.
const AppName = "paperassist"

// ConfigDir returns the config directory, creating it with 0700 if missing.
// It falls back to ~/.config/paperassist when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the state directory, creating it with 0700 if missing.
// It falls back to ~/.local/state/paperassist when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func resolve(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
