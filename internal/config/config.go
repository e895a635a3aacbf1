// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the bearer token goes to the OS keychain.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"paperassist/cli/internal/xdg"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultBaseURL    = "http://127.0.0.1:8000"
	DefaultModel      = "phi3:mini"
	DefaultTopK       = 3
	DefaultGlobalTopK = 5
)

// Config holds non-sensitive CLI settings.
type Config struct {
	BaseURL      string `toml:"base_url" json:"base_url" yaml:"base_url"`
	DefaultModel string `toml:"default_model" json:"default_model" yaml:"default_model"`
	TopK         int    `toml:"top_k" json:"top_k" yaml:"top_k"`
	GlobalTopK   int    `toml:"global_top_k" json:"global_top_k" yaml:"global_top_k"`
	LogLevel     string `toml:"log_level" json:"log_level" yaml:"log_level"`
	// RequestTimeout is a Go duration string; "0s" leaves timing to the transport.
	RequestTimeout string `toml:"request_timeout" json:"request_timeout" yaml:"request_timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		DefaultModel:   DefaultModel,
		TopK:           DefaultTopK,
		GlobalTopK:     DefaultGlobalTopK,
		LogLevel:       "info",
		RequestTimeout: "0s",
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadFrom reads configuration from path. Keys absent from the file keep their defaults.
func LoadFrom(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	c.normalize()
	return c, c.Validate()
}

// SaveTo writes configuration with 0600 permissions.
func SaveTo(path string, c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	b, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// ApplyEnv overlays PAPERASSIST_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("PAPERASSIST_BASE_URL")); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("PAPERASSIST_MODEL")); v != "" {
		c.DefaultModel = v
	}
	if os.Getenv("PAPERASSIST_VERBOSE") == "1" {
		c.LogLevel = "debug"
	}
	c.normalize()
}

// Timeout parses RequestTimeout. Invalid or empty values mean no timeout.
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Validate checks the fields that would otherwise fail later at request time.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.TopK)
	}
	if c.GlobalTopK < 1 {
		return fmt.Errorf("global_top_k must be at least 1, got %d", c.GlobalTopK)
	}
	if c.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
	}
	return nil
}

// Keys lists the settable keys in file order.
func Keys() []string {
	return []string{"base_url", "default_model", "top_k", "global_top_k", "log_level", "request_timeout"}
}

// Set assigns a single key from its string form.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "base_url":
		c.BaseURL = value
	case "default_model":
		c.DefaultModel = value
	case "top_k", "global_top_k":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "top_k" {
			c.TopK = n
		} else {
			c.GlobalTopK = n
		}
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	case "request_timeout":
		c.RequestTimeout = value
	default:
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	c.normalize()
	return c.Validate()
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.DefaultModel = strings.TrimSpace(c.DefaultModel)
}
