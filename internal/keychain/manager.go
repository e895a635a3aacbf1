// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for paperassist.
// It owns the single durable secret the client keeps: the bearer token issued by
// the paper service, stored under one well-known key.
//
// macOS uses the native `security` command when present and the keyring library
// otherwise; Windows uses Credential Manager; Linux prefers Secret Service,
// KWallet or pass and falls back to an encrypted file in the XDG state dir.
package keychain

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"paperassist/cli/internal/xdg"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	mu            sync.Mutex
)

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "paperassist"

// KeyAccessToken is the single key the bearer token is stored under.
const KeyAccessToken = "access_token"

// PasswordEnv supplies the passphrase for the file keyring fallback.
const PasswordEnv = "PAPERASSIST_KEYRING_PASSWORD"

// ErrNoToken is returned by LoadAccessToken when nothing is stored.
var ErrNoToken = errors.New("no access token stored")

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	m, err := NewManager()
	if err != nil {
		return nil, err
	}
	globalManager = m
	return globalManager, nil
}

// openRing opens the OS keyring with the backends appropriate for this platform.
func openRing() (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName: ServiceName,
		PassPrefix:  ServiceName,
	}

	switch runtime.GOOS {
	case "darwin":
		cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend}
		cfg.WinCredPrefix = ServiceName
	default:
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
		cfg.LibSecretCollectionName = "login"
		cfg.KWalletAppID = ServiceName
		cfg.KWalletFolder = ServiceName

		dir, err := xdg.StateDir()
		if err != nil {
			return nil, err
		}
		cfg.FileDir = filepath.Join(dir, "keyring")
		if pw := os.Getenv(PasswordEnv); pw != "" {
			cfg.FilePasswordFunc = keyring.FixedStringPrompt(pw)
		} else {
			cfg.FilePasswordFunc = keyring.TerminalPrompt
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable; install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

// SaveAccessToken stores the bearer token, replacing any previous value.
// This method is thread-safe.
func (m *Manager) SaveAccessToken(token string) error {
	if token == "" {
		return errors.New("refusing to store empty access token")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(KeyAccessToken, token)
	}
	return m.ring.Set(keyring.Item{
		Key:         KeyAccessToken,
		Data:        []byte(token),
		Label:       "paperassist access token",
		Description: "Bearer token for the paper analysis service",
	})
}

// LoadAccessToken retrieves the bearer token. ErrNoToken is returned when the
// keychain holds no (or an empty) token.
// This method is thread-safe.
func (m *Manager) LoadAccessToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		token, err := m.backend.Get(KeyAccessToken)
		if err != nil {
			return "", err
		}
		if token == "" {
			return "", ErrNoToken
		}
		return token, nil
	}

	it, err := m.ring.Get(KeyAccessToken)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNoToken
	}
	return string(it.Data), nil
}

// ClearAuth removes the bearer token. Removing a missing token is not an error.
// This method is thread-safe.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(KeyAccessToken)
	}

	err := m.ring.Remove(KeyAccessToken)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !os.IsNotExist(err) {
		return err
	}
	return nil
}
