// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"errors"
	"log/slog"
	"sync"

	clierrors "paperassist/cli/internal/errors"
	"paperassist/cli/internal/keychain"
)

// Store holds the current bearer token.
//
// Get never fails: any read problem is reported as an absent token. Set rejects
// empty tokens and overwrites the previous value. Clear is idempotent.
type Store interface {
	Get() (string, bool)
	Set(token string) error
	Clear() error
}

// KeychainStore persists the token in the OS keychain so it survives restarts.
type KeychainStore struct {
	km *keychain.Manager
}

// NewKeychainStore wraps a keychain manager.
func NewKeychainStore(km *keychain.Manager) *KeychainStore {
	return &KeychainStore{km: km}
}

func (s *KeychainStore) Get() (string, bool) {
	token, err := s.km.LoadAccessToken()
	if err != nil {
		if !errors.Is(err, keychain.ErrNoToken) {
			slog.Debug("keychain read failed; treating token as absent", "error", err)
		}
		return "", false
	}
	return token, true
}

func (s *KeychainStore) Set(token string) error {
	if token == "" {
		return clierrors.Validationf("token must not be empty")
	}
	return s.km.SaveAccessToken(token)
}

func (s *KeychainStore) Clear() error {
	return s.km.ClearAuth()
}

// MemoryStore keeps the token in process memory only. It backs sessions seeded
// from PAPERASSIST_TOKEN, where nothing should be written to the keychain.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns a store optionally seeded with a token.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Set(token string) error {
	if token == "" {
		return clierrors.Validationf("token must not be empty")
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
