// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth owns the client's authentication state.
//
// A single Session per process wraps the credential Store and is the only place
// that reacts to credential invalidation. The backend dispatcher reads the token
// from the Session at call time and calls Invalidate when the service answers
// 401; interested parties learn about it through Subscribe instead of any
// navigation side effect.
package auth

import (
	"log/slog"
	"sync"

	clierrors "paperassist/cli/internal/errors"
)

// State is the authentication state of a Session.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Reason names what caused a transition.
type Reason string

const (
	ReasonLogin       Reason = "login"
	ReasonLogout      Reason = "logout"
	ReasonInvalidated Reason = "invalidated"
)

// Event is delivered to subscribers after every state change.
type Event struct {
	Reason Reason
	From   State
	To     State
}

// Session is the process-wide authentication state machine.
type Session struct {
	mu    sync.Mutex
	store Store

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// NewSession wraps store. A token already present in store rehydrates the
// session as Authenticated.
func NewSession(store Store) *Session {
	return &Session{store: store, subs: map[int]func(Event){}}
}

// Token returns the token in effect right now.
func (s *Session) Token() (string, bool) {
	return s.store.Get()
}

// IsAuthenticated reports whether the store holds a token.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.store.Get()
	return ok
}

// State returns the current state.
func (s *Session) State() State {
	if s.IsAuthenticated() {
		return Authenticated
	}
	return Anonymous
}

// Login stores token and marks the session authenticated.
func (s *Session) Login(token string) error {
	if token == "" {
		return clierrors.Validationf("token must not be empty")
	}

	s.mu.Lock()
	from := s.State()
	if err := s.store.Set(token); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.emit(Event{Reason: ReasonLogin, From: from, To: Authenticated})
	return nil
}

// Logout clears the stored token. The session is anonymous afterwards even when
// the store reports an error, which is returned for display only.
func (s *Session) Logout() error {
	return s.reset(ReasonLogout)
}

// Invalidate ends the session because the service rejected its token. It has
// the same effect as Logout but is reported to subscribers as ReasonInvalidated.
// Subscribers are only notified when the session was authenticated, so several
// in-flight calls failing with 401 produce one notification.
func (s *Session) Invalidate() {
	if err := s.reset(ReasonInvalidated); err != nil {
		slog.Warn("clearing invalidated token failed", "error", err)
	}
}

func (s *Session) reset(reason Reason) error {
	s.mu.Lock()
	from := s.State()
	err := s.store.Clear()
	s.mu.Unlock()

	if reason == ReasonInvalidated && from == Anonymous {
		return err
	}
	s.emit(Event{Reason: reason, From: from, To: Anonymous})
	return err
}

// Subscribe registers fn for every state change and returns a function that
// removes it. fn runs on the goroutine that caused the change.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) emit(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	slog.Debug("session transition", "reason", ev.Reason, "from", ev.From, "to", ev.To)
	for _, fn := range fns {
		fn(ev)
	}
}
