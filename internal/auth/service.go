// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"fmt"

	"paperassist/cli/internal/backend"
)

// Service centralizes authentication-related operations against the backend
// and the process Session.
type Service struct {
	be      backend.API
	session *Session
}

// NewService constructs an auth Service over be and session.
func NewService(be backend.API, session *Session) *Service {
	return &Service{be: be, session: session}
}

// Session returns the session the service mutates.
func (s *Service) Session() *Session {
	return s.session
}

// Login exchanges credentials for a token and stores it in the session.
// The session is left untouched when the exchange fails.
func (s *Service) Login(ctx context.Context, username, password string) (*backend.Token, error) {
	tok, err := s.be.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if err := s.session.Login(tok.AccessToken); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return tok, nil
}

// Signup creates the account and, when login is true, logs in right after with
// the same credentials.
func (s *Service) Signup(ctx context.Context, username, password string, login bool) (*backend.SignupResult, error) {
	res, err := s.be.Signup(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !login {
		return res, nil
	}
	if _, err := s.Login(ctx, username, password); err != nil {
		return res, fmt.Errorf("account created but login failed: %w", err)
	}
	return res, nil
}

// Logout clears the local session. The service has no logout endpoint.
func (s *Service) Logout() error {
	return s.session.Logout()
}

// WhoAmI describes the stored token. ok is false when no one is logged in.
// Tokens that are not JWTs still count as logged in with empty claims.
func (s *Service) WhoAmI() (Claims, bool) {
	token, ok := s.session.Token()
	if !ok {
		return Claims{}, false
	}
	c, err := ParseClaims(token)
	if err != nil {
		return Claims{}, true
	}
	return c, true
}
