// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend is the typed client for the paper analysis service.
// It defines the fixed endpoint catalog, the authenticated dispatcher every
// protected call passes through, and the HTTP implementation of both.
package backend

import (
	"context"
	"time"
)

// API defines the service operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type API interface {
	// Signup creates an account. It does not require a session.
	Signup(ctx context.Context, username, password string) (*SignupResult, error)
	// Login exchanges credentials for a bearer token. It does not require a
	// session and does not modify one; callers store the token.
	Login(ctx context.Context, username, password string) (*Token, error)
	// Health calls the service root. It does not require a session.
	Health(ctx context.Context) (string, error)

	UploadPaper(ctx context.Context, file Upload) (*UploadResult, error)
	ListPapers(ctx context.Context) ([]Paper, error)
	// RecommendPapers returns the caller's papers whose title matches keyword.
	// An empty keyword is rejected without contacting the service.
	RecommendPapers(ctx context.Context, keyword string) ([]Paper, error)
	SummarizeFull(ctx context.Context, paperID, model string) (*Summary, error)
	// SummarizeQuery answers query from at most topK passages of one paper.
	SummarizeQuery(ctx context.Context, paperID, query string, topK int, model string) (*Answer, error)
	GlobalQuery(ctx context.Context, q GlobalQuery) (*Answer, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Credentials is the session as seen by the dispatcher: the token is read at
// call time and Invalidate is called when the service answers 401.
type Credentials interface {
	Token() (string, bool)
	Invalidate()
}

// Observer receives one call per completed round trip. status is zero when no
// response was received.
type Observer interface {
	ObserveRequest(method, path string, status int, elapsed time.Duration)
}
