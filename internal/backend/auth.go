// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	clierrors "paperassist/cli/internal/errors"
)

// Signup calls POST /signup/ with a JSON body. A taken username comes back as
// a RequestFailed error carrying the service's detail message.
func (h *HTTP) Signup(ctx context.Context, username, password string) (*SignupResult, error) {
	r, err := signupRequest(username, password)
	if err != nil {
		return nil, err
	}
	var out SignupResult
	if err := h.do(ctx, r, &out); err != nil {
		return nil, relabel(err, "signup failed")
	}
	return &out, nil
}

// Login calls POST /token/ with a form-encoded body and returns the issued token.
// A response without an access token is a DecodeError.
func (h *HTTP) Login(ctx context.Context, username, password string) (*Token, error) {
	r, err := loginRequest(username, password)
	if err != nil {
		return nil, err
	}
	// Be liberal in what we accept: decode into a map first
	var raw map[string]any
	if err := h.do(ctx, r, &raw); err != nil {
		return nil, relabel(err, "login failed")
	}

	access := extractAccessToken(raw)
	if access == "" {
		b, _ := json.Marshal(raw)
		return nil, &clierrors.E{
			Kind:    clierrors.DecodeError,
			Message: "login response has no access_token",
			Body:    string(b),
		}
	}
	tokenType, _ := raw["token_type"].(string)
	if tokenType == "" {
		tokenType = "bearer"
	}
	return &Token{AccessToken: access, TokenType: tokenType}, nil
}

// Health calls GET / and returns the service banner.
func (h *HTTP) Health(ctx context.Context) (string, error) {
	var out healthResponse
	if err := h.do(ctx, healthRequest(), &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// relabel swaps the generic "<path> failed" fallback for a friendlier one when
// the service did not send a detail message.
func relabel(err error, fallback string) error {
	var e *clierrors.E
	if !errors.As(err, &e) || e.Kind != clierrors.RequestFailed {
		return err
	}
	e.Message = serviceDetail([]byte(e.Body), fallback)
	return e
}

// extractAccessToken extracts the access token from the response payload.
// It tries multiple common field names to be resilient to different response formats.
func extractAccessToken(result map[string]any) string {
	for _, k := range []string{"access_token", "accessToken", "token"} {
		if v, ok := result[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// serviceDetail pulls the human-readable "detail" out of an error body.
// FastAPI-style services send either a string or a list of {loc, msg} objects.
func serviceDetail(body []byte, fallback string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return fallback
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil && s != "" {
		return s
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
		msg := ""
		for i, it := range items {
			if i > 0 {
				msg += "; "
			}
			if n := len(it.Loc); n > 0 {
				msg += fmt.Sprintf("%v: ", it.Loc[n-1])
			}
			msg += it.Msg
		}
		return msg
	}
	return fallback
}
