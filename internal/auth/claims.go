// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrNotJWT is returned by ParseClaims for tokens without a JWT payload.
var ErrNotJWT = errors.New("token is not a JWT")

// Claims are the JWT payload fields shown by whoami. The signature is not
// verified; the service remains the only authority on validity.
type Claims struct {
	Subject   string    `json:"sub"`
	ExpiresAt time.Time `json:"-"`
}

// Expired reports whether the token carries an expiry that is before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// ParseClaims decodes the payload segment of a JWT.
func ParseClaims(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrNotJWT
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return Claims{}, ErrNotJWT
	}

	var raw struct {
		Sub string   `json:"sub"`
		Exp *float64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Claims{}, ErrNotJWT
	}

	c := Claims{Subject: raw.Sub}
	if raw.Exp != nil {
		c.ExpiresAt = time.Unix(int64(*raw.Exp), 0).UTC()
	}
	return c, nil
}
