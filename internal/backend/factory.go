// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// New creates the HTTP implementation of API for the service at baseURL.
// creds is consulted on every protected call.
func New(baseURL string, creds Credentials, opts ...Option) API {
	return newHTTP(baseURL, creds, opts...)
}
