// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	clierrors "paperassist/cli/internal/errors"
	"paperassist/cli/internal/logging"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "paperassist/cli/internal/backend"

// HTTP implements API over the service's REST endpoints.
// Protected calls go through dispatch, which reads the token from creds at call
// time and invalidates the session when the service answers 401.
type HTTP struct {
	// baseURL is the origin every path is appended to (e.g., "http://127.0.0.1:8000")
	baseURL string
	creds   Credentials
	client  *http.Client
	tracer  trace.Tracer
	logger  *slog.Logger
	// observer may be nil
	observer Observer
	// userAgent is sent on every request
	userAgent string
}

// Option configures an HTTP client.
type Option func(*HTTP)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) { h.client = c }
}

// WithTimeout bounds each request. Zero leaves timing to the transport.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		if d > 0 {
			c := *h.client
			c.Timeout = d
			h.client = &c
		}
	}
}

// WithTracerProvider sets where dispatch spans are recorded.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *HTTP) { h.tracer = tp.Tracer(instrumentationName) }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(h *HTTP) { h.logger = l }
}

// WithObserver reports every round trip to o.
func WithObserver(o Observer) Option {
	return func(h *HTTP) { h.observer = o }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(h *HTTP) { h.userAgent = ua }
}

func newHTTP(baseURL string, creds Credentials, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		creds:     creds,
		client:    &http.Client{},
		tracer:    otel.GetTracerProvider().Tracer(instrumentationName),
		logger:    slog.Default(),
		userAgent: "paperassist-cli",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// do routes r through the authenticated dispatcher or, for the public
// endpoints, through a bare call.
func (h *HTTP) do(ctx context.Context, r request, out any) error {
	if r.requiresAuth {
		return h.dispatch(ctx, r, out)
	}
	status, body, err := h.send(ctx, r, "")
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &clierrors.E{
			Kind:    clierrors.RequestFailed,
			Message: serviceDetail(body, fmt.Sprintf("%s failed", strings.Trim(r.path, "/"))),
			Status:  status,
			Body:    string(body),
		}
	}
	return decode(r, status, body, out)
}

// dispatch is the single path for protected calls.
//
// The token is read when the call starts, never cached earlier. With no token
// the call is rejected locally and nothing is sent. A 401 invalidates the
// session before the Unauthorized error is returned; sibling calls that are
// already in flight are left to finish on their own.
func (h *HTTP) dispatch(ctx context.Context, r request, out any) error {
	token, ok := h.creds.Token()
	if !ok {
		return clierrors.Wrap(clierrors.Unauthorized, "log in to continue", clierrors.ErrNotLoggedIn)
	}

	status, body, err := h.send(ctx, r, token)
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusUnauthorized:
		h.creds.Invalidate()
		return &clierrors.E{
			Kind:    clierrors.Unauthorized,
			Message: "session expired or was revoked; log in again",
			Status:  status,
			Body:    string(body),
		}
	case status < 200 || status > 299:
		return &clierrors.E{
			Kind:    clierrors.RequestFailed,
			Message: fmt.Sprintf("%s %s returned %d", r.method, r.path, status),
			Status:  status,
			Body:    string(body),
		}
	}
	return decode(r, status, body, out)
}

func decode(r request, status int, body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &clierrors.E{
			Kind:    clierrors.DecodeError,
			Message: fmt.Sprintf("unexpected response from %s %s", r.method, r.path),
			Status:  status,
			Body:    string(body),
			Err:     err,
		}
	}
	return nil
}

// send performs one round trip and returns the status and full body. The
// Authorization header is attached only when token is non-empty.
func (h *HTTP) send(ctx context.Context, r request, token string) (int, []byte, error) {
	reqID := uuid.NewString()
	ctx, span := h.tracer.Start(ctx, "paperassist.dispatch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", r.method),
			attribute.String("url.path", r.path),
			attribute.String("paperassist.request_id", reqID),
			attribute.Bool("paperassist.authenticated", token != ""),
		),
	)
	defer span.End()

	target := h.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("X-Request-ID", reqID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.observe(r, 0, start)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		h.logger.Debug("request failed",
			"request_id", reqID, "method", r.method, "path", r.path,
			"error", logging.Mask(err.Error()))
		return 0, nil, clierrors.Wrap(clierrors.Transport, fmt.Sprintf("%s %s", r.method, r.path), err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return 0, nil, clierrors.Wrap(clierrors.Transport, fmt.Sprintf("read %s response", r.path), err)
	}

	h.observe(r, resp.StatusCode, start)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	h.logger.Debug("request done",
		"request_id", reqID, "method", r.method, "path", r.path,
		"status", resp.StatusCode, "bytes", len(b), "duration", time.Since(start).Round(time.Millisecond))

	return resp.StatusCode, b, nil
}

func (h *HTTP) observe(r request, status int, start time.Time) {
	if h.observer != nil {
		h.observer.ObserveRequest(r.method, r.path, status, time.Since(start))
	}
}
