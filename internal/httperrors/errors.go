// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly diagnostics for requests that never
// reached the paper service.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Cause is the detected category of a network failure.
type Cause int

const (
	CauseUnknown Cause = iota
	CauseTimeout
	CauseDNS
	CauseConnectionRefused
	CauseTLS
)

// Classify detects the category of a transport error.
func Classify(err error) Cause {
	switch {
	case err == nil:
		return CauseUnknown
	case isTimeoutError(err):
		return CauseTimeout
	case isDNSError(err):
		return CauseDNS
	case isConnectionRefusedError(err):
		return CauseConnectionRefused
	case isTLSError(err):
		return CauseTLS
	}
	return CauseUnknown
}

// FormatNetworkError prints troubleshooting help for err to w and returns err
// wrapped with the action that was being attempted.
func FormatNetworkError(w io.Writer, err error, action, baseURL string) error {
	if err == nil {
		return nil
	}
	host := ExtractHostFromURL(baseURL)
	p := pterm.DefaultBasicText.WithWriter(w)

	switch Classify(err) {
	case CauseTimeout:
		p.Printfln("⏱️  Timed out while %s", action)
		p.Println()
		p.Printfln("%s took too long to respond. Summaries on large papers can be slow;", host)
		p.Println("raise request_timeout with 'paperassist config set request_timeout 5m'.")
	case CauseDNS:
		p.Printfln("🌐 Cannot resolve %s while %s", host, action)
		p.Println()
		p.Println("Check the base URL and your DNS settings.")
	case CauseConnectionRefused:
		p.Printfln("🚫 Connection refused by %s while %s", host, action)
		p.Println()
		p.Println("The paper service is not listening there. This could mean:")
		p.Println("  • The service is not running")
		p.Println("  • The base URL points at the wrong host or port")
	case CauseTLS:
		p.Printfln("🔒 Secure connection to %s failed while %s", host, action)
		p.Println()
		p.Println("Check the certificate, any HTTPS proxy, and the system clock.")
	default:
		p.Printfln("❌ Cannot reach %s while %s", host, action)
		p.Println()
		p.Println("Check your network connection and the configured base URL.")
	}
	p.Println()

	return fmt.Errorf("network error: %w", err)
}

func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") || strings.Contains(s, "deadline exceeded")
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isTLSError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "tls") ||
		strings.Contains(s, "x509") ||
		strings.Contains(s, "certificate")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "the server"
	}
	return u.Host
}
