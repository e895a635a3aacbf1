// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"fmt"
	"strings"

	clierrors "paperassist/cli/internal/errors"

	"github.com/pterm/pterm"
)

// maxBodyShown bounds how much of a raw service payload is echoed back.
const maxBodyShown = 500

// FormatError renders a client error as a short titled block. DecodeError is
// shown the same way as RequestFailed.
func FormatError(err error) string {
	var e *clierrors.E
	if !errors.As(err, &e) {
		return pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Error") + "\n" + Mask(err.Error())
	}

	var b strings.Builder
	title := "Request failed"
	hint := ""

	switch e.Kind {
	case clierrors.Validation:
		title = "Invalid input"
	case clierrors.Unauthorized:
		title = "Not authenticated"
		hint = "→ Run 'paperassist login' and try again"
	case clierrors.Transport:
		title = "Service unreachable"
		hint = "→ Check the base URL with 'paperassist config show'"
	}

	b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(title))
	b.WriteString("\n")
	b.WriteString(Mask(e.Message))
	if e.Status != 0 && e.Kind != clierrors.Unauthorized {
		b.WriteString(fmt.Sprintf(" (HTTP %d)", e.Status))
	}
	b.WriteString("\n")

	if body := strings.TrimSpace(e.Body); body != "" && e.Kind != clierrors.Validation {
		if len(body) > maxBodyShown {
			body = body[:maxBodyShown] + "..."
		}
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Service response: " + Mask(body)))
		b.WriteString("\n")
	}
	if e.Err != nil && e.Kind == clierrors.DecodeError {
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(e.Err.Error())))
		b.WriteString("\n")
	}
	if hint != "" {
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint(hint))
		b.WriteString("\n")
	}
	return b.String()
}
