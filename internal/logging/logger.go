// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pterm/pterm"
)

// NewLogger builds a slog logger rendered by pterm at the given level and
// installs it as the slog default. Unknown levels mean "info".
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl := pterm.LogLevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = pterm.LogLevelDebug
	case "warn", "warning":
		lvl = pterm.LogLevelWarn
	case "error":
		lvl = pterm.LogLevelError
	}

	pl := pterm.DefaultLogger.WithLevel(lvl).WithWriter(w)
	log := slog.New(pterm.NewSlogHandler(pl))
	slog.SetDefault(log)
	return log
}
