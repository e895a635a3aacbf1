// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"os"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// spin runs fn while an inline spinner with text is shown on stderr.
// The spinner is skipped for structured output and when stderr is not a
// terminal, so piped output stays clean.
func spin[T any](a *app, text string, fn func() (T, error)) (T, error) {
	if a.output != outputText || !isTerminal(os.Stderr) {
		return fn()
	}

	cursor.Hide()
	defer cursor.Show()

	sp, err := pterm.DefaultSpinner.
		WithRemoveWhenDone(true).
		WithWriter(a.stderr).
		Start(text)
	if err != nil {
		return fn()
	}
	v, err := fn()
	_ = sp.Stop()
	return v, err
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func success(w io.Writer, format string, args ...any) {
	pterm.Success.WithWriter(w).Println(fmt.Sprintf(format, args...))
}

func warn(w io.Writer, format string, args ...any) {
	pterm.Warning.WithWriter(w).Println(fmt.Sprintf(format, args...))
}

func info(w io.Writer, format string, args ...any) {
	pterm.Info.WithWriter(w).Println(fmt.Sprintf(format, args...))
}
