// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"
	"os"

	"paperassist/cli/internal/backend"
	clierrors "paperassist/cli/internal/errors"
	"paperassist/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var (
	loginUsername      string
	loginPasswordStdin bool
)

// loginCmd exchanges a username and password for a bearer token and keeps it
// in the OS keychain. Logging in again replaces the stored token.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with your username and password",
	Long: `The login command exchanges your username and password for an access token and
stores the token in the OS keychain, where later commands pick it up.

The password is read without echo from the terminal. Use --password-stdin to
pipe it in from a script.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		svc, err := a.client()
		if err != nil {
			return err
		}
		username, password, err := readCredentials(cmd, loginUsername, loginPasswordStdin)
		if err != nil {
			return err
		}

		if _, err := spin(a, "Logging in...", func() (*backend.Token, error) {
			return svc.Login(cmd.Context(), username, password)
		}); err != nil {
			return err
		}

		view := sessionView{Authenticated: true, Username: username, Source: a.tokenSource}
		return a.render(view, func(w io.Writer) error {
			success(w, "Logged in as %s", username)
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	rootCmd.AddCommand(loginCmd)
}

// readCredentials prompts for whatever was not given on the command line.
func readCredentials(cmd *cobra.Command, username string, passwordStdin bool) (string, string, error) {
	in := cmd.InOrStdin()
	p := terminal.NewPrompter(in, cmd.ErrOrStderr())

	if username == "" {
		if passwordStdin {
			return "", "", clierrors.Validationf("--username is required with --password-stdin")
		}
		u, err := p.Line("Username: ")
		if err != nil {
			return "", "", err
		}
		username = u
	}

	if passwordStdin {
		password, err := p.Secret("")
		return username, password, err
	}

	const prompt = "Password: "
	password, err := p.Secret(prompt)
	if err != nil {
		return "", "", err
	}
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		terminal.ClearPreviousLines(cmd.ErrOrStderr(), len(prompt))
	}
	return username, password, nil
}
