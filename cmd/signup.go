// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"

	"paperassist/cli/internal/backend"

	"github.com/spf13/cobra"
)

var (
	signupUsername      string
	signupPasswordStdin bool
	signupNoLogin       bool
)

type signupView struct {
	Message  string `json:"message" yaml:"message"`
	Username string `json:"username" yaml:"username"`
	LoggedIn bool   `json:"logged_in" yaml:"logged_in"`
}

// signupCmd creates an account and logs straight into it.
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and log in",
	Long: `The signup command creates an account on the paper service and, unless
--no-login is given, logs in with the same credentials right away.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		svc, err := a.client()
		if err != nil {
			return err
		}
		username, password, err := readCredentials(cmd, signupUsername, signupPasswordStdin)
		if err != nil {
			return err
		}

		res, err := spin(a, "Creating account...", func() (*backend.SignupResult, error) {
			return svc.Signup(cmd.Context(), username, password, !signupNoLogin)
		})
		if err != nil {
			return err
		}

		view := signupView{Message: res.Message, Username: username, LoggedIn: !signupNoLogin}
		return a.render(view, func(w io.Writer) error {
			if view.LoggedIn {
				success(w, "Account %s created and logged in", username)
			} else {
				success(w, "Account %s created. Run 'paperassist login' to start.", username)
			}
			return nil
		})
	},
}

func init() {
	signupCmd.Flags().StringVarP(&signupUsername, "username", "u", "", "Account username (prompted when omitted)")
	signupCmd.Flags().BoolVar(&signupPasswordStdin, "password-stdin", false, "Read the password from stdin")
	signupCmd.Flags().BoolVar(&signupNoLogin, "no-login", false, "Only create the account")
	rootCmd.AddCommand(signupCmd)
}
