// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var whoamiVerify bool

type sessionView struct {
	Authenticated bool       `json:"authenticated" yaml:"authenticated"`
	Username      string     `json:"username,omitempty" yaml:"username,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired       bool       `json:"expired,omitempty" yaml:"expired,omitempty"`
	Source        string     `json:"source,omitempty" yaml:"source,omitempty"`
}

// whoamiCmd shows who the stored token belongs to. The token's claims are read
// locally; --verify also asks the service whether it still accepts the token.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		svc, err := a.client()
		if err != nil {
			return err
		}

		if whoamiVerify && a.session.IsAuthenticated() {
			// a 401 here invalidates the session
			if _, err := a.api.ListModels(cmd.Context()); err != nil {
				return err
			}
		}

		view := sessionView{}
		if claims, ok := svc.WhoAmI(); ok {
			view.Authenticated = true
			view.Username = claims.Subject
			view.Source = a.tokenSource
			if !claims.ExpiresAt.IsZero() {
				exp := claims.ExpiresAt
				view.ExpiresAt = &exp
				view.Expired = claims.Expired(time.Now())
			}
		}

		return a.render(view, func(w io.Writer) error {
			if !view.Authenticated {
				pterm.Fprintln(w, "🔒 You're not logged in yet!")
				pterm.Fprintln(w, "   Run 'paperassist login' to get started.")
				return nil
			}
			name := view.Username
			if name == "" {
				name = "unknown user"
			}
			pterm.Fprintln(w, "👤 Current user: "+name)
			if view.ExpiresAt != nil {
				if view.Expired {
					warn(w, "Token expired at %s; run 'paperassist login'", view.ExpiresAt.Local().Format(time.RFC1123))
				} else {
					pterm.Fprintln(w, "   Token valid until "+view.ExpiresAt.Local().Format(time.RFC1123))
				}
			}
			return nil
		})
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiVerify, "verify", false, "Check the token against the service")
	rootCmd.AddCommand(whoamiCmd)
}
