// Copyright (c) 2025 Paperassist
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

// logoutCmd clears the stored token. The service keeps no session state, so
// nothing is sent over the network.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		svc, err := a.client()
		if err != nil {
			return err
		}
		if err := svc.Logout(); err != nil {
			// the session is anonymous either way
			a.logger.Warn("clearing stored token failed", "error", err)
		}
		return a.render(sessionView{Authenticated: false}, func(w io.Writer) error {
			success(w, "Logged out")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
