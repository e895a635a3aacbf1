// Package main is the entry point for the paperassist CLI.
// It is a client for the paper analysis service: account management, paper
// upload, summaries and questions answered from your papers.
package main

import (
	"paperassist/cli/cmd"
)

func main() {
	cmd.Execute()
}
