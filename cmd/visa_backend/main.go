// Package main provides the entry point for the visa document-package
// orchestrator HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "visa_backend",
	Short: "Visa document-package orchestrator",
	Long:  "Visa backend orchestrates generation of versioned visa document packages: it keeps the ledger of clients, companies, packages and jobs, dispatches render jobs to workers over a queue, and exposes the REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
