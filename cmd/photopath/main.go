// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/photopath/pkg/logging"
)

// configPath is settable via --config on every command.
var configPath string

// serverURL points CLI commands at a running server.
var serverURL string

var rootCmd = &cobra.Command{
	Use:   "photopath",
	Short: "Find photographic connection chains between public figures",
	Long: `photopath answers "how is person A connected to person B?" with a
chain of public figures, where every hop is backed by a photograph of
the two people together and checked against the knowledge base.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:12210",
		"base URL of a running photopath server (client commands)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logging.Default())
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(randomCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
