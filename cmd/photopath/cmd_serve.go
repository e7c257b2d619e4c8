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
	"github.com/AleutianAI/photopath/services/linker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the photopath HTTP server",
	Long: `Starts the linker service: the /v1/link chain endpoint, people
autocomplete, the random pair picker, /health and /metrics.`,
	Run: runServeCommand,
}

func runServeCommand(cmd *cobra.Command, args []string) {
	// The server logs JSON to stdout for the container runtime.
	logger, closeFn, err := logging.New(logging.Config{
		Level:   logging.ParseLevel("info"),
		Service: "linker",
		JSON:    true,
	})
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	defer closeFn()
	slog.SetDefault(logger)

	cfg, err := linker.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	svc, err := linker.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}
	if err := svc.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
