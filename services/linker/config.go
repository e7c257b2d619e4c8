// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package linker

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds linker service configuration options.
//
// # Description
//
// Config centralizes all configuration for the service. Values can be
// populated from a YAML file via LoadConfig, from environment
// variables, or programmatically for testing. Precedence is
// environment over file over defaults.
//
// # Required Fields
//
// None - all fields have sensible defaults. Google image search stays
// disabled until both GoogleAPIKey and GoogleCX are set.
type Config struct {
	// Port is the HTTP server port. Default: 12210
	Port int `yaml:"port"`

	// LLMBackend specifies the oracle provider.
	// Valid values: "openai", "ollama", "mock"
	// Default: "openai"
	LLMBackend string `yaml:"llm_backend"`

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "photopath-otel-collector:4317"
	OTelEndpoint string `yaml:"otel_endpoint"`

	// EnableMetrics exposes the Prometheus /metrics endpoint.
	// Unset means enabled; an explicit false turns it off.
	EnableMetrics *bool `yaml:"enable_metrics"`

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	// Default: uses GIN_MODE env var or "debug"
	GinMode string `yaml:"gin_mode"`

	// GoogleAPIKey and GoogleCX configure the commercial image search
	// tier. Both must be set for it to activate.
	GoogleAPIKey string `yaml:"google_api_key"`
	GoogleCX     string `yaml:"google_cx"`

	// GoogleQPS is the client-side rate for image search requests.
	// Default: 1
	GoogleQPS float64 `yaml:"google_qps"`
}

// applyConfigDefaults fills in missing configuration values.
func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12210
	}
	if cfg.LLMBackend == "" {
		cfg.LLMBackend = "openai"
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "photopath-otel-collector:4317"
	}
	if cfg.EnableMetrics == nil {
		enabled := true
		cfg.EnableMetrics = &enabled
	}
	if cfg.GoogleQPS <= 0 {
		cfg.GoogleQPS = 1
	}
	return cfg
}

// LoadConfig reads configuration from an optional YAML file and the
// environment.
//
// # Description
//
// A missing file is not an error; the service runs on defaults plus
// environment. Environment variables override file values:
//
//	PHOTOPATH_PORT, LLM_BACKEND, OTEL_EXPORTER_OTLP_ENDPOINT,
//	GIN_MODE, GOOGLE_API_KEY, GOOGLE_CSE_ID
//
// # Inputs
//
//   - path: YAML file path; "" skips the file entirely.
//
// # Outputs
//
//   - Config: merged configuration, defaults not yet applied (New
//     applies them).
//   - error: unreadable or unparseable file, or a malformed
//     PHOTOPATH_PORT value.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fine, env and defaults carry it.
		case err != nil:
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if v := os.Getenv("PHOTOPATH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid PHOTOPATH_PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("LLM_BACKEND"); v != "" {
		cfg.LLMBackend = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTelEndpoint = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.GinMode = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.GoogleAPIKey = v
	}
	if v := os.Getenv("GOOGLE_CSE_ID"); v != "" {
		cfg.GoogleCX = v
	}

	return cfg, nil
}
