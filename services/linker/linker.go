// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package linker provides the connection-chain service.
//
// This package contains the main service type that coordinates all
// components: HTTP routing, the LLM oracle, the verification pipeline
// (knowledge-base, archive and commercial image search clients), and
// observability infrastructure.
//
// # Usage
//
//	cfg := linker.Config{Port: 12210, LLMBackend: "openai"}
//	svc, err := linker.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package linker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/photopath/services/linker/assembler"
	"github.com/AleutianAI/photopath/services/linker/celebrities"
	"github.com/AleutianAI/photopath/services/linker/commons"
	"github.com/AleutianAI/photopath/services/linker/googleimages"
	"github.com/AleutianAI/photopath/services/linker/middleware"
	"github.com/AleutianAI/photopath/services/linker/photos"
	"github.com/AleutianAI/photopath/services/linker/routes"
	"github.com/AleutianAI/photopath/services/linker/wikidata"
	"github.com/AleutianAI/photopath/services/llm"
)

// serviceName identifies this service in traces.
const serviceName = "linker-service"

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the linker service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and
// should only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
//
// # Fields
//
//   - config: service configuration
//   - router: Gin HTTP engine
//   - llmClient: oracle backend (nil in mock mode)
//   - tracerCleanup: shuts down the OTLP exporter on exit
//
// # Thread Safety
//
// Thread-safe after construction; all fields are read-only after New()
// returns.
type service struct {
	config        Config
	router        *gin.Engine
	llmClient     llm.LLMClient
	tracerCleanup func(context.Context)
}

// =============================================================================
// Constructor
// =============================================================================

// New creates a linker Service with the given configuration.
//
// # Description
//
// New initializes all components:
//  1. Applies default configuration for missing values
//  2. Initializes OpenTelemetry tracing
//  3. Creates the oracle client for the configured backend
//  4. Wires the verification pipeline (knowledge base, Commons,
//     optional commercial image search)
//  5. Sets up HTTP routes
//
// An oracle backend that fails to initialize is not fatal: the service
// degrades to mock mode and serves the demonstration chain, which keeps
// keyless local runs working.
//
// # Inputs
//
//   - cfg: service configuration. Zero values use defaults.
//
// # Outputs
//
//   - Service: ready-to-run service
//   - error: non-nil if initialization fails
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	cleanup, err := s.initTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	s.tracerCleanup = cleanup

	s.initLLMClient()
	asm, searcher := s.initPipeline()
	s.initRouter(asm, searcher)

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting linker server",
		"port", s.config.Port,
		"backend", s.backendName())

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// initTracer initializes OpenTelemetry distributed tracing.
//
// Uses an insecure gRPC connection to the collector, appropriate for
// internal networks. The returned cleanup shuts the exporter down with
// a five second budget.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

// initLLMClient creates the oracle client for the configured backend.
// Failure is downgraded to mock mode rather than propagated, so a
// missing API key never blocks local development.
func (s *service) initLLMClient() {
	var err error

	switch s.config.LLMBackend {
	case "openai":
		s.llmClient, err = llm.NewOpenAIClient()
	case "ollama":
		s.llmClient, err = llm.NewOllamaClient()
	case "mock":
		slog.Info("Mock oracle configured, serving demonstration chains")
		return
	default:
		slog.Warn("Unknown LLM backend, running in mock mode",
			"backend", s.config.LLMBackend)
		return
	}

	if err != nil {
		slog.Warn("Oracle backend unavailable, running in mock mode",
			"backend", s.config.LLMBackend, "error", err.Error())
		s.llmClient = nil
		return
	}
	slog.Info("Oracle backend initialized", "backend", s.config.LLMBackend)
}

// initPipeline wires the verification pipeline clients.
func (s *service) initPipeline() (*assembler.Assembler, *wikidata.Client) {
	wd := wikidata.NewClient(wikidata.Config{})
	archive := commons.NewClient(nil, "")

	resolver := &photos.Resolver{
		Persons: wd,
		Archive: archive,
	}

	if s.config.GoogleAPIKey != "" && s.config.GoogleCX != "" {
		google, err := googleimages.NewClient(context.Background(),
			s.config.GoogleAPIKey, s.config.GoogleCX, s.config.GoogleQPS)
		if err != nil {
			slog.Warn("Image search unavailable, meeting photos limited to Commons",
				"error", err.Error())
		} else {
			resolver.Google = google
			slog.Info("Image search initialized")
		}
	} else {
		slog.Info("Image search not configured, meeting photos limited to Commons")
	}

	asm := &assembler.Assembler{
		Entities:  wd,
		Lifespans: wd,
		Photos:    resolver,
	}
	return asm, wd
}

// initRouter sets up the Gin HTTP router with all routes.
func (s *service) initRouter(asm *assembler.Assembler, searcher *wikidata.Client) {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware(serviceName))
	s.router.Use(middleware.RequestID())

	routes.SetupRoutes(s.router, routes.Deps{
		Client:        s.llmClient,
		Backend:       s.backendName(),
		Asm:           asm,
		Searcher:      searcher,
		Pool:          celebrities.NewPool(nil),
		EnableMetrics: *s.config.EnableMetrics,
	})
}

// backendName is the metrics label for the active oracle backend.
func (s *service) backendName() string {
	if s.llmClient == nil {
		return "mock"
	}
	return s.config.LLMBackend
}

// cleanup releases all resources held by the service.
func (s *service) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}

// =============================================================================
// Compile-time Interface Compliance
// =============================================================================

var _ Service = (*service)(nil)
