// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/photopath/services/linker/assembler"
	"github.com/AleutianAI/photopath/services/linker/celebrities"
	"github.com/AleutianAI/photopath/services/linker/handlers"
	"github.com/AleutianAI/photopath/services/llm"
)

// Deps carries everything the route table needs. Client may be nil
// (keyless runs serve the demonstration chain); everything else is
// required.
type Deps struct {
	Client   llm.LLMClient
	Backend  string
	Asm      *assembler.Assembler
	Searcher handlers.EntitySearcher
	Pool     *celebrities.Pool

	// EnableMetrics exposes /metrics. On by default in config.
	EnableMetrics bool
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.HealthCheck)
	if deps.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/link", handlers.HandleLink(deps.Client, deps.Asm, deps.Backend))
		people := v1.Group("/people")
		{
			people.GET("/search", handlers.HandleAutocomplete(deps.Searcher))
			people.GET("/random", handlers.HandleRandomPair(deps.Pool))
		}
	}
}
