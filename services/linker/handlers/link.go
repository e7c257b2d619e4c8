// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/photopath/services/linker/assembler"
	"github.com/AleutianAI/photopath/services/linker/datatypes"
	"github.com/AleutianAI/photopath/services/linker/middleware"
	"github.com/AleutianAI/photopath/services/linker/observability"
	"github.com/AleutianAI/photopath/services/linker/oracle"
	"github.com/AleutianAI/photopath/services/llm"
)

// HandleLink builds a verified connection chain between two people.
//
// # Description
//
// The handler asks the oracle for a candidate chain, then runs the
// verification pipeline over it. Three situations produce the canned
// demonstration chain instead: no oracle configured (keyless local
// runs), an oracle call failure, and an oracle reply the extractor
// cannot salvage. The canned chain is curated data and skips
// verification.
//
// backend names the configured oracle for metrics ("openai", "ollama",
// "mock"). client may be nil, which forces the canned chain.
//
// A chain whose every edge was disproved still returns 200 with empty
// edges; "no verifiable connection" is an answer, not an error.
func HandleLink(client llm.LLMClient, asm *assembler.Assembler, backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req datatypes.LinkRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		log := slog.With(
			"request_id", middleware.GetRequestID(c),
			"from", req.From.Name,
			"to", req.To.Name)

		if client == nil {
			log.Warn("no oracle configured, serving demonstration chain")
			observability.OracleFallback()
			c.JSON(http.StatusOK, oracle.FallbackChain())
			return
		}

		raw, err := oracle.ProposeChain(c.Request.Context(), client, req.From, req.To)
		if err != nil {
			log.Error("oracle call failed", "error", err.Error())
			observability.OracleRequest(backend, "error")
			observability.OracleFallback()
			c.JSON(http.StatusOK, oracle.FallbackChain())
			return
		}

		chain, err := oracle.Extract(raw)
		if err != nil {
			log.Error("oracle reply unusable", "error", err.Error())
			observability.OracleRequest(backend, "malformed")
			observability.OracleFallback()
			c.JSON(http.StatusOK, oracle.FallbackChain())
			return
		}
		observability.OracleRequest(backend, "ok")

		verified := asm.Assemble(c.Request.Context(), chain)

		elapsed := time.Since(start)
		observability.ObserveLinkDuration(elapsed)
		log.Info("chain assembled",
			"nodes", len(verified.Nodes),
			"edges", len(verified.Edges),
			"duration_ms", elapsed.Milliseconds())

		c.JSON(http.StatusOK, verified)
	}
}
