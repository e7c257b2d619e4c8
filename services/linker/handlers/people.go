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
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/photopath/services/linker/celebrities"
	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

// EntitySearcher is the autocomplete lookup surface.
type EntitySearcher interface {
	SearchEntities(ctx context.Context, query string) ([]datatypes.Suggestion, error)
}

// minQueryLength is the shortest prefix worth searching; anything
// shorter returns an empty list without an upstream call.
const minQueryLength = 2

// HandleAutocomplete serves GET /v1/people/search?q=<prefix>.
func HandleAutocomplete(searcher EntitySearcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if len(query) < minQueryLength {
			c.JSON(http.StatusOK, gin.H{"suggestions": []datatypes.Suggestion{}})
			return
		}

		suggestions, err := searcher.SearchEntities(c.Request.Context(), query)
		if err != nil {
			slog.Error("entity search failed", "query", query, "error", err.Error())
			c.JSON(http.StatusBadGateway, gin.H{"error": "Entity search unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
	}
}

// HandleRandomPair serves GET /v1/people/random, returning two distinct
// endpoints for the "surprise me" feature.
func HandleRandomPair(pool *celebrities.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to := pool.RandomPair()
		c.JSON(http.StatusOK, gin.H{"from": from, "to": to})
	}
}

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
