// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package wikidata wraps the knowledge-base lookups the linker needs:
// entity search, identifier validation and correction, lifespan bounds,
// and structured-data images. Everything goes over the public MediaWiki
// action API and the SPARQL endpoint; there is no authenticated surface.
//
// All lookups are best effort from the pipeline's point of view. The
// client returns errors, but callers above the assembler convert any
// failure into an absent value.
package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AleutianAI/photopath/pkg/cache"
	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// userAgent identifies the service to Wikimedia per their API etiquette.
const userAgent = "photopath/1.0 (https://github.com/AleutianAI/photopath)"

const (
	defaultAPIBase       = "https://www.wikidata.org/w/api.php"
	defaultSPARQLBase    = "https://query.wikidata.org/sparql"
	defaultWikipediaBase = "https://en.wikipedia.org"

	// defaultTimeout bounds every single upstream call.
	defaultTimeout = 8 * time.Second

	// searchCacheTTL matches the autocomplete refresh window; search
	// results are cached read-through and simply expire.
	searchCacheTTL = 60 * time.Second

	// searchRetries and searchBackoff govern the bounded retry on the
	// entity search step only. Other lookups are single-attempt.
	searchRetries = 3
	searchBackoff = 500 * time.Millisecond
)

// Config holds the client's injectable pieces. The zero value is
// production-ready.
type Config struct {
	// HTTPClient used for all requests. Default: http.Client with an
	// 8 second timeout.
	HTTPClient HTTPClient

	// APIBase, SPARQLBase, WikipediaBase override the upstream
	// endpoints, primarily for tests.
	APIBase       string
	SPARQLBase    string
	WikipediaBase string

	// Clock drives search-cache expiry. Default: system clock.
	Clock cache.Clock
}

// Client performs knowledge-base lookups.
//
// # Thread Safety
//
// Safe for concurrent use; the only mutable state is the internal
// search cache, which locks internally.
type Client struct {
	httpClient    HTTPClient
	apiBase       string
	sparqlBase    string
	wikipediaBase string
	searchCache   *cache.TTL[[]datatypes.Suggestion]
	sleep         func(time.Duration) // indirection for retry tests
}

// NewClient creates a Client, applying defaults for any zero field.
func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.SPARQLBase == "" {
		cfg.SPARQLBase = defaultSPARQLBase
	}
	if cfg.WikipediaBase == "" {
		cfg.WikipediaBase = defaultWikipediaBase
	}
	if cfg.Clock == nil {
		cfg.Clock = cache.SystemClock()
	}
	return &Client{
		httpClient:    cfg.HTTPClient,
		apiBase:       cfg.APIBase,
		sparqlBase:    cfg.SPARQLBase,
		wikipediaBase: cfg.WikipediaBase,
		searchCache:   cache.NewTTL[[]datatypes.Suggestion](searchCacheTTL, cfg.Clock),
		sleep:         time.Sleep,
	}
}

// getJSON performs a GET against rawURL and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, rawURL, accept string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &statusError{code: resp.StatusCode, status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError marks a non-200 upstream reply and records whether it is
// worth retrying.
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned status %s", e.status)
}

// retryable reports whether the request may succeed on a later attempt
// (rate limiting or server-side failure).
func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// getJSONRetry is getJSON with a bounded retry and doubling backoff for
// transient failures. Used only by the entity search step.
func (c *Client) getJSONRetry(ctx context.Context, rawURL, accept string, out any) error {
	backoff := searchBackoff
	var lastErr error

	for attempt := 1; attempt <= searchRetries; attempt++ {
		lastErr = c.getJSON(ctx, rawURL, accept, out)
		if lastErr == nil {
			return nil
		}
		if se, ok := lastErr.(*statusError); ok && !se.retryable() {
			return lastErr
		}
		if ctx.Err() != nil {
			return lastErr
		}
		if attempt < searchRetries {
			slog.Warn("search request failed, retrying",
				"attempt", attempt,
				"max_attempts", searchRetries,
				"error", lastErr.Error())
			c.sleep(backoff)
			backoff *= 2
		}
	}
	return lastErr
}

// sparqlQuery runs a SPARQL query and returns the decoded bindings.
func (c *Client) sparqlQuery(ctx context.Context, query string) ([]map[string]sparqlValue, error) {
	endpoint := fmt.Sprintf("%s?query=%s&format=json", c.sparqlBase, url.QueryEscape(query))

	var result sparqlResponse
	if err := c.getJSON(ctx, endpoint, "application/sparql-results+json", &result); err != nil {
		return nil, err
	}
	return result.Results.Bindings, nil
}

// --- SPARQL result structs ---

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// qidFromEntityURI extracts "Q42" from a full entity URI such as
// "http://www.wikidata.org/entity/Q42".
func qidFromEntityURI(uri string) string {
	if i := strings.LastIndex(uri, "/"); i >= 0 {
		return uri[i+1:]
	}
	return uri
}
