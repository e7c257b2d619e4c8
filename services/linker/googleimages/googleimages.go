// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package googleimages wraps the Google Custom Search JSON API in image
// mode. It is the last tier of meeting-photo resolution, behind the
// freely licensed Commons search, and is rate limited client side since
// the free quota is 100 queries per day.
package googleimages

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxResults caps hits per query. Meeting resolution validates the top
// few candidates only.
const maxResults = 3

// Hit is one image result.
type Hit struct {
	// URL is the direct image URL.
	URL string
	// Title is the page title the image was found on.
	Title string
	// ContextURL links the hosting page for provenance.
	ContextURL string
}

// Searcher is the query surface the photo resolver consumes.
type Searcher interface {
	SearchImages(ctx context.Context, query string) ([]Hit, error)
}

// Client calls the Custom Search API. Safe for concurrent use.
type Client struct {
	svc     *customsearch.Service
	cx      string
	limiter *rate.Limiter
}

// NewClient creates a Client.
//
// # Inputs
//
//   - ctx: used for service construction only.
//   - apiKey: Custom Search API key.
//   - cx: programmable search engine ID configured for image search.
//   - qps: client-side request rate; pass 0 for the default of one
//     request per second with a small burst.
//   - opts: extra client options (tests inject WithEndpoint here).
func NewClient(ctx context.Context, apiKey, cx string, qps float64,
	opts ...option.ClientOption) (*Client, error) {

	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("google image search requires both an API key and an engine ID")
	}
	if qps <= 0 {
		qps = 1
	}

	allOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}

	return &Client{
		svc:     svc,
		cx:      cx,
		limiter: rate.NewLimiter(rate.Limit(qps), 2),
	}, nil
}

// SearchImages runs one image query and returns up to maxResults hits.
// The call blocks on the client-side rate limiter first; context
// cancellation while waiting aborts without spending quota.
func (c *Client) SearchImages(ctx context.Context, query string) ([]Hit, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait aborted: %w", err)
	}

	slog.Debug("querying image search", "query", query)
	result, err := c.svc.Cse.List().
		Q(query).
		Cx(c.cx).
		SearchType("image").
		Num(maxResults).
		Safe("active").
		ImgSize("large").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("image search failed: %w", err)
	}

	hits := make([]Hit, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Link == "" {
			continue
		}
		hit := Hit{URL: item.Link, Title: item.Title}
		if item.Image != nil {
			hit.ContextURL = item.Image.ContextLink
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
