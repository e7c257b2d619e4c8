// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package commons searches Wikimedia Commons for photographs showing
// two people together. It is the first, freely licensed tier of meeting
// photo resolution; the caller falls through to commercial image search
// when Commons has nothing.
package commons

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	defaultAPIBase = "https://commons.wikimedia.org/w/api.php"
	defaultTimeout = 8 * time.Second
	userAgent      = "photopath/1.0 (https://github.com/AleutianAI/photopath)"

	// fileNamespace restricts full-text search to File: pages.
	fileNamespace = "6"

	// searchLimit caps hits per query; meeting resolution only needs a
	// few candidates to validate.
	searchLimit = 5
)

// Photo is one candidate file from a Commons search.
type Photo struct {
	// Title is the File: page title, e.g. "File:Tom Cruise 2013.jpg".
	Title string
	// URL is the direct upload URL of the original file.
	URL string
	// DescriptionURL links the file's Commons page for provenance.
	DescriptionURL string
}

// Client searches Commons. Safe for concurrent use.
type Client struct {
	httpClient HTTPClient
	apiBase    string
}

// NewClient creates a Client. Pass nil to use a production HTTP client
// with an 8 second timeout; apiBase "" selects the public endpoint.
func NewClient(httpClient HTTPClient, apiBase string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &Client{httpClient: httpClient, apiBase: apiBase}
}

// searchResponse is the generator=search + imageinfo reply shape.
type searchResponse struct {
	Query struct {
		Pages map[string]struct {
			Title     string `json:"title"`
			Index     int    `json:"index"`
			ImageInfo []struct {
				URL            string `json:"url"`
				DescriptionURL string `json:"descriptionurl"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

// SearchTogether runs a full-text search over File: pages for photos
// showing both names, e.g. `"Tom Cruise" "Anil Kapoor"`. Results come
// back in relevance order. An empty slice is a normal outcome.
func (c *Client) SearchTogether(ctx context.Context, nameA, nameB string) ([]Photo, error) {
	query := fmt.Sprintf("%q %q", nameA, nameB)
	searchURL := fmt.Sprintf(
		"%s?action=query&generator=search&gsrsearch=%s&gsrnamespace=%s&gsrlimit=%d"+
			"&prop=imageinfo&iiprop=url&format=json&origin=*",
		c.apiBase, url.QueryEscape(query), fileNamespace, searchLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("commons search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("commons returned status %s", resp.Status)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode commons response: %w", err)
	}

	// The pages map is unordered; the index field carries relevance.
	type ranked struct {
		index int
		photo Photo
	}
	hits := make([]ranked, 0, len(result.Query.Pages))
	for _, page := range result.Query.Pages {
		if len(page.ImageInfo) == 0 {
			continue
		}
		hits = append(hits, ranked{
			index: page.Index,
			photo: Photo{
				Title:          page.Title,
				URL:            page.ImageInfo[0].URL,
				DescriptionURL: page.ImageInfo[0].DescriptionURL,
			},
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].index < hits[j].index })

	photos := make([]Photo, len(hits))
	for i, h := range hits {
		photos[i] = h.photo
	}
	return photos, nil
}
