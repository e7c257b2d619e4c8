// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package wikidata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// portraitWidth is the pixel width requested for structured-data
// portrait fallbacks.
const portraitWidth = 640

// pageSummary is the slice of the Wikipedia REST page summary the image
// lookup cares about.
type pageSummary struct {
	Thumbnail struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
	OriginalImage struct {
		Source string `json:"source"`
	} `json:"originalimage"`
}

// LeadImage returns the lead image URL of the encyclopedia article for
// name, preferring the pre-sized thumbnail over the original upload.
// Returns "" with no error when the article has no lead image; a missing
// article is an error (the caller decides whether to fall back).
func (c *Client) LeadImage(ctx context.Context, name string) (string, error) {
	title := strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	summaryURL := fmt.Sprintf("%s/api/rest_v1/page/summary/%s",
		c.wikipediaBase, url.PathEscape(title))

	var summary pageSummary
	if err := c.getJSON(ctx, summaryURL, "", &summary); err != nil {
		return "", fmt.Errorf("page summary lookup failed: %w", err)
	}

	if summary.Thumbnail.Source != "" {
		return summary.Thumbnail.Source, nil
	}
	return summary.OriginalImage.Source, nil
}

// ClaimImage returns the entity's structured-data portrait (P18) as a
// fixed-width file URL, or "" when the entity carries no image claim.
func (c *Client) ClaimImage(ctx context.Context, qid string) (string, error) {
	query := fmt.Sprintf(`SELECT ?image WHERE {
  wd:%s wdt:P18 ?image .
} LIMIT 1`, qid)

	bindings, err := c.sparqlQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("portrait lookup failed: %w", err)
	}
	if len(bindings) == 0 {
		return "", nil
	}
	img, ok := bindings[0]["image"]
	if !ok || img.Value == "" {
		return "", nil
	}
	return thumbnailURL(img.Value, portraitWidth), nil
}
