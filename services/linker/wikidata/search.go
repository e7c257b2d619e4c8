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
	"log/slog"
	"net/url"
	"strings"

	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

// searchLimit caps how many autocomplete suggestions one query returns.
const searchLimit = 8

// thumbWidth is the pixel width requested for suggestion thumbnails.
const thumbWidth = 96

// wbSearchResponse is the wbsearchentities reply shape.
type wbSearchResponse struct {
	Search []wbSearchHit `json:"search"`
}

type wbSearchHit struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Match       struct {
		Text string `json:"text"`
	} `json:"match"`
	Aliases []string `json:"aliases"`
}

// SearchEntities returns autocomplete suggestions for a partial name.
//
// # Description
//
// Runs a prefix search against the entity index, then enriches the hits
// with portrait thumbnails and gender via one batched SPARQL query.
// Results are cached for 60 seconds keyed on the normalized query, and
// the search step retries transient upstream failures a bounded number
// of times.
//
// # Inputs
//
//   - ctx: request context; cancellation aborts in-flight calls.
//   - query: partial person name, minimum one character after trimming.
//
// # Outputs
//
//   - []datatypes.Suggestion: zero or more suggestions, best match first.
//   - error: upstream failure after retries; never returned for an
//     empty result set.
func (c *Client) SearchEntities(ctx context.Context, query string) ([]datatypes.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []datatypes.Suggestion{}, nil
	}

	cacheKey := strings.ToLower(query)
	if cached, ok := c.searchCache.Get(cacheKey); ok {
		return cached, nil
	}

	searchURL := fmt.Sprintf(
		"%s?action=wbsearchentities&search=%s&language=en&type=item&limit=%d&format=json&origin=*",
		c.apiBase, url.QueryEscape(query), searchLimit)

	var result wbSearchResponse
	if err := c.getJSONRetry(ctx, searchURL, "", &result); err != nil {
		return nil, fmt.Errorf("entity search failed: %w", err)
	}
	if len(result.Search) == 0 {
		empty := []datatypes.Suggestion{}
		c.searchCache.Set(cacheKey, empty)
		return empty, nil
	}

	suggestions := make([]datatypes.Suggestion, 0, len(result.Search))
	qids := make([]string, 0, len(result.Search))
	for _, hit := range result.Search {
		suggestions = append(suggestions, datatypes.Suggestion{
			QID:         hit.ID,
			Name:        hit.Label,
			Description: hit.Description,
		})
		qids = append(qids, hit.ID)
	}

	// Enrichment is best effort; a SPARQL failure still yields usable
	// suggestions without thumbnails.
	if err := c.enrichSuggestions(ctx, suggestions, qids); err != nil {
		slog.Warn("suggestion enrichment failed", "query", query, "error", err.Error())
	}

	c.searchCache.Set(cacheKey, suggestions)
	return suggestions, nil
}

// enrichSuggestions fills Img and Gender on each suggestion in place
// using one batched SPARQL lookup of P18 (image) and P21 (sex or gender).
func (c *Client) enrichSuggestions(ctx context.Context, suggestions []datatypes.Suggestion, qids []string) error {
	values := make([]string, len(qids))
	for i, qid := range qids {
		values[i] = "wd:" + qid
	}

	query := fmt.Sprintf(`SELECT ?item ?image ?genderLabel WHERE {
  VALUES ?item { %s }
  OPTIONAL { ?item wdt:P18 ?image . }
  OPTIONAL { ?item wdt:P21 ?gender . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}`, strings.Join(values, " "))

	bindings, err := c.sparqlQuery(ctx, query)
	if err != nil {
		return err
	}

	byQID := make(map[string]*datatypes.Suggestion, len(suggestions))
	for i := range suggestions {
		byQID[suggestions[i].QID] = &suggestions[i]
	}

	for _, b := range bindings {
		item, ok := b["item"]
		if !ok {
			continue
		}
		s := byQID[qidFromEntityURI(item.Value)]
		if s == nil {
			continue
		}
		if img, ok := b["image"]; ok && s.Img == "" {
			s.Img = thumbnailURL(img.Value, thumbWidth)
		}
		if g, ok := b["genderLabel"]; ok && s.Gender == "" {
			s.Gender = normalizeGender(g.Value)
		}
	}
	return nil
}

// thumbnailURL converts a Commons file URL into a fixed-width thumbnail
// via Special:FilePath. Unrecognized URLs pass through unchanged.
func thumbnailURL(imageURL string, width int) string {
	const marker = "/wiki/Special:FilePath/"
	if i := strings.Index(imageURL, marker); i >= 0 {
		return fmt.Sprintf("%s?width=%d", imageURL, width)
	}
	// P18 values usually arrive as commons.wikimedia.org FilePath URIs;
	// anything else (upload.wikimedia.org direct links) is kept as is.
	if strings.Contains(imageURL, "commons.wikimedia.org") && !strings.Contains(imageURL, "?") {
		return fmt.Sprintf("%s?width=%d", imageURL, width)
	}
	return imageURL
}

// normalizeGender maps knowledge-base gender labels onto the compact
// values the UI expects. Matching is on containment so qualified labels
// ("trans female") still resolve.
func normalizeGender(label string) string {
	label = strings.ToLower(label)
	switch {
	// "female" contains "male", so it has to match first.
	case strings.Contains(label, "female"):
		return "f"
	case strings.Contains(label, "male"):
		return "m"
	default:
		return ""
	}
}
