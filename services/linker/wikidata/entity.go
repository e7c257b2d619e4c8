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

// correctLimit caps how many candidates a correction search considers.
const correctLimit = 5

// wbEntitiesResponse is the wbgetentities reply shape, limited to the
// label/alias props the validator asks for.
type wbEntitiesResponse struct {
	Entities map[string]wbEntity `json:"entities"`
}

type wbEntity struct {
	Missing *int `json:"missing,omitempty"`
	Labels  map[string]struct {
		Value string `json:"value"`
	} `json:"labels"`
	Aliases map[string][]struct {
		Value string `json:"value"`
	} `json:"aliases"`
}

// ValidateQID reports whether qid denotes an entity whose English label
// or aliases plausibly match name.
//
// # Description
//
// Matching is fuzzy: case-insensitive, and a substring hit in either
// direction counts ("Robert Downey Jr." matches label "Robert Downey
// Jr."; "Madonna" matches "Madonna (entertainer)"). A missing entity or
// an entity with no matching label fails validation.
//
// # Outputs
//
//   - bool: true when the identifier plausibly names the person.
//   - error: upstream failure only; a clean mismatch is (false, nil).
func (c *Client) ValidateQID(ctx context.Context, qid, name string) (bool, error) {
	lookupURL := fmt.Sprintf(
		"%s?action=wbgetentities&ids=%s&props=labels|aliases&languages=en&format=json&origin=*",
		c.apiBase, url.QueryEscape(qid))

	var result wbEntitiesResponse
	if err := c.getJSON(ctx, lookupURL, "", &result); err != nil {
		return false, fmt.Errorf("entity lookup failed: %w", err)
	}

	entity, ok := result.Entities[qid]
	if !ok || entity.Missing != nil {
		return false, nil
	}

	if label, ok := entity.Labels["en"]; ok && namesMatch(name, label.Value) {
		return true, nil
	}
	for _, alias := range entity.Aliases["en"] {
		if namesMatch(name, alias.Value) {
			return true, nil
		}
	}
	return false, nil
}

// FindCorrectQID searches the entity index for name and returns the
// identifier of the first hit whose label or match text passes the same
// fuzzy check ValidateQID uses. Returns "" when no candidate matches.
func (c *Client) FindCorrectQID(ctx context.Context, name string) (string, error) {
	searchURL := fmt.Sprintf(
		"%s?action=wbsearchentities&search=%s&language=en&type=item&limit=%d&format=json&origin=*",
		c.apiBase, url.QueryEscape(name), correctLimit)

	var result wbSearchResponse
	if err := c.getJSON(ctx, searchURL, "", &result); err != nil {
		return "", fmt.Errorf("correction search failed: %w", err)
	}

	for _, hit := range result.Search {
		if namesMatch(name, hit.Label) || namesMatch(name, hit.Match.Text) {
			return hit.ID, nil
		}
		for _, alias := range hit.Aliases {
			if namesMatch(name, alias) {
				return hit.ID, nil
			}
		}
	}
	return "", nil
}

// namesMatch is the shared fuzzy comparison: case-insensitive equality
// or containment in either direction, after trimming.
func namesMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}
