// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package photos resolves the two kinds of images a finished chain
// needs: a portrait per person and an evidence photo per claimed
// meeting.
//
// # Description
//
// Portraits try the encyclopedia lead image first (usually a proper
// headshot), then the knowledge base's structured-data image claim.
// Meeting photos try the freely licensed Commons archive first, then a
// ladder of progressively looser commercial image-search queries.
// Every candidate URL passes a cheap plausibility filter before being
// accepted; nothing here downloads image bytes.
//
// All resolution is best effort. A person without a findable portrait
// keeps an empty Img; a meeting without a findable photo keeps an empty
// URL. Failures are logged, never propagated.
package photos

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AleutianAI/photopath/services/linker/commons"
	"github.com/AleutianAI/photopath/services/linker/datatypes"
	"github.com/AleutianAI/photopath/services/linker/googleimages"
	"github.com/AleutianAI/photopath/services/linker/observability"
)

// PersonImageSource provides portrait lookups, implemented by the
// knowledge-base client.
type PersonImageSource interface {
	LeadImage(ctx context.Context, name string) (string, error)
	ClaimImage(ctx context.Context, qid string) (string, error)
}

// TogetherSource provides archive searches for photos of two people
// together, implemented by the Commons client.
type TogetherSource interface {
	SearchTogether(ctx context.Context, nameA, nameB string) ([]commons.Photo, error)
}

// Resolver fills in portraits and meeting photos. Google may be nil;
// meeting resolution then stops after the Commons tier.
type Resolver struct {
	Persons PersonImageSource
	Archive TogetherSource
	Google  googleimages.Searcher
}

// bannedFragments mark file names that are almost never a photograph of
// the person: heraldry, cartography, iconography, vector art.
var bannedFragments = []string{
	"icon", "flag", "map", "coat_of_arms", "coat-of-arms", "logo", ".svg",
}

// trustedImageHosts accept any non-banned file without a name check.
var trustedImageHosts = []string{
	"upload.wikimedia.org",
	"commons.wikimedia.org",
}

// PersonImage returns a portrait URL for p, or "" when none survives
// the plausibility filter.
func (r *Resolver) PersonImage(ctx context.Context, p datatypes.Person) string {
	if lead, err := r.Persons.LeadImage(ctx, p.Name); err == nil {
		if plausiblePortrait(lead, p.Name) {
			observability.PhotoLookup("wikipedia", "hit")
			return lead
		}
	} else {
		slog.Debug("lead image lookup failed", "name", p.Name, "error", err.Error())
	}

	claim, err := r.Persons.ClaimImage(ctx, p.QID)
	if err != nil {
		slog.Debug("portrait claim lookup failed", "qid", p.QID, "error", err.Error())
		observability.PhotoLookup("wikidata", "miss")
		return ""
	}
	if plausiblePortrait(claim, p.Name) {
		observability.PhotoLookup("wikidata", "hit")
		return claim
	}
	observability.PhotoLookup("wikidata", "miss")
	return ""
}

// plausiblePortrait applies the URL filter: non-empty, not an obvious
// non-photograph, and on untrusted hosts the URL must contain some
// fragment of the person's name.
func plausiblePortrait(rawURL, name string) bool {
	if rawURL == "" {
		return false
	}
	lower := strings.ToLower(rawURL)
	for _, banned := range bannedFragments {
		if strings.Contains(lower, banned) {
			return false
		}
	}
	for _, host := range trustedImageHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return containsNameFragment(lower, name)
}

// MeetingPhoto attempts to find a real photo for the claimed meeting
// between a and b, starting from whatever the oracle supplied. The
// returned photo keeps the original caption/date/location metadata and
// only replaces URL and Source. On total failure the URL is empty.
func (r *Resolver) MeetingPhoto(ctx context.Context, a, b datatypes.Person,
	photo datatypes.MeetingPhoto) datatypes.MeetingPhoto {

	// An oracle-supplied URL that already looks plausible is kept.
	if photo.URL != "" && meetingHitPlausible(photo.URL, "", a.Name, b.Name) {
		return photo
	}
	photo.URL = ""

	if url, source, ok := r.meetingFromArchive(ctx, a.Name, b.Name); ok {
		photo.URL = url
		photo.Source = source
		if photo.License == "" {
			photo.License = "See Commons file page"
		}
		observability.PhotoLookup("commons", "hit")
		return photo
	}
	observability.PhotoLookup("commons", "miss")

	if r.Google == nil {
		return photo
	}
	if url, source, ok := r.meetingFromSearch(ctx, a.Name, b.Name); ok {
		photo.URL = url
		photo.Source = source
		observability.PhotoLookup("google", "hit")
		return photo
	}
	observability.PhotoLookup("google", "miss")
	return photo
}

// meetingFromArchive returns the first plausible Commons hit.
func (r *Resolver) meetingFromArchive(ctx context.Context, nameA, nameB string) (url, source string, ok bool) {
	hits, err := r.Archive.SearchTogether(ctx, nameA, nameB)
	if err != nil {
		slog.Debug("commons meeting search failed",
			"a", nameA, "b", nameB, "error", err.Error())
		return "", "", false
	}
	for _, hit := range hits {
		if meetingHitPlausible(hit.URL, hit.Title, nameA, nameB) {
			return hit.URL, hit.DescriptionURL, true
		}
	}
	return "", "", false
}

// meetingQueries is the search ladder, strictest first.
func meetingQueries(nameA, nameB string) []string {
	return []string{
		fmt.Sprintf("%q %q together photo", nameA, nameB),
		fmt.Sprintf("%s %s meeting", nameA, nameB),
		fmt.Sprintf("%s with %s", nameA, nameB),
	}
}

// meetingFromSearch walks the query ladder and returns the first
// plausible commercial-search hit.
func (r *Resolver) meetingFromSearch(ctx context.Context, nameA, nameB string) (url, source string, ok bool) {
	for _, query := range meetingQueries(nameA, nameB) {
		hits, err := r.Google.SearchImages(ctx, query)
		if err != nil {
			slog.Debug("image search failed", "query", query, "error", err.Error())
			continue
		}
		for _, hit := range hits {
			haystack := hit.URL + " " + hit.Title + " " + hit.ContextURL
			if meetingHitPlausible(haystack, "", nameA, nameB) {
				return hit.URL, hit.ContextURL, true
			}
		}
	}
	return "", "", false
}

// meetingHitPlausible requires a fragment of BOTH names somewhere in
// the hit's URL or title. Placeholder domains never pass.
func meetingHitPlausible(rawURL, title string, nameA, nameB string) bool {
	if rawURL == "" {
		return false
	}
	if strings.Contains(rawURL, "example.com") {
		return false
	}
	haystack := strings.ToLower(rawURL + " " + title)
	return containsNameFragment(haystack, nameA) && containsNameFragment(haystack, nameB)
}

// containsNameFragment reports whether any significant token (three or
// more characters) of name occurs in the lowercased haystack. Spaces,
// underscores and hyphens are interchangeable on both sides.
func containsNameFragment(haystack, name string) bool {
	haystack = normalizeSeparators(haystack)
	for _, token := range strings.Fields(normalizeSeparators(strings.ToLower(name))) {
		if len(token) >= 3 && strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}

func normalizeSeparators(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "%20", " ")
	return s
}
