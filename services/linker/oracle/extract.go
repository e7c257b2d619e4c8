// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package oracle builds the LLM prompts for chain generation and turns
// the model's free-text reply back into structured data.
//
// The model is instructed to emit a single top-level JSON object, but in
// practice replies arrive wrapped in prose or code fences. Extraction
// strips to the outermost brace pair before decoding; that is sufficient
// because the prompt forbids multiple top-level objects.
package oracle

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

// ErrMalformedResponse signals that no usable chain object could be
// recovered from the oracle's reply. The caller substitutes the fixed
// demonstration chain; this error must never surface to an API client.
var ErrMalformedResponse = errors.New("oracle: malformed response")

// ExtractJSON pulls the chain object out of an arbitrary text blob.
//
// Finds the first '{' and the last '}' in text and decodes the substring
// between them. Returns nil if the braces are missing or misordered, or
// if the substring is not valid JSON for the chain schema. Extraction is
// idempotent: re-extracting the same text yields an equal result.
func ExtractJSON(text string) *datatypes.Chain {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last == -1 || first > last {
		return nil
	}

	var chain datatypes.Chain
	if err := json.Unmarshal([]byte(text[first:last+1]), &chain); err != nil {
		return nil
	}
	return &chain
}

// Extract decodes the oracle reply and enforces the minimal structural
// contract: the object must carry both a nodes sequence and an edges
// sequence. Either may be empty ("no path" is two nodes and zero
// edges), but an absent sequence is treated as malformed.
func Extract(text string) (*datatypes.Chain, error) {
	chain := ExtractJSON(text)
	if chain == nil {
		return nil, ErrMalformedResponse
	}
	if chain.Nodes == nil || chain.Edges == nil {
		return nil, ErrMalformedResponse
	}
	return chain, nil
}
