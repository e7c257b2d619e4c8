// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package oracle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/photopath/services/linker/datatypes"
	"github.com/AleutianAI/photopath/services/llm"
)

// SystemPrompt instructs the model to return the strict chain schema.
// Photo URLs are deliberately requested empty: the model gets them wrong,
// so the pipeline fetches real ones from Wikipedia/Commons afterwards.
const SystemPrompt = `You are an expert in finding connections between notable people across any field.

Your goal: return STRICT JSON showing the SHORTEST PLAUSIBLE connection chain linking two named individuals.

CRITICAL PRIORITY - SHORTEST PATH:
- Your PRIMARY goal is to find the SHORTEST possible path (fewest hops)
- BEFORE suggesting intermediate people, check if the two people have met directly
- ONLY add intermediate people if absolutely necessary
- Common direct connections to check first: co-stars in the same movie/show,
  attendance at the same major events (Oscars, Cannes, award shows), joint
  talk show appearances, shared franchises or projects
- If you find a 4-hop path, actively search for 3-hop or 2-hop alternatives

CRITICAL PRIORITY - PHOTO AVAILABILITY:
- ONLY suggest connections where BOTH people were PHOTOGRAPHED TOGETHER in the SAME FRAME
- DO NOT use connections where someone "visited" something or attended an event alone
- If a direct connection lacks photos, find an intermediate person with
  PHOTO-DOCUMENTED connections to both

CRITICAL INSTRUCTIONS FOR PHOTO URLs:
- LEAVE url EMPTY ("") - real photos are fetched from Wikipedia/Commons automatically
- Focus on providing accurate caption, date, location, and source (Wikipedia article URL)
- DO NOT use example.com or make up URLs

Guidelines:
- Each hop MUST be a meeting/event likely to have PUBLIC photographs
- Include 1-8 edges maximum
- Use intermediates from any domain (music, politics, cinema, sports, activism, etc.)
- Include dates (YYYY-MM-DD format) and locations whenever possible
- Confidence should be "high" only if you are certain photos exist

Return STRICT JSON in this schema:

{
  "nodes": [
    { "qid": "Q...", "name": "Full Name", "img": "" }
  ],
  "edges": [
    {
      "from": "Q...",
      "to": "Q...",
      "photo": {
        "url": "",
        "caption": "Detailed description of the PHOTOGRAPHED meeting",
        "date": "YYYY-MM-DD or ''",
        "location": "City, Country or ''",
        "license": "",
        "source": "https://en.wikipedia.org/wiki/Article_Name",
        "confidence": "high | medium"
      }
    }
  ]
}

If absolutely no PHOTO-DOCUMENTED connection path exists, return only the two nodes with an empty "edges" array.`

// UserPrompt renders the per-request instruction naming both endpoints.
func UserPrompt(from, to datatypes.Person) string {
	return fmt.Sprintf(`From: %s (%s)
To: %s (%s)

CRITICAL: The first node MUST be %s with QID %s
CRITICAL: The last node MUST be %s with QID %s
CRITICAL: Use the EXACT QIDs provided - do NOT change them

Find and return the SHORTEST PHOTO-DOCUMENTED connection path connecting them.
First check whether they have met DIRECTLY; only use intermediates when necessary.
Each connection MUST have likely photo evidence (major public events only).
Include intermediates from any domain if needed. For intermediate people,
ensure you use correct Wikidata QIDs.`,
		from.Name, from.QID, to.Name, to.QID,
		from.Name, from.QID, to.Name, to.QID)
}

// oracleTemperature keeps chain proposals stable across retries of the
// same pair without making them fully deterministic.
const oracleTemperature float32 = 0.3

// ProposeChain asks the oracle for a candidate chain between the two
// endpoints and returns its raw, untrusted reply text.
//
// The reply is NOT parsed here; the caller owns extraction so the
// fallback policy stays in one place.
func ProposeChain(ctx context.Context, client llm.LLMClient, from, to datatypes.Person) (string, error) {
	temp := oracleTemperature
	params := llm.GenerationParams{
		Temperature: &temp,
		System:      SystemPrompt,
		ForceJSON:   true,
	}

	slog.Info("querying oracle for chain",
		"from", from.Name,
		"from_qid", from.QID,
		"to", to.Name,
		"to_qid", to.QID)

	raw, err := client.Generate(ctx, UserPrompt(from, to), params)
	if err != nil {
		return "", fmt.Errorf("oracle generation failed: %w", err)
	}
	return raw, nil
}
