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

	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

// PersonDates returns the birth (P569) and death (P570) bounds for the
// entity. Either or both may be empty; an unknown person yields an
// all-empty Lifespan with no error, since downstream validation treats
// missing bounds as "cannot disprove".
func (c *Client) PersonDates(ctx context.Context, qid string) (datatypes.Lifespan, error) {
	query := fmt.Sprintf(`SELECT ?birth ?death WHERE {
  OPTIONAL { wd:%s wdt:P569 ?birth . }
  OPTIONAL { wd:%s wdt:P570 ?death . }
} LIMIT 1`, qid, qid)

	bindings, err := c.sparqlQuery(ctx, query)
	if err != nil {
		return datatypes.Lifespan{}, fmt.Errorf("lifespan lookup failed: %w", err)
	}

	var span datatypes.Lifespan
	if len(bindings) > 0 {
		if birth, ok := bindings[0]["birth"]; ok {
			span.Birth = birth.Value
		}
		if death, ok := bindings[0]["death"]; ok {
			span.Death = death.Value
		}
	}
	return span, nil
}
