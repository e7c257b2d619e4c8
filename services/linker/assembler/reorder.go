// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assembler

import (
	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

// reorderNodes rewrites chain.Nodes into edge-walk order.
//
// The oracle lists nodes in no guaranteed order, but its edge list
// encodes the intended path. The seed is the first edge's origin; after
// that, walking the edges front to back, every node appears where an
// edge first names it as a destination. Nodes only ever named as a
// later edge's origin, like nodes no edge references, keep their
// original relative order at the tail.
//
// Edge endpoints that name no known node are ignored here; the edge
// filter deals with them later.
func reorderNodes(chain *datatypes.Chain) {
	if len(chain.Edges) == 0 || len(chain.Nodes) < 2 {
		return
	}

	seen := make(map[string]bool, len(chain.Nodes))
	ordered := make([]datatypes.Person, 0, len(chain.Nodes))

	take := func(qid string) {
		if seen[qid] {
			return
		}
		if node := chain.NodeByQID(qid); node != nil {
			seen[qid] = true
			ordered = append(ordered, *node)
		}
	}

	take(chain.Edges[0].From)
	for _, edge := range chain.Edges {
		take(edge.To)
	}
	for _, node := range chain.Nodes {
		if !seen[node.QID] {
			ordered = append(ordered, node)
		}
	}

	chain.Nodes = ordered
}
