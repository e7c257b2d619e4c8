// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assembler turns a raw oracle chain into a verified one.
//
// # Description
//
// The assembler runs the verification pipeline over an extracted chain:
//
//  1. Reorder nodes into edge-walk order.
//  2. Resolve entities: validate each node's identifier against its
//     name, correcting it from the knowledge base when it fails.
//  3. Fetch lifespans and drop edges whose claimed meeting date falls
//     outside either participant's lifetime.
//  4. Drop edges referencing nodes the chain does not contain.
//  5. Resolve portraits and meeting photos.
//
// The pipeline is tolerant by construction: every external lookup may
// fail without failing the request. A lookup failure degrades the
// result (an uncorrected identifier, a missing image, an unverified
// date) rather than aborting it.
package assembler

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/photopath/services/linker/chrono"
	"github.com/AleutianAI/photopath/services/linker/datatypes"
	"github.com/AleutianAI/photopath/services/linker/observability"
)

// maxConcurrentLookups bounds parallel upstream calls per pipeline
// stage, keeping one request from monopolizing Wikimedia goodwill.
const maxConcurrentLookups = 4

// EntityResolver validates and corrects node identifiers.
type EntityResolver interface {
	ValidateQID(ctx context.Context, qid, name string) (bool, error)
	FindCorrectQID(ctx context.Context, name string) (string, error)
}

// LifespanProvider fetches birth/death bounds for an entity.
type LifespanProvider interface {
	PersonDates(ctx context.Context, qid string) (datatypes.Lifespan, error)
}

// PhotoResolver fills portraits and meeting photos.
type PhotoResolver interface {
	PersonImage(ctx context.Context, p datatypes.Person) string
	MeetingPhoto(ctx context.Context, a, b datatypes.Person, photo datatypes.MeetingPhoto) datatypes.MeetingPhoto
}

// Assembler runs the verification pipeline. All fields are required.
type Assembler struct {
	Entities  EntityResolver
	Lifespans LifespanProvider
	Photos    PhotoResolver
}

// Assemble verifies chain in place and returns it.
//
// The chain must come out of a successful extraction (non-nil Nodes and
// Edges). Assemble never returns an error: upstream failures degrade
// individual fields, and a chain whose every edge was disproved comes
// back with Edges empty, which is a valid "no verifiable connection"
// result.
func (a *Assembler) Assemble(ctx context.Context, chain *datatypes.Chain) *datatypes.Chain {
	reorderNodes(chain)
	a.resolveEntities(ctx, chain)

	lifespans := a.fetchLifespans(ctx, chain)
	a.filterEdges(chain, lifespans)

	a.resolvePhotos(ctx, chain)
	scrubPlaceholders(chain)
	return chain
}

// resolveEntities validates every node identifier concurrently and
// rewrites the ones that fail, then patches edge endpoints so they keep
// referencing the corrected nodes. Edge patching waits for the whole
// validation pass; corrections land under a lock.
func (a *Assembler) resolveEntities(ctx context.Context, chain *datatypes.Chain) {
	var mu sync.Mutex
	corrections := make(map[string]string)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i := range chain.Nodes {
		node := &chain.Nodes[i]
		g.Go(func() error {
			valid, err := a.Entities.ValidateQID(gctx, node.QID, node.Name)
			if err != nil {
				slog.Warn("identifier validation unavailable",
					"qid", node.QID, "name", node.Name, "error", err.Error())
				return nil
			}
			if valid {
				return nil
			}

			corrected, err := a.Entities.FindCorrectQID(gctx, node.Name)
			if err != nil || corrected == "" || corrected == node.QID {
				slog.Warn("no correction found for invalid identifier",
					"qid", node.QID, "name", node.Name)
				return nil
			}

			slog.Info("corrected node identifier",
				"name", node.Name, "old", node.QID, "new", corrected)
			observability.QIDCorrection()

			mu.Lock()
			corrections[node.QID] = corrected
			mu.Unlock()
			node.QID = corrected
			return nil
		})
	}
	_ = g.Wait()

	if len(corrections) == 0 {
		return
	}
	for i := range chain.Edges {
		if corrected, ok := corrections[chain.Edges[i].From]; ok {
			chain.Edges[i].From = corrected
		}
		if corrected, ok := corrections[chain.Edges[i].To]; ok {
			chain.Edges[i].To = corrected
		}
	}
}

// fetchLifespans loads birth/death bounds for every node concurrently.
// A failed lookup yields an empty Lifespan, which constrains nothing.
func (a *Assembler) fetchLifespans(ctx context.Context, chain *datatypes.Chain) map[string]datatypes.Lifespan {
	var mu sync.Mutex
	lifespans := make(map[string]datatypes.Lifespan, len(chain.Nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i := range chain.Nodes {
		node := chain.Nodes[i]
		g.Go(func() error {
			span, err := a.Lifespans.PersonDates(gctx, node.QID)
			if err != nil {
				slog.Warn("lifespan lookup failed",
					"qid", node.QID, "name", node.Name, "error", err.Error())
				return nil
			}
			if !span.Known() {
				slog.Debug("no lifespan data, meeting dates unconstrained",
					"qid", node.QID, "name", node.Name)
			}
			mu.Lock()
			lifespans[node.QID] = span
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return lifespans
}

// filterEdges removes edges whose endpoints are unknown or whose
// claimed meeting date is chronologically impossible. Removal is
// silent toward the client; the log and metrics carry the reasons.
func (a *Assembler) filterEdges(chain *datatypes.Chain, lifespans map[string]datatypes.Lifespan) {
	kept := chain.Edges[:0]
	for _, edge := range chain.Edges {
		from := chain.NodeByQID(edge.From)
		to := chain.NodeByQID(edge.To)
		if from == nil || to == nil {
			slog.Info("dropping edge with unknown endpoint",
				"from", edge.From, "to", edge.To)
			observability.EdgeDropped("unreferenced_node")
			continue
		}
		if !chrono.ValidateMeeting(edge.Photo.Date,
			lifespans[edge.From], lifespans[edge.To], from.Name, to.Name) {
			observability.EdgeDropped("impossible_date")
			continue
		}
		kept = append(kept, edge)
	}
	chain.Edges = kept
}

// resolvePhotos fills every node portrait and edge photo concurrently.
func (a *Assembler) resolvePhotos(ctx context.Context, chain *datatypes.Chain) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i := range chain.Nodes {
		node := &chain.Nodes[i]
		g.Go(func() error {
			if img := a.Photos.PersonImage(gctx, *node); img != "" {
				node.Img = img
			}
			return nil
		})
	}
	_ = g.Wait()

	// Edge photos run after portraits so meeting search never competes
	// with the cheaper portrait lookups for the concurrency budget.
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)

	for i := range chain.Edges {
		edge := &chain.Edges[i]
		g.Go(func() error {
			from := chain.NodeByQID(edge.From)
			to := chain.NodeByQID(edge.To)
			if from == nil || to == nil {
				return nil
			}
			edge.Photo = a.Photos.MeetingPhoto(gctx, *from, *to, edge.Photo)
			return nil
		})
	}
	_ = g.Wait()
}

// scrubPlaceholders clears any URL still pointing at a placeholder
// domain the oracle is known to hallucinate.
func scrubPlaceholders(chain *datatypes.Chain) {
	for i := range chain.Nodes {
		if strings.Contains(chain.Nodes[i].Img, "example.com") {
			chain.Nodes[i].Img = ""
		}
	}
	for i := range chain.Edges {
		if strings.Contains(chain.Edges[i].Photo.URL, "example.com") {
			chain.Edges[i].Photo.URL = ""
		}
	}
}
