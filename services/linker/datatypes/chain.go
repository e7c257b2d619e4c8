// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures for the linker service.
//
// This file contains the chain types shared between the oracle response
// schema, the assembler pipeline, and the /v1/link API surface. Field
// names on the wire (qid, name, img, from, to, photo) match the schema
// the oracle is instructed to emit, so the raw extracted JSON decodes
// directly into these types.
package datatypes

import (
	"github.com/go-playground/validator/v10"
)

// =============================================================================
// Validation
// =============================================================================

// linkValidate is the validator instance for linker datatypes.
var linkValidate *validator.Validate

func init() {
	linkValidate = validator.New()
	_ = linkValidate.RegisterValidation("qid", validateQIDFormat)
}

// validateQIDFormat accepts Wikidata-style identifiers: a leading 'Q'
// followed by at least one character. The seeded demonstration chain uses
// mnemonic identifiers (e.g. "QTC"), so digits are not required.
func validateQIDFormat(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return len(id) >= 2 && id[0] == 'Q'
}

// =============================================================================
// Chain Types
// =============================================================================

// Person is one node in a connection chain.
//
// # Fields
//
//   - QID: Wikidata identifier for the person. Issued by the knowledge
//     base; after the entity-resolution pass it is guaranteed to denote
//     the entity named by Name (or left as-is when no confident
//     correction exists).
//   - Name: display name. Also used as a weak validation signal when
//     checking that a QID really denotes this person.
//   - Img: URL of a representative photo. Empty until resolved.
type Person struct {
	QID  string `json:"qid" validate:"required,qid"`
	Name string `json:"name" validate:"required"`
	Img  string `json:"img"`
}

// MeetingPhoto carries the evidence for one claimed meeting.
//
// Date is loosely formatted: "YYYY-MM-DD", a bare year, or empty.
// Location, License and Source are provenance metadata passed through
// unvalidated.
type MeetingPhoto struct {
	URL        string `json:"url"`
	Caption    string `json:"caption"`
	Date       string `json:"date"`
	Location   string `json:"location"`
	License    string `json:"license"`
	Source     string `json:"source"`
	Confidence string `json:"confidence,omitempty"`
}

// Edge is one claimed photographed meeting between two chain nodes.
// From and To reference Person.QID values in the same chain.
type Edge struct {
	From  string       `json:"from"`
	To    string       `json:"to"`
	Photo MeetingPhoto `json:"photo"`
}

// Chain is the ordered result of one link request.
//
// Nodes are ordered start to end after the reordering pass. Edge i
// connects Nodes[i] to Nodes[i+1] (best effort; the oracle may return
// graphs that do not linearize cleanly). An empty Edges slice is a
// valid result meaning "no verifiable connection".
//
// A Chain lives for one request/response cycle and is never persisted.
type Chain struct {
	Nodes []Person `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// NodeByQID returns a pointer to the node with the given identifier,
// or nil if the chain has no such node.
func (c *Chain) NodeByQID(qid string) *Person {
	for i := range c.Nodes {
		if c.Nodes[i].QID == qid {
			return &c.Nodes[i]
		}
	}
	return nil
}

// Lifespan holds a person's birth/death bounds as loosely formatted date
// strings (full ISO timestamp, date, year, or empty). An empty Death
// means presumed alive or unknown, not an error.
type Lifespan struct {
	Birth string `json:"birth,omitempty"`
	Death string `json:"death,omitempty"`
}

// Known reports whether either bound was resolved.
func (l Lifespan) Known() bool {
	return l.Birth != "" || l.Death != ""
}

// =============================================================================
// Autocomplete Types
// =============================================================================

// Suggestion is one autocomplete result from entity search.
type Suggestion struct {
	QID         string `json:"qid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Img         string `json:"img,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// =============================================================================
// API Request Types
// =============================================================================

// LinkRequest is the body of POST /v1/link. Both endpoints must carry a
// QID and a name; images are optional and re-resolved server side.
type LinkRequest struct {
	From Person `json:"from" binding:"required"`
	To   Person `json:"to" binding:"required"`
}

// Validate checks structural validity of a link request beyond what gin
// binding enforces (nested Person fields and QID shape).
func (r *LinkRequest) Validate() error {
	return linkValidate.Struct(r)
}
