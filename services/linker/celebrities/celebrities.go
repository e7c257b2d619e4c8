// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package celebrities seeds the "surprise me" feature: a curated pool
// of widely photographed public figures the oracle reliably knows, from
// which the API can draw a random pair of endpoints.
package celebrities

import (
	"math/rand/v2"

	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

// defaultPool is intentionally biased toward people with large press
// footprints across different industries and regions, so random pairs
// tend to produce interesting multi-hop chains rather than one-hop
// co-stars.
var defaultPool = []datatypes.Person{
	{QID: "Q76", Name: "Barack Obama"},
	{QID: "Q22686", Name: "Donald Trump"},
	{QID: "Q317521", Name: "Elon Musk"},
	{QID: "Q36153", Name: "Beyoncé"},
	{QID: "Q26876", Name: "Taylor Swift"},
	{QID: "Q36844", Name: "Rihanna"},
	{QID: "Q1744", Name: "Madonna"},
	{QID: "Q37079", Name: "Tom Cruise"},
	{QID: "Q38111", Name: "Leonardo DiCaprio"},
	{QID: "Q55800", Name: "Oprah Winfrey"},
	{QID: "Q9570", Name: "Shah Rukh Khan"},
	{QID: "Q11458", Name: "Cristiano Ronaldo"},
	{QID: "Q615", Name: "Lionel Messi"},
	{QID: "Q11459", Name: "Serena Williams"},
	{QID: "Q567", Name: "Angela Merkel"},
	{QID: "Q3052772", Name: "Emmanuel Macron"},
}

// Pool is a set of people to draw random pairs from.
type Pool struct {
	people []datatypes.Person
	intN   func(n int) int
}

// NewPool creates a Pool over people. An empty slice selects the
// built-in default pool.
func NewPool(people []datatypes.Person) *Pool {
	if len(people) == 0 {
		people = defaultPool
	}
	return &Pool{people: people, intN: rand.IntN}
}

// RandomPair returns two distinct people from the pool. A pool of one
// returns that person twice; the handler treats that as a degenerate
// request and the pipeline handles it like any other.
func (p *Pool) RandomPair() (datatypes.Person, datatypes.Person) {
	first := p.people[p.intN(len(p.people))]
	if len(p.people) == 1 {
		return first, first
	}
	for {
		second := p.people[p.intN(len(p.people))]
		if second.QID != first.QID {
			return first, second
		}
	}
}
