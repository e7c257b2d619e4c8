// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the random pair pool

package celebrities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

func TestNewPool_DefaultsWhenEmpty(t *testing.T) {
	p := NewPool(nil)
	assert.NotEmpty(t, p.people)
}

func TestRandomPair_Distinct(t *testing.T) {
	p := NewPool(nil)
	for range 100 {
		a, b := p.RandomPair()
		assert.NotEqual(t, a.QID, b.QID)
	}
}

func TestRandomPair_DeterministicWithStubbedRand(t *testing.T) {
	p := NewPool([]datatypes.Person{
		{QID: "QA", Name: "Alice"},
		{QID: "QB", Name: "Bob"},
		{QID: "QC", Name: "Carol"},
	})
	// First draw lands on index 1, the retry loop then walks 1 -> 2.
	draws := []int{1, 1, 2}
	p.intN = func(int) int {
		n := draws[0]
		draws = draws[1:]
		return n
	}

	a, b := p.RandomPair()
	assert.Equal(t, "QB", a.QID)
	assert.Equal(t, "QC", b.QID)
}

func TestRandomPair_SinglePersonPool(t *testing.T) {
	p := NewPool([]datatypes.Person{{QID: "QA", Name: "Alice"}})
	a, b := p.RandomPair()
	require.Equal(t, "QA", a.QID)
	assert.Equal(t, "QA", b.QID)
}
