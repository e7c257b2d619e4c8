// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the chain verification pipeline

package assembler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/photopath/services/linker/datatypes"
)

// --- fakes ---

type fakeEntities struct {
	valid       map[string]bool   // qid -> validates
	corrections map[string]string // name -> corrected qid
	err         error
}

func (f *fakeEntities) ValidateQID(_ context.Context, qid, _ string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.valid[qid], nil
}

func (f *fakeEntities) FindCorrectQID(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.corrections[name], nil
}

type fakeLifespans struct {
	spans map[string]datatypes.Lifespan
	err   error
}

func (f *fakeLifespans) PersonDates(_ context.Context, qid string) (datatypes.Lifespan, error) {
	if f.err != nil {
		return datatypes.Lifespan{}, f.err
	}
	return f.spans[qid], nil
}

type fakePhotos struct {
	portraits map[string]string // qid -> url
	meeting   string            // url applied to every meeting photo
}

func (f *fakePhotos) PersonImage(_ context.Context, p datatypes.Person) string {
	return f.portraits[p.QID]
}

func (f *fakePhotos) MeetingPhoto(_ context.Context, _, _ datatypes.Person,
	photo datatypes.MeetingPhoto) datatypes.MeetingPhoto {
	if f.meeting != "" {
		photo.URL = f.meeting
	}
	return photo
}

// allValid builds an assembler whose lookups accept everything and
// find nothing to change.
func allValid(qids ...string) *Assembler {
	valid := make(map[string]bool, len(qids))
	for _, q := range qids {
		valid[q] = true
	}
	return &Assembler{
		Entities:  &fakeEntities{valid: valid},
		Lifespans: &fakeLifespans{},
		Photos:    &fakePhotos{},
	}
}

// --- reordering ---

func TestReorderNodes_EdgeWalkOrder(t *testing.T) {
	chain := &datatypes.Chain{
		Nodes: []datatypes.Person{
			{QID: "QA", Name: "Alice"},
			{QID: "QB", Name: "Bob"},
			{QID: "QC", Name: "Carol"},
		},
		Edges: []datatypes.Edge{
			{From: "QB", To: "QC"},
			{From: "QA", To: "QB"},
		},
	}

	a := allValid("QA", "QB", "QC")
	out := a.Assemble(context.Background(), chain)

	require.Len(t, out.Nodes, 3)
	assert.Equal(t, "QB", out.Nodes[0].QID, "seed is the first edge's origin")
	assert.Equal(t, "QC", out.Nodes[1].QID)
	assert.Equal(t, "QA", out.Nodes[2].QID, "later-referenced node follows")
}

func TestReorderNodes_UnreferencedNodesKeepTailOrder(t *testing.T) {
	chain := &datatypes.Chain{
		Nodes: []datatypes.Person{
			{QID: "QX", Name: "Xavier"},
			{QID: "QA", Name: "Alice"},
			{QID: "QY", Name: "Yann"},
			{QID: "QB", Name: "Bob"},
		},
		Edges: []datatypes.Edge{{From: "QA", To: "QB"}},
	}
	reorderNodes(chain)

	got := make([]string, len(chain.Nodes))
	for i, n := range chain.Nodes {
		got[i] = n.QID
	}
	assert.Equal(t, []string{"QA", "QB", "QX", "QY"}, got)
}

func TestReorderNodes_OriginOnlyNodesJoinAtTail(t *testing.T) {
	chain := &datatypes.Chain{
		Nodes: []datatypes.Person{
			{QID: "QA", Name: "Alice"},
			{QID: "QB", Name: "Bob"},
			{QID: "QC", Name: "Carol"},
			{QID: "QD", Name: "Dave"},
		},
		Edges: []datatypes.Edge{
			{From: "QA", To: "QB"},
			{From: "QC", To: "QD"},
		},
	}
	reorderNodes(chain)

	got := make([]string, len(chain.Nodes))
	for i, n := range chain.Nodes {
		got[i] = n.QID
	}
	// Only the first edge's origin seeds the walk; Carol is never a
	// destination, so she trails Dave despite originating an edge.
	assert.Equal(t, []string{"QA", "QB", "QD", "QC"}, got)
}

// --- entity resolution ---

func TestAssemble_CorrectsInvalidQIDAndPatchesEdges(t *testing.T) {
	chain := &datatypes.Chain{
		Nodes: []datatypes.Person{
			{QID: "QA", Name: "Alice"},
			{QID: "Q_WRONG", Name: "Bob"},
		},
		Edges: []datatypes.Edge{{From: "QA", To: "Q_WRONG"}},
	}

	a := &Assembler{
		Entities: &fakeEntities{
			valid:       map[string]bool{"QA": true},
			corrections: map[string]string{"Bob": "QB"},
		},
		Lifespans: &fakeLifespans{},
		Photos:    &fakePhotos{},
	}
	out := a.Assemble(context.Background(), chain)

	bob := out.NodeByQID("QB")
	require.NotNil(t, bob, "node identifier rewritten")
	assert.Equal(t, "Bob", bob.Name)

	require.Len(t, out.Edges, 1)
	assert.Equal(t, "QB", out.Edges[0].To, "edge endpoint follows the correction")
}

func TestAssemble_UncorrectableQIDLeftAlone(t *testing.T) {
	chain := &datatypes.Chain{
		Nodes: []datatypes.Person{
			{QID: "QA", Name: "Alice"},
			{QID: "Q_WRONG", Name: "Bob"},
		},
		Edges: []datatypes.Edge{{From: "QA", To: "Q_WRONG"}},
	}

	a := &Assembler{
		Entities:  &fakeEntities{valid: map[string]bool{"QA": true}},
		Lifespans: &fakeLifespans{},
		Photos:    &fakePhotos{},
	}
	out := a.Assemble(context.Background(), chain)

	assert.NotNil(t, out.NodeByQID("Q_WRONG"))
	require.Len(t, out.Edges, 1, "edge survives with the original identifier")
}

func TestAssemble_ValidationOutageDegradesGracefully(t *testing.T) {
	chain := &datatypes.Chain{
		Nodes: []datatypes.Person{
			{QID: "QA", Name: "Alice"},
			{QID: "QB", Name: "Bob"},
		},
		Edges: []datatypes.Edge{{From: "QA", To: "QB"}},
	}

	a := &Assembler{
		Entities:  &fakeEntities{err: errors.New("upstream down")},
		Lifespans: &fakeLifespans{err: errors.New("upstream down")},
		Photos:    &fakePhotos{},
	}
	out := a.Assemble(context.Background(), chain)

	require.Len(t, out.Edges, 1)
	assert.Equal(t, "QA", out.Nodes[0].QID)
}

// --- chronological filtering ---

func TestAssemble_DropsImpossibleMeetings(t *testing.T) {
	chain := &datatypes.Chain{
		Nodes: []datatypes.Person{
			{QID: "QA", Name: "Alice"},
			{QID: "QB", Name: "Bob"},
			{QID: "QC", Name: "Carol"},
		},
		Edges: []datatypes.Edge{
			{From: "QA", To: "QB", Photo: datatypes.MeetingPhoto{Date: "1950-06-01"}},
			{From: "QB", To: "QC", Photo: datatypes.MeetingPhoto{Date: "1995-03-10"}},
			{From: "QA", To: "QC", Photo: datatypes.MeetingPhoto{Date: ""}},
		},
	}

	a := allValid("QA", "QB", "QC")
	a.Lifespans = &fakeLifespans{spans: map[string]datatypes.Lifespan{
		"QB": {Birth: "1960-01-01T00:00:00Z"}, // alive in 1995, unborn in 1950
	}}
	out := a.Assemble(context.Background(), chain)

	require.Len(t, out.Edges, 2)
	assert.Equal(t, "1995-03-10", out.Edges[0].Photo.Date)
	assert.Empty(t, out.Edges[1].Photo.Date, "undated claim kept")
}

func TestAssemble_DropsEdgesWithUnknownEndpoints(t *testing.T) {
	chain := &datatypes.Chain{
		Nodes: []datatypes.Person{
			{QID: "QA", Name: "Alice"},
			{QID: "QB", Name: "Bob"},
		},
		Edges: []datatypes.Edge{
			{From: "QA", To: "QB"},
			{From: "QB", To: "Q_GHOST"},
		},
	}

	a := allValid("QA", "QB")
	out := a.Assemble(context.Background(), chain)

	require.Len(t, out.Edges, 1)
	assert.Equal(t, "QB", out.Edges[0].To)
}

// --- photos and scrubbing ---

func TestAssemble_FillsPortraitsAndMeetingPhotos(t *testing.T) {
	chain := &datatypes.Chain{
		Nodes: []datatypes.Person{
			{QID: "QA", Name: "Alice", Img: "https://example.com/fake.jpg"},
			{QID: "QB", Name: "Bob"},
		},
		Edges: []datatypes.Edge{
			{From: "QA", To: "QB", Photo: datatypes.MeetingPhoto{Caption: "gala"}},
		},
	}

	a := allValid("QA", "QB")
	a.Photos = &fakePhotos{
		portraits: map[string]string{"QB": "https://upload.wikimedia.org/Bob.jpg"},
		meeting:   "https://upload.wikimedia.org/AliceBob.jpg",
	}
	out := a.Assemble(context.Background(), chain)

	assert.Empty(t, out.Nodes[0].Img, "placeholder portrait scrubbed")
	assert.Equal(t, "https://upload.wikimedia.org/Bob.jpg", out.Nodes[1].Img)
	assert.Equal(t, "https://upload.wikimedia.org/AliceBob.jpg", out.Edges[0].Photo.URL)
	assert.Equal(t, "gala", out.Edges[0].Photo.Caption)
}

func TestAssemble_AllEdgesDisprovedYieldsEmptyEdges(t *testing.T) {
	chain := &datatypes.Chain{
		Nodes: []datatypes.Person{
			{QID: "QA", Name: "Alice"},
			{QID: "QB", Name: "Bob"},
		},
		Edges: []datatypes.Edge{
			{From: "QA", To: "QB", Photo: datatypes.MeetingPhoto{Date: "1800-01-01"}},
		},
	}

	a := allValid("QA", "QB")
	a.Lifespans = &fakeLifespans{spans: map[string]datatypes.Lifespan{
		"QA": {Birth: "1960-01-01T00:00:00Z"},
	}}
	out := a.Assemble(context.Background(), chain)

	assert.NotNil(t, out.Edges)
	assert.Empty(t, out.Edges)
	assert.Len(t, out.Nodes, 2, "nodes survive even when all edges fall")
}
