// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the link handler

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/photopath/services/linker/assembler"
	"github.com/AleutianAI/photopath/services/linker/datatypes"
	"github.com/AleutianAI/photopath/services/llm"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeLLM struct {
	reply string
	err   error
}

func (f *fakeLLM) Generate(_ context.Context, _ string, _ llm.GenerationParams) (string, error) {
	return f.reply, f.err
}

type acceptAllEntities struct{}

func (acceptAllEntities) ValidateQID(_ context.Context, _, _ string) (bool, error) {
	return true, nil
}
func (acceptAllEntities) FindCorrectQID(_ context.Context, _ string) (string, error) {
	return "", nil
}

type noLifespans struct{}

func (noLifespans) PersonDates(_ context.Context, _ string) (datatypes.Lifespan, error) {
	return datatypes.Lifespan{}, nil
}

type noPhotos struct{}

func (noPhotos) PersonImage(_ context.Context, _ datatypes.Person) string { return "" }
func (noPhotos) MeetingPhoto(_ context.Context, _, _ datatypes.Person,
	p datatypes.MeetingPhoto) datatypes.MeetingPhoto {
	return p
}

func passthroughAssembler() *assembler.Assembler {
	return &assembler.Assembler{
		Entities:  acceptAllEntities{},
		Lifespans: noLifespans{},
		Photos:    noPhotos{},
	}
}

// =============================================================================
// Helpers
// =============================================================================

func postLink(t *testing.T, client llm.LLMClient, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/link", HandleLink(client, passthroughAssembler(), "test"))

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/link", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func validRequest() datatypes.LinkRequest {
	return datatypes.LinkRequest{
		From: datatypes.Person{QID: "QA", Name: "Alice"},
		To:   datatypes.Person{QID: "QB", Name: "Bob"},
	}
}

func decodeChain(t *testing.T, w *httptest.ResponseRecorder) datatypes.Chain {
	t.Helper()
	var chain datatypes.Chain
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chain))
	return chain
}

// =============================================================================
// HandleLink Tests
// =============================================================================

func TestHandleLink_InvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/link", HandleLink(&fakeLLM{}, passthroughAssembler(), "test"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/link", bytes.NewReader([]byte("{not json")))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleLink_RejectsBadQID(t *testing.T) {
	req := validRequest()
	req.From.QID = "not-a-qid"
	w := postLink(t, &fakeLLM{}, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleLink_NoOracleServesDemoChain(t *testing.T) {
	w := postLink(t, nil, validRequest())
	require.Equal(t, http.StatusOK, w.Code)

	chain := decodeChain(t, w)
	require.NotEmpty(t, chain.Nodes)
	assert.Equal(t, "Tom Cruise", chain.Nodes[0].Name)
	assert.Len(t, chain.Edges, len(chain.Nodes)-1)
}

func TestHandleLink_OracleFailureFallsBack(t *testing.T) {
	w := postLink(t, &fakeLLM{err: errors.New("model offline")}, validRequest())
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeChain(t, w).Nodes)
}

func TestHandleLink_MalformedReplyFallsBack(t *testing.T) {
	w := postLink(t, &fakeLLM{reply: "I cannot help with that."}, validRequest())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tom Cruise", decodeChain(t, w).Nodes[0].Name)
}

func TestHandleLink_VerifiesOracleChain(t *testing.T) {
	reply := `Here you go:
	{"nodes": [
		{"qid": "QB2", "name": "Bob"},
		{"qid": "QA2", "name": "Alice"}
	 ],
	 "edges": [
		{"from": "QA2", "to": "QB2",
		 "photo": {"url": "", "caption": "conference", "date": "2019-05-01"}}
	 ]}`

	w := postLink(t, &fakeLLM{reply: reply}, validRequest())
	require.Equal(t, http.StatusOK, w.Code)

	chain := decodeChain(t, w)
	require.Len(t, chain.Nodes, 2)
	assert.Equal(t, "Alice", chain.Nodes[0].Name, "nodes reordered to edge-walk order")
	require.Len(t, chain.Edges, 1)
	assert.Equal(t, "conference", chain.Edges[0].Photo.Caption)
}

func TestHandleLink_NoVerifiableConnectionStillOK(t *testing.T) {
	reply := `{"nodes": [{"qid": "QA2", "name": "Alice"}, {"qid": "QB2", "name": "Bob"}],
	           "edges": []}`
	w := postLink(t, &fakeLLM{reply: reply}, validRequest())
	require.Equal(t, http.StatusOK, w.Code)

	chain := decodeChain(t, w)
	assert.Len(t, chain.Nodes, 2)
	assert.Empty(t, chain.Edges)
}
