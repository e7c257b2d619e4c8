// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the Custom Search image client against a fake endpoint

package googleimages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), "test-key", "test-cx", 1000,
		option.WithEndpoint(srv.URL))
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), "", "cx", 1)
	assert.Error(t, err)

	_, err = NewClient(context.Background(), "key", "", 1)
	assert.Error(t, err)
}

func TestSearchImages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, `"Tom Cruise" "Anil Kapoor" together photo`, q.Get("q"))
		assert.Equal(t, "test-cx", q.Get("cx"))
		assert.Equal(t, "image", q.Get("searchType"))
		assert.Equal(t, "3", q.Get("num"))
		assert.Equal(t, "active", q.Get("safe"))
		assert.Equal(t, "large", q.Get("imgSize"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"items": [
				{"link": "https://pics.example.net/a.jpg", "title": "Premiere",
				 "image": {"contextLink": "https://news.example.net/premiere"}},
				{"link": "", "title": "broken"},
				{"link": "https://pics.example.net/b.jpg", "title": "Event"}
			]
		}`))
	})

	hits, err := client.SearchImages(context.Background(),
		`"Tom Cruise" "Anil Kapoor" together photo`)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "https://pics.example.net/a.jpg", hits[0].URL)
	assert.Equal(t, "https://news.example.net/premiere", hits[0].ContextURL)
	assert.Equal(t, "https://pics.example.net/b.jpg", hits[1].URL)
}

func TestSearchImages_EmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	hits, err := client.SearchImages(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchImages_CancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the endpoint")
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.SearchImages(ctx, "anything")
	assert.Error(t, err)
}
