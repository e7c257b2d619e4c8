// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the Commons file search client

package commons

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&http.Client{Timeout: 5 * time.Second}, srv.URL+"/w/api.php")
}

func TestSearchTogether_OrdersByRelevance(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "search", q.Get("generator"))
		assert.Equal(t, "6", q.Get("gsrnamespace"))
		assert.Equal(t, `"Tom Cruise" "Anil Kapoor"`, q.Get("gsrsearch"))

		w.Header().Set("Content-Type", "application/json")
		// Pages deliberately keyed out of order; index carries relevance.
		_, _ = w.Write([]byte(`{
			"query": {"pages": {
				"222": {
					"title": "File:Second.jpg",
					"index": 2,
					"imageinfo": [{"url": "https://upload.wikimedia.org/Second.jpg",
						"descriptionurl": "https://commons.wikimedia.org/wiki/File:Second.jpg"}]
				},
				"111": {
					"title": "File:First.jpg",
					"index": 1,
					"imageinfo": [{"url": "https://upload.wikimedia.org/First.jpg",
						"descriptionurl": "https://commons.wikimedia.org/wiki/File:First.jpg"}]
				},
				"333": {
					"title": "File:NoInfo.jpg",
					"index": 3,
					"imageinfo": []
				}
			}}
		}`))
	})

	photos, err := client.SearchTogether(context.Background(), "Tom Cruise", "Anil Kapoor")
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, "File:First.jpg", photos[0].Title)
	assert.Equal(t, "https://upload.wikimedia.org/First.jpg", photos[0].URL)
	assert.Equal(t, "File:Second.jpg", photos[1].Title)
}

func TestSearchTogether_NoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query": {"pages": {}}}`))
	})

	photos, err := client.SearchTogether(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Empty(t, photos)
}

func TestSearchTogether_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	_, err := client.SearchTogether(context.Background(), "A", "B")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
