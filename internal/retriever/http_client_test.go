package retriever

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/search", r.URL.Path)

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "візитки", req.Query)
		assert.Equal(t, "uk", req.Language)
		assert.Equal(t, 5, req.TopK)

		json.NewEncoder(w).Encode(searchResponse{Results: []Candidate{
			{EntryID: "визитки_base", Similarity: 0.9},
			{EntryID: "флаеры_base", Similarity: 0.2},
		}})
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPConfig{Endpoint: srv.URL, MinSimilarity: 0.5})

	candidates, err := client.Search(context.Background(), "візитки", "uk", 5)
	require.NoError(t, err)

	// The 0.2 hit falls below the similarity floor.
	require.Len(t, candidates, 1)
	assert.Equal(t, "визитки_base", candidates[0].EntryID)
}

func TestHTTPClient_Search_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPConfig{Endpoint: srv.URL})

	_, err := client.Search(context.Background(), "візитки", "uk", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Search_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPConfig{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})

	_, err := client.Search(context.Background(), "візитки", "uk", 5)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Search_ConnectionRefused(t *testing.T) {
	client := NewHTTPClient(HTTPConfig{Endpoint: "http://127.0.0.1:1"})

	_, err := client.Search(context.Background(), "візитки", "uk", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Search_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewHTTPClient(HTTPConfig{Endpoint: srv.URL})

	_, err := client.Search(context.Background(), "візитки", "uk", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}
