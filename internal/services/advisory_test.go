package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindwell-app/mindwell-backend/internal/models"
)

func TestFetchGuidance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req advisoryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "meditation", req.Type)
		assert.Equal(t, "anxious", req.Mood)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(advisoryResponse{Guidance: "ground yourself with five slow breaths"})
	}))
	defer srv.Close()

	c := NewAdvisoryClient(srv.URL, "secret")
	text, degraded := c.FetchGuidance(context.Background(), models.MoodAnxious)
	assert.False(t, degraded)
	assert.Equal(t, "ground yourself with five slow breaths", text)
}

func TestFetchGuidanceFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewAdvisoryClient(srv.URL, "")
	text, degraded := c.FetchGuidance(context.Background(), models.MoodHappy)
	assert.True(t, degraded)
	assert.Equal(t, FallbackGuidance, text)
}

func TestFetchGuidanceFallsBackOnNetworkError(t *testing.T) {
	// Nothing listens here
	c := NewAdvisoryClient("http://127.0.0.1:1/api/ai", "")
	text, degraded := c.FetchGuidance(context.Background(), models.MoodSad)
	assert.True(t, degraded)
	assert.Equal(t, FallbackGuidance, text)
}

func TestFetchGuidanceFallsBackOnEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(advisoryResponse{})
	}))
	defer srv.Close()

	c := NewAdvisoryClient(srv.URL, "")
	text, degraded := c.FetchGuidance(context.Background(), models.MoodCalm)
	assert.True(t, degraded)
	assert.Equal(t, FallbackGuidance, text)
}

func TestFetchQuoteFallsBackToCannedList(t *testing.T) {
	c := NewAdvisoryClient("http://127.0.0.1:1/api/ai", "")
	quote, degraded := c.FetchQuote(context.Background())
	assert.True(t, degraded)
	assert.Contains(t, FallbackQuotes, quote)
}
