package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindwell-app/mindwell-backend/internal/models"
)

const testServiceKey = "advisory-test-key"

func postAI(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testServiceKey)
	w := httptest.NewRecorder()
	AIProxy(w, req)
	return w
}

func TestAIProxyMeditation(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "anxious")

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Close your eyes and breathe."}},
			},
		})
	}))
	defer upstream.Close()
	InitAIProxy("test-key", upstream.URL, "gpt-3.5-turbo", testServiceKey)

	w := postAI(t, `{"type":"meditation","mood":"anxious"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Close your eyes and breathe.", resp.Guidance)
}

func TestAIProxyMeditationFallsBackWhenUpstreamFails(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer upstream.Close()
	InitAIProxy("test-key", upstream.URL, "gpt-3.5-turbo", testServiceKey)

	w := postAI(t, `{"type":"meditation","mood":"sad"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, meditationFallbacks[models.MoodSad], resp.Guidance)
}

func TestAIProxyMeditationFallsBackWithoutKey(t *testing.T) {
	InitAIProxy("", "https://api.openai.com/v1", "gpt-3.5-turbo", testServiceKey)

	w := postAI(t, `{"type":"meditation","mood":"happy"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, meditationFallbacks[models.MoodHappy], resp.Guidance)
}

func TestAIProxyQuoteFallsBack(t *testing.T) {
	InitAIProxy("", "https://api.openai.com/v1", "gpt-3.5-turbo", testServiceKey)

	w := postAI(t, `{"type":"quote"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Quote)
}

func TestAIProxyRejectsAnonymousCallers(t *testing.T) {
	InitAIProxy("test-key", "https://api.openai.com/v1", "gpt-3.5-turbo", testServiceKey)

	req := httptest.NewRequest(http.MethodPost, "/api/ai", strings.NewReader(`{"type":"quote"}`))
	w := httptest.NewRecorder()
	AIProxy(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAIProxyRejectsUnknownType(t *testing.T) {
	InitAIProxy("test-key", "https://api.openai.com/v1", "gpt-3.5-turbo", testServiceKey)

	w := postAI(t, `{"type":"horoscope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIProxyRejectsUnknownMood(t *testing.T) {
	InitAIProxy("test-key", "https://api.openai.com/v1", "gpt-3.5-turbo", testServiceKey)

	w := postAI(t, `{"type":"meditation","mood":"furious"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIProxyRejectsBadBody(t *testing.T) {
	InitAIProxy("test-key", "https://api.openai.com/v1", "gpt-3.5-turbo", testServiceKey)

	w := postAI(t, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
