package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mindwell-app/mindwell-backend/internal/models"
	"github.com/mindwell-app/mindwell-backend/internal/services"
)

// AI proxy configuration, wired once from main. The proxy keeps the OpenAI
// key server-side; the frontend only ever talks to /api/ai.
var (
	openAIAPIKey       string
	openAIBaseURL      string
	openAIModel        string
	advisoryServiceKey string
	aiHTTPClient       = &http.Client{Timeout: 20 * time.Second}
)

// InitAIProxy configures the upstream LLM used by the /api/ai endpoint and
// the bearer credential that service-to-service callers present.
func InitAIProxy(apiKey, baseURL, model, serviceKey string) {
	openAIAPIKey = apiKey
	openAIBaseURL = baseURL
	openAIModel = model
	advisoryServiceKey = serviceKey
}

type AIRequest struct {
	Type string `json:"type"` // "meditation" or "quote"
	Mood string `json:"mood,omitempty"`
}

type AIResponse struct {
	Guidance string `json:"guidance,omitempty"`
	Quote    string `json:"quote,omitempty"`
}

// meditationFallbacks are mood-templated guidance used when the upstream
// model is unavailable.
var meditationFallbacks = map[models.Mood]string{
	models.MoodHappy:   "Savor this feeling. Close your eyes, breathe slowly, and notice what brought you joy today so you can return to it later.",
	models.MoodCalm:    "Stay with this stillness. Take five slow breaths, relaxing your shoulders a little more with each exhale.",
	models.MoodNeutral: "Take a moment to check in with yourself. Breathe in for four counts, hold for four, and out for four.",
	models.MoodSad:     "Be gentle with yourself. Place a hand on your chest, breathe slowly, and let the feeling be there without judging it.",
	models.MoodAnxious: "Ground yourself: name five things you can see, four you can touch, three you can hear. Breathe out longer than you breathe in.",
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func completeChat(ctx context.Context, prompt string) (string, error) {
	if openAIAPIKey == "" {
		return "", fmt.Errorf("no upstream API key configured")
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model: openAIModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIBaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+openAIAPIKey)

	resp, err := aiHTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("upstream returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// aiProxyAuthorized accepts either the configured advisory service key or a
// valid user session. The endpoint fronts a metered upstream, so anonymous
// callers are rejected.
func aiProxyAuthorized(r *http.Request) bool {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token != "" && advisoryServiceKey != "" && token == advisoryServiceKey {
		return true
	}
	_, ok := requireAuth(r)
	return ok
}

// AIProxy serves meditation guidance and daily quotes, degrading to canned
// text when the upstream model fails. Unknown request types are a 400.
func AIProxy(w http.ResponseWriter, r *http.Request) {
	if !aiProxyAuthorized(r) {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Type {
	case "meditation":
		mood, valid := models.ParseMood(req.Mood)
		if !valid {
			writeError(w, http.StatusBadRequest, "Unknown mood: "+req.Mood)
			return
		}

		prompt := fmt.Sprintf(
			"Write a short meditation guidance (3-4 sentences) for someone who is feeling %s right now. Be warm and practical, no preamble.",
			mood,
		)
		guidance, err := completeChat(r.Context(), prompt)
		if err != nil {
			log.Printf("⚠️ AI meditation request failed: %v", err)
			guidance = meditationFallbacks[mood]
		}
		writeJSON(w, http.StatusOK, AIResponse{Guidance: guidance})

	case "quote":
		prompt := "Share one short original inspirational quote about mental wellness. Reply with only the quote, no attribution."
		quote, err := completeChat(r.Context(), prompt)
		if err != nil {
			log.Printf("⚠️ AI quote request failed: %v", err)
			quote = services.FallbackQuotes[time.Now().YearDay()%len(services.FallbackQuotes)]
		}
		writeJSON(w, http.StatusOK, AIResponse{Quote: quote})

	default:
		writeError(w, http.StatusBadRequest, "Unknown request type: "+req.Type)
	}
}

// DailyQuote returns the cached quote of the day for the dashboard.
func DailyQuote(w http.ResponseWriter, r *http.Request) {
	_, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	quote, degraded := services.DailyQuote(r.Context(), advisoryClient)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"quote":    quote,
		"degraded": degraded,
	})
}
