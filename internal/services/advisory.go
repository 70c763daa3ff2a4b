package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mindwell-app/mindwell-backend/internal/models"
)

// FallbackGuidance is shown whenever the advisory service cannot produce
// mood-specific guidance. The editor treats it as normal guidance text.
const FallbackGuidance = "Unable to load meditation guidance at this time."

// FallbackQuotes rotates when the advisory service is down.
var FallbackQuotes = []string{
	"The greatest weapon against stress is our ability to choose one thought over another.",
	"You don't have to control your thoughts. You just have to stop letting them control you.",
	"Almost everything will work again if you unplug it for a few minutes, including you.",
	"Self-care is how you take your power back.",
	"Within you, there is a stillness and a sanctuary to which you can retreat at any time.",
}

// Advisory produces meditation guidance for a selected mood, and daily quotes.
// Implementations must not return transport errors for guidance: failures
// degrade to FallbackGuidance so the editor never blocks on the advisory path.
type Advisory interface {
	// FetchGuidance returns guidance text for the mood. degraded is true when
	// the text is the fixed fallback rather than mood-specific guidance.
	FetchGuidance(ctx context.Context, mood models.Mood) (text string, degraded bool)
	// FetchQuote returns an inspirational quote, falling back to a canned list.
	FetchQuote(ctx context.Context) (quote string, degraded bool)
}

// AdvisoryClient talks to the AI proxy endpoint over HTTP.
type AdvisoryClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewAdvisoryClient builds a client with a 15s request timeout. A hung
// advisory call must not hold a journal editor session open indefinitely.
func NewAdvisoryClient(baseURL, apiKey string) *AdvisoryClient {
	return &AdvisoryClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type advisoryRequest struct {
	Type string `json:"type"`
	Mood string `json:"mood,omitempty"`
}

type advisoryResponse struct {
	Guidance string `json:"guidance,omitempty"`
	Quote    string `json:"quote,omitempty"`
}

func (c *AdvisoryClient) post(ctx context.Context, req advisoryRequest) (*advisoryResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advisory service returned status %d", resp.StatusCode)
	}

	var out advisoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchGuidance requests meditation guidance for a mood. Any failure returns
// the fixed fallback text with degraded=true.
func (c *AdvisoryClient) FetchGuidance(ctx context.Context, mood models.Mood) (string, bool) {
	resp, err := c.post(ctx, advisoryRequest{Type: "meditation", Mood: string(mood)})
	if err != nil {
		log.Printf("⚠️ Advisory guidance fetch failed: %v", err)
		return FallbackGuidance, true
	}
	if resp.Guidance == "" {
		log.Printf("⚠️ Advisory returned empty guidance for mood %s", mood)
		return FallbackGuidance, true
	}
	return resp.Guidance, false
}

// FetchQuote requests an inspirational quote, rotating through the canned
// list on failure.
func (c *AdvisoryClient) FetchQuote(ctx context.Context) (string, bool) {
	resp, err := c.post(ctx, advisoryRequest{Type: "quote"})
	if err != nil {
		log.Printf("⚠️ Advisory quote fetch failed: %v", err)
		return FallbackQuotes[time.Now().YearDay()%len(FallbackQuotes)], true
	}
	if resp.Quote == "" {
		return FallbackQuotes[time.Now().YearDay()%len(FallbackQuotes)], true
	}
	return resp.Quote, false
}

const (
	dailyQuoteCacheKey = "daily_quote"
	dailyQuoteTTL      = 24 * time.Hour
)

type cachedQuote struct {
	Quote    string `json:"quote"`
	Degraded bool   `json:"degraded"`
}

// DailyQuote returns the quote of the day, caching a fresh fetch for 24 hours.
// Degraded (fallback) quotes are not cached so the next request retries.
func DailyQuote(ctx context.Context, advisory Advisory) (string, bool) {
	var cached cachedQuote
	if err := CacheGet(ctx, dailyQuoteCacheKey, &cached); err == nil {
		return cached.Quote, cached.Degraded
	}

	quote, degraded := advisory.FetchQuote(ctx)
	if !degraded {
		if err := CacheSet(ctx, dailyQuoteCacheKey, cachedQuote{Quote: quote}, dailyQuoteTTL); err != nil {
			log.Printf("⚠️ Failed to cache daily quote: %v", err)
		}
	}
	return quote, degraded
}
