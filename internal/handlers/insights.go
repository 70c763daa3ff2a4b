package handlers

import (
	"net/http"
	"time"

	"github.com/mindwell-app/mindwell-backend/internal/models"
	"github.com/mindwell-app/mindwell-backend/internal/services"
)

type MoodPoint struct {
	EntryID    string      `json:"entry_id"`
	Date       time.Time   `json:"date"`
	MoodBefore models.Mood `json:"mood_before,omitempty"`
	MoodAfter  models.Mood `json:"mood_after,omitempty"`
	FinalMood  models.Mood `json:"final_mood,omitempty"`
	BeforeVal  int         `json:"before_value"`
	AfterVal   int         `json:"after_value"`
}

type MoodSeriesResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Points  []MoodPoint `json:"points"`
}

// MoodSeries returns the chronological mood trend for the signed-in user.
// The final mood of each entry is the next entry's starting mood when one
// exists, otherwise the entry's own mood-after.
func MoodSeries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entries, err := entryStore.ListEntriesChronological(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries")
		return
	}

	finals := services.FinalMoods(entries)
	points := make([]MoodPoint, len(entries))
	for i, e := range entries {
		points[i] = MoodPoint{
			EntryID:    e.ID,
			Date:       e.CreatedAt,
			MoodBefore: e.MoodBefore,
			MoodAfter:  e.MoodAfter,
			FinalMood:  finals[i],
			BeforeVal:  e.MoodBefore.Value(),
			AfterVal:   e.MoodAfter.Value(),
		}
	}

	writeJSON(w, http.StatusOK, MoodSeriesResponse{Success: true, Points: points})
}

// MoodChart renders the mood trend as a PNG.
func MoodChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entries, err := entryStore.ListEntriesChronological(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries")
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "No entries to chart yet")
		return
	}

	png, err := services.RenderMoodChart(entries)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
