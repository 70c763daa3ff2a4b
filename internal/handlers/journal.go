package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindwell-app/mindwell-backend/internal/journal"
	"github.com/mindwell-app/mindwell-backend/internal/models"
	"github.com/mindwell-app/mindwell-backend/internal/services"
)

// Package-level dependencies, wired once from main.
var (
	journalManager *journal.Manager
	entryStore     services.EntryStore
	advisoryClient services.Advisory
	recognizer     services.Recognizer
	exportStorage  *services.ExportStorage
	realtimeHub    *services.RealtimeHub
)

// Init wires the handler package's dependencies. recognizer and storage may
// be nil (dictation / export upload disabled).
func Init(m *journal.Manager, store services.EntryStore, advisory services.Advisory, rec services.Recognizer, storage *services.ExportStorage, hub *services.RealtimeHub) {
	journalManager = m
	entryStore = store
	advisoryClient = advisory
	recognizer = rec
	exportStorage = storage
	realtimeHub = hub
}

// HubNotifier adapts the realtime hub to the journal manager's notifier.
type HubNotifier struct {
	Hub *services.RealtimeHub
}

func (n *HubNotifier) publish(userID string, event services.JournalEvent) {
	n.Hub.Publish(context.Background(), userID, event)
}

func (n *HubNotifier) EntrySaved(userID, entryID string) {
	n.publish(userID, services.JournalEvent{Type: services.EventEntrySaved, EntryID: entryID})
}

func (n *HubNotifier) SaveFailed(userID, entryID, message string) {
	n.publish(userID, services.JournalEvent{Type: services.EventSaveFailed, EntryID: entryID, Message: message})
}

func (n *HubNotifier) AdvisoryReady(userID, entryID string) {
	n.publish(userID, services.JournalEvent{Type: services.EventAdvisoryReady, EntryID: entryID})
}

type MoodRequest struct {
	Mood string `json:"mood"`
}

type ContentRequest struct {
	Content string `json:"content"`
}

type EditorResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Editor  journal.Snapshot `json:"editor"`
}

type EntriesResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Entries []models.JournalEntry `json:"entries"`
	Total   int64                 `json:"total"`
}

// GetEditor returns the current editor session state.
func GetEditor(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	snap := journalManager.Session(userID).Snapshot()
	writeJSON(w, http.StatusOK, EditorResponse{Success: true, Editor: snap})
}

// SelectMoodBefore starts a new draft for the chosen mood.
func SelectMoodBefore(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req MoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mood, valid := models.ParseMood(req.Mood)
	if !valid {
		writeError(w, http.StatusBadRequest, "Unknown mood: "+req.Mood)
		return
	}

	snap, err := journalManager.Session(userID).SelectMoodBefore(mood)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, EditorResponse{Success: true, Message: "New entry started", Editor: snap})
}

// UpdateContent replaces the draft text; the save happens after the debounce.
func UpdateContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap, err := journalManager.Session(userID).SetContent(req.Content)
	if err == journal.ErrNoMoodSelected {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, EditorResponse{Success: true, Editor: snap})
}

// SelectMoodAfter records the reflection mood and saves immediately.
func SelectMoodAfter(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req MoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	mood, valid := models.ParseMood(req.Mood)
	if !valid {
		writeError(w, http.StatusBadRequest, "Unknown mood: "+req.Mood)
		return
	}

	snap, err := journalManager.Session(userID).SetMoodAfter(mood)
	if err == journal.ErrReflectionLocked || err == journal.ErrNoMoodSelected {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, EditorResponse{Success: true, Message: "Entry completed", Editor: snap})
}

// RetrySave re-attempts a failed autosave.
func RetrySave(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	snap, err := journalManager.Session(userID).RetrySave()
	if err == journal.ErrNothingToRetry {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, EditorResponse{Success: true, Message: "Retrying save", Editor: snap})
}

// Dictate transcribes an uploaded audio clip and appends it to the draft.
// Expects multipart/form-data with an "audio" file field.
func Dictate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if recognizer == nil {
		writeError(w, http.StatusServiceUnavailable, "Dictation is not available")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Audio file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read audio")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	transcript, err := recognizer.Transcribe(r.Context(), audio, mimeType)
	if err == services.ErrSpeechUnsupported {
		writeError(w, http.StatusUnsupportedMediaType, "Unsupported audio format")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "Transcription failed")
		return
	}

	snap, err := journalManager.Session(userID).AppendTranscript(transcript)
	if err == journal.ErrNoMoodSelected {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, EditorResponse{Success: true, Message: transcript, Editor: snap})
}

// ListEntries returns the user's saved entries, newest first.
func ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := int64(20)
	skip := int64(0)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			skip = n
		}
	}

	entries, total, err := entryStore.ListEntries(r.Context(), userID, limit, skip)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries")
		return
	}
	writeJSON(w, http.StatusOK, EntriesResponse{Success: true, Entries: entries, Total: total})
}

// GetEntry returns one saved entry.
func GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entryID := chi.URLParam(r, "id")
	entry, err := entryStore.GetEntry(r.Context(), userID, entryID)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "entry": entry})
}

// DeleteEntry removes one saved entry.
func DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	entryID := chi.URLParam(r, "id")
	err := entryStore.DeleteEntry(r.Context(), userID, entryID)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Entry deleted"})
}
