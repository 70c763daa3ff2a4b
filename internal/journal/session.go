package journal

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mindwell-app/mindwell-backend/internal/models"
	"github.com/mindwell-app/mindwell-backend/internal/services"
)

// reflectionThreshold is the rune count after which the mood-after picker
// becomes available. Once crossed it stays available for the draft even if
// the user deletes text back below it.
const reflectionThreshold = 50

// Save status of the current draft, surfaced to the editor UI.
const (
	StatusIdle    = "idle"    // nothing pending
	StatusPending = "pending" // debounce timer armed, nothing written yet
	StatusSaving  = "saving"  // a write is in flight
	StatusSaved   = "saved"   // last save succeeded
	StatusFailed  = "failed"  // last save failed; retry available
)

// Guidance fetch state for the selected mood.
const (
	GuidanceIdle    = "idle"
	GuidanceLoading = "loading"
	GuidanceReady   = "ready"
)

var (
	// ErrNoMoodSelected means the editor is still locked: content edits are
	// rejected until a mood-before is picked.
	ErrNoMoodSelected = errors.New("select a mood before writing")
	// ErrReflectionLocked means the mood-after picker has not been unlocked yet.
	ErrReflectionLocked = errors.New("keep writing to unlock the reflection mood")
	// ErrNothingToRetry means there is no failed save to retry.
	ErrNothingToRetry = errors.New("no failed save to retry")
)

// Notifier receives editor lifecycle events for realtime fan-out.
type Notifier interface {
	EntrySaved(userID, entryID string)
	SaveFailed(userID, entryID, message string)
	AdvisoryReady(userID, entryID string)
}

// Manager owns one EditorSession per signed-in user.
type Manager struct {
	store    services.EntryStore
	advisory services.Advisory
	notifier Notifier
	interval time.Duration

	mu       sync.Mutex
	sessions map[string]*EditorSession
}

// NewManager builds the editor session manager. interval is the autosave
// debounce window. notifier may be nil.
func NewManager(store services.EntryStore, advisory services.Advisory, notifier Notifier, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Manager{
		store:    store,
		advisory: advisory,
		notifier: notifier,
		interval: interval,
		sessions: make(map[string]*EditorSession),
	}
}

// Session returns the user's editor session, creating it on first use.
func (m *Manager) Session(userID string) *EditorSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		s = &EditorSession{
			userID:   userID,
			manager:  m,
			status:   StatusIdle,
			guidance: GuidanceIdle,
		}
		m.sessions[userID] = s
	}
	return s
}

// Drop discards a user's session without saving, e.g. on signout.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.mu.Lock()
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.mu.Unlock()
		delete(m.sessions, userID)
	}
}

// EditorSession is the server-side state of one user's journal editor: the
// current draft, its mood bracket, the debounced autosave timer, and the
// advisory guidance for the selected mood.
type EditorSession struct {
	userID  string
	manager *Manager

	mu sync.Mutex

	entryID    string
	content    string
	moodBefore models.Mood
	moodAfter  models.Mood
	createdAt  time.Time

	// reflectionOpen latches once content crosses the threshold.
	reflectionOpen bool

	status      string
	lastSavedAt time.Time
	saveSeq     uint64 // increments per snapshot; stale completions are ignored
	flightSeq   uint64 // seq of the save currently in flight, 0 if none

	timer *time.Timer

	guidance         string
	guidanceText     string
	guidanceDegraded bool
	guidanceSeq      uint64
}

// Snapshot is the editor state returned to clients.
type Snapshot struct {
	EntryID          string      `json:"entry_id,omitempty"`
	Content          string      `json:"content"`
	MoodBefore       models.Mood `json:"mood_before,omitempty"`
	MoodAfter        models.Mood `json:"mood_after,omitempty"`
	ReflectionOpen   bool        `json:"reflection_open"`
	Status           string      `json:"status"`
	LastSavedAt      *time.Time  `json:"last_saved_at,omitempty"`
	Guidance         string      `json:"guidance_status"`
	GuidanceText     string      `json:"guidance,omitempty"`
	GuidanceDegraded bool        `json:"guidance_degraded,omitempty"`
}

// Snapshot returns a copy of the current editor state.
func (s *EditorSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		EntryID:          s.entryID,
		Content:          s.content,
		MoodBefore:       s.moodBefore,
		MoodAfter:        s.moodAfter,
		ReflectionOpen:   s.reflectionOpen,
		Status:           s.status,
		Guidance:         s.guidance,
		GuidanceText:     s.guidanceText,
		GuidanceDegraded: s.guidanceDegraded,
	}
	if !s.lastSavedAt.IsZero() {
		t := s.lastSavedAt
		snap.LastSavedAt = &t
	}
	return snap
}

// SelectMoodBefore starts a fresh draft bracketed by the given mood. Any
// previous unsaved draft content is discarded, matching the editor's
// "new entry" behavior, and a guidance fetch for the mood begins.
func (s *EditorSession) SelectMoodBefore(mood models.Mood) (Snapshot, error) {
	if !mood.Valid() {
		return Snapshot{}, errors.New("unknown mood: " + string(mood))
	}

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.entryID = uuid.New().String()
	s.content = ""
	s.moodBefore = mood
	s.moodAfter = ""
	s.createdAt = time.Now().UTC()
	s.reflectionOpen = false
	s.status = StatusIdle
	s.lastSavedAt = time.Time{}
	s.saveSeq++ // orphan any in-flight save of the previous draft
	s.guidance = GuidanceLoading
	s.guidanceText = ""
	s.guidanceDegraded = false
	s.guidanceSeq++
	gseq := s.guidanceSeq
	entryID := s.entryID
	s.mu.Unlock()

	go s.fetchGuidance(mood, gseq, entryID)

	return s.Snapshot(), nil
}

func (s *EditorSession) fetchGuidance(mood models.Mood, seq uint64, entryID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	text, degraded := s.manager.advisory.FetchGuidance(ctx, mood)

	s.mu.Lock()
	if s.guidanceSeq != seq {
		// User picked another mood meanwhile
		s.mu.Unlock()
		return
	}
	s.guidance = GuidanceReady
	s.guidanceText = text
	s.guidanceDegraded = degraded
	s.mu.Unlock()

	if s.manager.notifier != nil {
		s.manager.notifier.AdvisoryReady(s.userID, entryID)
	}
}

// SetContent replaces the draft text and (re)arms the autosave timer. Editing
// requires a mood-before; empty drafts are never persisted.
func (s *EditorSession) SetContent(content string) (Snapshot, error) {
	s.mu.Lock()
	if s.moodBefore == "" {
		s.mu.Unlock()
		return Snapshot{}, ErrNoMoodSelected
	}
	s.content = content
	if utf8.RuneCountInString(content) > reflectionThreshold {
		s.reflectionOpen = true
	}
	s.scheduleSaveLocked()
	s.mu.Unlock()

	return s.Snapshot(), nil
}

// AppendTranscript appends dictated text to the draft, space-separated, and
// behaves like a content edit for autosave purposes.
func (s *EditorSession) AppendTranscript(transcript string) (Snapshot, error) {
	if transcript == "" {
		return s.Snapshot(), nil
	}

	s.mu.Lock()
	if s.moodBefore == "" {
		s.mu.Unlock()
		return Snapshot{}, ErrNoMoodSelected
	}
	if s.content == "" {
		s.content = transcript
	} else {
		s.content = s.content + " " + transcript
	}
	if utf8.RuneCountInString(s.content) > reflectionThreshold {
		s.reflectionOpen = true
	}
	s.scheduleSaveLocked()
	s.mu.Unlock()

	return s.Snapshot(), nil
}

// SetMoodAfter records the reflection mood and saves immediately, skipping
// the debounce.
func (s *EditorSession) SetMoodAfter(mood models.Mood) (Snapshot, error) {
	if !mood.Valid() {
		return Snapshot{}, errors.New("unknown mood: " + string(mood))
	}

	s.mu.Lock()
	if s.moodBefore == "" {
		s.mu.Unlock()
		return Snapshot{}, ErrNoMoodSelected
	}
	if !s.reflectionOpen {
		s.mu.Unlock()
		return Snapshot{}, ErrReflectionLocked
	}
	s.moodAfter = mood
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.flush()
	return s.Snapshot(), nil
}

// RetrySave re-attempts a failed save immediately.
func (s *EditorSession) RetrySave() (Snapshot, error) {
	s.mu.Lock()
	if s.status != StatusFailed {
		s.mu.Unlock()
		return Snapshot{}, ErrNothingToRetry
	}
	s.mu.Unlock()

	s.flush()
	return s.Snapshot(), nil
}

// Flush saves any pending draft now. Used when the user signs out or the
// WebSocket disconnects.
func (s *EditorSession) Flush() {
	s.mu.Lock()
	pending := s.timer != nil || s.status == StatusFailed
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	if pending {
		s.flush()
	}
}

// scheduleSaveLocked rearms the debounce timer. Caller holds s.mu.
func (s *EditorSession) scheduleSaveLocked() {
	if s.content == "" {
		// An emptied draft cancels the pending save
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.status = StatusIdle
		return
	}

	s.status = StatusPending
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.manager.interval, func() {
		s.mu.Lock()
		s.timer = nil
		s.mu.Unlock()
		s.flush()
	})
}

// flush snapshots the draft and writes it to the store. Completions that
// belong to a superseded snapshot are discarded so an old save can never
// overwrite the status of a newer one.
func (s *EditorSession) flush() {
	s.mu.Lock()
	if s.content == "" || s.moodBefore == "" {
		s.status = StatusIdle
		s.mu.Unlock()
		return
	}
	s.saveSeq++
	seq := s.saveSeq
	s.flightSeq = seq
	s.status = StatusSaving
	entry := &models.JournalEntry{
		ID:         s.entryID,
		UserID:     s.userID,
		Content:    s.content,
		MoodBefore: s.moodBefore,
		MoodAfter:  s.moodAfter,
		CreatedAt:  s.createdAt,
		UpdatedAt:  time.Now().UTC(),
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.manager.store.UpsertEntry(ctx, entry)

	s.mu.Lock()
	if s.saveSeq != seq {
		// A newer edit or draft superseded this save
		s.mu.Unlock()
		return
	}
	s.flightSeq = 0
	if err != nil {
		s.status = StatusFailed
	} else {
		s.status = StatusSaved
		s.lastSavedAt = entry.UpdatedAt
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("⚠️ Autosave failed for user %s entry %s: %v", s.userID, entry.ID, err)
		if s.manager.notifier != nil {
			s.manager.notifier.SaveFailed(s.userID, entry.ID, "Could not save your entry. Tap retry.")
		}
		return
	}
	if s.manager.notifier != nil {
		s.manager.notifier.EntrySaved(s.userID, entry.ID)
	}
}
