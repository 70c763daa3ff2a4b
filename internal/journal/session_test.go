package journal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindwell-app/mindwell-backend/internal/models"
	"github.com/mindwell-app/mindwell-backend/internal/services"
)

// fakeStore records upserts and can be told to fail.
type fakeStore struct {
	mu     sync.Mutex
	saved  []models.JournalEntry
	failed bool
}

func (f *fakeStore) UpsertEntry(ctx context.Context, entry *models.JournalEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return errors.New("mongo down")
	}
	f.saved = append(f.saved, *entry)
	return nil
}

func (f *fakeStore) GetEntry(ctx context.Context, userID, entryID string) (*models.JournalEntry, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) ListEntries(ctx context.Context, userID string, limit, skip int64) ([]models.JournalEntry, int64, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeStore) ListEntriesChronological(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) DeleteEntry(ctx context.Context, userID, entryID string) error {
	return errors.New("not implemented")
}

func (f *fakeStore) setFailed(v bool) {
	f.mu.Lock()
	f.failed = v
	f.mu.Unlock()
}

func (f *fakeStore) all() []models.JournalEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.JournalEntry, len(f.saved))
	copy(out, f.saved)
	return out
}

// fakeAdvisory returns fixed guidance instantly.
type fakeAdvisory struct{}

func (fakeAdvisory) FetchGuidance(ctx context.Context, mood models.Mood) (string, bool) {
	return "breathe in, breathe out (" + string(mood) + ")", false
}

func (fakeAdvisory) FetchQuote(ctx context.Context) (string, bool) {
	return "one day at a time", false
}

const testInterval = 30 * time.Millisecond

func newTestManager(store services.EntryStore) *Manager {
	return NewManager(store, fakeAdvisory{}, nil, testInterval)
}

func TestContentRequiresMoodBefore(t *testing.T) {
	m := newTestManager(&fakeStore{})
	s := m.Session("user-1")

	_, err := s.SetContent("hello")
	assert.ErrorIs(t, err, ErrNoMoodSelected)

	_, err = s.AppendTranscript("spoken words")
	assert.ErrorIs(t, err, ErrNoMoodSelected)
}

func TestAutosaveDebouncesToOneWrite(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)
	s := m.Session("user-1")

	_, err := s.SelectMoodBefore(models.MoodCalm)
	require.NoError(t, err)

	// Three quick edits within the debounce window
	_, err = s.SetContent("h")
	require.NoError(t, err)
	_, err = s.SetContent("he")
	require.NoError(t, err)
	_, err = s.SetContent("hello world")
	require.NoError(t, err)

	// Nothing saved before the window elapses; the status reflects the armed
	// timer, not a write in flight
	assert.Empty(t, store.all())
	assert.Equal(t, StatusPending, s.Snapshot().Status)

	require.Eventually(t, func() bool {
		return len(store.all()) == 1
	}, time.Second, 5*time.Millisecond)

	saved := store.all()[0]
	assert.Equal(t, "hello world", saved.Content)
	assert.Equal(t, models.MoodCalm, saved.MoodBefore)
	assert.Equal(t, "user-1", saved.UserID)
	assert.NotEmpty(t, saved.ID)

	require.Eventually(t, func() bool {
		return s.Snapshot().Status == StatusSaved
	}, time.Second, 5*time.Millisecond)
	assert.NotNil(t, s.Snapshot().LastSavedAt)
}

func TestEmptiedDraftIsNeverSaved(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)
	s := m.Session("user-1")

	_, err := s.SelectMoodBefore(models.MoodSad)
	require.NoError(t, err)

	_, err = s.SetContent("something")
	require.NoError(t, err)
	_, err = s.SetContent("")
	require.NoError(t, err)

	time.Sleep(4 * testInterval)
	assert.Empty(t, store.all())
	assert.Equal(t, StatusIdle, s.Snapshot().Status)
}

func TestReflectionUnlocksAndLatches(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)
	s := m.Session("user-1")

	_, err := s.SelectMoodBefore(models.MoodAnxious)
	require.NoError(t, err)

	// Locked until the draft is long enough
	_, err = s.SetMoodAfter(models.MoodCalm)
	assert.ErrorIs(t, err, ErrReflectionLocked)

	long := strings.Repeat("a", 51)
	snap, err := s.SetContent(long)
	require.NoError(t, err)
	assert.True(t, snap.ReflectionOpen)

	// Deleting text back below the threshold keeps it open
	snap, err = s.SetContent("short again")
	require.NoError(t, err)
	assert.True(t, snap.ReflectionOpen)

	// Mood-after saves immediately, no debounce wait
	snap, err = s.SetMoodAfter(models.MoodCalm)
	require.NoError(t, err)
	assert.Equal(t, models.MoodCalm, snap.MoodAfter)

	saved := store.all()
	require.NotEmpty(t, saved)
	last := saved[len(saved)-1]
	assert.Equal(t, models.MoodAnxious, last.MoodBefore)
	assert.Equal(t, models.MoodCalm, last.MoodAfter)
}

func TestRepeatedSavesReuseEntryID(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)
	s := m.Session("user-1")

	_, err := s.SelectMoodBefore(models.MoodHappy)
	require.NoError(t, err)

	_, err = s.SetContent("first version")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(store.all()) == 1 }, time.Second, 5*time.Millisecond)

	_, err = s.SetContent("second version")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(store.all()) == 2 }, time.Second, 5*time.Millisecond)

	saved := store.all()
	assert.Equal(t, saved[0].ID, saved[1].ID)
	assert.Equal(t, saved[0].CreatedAt, saved[1].CreatedAt)
	assert.Equal(t, "second version", saved[1].Content)
}

func TestNewMoodStartsFreshDraft(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)
	s := m.Session("user-1")

	_, err := s.SelectMoodBefore(models.MoodHappy)
	require.NoError(t, err)
	_, err = s.SetContent("first entry")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(store.all()) == 1 }, time.Second, 5*time.Millisecond)
	firstID := store.all()[0].ID

	snap, err := s.SelectMoodBefore(models.MoodSad)
	require.NoError(t, err)
	assert.Empty(t, snap.Content)
	assert.Equal(t, models.MoodSad, snap.MoodBefore)
	assert.Empty(t, snap.MoodAfter)
	assert.False(t, snap.ReflectionOpen)

	_, err = s.SetContent("second entry")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(store.all()) == 2 }, time.Second, 5*time.Millisecond)
	assert.NotEqual(t, firstID, store.all()[1].ID)
}

func TestFailedSaveSurfacesAndRetries(t *testing.T) {
	store := &fakeStore{}
	store.setFailed(true)
	m := newTestManager(store)
	s := m.Session("user-1")

	_, err := s.SelectMoodBefore(models.MoodNeutral)
	require.NoError(t, err)
	_, err = s.SetContent("this must not be lost")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.Snapshot().Status == StatusFailed
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, store.all())

	// Retry before the store recovers fails again
	_, err = s.RetrySave()
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, s.Snapshot().Status)

	store.setFailed(false)
	_, err = s.RetrySave()
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.Snapshot().Status == StatusSaved
	}, time.Second, 5*time.Millisecond)
	require.Len(t, store.all(), 1)
	assert.Equal(t, "this must not be lost", store.all()[0].Content)
}

func TestRetryWithoutFailureIsRejected(t *testing.T) {
	m := newTestManager(&fakeStore{})
	s := m.Session("user-1")

	_, err := s.RetrySave()
	assert.ErrorIs(t, err, ErrNothingToRetry)
}

func TestGuidanceArrivesForSelectedMood(t *testing.T) {
	m := newTestManager(&fakeStore{})
	s := m.Session("user-1")

	snap, err := s.SelectMoodBefore(models.MoodSad)
	require.NoError(t, err)
	assert.Contains(t, []string{GuidanceLoading, GuidanceReady}, snap.Guidance)

	require.Eventually(t, func() bool {
		return s.Snapshot().Guidance == GuidanceReady
	}, time.Second, 5*time.Millisecond)

	snap = s.Snapshot()
	assert.Contains(t, snap.GuidanceText, "sad")
	assert.False(t, snap.GuidanceDegraded)
}

func TestAppendTranscriptJoinsWithSpace(t *testing.T) {
	m := newTestManager(&fakeStore{})
	s := m.Session("user-1")

	_, err := s.SelectMoodBefore(models.MoodCalm)
	require.NoError(t, err)

	snap, err := s.AppendTranscript("today was")
	require.NoError(t, err)
	assert.Equal(t, "today was", snap.Content)

	snap, err = s.AppendTranscript("a good day")
	require.NoError(t, err)
	assert.Equal(t, "today was a good day", snap.Content)
}

func TestShortThenLongerEditCoalesces(t *testing.T) {
	store := &fakeStore{}
	m := newTestManager(store)
	s := m.Session("user-1")

	_, err := s.SelectMoodBefore(models.MoodAnxious)
	require.NoError(t, err)

	first := strings.Repeat("x", 16)
	_, err = s.SetContent(first)
	require.NoError(t, err)

	// A second edit inside the window rearms the timer
	time.Sleep(testInterval / 2)
	second := strings.Repeat("y", 40)
	_, err = s.SetContent(second)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(store.all()) >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(2 * testInterval)

	saved := store.all()
	require.Len(t, saved, 1)
	assert.Equal(t, second, saved[0].Content)
	assert.Equal(t, models.MoodAnxious, saved[0].MoodBefore)
	assert.Empty(t, saved[0].MoodAfter)
}

// degradedAdvisory mimics an advisory service that is down.
type degradedAdvisory struct{}

func (degradedAdvisory) FetchGuidance(ctx context.Context, mood models.Mood) (string, bool) {
	return services.FallbackGuidance, true
}

func (degradedAdvisory) FetchQuote(ctx context.Context) (string, bool) {
	return services.FallbackQuotes[0], true
}

func TestDegradedGuidanceStillReachesReady(t *testing.T) {
	m := NewManager(&fakeStore{}, degradedAdvisory{}, nil, testInterval)
	s := m.Session("user-1")

	_, err := s.SelectMoodBefore(models.MoodNeutral)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return s.Snapshot().Guidance == GuidanceReady
	}, time.Second, 5*time.Millisecond)

	snap := s.Snapshot()
	assert.Equal(t, services.FallbackGuidance, snap.GuidanceText)
	assert.True(t, snap.GuidanceDegraded)
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	m := newTestManager(&fakeStore{})
	a := m.Session("user-a")
	b := m.Session("user-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, m.Session("user-a"))

	m.Drop("user-a")
	assert.NotSame(t, a, m.Session("user-a"))
}
