package services

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindwell-app/mindwell-backend/internal/models"
)

func testEntries() []models.JournalEntry {
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	return []models.JournalEntry{
		{ID: "e1", UserID: "u1", Content: "rough morning", MoodBefore: models.MoodAnxious, CreatedAt: base},
		{ID: "e2", UserID: "u1", Content: "walk helped a lot", MoodBefore: models.MoodNeutral, MoodAfter: models.MoodCalm, CreatedAt: base.Add(24 * time.Hour)},
		{ID: "e3", UserID: "u1", Content: "quiet evening", MoodBefore: models.MoodCalm, CreatedAt: base.Add(48 * time.Hour)},
	}
}

func TestFinalMoods(t *testing.T) {
	entries := testEntries()
	finals := FinalMoods(entries)
	require.Len(t, finals, 3)

	// Each entry's final mood is the next entry's starting mood
	assert.Equal(t, models.MoodNeutral, finals[0])
	assert.Equal(t, models.MoodCalm, finals[1])
	// Last entry has no successor and no mood-after
	assert.Equal(t, models.Mood(""), finals[2])
}

func TestFinalMoodsLastEntryUsesOwnMoodAfter(t *testing.T) {
	entries := testEntries()[:2]
	finals := FinalMoods(entries)
	require.Len(t, finals, 2)
	assert.Equal(t, models.MoodCalm, finals[1])
}

func TestFinalMoodsEmpty(t *testing.T) {
	assert.Empty(t, FinalMoods(nil))
}

func TestTruncateForCellRespectsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("日", 200)
	got := truncateForCell(long, 180)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("日", 177)+"...", got)

	short := "fits fine"
	assert.Equal(t, short, truncateForCell(short, 180))

	exact := strings.Repeat("é", 180)
	assert.Equal(t, exact, truncateForCell(exact, 180))
}

func TestBuildJournalPDF(t *testing.T) {
	profile := &models.Profile{
		UserID:      "u1",
		FullName:    "Jordan Avery",
		DateOfBirth: time.Date(1995, time.August, 20, 0, 0, 0, 0, time.UTC),
		Gender:      "non-binary",
	}

	pdf, err := BuildJournalPDF(profile, testEntries())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Greater(t, len(pdf), 1000)
}

func TestBuildJournalPDFNoEntries(t *testing.T) {
	profile := &models.Profile{
		UserID:      "u1",
		FullName:    "Jordan Avery",
		DateOfBirth: time.Date(1995, time.August, 20, 0, 0, 0, 0, time.UTC),
		Gender:      "non-binary",
	}

	pdf, err := BuildJournalPDF(profile, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
