package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoodValues(t *testing.T) {
	assert.Equal(t, 5, MoodHappy.Value())
	assert.Equal(t, 4, MoodCalm.Value())
	assert.Equal(t, 3, MoodNeutral.Value())
	assert.Equal(t, 2, MoodSad.Value())
	assert.Equal(t, 1, MoodAnxious.Value())
	assert.Equal(t, 0, Mood("").Value())
	assert.Equal(t, 0, Mood("ecstatic").Value())
}

func TestParseMood(t *testing.T) {
	m, ok := ParseMood("anxious")
	assert.True(t, ok)
	assert.Equal(t, MoodAnxious, m)

	_, ok = ParseMood("furious")
	assert.False(t, ok)

	_, ok = ParseMood("")
	assert.False(t, ok)

	// Labels are case-sensitive; clients send lowercase
	_, ok = ParseMood("Happy")
	assert.False(t, ok)
}

func TestMoodForValueRoundTrip(t *testing.T) {
	for _, m := range Moods {
		assert.Equal(t, m, MoodForValue(m.Value()))
	}
	assert.Equal(t, Mood(""), MoodForValue(0))
	assert.Equal(t, Mood(""), MoodForValue(6))
}
