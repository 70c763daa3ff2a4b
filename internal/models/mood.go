package models

// Mood is one of the fixed self-reported emotional states captured at entry
// start (mood before) and optionally at entry end (mood after).
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodCalm    Mood = "calm"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodAnxious Mood = "anxious"
)

// Moods lists the catalog in display order (best to worst).
var Moods = []Mood{MoodHappy, MoodCalm, MoodNeutral, MoodSad, MoodAnxious}

// moodValues must stay identical between the editor's mood pickers and the
// trend chart, otherwise the plotted series are not comparable.
var moodValues = map[Mood]int{
	MoodHappy:   5,
	MoodCalm:    4,
	MoodNeutral: 3,
	MoodSad:     2,
	MoodAnxious: 1,
}

// Value returns the ordinal chart value for a mood, or 0 for an unset/unknown mood.
func (m Mood) Value() int {
	return moodValues[m]
}

// Valid reports whether m is one of the catalog moods.
func (m Mood) Valid() bool {
	_, ok := moodValues[m]
	return ok
}

// ParseMood validates a mood label from client input.
func ParseMood(s string) (Mood, bool) {
	m := Mood(s)
	return m, m.Valid()
}

// MoodForValue returns the mood label for a chart value (used for axis ticks).
// Returns "" for values outside the catalog.
func MoodForValue(v int) Mood {
	for m, val := range moodValues {
		if val == v {
			return m
		}
	}
	return ""
}
