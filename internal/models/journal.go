package models

import (
	"time"
)

// JournalEntry is a mood-bracketed journaling entry. The ID is a
// session-generated UUID string assigned when the user picks a mood before
// writing; every autosave for that draft upserts the same document.
type JournalEntry struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	Content    string    `bson:"content" json:"content"`
	MoodBefore Mood      `bson:"mood_before" json:"mood_before"`
	MoodAfter  Mood      `bson:"mood_after,omitempty" json:"mood_after,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
