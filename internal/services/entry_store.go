package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindwell-app/mindwell-backend/internal/database"
	"github.com/mindwell-app/mindwell-backend/internal/models"
)

const journalCollection = "journal_entries"

// EntryStore persists journal entries. The journal editor depends on this
// interface so autosave can be tested without a live MongoDB.
type EntryStore interface {
	// UpsertEntry writes the entry keyed by its ID. Repeated autosaves of the
	// same draft replace the stored document.
	UpsertEntry(ctx context.Context, entry *models.JournalEntry) error
	// GetEntry fetches one entry owned by the user, or mongo.ErrNoDocuments.
	GetEntry(ctx context.Context, userID, entryID string) (*models.JournalEntry, error)
	// ListEntries returns the user's entries newest-first plus the total count.
	ListEntries(ctx context.Context, userID string, limit, skip int64) ([]models.JournalEntry, int64, error)
	// ListEntriesChronological returns all of a user's entries oldest-first,
	// for trend charts and the final-mood derivation.
	ListEntriesChronological(ctx context.Context, userID string) ([]models.JournalEntry, error)
	// DeleteEntry removes one entry owned by the user.
	DeleteEntry(ctx context.Context, userID, entryID string) error
}

// MongoEntryStore is the production EntryStore backed by database.DB.
type MongoEntryStore struct{}

func NewMongoEntryStore() *MongoEntryStore {
	return &MongoEntryStore{}
}

func (s *MongoEntryStore) collection() *mongo.Collection {
	return database.DB.Collection(journalCollection)
}

// EnsureJournalIndexes creates the indexes the entry queries rely on.
func EnsureJournalIndexes(ctx context.Context) error {
	collection := database.DB.Collection(journalCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return err
	}

	log.Println("✅ Journal entry indexes ensured")
	return nil
}

func (s *MongoEntryStore) UpsertEntry(ctx context.Context, entry *models.JournalEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": entry.ID, "user_id": entry.UserID}
	opts := options.Replace().SetUpsert(true)

	_, err := s.collection().ReplaceOne(ctx, filter, entry, opts)
	return err
}

func (s *MongoEntryStore) GetEntry(ctx context.Context, userID, entryID string) (*models.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var entry models.JournalEntry
	filter := bson.M{"_id": entryID, "user_id": userID}
	if err := s.collection().FindOne(ctx, filter).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *MongoEntryStore) ListEntries(ctx context.Context, userID string, limit, skip int64) ([]models.JournalEntry, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID}

	total, err := s.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	entries := []models.JournalEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *MongoEntryStore) ListEntriesChronological(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.collection().Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.JournalEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *MongoEntryStore) DeleteEntry(ctx context.Context, userID, entryID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": entryID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FinalMoods derives, for each entry in chronological order, the mood the user
// ended up in: the next entry's mood-before when one exists, otherwise the
// entry's own mood-after. Entries with neither get an empty mood.
func FinalMoods(entries []models.JournalEntry) []models.Mood {
	finals := make([]models.Mood, len(entries))
	for i := range entries {
		if i+1 < len(entries) && entries[i+1].MoodBefore.Valid() {
			finals[i] = entries[i+1].MoodBefore
			continue
		}
		if entries[i].MoodAfter.Valid() {
			finals[i] = entries[i].MoodAfter
		}
	}
	return finals
}
