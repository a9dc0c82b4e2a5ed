package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven/companion-backend/internal/models"
)

func (s *CosmosStore) CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	entry.DocType = "journal_entry"
	_, err := s.db.Collection(journalCollection).InsertOne(ctx, entry)
	return err
}

// GetJournalEntry is a point read by id. Ownership is checked by the
// caller; a mismatch is answered as not-found, never as forbidden.
func (s *CosmosStore) GetJournalEntry(ctx context.Context, id string) (*models.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var entry models.JournalEntry
	err := s.db.Collection(journalCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (s *CosmosStore) ListJournalEntries(ctx context.Context, userID string, skip, limit int) ([]models.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection(journalCollection).Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]models.JournalEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *CosmosStore) ListJournalEntriesSince(ctx context.Context, userID string, since time.Time, limit int) ([]models.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	filter := bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": since},
	}
	findOptions := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection(journalCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]models.JournalEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceJournalEntry writes back a full document read earlier in the same
// request. There is no optimistic concurrency token; the last replace wins.
func (s *CosmosStore) ReplaceJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	entry.DocType = "journal_entry"
	result, err := s.db.Collection(journalCollection).ReplaceOne(ctx, bson.M{"_id": entry.ID}, entry)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CosmosStore) DeleteJournalEntry(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	// user_id in the filter keeps the delete inside the owner's partition.
	result, err := s.db.Collection(journalCollection).DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
