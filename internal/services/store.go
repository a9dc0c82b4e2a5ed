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

// ErrNotFound is returned for point reads that match no document.
var ErrNotFound = errors.New("document not found")

const (
	usersCollection       = "users"
	journalCollection     = "journal_entries"
	moodCollection        = "mood_logs"
	mindfulnessCollection = "mindfulness_sessions"

	storeTimeout = 5 * time.Second
)

// DocumentStore is the data-access contract the HTTP layer depends on.
// The production implementation talks to Cosmos DB through its
// MongoDB-compatible endpoint; tests substitute a fake.
type DocumentStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ReplaceUser(ctx context.Context, user *models.User) error

	CreateJournalEntry(ctx context.Context, entry *models.JournalEntry) error
	GetJournalEntry(ctx context.Context, id string) (*models.JournalEntry, error)
	ListJournalEntries(ctx context.Context, userID string, skip, limit int) ([]models.JournalEntry, error)
	ListJournalEntriesSince(ctx context.Context, userID string, since time.Time, limit int) ([]models.JournalEntry, error)
	ReplaceJournalEntry(ctx context.Context, entry *models.JournalEntry) error
	DeleteJournalEntry(ctx context.Context, id, userID string) error

	CreateMoodLog(ctx context.Context, log *models.MoodLog) error
	ListMoodLogs(ctx context.Context, userID string, skip, limit int) ([]models.MoodLog, error)
	ListMoodLogsSince(ctx context.Context, userID string, since time.Time) ([]models.MoodLog, error)

	CreateMindfulnessSession(ctx context.Context, session *models.MindfulnessSession) error
	ListMindfulnessSessions(ctx context.Context, userID string) ([]models.MindfulnessSession, error)
}

// CosmosStore implements DocumentStore against the shared remote store.
// Containers are partitioned by id for users and by user_id for entries,
// logs and sessions; every read or write below is an independent point
// operation, so consistency is whatever the store account provides.
type CosmosStore struct {
	db *mongo.Database
}

func NewCosmosStore(db *mongo.Database) *CosmosStore {
	return &CosmosStore{db: db}
}

// EnsureIndexes creates the indexes the query paths rely on. Safe to call
// on every startup.
func (s *CosmosStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	ordering := map[string]string{
		journalCollection:     "created_at",
		moodCollection:        "timestamp",
		mindfulnessCollection: "completed_at",
	}
	for coll, field := range ordering {
		_, err := s.db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: field, Value: -1}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *CosmosStore) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user.DocType = "user"
	_, err := s.db.Collection(usersCollection).InsertOne(ctx, user)
	return err
}

func (s *CosmosStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *CosmosStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *CosmosStore) ReplaceUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	user.DocType = "user"
	result, err := s.db.Collection(usersCollection).ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
