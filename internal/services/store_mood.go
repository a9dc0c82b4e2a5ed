package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven/companion-backend/internal/models"
)

func (s *CosmosStore) CreateMoodLog(ctx context.Context, log *models.MoodLog) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	log.DocType = "mood_log"
	_, err := s.db.Collection(moodCollection).InsertOne(ctx, log)
	return err
}

func (s *CosmosStore) ListMoodLogs(ctx context.Context, userID string, skip, limit int) ([]models.MoodLog, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	findOptions := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection(moodCollection).Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := make([]models.MoodLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *CosmosStore) ListMoodLogsSince(ctx context.Context, userID string, since time.Time) ([]models.MoodLog, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	filter := bson.M{
		"user_id":   userID,
		"timestamp": bson.M{"$gte": since},
	}
	findOptions := options.Find().SetSort(bson.M{"timestamp": -1})

	cursor, err := s.db.Collection(moodCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := make([]models.MoodLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *CosmosStore) CreateMindfulnessSession(ctx context.Context, session *models.MindfulnessSession) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	session.DocType = "mindfulness_session"
	_, err := s.db.Collection(mindfulnessCollection).InsertOne(ctx, session)
	return err
}

func (s *CosmosStore) ListMindfulnessSessions(ctx context.Context, userID string) ([]models.MindfulnessSession, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	cursor, err := s.db.Collection(mindfulnessCollection).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := make([]models.MindfulnessSession, 0)
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
