package models

import (
	"time"
)

// MindfulnessSession records one completed (or attempted) guided exercise.
type MindfulnessSession struct {
	ID              string    `bson:"_id" json:"id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	ExerciseType    string    `bson:"exercise_type" json:"exercise_type"`
	DurationSeconds int       `bson:"duration_seconds" json:"duration_seconds"`
	CompletedAt     time.Time `bson:"completed_at" json:"completed_at"`
	DocType         string    `bson:"type" json:"-"`
}

// MindfulnessStats aggregates a user's practice history.
type MindfulnessStats struct {
	TotalSessions int                      `json:"total_sessions"`
	Exercises     map[string]ExerciseStats `json:"exercises"`
}

// ExerciseStats is the per-exercise slice of MindfulnessStats.
type ExerciseStats struct {
	Count         int `json:"count"`
	TotalDuration int `json:"total_duration"`
}
