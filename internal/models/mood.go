package models

import (
	"time"
)

// MoodLog is one mood check-in. The log is append-only; documents live in
// the "mood_logs" container partitioned by user_id.
type MoodLog struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	MoodScore  int       `bson:"mood_score" json:"mood_score"`
	MoodLabels []string  `bson:"mood_labels" json:"mood_labels"`
	Context    string    `bson:"context,omitempty" json:"context,omitempty"`
	Factors    []string  `bson:"factors,omitempty" json:"factors,omitempty"`
	Location   string    `bson:"location,omitempty" json:"location,omitempty"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
	DocType    string    `bson:"type" json:"-"`
}

// MoodLogCreate is the POST /api/mood/log body.
type MoodLogCreate struct {
	MoodScore  int      `json:"mood_score"`
	MoodLabels []string `json:"mood_labels"`
	Context    string   `json:"context,omitempty"`
	Factors    []string `json:"factors,omitempty"`
	Location   string   `json:"location,omitempty"`
}
