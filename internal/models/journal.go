package models

import (
	"time"
)

// JournalEntry is a private journal document owned by exactly one user.
// Stored in the "journal_entries" container partitioned by user_id.
type JournalEntry struct {
	ID             string                 `bson:"_id" json:"id"`
	UserID         string                 `bson:"user_id" json:"user_id"`
	Content        string                 `bson:"content" json:"content"`
	MoodIndicators []string               `bson:"mood_indicators" json:"mood_indicators"`
	MoodScore      *int                   `bson:"mood_score,omitempty" json:"mood_score,omitempty"`
	CreatedAt      time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt      *time.Time             `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	AIInsights     map[string]interface{} `bson:"ai_insights,omitempty" json:"ai_insights,omitempty"`
	SentimentScore *float64               `bson:"sentiment_score,omitempty" json:"sentiment_score,omitempty"`
	DocType        string                 `bson:"type" json:"-"`
}

// JournalEntryCreate is the POST /api/journal/ body.
type JournalEntryCreate struct {
	Content        string   `json:"content"`
	MoodIndicators []string `json:"mood_indicators"`
	MoodScore      *int     `json:"mood_score,omitempty"`
}

// JournalEntryUpdate is the PUT /api/journal/{id} body. Nil fields are
// left untouched.
type JournalEntryUpdate struct {
	Content        *string  `json:"content,omitempty"`
	MoodIndicators []string `json:"mood_indicators,omitempty"`
	MoodScore      *int     `json:"mood_score,omitempty"`
}
