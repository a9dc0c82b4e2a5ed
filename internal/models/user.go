package models

import (
	"time"
)

// SubscriptionTier values accepted on user documents.
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// User is a registered account. Users are never hard-deleted; the document
// lives in the "users" container partitioned by its own id.
type User struct {
	ID               string                 `bson:"_id" json:"id"`
	Email            string                 `bson:"email" json:"email"`
	HashedPassword   string                 `bson:"hashed_password" json:"-"`
	CreatedAt        time.Time              `bson:"created_at" json:"created_at"`
	SubscriptionTier string                 `bson:"subscription_tier" json:"subscription_tier"`
	Preferences      map[string]interface{} `bson:"preferences" json:"preferences"`
	Profile          map[string]interface{} `bson:"profile" json:"profile"`
	DocType          string                 `bson:"type" json:"-"`
}

// UserUpdate carries the optional fields of a profile update. Nil fields
// are left untouched (read-modify-replace).
type UserUpdate struct {
	Email            *string                `json:"email,omitempty"`
	Preferences      map[string]interface{} `json:"preferences,omitempty"`
	Profile          map[string]interface{} `json:"profile,omitempty"`
	SubscriptionTier *string                `json:"subscription_tier,omitempty"`
}
