package services

import (
	"context"
	"database/sql"
)

// SafetyAuditor appends risk assessments to a durable log. Assessments are
// ephemeral in the API (never returned on later reads), but moderate and
// high results must leave a trace for clinical review.
type SafetyAuditor interface {
	LogAssessment(ctx context.Context, userID, riskLevel, reasoning string) error
}

// PostgresAuditor writes the append-only safety_assessments table.
type PostgresAuditor struct {
	db *sql.DB
}

func NewPostgresAuditor(db *sql.DB) *PostgresAuditor {
	return &PostgresAuditor{db: db}
}

func (a *PostgresAuditor) LogAssessment(ctx context.Context, userID, riskLevel, reasoning string) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO safety_assessments (user_id, risk_level, reasoning, created_at)
		VALUES ($1, $2, $3, NOW())
	`, userID, riskLevel, reasoning)
	return err
}
