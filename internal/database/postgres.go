package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// ConnectPostgres opens the relational store used for the append-only
// safety audit log.
func ConnectPostgres(postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err = initPostgresTables(db); err != nil {
		return nil, err
	}

	return db, nil
}

func initPostgresTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS safety_assessments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			user_id VARCHAR(64) NOT NULL,
			risk_level VARCHAR(16) NOT NULL,
			reasoning TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_safety_assessments_user_id ON safety_assessments(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_safety_assessments_created_at ON safety_assessments(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_safety_assessments_risk_level ON safety_assessments(risk_level)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
