package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ShareAuditEntry records one issued share link. Tokens themselves stay
// stateless; the audit log only exists for operator visibility.
type ShareAuditEntry struct {
	ID        string
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// PostgresShareAudit persists the share-link audit log.
type PostgresShareAudit struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresShareAudit creates a new PostgresShareAudit with the given
// database connection.
func NewPostgresShareAudit(db *sql.DB) *PostgresShareAudit {
	return &PostgresShareAudit{DB: db}
}

// Append stores one audit entry.
func (a *PostgresShareAudit) Append(ctx context.Context, entry ShareAuditEntry) error {
	_, err := a.DB.ExecContext(ctx,
		`INSERT INTO share_audit (id, subject_id, issued_at, expires_at) VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.SubjectID, entry.IssuedAt, entry.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert share audit entry: %w", err)
	}
	return nil
}
