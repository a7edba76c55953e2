package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestShareAuditAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer db.Close()
	audit := NewPostgresShareAudit(db)

	entry := ShareAuditEntry{
		ID:        "0b7a5f7e-1111-2222-3333-444444444444",
		SubjectID: "STU-2024-001",
		IssuedAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		ExpiresAt: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC),
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO share_audit (id, subject_id, issued_at, expires_at) VALUES ($1, $2, $3, $4)`)).
		WithArgs(entry.ID, entry.SubjectID, entry.IssuedAt, entry.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := audit.Append(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestShareAuditAppendError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer db.Close()
	audit := NewPostgresShareAudit(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO share_audit`)).
		WillReturnError(errors.New("insert failed"))

	if err := audit.Append(context.Background(), ShareAuditEntry{ID: "x"}); err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
