package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/educhain/records/internal/models"
)

func setupDirectoryMock(t *testing.T) (*PostgresDirectory, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	dir := NewPostgresDirectory(db)
	cleanup := func() { db.Close() }
	return dir, mock, cleanup
}

func userRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"student_id", "name", "wallet_address", "role"}).
		AddRow("STU-2024-001", "Alice Johnson", StudentWallet1.String(), "student")
}

func recordRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "course", "grade", "year", "institution", "verified", "transaction_id"}).
		AddRow("REC-001", "Blockchain Fundamentals", "A+", 2023, "NextGen University", true, "0xabc").
		AddRow("REC-003", "Decentralized Applications", "B+", 2024, "NextGen University", false, models.TxPending)
}

func TestFindByID_Found(t *testing.T) {
	dir, mock, cleanup := setupDirectoryMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT student_id, name, wallet_address, role FROM users WHERE LOWER(student_id) = LOWER($1)`)).
		WithArgs("stu-2024-001").
		WillReturnRows(userRow())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course, grade, year, institution, verified, transaction_id`)).
		WithArgs("STU-2024-001").
		WillReturnRows(recordRows())

	user, err := dir.FindByID(context.Background(), "stu-2024-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.StudentID != "STU-2024-001" {
		t.Errorf("student id = %q; want STU-2024-001", user.StudentID)
	}
	if len(user.Records) != 2 {
		t.Errorf("got %d records; want 2", len(user.Records))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindByID_Absent(t *testing.T) {
	dir, mock, cleanup := setupDirectoryMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT student_id, name, wallet_address, role FROM users WHERE LOWER(student_id) = LOWER($1)`)).
		WithArgs("STU-0000-000").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "name", "wallet_address", "role"}))

	user, err := dir.FindByID(context.Background(), "STU-0000-000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user for absent id, got %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindByAddress_Found(t *testing.T) {
	dir, mock, cleanup := setupDirectoryMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT student_id, name, wallet_address, role FROM users WHERE wallet_address = $1`)).
		WithArgs(StudentWallet1.String()).
		WillReturnRows(userRow())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course, grade, year, institution, verified, transaction_id`)).
		WithArgs("STU-2024-001").
		WillReturnRows(recordRows())

	user, err := dir.FindByAddress(context.Background(), StudentWallet1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.WalletAddress != StudentWallet1 {
		t.Fatalf("user = %+v; want wallet %q", user, StudentWallet1)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindByID_QueryError(t *testing.T) {
	dir, mock, cleanup := setupDirectoryMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT student_id, name, wallet_address, role FROM users WHERE LOWER(student_id) = LOWER($1)`)).
		WithArgs("STU-2024-001").
		WillReturnError(errors.New("query failed"))

	if _, err := dir.FindByID(context.Background(), "STU-2024-001"); err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAddRecord(t *testing.T) {
	dir, mock, cleanup := setupDirectoryMock(t)
	defer cleanup()

	record := models.AcademicRecord{
		ID: "REC-100", Course: "Algorithms", Grade: "A", Year: 2023,
		Institution: "Tech U", Verified: false, TransactionID: models.TxPending,
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO records`)).
		WithArgs(record.ID, record.Course, record.Grade, record.Year, record.Institution,
			record.Verified, record.TransactionID, StudentWallet1.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := dir.AddRecord(context.Background(), StudentWallet1, record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
