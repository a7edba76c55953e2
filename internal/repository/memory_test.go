package repository

import (
	"context"
	"testing"

	"github.com/educhain/records/internal/models"
)

func TestMemoryDirectoryFindByIDCaseInsensitive(t *testing.T) {
	dir := NewMemoryDirectory(SeedUsers())

	user, err := dir.FindByID(context.Background(), "stu-2024-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.Name != "Alice Johnson" {
		t.Fatalf("user = %+v; want Alice Johnson", user)
	}
}

func TestMemoryDirectoryFindByAddress(t *testing.T) {
	dir := NewMemoryDirectory(SeedUsers())

	user, err := dir.FindByAddress(context.Background(), StudentWallet2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.StudentID != "STU-2024-002" {
		t.Fatalf("user = %+v; want STU-2024-002", user)
	}
}

func TestMemoryDirectoryAbsent(t *testing.T) {
	dir := NewMemoryDirectory(SeedUsers())

	user, err := dir.FindByID(context.Background(), "STU-9999-999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil for absent user, got %+v", user)
	}
}

func TestMemoryDirectoryAddRecord(t *testing.T) {
	dir := NewMemoryDirectory(SeedUsers())

	record := models.AcademicRecord{ID: "REC-100", Course: "Algorithms", Grade: "A", Year: 2023, Institution: "Tech U", TransactionID: models.TxPending}
	if err := dir.AddRecord(context.Background(), StudentWallet1, record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := dir.FindByAddress(context.Background(), StudentWallet1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(user.Records); got != 4 {
		t.Errorf("got %d records; want 4 after append", got)
	}
}

func TestMemoryDirectoryLookupsReturnCopies(t *testing.T) {
	dir := NewMemoryDirectory(SeedUsers())

	first, err := dir.FindByID(context.Background(), "STU-2024-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Name = "mutated"

	second, err := dir.FindByID(context.Background(), "STU-2024-001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Name != "Alice Johnson" {
		t.Errorf("directory entry mutated through returned pointer")
	}
}
