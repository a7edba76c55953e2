// Package repository provides directory and audit-log persistence, with
// a postgres implementation for the server and an in-memory seeded
// implementation for development and the CLI.
package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/educhain/records/internal/models"
)

// MemoryDirectory is an in-memory user directory keyed by student id
// and wallet address. Safe for concurrent use.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users []models.User
}

// NewMemoryDirectory returns a directory holding the given users.
func NewMemoryDirectory(users []models.User) *MemoryDirectory {
	copied := make([]models.User, len(users))
	copy(copied, users)
	return &MemoryDirectory{users: copied}
}

// FindByID looks a user up by student id, case-insensitively. Absent
// users return (nil, nil).
func (d *MemoryDirectory) FindByID(_ context.Context, studentID string) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := range d.users {
		if strings.EqualFold(d.users[i].StudentID, studentID) {
			user := d.users[i]
			return &user, nil
		}
	}
	return nil, nil
}

// FindByAddress looks a user up by wallet address. Absent users return
// (nil, nil).
func (d *MemoryDirectory) FindByAddress(_ context.Context, addr models.Principal) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := range d.users {
		if d.users[i].WalletAddress == addr {
			user := d.users[i]
			return &user, nil
		}
	}
	return nil, nil
}

// AddRecord appends a record to the user owning addr. Unknown addresses
// are ignored so a broadcast for an unlisted wallet does not fail the
// local bookkeeping.
func (d *MemoryDirectory) AddRecord(_ context.Context, addr models.Principal, record models.AcademicRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.users {
		if d.users[i].WalletAddress == addr {
			d.users[i].Records = append(d.users[i].Records, record)
			return nil
		}
	}
	return nil
}
