// Package service provides the verification business logic, delegating
// directory lookups to repository interfaces and on-chain reads to the
// ledger query client.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/educhain/records/internal/models"
)

// ErrNotFound is returned when no user matches the given identifier.
var ErrNotFound = errors.New("subject not found")

// Directory defines the user-directory lookups required by the
// verification service. Absent users return (nil, nil).
type Directory interface {
	// FindByID looks a user up by student id, case-insensitively.
	FindByID(ctx context.Context, studentID string) (*models.User, error)
	// FindByAddress looks a user up by wallet address.
	FindByAddress(ctx context.Context, addr models.Principal) (*models.User, error)
}

// LedgerReader fetches the on-chain records owned by a subject.
type LedgerReader interface {
	FetchRecords(ctx context.Context, subject models.Principal) ([]models.AcademicRecord, error)
}

// VerifiedSubject is the result of a verification lookup: the subject's
// identity plus only those records that are confirmed on chain.
type VerifiedSubject struct {
	StudentID     string                  `json:"studentId"`
	Name          string                  `json:"name"`
	WalletAddress models.Principal        `json:"walletAddress"`
	Records       []models.AcademicRecord `json:"records"`
}

// VerificationService resolves identifiers to subjects and filters
// their records down to the verified set.
type VerificationService struct {
	// directory is the user directory used for identifier resolution.
	directory Directory
	// ledger optionally cross-checks records against the chain. May be
	// nil, in which case directory data is used as-is.
	ledger LedgerReader
	log    *zap.Logger
}

// NewVerificationService constructs a VerificationService. ledger may
// be nil to disable the on-chain cross-check.
func NewVerificationService(directory Directory, ledger LedgerReader, log *zap.Logger) *VerificationService {
	return &VerificationService{directory: directory, ledger: ledger, log: log}
}

// Verify resolves an identifier (student id first, wallet address as
// fallback) and returns the subject with verified records only.
// Subjects with no verified records yield an empty record list, not an
// error. Unknown identifiers return ErrNotFound.
func (s *VerificationService) Verify(ctx context.Context, identifier string) (*VerifiedSubject, error) {
	user, err := s.lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}

	records := s.verifiedRecords(ctx, user)
	return &VerifiedSubject{
		StudentID:     user.StudentID,
		Name:          user.Name,
		WalletAddress: user.WalletAddress,
		Records:       records,
	}, nil
}

// lookup tries the identifier as a student id, then as a wallet
// address.
func (s *VerificationService) lookup(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.directory.FindByID(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.directory.FindByAddress(ctx, models.Principal(identifier))
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// verifiedRecords returns the subject's verified records, preferring
// the on-chain view when a ledger reader is configured. A failed chain
// read falls back to the directory records with a warning, so the
// verification surface stays available through node outages.
func (s *VerificationService) verifiedRecords(ctx context.Context, user *models.User) []models.AcademicRecord {
	if s.ledger != nil && user.WalletAddress != "" {
		onChain, err := s.ledger.FetchRecords(ctx, user.WalletAddress)
		if err == nil {
			return filterVerified(onChain)
		}
		s.log.Warn("ledger read failed, falling back to directory records",
			zap.String("student_id", user.StudentID),
			zap.Error(err),
		)
	}
	return user.VerifiedRecords()
}

// filterVerified keeps only the verified records of an on-chain read.
// Always returns a non-nil slice so callers serialize an empty list
// rather than null.
func filterVerified(records []models.AcademicRecord) []models.AcademicRecord {
	verified := make([]models.AcademicRecord, 0, len(records))
	for _, r := range records {
		if r.Verified {
			verified = append(verified, r)
		}
	}
	return verified
}
