package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/educhain/records/internal/repository"
	"github.com/educhain/records/internal/token"
)

// ShareAudit records issued share links. Implementations may drop
// entries; auditing never blocks issuance.
type ShareAudit interface {
	Append(ctx context.Context, entry repository.ShareAuditEntry) error
}

// TokenMetrics counts token issuance and validation failures. May be
// nil.
type TokenMetrics interface {
	RecordTokenIssued()
	RecordTokenReject(reason string)
}

// ShareService issues share links and resolves presented tokens back
// to verified records.
type ShareService struct {
	tokens   *token.Service
	verifier *VerificationService
	audit    ShareAudit
	metrics  TokenMetrics
	baseURL  string
	log      *zap.Logger
}

// NewShareService constructs a ShareService. audit and metrics may be
// nil.
func NewShareService(
	tokens *token.Service,
	verifier *VerificationService,
	audit ShareAudit,
	metrics TokenMetrics,
	baseURL string,
	log *zap.Logger,
) *ShareService {
	return &ShareService{
		tokens:   tokens,
		verifier: verifier,
		audit:    audit,
		metrics:  metrics,
		baseURL:  baseURL,
		log:      log,
	}
}

// IssueShareLink issues a share token for the given student and returns
// the full share URL. Unknown students return ErrNotFound. A failed
// audit write is logged but does not fail the issuance.
func (s *ShareService) IssueShareLink(ctx context.Context, studentID string, validity time.Duration) (string, token.Token, error) {
	subject, err := s.verifier.Verify(ctx, studentID)
	if err != nil {
		return "", token.Token{}, err
	}

	t, err := s.tokens.Issue(subject.StudentID, validity)
	if err != nil {
		return "", token.Token{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordTokenIssued()
	}

	if s.audit != nil {
		entry := repository.ShareAuditEntry{
			ID:        uuid.NewString(),
			SubjectID: t.SubjectID,
			IssuedAt:  t.IssuedAt,
			ExpiresAt: t.ExpiresAt,
		}
		if err := s.audit.Append(ctx, entry); err != nil {
			s.log.Warn("failed to append share audit entry",
				zap.String("subject_id", t.SubjectID),
				zap.Error(err),
			)
		}
	}

	return token.ShareLink(s.baseURL, t), t, nil
}

// SharedRecords validates a presented token and returns the verified
// records of its subject. Token failures pass through the token
// package's sentinel errors so callers can distinguish expiry from
// forgery.
func (s *ShareService) SharedRecords(ctx context.Context, rawToken string) (*VerifiedSubject, error) {
	subjectID, err := s.tokens.Validate(rawToken)
	if err != nil {
		s.recordReject(err)
		return nil, err
	}
	return s.verifier.Verify(ctx, subjectID)
}

func (s *ShareService) recordReject(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, token.ErrExpired):
		s.metrics.RecordTokenReject("expired")
	case errors.Is(err, token.ErrBadSignature):
		s.metrics.RecordTokenReject("bad_signature")
	default:
		s.metrics.RecordTokenReject("malformed")
	}
}
