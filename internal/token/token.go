// Package token issues and validates signed, time-bounded verification
// tokens. Tokens bind a subject identifier to an expiry with an
// HMAC-SHA256 tag; holders of the secret can verify integrity but a
// token cannot be forged without it. Issuance and validation are pure
// functions of the secret and the clock, so validators need no shared
// state.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultValidity is the token lifetime used when none is given.
const DefaultValidity = 24 * time.Hour

// Validation outcomes. These are normal, expected states for the
// consumer-facing surface ("link expired"), never panics.
var (
	// ErrExpired means the token's expiry instant has passed.
	ErrExpired = errors.New("token: expired")
	// ErrBadSignature means the recomputed MAC does not match.
	ErrBadSignature = errors.New("token: bad signature")
	// ErrMalformed means the token cannot be parsed into its fields.
	ErrMalformed = errors.New("token: malformed")
	// ErrNonPositiveValidity means issuance was requested with a
	// non-positive validity window.
	ErrNonPositiveValidity = errors.New("token: validity must be positive")
)

// Token is an issued verification token together with its fields.
type Token struct {
	// SubjectID is the identifier the token grants access to.
	SubjectID string
	// IssuedAt is the issuance instant.
	IssuedAt time.Time
	// ExpiresAt is the expiry instant; always after IssuedAt.
	ExpiresAt time.Time
	// Encoded is the opaque wire form carried as a query parameter.
	Encoded string
}

// Service signs and validates tokens with a process-held secret.
type Service struct {
	secret []byte
	now    func() time.Time
}

// NewService constructs a Service around secret. A clock may be
// injected through WithClock for tests.
func NewService(secret []byte) *Service {
	return &Service{secret: secret, now: time.Now}
}

// WithClock returns a copy of the service using the given clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{secret: s.secret, now: now}
}

// Issue creates a token binding subjectID to an expiry validity from
// now. A zero validity falls back to DefaultValidity; negative
// validities are rejected.
func (s *Service) Issue(subjectID string, validity time.Duration) (Token, error) {
	if subjectID == "" {
		return Token{}, fmt.Errorf("%w: empty subject", ErrMalformed)
	}
	if strings.Contains(subjectID, "|") {
		return Token{}, fmt.Errorf("%w: subject must not contain the field separator", ErrMalformed)
	}
	if validity < 0 {
		return Token{}, ErrNonPositiveValidity
	}
	if validity == 0 {
		validity = DefaultValidity
	}

	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(validity)

	mac := s.sign(subjectID, issuedAt.Unix(), expiresAt.Unix())
	raw := fmt.Sprintf("%s|%d|%d|%s", subjectID, issuedAt.Unix(), expiresAt.Unix(), hex.EncodeToString(mac))

	return Token{
		SubjectID: subjectID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		Encoded:   base64.RawURLEncoding.EncodeToString([]byte(raw)),
	}, nil
}

// Validate checks an encoded token and returns its subject identifier.
// Expiry is checked before the signature, so an expired token reports
// ErrExpired regardless of its MAC. Pure and side-effect free.
func (s *Service) Validate(encoded string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	parts := strings.Split(string(raw), "|")
	if len(parts) != 4 {
		return "", fmt.Errorf("%w: expected 4 fields, got %d", ErrMalformed, len(parts))
	}
	subjectID := parts[0]
	if subjectID == "" {
		return "", fmt.Errorf("%w: empty subject", ErrMalformed)
	}
	issuedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: bad issued-at", ErrMalformed)
	}
	expiresAt, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: bad expiry", ErrMalformed)
	}
	mac, err := hex.DecodeString(parts[3])
	if err != nil {
		return "", fmt.Errorf("%w: bad signature encoding", ErrMalformed)
	}

	if s.now().Unix() > expiresAt {
		return "", ErrExpired
	}
	if !hmac.Equal(mac, s.sign(subjectID, issuedAt, expiresAt)) {
		return "", ErrBadSignature
	}
	return subjectID, nil
}

// sign computes the MAC over the canonical subject|issuedAt|expiresAt
// concatenation.
func (s *Service) sign(subjectID string, issuedAt, expiresAt int64) []byte {
	h := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(h, "%s|%d|%d", subjectID, issuedAt, expiresAt)
	return h.Sum(nil)
}

// ShareLink appends the encoded token to the public verification page
// URL as the "token" query parameter.
func ShareLink(baseURL string, t Token) string {
	return fmt.Sprintf("%s/verify?token=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(t.Encoded))
}
