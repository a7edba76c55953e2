package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/educhain/records/internal/service"
	"github.com/educhain/records/internal/token"
)

// ShareService defines the share-link operations required by the
// ShareHandler.
type ShareService interface {
	// IssueShareLink issues a share token for the student and returns
	// the full share URL together with the issued token.
	IssueShareLink(ctx context.Context, studentID string, validity time.Duration) (string, token.Token, error)
	// SharedRecords validates a presented token and returns the
	// verified records of its subject.
	SharedRecords(ctx context.Context, rawToken string) (*service.VerifiedSubject, error)
}

// ShareHandler handles HTTP requests for share-link issuance and
// shared-record retrieval.
type ShareHandler struct {
	// ShareService performs the underlying token operations.
	ShareService ShareService
}

// ShareRequest represents the JSON payload for share-link issuance.
type ShareRequest struct {
	// StudentID is the subject the link grants access to.
	StudentID string `json:"studentId"`
	// ValidityHours bounds the link lifetime. Zero means the default
	// lifetime.
	ValidityHours int `json:"validityHours"`
}

// Share handles POST /api/share requests.
// It expects a JSON body with a non-empty "studentId" field and
// responds with the share URL, the encoded token and its expiry.
func (h *ShareHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StudentID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ValidityHours < 0 {
		http.Error(w, "validity must be positive", http.StatusBadRequest)
		return
	}

	validity := time.Duration(req.ValidityHours) * time.Hour
	link, issued, err := h.ShareService.IssueShareLink(r.Context(), req.StudentID, validity)
	if errors.Is(err, service.ErrNotFound) {
		http.Error(w, "subject not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"shareUrl":  link,
		"token":     issued.Encoded,
		"expiresAt": issued.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Shared handles GET /api/shared?token= requests.
// Expired links yield 410 Gone, forged links 401, unparseable links
// 400. A valid token returns the subject's verified records.
func (h *ShareHandler) Shared(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	subject, err := h.ShareService.SharedRecords(r.Context(), raw)
	switch {
	case errors.Is(err, token.ErrExpired):
		http.Error(w, "share link expired", http.StatusGone)
		return
	case errors.Is(err, token.ErrBadSignature):
		http.Error(w, "invalid share link", http.StatusUnauthorized)
		return
	case errors.Is(err, token.ErrMalformed):
		http.Error(w, "malformed share link", http.StatusBadRequest)
		return
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "subject not found", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(subject)
}
