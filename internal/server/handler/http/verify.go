// Package http provides the HTTP handlers for the public verification
// surface: identifier lookups, share-link issuance and shared-record
// retrieval.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/educhain/records/internal/service"
)

// VerifyService defines the verification operation required by the
// VerifyHandler.
type VerifyService interface {
	// Verify resolves an identifier (student id or wallet address) to
	// the subject's verified records. Unknown identifiers return
	// service.ErrNotFound.
	Verify(ctx context.Context, identifier string) (*service.VerifiedSubject, error)
}

// VerifyHandler handles HTTP requests for credential verification.
type VerifyHandler struct {
	// VerifyService performs the underlying verification lookups.
	VerifyService VerifyService
}

// Verify handles GET /api/verify/{identifier} requests.
// It resolves the identifier and writes the subject with its verified
// records as JSON. Unknown identifiers yield 404.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	if identifier == "" {
		http.Error(w, "missing identifier", http.StatusBadRequest)
		return
	}

	subject, err := h.VerifyService.Verify(r.Context(), identifier)
	if errors.Is(err, service.ErrNotFound) {
		http.Error(w, "subject not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(subject)
}
