package stacks

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/educhain/records/internal/models"
)

// broadcastPath is the node endpoint accepting signed transaction blobs.
const broadcastPath = "/v2/transactions"

// SessionSource supplies the authenticated principal and its signing
// key material. Implemented by session.Manager.
type SessionSource interface {
	CurrentPrincipal() (models.Principal, bool)
	Signer() (ed25519.PrivateKey, bool)
}

// Metrics records client-side observations. Implemented by
// metrics.Collector; a nil Metrics disables recording.
type Metrics interface {
	RecordBroadcast(success bool)
	RecordReadCall(status int, duration time.Duration)
}

// BroadcastClient signs built transactions with session-held key
// material and submits them to the node. Submission is at-most-once:
// the client never retries and never mutates the payload.
type BroadcastClient struct {
	httpClient *http.Client
	baseURL    string
	session    SessionSource
	log        *zap.Logger
	metrics    Metrics
}

// NewBroadcastClient constructs a BroadcastClient against the node at
// baseURL. metrics may be nil.
func NewBroadcastClient(httpClient *http.Client, baseURL string, session SessionSource, log *zap.Logger, metrics Metrics) *BroadcastClient {
	return &BroadcastClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    session,
		log:        log,
		metrics:    metrics,
	}
}

// Submit signs tx and broadcasts it, returning the transaction id the
// node acknowledged. It fails with BroadcastNotAuthenticated before any
// network activity when no session is signed in, and surfaces node
// rejections verbatim. It returns as soon as the node acknowledges
// submission; confirmation tracking is a separate concern.
func (c *BroadcastClient) Submit(ctx context.Context, tx *UnsignedTransaction) (string, error) {
	signer, ok := c.session.Signer()
	if !ok {
		return "", &BroadcastError{Kind: BroadcastNotAuthenticated, Message: "no signed-in session"}
	}

	if !tx.consume() {
		return "", ErrTransactionConsumed
	}

	payload, err := tx.payload()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}

	// Sign the sha256 digest of the payload and append signature and
	// public key so the node can verify the blob.
	digest := sha256.Sum256(payload)
	sig := ed25519.Sign(signer, digest[:])
	pub := signer.Public().(ed25519.PublicKey)

	blob := make([]byte, 0, len(payload)+len(sig)+len(pub))
	blob = append(blob, payload...)
	blob = append(blob, sig...)
	blob = append(blob, pub...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+broadcastPath, bytes.NewReader(blob))
	if err != nil {
		return "", fmt.Errorf("build broadcast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(false)
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return "", &BroadcastError{Kind: BroadcastTimeout, Message: err.Error()}
		}
		return "", &BroadcastError{Kind: BroadcastRejected, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.record(false)
		c.log.Warn("transaction rejected by node",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return "", &BroadcastError{Kind: BroadcastRejected, Message: string(body)}
	}

	var ack struct {
		TxID string `json:"txid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil || ack.TxID == "" {
		c.record(false)
		return "", &BroadcastError{Kind: BroadcastRejected, Message: "node returned unreadable acknowledgment"}
	}

	c.record(true)
	c.log.Info("transaction broadcast", zap.String("txid", ack.TxID))
	return ack.TxID, nil
}

func (c *BroadcastClient) record(success bool) {
	if c.metrics != nil {
		c.metrics.RecordBroadcast(success)
	}
}
