// Package session owns the wallet-session lifecycle: sign-in initiation,
// pending-sign-in completion, and sign-out. It is the single source of
// the authenticated principal and its signing key material.
package session

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/educhain/records/internal/clarity"
	"github.com/educhain/records/internal/models"
	"github.com/educhain/records/internal/wallet"
)

// ErrNoPendingSignIn is returned when completion is requested without a
// prior BeginSignIn.
var ErrNoPendingSignIn = errors.New("session: no pending sign-in")

// Network selects which of the wallet profile's addresses becomes the
// session principal.
type Network string

const (
	// Testnet resolves the principal from the testnet address.
	Testnet Network = "testnet"
	// Mainnet resolves the principal from the mainnet address.
	Mainnet Network = "mainnet"
)

// State is the lifecycle position of the session.
type State int

const (
	// SignedOut is the initial and terminal state.
	SignedOut State = iota
	// PendingRedirect means BeginSignIn has started the wallet flow and
	// completion has not been observed yet.
	PendingRedirect
	// SignedIn means the principal and key material are resolved.
	SignedIn
)

// Session is a snapshot of the manager's state.
type Session struct {
	// Principal is the authenticated address, empty unless signed in.
	Principal models.Principal
	// SignedIn reports whether the session is authenticated.
	SignedIn bool
	// PendingCompletion reports whether a sign-in flow awaits completion.
	PendingCompletion bool
}

// Manager drives the SignedOut -> PendingRedirect -> SignedIn -> SignedOut
// state machine over a wallet provider. All methods are safe for
// concurrent use; racing completions resolve last-writer-wins.
type Manager struct {
	provider wallet.Provider
	network  Network
	log      *zap.Logger

	mu        sync.Mutex
	state     State
	principal models.Principal
	signer    ed25519.PrivateKey
}

// NewManager constructs a Manager over the given wallet provider.
// network selects which profile address becomes the principal.
func NewManager(provider wallet.Provider, network Network, log *zap.Logger) *Manager {
	return &Manager{provider: provider, network: network, log: log}
}

// BeginSignIn opens the wallet-authorization flow and enters
// PendingRedirect. Starting a new flow while one is already pending is
// allowed; the later flow wins and a warning is logged.
func (m *Manager) BeginSignIn() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == PendingRedirect {
		m.log.Warn("sign-in already pending, restarting flow")
	}
	if err := m.provider.BeginSignIn(); err != nil {
		return fmt.Errorf("begin sign-in: %w", err)
	}
	m.state = PendingRedirect
	return nil
}

// CompletePendingSignIn finishes a pending wallet flow, resolving the
// principal from the wallet profile. It fails with ErrNoPendingSignIn
// when no flow was started. A completion arriving after another has
// already transitioned the session to SignedIn is treated as the loser
// of a race: it overwrites the session (last writer wins) and a warning
// is logged.
func (m *Manager) CompletePendingSignIn() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case SignedOut:
		return m.snapshot(), ErrNoPendingSignIn
	case SignedIn:
		m.log.Warn("competing sign-in completions, last writer wins",
			zap.String("principal", m.principal.String()))
	}

	profile, err := m.provider.LoadUserProfile()
	if err != nil {
		return m.snapshot(), fmt.Errorf("load user profile: %w", err)
	}

	addr := profile.TestnetAddress
	if m.network == Mainnet {
		addr = profile.MainnetAddress
	}
	if _, _, err := clarity.DecodeAddress(addr); err != nil {
		return m.snapshot(), fmt.Errorf("wallet profile address: %w", err)
	}

	m.state = SignedIn
	m.principal = models.Principal(addr)
	m.signer = profile.AppPrivateKey
	return m.snapshot(), nil
}

// CurrentPrincipal returns the authenticated principal, if any. Pure
// read, no side effects.
func (m *Manager) CurrentPrincipal() (models.Principal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.principal, m.state == SignedIn
}

// Signer returns the session-held key material for transaction signing.
// The second return is false unless the session is signed in.
func (m *Manager) Signer() (ed25519.PrivateKey, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signer, m.state == SignedIn
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// SignOut clears the session unconditionally. Idempotent.
func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.provider.SignOut()
	m.state = SignedOut
	m.principal = ""
	m.signer = nil
}

// snapshot builds a Session from current state. Callers hold m.mu.
func (m *Manager) snapshot() Session {
	return Session{
		Principal:         m.principal,
		SignedIn:          m.state == SignedIn,
		PendingCompletion: m.state == PendingRedirect,
	}
}
