package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/educhain/records/internal/clarity"
)

// ErrNotSignedIn is returned when a profile is requested without an
// authorized wallet session.
var ErrNotSignedIn = errors.New("wallet: not signed in")

// LocalWallet is a development wallet keeping an ed25519 seed in a
// local file. Sign-in follows the same two-phase handshake a browser
// wallet redirect would: BeginSignIn marks the flow pending, and the
// session layer completes it.
type LocalWallet struct {
	keyFile string

	mu       sync.Mutex
	pending  bool
	signedIn bool
	key      ed25519.PrivateKey
}

// NewLocalWallet returns a wallet backed by the seed file at keyFile.
// The file is created on first sign-in if it does not exist.
func NewLocalWallet(keyFile string) *LocalWallet {
	return &LocalWallet{keyFile: keyFile}
}

// BeginSignIn marks an authorization flow as started. The key file is
// prepared here so completion cannot fail on a missing key.
func (w *LocalWallet) BeginSignIn() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	key, err := w.loadOrCreateKey()
	if err != nil {
		return err
	}
	w.key = key
	w.pending = true
	return nil
}

// IsSignedIn reports whether the wallet session is authorized.
func (w *LocalWallet) IsSignedIn() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.signedIn
}

// IsPendingSignIn reports whether a sign-in flow awaits completion.
func (w *LocalWallet) IsPendingSignIn() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

// LoadUserProfile completes a pending flow if one exists and returns
// the account profile derived from the stored key.
func (w *LocalWallet) LoadUserProfile() (Profile, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending {
		w.pending = false
		w.signedIn = true
	}
	if !w.signedIn {
		return Profile{}, ErrNotSignedIn
	}

	pub := w.key.Public().(ed25519.PublicKey)
	hash := keyHash(pub)

	testnet, err := clarity.EncodeAddress(clarity.VersionTestnet, hash)
	if err != nil {
		return Profile{}, fmt.Errorf("derive testnet address: %w", err)
	}
	mainnet, err := clarity.EncodeAddress(clarity.VersionMainnet, hash)
	if err != nil {
		return Profile{}, fmt.Errorf("derive mainnet address: %w", err)
	}

	return Profile{
		TestnetAddress: testnet,
		MainnetAddress: mainnet,
		AppPrivateKey:  w.key,
	}, nil
}

// SignOut discards the in-memory session state. The key file is kept so
// the account survives across sessions.
func (w *LocalWallet) SignOut() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = false
	w.signedIn = false
	w.key = nil
}

// keyHash derives the 20-byte account key hash from a public key.
func keyHash(pub ed25519.PublicKey) []byte {
	sum := sha256.Sum256(pub)
	return sum[:clarity.Hash160Size]
}

// loadOrCreateKey reads the hex-encoded seed file, generating a new
// seed when the file does not exist. Callers hold w.mu.
func (w *LocalWallet) loadOrCreateKey() (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(w.keyFile)
	if err == nil {
		seed, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("parse key file: %w", err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("key file seed must be %d bytes", ed25519.SeedSize)
		}
		return ed25519.NewKeyFromSeed(seed), nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generate seed: %w", err)
	}
	if err := os.WriteFile(w.keyFile, []byte(hex.EncodeToString(seed)), 0600); err != nil {
		return nil, fmt.Errorf("save key file: %w", err)
	}
	return ed25519.NewKeyFromSeed(seed), nil
}
