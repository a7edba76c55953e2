// Package wallet defines the external wallet-session provider contract
// and a file-backed development wallet implementing it.
package wallet

import "crypto/ed25519"

// Profile carries the wallet-supplied identity data loaded after a
// completed sign-in.
type Profile struct {
	// TestnetAddress is the account address on the test network.
	TestnetAddress string
	// MainnetAddress is the account address on the main network.
	MainnetAddress string
	// AppPrivateKey is the session-held key material used to sign
	// transactions on behalf of the account.
	AppPrivateKey ed25519.PrivateKey
}

// Provider is the minimal wallet-session capability the core depends
// on. Real deployments back it with a browser wallet; tests and the
// CLI use LocalWallet.
type Provider interface {
	// BeginSignIn opens the wallet-authorization flow. Completion is
	// observed asynchronously via IsPendingSignIn.
	BeginSignIn() error
	// IsSignedIn reports whether the wallet holds an authorized session.
	IsSignedIn() bool
	// IsPendingSignIn reports whether an authorization flow has been
	// started but not yet completed.
	IsPendingSignIn() bool
	// LoadUserProfile returns the profile of the signed-in account.
	LoadUserProfile() (Profile, error)
	// SignOut discards the wallet session. Safe to call at any time.
	SignOut()
}
