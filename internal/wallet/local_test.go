package wallet

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalWalletTwoPhaseSignIn(t *testing.T) {
	w := NewLocalWallet(filepath.Join(t.TempDir(), "wallet.key"))

	if w.IsSignedIn() || w.IsPendingSignIn() {
		t.Fatalf("new wallet should be signed out and not pending")
	}

	if err := w.BeginSignIn(); err != nil {
		t.Fatalf("BeginSignIn returned error: %v", err)
	}
	if !w.IsPendingSignIn() {
		t.Errorf("expected pending sign-in after BeginSignIn")
	}
	if w.IsSignedIn() {
		t.Errorf("wallet should not be signed in before completion")
	}

	profile, err := w.LoadUserProfile()
	if err != nil {
		t.Fatalf("LoadUserProfile returned error: %v", err)
	}
	if !w.IsSignedIn() {
		t.Errorf("wallet should be signed in after profile load")
	}
	if w.IsPendingSignIn() {
		t.Errorf("pending flag should clear after completion")
	}
	if !strings.HasPrefix(profile.TestnetAddress, "ST") {
		t.Errorf("testnet address = %q; want ST prefix", profile.TestnetAddress)
	}
	if !strings.HasPrefix(profile.MainnetAddress, "SP") {
		t.Errorf("mainnet address = %q; want SP prefix", profile.MainnetAddress)
	}
	if len(profile.AppPrivateKey) == 0 {
		t.Errorf("profile should carry session key material")
	}
}

func TestLocalWalletProfileWithoutSignIn(t *testing.T) {
	w := NewLocalWallet(filepath.Join(t.TempDir(), "wallet.key"))

	if _, err := w.LoadUserProfile(); err != ErrNotSignedIn {
		t.Fatalf("LoadUserProfile error = %v; want ErrNotSignedIn", err)
	}
}

func TestLocalWalletKeyPersistsAcrossSessions(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "wallet.key")

	w := NewLocalWallet(keyFile)
	if err := w.BeginSignIn(); err != nil {
		t.Fatalf("BeginSignIn returned error: %v", err)
	}
	first, err := w.LoadUserProfile()
	if err != nil {
		t.Fatalf("LoadUserProfile returned error: %v", err)
	}
	w.SignOut()
	if w.IsSignedIn() {
		t.Fatalf("wallet should be signed out")
	}

	again := NewLocalWallet(keyFile)
	if err := again.BeginSignIn(); err != nil {
		t.Fatalf("BeginSignIn returned error: %v", err)
	}
	second, err := again.LoadUserProfile()
	if err != nil {
		t.Fatalf("LoadUserProfile returned error: %v", err)
	}

	if first.TestnetAddress != second.TestnetAddress {
		t.Errorf("address changed across sessions: %q vs %q", first.TestnetAddress, second.TestnetAddress)
	}
}
