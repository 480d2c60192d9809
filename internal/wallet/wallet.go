// Package wallet holds the wallet SDK contract, a Sequence relay client and
// the local wallet adapter the onboarding flow initialises.
package wallet

import (
	"context"
	"errors"
)

var (
	ErrNotConnected = errors.New("sequence wallet is not connected")
	ErrNoAccounts   = errors.New("wallet provider returned no accounts")
)

type ConnectOptions struct {
	App             string `json:"app"`
	AuthorizeNonce  string `json:"authorizeNonce,omitempty"`
	AskForEmail     bool   `json:"askForEmail"`
	KeepWalletOpen  bool   `json:"keepWalletOpened"`
	SignInWithEmail string `json:"signInWithEmail,omitempty"`
}

// Provider resolves the accounts behind a connected wallet.
type Provider interface {
	ID() string
	Accounts(ctx context.Context) ([]string, error)
}

type Handle interface {
	Connect(ctx context.Context, opts ConnectOptions) error
	IsConnected() bool
	Provider() Provider
}

type SDK interface {
	InitWallet(ctx context.Context, network string) (Handle, error)
}

// Network maps the deployment network onto the Sequence chain name.
func Network(deployment string) string {
	if deployment == "mainnet" {
		return "polygon"
	}
	return "mumbai"
}
