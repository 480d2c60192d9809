package wallet

import (
	"context"
	"fmt"
	"sync"

	"farm_miniapp/internal/model"
)

// Local is the player's wallet as seen by the onboarding flow.
type Local struct {
	mu        sync.RWMutex
	provider  Provider
	kind      model.WalletKind
	myAccount *string
}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Initialise(ctx context.Context, provider Provider, kind model.WalletKind) error {
	accounts, err := provider.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load wallet accounts: %w", err)
	}
	if len(accounts) == 0 {
		return ErrNoAccounts
	}

	account := accounts[0]

	l.mu.Lock()
	defer l.mu.Unlock()
	l.provider = provider
	l.kind = kind
	l.myAccount = &account

	return nil
}

// MyAccount is nil until Initialise succeeds.
func (l *Local) MyAccount() *string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.myAccount
}

func (l *Local) Kind() model.WalletKind {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.kind
}
