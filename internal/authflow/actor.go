// Package authflow is the per-player authentication actor driven by the
// wallet onboarding wizard.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"farm_miniapp/internal/model"
	"farm_miniapp/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

var (
	ErrInvalidEvent = errors.New("invalid auth event")
	ErrNoTransition = errors.New("no transition for auth event in current state")
)

type Store interface {
	SetWallet(ctx context.Context, telegramID int64, kind model.WalletKind, provider string) error
	SetWalletAccount(ctx context.Context, telegramID int64, account, token string) error
}

type Purchaser interface {
	SendFarmInvoice(ctx context.Context, telegramID int64) error
}

type Actor struct {
	playerID      int64
	transactionID string
	store         Store
	purchaser     Purchaser

	mu      sync.RWMutex
	state   model.AuthStateName
	wallet  *model.Web3Data
	account string
	token   string
}

func New(playerID int64, store Store, purchaser Purchaser) (*Actor, error) {
	transactionID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction id: %w", err)
	}

	return &Actor{
		playerID:      playerID,
		transactionID: transactionID,
		store:         store,
		purchaser:     purchaser,
		state:         model.AuthOnboarding,
	}, nil
}

func (a *Actor) TransactionID() string {
	return a.transactionID
}

func (a *Actor) State() model.AuthStateName {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Actor) Matches(state model.AuthStateName) bool {
	return a.State() == state
}

func (a *Actor) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *Actor) Send(ctx context.Context, event model.AuthEvent) error {
	log := logger.Logger().With(
		zap.Int64("player_id", a.playerID),
		zap.String("transaction_id", a.transactionID),
		zap.String("event", string(event.Type)))

	switch event.Type {
	case model.AuthEventSignIn:
		a.mu.Lock()
		a.state = model.AuthSigningIn
		a.mu.Unlock()
		log.Info("player chose to sign in with an existing wallet")
		return nil

	case model.AuthEventSetWallet:
		if event.Wallet == nil {
			return fmt.Errorf("%w: missing wallet data", ErrInvalidEvent)
		}
		if err := a.store.SetWallet(ctx, a.playerID, event.Wallet.Wallet, event.Wallet.Provider); err != nil {
			return fmt.Errorf("failed to store wallet: %w", err)
		}
		a.mu.Lock()
		a.wallet = event.Wallet
		a.state = model.AuthWalletSet
		a.mu.Unlock()
		return nil

	case model.AuthEventSetToken:
		if event.Token == nil || event.Token.Token == "" {
			return fmt.Errorf("%w: missing token data", ErrInvalidEvent)
		}
		if err := a.store.SetWalletAccount(ctx, a.playerID, event.Token.Account, event.Token.Token); err != nil {
			return fmt.Errorf("failed to store wallet account: %w", err)
		}
		a.mu.Lock()
		a.account = event.Token.Account
		a.token = event.Token.Token
		a.state = model.AuthAuthorised
		a.mu.Unlock()
		return nil

	case model.AuthEventBuyFullAccount:
		if !a.Matches(model.AuthAuthorised) && !a.Matches(model.AuthPurchasing) {
			return ErrNoTransition
		}
		if err := a.purchaser.SendFarmInvoice(ctx, a.playerID); err != nil {
			log.Error("failed to send farm invoice", zap.Error(err))
			return fmt.Errorf("failed to send farm invoice: %w", err)
		}
		a.mu.Lock()
		a.state = model.AuthPurchasing
		a.mu.Unlock()
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrInvalidEvent, event.Type)
	}
}
