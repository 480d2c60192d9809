// Package onboarding drives the three step wallet onboarding wizard.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"farm_miniapp/internal/model"
	"farm_miniapp/internal/wallet"
	"farm_miniapp/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrMissingProfile = errors.New("bumpkin is not defined")
	ErrBusy           = errors.New("onboarding action already in progress")
)

type WalletAdapter interface {
	Initialise(ctx context.Context, provider wallet.Provider, kind model.WalletKind) error
	MyAccount() *string
}

type LoginService interface {
	Login(ctx context.Context, transactionID, account string) (string, error)
}

type AuthActor interface {
	Send(ctx context.Context, event model.AuthEvent) error
	TransactionID() string
}

type GameActor interface {
	Send(ctx context.Context, event model.GameEvent) error
}

type Deps struct {
	SDK     wallet.SDK
	Wallet  WalletAdapter
	Login   LoginService
	Auth    AuthActor
	Game    GameActor
	Network string
	Connect wallet.ConnectOptions
}

type StepChange struct {
	PlayerID int64
	From     model.OnboardingStep
	To       model.OnboardingStep
}

type Wizard struct {
	playerID int64
	bumpkin  model.Bumpkin
	deps     Deps

	// OnStep is called after every step change, outside the lock.
	OnStep func(StepChange)

	mu      sync.Mutex
	step    model.OnboardingStep
	loading bool
}

// New fails with ErrMissingProfile when the player has no bumpkin.
func New(playerID int64, bumpkin *model.Bumpkin, deps Deps) (*Wizard, error) {
	if bumpkin == nil {
		return nil, ErrMissingProfile
	}
	return &Wizard{
		playerID: playerID,
		bumpkin:  *bumpkin,
		deps:     deps,
		step:     model.StepCreateWallet,
	}, nil
}

func (w *Wizard) Step() model.OnboardingStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

func (w *Wizard) View() model.OnboardingView {
	w.mu.Lock()
	step, loading := w.step, w.loading
	w.mu.Unlock()

	content, _ := Content(step)
	label := content.ButtonText
	if loading {
		label = content.LoadingText
	}

	return model.OnboardingView{
		Step:        step,
		Loading:     loading,
		Title:       content.Title,
		Icon:        content.Icon,
		Text:        content.Text,
		ButtonLabel: label,
		Equipped:    w.bumpkin.Equipped,
	}
}

// Advance runs the action of the current step. Wallet setup failures are
// returned as is and leave the wizard loading; login failures are logged
// and the wizard stays on the terms step.
func (w *Wizard) Advance(ctx context.Context) error {
	w.mu.Lock()
	if w.loading {
		w.mu.Unlock()
		return ErrBusy
	}

	step := w.step
	switch step {
	case model.StepCreateWallet:
		w.loading = true
		w.mu.Unlock()
		return w.initWallet(ctx)

	case model.StepAcceptTerms:
		account := w.deps.Wallet.MyAccount()
		if account == nil {
			w.mu.Unlock()
			logger.Logger().Debug("no wallet account to log in with", zap.Int64("player_id", w.playerID))
			return nil
		}
		w.loading = true
		w.mu.Unlock()
		w.initLogin(ctx, *account)
		return nil

	case model.StepBuyFarm:
		w.mu.Unlock()
		return w.deps.Auth.Send(ctx, model.AuthEvent{Type: model.AuthEventBuyFullAccount})

	default:
		w.mu.Unlock()
		return fmt.Errorf("unknown onboarding step %d", step)
	}
}

func (w *Wizard) initWallet(ctx context.Context) error {
	handle, err := w.deps.SDK.InitWallet(ctx, w.deps.Network)
	if err != nil {
		return err
	}

	if err := handle.Connect(ctx, w.deps.Connect); err != nil {
		return err
	}

	if !handle.IsConnected() {
		return wallet.ErrNotConnected
	}

	provider := handle.Provider()

	if err := w.deps.Wallet.Initialise(ctx, provider, model.WalletSequence); err != nil {
		return err
	}

	err = w.deps.Auth.Send(ctx, model.AuthEvent{
		Type:   model.AuthEventSetWallet,
		Wallet: &model.Web3Data{Provider: provider.ID(), Wallet: model.WalletSequence},
	})
	if err != nil {
		return err
	}

	w.finish(model.StepAcceptTerms)
	return nil
}

func (w *Wizard) initLogin(ctx context.Context, account string) {
	err := w.login(ctx, account)
	if err != nil {
		logger.Logger().Error("failed to log in wallet account",
			zap.Int64("player_id", w.playerID), zap.String("account", account), zap.Error(err))
		w.mu.Lock()
		w.loading = false
		w.mu.Unlock()
		return
	}

	w.finish(model.StepBuyFarm)
}

func (w *Wizard) login(ctx context.Context, account string) error {
	token, err := w.deps.Login.Login(ctx, w.deps.Auth.TransactionID(), account)
	if err != nil {
		return err
	}

	return w.deps.Auth.Send(ctx, model.AuthEvent{
		Type:  model.AuthEventSetToken,
		Token: &model.TokenData{Account: account, Token: token},
	})
}

func (w *Wizard) finish(to model.OnboardingStep) {
	w.mu.Lock()
	change := StepChange{PlayerID: w.playerID, From: w.step, To: to}
	w.step = to
	w.loading = false
	w.mu.Unlock()

	if w.OnStep != nil {
		w.OnStep(change)
	}
}

// SignIn is the "I already have a wallet" shortcut.
func (w *Wizard) SignIn(ctx context.Context) error {
	return w.deps.Auth.Send(ctx, model.AuthEvent{Type: model.AuthEventSignIn})
}

func (w *Wizard) Close(ctx context.Context) error {
	return w.deps.Game.Send(ctx, model.GameEvent{Type: model.GameEventClose})
}
