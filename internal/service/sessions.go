package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"farm_miniapp/internal/authflow"
	"farm_miniapp/internal/chest"
	"farm_miniapp/internal/gameflow"
	"farm_miniapp/internal/level"
	"farm_miniapp/internal/model"
	"farm_miniapp/internal/onboarding"
	"farm_miniapp/internal/wallet"
	"farm_miniapp/pkg/logger"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

const defaultSessionCacheSize = 1024

var (
	ErrChestNotOpened    = errors.New("daily reward chest is not open")
	ErrWizardNotStarted  = errors.New("onboarding has not been started")
	ErrSessionNotStarted = errors.New("no session for player")
)

type SessionsConfig struct {
	Size    int    `mapstructure:"size"`
	Network string `mapstructure:"network"`
	App     string `mapstructure:"app"`
}

// ChestCodes issues and checks chest codes for the chest controller.
type ChestCodes interface {
	chest.Loader
	chest.Unlocker
}

type SessionDeps struct {
	Games     gameflow.Store
	Rewards   gameflow.RewardResolver
	Chests    ChestCodes
	Auth      authflow.Store
	Purchaser authflow.Purchaser
	Wallets   wallet.SDK
	Login     onboarding.LoginService
	Notifier  *ChestNotifier

	ChestObservers []func(chest.Transition)
	StepObservers  []func(onboarding.StepChange)
}

type session struct {
	game *gameflow.Actor
	auth *authflow.Actor

	mu     sync.Mutex
	chest  *chest.Controller
	wizard *onboarding.Wizard
}

// Sessions keeps the per-player actors and UI controllers of recently
// active players. Evicted players start over on their next request.
type Sessions struct {
	cache   *lru.Cache
	deps    SessionDeps
	network string
	connect wallet.ConnectOptions
}

func NewSessions(cfg SessionsConfig, deps SessionDeps) (*Sessions, error) {
	size := cfg.Size
	if size <= 0 {
		size = defaultSessionCacheSize
	}

	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	return &Sessions{
		cache:   cache,
		deps:    deps,
		network: wallet.Network(cfg.Network),
		connect: wallet.ConnectOptions{
			App:            cfg.App,
			AskForEmail:    true,
			KeepWalletOpen: true,
		},
	}, nil
}

func (s *Sessions) session(ctx context.Context, telegramID int64) (*session, error) {
	if v, ok := s.cache.Get(telegramID); ok {
		return v.(*session), nil
	}

	game, err := gameflow.New(ctx, telegramID, s.deps.Games, s.deps.Rewards)
	if err != nil {
		return nil, err
	}
	auth, err := authflow.New(telegramID, s.deps.Auth, s.deps.Purchaser)
	if err != nil {
		return nil, err
	}

	sess := &session{game: game, auth: auth}
	if prev, ok, _ := s.cache.PeekOrAdd(telegramID, sess); ok {
		return prev.(*session), nil
	}
	return sess, nil
}

func (s *Sessions) peek(telegramID int64) (*session, error) {
	v, ok := s.cache.Peek(telegramID)
	if !ok {
		return nil, ErrSessionNotStarted
	}
	return v.(*session), nil
}

func (s *Sessions) Game(ctx context.Context, telegramID int64) (*gameflow.Actor, error) {
	sess, err := s.session(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return sess.game, nil
}

func (s *Sessions) Auth(ctx context.Context, telegramID int64) (*authflow.Actor, error) {
	sess, err := s.session(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return sess.auth, nil
}

// OpenChest creates a fresh chest controller from the latest game snapshot
// and loads it. Guest farms get the upgrade view and no controller.
func (s *Sessions) OpenChest(ctx context.Context, telegramID int64) (model.ChestView, error) {
	sess, err := s.session(ctx, telegramID)
	if err != nil {
		return model.ChestView{}, err
	}
	if err := sess.game.Refresh(ctx); err != nil {
		return model.ChestView{}, err
	}

	if sess.game.Matches(model.GamePlayingGuestGame) {
		sess.mu.Lock()
		sess.chest = nil
		sess.mu.Unlock()
		return chest.GuestView(model.ChestLocked), nil
	}

	snapshot := sess.game.Snapshot()
	data := model.RewardChestState{
		BumpkinLevel: level.BumpkinLevel(snapshot.Experience()),
	}
	if snapshot.Chest != nil {
		data.LastUsedCode = snapshot.Chest.Code
		data.OpenedAt = snapshot.Chest.CollectedAt
	}

	var controller *chest.Controller
	opts := make([]chest.Option, 0, len(s.deps.ChestObservers)+1)
	for _, fn := range s.deps.ChestObservers {
		opts = append(opts, chest.WithObserver(fn))
	}
	if s.deps.Notifier != nil {
		opts = append(opts, chest.WithObserver(func(t chest.Transition) {
			s.deps.Notifier.Publish(t.PlayerID, controller.View())
		}))
	}
	controller = chest.NewController(telegramID, data, s.deps.Chests, s.deps.Chests, sess.game, opts...)

	sess.mu.Lock()
	sess.chest = controller
	sess.mu.Unlock()

	if _, err := controller.Send(ctx, model.ChestEventLoad); err != nil {
		return model.ChestView{}, err
	}
	return controller.View(), nil
}

func (s *Sessions) Chest(telegramID int64) (*chest.Controller, error) {
	sess, err := s.peek(telegramID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.chest == nil {
		return nil, ErrChestNotOpened
	}
	return sess.chest, nil
}

// SendChest applies event to the open chest and returns the resulting view.
func (s *Sessions) SendChest(ctx context.Context, telegramID int64, event model.ChestEvent) (model.ChestView, error) {
	controller, err := s.Chest(telegramID)
	if err != nil {
		return model.ChestView{}, err
	}
	_, err = controller.Send(ctx, event)
	return controller.View(), err
}

// Wizard returns the player's onboarding wizard, starting one when needed.
func (s *Sessions) Wizard(ctx context.Context, telegramID int64) (*onboarding.Wizard, error) {
	sess, err := s.session(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.wizard != nil {
		return sess.wizard, nil
	}

	snapshot := sess.game.Snapshot()
	w, err := onboarding.New(telegramID, snapshot.Bumpkin, onboarding.Deps{
		SDK:     s.deps.Wallets,
		Wallet:  wallet.NewLocal(),
		Login:   s.deps.Login,
		Auth:    sess.auth,
		Game:    sess.game,
		Network: s.network,
		Connect: s.connect,
	})
	if err != nil {
		return nil, err
	}

	observers := s.deps.StepObservers
	w.OnStep = func(c onboarding.StepChange) {
		for _, fn := range observers {
			fn(c)
		}
	}

	sess.wizard = w
	return w, nil
}

// StartedWizard returns the running wizard without starting a new one.
func (s *Sessions) StartedWizard(telegramID int64) (*onboarding.Wizard, error) {
	sess, err := s.peek(telegramID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.wizard == nil {
		return nil, ErrWizardNotStarted
	}
	return sess.wizard, nil
}

// DiscardWizard drops the wizard so the next visit starts at step 1.
func (s *Sessions) DiscardWizard(telegramID int64) {
	sess, err := s.peek(telegramID)
	if err != nil {
		return
	}

	sess.mu.Lock()
	sess.wizard = nil
	sess.mu.Unlock()
}

// Refresh reloads the game snapshot of an active player.
func (s *Sessions) Refresh(ctx context.Context, telegramID int64) {
	sess, err := s.peek(telegramID)
	if err != nil {
		return
	}

	if err := sess.game.Refresh(ctx); err != nil {
		logger.Logger().Error("failed to refresh game session",
			zap.Int64("telegram_id", telegramID), zap.Error(err))
	}
}
