// Package gameflow is the per-player game state actor the UI flows
// dispatch REVEAL, UPGRADE and CLOSE events to.
package gameflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"farm_miniapp/internal/model"
	"farm_miniapp/pkg/logger"

	"go.uber.org/zap"
)

var (
	ErrInvalidEvent = errors.New("invalid game event")
	ErrNoTransition = errors.New("no transition for game event in current state")
)

type Store interface {
	GetGameSnapshot(ctx context.Context, playerID int64) (*model.GameSnapshot, error)
}

// RewardResolver is the server side authority that decides what a revealed
// chest contains.
type RewardResolver interface {
	Collect(ctx context.Context, playerID int64, event model.RevealEvent) (*model.RevealedReward, error)
}

type Actor struct {
	playerID int64
	store    Store
	rewards  RewardResolver

	mu       sync.RWMutex
	state    model.GameStateName
	snapshot model.GameSnapshot
}

func New(ctx context.Context, playerID int64, store Store, rewards RewardResolver) (*Actor, error) {
	a := &Actor{
		playerID: playerID,
		store:    store,
		rewards:  rewards,
	}
	if err := a.Refresh(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Refresh reloads the snapshot and resets the actor to its idle state.
func (a *Actor) Refresh(ctx context.Context) error {
	snapshot, err := a.store.GetGameSnapshot(ctx, a.playerID)
	if err != nil {
		return fmt.Errorf("failed to load game snapshot: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshot = *snapshot
	a.state = idleState(snapshot.Guest)

	return nil
}

func idleState(guest bool) model.GameStateName {
	if guest {
		return model.GamePlayingGuestGame
	}
	return model.GamePlaying
}

func (a *Actor) Snapshot() model.GameSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

func (a *Actor) State() model.GameStateName {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *Actor) Matches(state model.GameStateName) bool {
	return a.State() == state
}

func (a *Actor) Send(ctx context.Context, event model.GameEvent) error {
	switch event.Type {
	case model.GameEventReveal:
		return a.reveal(ctx, event.Reveal)
	case model.GameEventUpgrade:
		return a.upgrade()
	case model.GameEventClose:
		a.mu.Lock()
		a.state = model.GameClosed
		a.mu.Unlock()
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEvent, event.Type)
	}
}

func (a *Actor) reveal(ctx context.Context, event *model.RevealEvent) error {
	if event == nil || event.Type != model.DailyRewardCollected {
		return fmt.Errorf("%w: reveal requires a %s payload", ErrInvalidEvent, model.DailyRewardCollected)
	}

	a.mu.Lock()
	if a.snapshot.Guest || a.state == model.GameRevealing {
		defer a.mu.Unlock()
		return ErrNoTransition
	}
	previous := a.state
	a.state = model.GameRevealing
	a.mu.Unlock()

	reward, err := a.rewards.Collect(ctx, a.playerID, *event)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.state = previous
		return fmt.Errorf("failed to reveal daily reward: %w", err)
	}

	a.state = model.GameRevealed
	a.snapshot.Chest = &model.DailyRewardChest{
		Code:        reward.Code,
		CollectedAt: reward.CollectedAt.Unix(),
	}
	a.snapshot.LastReward = reward

	logger.Logger().Info("daily reward revealed",
		zap.Int64("player_id", a.playerID),
		zap.Int("points", reward.Points),
		zap.Int("streak", reward.Streak))

	return nil
}

func (a *Actor) upgrade() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != model.GamePlayingGuestGame {
		return ErrNoTransition
	}
	a.state = model.GameUpgrading
	return nil
}
