// Package chest implements the daily reward chest interaction flow.
package chest

import (
	"context"
	"errors"
	"sync"
	"time"

	"farm_miniapp/internal/model"
	"farm_miniapp/pkg/logger"

	"go.uber.org/zap"
)

// MinLevel is the bumpkin level required to claim daily rewards.
const MinLevel = 3

var (
	ErrNoTransition = errors.New("no transition for event in current state")
	ErrNotRevealed  = errors.New("reward has not been revealed yet")
	ErrUnknownEvent = errors.New("unknown chest event")
)

type Loader interface {
	LoadChest(ctx context.Context, playerID int64, lastUsedCode int) (int, error)
}

type Unlocker interface {
	Unlock(ctx context.Context, playerID int64, code int) error
}

// Game is the external game state actor the chest reveals through.
type Game interface {
	Send(ctx context.Context, event model.GameEvent) error
	Matches(state model.GameStateName) bool
}

type Transition struct {
	PlayerID int64
	Event    model.ChestEvent
	From     model.ChestState
	To       model.ChestState
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithObserver registers fn to be called after every state change. It is
// called outside the controller lock.
func WithObserver(fn func(Transition)) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, fn)
	}
}

type Controller struct {
	playerID int64
	loader   Loader
	unlocker Unlocker
	game     Game
	now      func() time.Time

	observers []func(Transition)

	mu      sync.Mutex
	state   model.ChestState
	data    model.RewardChestState
	loadHit bool
}

func NewController(playerID int64, data model.RewardChestState, loader Loader, unlocker Unlocker, game Game, opts ...Option) *Controller {
	c := &Controller{
		playerID: playerID,
		loader:   loader,
		unlocker: unlocker,
		game:     game,
		now:      time.Now,
		state:    model.ChestLoading,
		data:     data,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() model.ChestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Data() model.RewardChestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

func (c *Controller) PlayerID() int64 {
	return c.playerID
}

// Send applies event and returns the resulting state. Events without a
// transition from the current state leave it untouched and return
// ErrNoTransition. Collaborator failures move the chest to ChestError and
// are not returned.
func (c *Controller) Send(ctx context.Context, event model.ChestEvent) (model.ChestState, error) {
	switch event {
	case model.ChestEventLoad:
		return c.load(ctx)
	case model.ChestEventUnlock:
		return c.unlock(ctx)
	case model.ChestEventOpen:
		return c.open(ctx)
	case model.ChestEventAcknowledge:
		return c.acknowledge()
	default:
		return c.State(), ErrUnknownEvent
	}
}

func (c *Controller) load(ctx context.Context) (model.ChestState, error) {
	c.mu.Lock()
	if c.state != model.ChestLoading || c.loadHit {
		defer c.mu.Unlock()
		return c.state, ErrNoTransition
	}
	c.loadHit = true
	data := c.data
	now := c.now()

	if data.BumpkinLevel < MinLevel {
		t := c.setLocked(model.ChestEventLoad, model.ChestComingSoon)
		c.mu.Unlock()
		c.notify(t)
		return t.To, nil
	}

	if OpenedToday(data.OpenedAt, now) {
		t := c.setLocked(model.ChestEventLoad, model.ChestOpened)
		c.mu.Unlock()
		c.notify(t)
		return t.To, nil
	}
	c.mu.Unlock()

	code, err := c.loader.LoadChest(ctx, c.playerID, data.LastUsedCode)

	c.mu.Lock()
	var t Transition
	if err != nil {
		logger.Logger().Error("failed to load daily reward chest",
			zap.Int64("player_id", c.playerID), zap.Error(err))
		t = c.setLocked(model.ChestEventLoad, model.ChestError)
	} else {
		c.data.Code = code
		t = c.setLocked(model.ChestEventLoad, model.ChestLocked)
	}
	c.mu.Unlock()
	c.notify(t)

	return t.To, nil
}

func (c *Controller) unlock(ctx context.Context) (model.ChestState, error) {
	c.mu.Lock()
	if c.state != model.ChestLocked {
		defer c.mu.Unlock()
		return c.state, ErrNoTransition
	}
	code := c.data.Code
	t := c.setLocked(model.ChestEventUnlock, model.ChestUnlocking)
	c.mu.Unlock()
	c.notify(t)

	err := c.unlocker.Unlock(ctx, c.playerID, code)

	c.mu.Lock()
	if err != nil {
		logger.Logger().Error("failed to unlock daily reward chest",
			zap.Int64("player_id", c.playerID), zap.Int("code", code), zap.Error(err))
		t = c.setLocked(model.ChestEventUnlock, model.ChestError)
	} else {
		t = c.setLocked(model.ChestEventUnlock, model.ChestUnlocked)
	}
	c.mu.Unlock()
	c.notify(t)

	return t.To, nil
}

func (c *Controller) open(ctx context.Context) (model.ChestState, error) {
	c.mu.Lock()
	if c.state != model.ChestUnlocked {
		defer c.mu.Unlock()
		return c.state, ErrNoTransition
	}
	event := model.GameEvent{
		Type: model.GameEventReveal,
		Reveal: &model.RevealEvent{
			Type:      model.DailyRewardCollected,
			CreatedAt: c.now(),
			Code:      c.data.Code,
		},
	}
	t := c.setLocked(model.ChestEventOpen, model.ChestOpening)
	c.mu.Unlock()
	c.notify(t)

	if err := c.game.Send(ctx, event); err != nil {
		logger.Logger().Error("failed to reveal daily reward",
			zap.Int64("player_id", c.playerID), zap.Int("code", event.Reveal.Code), zap.Error(err))
		c.mu.Lock()
		t = c.setLocked(model.ChestEventOpen, model.ChestError)
		c.mu.Unlock()
		c.notify(t)
	}

	return t.To, nil
}

func (c *Controller) acknowledge() (model.ChestState, error) {
	c.mu.Lock()
	if c.state != model.ChestOpening {
		defer c.mu.Unlock()
		return c.state, ErrNoTransition
	}
	if !c.game.Matches(model.GameRevealed) {
		defer c.mu.Unlock()
		return c.state, ErrNotRevealed
	}
	c.data.OpenedAt = c.now().Unix()
	c.data.LastUsedCode = c.data.Code
	t := c.setLocked(model.ChestEventAcknowledge, model.ChestOpened)
	c.mu.Unlock()
	c.notify(t)

	return t.To, nil
}

// setLocked must be called with c.mu held.
func (c *Controller) setLocked(event model.ChestEvent, to model.ChestState) Transition {
	t := Transition{PlayerID: c.playerID, Event: event, From: c.state, To: to}
	c.state = to
	return t
}

func (c *Controller) notify(t Transition) {
	for _, fn := range c.observers {
		fn(t)
	}
}
