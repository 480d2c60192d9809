package service

import (
	"context"
	"testing"
	"time"

	"farm_miniapp/internal/chest"
	chestmocks "farm_miniapp/internal/chest/mocks"
	gamemocks "farm_miniapp/internal/gameflow/mocks"
	"farm_miniapp/internal/model"
	"farm_miniapp/internal/onboarding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type chestCodes struct {
	*chestmocks.MockLoader
	*chestmocks.MockUnlocker
}

type sessionsFixture struct {
	sessions *Sessions
	store    *gamemocks.MockStore
	rewards  *gamemocks.MockRewardResolver
	loader   *chestmocks.MockLoader
	unlocker *chestmocks.MockUnlocker
	notifier *ChestNotifier
	seen     []chest.Transition
}

func newSessionsFixture(t *testing.T) *sessionsFixture {
	f := &sessionsFixture{
		store:    &gamemocks.MockStore{},
		rewards:  &gamemocks.MockRewardResolver{},
		loader:   &chestmocks.MockLoader{},
		unlocker: &chestmocks.MockUnlocker{},
		notifier: NewChestNotifier(),
	}

	sessions, err := NewSessions(SessionsConfig{Size: 4, Network: "mainnet", App: "Farm"}, SessionDeps{
		Games:    f.store,
		Rewards:  f.rewards,
		Chests:   chestCodes{f.loader, f.unlocker},
		Notifier: f.notifier,
		ChestObservers: []func(chest.Transition){
			func(t chest.Transition) { f.seen = append(f.seen, t) },
		},
	})
	require.NoError(t, err)
	f.sessions = sessions

	return f
}

func farmer(experience float64) *model.GameSnapshot {
	return &model.GameSnapshot{
		PlayerID: 1,
		Bumpkin:  &model.Bumpkin{Experience: experience, Equipped: model.Equipped{Body: "Beige Farmer Potion"}},
	}
}

func TestSessions_ChestRewardFlow(t *testing.T) {
	f := newSessionsFixture(t)
	ctx := context.Background()

	f.store.On("GetGameSnapshot", mock.Anything, int64(1)).Return(farmer(100), nil)
	f.loader.On("LoadChest", mock.Anything, int64(1), 0).Return(7, nil)
	f.unlocker.On("Unlock", mock.Anything, int64(1), 7).Return(nil)
	f.rewards.On("Collect", mock.Anything, int64(1), mock.MatchedBy(func(e model.RevealEvent) bool {
		return e.Code == 7 && e.Type == model.DailyRewardCollected
	})).Return(&model.RevealedReward{Code: 7, Points: 640, Streak: 2, CollectedAt: time.Now()}, nil)

	views, cancel := f.notifier.Subscribe(1)
	defer cancel()

	view, err := f.sessions.OpenChest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ChestLocked, view.State)
	assert.Equal(t, model.ChestActionUnlock, view.Action)

	view, err = f.sessions.SendChest(ctx, 1, model.ChestEventUnlock)
	require.NoError(t, err)
	assert.Equal(t, model.ChestUnlocked, view.State)

	view, err = f.sessions.SendChest(ctx, 1, model.ChestEventOpen)
	require.NoError(t, err)
	assert.Equal(t, model.ChestOpening, view.State)
	assert.Equal(t, model.ChestActionAcknowledge, view.Action)

	view, err = f.sessions.SendChest(ctx, 1, model.ChestEventAcknowledge)
	require.NoError(t, err)
	assert.Equal(t, model.ChestOpened, view.State)
	assert.Positive(t, view.CountdownSeconds)

	_, err = f.sessions.SendChest(ctx, 1, model.ChestEventUnlock)
	assert.ErrorIs(t, err, chest.ErrNoTransition)

	require.Len(t, f.seen, 5)
	assert.Equal(t, model.ChestOpened, f.seen[4].To)
	assert.Len(t, views, 5)
}

func TestSessions_OpenChestLowLevel(t *testing.T) {
	f := newSessionsFixture(t)
	f.store.On("GetGameSnapshot", mock.Anything, int64(1)).Return(farmer(0), nil)

	view, err := f.sessions.OpenChest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.ChestComingSoon, view.State)
	f.loader.AssertNotCalled(t, "LoadChest", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessions_OpenChestAlreadyOpenedToday(t *testing.T) {
	f := newSessionsFixture(t)
	snapshot := farmer(100)
	snapshot.Chest = &model.DailyRewardChest{Code: 3, CollectedAt: time.Now().Unix()}
	f.store.On("GetGameSnapshot", mock.Anything, int64(1)).Return(snapshot, nil)

	view, err := f.sessions.OpenChest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.ChestOpened, view.State)
}

func TestSessions_OpenChestGuest(t *testing.T) {
	f := newSessionsFixture(t)
	snapshot := farmer(100)
	snapshot.Guest = true
	f.store.On("GetGameSnapshot", mock.Anything, int64(1)).Return(snapshot, nil)

	view, err := f.sessions.OpenChest(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, view.Guest)
	assert.Equal(t, model.ChestActionUpgrade, view.Action)

	_, err = f.sessions.Chest(1)
	assert.ErrorIs(t, err, ErrChestNotOpened)
}

func TestSessions_ChestBeforeOpen(t *testing.T) {
	f := newSessionsFixture(t)

	_, err := f.sessions.SendChest(context.Background(), 1, model.ChestEventUnlock)
	assert.ErrorIs(t, err, ErrSessionNotStarted)
}

func TestSessions_GameSnapshotError(t *testing.T) {
	f := newSessionsFixture(t)
	f.store.On("GetGameSnapshot", mock.Anything, int64(1)).Return(nil, assert.AnError)

	_, err := f.sessions.OpenChest(context.Background(), 1)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSessions_Wizard(t *testing.T) {
	f := newSessionsFixture(t)
	ctx := context.Background()
	f.store.On("GetGameSnapshot", mock.Anything, int64(1)).Return(farmer(10), nil)

	_, err := f.sessions.StartedWizard(1)
	assert.ErrorIs(t, err, ErrSessionNotStarted)

	w, err := f.sessions.Wizard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.StepCreateWallet, w.Step())

	again, err := f.sessions.Wizard(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, w, again)

	started, err := f.sessions.StartedWizard(1)
	require.NoError(t, err)
	assert.Same(t, w, started)

	f.sessions.DiscardWizard(1)
	_, err = f.sessions.StartedWizard(1)
	assert.ErrorIs(t, err, ErrWizardNotStarted)

	fresh, err := f.sessions.Wizard(ctx, 1)
	require.NoError(t, err)
	assert.NotSame(t, w, fresh)
}

func TestSessions_WizardWithoutBumpkin(t *testing.T) {
	f := newSessionsFixture(t)
	f.store.On("GetGameSnapshot", mock.Anything, int64(1)).Return(&model.GameSnapshot{PlayerID: 1}, nil)

	_, err := f.sessions.Wizard(context.Background(), 1)
	assert.ErrorIs(t, err, onboarding.ErrMissingProfile)
}

func TestSessions_AuthAndGameAreShared(t *testing.T) {
	f := newSessionsFixture(t)
	ctx := context.Background()
	f.store.On("GetGameSnapshot", mock.Anything, int64(1)).Return(farmer(10), nil).Once()

	auth, err := f.sessions.Auth(ctx, 1)
	require.NoError(t, err)
	again, err := f.sessions.Auth(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, auth, again)
	assert.Equal(t, auth.TransactionID(), again.TransactionID())

	game, err := f.sessions.Game(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.GamePlaying, game.State())

	f.store.AssertExpectations(t)
}
