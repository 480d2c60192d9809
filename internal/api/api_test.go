package api

import (
	"bytes"
	"context"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	authmocks "farm_miniapp/internal/authflow/mocks"
	chestmocks "farm_miniapp/internal/chest/mocks"
	gamemocks "farm_miniapp/internal/gameflow/mocks"
	"farm_miniapp/internal/middleware"
	"farm_miniapp/internal/model"
	onboardingmocks "farm_miniapp/internal/onboarding/mocks"
	"farm_miniapp/internal/service"
	"farm_miniapp/internal/service/mocks"
	"farm_miniapp/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const playerID = int64(42)

type chestCodes struct {
	*chestmocks.MockLoader
	*chestmocks.MockUnlocker
}

type fixture struct {
	router    *gin.Engine
	users     *mocks.MockUserRepository
	rewards   *mocks.MockDailyRewardRepository
	codes     *mocks.MockCodeStore
	games     *gamemocks.MockStore
	resolver  *gamemocks.MockRewardResolver
	loader    *chestmocks.MockLoader
	unlocker  *chestmocks.MockUnlocker
	authStore *authmocks.MockStore
	purchaser *authmocks.MockPurchaser
	sdk       *onboardingmocks.MockSDK
	login     *onboardingmocks.MockLogin
}

func newFixture(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)

	f := &fixture{
		users:     &mocks.MockUserRepository{},
		rewards:   &mocks.MockDailyRewardRepository{},
		codes:     &mocks.MockCodeStore{},
		games:     &gamemocks.MockStore{},
		resolver:  &gamemocks.MockRewardResolver{},
		loader:    &chestmocks.MockLoader{},
		unlocker:  &chestmocks.MockUnlocker{},
		authStore: &authmocks.MockStore{},
		purchaser: &authmocks.MockPurchaser{},
		sdk:       &onboardingmocks.MockSDK{},
		login:     &onboardingmocks.MockLogin{},
	}

	notifier := service.NewChestNotifier()
	sessions, err := service.NewSessions(service.SessionsConfig{Size: 8}, service.SessionDeps{
		Games:     f.games,
		Rewards:   f.resolver,
		Chests:    chestCodes{f.loader, f.unlocker},
		Auth:      f.authStore,
		Purchaser: f.purchaser,
		Wallets:   f.sdk,
		Login:     f.login,
		Notifier:  notifier,
	})
	require.NoError(t, err)

	userService := service.NewUserService(f.users)
	a := auth.NewTelegramAuth("token", true)
	authz := middleware.NewAuthorization(userService)

	f.router = gin.New()
	v1 := f.router.Group("/api/v1")
	NewUserRoutes(v1, userService, a, authz)
	NewDailyRewardRoutes(v1, sessions, service.NewDailyRewardService(f.rewards, f.codes), notifier, a, authz)
	NewOnboardingRoutes(v1, sessions, a, authz)
	NewAdminRoutes(v1, f.codes, a, authz)

	return f
}

func (f *fixture) registered(snapshot *model.GameSnapshot) {
	f.users.On("GetUserByTelegramID", mock.Anything, playerID).
		Return(&model.User{TelegramID: playerID, Equipped: model.Equipped{Body: "Beige Farmer Potion"}}, nil)
	f.games.On("GetGameSnapshot", mock.Anything, playerID).Return(snapshot, nil)
}

func telegramHeader() string {
	values := url.Values{}
	values.Set("auth_date", "1710000000")
	values.Set("user", `{"id":42,"username":"farmer"}`)
	values.Set("hash", "ignored")
	return "Telegram " + values.Encode()
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	return f.doContext(context.Background(), method, path, body)
}

func (f *fixture) doContext(ctx context.Context, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf).WithContext(ctx)
	req.Header.Set("Authorization", telegramHeader())
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func farmSnapshot(experience float64) *model.GameSnapshot {
	return &model.GameSnapshot{
		PlayerID: playerID,
		Bumpkin:  &model.Bumpkin{Experience: experience, Equipped: model.Equipped{Body: "Beige Farmer Potion"}},
	}
}

var collectedAt = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
