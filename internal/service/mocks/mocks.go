package mocks

import (
	"context"
	"time"

	"farm_miniapp/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockDailyRewardRepository struct {
	mock.Mock
}

func (m *MockDailyRewardRepository) GetDailyReward(ctx context.Context, telegramID int64) (*model.DailyReward, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyReward), args.Error(1)
}

func (m *MockDailyRewardRepository) RecordReveal(ctx context.Context, reward *model.DailyReward, revealed *model.RevealedReward) error {
	args := m.Called(ctx, reward, revealed)
	return args.Error(0)
}

type MockCodeStore struct {
	mock.Mock
}

func (m *MockCodeStore) SetPendingCode(ctx context.Context, telegramID int64, code int, expiresAt time.Time) error {
	args := m.Called(ctx, telegramID, code, expiresAt)
	return args.Error(0)
}

func (m *MockCodeStore) GetPendingCode(ctx context.Context, telegramID int64) (int, error) {
	args := m.Called(ctx, telegramID)
	return args.Int(0), args.Error(1)
}

func (m *MockCodeStore) DeletePendingCode(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) UpgradeToFullAccount(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
