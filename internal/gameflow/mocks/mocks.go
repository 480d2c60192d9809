package mocks

import (
	"context"

	"farm_miniapp/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetGameSnapshot(ctx context.Context, playerID int64) (*model.GameSnapshot, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GameSnapshot), args.Error(1)
}

type MockRewardResolver struct {
	mock.Mock
}

func (m *MockRewardResolver) Collect(ctx context.Context, playerID int64, event model.RevealEvent) (*model.RevealedReward, error) {
	args := m.Called(ctx, playerID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RevealedReward), args.Error(1)
}
