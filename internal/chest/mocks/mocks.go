package mocks

import (
	"context"

	"farm_miniapp/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) LoadChest(ctx context.Context, playerID int64, lastUsedCode int) (int, error) {
	args := m.Called(ctx, playerID, lastUsedCode)
	return args.Int(0), args.Error(1)
}

type MockUnlocker struct {
	mock.Mock
}

func (m *MockUnlocker) Unlock(ctx context.Context, playerID int64, code int) error {
	args := m.Called(ctx, playerID, code)
	return args.Error(0)
}

type MockGame struct {
	mock.Mock
}

func (m *MockGame) Send(ctx context.Context, event model.GameEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockGame) Matches(state model.GameStateName) bool {
	args := m.Called(state)
	return args.Bool(0)
}
