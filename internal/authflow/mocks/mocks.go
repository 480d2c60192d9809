package mocks

import (
	"context"

	"farm_miniapp/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) SetWallet(ctx context.Context, telegramID int64, kind model.WalletKind, provider string) error {
	args := m.Called(ctx, telegramID, kind, provider)
	return args.Error(0)
}

func (m *MockStore) SetWalletAccount(ctx context.Context, telegramID int64, account, token string) error {
	args := m.Called(ctx, telegramID, account, token)
	return args.Error(0)
}

type MockPurchaser struct {
	mock.Mock
}

func (m *MockPurchaser) SendFarmInvoice(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}
