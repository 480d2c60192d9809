package mocks

import (
	"context"

	"farm_miniapp/internal/model"
	"farm_miniapp/internal/wallet"

	"github.com/stretchr/testify/mock"
)

type MockSDK struct {
	mock.Mock
}

func (m *MockSDK) InitWallet(ctx context.Context, network string) (wallet.Handle, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(wallet.Handle), args.Error(1)
}

type MockHandle struct {
	mock.Mock
}

func (m *MockHandle) Connect(ctx context.Context, opts wallet.ConnectOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockHandle) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockHandle) Provider() wallet.Provider {
	args := m.Called()
	return args.Get(0).(wallet.Provider)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) Accounts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockWallet struct {
	mock.Mock
}

func (m *MockWallet) Initialise(ctx context.Context, provider wallet.Provider, kind model.WalletKind) error {
	args := m.Called(ctx, provider, kind)
	return args.Error(0)
}

func (m *MockWallet) MyAccount() *string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*string)
}

type MockLogin struct {
	mock.Mock
}

func (m *MockLogin) Login(ctx context.Context, transactionID, account string) (string, error) {
	args := m.Called(ctx, transactionID, account)
	return args.String(0), args.Error(1)
}

type MockAuth struct {
	mock.Mock
}

func (m *MockAuth) Send(ctx context.Context, event model.AuthEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuth) TransactionID() string {
	args := m.Called()
	return args.String(0)
}

type MockGame struct {
	mock.Mock
}

func (m *MockGame) Send(ctx context.Context, event model.GameEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
