package authflow

import (
	"context"
	"testing"

	"farm_miniapp/internal/authflow/mocks"
	"farm_miniapp/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const playerID = int64(126)

func TestActor_OnboardingSequence(t *testing.T) {
	store := &mocks.MockStore{}
	purchaser := &mocks.MockPurchaser{}
	a, err := New(playerID, store, purchaser)
	require.NoError(t, err)
	require.Len(t, a.TransactionID(), 21)
	require.True(t, a.Matches(model.AuthOnboarding))

	ctx := context.Background()

	assert.ErrorIs(t, a.Send(ctx, model.AuthEvent{Type: model.AuthEventBuyFullAccount}), ErrNoTransition)

	store.On("SetWallet", mock.Anything, playerID, model.WalletSequence, "w-1").Return(nil)
	require.NoError(t, a.Send(ctx, model.AuthEvent{
		Type:   model.AuthEventSetWallet,
		Wallet: &model.Web3Data{Provider: "w-1", Wallet: model.WalletSequence},
	}))
	assert.True(t, a.Matches(model.AuthWalletSet))

	store.On("SetWalletAccount", mock.Anything, playerID, "0xabc", "token-1").Return(nil)
	require.NoError(t, a.Send(ctx, model.AuthEvent{
		Type:  model.AuthEventSetToken,
		Token: &model.TokenData{Account: "0xabc", Token: "token-1"},
	}))
	assert.True(t, a.Matches(model.AuthAuthorised))
	assert.Equal(t, "token-1", a.Token())

	purchaser.On("SendFarmInvoice", mock.Anything, playerID).Return(nil)
	require.NoError(t, a.Send(ctx, model.AuthEvent{Type: model.AuthEventBuyFullAccount}))
	assert.True(t, a.Matches(model.AuthPurchasing))

	store.AssertExpectations(t)
	purchaser.AssertExpectations(t)
}

func TestActor_Failures(t *testing.T) {
	tests := []struct {
		name          string
		event         model.AuthEvent
		mockSetup     func(store *mocks.MockStore)
		expectedError error
	}{
		{
			name:          "Wallet without data",
			event:         model.AuthEvent{Type: model.AuthEventSetWallet},
			expectedError: ErrInvalidEvent,
		},
		{
			name:          "Token without data",
			event:         model.AuthEvent{Type: model.AuthEventSetToken, Token: &model.TokenData{Account: "0xabc"}},
			expectedError: ErrInvalidEvent,
		},
		{
			name:          "Unknown event",
			event:         model.AuthEvent{Type: "LOGOUT"},
			expectedError: ErrInvalidEvent,
		},
		{
			name: "Store failure",
			event: model.AuthEvent{
				Type:   model.AuthEventSetWallet,
				Wallet: &model.Web3Data{Provider: "w-1", Wallet: model.WalletSequence},
			},
			mockSetup: func(store *mocks.MockStore) {
				store.On("SetWallet", mock.Anything, playerID, model.WalletSequence, "w-1").Return(assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mocks.MockStore{}
			if tt.mockSetup != nil {
				tt.mockSetup(store)
			}
			a, err := New(playerID, store, &mocks.MockPurchaser{})
			require.NoError(t, err)

			err = a.Send(context.Background(), tt.event)
			assert.ErrorIs(t, err, tt.expectedError)
			assert.True(t, a.Matches(model.AuthOnboarding))
		})
	}
}

func TestActor_SignIn(t *testing.T) {
	a, err := New(playerID, &mocks.MockStore{}, &mocks.MockPurchaser{})
	require.NoError(t, err)

	require.NoError(t, a.Send(context.Background(), model.AuthEvent{Type: model.AuthEventSignIn}))
	assert.Equal(t, model.AuthSigningIn, a.State())
}

func TestActor_InvoiceFailure(t *testing.T) {
	store := &mocks.MockStore{}
	purchaser := &mocks.MockPurchaser{}
	a, err := New(playerID, store, purchaser)
	require.NoError(t, err)

	store.On("SetWalletAccount", mock.Anything, playerID, "0xabc", "token-1").Return(nil)
	require.NoError(t, a.Send(context.Background(), model.AuthEvent{
		Type:  model.AuthEventSetToken,
		Token: &model.TokenData{Account: "0xabc", Token: "token-1"},
	}))

	purchaser.On("SendFarmInvoice", mock.Anything, playerID).Return(assert.AnError)
	err = a.Send(context.Background(), model.AuthEvent{Type: model.AuthEventBuyFullAccount})
	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, a.Matches(model.AuthAuthorised))
}
