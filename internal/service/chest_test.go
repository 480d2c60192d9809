package service

import (
	"context"
	"testing"
	"time"

	"farm_miniapp/internal/repository"
	"farm_miniapp/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newChestService(codes *mocks.MockCodeStore, next int) *ChestService {
	s := NewChestService(codes)
	s.now = func() time.Time { return testNow }
	s.rand = func(int) int { return next }
	return s
}

func TestChestService_LoadChest(t *testing.T) {
	midnight := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		random       int
		lastUsedCode int
		expectedCode int
	}{
		{name: "Fresh code", random: 41, lastUsedCode: 0, expectedCode: 42},
		{name: "Avoids last used code", random: 41, lastUsedCode: 42, expectedCode: 43},
		{name: "Wraps at the top of the range", random: maxChestCode - 2, lastUsedCode: maxChestCode - 1, expectedCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := &mocks.MockCodeStore{}
			codes.On("SetPendingCode", mock.Anything, int64(1), tt.expectedCode, midnight).Return(nil)

			code, err := newChestService(codes, tt.random).LoadChest(context.Background(), 1, tt.lastUsedCode)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCode, code)
			assert.NotEqual(t, tt.lastUsedCode, code)

			codes.AssertExpectations(t)
		})
	}
}

func TestChestService_LoadChestStoreError(t *testing.T) {
	codes := &mocks.MockCodeStore{}
	codes.On("SetPendingCode", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := newChestService(codes, 1).LoadChest(context.Background(), 1, 0)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestChestService_Unlock(t *testing.T) {
	tests := []struct {
		name          string
		pending       int
		pendingErr    error
		code          int
		expectedError error
	}{
		{name: "Matching code", pending: 7, code: 7},
		{name: "Different code", pending: 7, code: 8, expectedError: ErrCodeMismatch},
		{name: "Expired code", pendingErr: repository.ErrNoPendingCode, code: 7, expectedError: ErrNoPendingChest},
		{name: "Store failure", pendingErr: assert.AnError, code: 7, expectedError: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := &mocks.MockCodeStore{}
			codes.On("GetPendingCode", mock.Anything, int64(1)).Return(tt.pending, tt.pendingErr)

			err := newChestService(codes, 0).Unlock(context.Background(), 1, tt.code)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}
}
