package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"farm_miniapp/internal/repository"
)

const maxChestCode = 1_000_000

// ChestService issues and checks the one-time codes a chest is opened with.
type ChestService struct {
	codes CodeStore
	now   func() time.Time
	rand  func(n int) int
}

func NewChestService(codes CodeStore) *ChestService {
	return &ChestService{
		codes: codes,
		now:   time.Now,
		rand:  rand.Intn,
	}
}

// LoadChest issues a code different from lastUsedCode that stays valid until
// the next UTC midnight.
func (s *ChestService) LoadChest(ctx context.Context, telegramID int64, lastUsedCode int) (int, error) {
	code := s.rand(maxChestCode-1) + 1
	if code == lastUsedCode {
		code = code%(maxChestCode-1) + 1
	}

	expiresAt := startOfUTCDay(s.now()).Add(24 * time.Hour)
	if err := s.codes.SetPendingCode(ctx, telegramID, code, expiresAt); err != nil {
		return 0, fmt.Errorf("failed to store chest code: %w", err)
	}

	return code, nil
}

func (s *ChestService) Unlock(ctx context.Context, telegramID int64, code int) error {
	pending, err := s.codes.GetPendingCode(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNoPendingCode) {
			return ErrNoPendingChest
		}
		return fmt.Errorf("failed to get pending chest code: %w", err)
	}
	if pending != code {
		return ErrCodeMismatch
	}
	return nil
}
