package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farm_miniapp/internal/model"
	"farm_miniapp/internal/repository"
	"farm_miniapp/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	BaseReward = 500
)

var DailyBonuses = []int{0, 140, 280, 400, 500, 600, 700}

type DailyRewardStatus struct {
	UserTelegramID         int64
	LastClaimedAt          *time.Time
	NextClaimAvailable     *time.Time
	IsAvailable            bool
	HasNeverBeenClaimed    bool
	ConsecutiveDaysClaimed int
	DailyRewards           []model.DayReward
}

// DailyRewardService decides what an opened chest is worth. Rewards grow
// with the streak of consecutive UTC days and wrap after a week.
type DailyRewardService struct {
	repo  DailyRewardRepository
	codes CodeStore
	now   func() time.Time
}

func NewDailyRewardService(repo DailyRewardRepository, codes CodeStore) *DailyRewardService {
	return &DailyRewardService{
		repo:  repo,
		codes: codes,
		now:   time.Now,
	}
}

func (s *DailyRewardService) GetStatus(ctx context.Context, telegramID int64) (*DailyRewardStatus, error) {
	reward, err := s.repo.GetDailyReward(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := s.now().UTC()
	hasNeverBeenClaimed := reward.LastClaimedAt == nil

	status := &DailyRewardStatus{
		UserTelegramID:         telegramID,
		LastClaimedAt:          reward.LastClaimedAt,
		ConsecutiveDaysClaimed: reward.ConsecutiveDaysClaimed,
		HasNeverBeenClaimed:    hasNeverBeenClaimed,
		DailyRewards:           make([]model.DayReward, len(DailyBonuses)),
	}

	if hasNeverBeenClaimed {
		status.IsAvailable = true
		status.ConsecutiveDaysClaimed = 0
	} else {
		nextClaimAvailable := startOfUTCDay(*reward.LastClaimedAt).Add(24 * time.Hour)
		status.NextClaimAvailable = &nextClaimAvailable
		status.IsAvailable = !now.Before(nextClaimAvailable)

		if daysBetween(*reward.LastClaimedAt, now) > 1 {
			status.ConsecutiveDaysClaimed = 0
		}
	}

	for i := range DailyBonuses {
		status.DailyRewards[i] = model.DayReward{
			Day:    i + 1,
			Reward: BaseReward + DailyBonuses[i],
		}
	}

	return status, nil
}

// Collect resolves a REVEAL for the pending chest code.
func (s *DailyRewardService) Collect(ctx context.Context, telegramID int64, event model.RevealEvent) (*model.RevealedReward, error) {
	pending, err := s.codes.GetPendingCode(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNoPendingCode) {
			return nil, ErrNoPendingChest
		}
		return nil, fmt.Errorf("failed to get pending chest code: %w", err)
	}
	if pending != event.Code {
		return nil, ErrCodeMismatch
	}

	status, err := s.GetStatus(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	if !status.IsAvailable {
		return nil, ErrClaimNotAvailable
	}

	streak := status.ConsecutiveDaysClaimed + 1
	if streak > len(DailyBonuses) {
		streak = 1
	}

	collectedAt := s.now().UTC()
	revealed := &model.RevealedReward{
		EventID:     uuid.New(),
		Code:        event.Code,
		Points:      BaseReward + DailyBonuses[streak-1],
		Streak:      streak,
		CollectedAt: collectedAt,
	}

	err = s.repo.RecordReveal(ctx, &model.DailyReward{
		UserTelegramID:         telegramID,
		LastCode:               event.Code,
		LastClaimedAt:          &collectedAt,
		ConsecutiveDaysClaimed: streak,
	}, revealed)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyClaimed) {
			return nil, ErrClaimNotAvailable
		}
		return nil, fmt.Errorf("failed to record daily reward: %w", err)
	}

	if err := s.codes.DeletePendingCode(ctx, telegramID); err != nil {
		logger.Logger().Warn("failed to delete pending chest code",
			zap.Int64("telegram_id", telegramID), zap.Error(err))
	}

	return revealed, nil
}

func startOfUTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(startOfUTCDay(to).Sub(startOfUTCDay(from)).Hours() / 24)
}
