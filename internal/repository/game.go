package repository

import (
	"context"
	"errors"

	"farm_miniapp/internal/model"
)

// GetGameSnapshot assembles the state the chest and onboarding flows read.
func (r *Repository) GetGameSnapshot(ctx context.Context, telegramID int64) (*model.GameSnapshot, error) {
	user, err := r.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	snapshot := &model.GameSnapshot{
		PlayerID: user.TelegramID,
		Guest:    user.IsGuest,
		Bumpkin:  user.Bumpkin(),
	}

	reward, err := r.GetDailyReward(ctx, telegramID)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return nil, err
	case reward.LastClaimedAt != nil:
		snapshot.Chest = &model.DailyRewardChest{
			Code:        reward.LastCode,
			CollectedAt: reward.LastClaimedAt.Unix(),
		}
	}

	return snapshot, nil
}
