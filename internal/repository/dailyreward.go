package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"farm_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type DailyReward struct {
	UserTelegramID         int64      `db:"user_telegram_id"`
	LastCode               int        `db:"last_code"`
	LastClaimedAt          *time.Time `db:"last_claimed_at"`
	ConsecutiveDaysClaimed int        `db:"consecutive_days_claimed"`
}

func (r *Repository) GetDailyReward(ctx context.Context, telegramID int64) (*model.DailyReward, error) {
	return r.getDailyReward(ctx, r.db, telegramID)
}

func (r *Repository) getDailyReward(ctx context.Context, q sqlx.QueryerContext, telegramID int64) (*model.DailyReward, error) {
	var reward DailyReward

	query, args, err := squirrel.
		Select("user_telegram_id", "last_code", "last_claimed_at", "consecutive_days_claimed").
		From("daily_rewards").
		Where(squirrel.Eq{"user_telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = sqlx.GetContext(ctx, q, &reward, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.DailyReward{
		UserTelegramID:         reward.UserTelegramID,
		LastCode:               reward.LastCode,
		LastClaimedAt:          reward.LastClaimedAt,
		ConsecutiveDaysClaimed: reward.ConsecutiveDaysClaimed,
	}, nil
}

func (r *Repository) updateDailyRewardWithTx(ctx context.Context, tx *sqlx.Tx, reward *model.DailyReward) error {
	query, args, err := squirrel.
		Update("daily_rewards").
		SetMap(map[string]interface{}{
			"last_code":                reward.LastCode,
			"last_claimed_at":          reward.LastClaimedAt,
			"consecutive_days_claimed": reward.ConsecutiveDaysClaimed,
		}).
		Where(squirrel.Eq{"user_telegram_id": reward.UserTelegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	return expectRows(result)
}

// RecordReveal stores the collection, appends it to the reward history and
// credits the points in a single transaction. A second collection on the
// same UTC day fails with ErrAlreadyClaimed.
func (r *Repository) RecordReveal(ctx context.Context, reward *model.DailyReward, revealed *model.RevealedReward) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		current, err := r.getDailyReward(ctx, tx, reward.UserTelegramID)
		if err != nil {
			return err
		}
		if current.LastClaimedAt != nil && sameUTCDay(*current.LastClaimedAt, revealed.CollectedAt) {
			return ErrAlreadyClaimed
		}

		if err := r.updateDailyRewardWithTx(ctx, tx, reward); err != nil {
			return err
		}

		if revealed.EventID == uuid.Nil {
			revealed.EventID = uuid.New()
		}

		historyQuery, historyArgs, err := squirrel.
			Insert("daily_reward_history").
			SetMap(map[string]interface{}{
				"event_id":         revealed.EventID,
				"user_telegram_id": reward.UserTelegramID,
				"code":             revealed.Code,
				"points":           revealed.Points,
				"streak":           revealed.Streak,
				"collected_at":     revealed.CollectedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, historyQuery, historyArgs...); err != nil {
			return err
		}

		return r.updateUserPointsWithTx(ctx, tx, reward.UserTelegramID, revealed.Points)
	})
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
