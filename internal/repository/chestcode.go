package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

func chestCodeKey(telegramID int64) string {
	return "chest:code:" + strconv.FormatInt(telegramID, 10)
}

// SetPendingCode keeps code until expiresAt, replacing any previous one.
func (r *Repository) SetPendingCode(ctx context.Context, telegramID int64, code int, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("pending code for %d already expired", telegramID)
	}
	return r.rdb.Set(ctx, chestCodeKey(telegramID), code, ttl).Err()
}

func (r *Repository) GetPendingCode(ctx context.Context, telegramID int64) (int, error) {
	code, err := r.rdb.Get(ctx, chestCodeKey(telegramID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoPendingCode
		}
		return 0, err
	}
	return code, nil
}

func (r *Repository) DeletePendingCode(ctx context.Context, telegramID int64) error {
	return r.rdb.Del(ctx, chestCodeKey(telegramID)).Err()
}
