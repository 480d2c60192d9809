package service

import (
	"context"
	"errors"
	"time"

	"farm_miniapp/internal/model"
)

var (
	ErrClaimNotAvailable = errors.New("the daily reward has already been collected today")
	ErrUserNotFound      = errors.New("user not found")
	ErrCodeMismatch      = errors.New("chest code does not match the pending chest")
	ErrNoPendingChest    = errors.New("no chest is waiting to be opened")
)

type UserServiceI interface {
	RegisterUser(ctx context.Context, user *model.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

type DailyRewardServiceI interface {
	GetStatus(ctx context.Context, telegramID int64) (*DailyRewardStatus, error)
	Collect(ctx context.Context, telegramID int64, event model.RevealEvent) (*model.RevealedReward, error)
}

type DailyRewardRepository interface {
	GetDailyReward(ctx context.Context, telegramID int64) (*model.DailyReward, error)
	RecordReveal(ctx context.Context, reward *model.DailyReward, revealed *model.RevealedReward) error
}

type CodeStore interface {
	SetPendingCode(ctx context.Context, telegramID int64, code int, expiresAt time.Time) error
	GetPendingCode(ctx context.Context, telegramID int64) (int, error)
	DeletePendingCode(ctx context.Context, telegramID int64) error
}

type PurchaseRepository interface {
	UpgradeToFullAccount(ctx context.Context, telegramID int64) error
}
