package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farm_miniapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type User struct {
	TelegramID       int64          `db:"telegram_id"`
	Handle           string         `db:"handle"`
	Username         string         `db:"username"`
	Points           int            `db:"points"`
	IsGuest          bool           `db:"is_guest"`
	IsAdmin          bool           `db:"is_admin"`
	Experience       float64        `db:"experience"`
	Equipped         pq.StringArray `db:"equipped"`
	WalletKind       *string        `db:"wallet_kind"`
	WalletProvider   *string        `db:"wallet_provider"`
	WalletAccount    *string        `db:"wallet_account"`
	WalletToken      *string        `db:"wallet_token"`
	RegistrationDate time.Time      `db:"registration_date"`
	AuthDate         time.Time      `db:"last_auth_date"`
}

var userColumns = []string{
	"telegram_id",
	"handle",
	"username",
	"points",
	"is_guest",
	"is_admin",
	"experience",
	"equipped",
	"wallet_kind",
	"wallet_provider",
	"wallet_account",
	"wallet_token",
	"registration_date",
	"last_auth_date",
}

func (u User) toModel() *model.User {
	user := &model.User{
		TelegramID:       u.TelegramID,
		Handle:           u.Handle,
		Username:         u.Username,
		Points:           u.Points,
		IsGuest:          u.IsGuest,
		IsAdmin:          u.IsAdmin,
		Experience:       u.Experience,
		Equipped:         model.EquippedFromParts(u.Equipped),
		WalletAccount:    u.WalletAccount,
		RegistrationDate: u.RegistrationDate,
		AuthDate:         u.AuthDate,
	}
	if u.WalletKind != nil {
		kind := model.WalletKind(*u.WalletKind)
		user.WalletKind = &kind
	}
	return user
}

func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("users").
			SetMap(map[string]interface{}{
				"telegram_id":       user.TelegramID,
				"handle":            user.Handle,
				"username":          user.Username,
				"points":            user.Points,
				"is_guest":          user.IsGuest,
				"experience":        user.Experience,
				"equipped":          pq.StringArray(user.Equipped.Parts()),
				"registration_date": user.RegistrationDate,
				"last_auth_date":    user.AuthDate,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		rewardQuery, rewardArgs, err := squirrel.
			Insert("daily_rewards").
			SetMap(map[string]interface{}{
				"user_telegram_id":         user.TelegramID,
				"last_code":                0,
				"consecutive_days_claimed": 0,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build daily reward insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, rewardQuery, rewardArgs...)
		if err != nil {
			return fmt.Errorf("failed to insert daily reward: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return r.getUser(ctx, r.db, telegramID)
}

func (r *Repository) getUser(ctx context.Context, q sqlx.QueryerContext, telegramID int64) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = sqlx.GetContext(ctx, q, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) updateUserPointsWithTx(ctx context.Context, tx *sqlx.Tx, telegramID int64, points int) error {
	updateQuery, updateArgs, err := squirrel.
		Update("users").
		Set("points", squirrel.Expr("points + ?", points)).
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return err
	}

	return expectRows(result)
}

func (r *Repository) SetWallet(ctx context.Context, telegramID int64, kind model.WalletKind, provider string) error {
	return r.updateUser(ctx, telegramID, map[string]interface{}{
		"wallet_kind":     string(kind),
		"wallet_provider": provider,
	})
}

func (r *Repository) SetWalletAccount(ctx context.Context, telegramID int64, account, token string) error {
	return r.updateUser(ctx, telegramID, map[string]interface{}{
		"wallet_account": account,
		"wallet_token":   token,
		"last_auth_date": time.Now().UTC(),
	})
}

// UpgradeToFullAccount turns a guest farm into a full farm.
func (r *Repository) UpgradeToFullAccount(ctx context.Context, telegramID int64) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		user, err := r.getUser(ctx, tx, telegramID)
		if err != nil {
			return err
		}
		if !user.IsGuest {
			return ErrAlreadyUpgraded
		}

		query, args, err := squirrel.
			Update("users").
			Set("is_guest", false).
			Where(squirrel.Eq{"telegram_id": telegramID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *Repository) updateUser(ctx context.Context, telegramID int64, values map[string]interface{}) error {
	query, args, err := squirrel.
		Update("users").
		SetMap(values).
		Where(squirrel.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	return expectRows(result)
}

func expectRows(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
