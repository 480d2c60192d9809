package model

import "time"

type User struct {
	TelegramID       int64
	Handle           string
	Username         string
	Points           int
	IsGuest          bool
	IsAdmin          bool
	Experience       float64
	Equipped         Equipped
	WalletKind       *WalletKind
	WalletAccount    *string
	RegistrationDate time.Time
	AuthDate         time.Time
}

// Bumpkin returns nil until the player has created one.
func (u *User) Bumpkin() *Bumpkin {
	if u.Equipped.Body == "" {
		return nil
	}
	return &Bumpkin{
		Experience: u.Experience,
		Equipped:   u.Equipped,
	}
}
