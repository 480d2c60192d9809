package model

import "time"

// DailyReward mirrors the stored collection record of a player's chest.
type DailyReward struct {
	UserTelegramID         int64
	LastCode               int
	LastClaimedAt          *time.Time
	ConsecutiveDaysClaimed int
}

type DayReward struct {
	Day    int
	Reward int
}
