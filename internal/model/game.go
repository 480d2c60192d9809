package model

import (
	"time"

	"github.com/google/uuid"
)

type GameStateName string

const (
	GamePlaying          GameStateName = "playing"
	GamePlayingGuestGame GameStateName = "playingGuestGame"
	GameRevealing        GameStateName = "revealing"
	GameRevealed         GameStateName = "revealed"
	GameUpgrading        GameStateName = "upgrading"
	GameClosed           GameStateName = "closed"
)

type GameEventType string

const (
	GameEventReveal  GameEventType = "REVEAL"
	GameEventUpgrade GameEventType = "UPGRADE"
	GameEventClose   GameEventType = "CLOSE"
)

const DailyRewardCollected = "dailyReward.collected"

// RevealEvent is the payload carried by REVEAL.
type RevealEvent struct {
	Type      string
	CreatedAt time.Time
	Code      int
}

type GameEvent struct {
	Type   GameEventType
	Reveal *RevealEvent
}

type DailyRewardChest struct {
	Code        int
	CollectedAt int64
}

type GameSnapshot struct {
	PlayerID   int64
	Guest      bool
	Chest      *DailyRewardChest
	Bumpkin    *Bumpkin
	LastReward *RevealedReward
}

// Experience is zero when the player has no bumpkin yet.
func (s GameSnapshot) Experience() float64 {
	if s.Bumpkin == nil {
		return 0
	}
	return s.Bumpkin.Experience
}

type RevealedReward struct {
	EventID     uuid.UUID
	Code        int
	Points      int
	Streak      int
	CollectedAt time.Time
}

type Equipped struct {
	Body       string
	Hair       string
	Hat        string
	Shirt      string
	Pants      string
	Tool       string
	Background string
	Shoes      string
}

// Parts lists the equipped wearables in a fixed order, empty slots included.
func (e Equipped) Parts() []string {
	return []string{e.Body, e.Hair, e.Hat, e.Shirt, e.Pants, e.Tool, e.Background, e.Shoes}
}

func EquippedFromParts(parts []string) Equipped {
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	return Equipped{
		Body:       get(0),
		Hair:       get(1),
		Hat:        get(2),
		Shirt:      get(3),
		Pants:      get(4),
		Tool:       get(5),
		Background: get(6),
		Shoes:      get(7),
	}
}

type Bumpkin struct {
	Experience float64
	Equipped   Equipped
}
