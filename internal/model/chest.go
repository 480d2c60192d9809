package model

import "time"

type ChestState int

const (
	ChestLoading ChestState = iota
	ChestComingSoon
	ChestLocked
	ChestUnlocking
	ChestUnlocked
	ChestOpening
	ChestOpened
	ChestError
)

var chestStateNames = map[ChestState]string{
	ChestLoading:    "loading",
	ChestComingSoon: "comingSoon",
	ChestLocked:     "locked",
	ChestUnlocking:  "unlocking",
	ChestUnlocked:   "unlocked",
	ChestOpening:    "opening",
	ChestOpened:     "opened",
	ChestError:      "error",
}

func (s ChestState) String() string {
	if name, ok := chestStateNames[s]; ok {
		return name
	}
	return "unknown"
}

type ChestEvent int

const (
	ChestEventLoad ChestEvent = iota
	ChestEventUnlock
	ChestEventOpen
	ChestEventAcknowledge
)

var chestEventNames = map[ChestEvent]string{
	ChestEventLoad:        "LOAD",
	ChestEventUnlock:      "UNLOCK",
	ChestEventOpen:        "OPEN",
	ChestEventAcknowledge: "ACKNOWLEDGE",
}

func (e ChestEvent) String() string {
	if name, ok := chestEventNames[e]; ok {
		return name
	}
	return "UNKNOWN"
}

// RewardChestState is derived from the game snapshot every time the chest
// modal opens. OpenedAt is in seconds since the epoch, zero when never opened.
type RewardChestState struct {
	LastUsedCode int
	OpenedAt     int64
	BumpkinLevel int
	Code         int
}

type ChestAction string

const (
	ChestActionNone        ChestAction = ""
	ChestActionUnlock      ChestAction = "unlock"
	ChestActionOpen        ChestAction = "open"
	ChestActionAcknowledge ChestAction = "acknowledge"
	ChestActionUpgrade     ChestAction = "upgrade"
	ChestActionClose       ChestAction = "close"
)

type ChestIcon string

const (
	IconTreasureChest       ChestIcon = "treasure_chest"
	IconTreasureChestOpened ChestIcon = "treasure_chest_opened"
	IconSad                 ChestIcon = "sad"
	IconPlayer              ChestIcon = "player"
	IconTreasure            ChestIcon = "treasure"
	IconLoading             ChestIcon = "loading"
)

// ChestView is what the client renders for the current chest state.
type ChestView struct {
	State            ChestState
	Guest            bool
	Title            string
	Text             string
	Icon             ChestIcon
	Action           ChestAction
	ActionLabel      string
	Closable         bool
	CountdownSeconds int
	Alert            bool
	UpdatedAt        time.Time
}
