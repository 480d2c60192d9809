package chest

import (
	"farm_miniapp/internal/model"
)

const dailyRewardTitle = "Daily Reward"

// View renders the current state. The countdown is computed from the clock
// on every call.
func (c *Controller) View() model.ChestView {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	now := c.now()
	v := model.ChestView{
		State:     state,
		Alert:     state != model.ChestOpened,
		UpdatedAt: now,
	}

	switch state {
	case model.ChestOpened:
		v.Icon = model.IconTreasureChestOpened
		v.Text = "Come back later for more rewards"
		v.Closable = true
		v.CountdownSeconds = SecondsUntilNextUTCMidnight(now)
	case model.ChestLocked:
		v.Title = dailyRewardTitle
		v.Icon = model.IconTreasureChest
		v.Action = model.ChestActionUnlock
		v.ActionLabel = "Unlock Reward"
		v.Closable = true
	case model.ChestUnlocked:
		v.Title = dailyRewardTitle
		v.Icon = model.IconTreasureChest
		v.Action = model.ChestActionOpen
		v.ActionLabel = "Open reward"
		v.Closable = true
	case model.ChestError:
		v.Title = "Something went wrong!"
		v.Icon = model.IconSad
		v.Action = model.ChestActionClose
		v.ActionLabel = "Close"
		v.Closable = true
	case model.ChestComingSoon:
		v.Title = "Oh oh!"
		v.Icon = model.IconPlayer
		v.Text = "You must be level 3 to claim daily rewards."
		v.Closable = true
	case model.ChestOpening:
		if c.game.Matches(model.GameRevealed) {
			v.Icon = model.IconTreasure
			v.Text = "Revealed"
			v.Action = model.ChestActionAcknowledge
			v.ActionLabel = "Continue"
		} else {
			v.Icon = model.IconTreasure
			v.Text = "Revealing"
		}
	case model.ChestUnlocking:
		v.Icon = model.IconLoading
		v.Text = "Unlocking"
	case model.ChestLoading:
		v.Icon = model.IconLoading
		v.Text = "Loading"
	}

	return v
}

// GuestView is shown instead of the chest to players on a guest farm.
func GuestView(state model.ChestState) model.ChestView {
	return model.ChestView{
		State:       state,
		Guest:       true,
		Title:       dailyRewardTitle,
		Icon:        model.IconTreasureChest,
		Text:        "Want to take your farm game to the next level? Upgrade to a full farm account and unlock all the daily rewards waiting for you.",
		Action:      model.ChestActionUpgrade,
		ActionLabel: "Upgrade now!",
		Closable:    true,
		Alert:       state != model.ChestOpened,
	}
}
