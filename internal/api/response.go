package api

import (
	"context"
	"net/http"
	"time"

	"farm_miniapp/internal/model"
	"farm_miniapp/pkg/auth"
	"farm_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ChestViewResponse struct {
	State            string    `json:"state"`
	Guest            bool      `json:"guest,omitempty"`
	Title            string    `json:"title,omitempty"`
	Text             string    `json:"text,omitempty"`
	Icon             string    `json:"icon,omitempty"`
	Action           string    `json:"action,omitempty"`
	ActionLabel      string    `json:"action_label,omitempty"`
	Closable         bool      `json:"closable"`
	Alert            bool      `json:"alert"`
	CountdownSeconds int       `json:"countdown_seconds,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func newChestViewResponse(v model.ChestView) ChestViewResponse {
	return ChestViewResponse{
		State:            v.State.String(),
		Guest:            v.Guest,
		Title:            v.Title,
		Text:             v.Text,
		Icon:             string(v.Icon),
		Action:           string(v.Action),
		ActionLabel:      v.ActionLabel,
		Closable:         v.Closable,
		Alert:            v.Alert,
		CountdownSeconds: v.CountdownSeconds,
		UpdatedAt:        v.UpdatedAt,
	}
}

type OnboardingViewResponse struct {
	Step        int      `json:"step"`
	Loading     bool     `json:"loading"`
	Title       string   `json:"title"`
	Icon        string   `json:"icon"`
	Text        []string `json:"text"`
	ButtonLabel string   `json:"button_label"`
	Equipped    []string `json:"equipped"`
	AuthState   string   `json:"auth_state,omitempty"`
}

func newOnboardingViewResponse(v model.OnboardingView) OnboardingViewResponse {
	return OnboardingViewResponse{
		Step:        int(v.Step),
		Loading:     v.Loading,
		Title:       v.Title,
		Icon:        v.Icon,
		Text:        v.Text,
		ButtonLabel: v.ButtonLabel,
		Equipped:    v.Equipped.Parts(),
	}
}

// currentPlayer aborts the request when the telegram auth data is missing.
// actionContext keeps request values but drops cancellation, so a client
// closing the modal does not abort wallet, login or unlock calls already in
// flight. Collaborator clients bound the call with their own timeouts.
func actionContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func currentPlayer(c *gin.Context) (*auth.TelegramUserData, bool) {
	player, ok := auth.PlayerFromContext(c)
	if !ok {
		logger.Logger().Error("telegram user data not found in context")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return nil, false
	}
	return player, true
}
