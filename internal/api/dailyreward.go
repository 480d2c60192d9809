package api

import (
	"errors"
	"net/http"
	"time"

	"farm_miniapp/internal/chest"
	"farm_miniapp/internal/gameflow"
	"farm_miniapp/internal/middleware"
	"farm_miniapp/internal/model"
	"farm_miniapp/internal/service"
	"farm_miniapp/pkg/auth"
	"farm_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type dailyRewardRoutes struct {
	sessions *service.Sessions
	ds       service.DailyRewardServiceI
	notifier *service.ChestNotifier
}

func NewDailyRewardRoutes(handler *gin.RouterGroup, sessions *service.Sessions, ds service.DailyRewardServiceI,
	notifier *service.ChestNotifier, a *auth.TelegramAuth, authz *middleware.Authorization) {
	r := &dailyRewardRoutes{sessions: sessions, ds: ds, notifier: notifier}
	h := handler.Group("/dailyreward")
	h.Use(a.TelegramAuthMiddleware(), authz.ProfileRequired())
	{
		h.GET("/status", r.GetStatus)

		h.POST("/chest", r.OpenChest)
		h.GET("/chest", r.GetChest)
		h.POST("/chest/unlock", r.chestEvent(model.ChestEventUnlock))
		h.POST("/chest/open", r.chestEvent(model.ChestEventOpen))
		h.POST("/chest/acknowledge", r.chestEvent(model.ChestEventAcknowledge))
		h.POST("/chest/upgrade", r.Upgrade)
		h.GET("/chest/ws", r.handleWebSocket)
	}
}

type DayRewardResponse struct {
	Day    int `json:"day"`
	Reward int `json:"reward"`
}

type DailyRewardStatusResponse struct {
	UserTelegramID         int64               `json:"user_telegram_id"`
	LastClaimedAt          *time.Time          `json:"last_claimed_at,omitempty"`
	NextClaimAvailable     *time.Time          `json:"next_claim_available,omitempty"`
	IsAvailable            bool                `json:"is_available"`
	HasNeverBeenClaimed    bool                `json:"has_never_been_claimed"`
	ConsecutiveDaysClaimed int                 `json:"consecutive_days_claimed"`
	DailyRewards           []DayRewardResponse `json:"daily_rewards"`
}

func (r *dailyRewardRoutes) GetStatus(c *gin.Context) {
	log := logger.Logger()

	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	status, err := r.ds.GetStatus(c.Request.Context(), player.ID)
	if err != nil {
		log.Error("failed to get daily reward status", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get daily reward status"})
		return
	}

	rewards := make([]DayRewardResponse, len(status.DailyRewards))
	for i, reward := range status.DailyRewards {
		rewards[i] = DayRewardResponse{
			Day:    reward.Day,
			Reward: reward.Reward,
		}
	}

	c.JSON(http.StatusOK, DailyRewardStatusResponse{
		UserTelegramID:         status.UserTelegramID,
		LastClaimedAt:          status.LastClaimedAt,
		NextClaimAvailable:     status.NextClaimAvailable,
		IsAvailable:            status.IsAvailable,
		HasNeverBeenClaimed:    status.HasNeverBeenClaimed,
		ConsecutiveDaysClaimed: status.ConsecutiveDaysClaimed,
		DailyRewards:           rewards,
	})
}

// OpenChest is called every time the chest modal opens.
func (r *dailyRewardRoutes) OpenChest(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	view, err := r.sessions.OpenChest(actionContext(c), player.ID)
	if err != nil {
		logger.Logger().Error("failed to open daily reward chest",
			zap.Int64("telegram_id", player.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open daily reward chest"})
		return
	}

	c.JSON(http.StatusOK, newChestViewResponse(view))
}

func (r *dailyRewardRoutes) GetChest(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	controller, err := r.sessions.Chest(player.ID)
	if err != nil {
		writeChestError(c, player.ID, err)
		return
	}

	c.JSON(http.StatusOK, newChestViewResponse(controller.View()))
}

func (r *dailyRewardRoutes) chestEvent(event model.ChestEvent) gin.HandlerFunc {
	return func(c *gin.Context) {
		player, ok := currentPlayer(c)
		if !ok {
			return
		}

		view, err := r.sessions.SendChest(actionContext(c), player.ID, event)
		if err != nil {
			if errors.Is(err, chest.ErrNoTransition) || errors.Is(err, chest.ErrNotRevealed) {
				c.JSON(http.StatusConflict, gin.H{
					"error": err.Error(),
					"chest": newChestViewResponse(view),
				})
				return
			}
			writeChestError(c, player.ID, err)
			return
		}

		c.JSON(http.StatusOK, newChestViewResponse(view))
	}
}

// Upgrade starts the full account upgrade from the guest chest view.
func (r *dailyRewardRoutes) Upgrade(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	game, err := r.sessions.Game(c.Request.Context(), player.ID)
	if err != nil {
		writeChestError(c, player.ID, err)
		return
	}

	if err := game.Send(actionContext(c), model.GameEvent{Type: model.GameEventUpgrade}); err != nil {
		if errors.Is(err, gameflow.ErrNoTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "only guest farms can be upgraded"})
			return
		}
		writeChestError(c, player.ID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": game.State()})
}

func writeChestError(c *gin.Context, telegramID int64, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotStarted), errors.Is(err, service.ErrChestNotOpened):
		c.JSON(http.StatusConflict, gin.H{"error": "the daily reward chest is not open"})
	case errors.Is(err, chest.ErrUnknownEvent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown chest event"})
	default:
		logger.Logger().Error("daily reward chest request failed",
			zap.Int64("telegram_id", telegramID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
