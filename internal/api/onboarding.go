package api

import (
	"errors"
	"net/http"

	"farm_miniapp/internal/authflow"
	"farm_miniapp/internal/middleware"
	"farm_miniapp/internal/model"
	"farm_miniapp/internal/onboarding"
	"farm_miniapp/internal/service"
	"farm_miniapp/pkg/auth"
	"farm_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type onboardingRoutes struct {
	sessions *service.Sessions
}

func NewOnboardingRoutes(handler *gin.RouterGroup, sessions *service.Sessions, a *auth.TelegramAuth, authz *middleware.Authorization) {
	r := &onboardingRoutes{sessions: sessions}
	h := handler.Group("/onboarding")
	h.Use(a.TelegramAuthMiddleware(), authz.ProfileRequired())
	{
		h.GET("", r.GetWizard)
		h.POST("/advance", r.Advance)
		h.POST("/sign-in", r.SignIn)
		h.POST("/close", r.Close)
	}
}

func (r *onboardingRoutes) GetWizard(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	w, err := r.sessions.Wizard(c.Request.Context(), player.ID)
	if err != nil {
		writeOnboardingError(c, player.ID, err)
		return
	}

	r.writeView(c, player.ID, w)
}

// Advance runs the action of the current step. A failure while creating the
// wallet discards the wizard so the next visit starts over.
func (r *onboardingRoutes) Advance(c *gin.Context) {
	log := logger.Logger()

	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	w, err := r.sessions.Wizard(c.Request.Context(), player.ID)
	if err != nil {
		writeOnboardingError(c, player.ID, err)
		return
	}

	step := w.Step()
	if err := w.Advance(actionContext(c)); err != nil {
		switch {
		case errors.Is(err, onboarding.ErrBusy):
			c.JSON(http.StatusConflict, gin.H{"error": "onboarding action already in progress"})
		case step == model.StepCreateWallet:
			log.Error("failed to create wallet", zap.Int64("telegram_id", player.ID), zap.Error(err))
			r.sessions.DiscardWizard(player.ID)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create wallet"})
		case errors.Is(err, authflow.ErrNoTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "wallet is not authorised yet"})
		default:
			log.Error("onboarding step failed",
				zap.Int64("telegram_id", player.ID),
				zap.Stringer("step", step),
				zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to buy farm"})
		}
		return
	}

	r.writeView(c, player.ID, w)
}

// SignIn handles "I already have a wallet".
func (r *onboardingRoutes) SignIn(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	w, err := r.sessions.Wizard(c.Request.Context(), player.ID)
	if err != nil {
		writeOnboardingError(c, player.ID, err)
		return
	}

	if err := w.SignIn(actionContext(c)); err != nil {
		writeOnboardingError(c, player.ID, err)
		return
	}

	r.writeView(c, player.ID, w)
}

func (r *onboardingRoutes) Close(c *gin.Context) {
	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	w, err := r.sessions.StartedWizard(player.ID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotStarted) || errors.Is(err, service.ErrWizardNotStarted) {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		writeOnboardingError(c, player.ID, err)
		return
	}

	if err := w.Close(actionContext(c)); err != nil {
		writeOnboardingError(c, player.ID, err)
		return
	}
	r.sessions.DiscardWizard(player.ID)

	c.JSON(http.StatusOK, gin.H{})
}

func (r *onboardingRoutes) writeView(c *gin.Context, telegramID int64, w *onboarding.Wizard) {
	resp := newOnboardingViewResponse(w.View())
	if actor, err := r.sessions.Auth(c.Request.Context(), telegramID); err == nil {
		resp.AuthState = string(actor.State())
	}
	c.JSON(http.StatusOK, resp)
}

func writeOnboardingError(c *gin.Context, telegramID int64, err error) {
	if errors.Is(err, onboarding.ErrMissingProfile) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	logger.Logger().Error("onboarding request failed",
		zap.Int64("telegram_id", telegramID), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
