package api

import (
	"net/http"
	"strconv"

	"farm_miniapp/internal/middleware"
	"farm_miniapp/internal/service"
	"farm_miniapp/pkg/auth"
	"farm_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type adminRoutes struct {
	codes service.CodeStore
}

func NewAdminRoutes(handler *gin.RouterGroup, codes service.CodeStore, a *auth.TelegramAuth, authz *middleware.Authorization) {
	r := &adminRoutes{codes: codes}
	h := handler.Group("/admin")
	h.Use(a.TelegramAuthMiddleware(), authz.AdminOnly())
	{
		h.DELETE("/:telegram_id/chest", r.ResetChest)
	}
}

// ResetChest drops the pending chest code so the player's next load issues
// a new one.
func (r *adminRoutes) ResetChest(c *gin.Context) {
	log := logger.Logger()

	id, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil {
		log.Error("failed to parse telegram_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram_id"})
		return
	}

	if err := r.codes.DeletePendingCode(c.Request.Context(), id); err != nil {
		log.Error("failed to reset chest", zap.Int64("telegram_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset chest"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
