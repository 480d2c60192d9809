package api

import (
	"net/http"

	"farm_miniapp/internal/level"
	"farm_miniapp/internal/middleware"
	"farm_miniapp/internal/model"
	"farm_miniapp/internal/service"
	"farm_miniapp/pkg/auth"
	"farm_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type userRoutes struct {
	us service.UserServiceI
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI, a *auth.TelegramAuth, authz *middleware.Authorization) {
	r := &userRoutes{us: us}
	h := handler.Group("/users")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.POST("/", r.RegisterUser)
		h.GET("/me", authz.ProfileRequired(), r.GetMe)
	}
}

type RegisterUserRequest struct {
	Handle   string   `json:"handle" binding:"required"`
	Equipped []string `json:"equipped"`
}

type RegisterUserResponse struct {
	TelegramID int64  `json:"telegram_id"`
	Handle     string `json:"handle"`
	IsGuest    bool   `json:"is_guest"`
}

// RegisterUser creates a guest farm. The farm becomes a full account once
// the player buys it at the end of onboarding.
func (r *userRoutes) RegisterUser(c *gin.Context) {
	log := logger.Logger()

	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	u := &model.User{
		TelegramID:       player.ID,
		Handle:           req.Handle,
		Username:         player.Username,
		IsGuest:          true,
		Equipped:         model.EquippedFromParts(req.Equipped),
		RegistrationDate: player.AuthDate,
		AuthDate:         player.AuthDate,
	}

	if err := r.us.RegisterUser(c.Request.Context(), u); err != nil {
		log.Error("failed to register user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, RegisterUserResponse{
		TelegramID: u.TelegramID,
		Handle:     u.Handle,
		IsGuest:    u.IsGuest,
	})
}

func (r *userRoutes) GetMe(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		logger.Logger().Error("user not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"telegram_id":       user.TelegramID,
		"handle":            user.Handle,
		"username":          user.Username,
		"points":            user.Points,
		"is_guest":          user.IsGuest,
		"experience":        user.Experience,
		"level":             level.BumpkinLevel(user.Experience),
		"next_level_xp":     level.ExperienceToNextLevel(user.Experience),
		"equipped":          user.Equipped.Parts(),
		"wallet_kind":       user.WalletKind,
		"wallet_account":    user.WalletAccount,
		"registration_date": user.RegistrationDate,
		"auth_date":         user.AuthDate,
	})
}
