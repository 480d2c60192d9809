package middleware

import (
	"errors"
	"net/http"

	"farm_miniapp/internal/model"
	"farm_miniapp/internal/service"
	"farm_miniapp/pkg/auth"
	"farm_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userKey = "user"

type Authorization struct {
	userService service.UserServiceI
}

func NewAuthorization(userService service.UserServiceI) *Authorization {
	return &Authorization{
		userService: userService,
	}
}

// ProfileRequired loads the registered player behind the telegram auth data.
func (a *Authorization) ProfileRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := a.loadUser(c); !ok {
			return
		}
		c.Next()
	}
}

func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := a.loadUser(c)
		if !ok {
			return
		}

		if !user.IsAdmin {
			logger.Logger().Info("unauthorized access attempt to admin endpoint",
				zap.Int64("telegram_id", user.TelegramID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}

func (a *Authorization) loadUser(c *gin.Context) (*model.User, bool) {
	log := logger.Logger()

	if user, ok := UserFromContext(c); ok {
		return user, true
	}

	player, ok := auth.PlayerFromContext(c)
	if !ok {
		log.Error("telegram user data not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	user, err := a.userService.GetUserByTelegramID(c.Request.Context(), player.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return nil, false
		}
		log.Error("failed to get user data", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return nil, false
	}

	c.Set(userKey, user)
	return user, true
}

func UserFromContext(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
