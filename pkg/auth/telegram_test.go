package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initData() string {
	values := url.Values{}
	values.Set("auth_date", "1710000000")
	values.Set("user", `{"id":42,"username":"farmer","first_name":"Bob"}`)
	values.Set("hash", "ignored")
	return values.Encode()
}

func TestExtractTelegramData(t *testing.T) {
	data, err := ExtractTelegramData(initData())
	require.NoError(t, err)
	assert.Equal(t, int64(42), data.ID)
	assert.Equal(t, "farmer", data.Username)
	assert.Equal(t, int64(1710000000), data.AuthDate.Unix())
}

func TestTelegramAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		debug          bool
		header         string
		expectedStatus int
	}{
		{name: "Missing header", debug: true, expectedStatus: http.StatusUnauthorized},
		{name: "Wrong scheme", debug: true, header: "Bearer abc", expectedStatus: http.StatusUnauthorized},
		{name: "Bad signature", debug: false, header: "Telegram " + initData(), expectedStatus: http.StatusUnauthorized},
		{name: "Debug mode skips signature", debug: true, header: "Telegram " + initData(), expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(NewTelegramAuth("token", tt.debug).TelegramAuthMiddleware())
			router.GET("/me", func(c *gin.Context) {
				player, ok := PlayerFromContext(c)
				require.True(t, ok)
				c.JSON(http.StatusOK, gin.H{"id": player.ID})
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
