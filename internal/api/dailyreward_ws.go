package api

import (
	"net/http"
	"time"

	"farm_miniapp/internal/model"
	"farm_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type string             `json:"type"`
	Data *ChestViewResponse `json:"data,omitempty"`
}

const messageChestView = "chest_view"

// handleWebSocket streams every chest view change of the player until the
// client goes away.
func (r *dailyRewardRoutes) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	player, ok := currentPlayer(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	views, cancel := r.notifier.Subscribe(player.ID)
	go r.readLoop(conn, cancel)

	var current *model.ChestView
	if controller, err := r.sessions.Chest(player.ID); err == nil {
		v := controller.View()
		current = &v
	}

	go r.writeLoop(conn, player.ID, views, current)
}

// readLoop only exists to process control frames and notice disconnects.
func (r *dailyRewardRoutes) readLoop(conn *websocket.Conn, cancel func()) {
	defer cancel()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Logger().Info("websocket unexpected close", zap.Error(err))
			}
			return
		}
	}
}

func (r *dailyRewardRoutes) writeLoop(conn *websocket.Conn, telegramID int64, views <-chan model.ChestView, current *model.ChestView) {
	log := logger.Logger()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	if current != nil {
		if err := writeView(conn, *current); err != nil {
			log.Error("failed to send chest view", zap.Int64("telegram_id", telegramID), zap.Error(err))
			return
		}
	}

	for {
		select {
		case view, ok := <-views:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			if err := writeView(conn, view); err != nil {
				log.Error("failed to send chest view", zap.Int64("telegram_id", telegramID), zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeView(conn *websocket.Conn, view model.ChestView) error {
	resp := newChestViewResponse(view)
	out, err := json.Marshal(Message{Type: messageChestView, Data: &resp})
	if err != nil {
		return err
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, out)
}
