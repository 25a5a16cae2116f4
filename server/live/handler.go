package live

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// LevelUp is pushed whenever an XP award changes a user's level.
type LevelUp struct {
	Type        string `json:"type"`
	UserID      string `json:"user_id"`
	Level       int    `json:"level"`
	LevelTitle  string `json:"level_title"`
	TotalXP     int    `json:"total_xp"`
	FormattedXP string `json:"formatted_xp"`
}

type Handler struct {
	Hub    *Hub
	Logger *zap.Logger
}

// ServeWS handles GET /ws/progress. With ?user_id= the subscriber only
// receives that user's events.
func (h *Handler) ServeWS(c *gin.Context) {
	room := AllRoom
	if userID := strings.TrimSpace(c.Query("user_id")); userID != "" {
		room = UserRoom(userID)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade", zap.Error(err))
		return
	}

	client := NewClient(conn)
	h.Hub.Join(room, client)
	h.Logger.Debug("subscriber joined", zap.String("room", room))

	go client.writer()
	client.reader(h.Hub)
}
