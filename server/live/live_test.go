package live

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verdict-com/verdict/server/store"
)

func levelUpAward(userID string) store.XPAward {
	return store.XPAward{
		Event:       store.XPEvent{ID: "xp_1", UserID: userID, Amount: 50, Reason: "opinion_accepted"},
		TotalBefore: 950,
		TotalAfter:  1500,
		LevelBefore: 10,
		LevelAfter:  11,
	}
}

func TestHubJoinLeave(t *testing.T) {
	hub := NewHub()
	c := &Client{Send: make(chan []byte, 1)}

	hub.Join(AllRoom, c)
	assert.Equal(t, 1, hub.Count(AllRoom))
	assert.Equal(t, AllRoom, c.Room)

	hub.Leave(c)
	assert.Equal(t, 0, hub.Count(AllRoom))
	assert.Empty(t, c.Room)

	// Leaving twice is harmless.
	hub.Leave(c)
}

func TestHubBroadcastSkipsFullClients(t *testing.T) {
	hub := NewHub()
	slow := &Client{Send: make(chan []byte, 1)}
	hub.Join(AllRoom, slow)

	hub.Broadcast(AllRoom, []byte("one"))
	hub.Broadcast(AllRoom, []byte("two"))

	assert.Equal(t, "one", string(<-slow.Send))
	assert.Empty(t, slow.Send)
}

func TestPublishAwardRooms(t *testing.T) {
	hub := NewHub()
	all := &Client{Send: make(chan []byte, 4)}
	mine := &Client{Send: make(chan []byte, 4)}
	other := &Client{Send: make(chan []byte, 4)}
	hub.Join(AllRoom, all)
	hub.Join(UserRoom("u_1"), mine)
	hub.Join(UserRoom("u_2"), other)

	hub.PublishAward(levelUpAward("u_1"))

	require.Len(t, all.Send, 1)
	require.Len(t, mine.Send, 1)
	assert.Empty(t, other.Send)

	var event LevelUp
	require.NoError(t, json.Unmarshal(<-mine.Send, &event))
	assert.Equal(t, LevelUp{
		Type:        "level_up",
		UserID:      "u_1",
		Level:       11,
		LevelTitle:  "Senior Associate",
		TotalXP:     1500,
		FormattedXP: "1.5K",
	}, event)
}

func TestPublishAwardIgnoresSameLevel(t *testing.T) {
	hub := NewHub()
	all := &Client{Send: make(chan []byte, 1)}
	hub.Join(AllRoom, all)

	award := levelUpAward("u_1")
	award.LevelAfter = award.LevelBefore
	hub.PublishAward(award)

	assert.Empty(t, all.Send)
}

func TestServeWSDeliversLevelUp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	h := &Handler{Hub: hub, Logger: zap.NewNop()}

	router := gin.New()
	router.GET("/ws/progress", h.ServeWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/progress?user_id=u_1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.Count(UserRoom("u_1")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.PublishAward(levelUpAward("u_1"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event LevelUp
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, "level_up", event.Type)
	assert.Equal(t, 11, event.Level)

	conn.Close()
	require.Eventually(t, func() bool {
		return hub.Count(UserRoom("u_1")) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
