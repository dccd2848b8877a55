package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.Attach(conn, LeaderboardRoom)
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return h, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_broadcastReachesRoom(t *testing.T) {
	h, srv := startHub(t)
	a := dial(t, srv)
	b := dial(t, srv)

	require.Eventually(t, func() bool { return h.RoomSize(LeaderboardRoom) == 2 }, time.Second, 10*time.Millisecond)

	h.BroadcastToRoom(LeaderboardRoom, Message{Type: EventLeaderboardUpdated, Payload: map[string]int{"players": 3}})

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		var msg map[string]interface{}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, EventLeaderboardUpdated, msg["type"])
	}
}

func TestHub_unregisterOnClose(t *testing.T) {
	h, srv := startHub(t)
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return h.RoomSize(LeaderboardRoom) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool { return h.RoomSize(LeaderboardRoom) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_broadcastToEmptyRoom(t *testing.T) {
	h := NewHub(nil)
	assert.NotPanics(t, func() { h.BroadcastToRoom("nobody", Message{Type: "X"}) })
}
