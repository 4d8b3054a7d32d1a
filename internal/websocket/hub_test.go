package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	hub.Start()
	t.Cleanup(hub.Shutdown)
	return hub
}

func dialTestServer(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count never reached %d, have %d", want, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcastsToClient(t *testing.T) {
	hub := newTestHub(t)
	conn := dialTestServer(t, hub)
	waitForClients(t, hub, 1)

	hub.BroadcastUpdate("operation:progress", "op-1", map[string]any{"progress": 50})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "operation:progress", msg.Type)
	assert.Equal(t, "op-1", msg.OperationID)
	assert.False(t, msg.Timestamp.IsZero())

	data, ok := msg.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 50, data["progress"])
}

func TestHubMultipleClients(t *testing.T) {
	hub := newTestHub(t)
	first := dialTestServer(t, hub)
	second := dialTestServer(t, hub)
	waitForClients(t, hub, 2)

	hub.BroadcastUpdate("operation:status", "op-2", nil)

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "op-2", msg.OperationID)
	}
}

func TestHubClientDisconnect(t *testing.T) {
	hub := newTestHub(t)
	conn := dialTestServer(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHubBroadcastWithoutClients(t *testing.T) {
	hub := newTestHub(t)

	// Must not block or panic with nobody listening
	hub.BroadcastUpdate("operation:complete", "op-3", nil)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubStartIdempotent(t *testing.T) {
	hub := newTestHub(t)
	hub.Start()
	hub.Start()
	assert.Equal(t, 0, hub.ClientCount())
}
