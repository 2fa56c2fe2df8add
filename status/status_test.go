package status

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m Message
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestPublishWithoutClients(t *testing.T) {
	h := NewHub()
	assert.Nil(t, h.Last())

	h.Info("selected %s", "r0")
	h.Progress(float32(math.NaN()), "loading")

	last := h.Last()
	require.NotNil(t, last)
	assert.Equal(t, "loading", last.Message)
	assert.Equal(t, PROGRESS, last.Type)
	assert.Equal(t, float32(0), last.Progress)
	assert.False(t, last.Time.IsZero())
}

func TestLastMessageReplay(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	h.Error("scale of %s is degenerate", "r1")

	conn := dial(t, srv)
	m := readMessage(t, conn)
	assert.Equal(t, ERROR, m.Type)
	assert.Equal(t, "scale of r1 is degenerate", m.Message)
}

func TestBroadcast(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	a, b := dial(t, srv), dial(t, srv)
	require.Eventually(t, func() bool { return h.Clients() == 2 }, 5*time.Second, 10*time.Millisecond)

	h.Info("frame %d", 3)
	for _, conn := range []*websocket.Conn{a, b} {
		m := readMessage(t, conn)
		assert.Equal(t, INFO, m.Type)
		assert.Equal(t, "frame 3", m.Message)
	}
}

func TestClientDisconnect(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return h.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)

	// publishing to nobody must not block
	for i := 0; i < sendBuffer*2; i++ {
		h.Info("tick %d", i)
	}
}

func TestClose(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	h.Close()
	assert.Equal(t, 0, h.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	h.Info("after close")
	assert.Equal(t, "after close", h.Last().Message)
}
