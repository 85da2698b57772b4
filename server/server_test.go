package server

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

	"github.com/neuroglow/neuroglow/config"
	"github.com/neuroglow/neuroglow/engine"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{
		Theme:     config.ThemeDark,
		Width:     320,
		Height:    180,
		StreamFPS: 60,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(s.eng.Stop)
	return s
}

func TestIndexServesPreviewPage(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<canvas")
}

func TestIndexRejectsOtherPaths(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleIndex(rec, httptest.NewRequest(http.MethodGet, "/nothing-here", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthReportsEngineState(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "idle", body.State)
}

// dialWS connects a test client to a standalone websocket handler.
func dialWS(t *testing.T, s *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(s.handleWS))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) message {
	t.Helper()
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg message
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestWebSocketStreamsTopologyThenFrames(t *testing.T) {
	s := newTestServer(t)
	conn := dialWS(t, s)

	msg := readMessage(t, conn)
	require.Equal(t, "topology", msg.Type, "topology arrives before any frame")

	var topo engine.Topology
	require.NoError(t, json.Unmarshal(msg.Data, &topo))
	assert.NotEmpty(t, topo.Nodes)
	assert.Equal(t, 320.0, topo.Width)
	assert.NotEmpty(t, topo.Background)

	msg = readMessage(t, conn)
	require.Equal(t, "frame", msg.Type)

	var frame engine.FrameState
	require.NoError(t, json.Unmarshal(msg.Data, &frame))
	assert.Equal(t, topo.Generation, frame.Generation)
}

func TestWebSocketThemeCommandResendsTopology(t *testing.T) {
	s := newTestServer(t)
	conn := dialWS(t, s)

	first := readMessage(t, conn)
	require.Equal(t, "topology", first.Type)

	cmd, err := json.Marshal(message{Type: "theme", Data: json.RawMessage(`"light"`)})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, cmd))

	// The switch bumps the generation; the stream must resend topology.
	for i := 0; i < 100; i++ {
		msg := readMessage(t, conn)
		if msg.Type != "topology" {
			continue
		}
		var topo engine.Topology
		require.NoError(t, json.Unmarshal(msg.Data, &topo))
		assert.NotEqual(t, first.Data, msg.Data)
		return
	}
	t.Fatal("no topology resent after theme change")
}

func TestWebSocketVisibilityCommand(t *testing.T) {
	s := newTestServer(t)
	conn := dialWS(t, s)
	readMessage(t, conn) // initial topology

	cmd, err := json.Marshal(message{Type: "visible", Data: json.RawMessage(`false`)})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, cmd))

	assert.Eventually(t, func() bool {
		return s.eng.State() == "paused"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketIgnoresMalformedCommands(t *testing.T) {
	s := newTestServer(t)
	conn := dialWS(t, s)
	readMessage(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"theme","data":"neon"}`)))

	// The stream keeps flowing.
	msg := readMessage(t, conn)
	assert.Contains(t, []string{"topology", "frame"}, msg.Type)
}
