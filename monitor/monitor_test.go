package monitor_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traverse-xyz/go-traverse/monitor"
	"github.com/traverse-xyz/go-traverse/planner"
)

func newTestMonitor(t *testing.T) (*monitor.Monitor, *httptest.Server) {
	t.Helper()
	m := monitor.New(zerolog.Nop())
	srv := httptest.NewServer(m)
	t.Cleanup(srv.Close)
	return m, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) monitor.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg monitor.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func waitForClients(t *testing.T, srv *httptest.Server, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		var health struct {
			Clients int `json:"clients"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		resp.Body.Close()
		if health.Clients == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("never saw %d connected clients", want)
}

func TestHealthEndpoint(t *testing.T) {
	_, srv := newTestMonitor(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
}

func TestSweepBroadcast(t *testing.T) {
	m, srv := newTestMonitor(t)
	conn := dial(t, srv)
	waitForClients(t, srv, 1)

	stats := planner.SweepStats{Sweep: 3, Visited: 25, Reachable: 20, MeanCost: 4.5, Changed: 2}
	m.PublishSweep("run-1", stats)

	msg := readMessage(t, conn)
	assert.Equal(t, monitor.MsgSweep, msg.Type)
	assert.Equal(t, "run-1", msg.RunID)

	var got planner.SweepStats
	require.NoError(t, json.Unmarshal(msg.Payload, &got))
	assert.Equal(t, stats, got)
}

func TestRunLifecycleMessages(t *testing.T) {
	m, srv := newTestMonitor(t)
	conn := dial(t, srv)
	waitForClients(t, srv, 1)

	m.StartRun("run-2", monitor.RunInfo{Name: "maze", Rows: 5, Cols: 5, Solver: "fictitious-play"})
	m.FinishRun("run-2", monitor.RunOutcome{Status: "success", Sweeps: 4, Converged: true, StartCost: 6})

	start := readMessage(t, conn)
	assert.Equal(t, monitor.MsgRunStart, start.Type)
	var info monitor.RunInfo
	require.NoError(t, json.Unmarshal(start.Payload, &info))
	assert.Equal(t, "maze", info.Name)

	done := readMessage(t, conn)
	assert.Equal(t, monitor.MsgRunDone, done.Type)
	var outcome monitor.RunOutcome
	require.NoError(t, json.Unmarshal(done.Payload, &outcome))
	assert.True(t, outcome.Converged)
}

func TestLateJoinerGetsSnapshot(t *testing.T) {
	m, srv := newTestMonitor(t)

	m.PublishSweep("run-3", planner.SweepStats{Sweep: 7, Visited: 9})

	conn := dial(t, srv)
	msg := readMessage(t, conn)
	assert.Equal(t, monitor.MsgSweep, msg.Type)
	assert.Equal(t, "run-3", msg.RunID)
}
