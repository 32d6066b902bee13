// Package monitor streams planning progress to websocket clients. The
// planner feeds it per-sweep statistics; connected clients receive each
// sweep as a JSON message, and late joiners get the latest snapshot on
// connect.
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/traverse-xyz/go-traverse/planner"
)

// Message types sent to clients.
const (
	MsgRunStart = "run_start"
	MsgSweep    = "sweep"
	MsgRunDone  = "run_done"
)

// Message is the wire envelope for progress events.
type Message struct {
	Type    string          `json:"type"`
	RunID   string          `json:"runId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RunInfo describes a starting run.
type RunInfo struct {
	Name   string `json:"name,omitempty"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	Solver string `json:"solver"`
}

// RunOutcome describes a finished run.
type RunOutcome struct {
	Status    string  `json:"status"`
	Sweeps    int     `json:"sweeps"`
	Converged bool    `json:"converged"`
	StartCost float64 `json:"startCost"`
}

type client struct {
	conn     *websocket.Conn
	sendChan chan []byte
}

// Monitor fans progress events out to websocket clients.
type Monitor struct {
	mu       sync.RWMutex
	clients  map[*client]bool
	last     []byte
	runID    string
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// New creates a monitor. It serves /ws for clients and /health for
// liveness checks.
func New(logger zerolog.Logger) *Monitor {
	return &Monitor{
		clients: make(map[*client]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: logger,
	}
}

// ServeHTTP handles HTTP requests.
func (m *Monitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ws":
		m.handleWebSocket(w, r)
	case "/health":
		m.handleHealth(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (m *Monitor) handleHealth(w http.ResponseWriter, _ *http.Request) {
	m.mu.RLock()
	clients := len(m.clients)
	runID := m.runID
	m.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"clients": clients,
		"runId":   runID,
	})
}

func (m *Monitor) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		conn:     conn,
		sendChan: make(chan []byte, 64),
	}

	m.mu.Lock()
	m.clients[c] = true
	if m.last != nil {
		c.sendChan <- m.last
	}
	m.mu.Unlock()

	m.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client connected")

	go c.writePump()
	m.readUntilClose(c)
}

// readUntilClose drains the client connection; inbound payloads are
// ignored, the monitor is broadcast only.
func (m *Monitor) readUntilClose(c *client) {
	defer func() {
		m.removeClient(c)
		c.conn.Close()
		close(c.sendChan)
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				m.log.Debug().Err(err).Msg("client read error")
			}
			return
		}
	}
}

func (m *Monitor) removeClient(c *client) {
	m.mu.Lock()
	delete(m.clients, c)
	m.mu.Unlock()
}

// StartRun announces a new planning run.
func (m *Monitor) StartRun(runID string, info RunInfo) {
	m.mu.Lock()
	m.runID = runID
	m.mu.Unlock()
	m.broadcast(MsgRunStart, runID, info)
}

// PublishSweep broadcasts one sweep's statistics. Pass it to the
// planner via its per-sweep hook.
func (m *Monitor) PublishSweep(runID string, stats planner.SweepStats) {
	m.broadcast(MsgSweep, runID, stats)
}

// FinishRun announces run completion.
func (m *Monitor) FinishRun(runID string, outcome RunOutcome) {
	m.broadcast(MsgRunDone, runID, outcome)
}

func (m *Monitor) broadcast(msgType, runID string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		m.log.Error().Err(err).Str("type", msgType).Msg("encode progress event")
		return
	}
	data, err := json.Marshal(Message{Type: msgType, RunID: runID, Payload: raw})
	if err != nil {
		m.log.Error().Err(err).Str("type", msgType).Msg("encode progress envelope")
		return
	}

	m.mu.Lock()
	m.last = data
	for c := range m.clients {
		select {
		case c.sendChan <- data:
		default:
			// Slow client: drop the event rather than stall the run.
		}
	}
	m.mu.Unlock()
}

func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.sendChan:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
