// Package eventlog records planning runs as flat event streams.
// Supports CSV and JSONL formats for offline analysis of convergence
// behavior.
package eventlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/planner"
)

// Event kinds.
const (
	KindSweep = "sweep" // one completed worklist sweep
	KindCell  = "cell"  // one traced cell update
)

// Event is a single row in a planning event log. Sweep events carry
// the aggregate fields, cell events the per-cell ones.
type Event struct {
	Kind      string    `json:"kind"`
	RunID     string    `json:"runId"`
	Sweep     int       `json:"sweep"`
	Timestamp time.Time `json:"timestamp"`

	// Sweep fields.
	Visited   int           `json:"visited,omitempty"`
	Reachable int           `json:"reachable,omitempty"`
	MeanCost  float64       `json:"meanCost,omitempty"`
	MaxCost   float64       `json:"maxCost,omitempty"`
	Changed   int           `json:"changed,omitempty"`
	Elapsed   time.Duration `json:"elapsed,omitempty"`

	// Cell fields.
	Row    int     `json:"row,omitempty"`
	Col    int     `json:"col,omitempty"`
	Cost   float64 `json:"cost,omitempty"`
	Work   float64 `json:"work,omitempty"`
	Action string  `json:"action,omitempty"`
}

// Log is an ordered collection of events from one or more runs.
type Log struct {
	Events []Event
}

// Sweeps returns the sweep events in log order.
func (l *Log) Sweeps() []Event {
	return l.filter(KindSweep)
}

// Cells returns the cell events in log order.
func (l *Log) Cells() []Event {
	return l.filter(KindCell)
}

func (l *Log) filter(kind string) []Event {
	var out []Event
	for _, e := range l.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Runs returns the distinct run IDs in order of first appearance.
func (l *Log) Runs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range l.Events {
		if !seen[e.RunID] {
			seen[e.RunID] = true
			ids = append(ids, e.RunID)
		}
	}
	return ids
}

// History reconstructs the sweep statistics for a run.
func (l *Log) History(runID string) []planner.SweepStats {
	var history []planner.SweepStats
	for _, e := range l.Events {
		if e.Kind != KindSweep || e.RunID != runID {
			continue
		}
		history = append(history, planner.SweepStats{
			Sweep:     e.Sweep,
			Visited:   e.Visited,
			Reachable: e.Reachable,
			MeanCost:  e.MeanCost,
			MaxCost:   e.MaxCost,
			Changed:   e.Changed,
			Elapsed:   e.Elapsed,
		})
	}
	return history
}

// Recorder collects planner callbacks into a Log. Its methods are safe
// for use from the planner's hooks.
type Recorder struct {
	mu    sync.Mutex
	runID string
	now   func() time.Time
	log   Log
}

// NewRecorder creates a recorder tagging every event with runID.
func NewRecorder(runID string) *Recorder {
	return &Recorder{runID: runID, now: time.Now}
}

// OnSweep records one sweep's statistics. Plug into Options.OnSweep.
func (r *Recorder) OnSweep(s planner.SweepStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Events = append(r.log.Events, Event{
		Kind:      KindSweep,
		RunID:     r.runID,
		Sweep:     s.Sweep,
		Timestamp: r.now(),
		Visited:   s.Visited,
		Reachable: s.Reachable,
		MeanCost:  s.MeanCost,
		MaxCost:   s.MaxCost,
		Changed:   s.Changed,
		Elapsed:   s.Elapsed,
	})
}

// Trace records one traced cell update. Plug into Options.Trace.
func (r *Recorder) Trace(ev planner.TraceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log.Events = append(r.log.Events, Event{
		Kind:      KindCell,
		RunID:     r.runID,
		Sweep:     ev.Sweep,
		Timestamp: r.now(),
		Row:       ev.Cell.Row,
		Col:       ev.Cell.Col,
		Cost:      ev.Cost,
		Work:      ev.Work,
		Action:    ev.Action.String(),
	})
}

// Log returns a snapshot of the collected events.
func (r *Recorder) Log() *Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]Event, len(r.log.Events))
	copy(events, r.log.Events)
	return &Log{Events: events}
}

// ActionMove parses the event's action back into a move.
func (e Event) ActionMove() (grid.Move, error) {
	if len(e.Action) != 1 {
		return 0, fmt.Errorf("event has no action")
	}
	return grid.ParseMove(e.Action[0])
}
