// Package results defines the structured output format for planning runs
package results

import (
	"time"

	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/planner"
)

const SchemaVersion = "1.0.0"

// Results contains complete planning run output
type Results struct {
	Version  string    `json:"version"`
	Metadata Metadata  `json:"metadata"`
	Scenario Scenario  `json:"scenario"`
	Planning Planning  `json:"planning"`
	Results  Data      `json:"results"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Metadata contains run execution information
type Metadata struct {
	RunID       string    `json:"runId"`
	Timestamp   time.Time `json:"timestamp"`
	Solver      string    `json:"solver"`
	Status      string    `json:"status"` // success, error, canceled
	Error       string    `json:"error,omitempty"`
	ComputeTime float64   `json:"computeTime"` // seconds
}

// Scenario summarizes the planning inputs
type Scenario struct {
	Name      string    `json:"name,omitempty"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Obstacles int       `json:"obstacles"`
	Sources   int       `json:"sources"`
	Start     grid.Cell `json:"start"`
	Target    grid.Cell `json:"target"`
	Speed     float64   `json:"speed"`
	Motion    string    `json:"motion"`
}

// Planning contains parameters used
type Planning struct {
	Iterations int          `json:"iterations"`
	Bounds     grid.Bounds  `json:"bounds"`
	DMax       float64      `json:"dmax"`
	Options    *GameOptions `json:"options,omitempty"`
}

// GameOptions contains per-cell game configuration
type GameOptions struct {
	FictitiousIterations int `json:"fictitiousIterations,omitempty"`
	SamplesPerComponent  int `json:"samplesPerComponent,omitempty"`
}

// Data contains the planning results
type Data struct {
	Summary Summary              `json:"summary"`
	Grids   Grids                `json:"grids"`
	History []planner.SweepStats `json:"history,omitempty"`
}

// Summary provides quick overview
type Summary struct {
	Sweeps    int     `json:"sweeps"`
	Converged bool    `json:"converged"`
	Reachable int     `json:"reachable"`
	StartCost float64 `json:"startCost"`
	MeanCost  float64 `json:"meanCost"`
	MaxCost   float64 `json:"maxCost"`
}

// Grids holds the three output grids. Actions are encoded one string
// per row in the policy symbol alphabet.
type Grids struct {
	Cost2Go grid.Grid `json:"cost2go"`
	Work2Go grid.Grid `json:"work2go"`
	Actions []string  `json:"actions"`
}

// Analysis contains automatically computed insights
type Analysis struct {
	Path        *Path           `json:"path,omitempty"`
	Convergence *Convergence    `json:"convergence,omitempty"`
	Policy      *Policy         `json:"policy,omitempty"`
	Statistics  map[string]Stat `json:"statistics,omitempty"`
}

// Path is the route obtained by following the policy from the start
type Path struct {
	Reached bool        `json:"reached"`
	Steps   int         `json:"steps"`
	Cells   []grid.Cell `json:"cells"`
	Moves   string      `json:"moves"`
	Work    float64     `json:"work"`
}

// Convergence summarizes how the sweep values settled
type Convergence struct {
	Sweeps       int     `json:"sweeps"`
	Converged    bool    `json:"converged"`
	FinalChanged int     `json:"finalChanged"`
	TotalChanged int     `json:"totalChanged"`
	ElapsedTotal float64 `json:"elapsedTotal"` // seconds
}

// Policy summarizes the action grid
type Policy struct {
	Moves     map[string]int `json:"moves"`
	Blocked   int            `json:"blocked"`
	NoRoute   int            `json:"noRoute"`
	Decisions int            `json:"decisions"`
}

// Stat contains statistical summary
type Stat struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
}
