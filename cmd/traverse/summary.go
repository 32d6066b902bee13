package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/traverse-xyz/go-traverse/results"
)

func summary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: traverse summary <run.json>

Display quick summary of a planning run.

Examples:
  traverse summary run.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}

	res, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}

	fmt.Printf("Run: %s (%s)\n", res.Scenario.Name, res.Metadata.RunID)
	fmt.Printf("Status: %s\n", res.Metadata.Status)

	if res.Metadata.Error != "" {
		fmt.Printf("Error: %s\n", res.Metadata.Error)
		return nil
	}

	fmt.Printf("Solver: %s (%.3fs)\n", res.Metadata.Solver, res.Metadata.ComputeTime)
	fmt.Printf("Grid: %d×%d, %d obstacles, %d forces\n",
		res.Scenario.Rows, res.Scenario.Cols, res.Scenario.Obstacles, res.Scenario.Sources)
	fmt.Printf("Traveler: %s at speed %.1f, (%d,%d) → (%d,%d)\n",
		res.Scenario.Motion, res.Scenario.Speed,
		res.Scenario.Start.Row, res.Scenario.Start.Col,
		res.Scenario.Target.Row, res.Scenario.Target.Col)
	fmt.Printf("Sweeps: %d (converged: %v)\n",
		res.Results.Summary.Sweeps, res.Results.Summary.Converged)
	fmt.Printf("Reachable cells: %d\n", res.Results.Summary.Reachable)
	fmt.Printf("Cost at start: %.4f\n", res.Results.Summary.StartCost)

	if res.Analysis != nil && res.Analysis.Path != nil {
		p := res.Analysis.Path
		if p.Reached {
			fmt.Printf("\nPolicy path reaches the target in %d steps (work %.4f)\n", p.Steps, p.Work)
			fmt.Printf("Moves: %s\n", p.Moves)
		} else {
			fmt.Println("\nPolicy path does not reach the target")
		}
	}

	return nil
}
