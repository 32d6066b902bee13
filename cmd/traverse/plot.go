package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/traverse-xyz/go-traverse/plotter"
	"github.com/traverse-xyz/go-traverse/results"
)

func plot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	output := fs.String("output", "", "Output SVG file (required)")
	kind := fs.String("kind", "convergence", "Plot kind: convergence or heatmap")
	width := fs.Int("width", 800, "Plot width in pixels")
	height := fs.Int("height", 600, "Plot height in pixels")
	title := fs.String("title", "", "Plot title (default: run name)")
	cellSize := fs.Float64("cell", 24, "Heatmap cell size in pixels")
	noFlow := fs.Bool("no-flow", false, "Skip the policy overlay on heatmaps")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: traverse plot <run.json> [options]

Generate SVG visualization from planning results.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convergence history
  traverse plot run.json --output convergence.svg

  # Cost surface with the policy overlaid
  traverse plot run.json --kind heatmap --output cost.svg
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	res, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}

	plotTitle := *title
	if plotTitle == "" {
		plotTitle = res.Scenario.Name
	}

	var svg string
	switch *kind {
	case "convergence":
		if len(res.Results.History) == 0 {
			return fmt.Errorf("run has no sweep history")
		}
		svg = plotter.PlotConvergence(res.Results.History, float64(*width), float64(*height), plotTitle)

	case "heatmap":
		h := plotter.NewHeatmap(res.Results.Grids.Cost2Go, res.Planning.DMax).
			WithTitle(plotTitle)
		h.CellSize = *cellSize
		if !*noFlow {
			actions, err := res.Results.Grids.ActionGrid()
			if err != nil {
				return fmt.Errorf("decode action grid: %w", err)
			}
			h.WithPolicy(actions)
		}
		svg = h.Render()

	default:
		return fmt.Errorf("unknown plot kind: %s", *kind)
	}

	if err := os.WriteFile(*output, []byte(svg), 0644); err != nil {
		return fmt.Errorf("write SVG: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Plot saved to %s\n", *output)
	return nil
}
