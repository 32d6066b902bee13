package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/traverse-xyz/go-traverse/cache"
	"github.com/traverse-xyz/go-traverse/envio"
	"github.com/traverse-xyz/go-traverse/eventlog"
	"github.com/traverse-xyz/go-traverse/force"
	"github.com/traverse-xyz/go-traverse/game"
	"github.com/traverse-xyz/go-traverse/grid"
	"github.com/traverse-xyz/go-traverse/monitor"
	"github.com/traverse-xyz/go-traverse/planner"
	"github.com/traverse-xyz/go-traverse/results"
	"github.com/traverse-xyz/go-traverse/store"
	"github.com/traverse-xyz/go-traverse/traveler"
)

func plan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	occupancy := fs.String("occupancy", "", "Occupancy grid files, comma-separated (required)")
	uComponents := fs.String("u", "", "Force u-component files, comma-separated")
	vComponents := fs.String("v", "", "Force v-component files, comma-separated")
	weights := fs.String("weights", "", "Scalar force weights, comma-separated")
	weightGrids := fs.String("weightgrids", "", "Force weight grid files, comma-separated")
	errValues := fs.String("errors", "", "Scalar force error bounds, comma-separated")
	errorGrids := fs.String("errorgrids", "", "Force error grid files, comma-separated")
	startFlag := fs.String("start", "", "Start position as row,col (required)")
	targetFlag := fs.String("target", "", "Target position as row,col (required)")
	speed := fs.Float64("speed", 10, "Traveler speed in cells per second")
	motionFlag := fs.String("motion", "16way", "Motion model: 4way, 8way, or 16way")
	iterations := fs.Int("iterations", 0, "Sweep budget (0 = one sweep per region cell)")
	boundsFlag := fs.String("bounds", "", "Planning region as r0,c0,r1,c1 (upper-left inclusive, lower-right exclusive)")
	solverFlag := fs.String("solver", "fictitious", "Cell game solver: fictitious or support")
	fpIters := fs.Int("fp-iterations", game.DefaultFictitiousIterations, "Fictitious play iterations per cell game")
	cacheSize := fs.Int("cache", 0, "Cell game solution cache entries (0 = no caching)")
	output := fs.String("output", "", "Output file for run results (JSON)")
	costFile := fs.String("costfile", "", "File for the cost-to-go grid")
	workFile := fs.String("workfile", "", "File for the work-to-go grid")
	actionFile := fs.String("actionfile", "", "File for the action grid")
	name := fs.String("name", "", "Run name (default: derived from occupancy file)")
	analyze := fs.Bool("analyze", true, "Compute automatic analysis")
	dbPath := fs.String("db", "", "SQLite database to record the run in")
	logFile := fs.String("logfile", "", "Event log file for sweep and cell records (.csv or .jsonl)")
	traceFlag := fs.String("trace", "", "Cells to trace as r,c pairs separated by semicolons (default: all)")
	monitorAddr := fs.String("monitor", "", "Serve live progress on this address (e.g. :8080)")
	verbose := fs.Bool("verbose", false, "Display progress during execution")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: traverse plan [options]

Compute a robust cost-to-go policy for a gridded environment.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Obstacle avoidance only
  traverse plan --occupancy map.txt --start 0,0 --target 40,40 --output run.json

  # One uncertain force with spatially uniform error
  traverse plan --occupancy map.txt --u u.tif --v v.tif --errors 0.3 \
    --start 0,0 --target 40,40 --output run.json

  # Restrict planning to a sub-region and store in a database
  traverse plan --occupancy map.txt --start 2,2 --target 30,30 \
    --bounds 0,0,32,32 --db runs.db --output run.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *occupancy == "" || *startFlag == "" || *targetFlag == "" {
		fs.Usage()
		return fmt.Errorf("--occupancy, --start, and --target are required")
	}
	if *output == "" && *costFile == "" && *actionFile == "" && *dbPath == "" {
		fs.Usage()
		return fmt.Errorf("at least one output is required (--output, --costfile, --actionfile, or --db)")
	}

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	// Environment
	occ, err := envio.LoadOccupancy(splitList(*occupancy)...)
	if err != nil {
		return err
	}

	scalarWeights, err := parseFloats(*weights)
	if err != nil {
		return fmt.Errorf("parse weights: %w", err)
	}
	scalarErrors, err := parseFloats(*errValues)
	if err != nil {
		return fmt.Errorf("parse errors: %w", err)
	}
	field, err := envio.BuildField(occ, envio.FieldConfig{
		UComponents: splitList(*uComponents),
		VComponents: splitList(*vComponents),
		Weights:     scalarWeights,
		WeightGrids: splitList(*weightGrids),
		Errors:      scalarErrors,
		ErrorGrids:  splitList(*errorGrids),
	})
	if err != nil {
		return err
	}

	// Traveler
	start, err := parseCell(*startFlag)
	if err != nil {
		return fmt.Errorf("parse start: %w", err)
	}
	target, err := parseCell(*targetFlag)
	if err != nil {
		return fmt.Errorf("parse target: %w", err)
	}
	motion, err := traveler.ParseMotion(*motionFlag)
	if err != nil {
		return err
	}
	trav, err := traveler.New(start, target, *speed, motion)
	if err != nil {
		return err
	}

	// Planner options
	opts := planner.DefaultOptions()
	opts.Iterations = *iterations
	opts.Logger = logger
	switch *solverFlag {
	case "fictitious":
		opts.Solver = game.FictitiousPlay{Iterations: *fpIters}
	case "support":
		opts.Solver = game.SupportEnumeration{}
	default:
		return fmt.Errorf("unknown solver: %s", *solverFlag)
	}
	if *cacheSize > 0 {
		opts.Solver = cache.NewCachedSolver(opts.Solver, *cacheSize)
	}
	if *boundsFlag != "" {
		b, err := parseBounds(*boundsFlag)
		if err != nil {
			return fmt.Errorf("parse bounds: %w", err)
		}
		opts.Bounds = &b
	}

	runName := *name
	if runName == "" {
		runName = baseName(splitList(*occupancy)[0])
	}

	var mon *monitor.Monitor
	builder := results.NewBuilder()
	runID := builder.Build().Metadata.RunID

	var rec *eventlog.Recorder
	var sweepObservers []func(planner.SweepStats)
	if *logFile != "" {
		rec = eventlog.NewRecorder(runID)
		opts.Trace = rec.Trace
		if *traceFlag != "" {
			cells, err := parseCellList(*traceFlag)
			if err != nil {
				return fmt.Errorf("parse trace: %w", err)
			}
			opts.TraceCells = cells
		}
		sweepObservers = append(sweepObservers, rec.OnSweep)
	}
	if *monitorAddr != "" {
		mon = monitor.New(logger)
		go func() {
			if err := http.ListenAndServe(*monitorAddr, mon); err != nil {
				logger.Error().Err(err).Msg("monitor server stopped")
			}
		}()
		sweepObservers = append(sweepObservers, func(s planner.SweepStats) {
			mon.PublishSweep(runID, s)
		})
	}
	if len(sweepObservers) > 0 {
		observers := sweepObservers
		opts.OnSweep = func(s planner.SweepStats) {
			for _, fn := range observers {
				fn(s)
			}
		}
	}

	p, err := planner.New(occ, field, trav, opts)
	if err != nil {
		return err
	}

	if mon != nil {
		mon.StartRun(runID, monitor.RunInfo{
			Name:   runName,
			Rows:   occ.Rows(),
			Cols:   occ.Cols(),
			Solver: opts.Solver.Name(),
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()
	result, err := p.Plan(ctx)
	elapsed := time.Since(startTime).Seconds()

	builder.WithScenario(occ, field, trav, runName).
		WithPlanning(*iterations, p.Bounds(), p.DMax(), &results.GameOptions{
			FictitiousIterations: *fpIters,
			SamplesPerComponent:  force.SamplesPerComponent,
		})
	if err != nil {
		builder.WithError(err)
		if mon != nil {
			mon.FinishRun(runID, monitor.RunOutcome{Status: "error"})
		}
		return err
	}
	builder.WithPlan(result, opts.Solver.Name(), elapsed)

	res := builder.Build()
	if *analyze {
		res.Analysis = results.NewAnalyzer(res).ComputeAll()
	}
	if mon != nil {
		mon.FinishRun(runID, monitor.RunOutcome{
			Status:    res.Metadata.Status,
			Sweeps:    res.Results.Summary.Sweeps,
			Converged: res.Results.Summary.Converged,
			StartCost: res.Results.Summary.StartCost,
		})
	}

	// Outputs
	if *output != "" {
		if err := results.WriteJSON(res, *output); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
	}
	if *costFile != "" {
		if err := envio.WriteFloatGrid(result.Cost2Go, *costFile); err != nil {
			return err
		}
	}
	if *workFile != "" {
		if err := envio.WriteFloatGrid(result.Work2Go, *workFile); err != nil {
			return err
		}
	}
	if *actionFile != "" {
		if err := envio.WriteActionGrid(result.Actions, *actionFile); err != nil {
			return err
		}
	}
	if *logFile != "" {
		if err := writeEventLog(*logFile, rec.Log()); err != nil {
			return err
		}
	}
	if *dbPath != "" {
		s, err := store.New(*dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveRun(res); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "Planning complete\n")
	fmt.Fprintf(os.Stderr, "  Run: %s (%s)\n", runName, res.Metadata.RunID)
	fmt.Fprintf(os.Stderr, "  Sweeps: %d (converged: %v)\n",
		res.Results.Summary.Sweeps, res.Results.Summary.Converged)
	fmt.Fprintf(os.Stderr, "  Reachable cells: %d\n", res.Results.Summary.Reachable)
	fmt.Fprintf(os.Stderr, "  Cost at start: %.4f\n", res.Results.Summary.StartCost)
	fmt.Fprintf(os.Stderr, "  Compute time: %.3fs\n", elapsed)

	return nil
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFloats(s string) ([]float64, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number: %s", p)
		}
		out[i] = v
	}
	return out, nil
}

func parseCell(s string) (grid.Cell, error) {
	parts := splitList(s)
	if len(parts) != 2 {
		return grid.Cell{}, fmt.Errorf("expected row,col: %s", s)
	}
	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return grid.Cell{}, fmt.Errorf("invalid row: %s", parts[0])
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return grid.Cell{}, fmt.Errorf("invalid col: %s", parts[1])
	}
	return grid.Cell{Row: row, Col: col}, nil
}

// parseCellList parses semicolon-separated r,c pairs.
func parseCellList(s string) ([]grid.Cell, error) {
	var cells []grid.Cell
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := parseCell(part)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, nil
}

func writeEventLog(path string, log *eventlog.Log) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return eventlog.WriteCSVFile(path, log)
	case ".jsonl", ".ndjson":
		return eventlog.WriteJSONLFile(path, log)
	default:
		return fmt.Errorf("unsupported event log format: %s", path)
	}
}

func parseBounds(s string) (grid.Bounds, error) {
	parts := splitList(s)
	if len(parts) != 4 {
		return grid.Bounds{}, fmt.Errorf("expected r0,c0,r1,c1: %s", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return grid.Bounds{}, fmt.Errorf("invalid coordinate: %s", p)
		}
		vals[i] = v
	}
	return grid.Bounds{
		UpperLeft:  grid.Cell{Row: vals[0], Col: vals[1]},
		LowerRight: grid.Cell{Row: vals[2], Col: vals[3]},
	}, nil
}

func baseName(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
