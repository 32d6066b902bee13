package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/traverse-xyz/go-traverse/envio"
	"github.com/traverse-xyz/go-traverse/game"
	"github.com/traverse-xyz/go-traverse/planner"
	"github.com/traverse-xyz/go-traverse/sensitivity"
	"github.com/traverse-xyz/go-traverse/traveler"
)

func sensitivityCmd(args []string) error {
	fs := flag.NewFlagSet("sensitivity", flag.ExitOnError)
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
	iterations := fs.Int("iterations", 0, "Sweep budget per planning run (0 = one sweep per cell)")
	scorerFlag := fs.String("scorer", "startcost", "Score to compare: startcost, reachable, or meancost")
	sweepFlag := fs.String("sweep", "", "Error scales to sweep, comma-separated (e.g. 0,0.5,1,2)")
	parallel := fs.Bool("parallel", false, "Analyze sources concurrently")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: traverse sensitivity [options]

Rank force sources by their impact on the planned policy, silencing
each in turn, and optionally sweep a scale factor over the error
bounds.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *occupancy == "" || *startFlag == "" || *targetFlag == "" {
		fs.Usage()
		return fmt.Errorf("--occupancy, --start, and --target are required")
	}

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

	var scorer sensitivity.Scorer
	switch *scorerFlag {
	case "startcost":
		scorer = sensitivity.StartCostScorer(start)
	case "reachable":
		scorer = sensitivity.ReachableScorer()
	case "meancost":
		scorer = sensitivity.MeanCostScorer()
	default:
		return fmt.Errorf("unknown scorer: %s", *scorerFlag)
	}

	opts := planner.DefaultOptions()
	opts.Iterations = *iterations
	opts.Solver = game.FictitiousPlay{}
	analyzer := sensitivity.NewAnalyzer(occ, field, trav, scorer).WithOptions(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	analyze := analyzer.AnalyzeSources
	if *parallel {
		analyze = analyzer.AnalyzeSourcesParallel
	}
	result, err := analyze(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Baseline %s: %.4f\n\n", *scorerFlag, result.Baseline)
	fmt.Printf("%-8s %12s %12s\n", "SOURCE", "SCORE", "IMPACT")
	for _, r := range result.Ranking {
		fmt.Printf("%-8d %12.4f %+12.4f\n", r.Source, result.Scores[r.Source], r.Impact)
	}

	if *sweepFlag != "" {
		scales, err := parseFloats(*sweepFlag)
		if err != nil {
			return fmt.Errorf("parse sweep: %w", err)
		}
		sweep, err := analyzer.SweepErrorScale(ctx, scales)
		if err != nil {
			return err
		}
		fmt.Printf("\nError scale sweep (%s):\n", *scorerFlag)
		fmt.Printf("%-8s %12s\n", "SCALE", "SCORE")
		for i, s := range sweep.Scales {
			fmt.Printf("%-8.2f %12.4f\n", s, sweep.Scores[i])
		}
		fmt.Printf("Best %.2f (%.4f), worst %.2f (%.4f)\n",
			sweep.Best.Scale, sweep.Best.Score, sweep.Worst.Scale, sweep.Worst.Score)
	}

	return nil
}
