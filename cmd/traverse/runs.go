package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/traverse-xyz/go-traverse/results"
	"github.com/traverse-xyz/go-traverse/store"
)

func runs(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "runs.db", "SQLite database path")
	limit := fs.Int("limit", 20, "Maximum runs to list (0 = all)")
	output := fs.String("output", "", "File to export a shown run to (JSON)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: traverse runs <list|show|delete> [options] [run-id]

Inspect planning runs recorded with 'traverse plan --db'.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  traverse runs list --db runs.db
  traverse runs show --db runs.db 7b09a2c4-...
  traverse runs show --db runs.db --output run.json 7b09a2c4-...
  traverse runs delete --db runs.db 7b09a2c4-...
`)
	}

	if len(args) < 1 {
		fs.Usage()
		return fmt.Errorf("subcommand required: list, show, or delete")
	}
	sub := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	s, err := store.New(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	switch sub {
	case "list":
		list, err := s.ListRuns(*limit)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No stored runs.")
			return nil
		}
		fmt.Printf("%-36s  %-16s  %-19s  %-7s  %8s  %10s\n",
			"RUN", "NAME", "CREATED", "SWEEPS", "CELLS", "START COST")
		for _, r := range list {
			fmt.Printf("%-36s  %-16s  %-19s  %-7d  %8s  %10.3f\n",
				r.RunID, r.Name, r.Timestamp.Format("2006-01-02 15:04:05"),
				r.Sweeps, fmt.Sprintf("%dx%d", r.Rows, r.Cols), r.StartCost)
		}
		return nil

	case "show":
		if fs.NArg() < 1 {
			return fmt.Errorf("run ID required")
		}
		res, err := s.GetRun(fs.Arg(0))
		if err != nil {
			return err
		}
		if *output != "" {
			if err := results.WriteJSON(res, *output); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Run exported to %s\n", *output)
			return nil
		}
		doc, err := results.ToJSON(res)
		if err != nil {
			return err
		}
		fmt.Println(doc)
		return nil

	case "delete":
		if fs.NArg() < 1 {
			return fmt.Errorf("run ID required")
		}
		if err := s.DeleteRun(fs.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Run %s deleted\n", fs.Arg(0))
		return nil

	default:
		fs.Usage()
		return fmt.Errorf("unknown subcommand: %s", sub)
	}
}
