package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "plan":
		if err := plan(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		if err := summary(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "plot":
		if err := plot(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := runs(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sensitivity":
		if err := sensitivityCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("traverse version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`traverse - robust navigation planning over uncertain force fields

Usage:
  traverse <command> [options]

Commands:
  plan       Compute a cost-to-go policy for an environment
  summary    Display quick summary of a planning run
  plot       Generate SVG visualization from planning results
  runs       List, show, or delete stored runs
  sensitivity  Rank force sources by impact on the planned policy
  help       Show this help message
  version    Show version information

Examples:
  # Plan against a pure obstacle grid
  traverse plan --occupancy map.txt --start 0,0 --target 40,40 --output run.json

  # Plan with one uncertain force
  traverse plan --occupancy map.txt --u u.png --v v.png --errors 0.3 \
    --start 0,0 --target 40,40 --motion 16way --output run.json

  # Render the cost surface
  traverse plot run.json --kind heatmap --output cost.svg

  # Inspect stored runs
  traverse runs list --db runs.db

For command-specific help, run:
  traverse <command> --help`)
}
