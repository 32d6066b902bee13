package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"kind", "run_id", "sweep", "timestamp",
	"visited", "reachable", "mean_cost", "max_cost", "changed", "elapsed_ns",
	"row", "col", "cost", "work", "action",
}

// WriteCSV writes the log as CSV with a header row.
func WriteCSV(w io.Writer, log *Log) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range log.Events {
		record := []string{
			e.Kind,
			e.RunID,
			strconv.Itoa(e.Sweep),
			e.Timestamp.UTC().Format(time.RFC3339Nano),
			strconv.Itoa(e.Visited),
			strconv.Itoa(e.Reachable),
			formatFloat(e.MeanCost),
			formatFloat(e.MaxCost),
			strconv.Itoa(e.Changed),
			strconv.FormatInt(int64(e.Elapsed), 10),
			strconv.Itoa(e.Row),
			strconv.Itoa(e.Col),
			formatFloat(e.Cost),
			formatFloat(e.Work),
			e.Action,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the log to a CSV file, creating or truncating it.
func WriteCSVFile(filename string, log *Log) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := WriteCSV(f, log); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV parses an event log written by WriteCSV.
func ReadCSV(r io.Reader) (*Log, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(header))
	}

	log := &Log{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		log.Events = append(log.Events, e)
	}
	return log, nil
}

// ReadCSVFile parses an event log from a CSV file.
func ReadCSVFile(filename string) (*Log, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func parseRecord(record []string) (Event, error) {
	var e Event
	var err error
	e.Kind = record[0]
	e.RunID = record[1]
	if e.Sweep, err = strconv.Atoi(record[2]); err != nil {
		return e, fmt.Errorf("sweep: %w", err)
	}
	if e.Timestamp, err = time.Parse(time.RFC3339Nano, record[3]); err != nil {
		return e, fmt.Errorf("timestamp: %w", err)
	}
	if e.Visited, err = strconv.Atoi(record[4]); err != nil {
		return e, fmt.Errorf("visited: %w", err)
	}
	if e.Reachable, err = strconv.Atoi(record[5]); err != nil {
		return e, fmt.Errorf("reachable: %w", err)
	}
	if e.MeanCost, err = strconv.ParseFloat(record[6], 64); err != nil {
		return e, fmt.Errorf("mean_cost: %w", err)
	}
	if e.MaxCost, err = strconv.ParseFloat(record[7], 64); err != nil {
		return e, fmt.Errorf("max_cost: %w", err)
	}
	if e.Changed, err = strconv.Atoi(record[8]); err != nil {
		return e, fmt.Errorf("changed: %w", err)
	}
	ns, err := strconv.ParseInt(record[9], 10, 64)
	if err != nil {
		return e, fmt.Errorf("elapsed_ns: %w", err)
	}
	e.Elapsed = time.Duration(ns)
	if e.Row, err = strconv.Atoi(record[10]); err != nil {
		return e, fmt.Errorf("row: %w", err)
	}
	if e.Col, err = strconv.Atoi(record[11]); err != nil {
		return e, fmt.Errorf("col: %w", err)
	}
	if e.Cost, err = strconv.ParseFloat(record[12], 64); err != nil {
		return e, fmt.Errorf("cost: %w", err)
	}
	if e.Work, err = strconv.ParseFloat(record[13], 64); err != nil {
		return e, fmt.Errorf("work: %w", err)
	}
	e.Action = record[14]
	return e, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
