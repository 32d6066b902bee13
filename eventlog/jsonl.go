package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSONL writes the log as JSON Lines, one event per line.
func WriteJSONL(w io.Writer, log *Log) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, e := range log.Events {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("encoding event %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// WriteJSONLFile writes the log to a JSONL file, creating or
// truncating it.
func WriteJSONLFile(filename string, log *Log) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := WriteJSONL(f, log); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadJSONL parses an event log written by WriteJSONL. Blank lines are
// skipped.
func ReadJSONL(r io.Reader) (*Log, error) {
	log := &Log{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var e Event
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if e.Kind != KindSweep && e.Kind != KindCell {
			return nil, fmt.Errorf("line %d: unknown event kind %q", line, e.Kind)
		}
		log.Events = append(log.Events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}
	return log, nil
}

// ReadJSONLFile parses an event log from a JSONL file.
func ReadJSONLFile(filename string) (*Log, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return ReadJSONL(f)
}
