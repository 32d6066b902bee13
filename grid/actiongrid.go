package grid

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ActionGrid records the resolved move symbol for every cell.
type ActionGrid [][]Move

// NewActionGrid allocates a rows×cols action grid with every cell set
// to MoveNoRoute.
func NewActionGrid(rows, cols int) ActionGrid {
	a := make(ActionGrid, rows)
	for r := range a {
		a[r] = make([]Move, cols)
		for c := range a[r] {
			a[r][c] = MoveNoRoute
		}
	}
	return a
}

// Rows returns the number of rows.
func (a ActionGrid) Rows() int { return len(a) }

// Cols returns the number of columns, or 0 for an empty grid.
func (a ActionGrid) Cols() int {
	if len(a) == 0 {
		return 0
	}
	return len(a[0])
}

// Clone returns a deep copy of the grid.
func (a ActionGrid) Clone() ActionGrid {
	out := make(ActionGrid, len(a))
	for r := range a {
		out[r] = append([]Move(nil), a[r]...)
	}
	return out
}

// Encode writes the grid as fixed-width text: one row per line, one
// character per cell.
func (a ActionGrid) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, row := range a {
		for _, m := range row {
			if err := bw.WriteByte(byte(m)); err != nil {
				return fmt.Errorf("grid: encode action grid: %w", err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("grid: encode action grid: %w", err)
		}
	}
	return bw.Flush()
}

// String renders the grid in its text encoding.
func (a ActionGrid) String() string {
	var sb strings.Builder
	_ = a.Encode(&sb)
	return sb.String()
}

// DecodeActionGrid parses the fixed-width text encoding produced by
// Encode. Every line must have the same length and every symbol must
// belong to the move alphabet.
func DecodeActionGrid(r io.Reader) (ActionGrid, error) {
	var a ActionGrid
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if len(a) > 0 && len(line) != len(a[0]) {
			return nil, fmt.Errorf("%w: line %d has %d cells, want %d", ErrNonRectangular, len(a)+1, len(line), len(a[0]))
		}
		row := make([]Move, len(line))
		for i := 0; i < len(line); i++ {
			m, err := ParseMove(line[i])
			if err != nil {
				return nil, fmt.Errorf("grid: decode action grid line %d: %w", len(a)+1, err)
			}
			row[i] = m
		}
		a = append(a, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("grid: decode action grid: %w", err)
	}
	if len(a) == 0 {
		return nil, ErrEmptyGrid
	}
	return a, nil
}
