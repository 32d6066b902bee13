package plotter

import (
	"fmt"
	"math"
	"strings"

	"github.com/traverse-xyz/go-traverse/grid"
)

// Heatmap renders a cost grid as colored cells. Cells at or above the
// sentinel draw as unreachable; obstacles and the target come from the
// policy grid when one is attached.
type Heatmap struct {
	CellSize float64
	Title    string
	Costs    grid.Grid
	Actions  grid.ActionGrid // optional policy overlay
	DMax     float64
	ShowFlow bool // draw policy direction markers
}

// NewHeatmap creates a heatmap for a cost grid with the given sentinel.
func NewHeatmap(costs grid.Grid, dmax float64) *Heatmap {
	return &Heatmap{
		CellSize: 24,
		Costs:    costs,
		DMax:     dmax,
	}
}

// WithPolicy attaches an action grid and enables the flow overlay.
func (h *Heatmap) WithPolicy(actions grid.ActionGrid) *Heatmap {
	h.Actions = actions
	h.ShowFlow = true
	return h
}

// WithTitle sets the heatmap title.
func (h *Heatmap) WithTitle(title string) *Heatmap {
	h.Title = title
	return h
}

// Render generates the SVG document.
func (h *Heatmap) Render() string {
	rows, cols := h.Costs.Rows(), h.Costs.Cols()
	cell := h.CellSize
	top := 0.0
	if h.Title != "" {
		top = 32
	}
	width := float64(cols) * cell
	height := top + float64(rows)*cell

	// Normalize over finite costs only.
	lo, hi := math.Inf(1), math.Inf(-1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := h.Costs[r][c]
			if h.DMax > 0 && v >= h.DMax {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	if hi == lo {
		hi = lo + 1
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`,
		int(width), int(height)))

	if h.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="22" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" font-weight="bold">%s</text>`,
			width/2, escape(h.Title)))
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			x := float64(c) * cell
			y := top + float64(r)*cell

			fill := h.cellColor(r, c, lo, hi)
			sb.WriteString(fmt.Sprintf(`<rect x="%f" y="%f" width="%f" height="%f" fill="%s" stroke="#fff" stroke-width="0.5"/>`,
				x, y, cell, cell, fill))

			if h.ShowFlow && h.Actions != nil {
				h.writeMarker(&sb, r, c, x, y)
			}
		}
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

func (h *Heatmap) cellColor(r, c int, lo, hi float64) string {
	if h.Actions != nil && r < len(h.Actions) && c < len(h.Actions[r]) {
		switch h.Actions[r][c] {
		case grid.MoveBlocked:
			return "#1a1a1a"
		case grid.MoveNoRoute:
			return "#c9c9c9"
		}
	}
	v := h.Costs[r][c]
	if h.DMax > 0 && v >= h.DMax {
		return "#c9c9c9"
	}
	t := (v - lo) / (hi - lo)
	// Low cost renders pale yellow, high cost deep red.
	red := int(253 - t*73)
	green := int(231 - t*214)
	blue := int(183 - t*144)
	return fmt.Sprintf("#%02x%02x%02x", red, green, blue)
}

// writeMarker draws one policy glyph: a short segment from the cell
// center toward the move destination, or a ring at the target.
func (h *Heatmap) writeMarker(sb *strings.Builder, r, c int, x, y float64) {
	m := h.Actions[r][c]
	cx := x + h.CellSize/2
	cy := y + h.CellSize/2

	if m == grid.MoveTarget {
		sb.WriteString(fmt.Sprintf(`<circle cx="%f" cy="%f" r="%f" fill="none" stroke="#0b6623" stroke-width="2"/>`,
			cx, cy, h.CellSize/3))
		return
	}
	dr, dc, ok := m.Offset()
	if !ok {
		return
	}

	norm := math.Hypot(float64(dr), float64(dc))
	scale := h.CellSize * 0.35 / norm
	ex := cx + float64(dc)*scale
	ey := cy + float64(dr)*scale
	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1.2"/>`,
		cx, cy, ex, ey))
	sb.WriteString(fmt.Sprintf(`<circle cx="%f" cy="%f" r="1.6" fill="#333"/>`, ex, ey))
}
