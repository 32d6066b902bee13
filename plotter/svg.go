// Package plotter provides SVG visualization for planning runs:
// convergence line charts and cost-to-go heatmaps with policy overlays.
package plotter

import (
	"fmt"
	"math"
	"strings"

	"github.com/traverse-xyz/go-traverse/planner"
)

// Series represents a single data series to plot.
type Series struct {
	X     []float64
	Y     []float64
	Label string
	Color string
}

// SVGPlotter creates SVG line charts with customizable styling.
type SVGPlotter struct {
	Width      float64
	Height     float64
	Margin     map[string]float64
	PlotWidth  float64
	PlotHeight float64
	Title      string
	XLabel     string
	YLabel     string
	Series     []Series
}

// NewSVGPlotter creates a new SVG plotter with the given dimensions.
func NewSVGPlotter(width, height float64) *SVGPlotter {
	margin := map[string]float64{"top": 40, "right": 30, "bottom": 50, "left": 60}
	return &SVGPlotter{
		Width:      width,
		Height:     height,
		Margin:     margin,
		PlotWidth:  width - margin["left"] - margin["right"],
		PlotHeight: height - margin["top"] - margin["bottom"],
		XLabel:     "Sweep",
		YLabel:     "Value",
	}
}

// SetTitle sets the plot title.
func (p *SVGPlotter) SetTitle(t string) *SVGPlotter {
	p.Title = t
	return p
}

// SetXLabel sets the X-axis label.
func (p *SVGPlotter) SetXLabel(s string) *SVGPlotter {
	p.XLabel = s
	return p
}

// SetYLabel sets the Y-axis label.
func (p *SVGPlotter) SetYLabel(s string) *SVGPlotter {
	p.YLabel = s
	return p
}

// AddSeries adds a data series to the plot.
// If color is empty, a default color from a palette will be used.
func (p *SVGPlotter) AddSeries(x, y []float64, label, color string) *SVGPlotter {
	if color == "" {
		colors := []string{"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00", "#a65628", "#f781bf"}
		color = colors[len(p.Series)%len(colors)]
	}
	p.Series = append(p.Series, Series{X: x, Y: y, Label: label, Color: color})
	return p
}

// Render generates the SVG document.
func (p *SVGPlotter) Render() string {
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, s := range p.Series {
		for i := range s.X {
			xmin = math.Min(xmin, s.X[i])
			xmax = math.Max(xmax, s.X[i])
			ymin = math.Min(ymin, s.Y[i])
			ymax = math.Max(ymax, s.Y[i])
		}
	}
	if math.IsInf(xmin, 1) {
		xmin, xmax = 0, 1
	}
	if math.IsInf(ymin, 1) {
		ymin, ymax = 0, 1
	}

	xrange := xmax - xmin
	if xrange == 0 {
		xrange = 1
	}
	yrange := ymax - ymin
	if yrange == 0 {
		yrange = 1
	}
	xmin -= xrange * 0.05
	xmax += xrange * 0.05
	ymin -= yrange * 0.1
	ymax += yrange * 0.1

	sx := func(x float64) float64 {
		return p.Margin["left"] + ((x-xmin)/(xmax-xmin))*p.PlotWidth
	}
	sy := func(y float64) float64 {
		return p.Margin["top"] + p.PlotHeight - ((y-ymin)/(ymax-ymin))*p.PlotHeight
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`,
		int(p.Width), int(p.Height)))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="#f8f9fa" rx="8"/>`,
		int(p.Width), int(p.Height)))

	if p.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="25" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" font-weight="bold">%s</text>`,
			p.Width/2, escape(p.Title)))
	}

	// Axes
	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		p.Margin["left"], p.Margin["top"], p.Margin["left"], p.Margin["top"]+p.PlotHeight))
	sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="2"/>`,
		p.Margin["left"], p.Margin["top"]+p.PlotHeight, p.Margin["left"]+p.PlotWidth, p.Margin["top"]+p.PlotHeight))

	// Axis labels
	sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12">%s</text>`,
		p.Margin["left"]+p.PlotWidth/2, p.Height-10, escape(p.XLabel)))
	sb.WriteString(fmt.Sprintf(`<text x="15" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" transform="rotate(-90, 15, %f)">%s</text>`,
		p.Margin["top"]+p.PlotHeight/2, p.Margin["top"]+p.PlotHeight/2, escape(p.YLabel)))

	// Grid and ticks
	const numTicks = 5
	for i := 0; i <= numTicks; i++ {
		x := xmin + (xmax-xmin)*float64(i)/numTicks
		px := sx(x)
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1"/>`,
			px, p.Margin["top"]+p.PlotHeight, px, p.Margin["top"]+p.PlotHeight+5))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="middle" font-family="Arial, sans-serif" font-size="10">%.1f</text>`,
			px, p.Margin["top"]+p.PlotHeight+20, x))
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#ddd" stroke-width="0.5"/>`,
			px, p.Margin["top"], px, p.Margin["top"]+p.PlotHeight))

		y := ymin + (ymax-ymin)*float64(i)/numTicks
		py := sy(y)
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#333" stroke-width="1"/>`,
			p.Margin["left"]-5, py, p.Margin["left"], py))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" text-anchor="end" font-family="Arial, sans-serif" font-size="10">%.1f</text>`,
			p.Margin["left"]-10, py+4, y))
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#ddd" stroke-width="0.5"/>`,
			p.Margin["left"], py, p.Margin["left"]+p.PlotWidth, py))
	}

	// Series
	for _, s := range p.Series {
		if len(s.X) == 0 {
			continue
		}
		path := strings.Builder{}
		for i := range s.X {
			if i == 0 {
				path.WriteString(fmt.Sprintf("M%f,%f", sx(s.X[i]), sy(s.Y[i])))
			} else {
				path.WriteString(fmt.Sprintf(" L%f,%f", sx(s.X[i]), sy(s.Y[i])))
			}
		}
		sb.WriteString(fmt.Sprintf(`<path d="%s" stroke="%s" stroke-width="2" fill="none"/>`,
			path.String(), s.Color))
	}

	// Legend
	legendY := p.Margin["top"] + 10
	for _, s := range p.Series {
		if s.Label == "" {
			continue
		}
		x1 := p.Width - p.Margin["right"] - 110
		x2 := p.Width - p.Margin["right"] - 90
		sb.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="%s" stroke-width="2"/>`,
			x1, legendY, x2, legendY, s.Color))
		sb.WriteString(fmt.Sprintf(`<text x="%f" y="%f" font-family="Arial, sans-serif" font-size="10">%s</text>`,
			x2+5, legendY+4, escape(s.Label)))
		legendY += 20
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// PlotConvergence renders the sweep history as a line chart: mean and
// max cost over reachable cells, plus the changed-cell count.
func PlotConvergence(history []planner.SweepStats, width, height float64, title string) string {
	sweeps := make([]float64, len(history))
	mean := make([]float64, len(history))
	max := make([]float64, len(history))
	changed := make([]float64, len(history))
	for i, s := range history {
		sweeps[i] = float64(s.Sweep)
		mean[i] = s.MeanCost
		max[i] = s.MaxCost
		changed[i] = float64(s.Changed)
	}

	p := NewSVGPlotter(width, height).
		SetTitle(title).
		SetYLabel("Cost")
	p.AddSeries(sweeps, mean, "mean cost", "")
	p.AddSeries(sweeps, max, "max cost", "")
	p.AddSeries(sweeps, changed, "cells changed", "")
	return p.Render()
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string { return escaper.Replace(s) }
