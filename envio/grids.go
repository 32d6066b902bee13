package envio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/traverse-xyz/go-traverse/grid"
)

// LoadComponentGrid reads one force component from a file. Image
// formats map each pixel's grayscale intensity to [0,1]; text files
// carry whitespace-delimited floating point rows.
func LoadComponentGrid(path string) (grid.Grid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return LoadFloatGrid(path)
	case ".png", ".tif", ".tiff":
		img, err := decodeImage(path)
		if err != nil {
			return nil, err
		}
		return componentFromImage(img), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func componentFromImage(img image.Image) grid.Grid {
	b := img.Bounds()
	g := grid.NewGrid(b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			g[y-b.Min.Y][x-b.Min.X] = float64(gray.Y) / 255.0
		}
	}
	return g
}

// LoadFloatGrid reads a whitespace-delimited grid of floats.
func LoadFloatGrid(path string) (grid.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("envio: read %s: %w", path, err)
	}

	var g grid.Grid
	for i, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for j, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("envio: %s line %d: %w", path, i+1, err)
			}
			row[j] = v
		}
		g = append(g, row)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("envio: %s: %w", path, err)
	}
	return g, nil
}

// WriteFloatGrid writes a grid as whitespace-delimited rows.
func WriteFloatGrid(g grid.Grid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("envio: create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, row := range g {
		for j, v := range row {
			if j > 0 {
				if _, err := w.WriteString(" "); err != nil {
					return err
				}
			}
			if _, err := w.WriteString(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
				return err
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteActionGrid writes a policy grid in its symbol encoding.
func WriteActionGrid(actions grid.ActionGrid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("envio: create %s: %w", path, err)
	}
	defer f.Close()
	return actions.Encode(f)
}

// ReadActionGrid reads a policy grid from its symbol encoding.
func ReadActionGrid(path string) (grid.ActionGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("envio: open %s: %w", path, err)
	}
	defer f.Close()
	return grid.DecodeActionGrid(f)
}
