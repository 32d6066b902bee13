// Package envio loads planning environments from files: occupancy
// grids, force component grids, and spatially variable weight and
// error grids. Delimited text, PNG, and TIFF formats are supported.
package envio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/traverse-xyz/go-traverse/grid"
)

// Loader errors.
var (
	ErrNoFiles           = errors.New("envio: at least one input file is required")
	ErrUnsupportedFormat = errors.New("envio: unsupported file format")
	ErrShapeMismatch     = errors.New("envio: input grids have different shapes")
)

// LoadOccupancy merges one or more occupancy files into a single grid.
// A cell blocked in any input is blocked in the result. Text files are
// comma-delimited 0/1 rows; in PNG and TIFF images any pixel that is
// not opaque white marks an obstacle.
func LoadOccupancy(paths ...string) (grid.Occupancy, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	var merged grid.Occupancy
	for _, path := range paths {
		occ, err := loadOccupancyFile(path)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			merged = occ
			continue
		}
		if occ.Rows() != merged.Rows() || occ.Cols() != merged.Cols() {
			return nil, fmt.Errorf("%w: %s is %d×%d, want %d×%d",
				ErrShapeMismatch, path, occ.Rows(), occ.Cols(), merged.Rows(), merged.Cols())
		}
		for r := 0; r < occ.Rows(); r++ {
			for c := 0; c < occ.Cols(); c++ {
				if occ[r][c] {
					merged[r][c] = true
				}
			}
		}
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

func loadOccupancyFile(path string) (grid.Occupancy, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".csv":
		return occupancyFromText(path)
	case ".png", ".tif", ".tiff":
		img, err := decodeImage(path)
		if err != nil {
			return nil, err
		}
		return occupancyFromImage(img), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func occupancyFromText(path string) (grid.Occupancy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("envio: read %s: %w", path, err)
	}

	var occ grid.Occupancy
	for i, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var row []bool
		for _, tok := range strings.Split(line, ",") {
			v, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil {
				return nil, fmt.Errorf("envio: %s line %d: %w", path, i+1, err)
			}
			row = append(row, v != 0)
		}
		occ = append(occ, row)
	}
	if err := occ.Validate(); err != nil {
		return nil, fmt.Errorf("envio: %s: %w", path, err)
	}
	return occ, nil
}

func occupancyFromImage(img image.Image) grid.Occupancy {
	b := img.Bounds()
	occ := grid.NewOccupancy(b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r != 0xffff || g != 0xffff || bl != 0xffff || a != 0xffff {
				occ[y-b.Min.Y][x-b.Min.X] = true
			}
		}
	}
	return occ
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("envio: open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err := png.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("envio: decode %s: %w", path, err)
		}
		return img, nil
	case ".tif", ".tiff":
		img, err := tiff.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("envio: decode %s: %w", path, err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
