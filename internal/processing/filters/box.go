package filters

import (
	"fmt"

	"dehazer/internal/models"
)

// BoxFilter returns the mean of src over win centred on every sample. Windows
// are clipped at the borders and the mean is taken over the samples that
// remain, so a constant field maps to itself.
func BoxFilter(ws *Workspace, src *models.Field, win models.Window) (*models.Field, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("box filter: %w", err)
	}
	if err := win.Validate(); err != nil {
		return nil, fmt.Errorf("box filter: %w", err)
	}

	ws = ws.orDefault()
	horizontal := ws.NewField(src.Width, src.Height)
	defer ws.Release(horizontal)

	dst := ws.NewField(src.Width, src.Height)
	boxHorizontal(ws, src, horizontal, win.Width)
	boxVertical(ws, horizontal, dst, win.Height)
	return dst, nil
}

// boxHorizontal writes the clipped running mean of every row. Each row is
// summed left to right on its own, so results do not depend on chunking.
func boxHorizontal(ws *Workspace, src, dst *models.Field, size int) {
	width := src.Width
	before, after := models.Offsets(size)

	ws.Rows(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := src.Data[y*width : (y+1)*width]
			out := dst.Data[y*width : (y+1)*width]

			lo, hi := 0, min(width-1, after)
			sum := 0.0
			for x := lo; x <= hi; x++ {
				sum += row[x]
			}

			for x := 0; x < width; x++ {
				out[x] = sum / float64(hi-lo+1)

				nextLo := max(0, x+1-before)
				nextHi := min(width-1, x+1+after)
				if nextLo > lo {
					sum -= row[lo]
					lo = nextLo
				}
				if nextHi > hi {
					hi = nextHi
					sum += row[hi]
				}
			}
		}
	})
}

// boxVertical averages down each column. Work is split by column ranges so
// every column is accumulated top to bottom regardless of worker count.
func boxVertical(ws *Workspace, src, dst *models.Field, size int) {
	width, height := src.Width, src.Height
	before, after := models.Offsets(size)

	ws.Rows(width, func(c0, c1 int) {
		sums := make([]float64, c1-c0)

		lo, hi := 0, min(height-1, after)
		for y := lo; y <= hi; y++ {
			row := src.Data[y*width+c0 : y*width+c1]
			for i, v := range row {
				sums[i] += v
			}
		}

		for y := 0; y < height; y++ {
			count := float64(hi - lo + 1)
			out := dst.Data[y*width+c0 : y*width+c1]
			for i := range out {
				out[i] = sums[i] / count
			}

			nextLo := max(0, y+1-before)
			nextHi := min(height-1, y+1+after)
			if nextLo > lo {
				row := src.Data[lo*width+c0 : lo*width+c1]
				for i, v := range row {
					sums[i] -= v
				}
				lo = nextLo
			}
			if nextHi > hi {
				hi = nextHi
				row := src.Data[hi*width+c0 : hi*width+c1]
				for i, v := range row {
					sums[i] += v
				}
			}
		}
	})
}
