package darkchannel

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"dehazer/internal/models"
	"dehazer/internal/processing/filters"
)

// DarkChannel returns the per-pixel minimum over the colour channels eroded
// with a flat win-sized rectangle. Values stay in the 0..255 input range.
func DarkChannel(ws *filters.Workspace, img *models.Image, win models.Window) (*models.Field, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("dark channel: %w", err)
	}
	if err := win.Validate(); err != nil {
		return nil, fmt.Errorf("dark channel: %w", err)
	}

	minChannel := ws.NewField(img.Width, img.Height)
	defer ws.Release(minChannel)

	width := img.Width
	ws.Rows(img.Height, func(start, end int) {
		for i := start * width; i < end*width; i++ {
			p := img.Pix[i*models.Channels : i*models.Channels+models.Channels]
			m := min(p[0], p[1], p[2])
			minChannel.Data[i] = float64(m)
		}
	})

	return filters.Erode(ws, minChannel, win)
}

// TopCount returns how many of n pixels feed the atmospheric light estimate:
// floor(n*fraction), never less than one.
func TopCount(n int, fraction float64) int {
	return max(int(math.Floor(float64(n)*fraction)), 1)
}

// BrightestIndices returns the row-major indices of the k largest dark
// channel values. Equal values are ordered by ascending index so the result
// is reproducible.
func BrightestIndices(dark *models.Field, k int) []int {
	indices := make([]int, len(dark.Data))
	for i := range indices {
		indices[i] = i
	}
	slices.SortFunc(indices, func(a, b int) int {
		if c := cmp.Compare(dark.Data[b], dark.Data[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return indices[:min(k, len(indices))]
}

// EstimateAtmosphericLight averages the colour of the brightest fraction of
// dark channel pixels.
func EstimateAtmosphericLight(img *models.Image, dark *models.Field, fraction float64) (models.AtmosphericLight, error) {
	var light models.AtmosphericLight

	if err := img.Validate(); err != nil {
		return light, fmt.Errorf("atmospheric light: %w", err)
	}
	if err := models.CheckShape(img.Width, img.Height, dark); err != nil {
		return light, fmt.Errorf("atmospheric light: %w", err)
	}
	if err := models.CheckRange("top_fraction", fraction); err != nil {
		return light, fmt.Errorf("atmospheric light: %w", err)
	}

	top := BrightestIndices(dark, TopCount(img.PixelCount(), fraction))

	var sums [models.Channels]float64
	for _, idx := range top {
		p := img.Pix[idx*models.Channels : idx*models.Channels+models.Channels]
		for c := range sums {
			sums[c] += float64(p[c])
		}
	}
	for c := range light {
		light[c] = sums[c] / float64(len(top))
	}
	return light, nil
}
