package darkchannel

import (
	"fmt"
	"math"

	"dehazer/internal/models"
	"dehazer/internal/processing/filters"
)

// Transmission maps one refined, normalised dark channel sample to a
// transmission coefficient clipped to [floor, 1]. NaN maps to floor.
func Transmission(g, omega, floor float64) float64 {
	t := 1 - omega*g
	if math.IsNaN(t) || t < floor {
		return floor
	}
	if t > 1 {
		return 1
	}
	return t
}

// EstimateTransmission applies Transmission to every sample of refined.
func EstimateTransmission(ws *filters.Workspace, refined *models.Field, omega, floor float64) (*models.Field, error) {
	if err := refined.Validate(); err != nil {
		return nil, fmt.Errorf("transmission: %w", err)
	}
	if err := models.CheckRange("omega", omega); err != nil {
		return nil, fmt.Errorf("transmission: %w", err)
	}
	if err := models.CheckRange("transmission_floor", floor); err != nil {
		return nil, fmt.Errorf("transmission: %w", err)
	}

	t := ws.NewField(refined.Width, refined.Height)
	width := refined.Width
	ws.Rows(refined.Height, func(start, end int) {
		for i := start * width; i < end*width; i++ {
			t.Data[i] = Transmission(refined.Data[i], omega, floor)
		}
	})
	return t, nil
}

// RecoverRadiance inverts I = J*t + A*(1-t) for every pixel and channel,
// clipping to [0, 255] and truncating to 8 bits. t must be strictly
// positive everywhere; EstimateTransmission guarantees that.
func RecoverRadiance(ws *filters.Workspace, img *models.Image, t *models.Field, light models.AtmosphericLight) (*models.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("radiance recovery: %w", err)
	}
	if err := models.CheckShape(img.Width, img.Height, t); err != nil {
		return nil, fmt.Errorf("radiance recovery: %w", err)
	}
	for i, v := range t.Data {
		if !(v > 0) {
			return nil, fmt.Errorf("%w: radiance recovery: transmission %g at index %d is not positive",
				models.ErrInvalidArgument, v, i)
		}
	}
	for c, v := range light {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: radiance recovery: atmospheric light channel %d is %g",
				models.ErrInvalidArgument, c, v)
		}
	}

	out, err := models.NewImage(img.Width, img.Height)
	if err != nil {
		return nil, err
	}

	width := img.Width
	ws.Rows(img.Height, func(start, end int) {
		for i := start * width; i < end*width; i++ {
			ti := t.Data[i]
			base := i * models.Channels
			for c := 0; c < models.Channels; c++ {
				j := (float64(img.Pix[base+c])-light[c])/ti + light[c]
				out.Pix[base+c] = clipToByte(j)
			}
		}
	})
	return out, nil
}

func clipToByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
