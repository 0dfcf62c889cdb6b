package filters

import (
	"math/rand/v2"
	"testing"

	"dehazer/internal/models"

	"github.com/stretchr/testify/require"
)

func randomField(t *testing.T, width, height int, seed uint64) *models.Field {
	t.Helper()
	f, err := models.NewField(width, height)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(seed, seed+1))
	for i := range f.Data {
		f.Data[i] = rng.Float64()
	}
	return f
}

func constantField(t *testing.T, width, height int, v float64) *models.Field {
	t.Helper()
	f, err := models.NewField(width, height)
	require.NoError(t, err)
	for i := range f.Data {
		f.Data[i] = v
	}
	return f
}

// bruteWindow visits the clipped window around (x, y).
func bruteWindow(f *models.Field, win models.Window, x, y int, visit func(v float64)) {
	bx, ax := models.Offsets(win.Width)
	by, ay := models.Offsets(win.Height)
	for yy := max(0, y-by); yy <= min(f.Height-1, y+ay); yy++ {
		for xx := max(0, x-bx); xx <= min(f.Width-1, x+ax); xx++ {
			visit(f.At(xx, yy))
		}
	}
}
