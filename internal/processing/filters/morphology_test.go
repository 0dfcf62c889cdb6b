package filters

import (
	"math"
	"testing"

	"dehazer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErode_MatchesBruteForce(t *testing.T) {
	src := randomField(t, 29, 19, 5)

	for _, win := range []models.Window{models.Square(1), models.Square(3), {Width: 6, Height: 3}, models.Square(15)} {
		t.Run(win.String(), func(t *testing.T) {
			got, err := Erode(NewWorkspace(3), src, win)
			require.NoError(t, err)

			for y := 0; y < src.Height; y++ {
				for x := 0; x < src.Width; x++ {
					want := math.Inf(1)
					bruteWindow(src, win, x, y, func(v float64) {
						want = math.Min(want, v)
					})
					assert.Equal(t, want, got.At(x, y), "(%d,%d)", x, y)
				}
			}
		})
	}
}

func TestErode_SpreadsSingleMinimum(t *testing.T) {
	src := constantField(t, 9, 9, 200)
	src.Set(4, 4, 10)

	got, err := Erode(nil, src, models.Square(3))
	require.NoError(t, err)

	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			want := 200.0
			if x >= 3 && x <= 5 && y >= 3 && y <= 5 {
				want = 10
			}
			assert.Equal(t, want, got.At(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestErode_InvalidArguments(t *testing.T) {
	_, err := Erode(nil, randomField(t, 3, 3, 1), models.Window{Width: 3, Height: 0})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = Erode(nil, &models.Field{Width: 2, Height: 2}, models.Square(3))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}
