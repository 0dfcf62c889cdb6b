package filters

import (
	"testing"

	"dehazer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxFilter_MatchesBruteForce(t *testing.T) {
	windows := []models.Window{
		models.Square(1),
		models.Square(3),
		{Width: 4, Height: 2},
		{Width: 5, Height: 9},
		models.Square(81),
	}

	src := randomField(t, 23, 17, 7)
	for _, win := range windows {
		t.Run(win.String(), func(t *testing.T) {
			got, err := BoxFilter(NewWorkspace(4), src, win)
			require.NoError(t, err)
			require.Equal(t, src.Width, got.Width)
			require.Equal(t, src.Height, got.Height)

			for y := 0; y < src.Height; y++ {
				for x := 0; x < src.Width; x++ {
					sum, n := 0.0, 0
					bruteWindow(src, win, x, y, func(v float64) {
						sum += v
						n++
					})
					assert.InDelta(t, sum/float64(n), got.At(x, y), 1e-12, "(%d,%d)", x, y)
				}
			}
		})
	}
}

func TestBoxFilter_ConstantFieldIsFixedPoint(t *testing.T) {
	src := constantField(t, 40, 30, 0.375)
	got, err := BoxFilter(nil, src, models.Square(15))
	require.NoError(t, err)

	for _, v := range got.Data {
		assert.InDelta(t, 0.375, v, 1e-12)
	}
}

func TestBoxFilter_IndependentOfWorkerCount(t *testing.T) {
	src := randomField(t, 131, 97, 3)

	reference, err := BoxFilter(NewWorkspace(1), src, models.Square(21))
	require.NoError(t, err)

	for _, workers := range []int{2, 5, 16} {
		got, err := BoxFilter(NewWorkspace(workers), src, models.Square(21))
		require.NoError(t, err)
		assert.Equal(t, reference.Data, got.Data, "workers=%d", workers)
	}
}

func TestBoxFilter_DoesNotModifyInput(t *testing.T) {
	src := randomField(t, 12, 9, 11)
	before := append([]float64(nil), src.Data...)

	_, err := BoxFilter(NewWorkspace(2), src, models.Square(5))
	require.NoError(t, err)
	assert.Equal(t, before, src.Data)
}

func TestBoxFilter_InvalidArguments(t *testing.T) {
	src := randomField(t, 4, 4, 1)

	_, err := BoxFilter(nil, src, models.Window{Width: 0, Height: 3})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = BoxFilter(nil, &models.Field{}, models.Square(3))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = BoxFilter(nil, nil, models.Square(3))
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}
