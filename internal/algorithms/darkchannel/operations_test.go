package darkchannel

import (
	"math"
	"testing"

	"dehazer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransmission(t *testing.T) {
	assert.Equal(t, 1.0, Transmission(0, 0.95, 0.3))
	assert.Equal(t, 1.0, Transmission(-0.5, 0.95, 0.3))
	assert.Equal(t, 0.3, Transmission(1, 0.95, 0.3))
	assert.Equal(t, 0.3, Transmission(math.NaN(), 0.95, 0.3))
	assert.InDelta(t, 0.525, Transmission(0.5, 0.95, 0.3), 1e-12)
}

func TestTransmission_BoundedAndMonotone(t *testing.T) {
	prev := math.Inf(1)
	for g := -0.2; g <= 1.2; g += 0.01 {
		v := Transmission(g, 0.95, 0.3)
		assert.GreaterOrEqual(t, v, 0.3)
		assert.LessOrEqual(t, v, 1.0)
		assert.LessOrEqual(t, v, prev, "g=%g", g)
		prev = v
	}
}

func TestEstimateTransmission(t *testing.T) {
	refined, err := models.NewFieldFromData(2, 2, []float64{0, 0.5, 1, 2})
	require.NoError(t, err)

	tm, err := EstimateTransmission(nil, refined, 0.95, 0.3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0.525, 0.3, 0.3}, tm.Data, 1e-12)

	_, err = EstimateTransmission(nil, refined, 1.5, 0.3)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = EstimateTransmission(nil, refined, 0.95, 0)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestRecoverRadiance_FullTransmissionIsIdentity(t *testing.T) {
	img, err := models.NewImage(3, 2)
	require.NoError(t, err)
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 13)
	}
	tm, err := models.NewFieldFromData(3, 2, []float64{1, 1, 1, 1, 1, 1})
	require.NoError(t, err)

	out, err := RecoverRadiance(nil, img, tm, models.AtmosphericLight{90, 120, 200})
	require.NoError(t, err)
	assert.Equal(t, img.Pix, out.Pix)
}

func TestRecoverRadiance_ClipsAndTruncates(t *testing.T) {
	img, err := models.NewImage(2, 1)
	require.NoError(t, err)
	img.Set(0, 0, 10, 250, 101)
	img.Set(1, 0, 100, 100, 100)

	tm, err := models.NewFieldFromData(2, 1, []float64{0.5, 0.3})
	require.NoError(t, err)
	light := models.AtmosphericLight{100, 100, 100}

	out, err := RecoverRadiance(nil, img, tm, light)
	require.NoError(t, err)

	b, g, r := out.At(0, 0)
	assert.Equal(t, uint8(0), b)   // (10-100)/0.5+100 = -80
	assert.Equal(t, uint8(255), g) // (250-100)/0.5+100 = 400
	assert.Equal(t, uint8(102), r) // (101-100)/0.5+100 = 102

	b, g, r = out.At(1, 0)
	assert.Equal(t, []uint8{100, 100, 100}, []uint8{b, g, r})
}

func TestRecoverRadiance_FractionalResultTruncates(t *testing.T) {
	img, err := models.NewUniformImage(1, 1, 101, 101, 101)
	require.NoError(t, err)
	tm, err := models.NewFieldFromData(1, 1, []float64{0.4})
	require.NoError(t, err)

	// (101-100)/0.4+100 = 102.5
	out, err := RecoverRadiance(nil, img, tm, models.AtmosphericLight{100, 100, 100})
	require.NoError(t, err)
	assert.Equal(t, []uint8{102, 102, 102}, out.Pix)
}

func TestRecoverRadiance_InvalidArguments(t *testing.T) {
	img, err := models.NewImage(2, 2)
	require.NoError(t, err)
	light := models.AtmosphericLight{1, 2, 3}

	zero, err := models.NewFieldFromData(2, 2, []float64{1, 0, 1, 1})
	require.NoError(t, err)
	_, err = RecoverRadiance(nil, img, zero, light)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	nan, err := models.NewFieldFromData(2, 2, []float64{1, math.NaN(), 1, 1})
	require.NoError(t, err)
	_, err = RecoverRadiance(nil, img, nan, light)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	small, err := models.NewFieldFromData(1, 2, []float64{1, 1})
	require.NoError(t, err)
	_, err = RecoverRadiance(nil, img, small, light)
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	ones, err := models.NewFieldFromData(2, 2, []float64{1, 1, 1, 1})
	require.NoError(t, err)
	_, err = RecoverRadiance(nil, img, ones, models.AtmosphericLight{math.Inf(1), 0, 0})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}
