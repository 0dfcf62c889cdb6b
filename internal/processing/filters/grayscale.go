package filters

import (
	"fmt"

	"dehazer/internal/models"
)

// Fixed-point luma weights (Q14) used by OpenCV's BGR to gray conversion.
const (
	lumaShift = 14
	lumaB     = 1868
	lumaG     = 9617
	lumaR     = 4899
	lumaRound = 1 << (lumaShift - 1)
)

// Luma returns the 8-bit gray level of a B,G,R pixel, rounded the way
// OpenCV rounds it.
func Luma(b, g, r uint8) uint8 {
	return uint8((uint32(b)*lumaB + uint32(g)*lumaG + uint32(r)*lumaR + lumaRound) >> lumaShift)
}

// Grayscale converts img to a luma field normalised to [0, 1].
func Grayscale(ws *Workspace, img *models.Image) (*models.Field, error) {
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("grayscale: %w", err)
	}

	dst := ws.NewField(img.Width, img.Height)
	width := img.Width
	ws.Rows(img.Height, func(start, end int) {
		for i := start * width; i < end*width; i++ {
			p := img.Pix[i*models.Channels : i*models.Channels+models.Channels]
			dst.Data[i] = float64(Luma(p[0], p[1], p[2])) / 255.0
		}
	})
	return dst, nil
}
