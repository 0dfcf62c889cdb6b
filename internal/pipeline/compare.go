package pipeline

import (
	"fmt"
	"image"
	"image/color"

	"dehazer/internal/models"
	"dehazer/internal/opencv/conversion"

	"github.com/disintegration/imaging"
)

// SideBySide places the images left to right on a black canvas, top
// aligned.
func SideBySide(images ...*models.Image) (*image.NRGBA, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no images to compose", models.ErrInvalidArgument)
	}

	width, height := 0, 0
	for i, img := range images {
		if err := img.Validate(); err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		width += img.Width
		height = max(height, img.Height)
	}

	canvas := imaging.New(width, height, color.Black)
	x := 0
	for _, img := range images {
		canvas = imaging.Paste(canvas, conversion.ToRGBA(img), image.Pt(x, 0))
		x += img.Width
	}
	return canvas, nil
}
