package pipeline

import (
	"context"

	"dehazer/internal/algorithms/darkchannel"
	"dehazer/internal/models"
)

// Dehazer runs the numeric core on one in-memory image.
type Dehazer interface {
	Process(ctx context.Context, img *models.Image) (*darkchannel.Result, error)
}

// ImageLoader decodes image files into BGR buffers.
type ImageLoader interface {
	LoadFromPath(path string) (*models.Image, error)
	LoadFromBytes(data []byte) (*models.Image, error)
	ResizeToWidth(img *models.Image, width int) (*models.Image, error)
}

// ImageSaver encodes images and scalar maps; the format follows the file
// extension.
type ImageSaver interface {
	SaveImage(path string, img *models.Image) error
	SaveField(path string, field *models.Field, scale float64) error
	SaveComparison(path string, original, processed *models.Image) error
}
