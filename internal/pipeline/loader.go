package pipeline

import (
	"bytes"
	"fmt"
	"image"

	"dehazer/internal/logger"
	"dehazer/internal/models"
	"dehazer/internal/opencv/conversion"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

type imageLoader struct {
	logger logger.Logger
}

// NewImageLoader returns the OpenCV backed loader. Images are decoded as
// 3-channel BGR. Data OpenCV cannot decode is retried with the Go image
// decoders.
func NewImageLoader(log logger.Logger) ImageLoader {
	if log == nil {
		log = logger.Nop()
	}
	return &imageLoader{logger: log}
}

func (l *imageLoader) LoadFromPath(path string) (*models.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()

	var (
		img *models.Image
		err error
	)
	if mat.Empty() {
		img, err = l.fallback(path, func() (image.Image, error) { return imaging.Open(path) })
	} else {
		img, err = conversion.MatToImage(mat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"path":   path,
		"width":  img.Width,
		"height": img.Height,
	})
	return img, nil
}

func (l *imageLoader) LoadFromBytes(data []byte) (*models.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no image data", models.ErrInvalidArgument)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err == nil {
		defer mat.Close()
	}
	if err != nil || mat.Empty() {
		return l.fallback(fmt.Sprintf("%d bytes", len(data)), func() (image.Image, error) {
			return imaging.Decode(bytes.NewReader(data))
		})
	}

	return conversion.MatToImage(mat)
}

// fallback decodes with the standard library codecs registered by imaging.
func (l *imageLoader) fallback(source string, decode func() (image.Image, error)) (*models.Image, error) {
	decoded, err := decode()
	if err != nil {
		return nil, fmt.Errorf("OpenCV and Go decoders both failed: %w", err)
	}

	l.logger.Debug("ImageLoader", "decoded without OpenCV", map[string]interface{}{
		"source": source,
	})
	return conversion.FromImage(decoded)
}

// ResizeToWidth scales img to the given width with bilinear interpolation,
// keeping the aspect ratio. A non-positive width or an image already that
// wide returns img unchanged.
func (l *imageLoader) ResizeToWidth(img *models.Image, width int) (*models.Image, error) {
	if width <= 0 || width == img.Width {
		return img, nil
	}

	height := DisplayHeight(img.Width, img.Height, width)
	if height <= 0 {
		return nil, fmt.Errorf("%w: resizing %dx%d to width %d leaves no rows",
			models.ErrInvalidArgument, img.Width, img.Height, width)
	}

	src, err := conversion.ImageToMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	if err := gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, gocv.InterpolationLinear); err != nil {
		return nil, fmt.Errorf("resize failed: %w", err)
	}

	l.logger.Debug("ImageLoader", "image resized for display", map[string]interface{}{
		"from": fmt.Sprintf("%dx%d", img.Width, img.Height),
		"to":   fmt.Sprintf("%dx%d", width, height),
	})
	return conversion.MatToImage(dst)
}

// DisplayHeight is the height that keeps the aspect ratio at the new width,
// truncated toward zero.
func DisplayHeight(width, height, newWidth int) int {
	return int(float64(newWidth) * float64(height) / float64(width))
}
