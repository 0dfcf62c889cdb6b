package conversion

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"dehazer/internal/models"

	"gocv.io/x/gocv"
)

// ValidateMat rejects empty Mats and anything that is not 8-bit unsigned
// with 1, 3 or 4 channels.
func ValidateMat(src gocv.Mat, operation string) error {
	if src.Empty() {
		return fmt.Errorf("%w: Mat is empty for operation: %s", models.ErrInvalidArgument, operation)
	}
	if src.Rows() <= 0 || src.Cols() <= 0 {
		return fmt.Errorf("%w: Mat has invalid dimensions %dx%d for operation: %s",
			models.ErrInvalidArgument, src.Cols(), src.Rows(), operation)
	}
	switch src.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
		return nil
	default:
		return fmt.Errorf("%w: unsupported Mat type %v for operation: %s",
			models.ErrInvalidArgument, src.Type(), operation)
	}
}

// MatToImage copies an 8-bit Mat into a BGR models.Image. Gray Mats are
// expanded to three equal channels and alpha is dropped.
func MatToImage(src gocv.Mat) (*models.Image, error) {
	if err := ValidateMat(src, "Mat to image conversion"); err != nil {
		return nil, err
	}

	bgr := src
	switch src.Channels() {
	case 1:
		expanded := gocv.NewMat()
		defer expanded.Close()
		if err := gocv.CvtColor(src, &expanded, gocv.ColorGrayToBGR); err != nil {
			return nil, fmt.Errorf("gray to BGR conversion failed: %w", err)
		}
		bgr = expanded
	case 4:
		opaque := gocv.NewMat()
		defer opaque.Close()
		if err := gocv.CvtColor(src, &opaque, gocv.ColorBGRAToBGR); err != nil {
			return nil, fmt.Errorf("BGRA to BGR conversion failed: %w", err)
		}
		bgr = opaque
	}

	if !bgr.IsContinuous() {
		cloned := bgr.Clone()
		defer cloned.Close()
		bgr = cloned
	}

	img, err := models.NewImage(bgr.Cols(), bgr.Rows())
	if err != nil {
		return nil, err
	}

	data := bgr.ToBytes()
	if len(data) != len(img.Pix) {
		return nil, fmt.Errorf("Mat holds %d bytes, expected %d", len(data), len(img.Pix))
	}
	copy(img.Pix, data)
	return img, nil
}

// ImageToMat copies img into a new CV_8UC3 Mat. The Mat does not share
// memory with img. The caller owns the Mat.
func ImageToMat(img *models.Image) (gocv.Mat, error) {
	if err := img.Validate(); err != nil {
		return gocv.NewMat(), err
	}

	pix := make([]byte, len(img.Pix))
	copy(pix, img.Pix)
	mat, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("Mat creation failed: %w", err)
	}
	return mat, nil
}

// FieldToMat renders a scalar field as a CV_8UC1 Mat, multiplying each
// sample by scale and clipping to [0, 255].
func FieldToMat(field *models.Field, scale float64) (gocv.Mat, error) {
	if err := field.Validate(); err != nil {
		return gocv.NewMat(), err
	}

	data := make([]byte, len(field.Data))
	for i, v := range field.Data {
		data[i] = quantize(v * scale)
	}

	mat, err := gocv.NewMatFromBytes(field.Height, field.Width, gocv.MatTypeCV8UC1, data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("Mat creation failed: %w", err)
	}
	return mat, nil
}

// ToRGBA converts a BGR image into a standard library RGBA image.
func ToRGBA(img *models.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			b, g, r := img.At(x, y)
			out.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}

// FromImage converts any standard library image into a BGR models.Image.
func FromImage(src image.Image) (*models.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: input image is nil", models.ErrInvalidArgument)
	}

	bounds := src.Bounds()
	img, err := models.NewImage(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b, _ := src.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// 16-bit to 8-bit
			img.Set(x, y, uint8(b>>8), uint8(g>>8), uint8(r>>8))
		}
	}
	return img, nil
}

func quantize(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
