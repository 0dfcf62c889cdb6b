package models

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every validation failure of the dehazing core.
var ErrInvalidArgument = errors.New("invalid argument")

// Channels is the number of interleaved colour channels in an Image.
const Channels = 3

// Image is an 8-bit, 3-channel pixel buffer. Pix holds B,G,R triples in row-major order.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImage allocates a zeroed width x height image.
func NewImage(width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: image dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}, nil
}

// NewUniformImage returns an image where every pixel has the given B,G,R colour.
func NewUniformImage(width, height int, b, g, r uint8) (*Image, error) {
	img, err := NewImage(width, height)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(img.Pix); i += Channels {
		img.Pix[i] = b
		img.Pix[i+1] = g
		img.Pix[i+2] = r
	}
	return img, nil
}

func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: image is nil", ErrInvalidArgument)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: image is empty (%dx%d)", ErrInvalidArgument, img.Width, img.Height)
	}
	if len(img.Pix) != img.Width*img.Height*Channels {
		return fmt.Errorf("%w: image buffer has %d bytes, want %d",
			ErrInvalidArgument, len(img.Pix), img.Width*img.Height*Channels)
	}
	return nil
}

// PixelCount returns Width*Height.
func (img *Image) PixelCount() int {
	return img.Width * img.Height
}

// At returns the B,G,R values at (x, y).
func (img *Image) At(x, y int) (b, g, r uint8) {
	i := (y*img.Width + x) * Channels
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

func (img *Image) Set(x, y int, b, g, r uint8) {
	i := (y*img.Width + x) * Channels
	img.Pix[i] = b
	img.Pix[i+1] = g
	img.Pix[i+2] = r
}

// Field is a row-major grid of float64 samples, used for grayscale planes,
// dark channels, transmission maps and filter coefficients.
type Field struct {
	Width  int
	Height int
	Data   []float64
}

func NewField(width, height int) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: field dimensions %dx%d", ErrInvalidArgument, width, height)
	}
	return &Field{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}, nil
}

// NewFieldFromData wraps data without copying it.
func NewFieldFromData(width, height int, data []float64) (*Field, error) {
	f := &Field{Width: width, Height: height, Data: data}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Field) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: field is nil", ErrInvalidArgument)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: field is empty (%dx%d)", ErrInvalidArgument, f.Width, f.Height)
	}
	if len(f.Data) != f.Width*f.Height {
		return fmt.Errorf("%w: field buffer has %d samples, want %d",
			ErrInvalidArgument, len(f.Data), f.Width*f.Height)
	}
	return nil
}

func (f *Field) At(x, y int) float64 {
	return f.Data[y*f.Width+x]
}

func (f *Field) Set(x, y int, v float64) {
	f.Data[y*f.Width+x] = v
}

// CheckShape fails with ErrInvalidArgument unless every field validates and
// matches the width and height given.
func CheckShape(width, height int, fields ...*Field) error {
	for i, f := range fields {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		if f.Width != width || f.Height != height {
			return fmt.Errorf("%w: field %d is %dx%d, want %dx%d",
				ErrInvalidArgument, i, f.Width, f.Height, width, height)
		}
	}
	return nil
}

// AtmosphericLight is the per-channel haze colour, ordered B,G,R like Image.
type AtmosphericLight [Channels]float64

// Window is a rectangular filter window.
type Window struct {
	Width  int
	Height int
}

// Square returns a size x size window.
func Square(size int) Window {
	return Window{Width: size, Height: size}
}

func (w Window) Validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalidArgument, w.Width, w.Height)
	}
	return nil
}

// Offsets returns the inclusive span of a window of the given size around its
// anchor. Even sizes extend one sample further before the anchor than after.
func Offsets(size int) (before, after int) {
	before = size / 2
	after = size - 1 - before
	return before, after
}

func (w Window) String() string {
	return fmt.Sprintf("%dx%d", w.Width, w.Height)
}
