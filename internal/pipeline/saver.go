package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"dehazer/internal/logger"
	"dehazer/internal/models"
	"dehazer/internal/opencv/conversion"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

type imageSaver struct {
	logger logger.Logger
}

func NewImageSaver(log logger.Logger) ImageSaver {
	if log == nil {
		log = logger.Nop()
	}
	return &imageSaver{logger: log}
}

func (s *imageSaver) SaveImage(path string, img *models.Image) error {
	mat, err := conversion.ImageToMat(img)
	if err != nil {
		return err
	}
	defer mat.Close()

	return s.write(path, mat)
}

func (s *imageSaver) SaveField(path string, field *models.Field, scale float64) error {
	mat, err := conversion.FieldToMat(field, scale)
	if err != nil {
		return err
	}
	defer mat.Close()

	return s.write(path, mat)
}

// SaveComparison writes original and processed next to each other.
func (s *imageSaver) SaveComparison(path string, original, processed *models.Image) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	composite, err := SideBySide(original, processed)
	if err != nil {
		return err
	}
	if err := imaging.Save(composite, path); err != nil {
		return fmt.Errorf("failed to save comparison %s: %w", path, err)
	}

	s.logger.Debug("ImageSaver", "comparison saved", map[string]interface{}{
		"path":   path,
		"width":  composite.Bounds().Dx(),
		"height": composite.Bounds().Dy(),
	})
	return nil
}

func (s *imageSaver) write(path string, mat gocv.Mat) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("failed to encode %s: unsupported extension or unwritable path", path)
	}

	s.logger.Debug("ImageSaver", "image saved", map[string]interface{}{
		"path":   path,
		"width":  mat.Cols(),
		"height": mat.Rows(),
	})
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
