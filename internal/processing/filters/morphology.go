package filters

import (
	"fmt"

	"dehazer/internal/models"
)

// Erode applies a flat rectangular min filter. Border windows are clipped
// the same way BoxFilter clips them, which matches an erosion whose outside
// samples never win the minimum.
func Erode(ws *Workspace, src *models.Field, win models.Window) (*models.Field, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("erode: %w", err)
	}
	if err := win.Validate(); err != nil {
		return nil, fmt.Errorf("erode: %w", err)
	}

	ws = ws.orDefault()
	horizontal := ws.NewField(src.Width, src.Height)
	defer ws.Release(horizontal)

	dst := ws.NewField(src.Width, src.Height)
	erodeHorizontal(ws, src, horizontal, win.Width)
	erodeVertical(ws, horizontal, dst, win.Height)
	return dst, nil
}

func erodeHorizontal(ws *Workspace, src, dst *models.Field, size int) {
	width := src.Width
	before, after := models.Offsets(size)

	ws.Rows(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := src.Data[y*width : (y+1)*width]
			out := dst.Data[y*width : (y+1)*width]
			for x := range out {
				lo := max(0, x-before)
				hi := min(width-1, x+after)
				m := row[lo]
				for _, v := range row[lo+1 : hi+1] {
					if v < m {
						m = v
					}
				}
				out[x] = m
			}
		}
	})
}

func erodeVertical(ws *Workspace, src, dst *models.Field, size int) {
	width, height := src.Width, src.Height
	before, after := models.Offsets(size)

	ws.Rows(height, func(start, end int) {
		for y := start; y < end; y++ {
			lo := max(0, y-before)
			hi := min(height-1, y+after)

			out := dst.Data[y*width : (y+1)*width]
			copy(out, src.Data[lo*width:(lo+1)*width])
			for r := lo + 1; r <= hi; r++ {
				row := src.Data[r*width : (r+1)*width]
				for x, v := range row {
					if v < out[x] {
						out[x] = v
					}
				}
			}
		}
	})
}
