package gui

import (
	"fmt"

	"dehazer/internal/gui/widgets"
	"dehazer/internal/models"
	"dehazer/internal/opencv/conversion"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const AppID = "com.imageprocessing.dehazer"

// ShowComparison opens a window with original and dehazed side by side and
// blocks until it is closed.
func ShowComparison(title string, original, dehazed *models.Image) error {
	if err := original.Validate(); err != nil {
		return fmt.Errorf("original: %w", err)
	}
	if err := dehazed.Validate(); err != nil {
		return fmt.Errorf("dehazed: %w", err)
	}

	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(title)

	display := widgets.NewImageDisplay()
	display.SetOriginalImage(conversion.ToRGBA(original))
	display.SetDehazedImage(conversion.ToRGBA(dehazed))

	window.SetContent(display.GetContainer())
	window.Resize(fyne.NewSize(2*widgets.ImageAreaWidth, widgets.ImageAreaHeight+40))
	window.CenterOnScreen()
	window.ShowAndRun()
	return nil
}
