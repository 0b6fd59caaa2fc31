package ui

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const (
	AppIcon = "yutto-gui.png"
)

// LoadAppIcon loads the window icon shipped next to the executable and falls
// back to the stock download icon
func LoadAppIcon() fyne.Resource {
	if exe, err := os.Executable(); err == nil {
		if res, err := fyne.LoadResourceFromPath(filepath.Join(filepath.Dir(exe), AppIcon)); err == nil {
			return res
		}
	}
	return theme.DownloadIcon()
}
