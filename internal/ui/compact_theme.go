package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/ytget/yutto-gui/internal/model"
)

// CompactTheme tightens spacing so the form, stream list and log fit one
// window, and fixes the log severity colors
type CompactTheme struct{}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

var (
	colorSuccess = color.RGBA{R: 46, G: 160, B: 67, A: 255}
	colorError   = color.RGBA{R: 211, G: 47, B: 47, A: 255}
	colorInfo    = color.RGBA{R: 25, G: 118, B: 210, A: 255}
)

var compactSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:        3,
	theme.SizeNameInnerPadding:   6,
	theme.SizeNameLineSpacing:    2,
	theme.SizeNameScrollBar:      12,
	theme.SizeNameText:           13,
	theme.SizeNameHeadingText:    16,
	theme.SizeNameSubHeadingText: 13,
	theme.SizeNameCaptionText:    10,
	theme.SizeNameInputRadius:    3,
}

// SeverityColorName maps a log severity to the theme color it renders in
func SeverityColorName(s model.Severity) fyne.ThemeColorName {
	switch s {
	case model.SeveritySuccess:
		return theme.ColorNameSuccess
	case model.SeverityError:
		return theme.ColorNameError
	case model.SeverityInfo:
		return theme.ColorNamePrimary
	default:
		return theme.ColorNameForeground
	}
}

func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return colorSuccess
	case theme.ColorNameError:
		return colorError
	case theme.ColorNamePrimary:
		return colorInfo
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	if size, ok := compactSizes[name]; ok {
		return size
	}
	return theme.DefaultTheme().Size(name)
}
