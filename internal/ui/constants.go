package ui

import "fyne.io/fyne/v2"

// Window
const (
	AppTitle     = "yutto GUI"
	WindowWidth  = 860
	WindowHeight = 640
)

// Labels
const (
	LabelURL         = "URL"
	LabelOutputDir   = "Output folder"
	LabelExtraArgs   = "Extra arguments"
	LabelStreams     = "Streams"
	LabelLog         = "Log"
	LabelBatch       = "Batch (--batch)"
	LabelVIP         = "VIP (--vip)"
	LabelParse       = "Parse"
	LabelBrowse      = "Browse…"
	LabelDownload    = "Download"
	LabelCancel      = "Cancel"
	LabelOpenFolder  = "Open folder"
	LabelMenuHelp    = "Help"
	LabelMenuAbout   = "About"
	LabelStatePrefix = "State: "
)

// Placeholders
const (
	PlaceholderURL       = "https://www.bilibili.com/video/BV..."
	PlaceholderExtraArgs = `e.g. --danmaku --subpath-template "{title}"`
)

// About dialog
const (
	AboutTitle = "About"
	AboutText  = "A desktop front-end for the yutto downloader.\n\n" +
		"Paste a URL, optionally parse it to pick a stream, then download.\n" +
		"Output of the downloader is shown in the log below."
)

// Layout sizing
var (
	StreamListMinSize = fyne.NewSize(220, 160)
	LogMinSize        = fyne.NewSize(400, 240)
)
