package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/ytget/yutto-gui/internal/download"
	"github.com/ytget/yutto-gui/internal/events"
	"github.com/ytget/yutto-gui/internal/model"
	"github.com/ytget/yutto-gui/internal/platform"
)

// DefaultMaxLogLines caps the log view when Options leave it unset
const DefaultMaxLogLines = 5000

// Options configures RootUI
type Options struct {
	OutputDir   string
	MaxLogLines int
	Logger      *zap.Logger
}

// RootUI represents the main window content
type RootUI struct {
	window      fyne.Window
	ctrl        download.Supervisor
	logger      *zap.Logger
	maxLogLines int
	stopPump    context.CancelFunc

	urlEntry    *widget.Entry
	outDirEntry *widget.Entry
	extraEntry  *widget.Entry
	batchCheck  *widget.Check
	vipCheck    *widget.Check

	parseBtn      *widget.Button
	browseBtn     *widget.Button
	downloadBtn   *widget.Button
	cancelBtn     *widget.Button
	openFolderBtn *widget.Button
	stateLabel    *widget.Label

	streams    []string
	streamList *widget.List

	logView   *widget.RichText
	logScroll *container.Scroll
}

// NewRootUI builds the window content around ctrl
func NewRootUI(window fyne.Window, ctrl download.Supervisor, opts Options) *RootUI {
	if opts.MaxLogLines <= 0 {
		opts.MaxLogLines = DefaultMaxLogLines
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	ui := &RootUI{
		window:      window,
		ctrl:        ctrl,
		logger:      opts.Logger,
		maxLogLines: opts.MaxLogLines,
	}
	ui.setupUI(opts.OutputDir)
	ui.refreshControls()

	window.SetTitle(AppTitle)
	window.SetCloseIntercept(func() {
		ui.Shutdown()
		window.Close()
	})
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI(outputDir string) {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(PlaceholderURL)
	ui.urlEntry.OnSubmitted = func(string) { ui.onParseClick() }
	ui.parseBtn = widget.NewButtonWithIcon(LabelParse, theme.SearchIcon(), ui.onParseClick)

	ui.outDirEntry = widget.NewEntry()
	ui.outDirEntry.SetPlaceHolder(platform.DefaultOutputDirectory())
	ui.outDirEntry.SetText(outputDir)
	ui.browseBtn = widget.NewButtonWithIcon(LabelBrowse, theme.FolderOpenIcon(), ui.onBrowseClick)

	ui.extraEntry = widget.NewEntry()
	ui.extraEntry.SetPlaceHolder(PlaceholderExtraArgs)
	ui.batchCheck = widget.NewCheck(LabelBatch, nil)
	ui.vipCheck = widget.NewCheck(LabelVIP, nil)

	form := container.New(
		layout.NewFormLayout(),
		widget.NewLabel(LabelURL), container.NewBorder(nil, nil, nil, ui.parseBtn, ui.urlEntry),
		widget.NewLabel(LabelOutputDir), container.NewBorder(nil, nil, nil, ui.browseBtn, ui.outDirEntry),
		widget.NewLabel(LabelExtraArgs), ui.extraEntry,
		widget.NewLabel(""), container.NewHBox(ui.batchCheck, ui.vipCheck),
	)

	ui.streamList = widget.NewList(
		func() int { return len(ui.streams) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < len(ui.streams) {
				item.(*widget.Label).SetText(ui.streams[id])
			}
		},
	)
	ui.streamList.OnSelected = func(id widget.ListItemID) {
		if id < len(ui.streams) {
			ui.ctrl.SelectStream(ui.streams[id])
		}
	}
	streamPanel := container.NewBorder(widget.NewLabelWithStyle(LabelStreams, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil, container.NewGridWrap(StreamListMinSize, ui.streamList))

	ui.downloadBtn = widget.NewButtonWithIcon(LabelDownload, theme.DownloadIcon(), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.cancelBtn = widget.NewButtonWithIcon(LabelCancel, theme.CancelIcon(), ui.onCancelClick)
	ui.openFolderBtn = widget.NewButtonWithIcon(LabelOpenFolder, theme.FolderIcon(), ui.onOpenFolderClick)
	ui.stateLabel = widget.NewLabel("")
	actions := container.NewHBox(ui.downloadBtn, ui.cancelBtn, ui.openFolderBtn, ui.stateLabel)

	ui.logView = widget.NewRichText()
	ui.logView.Wrapping = fyne.TextWrapWord
	ui.logScroll = container.NewVScroll(ui.logView)
	ui.logScroll.SetMinSize(LogMinSize)
	logPanel := container.NewBorder(widget.NewLabelWithStyle(LabelLog, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil, ui.logScroll)

	top := container.NewVBox(form, actions, widget.NewSeparator())
	content := container.NewBorder(top, nil, streamPanel, nil, logPanel)
	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	aboutItem := fyne.NewMenuItem(LabelMenuAbout, func() {
		dialog.ShowInformation(AboutTitle, AboutText, ui.window)
	})
	ui.window.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu(LabelMenuHelp, aboutItem)))
}

// StartPump drains q every interval and renders batches on the Fyne main
// goroutine until Shutdown
func (ui *RootUI) StartPump(clk clock.Clock, interval time.Duration, q *events.Queue) {
	ctx, cancel := context.WithCancel(context.Background())
	ui.stopPump = cancel
	go events.Pump(ctx, clk, interval, q, func(batch []model.Event) {
		fyne.Do(func() { ui.Render(batch) })
	})
}

// Shutdown stops the pump and terminates any running child
func (ui *RootUI) Shutdown() {
	if ui.stopPump != nil {
		ui.stopPump()
		ui.stopPump = nil
	}
	if err := ui.ctrl.Close(); err != nil {
		ui.logger.Warn("controller close failed", zap.Error(err))
	}
}

// Render applies a drained batch in order. Must run on the main goroutine.
func (ui *RootUI) Render(batch []model.Event) {
	appended := false
	for _, e := range batch {
		switch e.Kind {
		case model.EventLine:
			ui.appendLogLine(e.Text, e.Severity)
			appended = true
		case model.EventStreams:
			ui.setStreams(e.Streams)
		}
	}
	if appended {
		ui.trimLog()
		ui.logView.Refresh()
		ui.logScroll.ScrollToBottom()
	}
	ui.refreshControls()
}

func (ui *RootUI) appendLogLine(text string, severity model.Severity) {
	ui.logView.Segments = append(ui.logView.Segments, &widget.TextSegment{
		Text: text,
		Style: widget.RichTextStyle{
			ColorName: SeverityColorName(severity),
			SizeName:  theme.SizeNameText,
			TextStyle: fyne.TextStyle{Monospace: true},
		},
	})
}

func (ui *RootUI) trimLog() {
	if extra := len(ui.logView.Segments) - ui.maxLogLines; extra > 0 {
		ui.logView.Segments = append([]widget.RichTextSegment(nil), ui.logView.Segments[extra:]...)
	}
}

func (ui *RootUI) clearLog() {
	ui.logView.Segments = nil
	ui.logView.Refresh()
}

func (ui *RootUI) setStreams(streams []string) {
	ui.streams = streams
	ui.streamList.UnselectAll()
	ui.streamList.Refresh()
}

// LogLines returns the rendered log text, oldest first
func (ui *RootUI) LogLines() []string {
	lines := make([]string, 0, len(ui.logView.Segments))
	for _, seg := range ui.logView.Segments {
		lines = append(lines, seg.Textual())
	}
	return lines
}

// refreshControls enables buttons according to the controller state
func (ui *RootUI) refreshControls() {
	state := ui.ctrl.State()
	if state.IsBusy() {
		ui.parseBtn.Disable()
		ui.downloadBtn.Disable()
	} else {
		ui.parseBtn.Enable()
		ui.downloadBtn.Enable()
	}
	if state.CanCancel() {
		ui.cancelBtn.Enable()
	} else {
		ui.cancelBtn.Disable()
	}
	ui.stateLabel.SetText(LabelStatePrefix + state.String())
}

func (ui *RootUI) onParseClick() {
	err := ui.ctrl.Parse(ui.urlEntry.Text)
	ui.reportActionError("parse", err)
	ui.refreshControls()
}

func (ui *RootUI) onDownloadClick() {
	req := model.DownloadRequest{
		URL:       ui.urlEntry.Text,
		OutputDir: ui.outDirEntry.Text,
		Batch:     ui.batchCheck.Checked,
		VIP:       ui.vipCheck.Checked,
		ExtraArgs: ui.extraEntry.Text,
	}
	err := ui.ctrl.Download(req)
	if err == nil {
		ui.clearLog()
	}
	ui.reportActionError("download", err)
	ui.refreshControls()
}

func (ui *RootUI) onCancelClick() {
	ui.ctrl.Cancel()
	ui.refreshControls()
}

func (ui *RootUI) onBrowseClick() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if uri == nil {
			return
		}
		ui.outDirEntry.SetText(uri.Path())
	}, ui.window)
}

func (ui *RootUI) onOpenFolderClick() {
	dir := strings.TrimSpace(ui.outDirEntry.Text)
	if dir == "" {
		dir = platform.DefaultOutputDirectory()
	}
	if err := platform.OpenFolderInManager(dir); err != nil {
		ui.logger.Warn("open folder failed", zap.String("dir", dir), zap.Error(err))
		dialog.ShowError(err, ui.window)
	}
}

// reportActionError logs rejected actions. The controller already put a
// user-facing line on the queue for everything except ErrBusy and ErrClosed.
func (ui *RootUI) reportActionError(action string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, download.ErrBusy), errors.Is(err, download.ErrClosed):
		ui.logger.Debug("action rejected", zap.String("action", action), zap.Error(err))
	default:
		ui.logger.Info("action failed", zap.String("action", action), zap.Error(err))
	}
}
