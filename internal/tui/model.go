// Package tui is the terminal front-end. It drives the same session
// controller as the desktop UI and drains the event queue on a tea.Tick.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/ytget/yutto-gui/internal/download"
	"github.com/ytget/yutto-gui/internal/events"
	"github.com/ytget/yutto-gui/internal/model"
)

// ErrNotTerminal is returned when the TUI is started without a terminal
var ErrNotTerminal = errors.New("terminal UI requires an interactive terminal")

// Input fields in focus order
const (
	fieldURL = iota
	fieldOutputDir
	fieldExtraArgs
	fieldCount
)

// Layout
const (
	headerLines  = 8
	minLogHeight = 3
)

// Options configures the TUI model
type Options struct {
	OutputDir    string
	PollInterval time.Duration
	MaxLogLines  int
}

type logLine struct {
	text     string
	severity model.Severity
}

type tickMsg time.Time

// Model is the root Bubble Tea model
type Model struct {
	ctrl     download.Supervisor
	queue    *events.Queue
	interval time.Duration
	maxLines int

	keys     KeyMap
	help     help.Model
	showHelp bool

	inputs []textinput.Model
	focus  int
	batch  bool
	vip    bool

	streams   []string
	streamIdx int

	lines    []logLine
	viewport viewport.Model
	width    int
	height   int
}

// New creates the root model
func New(ctrl download.Supervisor, queue *events.Queue, opts Options) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = events.DefaultPollInterval
	}
	if opts.MaxLogLines <= 0 {
		opts.MaxLogLines = 5000
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Prompt = ""
	}
	inputs[fieldURL].Placeholder = "https://www.bilibili.com/video/BV..."
	inputs[fieldOutputDir].Placeholder = "current directory"
	inputs[fieldOutputDir].SetValue(opts.OutputDir)
	inputs[fieldExtraArgs].Placeholder = "extra yutto arguments"
	inputs[fieldURL].Focus()

	return Model{
		ctrl:      ctrl,
		queue:     queue,
		interval:  opts.PollInterval,
		maxLines:  opts.MaxLogLines,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		inputs:    inputs,
		streamIdx: -1,
		viewport:  viewport.New(80, minLogHeight),
	}
}

// Init starts the queue drain tick and the cursor blink
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), textinput.Blink)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeLog()
		return m, nil

	case tickMsg:
		m.apply(m.queue.Drain())
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.resizeLog()
		return m, nil

	case key.Matches(msg, m.keys.Download):
		err := m.ctrl.Download(m.request())
		if err == nil {
			m.lines = nil
			m.refreshLog()
		}
		return m, nil

	case key.Matches(msg, m.keys.Parse):
		m.ctrl.Parse(m.inputs[fieldURL].Value())
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.Cancel()
		return m, nil

	case key.Matches(msg, m.keys.NextStream):
		if len(m.streams) > 0 {
			m.streamIdx = (m.streamIdx + 1) % len(m.streams)
			m.ctrl.SelectStream(m.streams[m.streamIdx])
		}
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, m.keys.ToggleBatch):
		m.batch = !m.batch
		return m, nil

	case key.Matches(msg, m.keys.ToggleVIP):
		m.vip = !m.vip
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = field
	return m.inputs[m.focus].Focus()
}

func (m Model) request() model.DownloadRequest {
	return model.DownloadRequest{
		URL:       m.inputs[fieldURL].Value(),
		OutputDir: m.inputs[fieldOutputDir].Value(),
		ExtraArgs: m.inputs[fieldExtraArgs].Value(),
		Batch:     m.batch,
		VIP:       m.vip,
	}
}

// apply renders a drained batch in order
func (m *Model) apply(batch []model.Event) {
	if len(batch) == 0 {
		return
	}
	for _, e := range batch {
		switch e.Kind {
		case model.EventLine:
			m.lines = append(m.lines, logLine{text: e.Text, severity: e.Severity})
		case model.EventStreams:
			m.streams = e.Streams
			m.streamIdx = -1
		}
	}
	if extra := len(m.lines) - m.maxLines; extra > 0 {
		m.lines = append([]logLine(nil), m.lines[extra:]...)
	}
	m.refreshLog()
}

func (m *Model) refreshLog() {
	rendered := make([]string, len(m.lines))
	for i, l := range m.lines {
		rendered[i] = renderLine(l.text, l.severity)
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) resizeLog() {
	if m.width == 0 {
		return
	}
	reserved := headerLines + lipgloss.Height(m.helpView()) + logBorderStyle.GetVerticalFrameSize()
	m.viewport.Width = m.width - logBorderStyle.GetHorizontalFrameSize()
	m.viewport.Height = max(m.height-reserved, minLogHeight)
}

func (m Model) helpView() string {
	return helpStyle.Render(m.help.View(m.keys))
}

// View renders the model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("yutto GUI"))
	b.WriteString("  " + dimStyle.Render("state: "+m.ctrl.State().String()))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"URL", "Output", "Extra"}
	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]) + input.View() + "\n")
	}

	b.WriteString(labelStyle.Render("Flags") +
		checkbox(m.batch) + " --batch   " + checkbox(m.vip) + " --vip\n")
	b.WriteString(labelStyle.Render("Streams") + m.streamsView() + "\n\n")

	b.WriteString(logBorderStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) streamsView() string {
	if len(m.streams) == 0 {
		return dimStyle.Render("press ctrl+p to parse")
	}
	parts := make([]string, len(m.streams))
	for i, s := range m.streams {
		if i == m.streamIdx {
			parts[i] = selectedStyle.Render("[" + s + "]")
		} else {
			parts[i] = s
		}
	}
	return strings.Join(parts, dimStyle.Render(" | "))
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// CheckTerminal fails unless f is an interactive terminal
func CheckTerminal(f *os.File) error {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotTerminal, f.Name())
}

// Run starts the terminal UI and blocks until the user quits
func Run(ctrl download.Supervisor, queue *events.Queue, opts Options) error {
	if err := CheckTerminal(os.Stdout); err != nil {
		return err
	}
	p := tea.NewProgram(New(ctrl, queue, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
