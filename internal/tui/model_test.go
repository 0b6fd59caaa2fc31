package tui

import (
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yutto-gui/internal/download"
	"github.com/ytget/yutto-gui/internal/events"
	"github.com/ytget/yutto-gui/internal/model"
)

type recordingSupervisor struct {
	state    model.SessionState
	parsed   []string
	requests []model.DownloadRequest
	selected string
	cancels  int
	closes   int
	err      error
}

func (r *recordingSupervisor) Parse(url string) error {
	r.parsed = append(r.parsed, url)
	return r.err
}

func (r *recordingSupervisor) Download(req model.DownloadRequest) error {
	r.requests = append(r.requests, req)
	return r.err
}

func (r *recordingSupervisor) Cancel()                   { r.cancels++ }
func (r *recordingSupervisor) Close() error              { r.closes++; return nil }
func (r *recordingSupervisor) SelectStream(s string)     { r.selected = s }
func (r *recordingSupervisor) SelectedStream() string    { return r.selected }
func (r *recordingSupervisor) State() model.SessionState { return r.state }

var _ download.Supervisor = (*recordingSupervisor)(nil)

func newTestModel(opts Options) (Model, *recordingSupervisor, *events.Queue) {
	ctrl := &recordingSupervisor{state: model.SessionIdle}
	q := events.NewQueue()
	return New(ctrl, q, opts), ctrl, q
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDownloadKey_SendsRequest(t *testing.T) {
	m, ctrl, _ := newTestModel(Options{OutputDir: "/videos"})

	m = send(m,
		typed("https://a"),
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		typed("--danmaku"),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b"), Alt: true},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	require.Len(t, ctrl.requests, 1)
	assert.Equal(t, model.DownloadRequest{
		URL:       "https://a",
		OutputDir: "/videos",
		ExtraArgs: "--danmaku",
		Batch:     true,
	}, ctrl.requests[0])
}

func TestParseAndCancelKeys(t *testing.T) {
	m, ctrl, _ := newTestModel(Options{})

	m = send(m, typed("https://a"), tea.KeyMsg{Type: tea.KeyCtrlP}, tea.KeyMsg{Type: tea.KeyCtrlX})

	assert.Equal(t, []string{"https://a"}, ctrl.parsed)
	assert.Equal(t, 1, ctrl.cancels)
}

func TestTick_AppliesEventsInOrder(t *testing.T) {
	m, _, q := newTestModel(Options{})
	q.PushLine("a", model.SeverityNone)
	q.PushLine("b", model.SeverityError)
	q.Push(model.StreamListEvent([]string{"1080p", "720p"}))

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)

	require.NotNil(t, cmd, "tick must re-arm")
	require.Len(t, m.lines, 2)
	assert.Equal(t, "a", m.lines[0].text)
	assert.Equal(t, "b", m.lines[1].text)
	assert.Equal(t, model.SeverityError, m.lines[1].severity)
	assert.Equal(t, []string{"1080p", "720p"}, m.streams)
	assert.Equal(t, -1, m.streamIdx)
	assert.Equal(t, 0, q.Len())
}

func TestTick_CapsLog(t *testing.T) {
	m, _, q := newTestModel(Options{MaxLogLines: 2})
	for _, s := range []string{"1", "2", "3"} {
		q.PushLine(s, model.SeverityNone)
	}

	m = send(m, tickMsg(time.Now()))
	require.Len(t, m.lines, 2)
	assert.Equal(t, "2", m.lines[0].text)
	assert.Equal(t, "3", m.lines[1].text)
}

func TestTabCyclesStreams(t *testing.T) {
	m, ctrl, q := newTestModel(Options{})
	q.Push(model.StreamListEvent([]string{"1080p", "720p"}))
	m = send(m, tickMsg(time.Now()))

	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "1080p", ctrl.selected)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "720p", ctrl.selected)
	m = send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "1080p", ctrl.selected)
	assert.Equal(t, 0, m.streamIdx)
}

func TestDownloadClearsLogOnlyOnSuccess(t *testing.T) {
	m, ctrl, q := newTestModel(Options{})
	q.PushLine("old", model.SeverityNone)
	m = send(m, tickMsg(time.Now()))

	ctrl.err = download.ErrEmptyInput
	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.lines, 1)

	ctrl.err = nil
	m = send(m, typed("https://a"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.lines)
}

func TestQuitClosesController(t *testing.T) {
	m, ctrl, _ := newTestModel(Options{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, ctrl.closes)
}

func TestView_ShowsStateAndStreams(t *testing.T) {
	m, ctrl, q := newTestModel(Options{})
	ctrl.state = model.SessionDownloading
	q.Push(model.StreamListEvent([]string{"1080p"}))
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 30}, tickMsg(time.Now()))

	view := m.View()
	assert.Contains(t, view, "state: Downloading")
	assert.Contains(t, view, "1080p")
}

func TestCheckTerminal_RejectsPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	assert.ErrorIs(t, CheckTerminal(w), ErrNotTerminal)
}
