package download

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/yutto-gui/internal/model"
	"github.com/ytget/yutto-gui/internal/platform"
)

// User-facing log messages
const (
	MsgEmptyURL        = "Please enter a URL!"
	MsgParsing         = "Parsing %s..."
	MsgParseComplete   = "Parsing complete."
	MsgParseCancelled  = "Parsing cancelled"
	MsgDirectoryFailed = "Cannot create directory: %s"
	MsgInvalidArgs     = "Error: %v"
	MsgNotFound        = "Error: command not found: %s"
	MsgSpawnFailed     = "Error: failed to start %s: %v"
	MsgTaskFinished    = "Task finished, exit code %d"
	MsgCancelled       = "Download cancelled"
	MsgInternalError   = "Internal error: %v"
)

// Options configures a Controller
type Options struct {
	Executable string
	Env        []string
	// KillGrace bounds how long Close waits for workers after killing
	KillGrace time.Duration
	Logger    *zap.Logger
	Clock     clock.Clock
}

// Controller owns the single active child process and serializes every
// action on it. Background workers only report through the Sink.
type Controller struct {
	launcher platform.Launcher
	prober   Prober
	sink     Sink

	executable string
	env        []string
	killGrace  time.Duration
	logger     *zap.Logger
	clock      clock.Clock

	mu          sync.Mutex
	state       model.SessionState
	session     uuid.UUID
	proc        platform.Process
	probeCancel context.CancelFunc
	draining    map[uuid.UUID]platform.Process
	selected    string
	closed      bool

	workers sync.WaitGroup
}

// NewController creates an idle controller
func NewController(launcher platform.Launcher, prober Prober, sink Sink, opts Options) *Controller {
	if opts.Executable == "" {
		opts.Executable = platform.DownloaderName
	}
	if opts.Env == nil {
		opts.Env = platform.ChildEnv()
	}
	if opts.KillGrace <= 0 {
		opts.KillGrace = platform.DefaultKillGrace
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Controller{
		launcher:   launcher,
		prober:     prober,
		sink:       sink,
		executable: opts.Executable,
		env:        opts.Env,
		killGrace:  opts.KillGrace,
		logger:     opts.Logger,
		clock:      opts.Clock,
		state:      model.SessionIdle,
		draining:   make(map[uuid.UUID]platform.Process),
	}
}

// State returns the current session state
func (c *Controller) State() model.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectStream remembers the descriptor to use for the next download
func (c *Controller) SelectStream(stream string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = strings.TrimSpace(stream)
}

// SelectedStream returns the remembered descriptor, empty if none
func (c *Controller) SelectedStream() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Parse starts probing url for stream descriptors. It returns once the
// probe is running; results arrive on the Sink.
func (c *Controller) Parse(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		c.sink.Push(model.LineEvent(MsgEmptyURL, model.SeverityError))
		return ErrEmptyInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkAvailableLocked(); err != nil {
		return err
	}
	c.escalateDrainingLocked()

	ctx, cancel := context.WithCancel(context.Background())
	id := newSessionID()
	c.state = model.SessionParsing
	c.session = id
	c.probeCancel = cancel
	c.sink.Push(model.LineEvent(fmt.Sprintf(MsgParsing, url), model.SeverityNone))
	c.logger.Info("parse started", zap.String("session", id.String()), zap.String("url", url))

	c.workers.Add(1)
	go c.runParse(ctx, id, url)
	return nil
}

func (c *Controller) runParse(ctx context.Context, id uuid.UUID, url string) {
	defer c.workers.Done()
	defer c.recoverWorker(id)

	streams, err := c.prober.Probe(ctx, url)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ownsLocked(id, model.SessionParsing) {
		c.logger.Debug("parse result discarded", zap.String("session", id.String()))
		return
	}
	c.probeCancel()
	c.resetLocked()

	if err != nil {
		c.logger.Warn("parse failed", zap.String("url", url), zap.Error(err))
		c.sink.Push(model.LineEvent(c.launchErrorMessage(err), model.SeverityError))
	}
	c.sink.Push(model.StreamListEvent(platform.WithFallback(streams)))
	c.sink.Push(model.LineEvent(MsgParseComplete, model.SeveritySuccess))
	c.selected = ""
}

// Download validates req, launches the downloader and relays its output.
// Launch failures are reported both on the Sink and as the returned error.
func (c *Controller) Download(req model.DownloadRequest) error {
	req = req.Normalized()
	if req.URL == "" {
		c.sink.Push(model.LineEvent(MsgEmptyURL, model.SeverityError))
		return ErrEmptyInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkAvailableLocked(); err != nil {
		return err
	}

	if req.OutputDir == "" {
		req.OutputDir = platform.DefaultOutputDirectory()
	}
	if err := platform.CreateDirectoryIfNotExists(req.OutputDir); err != nil {
		c.sink.Push(model.LineEvent(fmt.Sprintf(MsgDirectoryFailed, req.OutputDir), model.SeverityError))
		return fmt.Errorf("%w: %s: %v", ErrDirectoryCreate, req.OutputDir, err)
	}

	if req.Stream == "" {
		req.Stream = c.selected
	}
	args, err := BuildArgs(req)
	if err != nil {
		c.sink.Push(model.LineEvent(fmt.Sprintf(MsgInvalidArgs, err), model.SeverityError))
		return err
	}

	c.escalateDrainingLocked()

	cmd := platform.Command{Path: c.executable, Args: args, Env: c.env}
	proc, err := c.launcher.Launch(cmd)
	if err != nil {
		c.logger.Error("download launch failed", zap.Stringer("command", cmd), zap.Error(err))
		c.sink.Push(model.LineEvent(c.launchErrorMessage(err), model.SeverityError))
		return err
	}

	id := newSessionID()
	c.state = model.SessionDownloading
	c.session = id
	c.proc = proc
	c.logger.Info("download started",
		zap.String("session", id.String()),
		zap.Stringer("command", cmd),
		zap.Int(platform.ProcessLogFieldPID, proc.PID()))

	c.workers.Add(1)
	go c.runDownload(id, proc)
	return nil
}

func (c *Controller) runDownload(id uuid.UUID, proc platform.Process) {
	defer c.workers.Done()
	defer c.recoverWorker(id)

	for line := range proc.Lines() {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			continue
		}
		c.relay(id, line)
	}

	code := proc.Wait()
	proc.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.draining, id)
	c.logger.Info("download exited", zap.String("session", id.String()), zap.Int("exit_code", code))
	if !c.ownsLocked(id, model.SessionDownloading) {
		return
	}
	c.resetLocked()
	c.sink.Push(model.LineEvent(fmt.Sprintf(MsgTaskFinished, code), model.SeveritySuccess))
}

// relay forwards one output line. A cancelled session keeps draining its
// pipe but stays silent.
func (c *Controller) relay(id uuid.UUID, line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ownsLocked(id, model.SessionDownloading) {
		c.sink.Push(model.LineEvent(line, model.SeverityNone))
	}
}

// Cancel interrupts the running action, if any, and returns to Idle without
// waiting for the child to exit. The child keeps draining in the background
// and is killed if a new action starts before it is gone.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case model.SessionDownloading:
		c.state = model.SessionCancelling
		id, proc := c.session, c.proc
		c.draining[id] = proc
		if err := proc.Terminate(); err != nil {
			c.logger.Warn("terminate failed", zap.Int(platform.ProcessLogFieldPID, proc.PID()), zap.Error(err))
		}
		c.sink.Push(model.LineEvent(MsgCancelled, model.SeverityError))
		c.resetLocked()
	case model.SessionParsing:
		c.state = model.SessionCancelling
		c.probeCancel()
		c.sink.Push(model.LineEvent(MsgParseCancelled, model.SeverityError))
		c.resetLocked()
	}
}

// Close kills every child still alive, cancels a running probe and rejects
// later actions with ErrClosed. It waits up to the kill grace for workers.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	var procs []platform.Process
	if c.proc != nil {
		procs = append(procs, c.proc)
	}
	for _, p := range c.draining {
		procs = append(procs, p)
	}
	if c.probeCancel != nil {
		c.probeCancel()
	}
	c.resetLocked()
	c.mu.Unlock()

	for _, p := range procs {
		if err := p.Kill(); err != nil {
			c.logger.Warn("kill on close failed", zap.Int(platform.ProcessLogFieldPID, p.PID()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		c.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-c.clock.After(c.killGrace):
		// A grandchild may still hold an output pipe open
		for _, p := range procs {
			p.Close()
		}
		c.logger.Warn("workers still running after close", zap.Int("processes", len(procs)))
	}
	return nil
}

func (c *Controller) checkAvailableLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.state.IsBusy() {
		return fmt.Errorf("%w: %s", ErrBusy, c.state)
	}
	return nil
}

// escalateDrainingLocked kills cancelled children that outlived their grace
func (c *Controller) escalateDrainingLocked() {
	for id, p := range c.draining {
		c.logger.Info("killing draining process", zap.String("session", id.String()), zap.Int(platform.ProcessLogFieldPID, p.PID()))
		if err := p.Kill(); err != nil {
			c.logger.Warn("kill failed", zap.Int(platform.ProcessLogFieldPID, p.PID()), zap.Error(err))
		}
	}
}

func (c *Controller) ownsLocked(id uuid.UUID, state model.SessionState) bool {
	return !c.closed && c.session == id && c.state == state
}

func (c *Controller) resetLocked() {
	c.state = model.SessionIdle
	c.session = uuid.Nil
	c.proc = nil
	c.probeCancel = nil
}

func (c *Controller) launchErrorMessage(err error) string {
	if errors.Is(err, platform.ErrExecutableNotFound) {
		return fmt.Sprintf(MsgNotFound, c.executable)
	}
	return fmt.Sprintf(MsgSpawnFailed, c.executable, err)
}

// recoverWorker turns a worker panic into a log line and frees the slot
func (c *Controller) recoverWorker(id uuid.UUID) {
	r := recover()
	if r == nil {
		return
	}
	c.logger.Error("worker panic", zap.String("session", id.String()), zap.Any("panic", r), zap.Stack("stack"))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == id {
		if c.probeCancel != nil {
			c.probeCancel()
		}
		c.resetLocked()
	}
	c.sink.Push(model.LineEvent(fmt.Sprintf(MsgInternalError, r), model.SeverityError))
}

func newSessionID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
