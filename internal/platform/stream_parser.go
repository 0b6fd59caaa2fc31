package platform

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ytget/yutto-gui/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 10 * time.Second
	DefaultKillGrace    = 1 * time.Second
)

// Probe argument variants, tried in order
var (
	ProbeVariants = [][]string{
		{"-j"},
		{"--json"},
	}
)

// ErrParseTimeout marks a probe attempt that had to be killed
var ErrParseTimeout = errors.New("stream probe timed out")

// resolutionMarker matches a digit run directly followed by "p", e.g. 1080p
var resolutionMarker = regexp.MustCompile(`\d+p`)

// ParseStreams extracts stream descriptors from downloader output: every
// trimmed line carrying a resolution marker, first occurrence only. Lines
// end at "\n", "\r\n" or a lone "\r", as on the live output path.
func ParseStreams(raw string) []string {
	return ParseStreamLines(strings.FieldsFunc(raw, isLineBreak))
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}

// ParseStreamLines is ParseStreams over pre-split lines
func ParseStreamLines(lines []string) []string {
	candidates := lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		if !resolutionMarker.MatchString(line) {
			return "", false
		}
		return strings.TrimSpace(line), true
	})
	return lo.Uniq(candidates)
}

// WithFallback substitutes the AutoStream sentinel for an empty result
func WithFallback(streams []string) []string {
	if len(streams) == 0 {
		return []string{model.AutoStream}
	}
	return streams
}

// StreamProber asks the downloader which streams a URL offers
type StreamProber struct {
	launcher   Launcher
	executable string
	env        []string
	timeout    time.Duration
	killGrace  time.Duration
	clock      clock.Clock
	logger     *zap.Logger
}

// NewStreamProber creates a prober for the given executable
func NewStreamProber(launcher Launcher, executable string, env []string, logger *zap.Logger) *StreamProber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamProber{
		launcher:   launcher,
		executable: executable,
		env:        env,
		timeout:    DefaultParseTimeout,
		killGrace:  DefaultKillGrace,
		clock:      clock.New(),
		logger:     logger,
	}
}

// SetTimeout sets the per-variant timeout
func (p *StreamProber) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		p.timeout = timeout
	}
}

// SetKillGrace sets how long to wait for output to drain after a kill
func (p *StreamProber) SetKillGrace(grace time.Duration) {
	if grace > 0 {
		p.killGrace = grace
	}
}

// SetClock replaces the time source
func (p *StreamProber) SetClock(c clock.Clock) {
	p.clock = c
}

// Probe runs each variant until one yields descriptors. An empty result with
// a nil error means the downloader ran but reported nothing recognizable.
// A non-nil error is returned only when no variant could be launched.
func (p *StreamProber) Probe(ctx context.Context, url string) ([]string, error) {
	var lastErr error
	launched := false

	for _, variant := range ProbeVariants {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		args := append(append([]string{}, variant...), url)
		proc, err := p.launcher.Launch(Command{Path: p.executable, Args: args, Env: p.env})
		if err != nil {
			p.logger.Debug("probe launch failed", zap.Strings("args", args), zap.Error(err))
			lastErr = err
			continue
		}
		launched = true

		lines, err := p.collect(ctx, proc)
		if err != nil {
			p.logger.Info("probe attempt interrupted",
				zap.Strings("args", args),
				zap.Int("partial_lines", len(lines)),
				zap.Error(err))
		}

		if streams := ParseStreamLines(lines); len(streams) > 0 {
			return streams, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if !launched && lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

// collect gathers output until exit, timeout or cancellation. On the latter
// two the process is killed and whatever was read so far is returned.
func (p *StreamProber) collect(ctx context.Context, proc Process) ([]string, error) {
	var (
		mu    sync.Mutex
		lines []string
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for line := range proc.Lines() {
			mu.Lock()
			lines = append(lines, line)
			mu.Unlock()
		}
	}()

	snapshot := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), lines...)
	}

	timer := p.clock.Timer(p.timeout)
	defer timer.Stop()

	var interrupted error
	select {
	case <-done:
		proc.Wait()
		proc.Close()
		return snapshot(), nil
	case <-timer.C:
		interrupted = fmt.Errorf("%w after %s", ErrParseTimeout, p.timeout)
	case <-ctx.Done():
		interrupted = ctx.Err()
	}

	proc.Kill()
	select {
	case <-done:
	case <-p.clock.After(p.killGrace):
		// A grandchild may still hold the pipe open.
		proc.Close()
		<-done
	}
	proc.Wait()
	proc.Close()
	return snapshot(), interrupted
}
