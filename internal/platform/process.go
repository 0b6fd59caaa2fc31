package platform

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// Launch errors
var (
	ErrExecutableNotFound = errors.New("executable not found")
	ErrSpawnFailed        = errors.New("failed to start process")
)

// Output decoding constants
const (
	MaxLineBytes       = 1024 * 1024
	InitialLineBuffer  = 64 * 1024
	ReplacementRune    = "�"
	ExitCodeUnknown    = -1
	UTF8ModeEnvVar     = "PYTHONUTF8=1"
	ProcessLogFieldPID = "pid"
)

// Command describes one child process invocation
type Command struct {
	Path string
	Args []string
	Env  []string // nil inherits the parent environment
}

// String renders the command line for log output
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteArg(c.Path))
	for _, a := range c.Args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if strings.ContainsAny(arg, " \t\"'") {
		return `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
	}
	return arg
}

// Process is a running child with its combined stdout/stderr captured
type Process interface {
	// Lines yields output lines until the child closes its output.
	// Only the first iteration reads anything.
	Lines() iter.Seq[string]
	// Terminate asks the process tree to stop. Safe to call repeatedly.
	Terminate() error
	// Kill stops the process tree immediately. Safe to call repeatedly.
	Kill() error
	// Wait blocks until exit and returns the exit code, or -1 if unknown.
	Wait() int
	// Close releases the output pipe, unblocking a pending read.
	Close() error
	PID() int
}

// Launcher starts child processes
type Launcher interface {
	Launch(cmd Command) (Process, error)
}

// LocalLauncher starts processes on the local OS
type LocalLauncher struct {
	logger *zap.Logger
}

// NewLocalLauncher creates a launcher for local executables
func NewLocalLauncher(logger *zap.Logger) *LocalLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalLauncher{logger: logger}
}

// Launch resolves the executable and starts it with stdout and stderr joined
// on a single pipe
func (l *LocalLauncher) Launch(c Command) (Process, error) {
	path, err := exec.LookPath(c.Path)
	switch {
	case errors.Is(err, exec.ErrDot):
		// Found through a relative PATH entry; exec.Command would reject
		// the relative name again, so pin it down first.
		if path, err = filepath.Abs(path); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSpawnFailed, c.Path, err)
		}
	case err != nil:
		return nil, classifyLaunchError(c.Path, err)
	}

	reader, writer, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: create pipe: %v", ErrSpawnFailed, c.Path, err)
	}

	cmd := exec.Command(path, c.Args...)
	cmd.Env = c.Env
	cmd.Stdout = writer
	cmd.Stderr = writer
	hideConsoleWindow(cmd)

	if err := cmd.Start(); err != nil {
		reader.Close()
		writer.Close()
		return nil, classifyLaunchError(c.Path, err)
	}
	// The child holds its own copy; ours must go so EOF arrives on exit.
	writer.Close()

	l.logger.Debug("process started",
		zap.Int(ProcessLogFieldPID, cmd.Process.Pid),
		zap.String("command", c.String()))

	return newLocalProcess(cmd, reader, l.logger), nil
}

func classifyLaunchError(path string, err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrExecutableNotFound, path)
	}
	return fmt.Errorf("%w: %s: %v", ErrSpawnFailed, path, err)
}

// localProcess implements Process on top of os/exec
type localProcess struct {
	cmd    *exec.Cmd
	out    *os.File
	logger *zap.Logger

	consumed   atomic.Bool
	terminated atomic.Bool
	killed     atomic.Bool
	closeOnce  sync.Once

	done     chan struct{}
	exitCode int
}

func newLocalProcess(cmd *exec.Cmd, out *os.File, logger *zap.Logger) *localProcess {
	p := &localProcess{
		cmd:      cmd,
		out:      out,
		logger:   logger,
		done:     make(chan struct{}),
		exitCode: ExitCodeUnknown,
	}
	go p.reap()
	return p
}

// reap waits for the child so exit state is known without anyone calling Wait
func (p *localProcess) reap() {
	err := p.cmd.Wait()
	if p.cmd.ProcessState != nil {
		p.exitCode = p.cmd.ProcessState.ExitCode()
	}
	p.logger.Debug("process exited",
		zap.Int(ProcessLogFieldPID, p.PID()),
		zap.Int("exit_code", p.exitCode),
		zap.Error(err))
	close(p.done)
}

func (p *localProcess) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *localProcess) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *localProcess) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !p.consumed.CompareAndSwap(false, true) {
			return
		}
		scanner := bufio.NewScanner(p.out)
		scanner.Buffer(make([]byte, 0, InitialLineBuffer), MaxLineBytes)
		scanner.Split(ScanLinesAnyEOL)
		for scanner.Scan() {
			if !yield(strings.ToValidUTF8(scanner.Text(), ReplacementRune)) {
				return
			}
		}
		if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
			p.logger.Debug("output read failed", zap.Int(ProcessLogFieldPID, p.PID()), zap.Error(err))
		}
	}
}

func (p *localProcess) Terminate() error {
	if p.exited() || !p.terminated.CompareAndSwap(false, true) {
		return nil
	}
	stopDescendants(p.PID(), false)
	if err := interruptProcess(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("terminate pid %d: %w", p.PID(), err)
	}
	return nil
}

func (p *localProcess) Kill() error {
	if p.exited() || !p.killed.CompareAndSwap(false, true) {
		return nil
	}
	p.terminated.Store(true)
	stopDescendants(p.PID(), true)
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill pid %d: %w", p.PID(), err)
	}
	return nil
}

func (p *localProcess) Wait() int {
	<-p.done
	return p.exitCode
}

func (p *localProcess) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.out.Close()
	})
	return err
}

// stopDescendants signals every descendant of pid, deepest first. The tree
// must be collected before the parent dies or the children get reparented.
func stopDescendants(pid int, hard bool) {
	if pid <= 0 {
		return
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return
	}
	children, err := proc.Children()
	if err != nil {
		return
	}
	for _, child := range children {
		stopDescendants(int(child.Pid), hard)
		if hard {
			_ = child.Kill()
		} else {
			_ = child.Terminate()
		}
	}
}

// ScanLinesAnyEOL is a bufio.SplitFunc that ends lines at "\n", "\r\n" or a
// lone "\r", so carriage-return progress updates become separate lines.
// Lines longer than MaxLineBytes are emitted in chunks that end on a rune
// boundary.
func ScanLinesAnyEOL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		// Trailing "\r": wait for the next byte unless no more is coming.
		if !atEOF && len(data) < MaxLineBytes {
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	if len(data) >= MaxLineBytes {
		n := runeBoundary(data)
		return n, data[:n], nil
	}
	return 0, nil, nil
}

// runeBoundary returns the length of data without a trailing incomplete rune
func runeBoundary(data []byte) int {
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(data[i]) {
			continue
		}
		if i > 0 && !utf8.FullRune(data[i:]) {
			return i
		}
		break
	}
	return len(data)
}

// ChildEnv returns the parent environment with UTF-8 mode forced for the child
func ChildEnv() []string {
	return append(os.Environ(), UTF8ModeEnvVar)
}
