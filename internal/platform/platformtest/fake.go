// Package platformtest provides scripted stand-ins for the process runner so
// controller and prober logic can be tested without spawning anything.
package platformtest

import (
	"iter"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ytget/yutto-gui/internal/platform"
)

// FakeProcess replays Output and exits with ExitCode. With Hold set it keeps
// its output open until Terminate, Kill or Close is called. IgnoreTerminate
// models a child that shrugs off the polite signal and only dies on Kill.
type FakeProcess struct {
	Output          []string
	ExitCode        int
	Hold            bool
	IgnoreTerminate bool
	Pid             int

	consumed    atomic.Bool
	releaseOnce sync.Once
	released    chan struct{}
	initOnce    sync.Once

	mu             sync.Mutex
	terminateCalls int
	killCalls      int
	closeCalls     int
	signalled      bool
}

func (p *FakeProcess) init() {
	p.initOnce.Do(func() {
		p.released = make(chan struct{})
	})
}

func (p *FakeProcess) release() {
	p.init()
	p.releaseOnce.Do(func() { close(p.released) })
}

func (p *FakeProcess) Lines() iter.Seq[string] {
	p.init()
	return func(yield func(string) bool) {
		if !p.consumed.CompareAndSwap(false, true) {
			return
		}
		for _, line := range p.Output {
			if !yield(line) {
				return
			}
		}
		if p.Hold {
			<-p.released
		}
	}
}

// Terminate counts every call
func (p *FakeProcess) Terminate() error {
	p.mu.Lock()
	p.terminateCalls++
	ignore := p.IgnoreTerminate
	if !ignore {
		p.signalled = true
	}
	p.mu.Unlock()
	if !ignore {
		p.release()
	}
	return nil
}

func (p *FakeProcess) Kill() error {
	p.mu.Lock()
	p.killCalls++
	p.signalled = true
	p.mu.Unlock()
	p.release()
	return nil
}

func (p *FakeProcess) Wait() int {
	p.init()
	if p.Hold {
		<-p.released
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.signalled {
		return platform.ExitCodeUnknown
	}
	return p.ExitCode
}

func (p *FakeProcess) Close() error {
	p.mu.Lock()
	p.closeCalls++
	p.mu.Unlock()
	p.release()
	return nil
}

func (p *FakeProcess) PID() int { return p.Pid }

// TerminateCalls returns how often Terminate was called
func (p *FakeProcess) TerminateCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminateCalls
}

// KillCalls returns how often Kill was called
func (p *FakeProcess) KillCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killCalls
}

// Release lets a held process finish as if it exited on its own
func (p *FakeProcess) Release() {
	p.release()
}

// FakeLauncher records launches and hands out scripted processes
type FakeLauncher struct {
	mu        sync.Mutex
	commands  []platform.Command
	processes []*FakeProcess

	// Errs is consumed one entry per launch; a nil entry means success
	Errs []error
	// NewProcess builds the process for a launch; defaults to an empty one
	NewProcess func(cmd platform.Command) *FakeProcess
}

func (l *FakeLauncher) Launch(cmd platform.Command) (platform.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cmd.Args = slices.Clone(cmd.Args)
	l.commands = append(l.commands, cmd)

	if len(l.Errs) > 0 {
		err := l.Errs[0]
		l.Errs = l.Errs[1:]
		if err != nil {
			return nil, err
		}
	}

	proc := &FakeProcess{}
	if l.NewProcess != nil {
		proc = l.NewProcess(cmd)
	}
	if proc.Pid == 0 {
		proc.Pid = 1000 + len(l.processes)
	}
	l.processes = append(l.processes, proc)
	return proc, nil
}

// Commands returns every launch attempt, including failed ones
func (l *FakeLauncher) Commands() []platform.Command {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.commands)
}

// Processes returns the processes handed out so far
func (l *FakeLauncher) Processes() []*FakeProcess {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.processes)
}
