// Package executortest provides an in-memory executor.Executor whose processes are driven by the test.
package executortest

import (
	"errors"
	"os/exec"
	"sync"

	"github.com/uber/dthbridge/src/dthbridge/internal/executor"
)

// Process is a fake executor.Process. It runs until Exit or Terminate is called.
type Process struct {
	pid      int
	cmd      *exec.Cmd
	onOutput func(string)
	onExit   func(*Process)

	mu         sync.Mutex
	done       chan struct{}
	exited     bool
	exitCode   int
	terminated bool
}

// NewProcess returns a running fake process.
func NewProcess(pid int) *Process {
	return &Process{
		pid:      pid,
		done:     make(chan struct{}),
		exitCode: -1,
		onOutput: func(string) {},
	}
}

// Cmd returns the command the process was started for.
func (p *Process) Cmd() *exec.Cmd { return p.cmd }

// Pid implements executor.Process.
func (p *Process) Pid() int { return p.pid }

// Done implements executor.Process.
func (p *Process) Done() <-chan struct{} { return p.done }

// HasExited implements executor.Process.
func (p *Process) HasExited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exited
}

// ExitCode implements executor.Process.
func (p *Process) ExitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.exited {
		return -1
	}
	return p.exitCode
}

// Terminate implements executor.Process; the process exits with code -1.
func (p *Process) Terminate() error {
	p.mu.Lock()
	p.terminated = true
	p.mu.Unlock()
	p.Exit(-1)
	return nil
}

// Terminated reports whether Terminate was called.
func (p *Process) Terminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminated
}

// Output delivers one line of output as if the process had written it.
func (p *Process) Output(line string) {
	p.onOutput(line)
}

// Exit ends the process with the given code. Later calls are ignored.
func (p *Process) Exit(code int) {
	p.mu.Lock()
	if p.exited {
		p.mu.Unlock()
		return
	}
	p.exited = true
	p.exitCode = code
	onExit := p.onExit
	p.mu.Unlock()

	if onExit != nil {
		onExit(p)
	}
	close(p.done)
}

// Executor is a fake executor.Executor that records every start and tracks how many processes run at once.
type Executor struct {
	// OnStart, if set, is called synchronously with every newly started process.
	OnStart func(p *Process)
	// StartErr, if set, is returned by Start instead of launching.
	StartErr error

	mu         sync.Mutex
	processes  []*Process
	running    int
	maxRunning int
	nextPid    int
}

var _ executor.Executor = (*Executor)(nil)

// Start implements executor.Executor.
func (e *Executor) Start(cmd *exec.Cmd, onOutput func(line string)) (executor.Process, error) {
	e.mu.Lock()
	if e.StartErr != nil {
		e.mu.Unlock()
		return nil, e.StartErr
	}
	e.nextPid++
	p := NewProcess(1000 + e.nextPid)
	p.cmd = cmd
	if onOutput != nil {
		p.onOutput = onOutput
	}
	p.onExit = e.exited
	e.processes = append(e.processes, p)
	e.running++
	if e.running > e.maxRunning {
		e.maxRunning = e.running
	}
	onStart := e.OnStart
	e.mu.Unlock()

	if onStart != nil {
		onStart(p)
	}
	return p, nil
}

func (e *Executor) exited(*Process) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running--
}

// Processes returns every process started so far, in start order.
func (e *Executor) Processes() []*Process {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Process(nil), e.processes...)
}

// Running returns the number of started processes that have not exited.
func (e *Executor) Running() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// MaxRunning returns the highest number of processes that were running at the same time.
func (e *Executor) MaxRunning() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxRunning
}

// ExitAll exits every running process with the given code.
func (e *Executor) ExitAll(code int) {
	for _, p := range e.Processes() {
		p.Exit(code)
	}
}

// ErrStart is a convenience error for StartErr.
var ErrStart = errors.New("executortest: start failed")
