package executor

import (
	"os/exec"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// _waitDelay bounds how long Wait keeps copying output after the process itself has exited.
const _waitDelay = 2 * time.Second

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(func(logger *zap.SugaredLogger) Executor {
		return NewExecutor(WithLogger(logger.Named("executor")))
	}),
)

// Executor wraps the launching of "os/exec".Cmd's to allow adding logs/metrics to
// each exec and makes it easier to test.
type Executor interface {
	// Start logs and launches cmd without waiting for it. Each line written to stdout or stderr is passed to onOutput.
	Start(cmd *exec.Cmd, onOutput func(line string)) (Process, error)
}

// Process is a handle to a launched command.
type Process interface {
	// Pid returns the operating system process id.
	Pid() int
	// Done is closed once the process has exited and its output has been delivered.
	Done() <-chan struct{}
	// HasExited reports whether Done has been closed.
	HasExited() bool
	// ExitCode returns the exit code once exited, -1 if killed by a signal or still running.
	ExitCode() int
	// Terminate force kills the process and all of its descendants.
	Terminate() error
}

// executorImp implements Executor
type executorImp struct {
	Logger *zap.SugaredLogger
	// StartFunc may be replaced to use executorImp in tests.
	StartFunc func(e *exec.Cmd) error
}

// Option defines options to customize executorImp's behavior
type Option func(*executorImp)

// WithLogger overrides the default noop logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(executor *executorImp) {
		executor.Logger = logger
	}
}

// WithStartFunc provides customized start behavior for executorImp
func WithStartFunc(startFunc func(e *exec.Cmd) error) Option {
	return func(executor *executorImp) {
		executor.StartFunc = startFunc
	}
}

// NewExecutor creates a new executorImp with a noop logger and a default start function
func NewExecutor(opts ...Option) Executor {
	executor := &executorImp{
		Logger:    zap.NewNop().Sugar(),
		StartFunc: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
	for _, opt := range opts {
		opt(executor)
	}
	return executor
}

// Start logs the Path/Args, places the command in its own process group and starts it.
func (l *executorImp) Start(cmd *exec.Cmd, onOutput func(line string)) (Process, error) {
	l.logCommand(cmd)

	if onOutput == nil {
		onOutput = func(string) {}
	}
	stdout := newLineWriter(onOutput)
	stderr := newLineWriter(onOutput)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = _waitDelay
	setProcessGroup(cmd)

	if err := l.StartFunc(cmd); err != nil {
		return nil, err
	}

	p := &process{
		cmd:      cmd,
		done:     make(chan struct{}),
		exitCode: -1,
	}
	go func() {
		err := cmd.Wait()
		stdout.Flush()
		stderr.Flush()
		if cmd.ProcessState != nil {
			p.exitCode = cmd.ProcessState.ExitCode()
		}
		if err != nil {
			l.Logger.Debugw("process exited", "Pid", p.Pid(), "error", err)
		}
		close(p.done)
	}()
	return p, nil
}

// Logs the command specified: Path, Dir, Args
func (l *executorImp) logCommand(cmd *exec.Cmd) {
	var args []string
	if len(cmd.Args) > 1 {
		// First arg is always the command itself
		args = cmd.Args[1:]
	}
	l.Logger.Infow("Exec",
		"Path", cmd.Path,
		"Dir", cmd.Dir,
		"Args", args,
	)
}

type process struct {
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
}

func (p *process) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *process) Done() <-chan struct{} {
	return p.done
}

func (p *process) HasExited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *process) ExitCode() int {
	if !p.HasExited() {
		return -1
	}
	return p.exitCode
}

func (p *process) Terminate() error {
	if p.HasExited() || p.cmd.Process == nil {
		return nil
	}
	return killProcessTree(p.cmd.Process)
}
