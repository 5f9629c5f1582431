// Package supervisor launches the compilation host and keeps it running for the life of the bridge.
package supervisor

//go:generate mockgen -destination=supervisormock/supervisor_mock.go -package=supervisormock . Controller

import (
	"context"
	"io"
	"net"
	"os"
	"os/exec"
	"strconv"
	"sync"

	tally "github.com/uber-go/tally"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/internal/clock"
	"github.com/uber/dthbridge/src/dthbridge/internal/core"
	"github.com/uber/dthbridge/src/dthbridge/internal/executor"
	"github.com/uber/dthbridge/src/dthbridge/internal/fs"
	"github.com/uber/dthbridge/src/dthbridge/internal/logfilewriter"
	"github.com/uber/dthbridge/src/dthbridge/internal/serverinfofile"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const _logFileKey = "dth-host"

// State is the lifecycle state of the supervised host.
type State int

// Supervisor states. StateStopped is terminal.
const (
	StateIdle State = iota
	StateStarting
	StateConnected
	StateCrashed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateConnected:
		return "connected"
	case StateCrashed:
		return "crashed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Controller supervises the compilation host process.
type Controller interface {
	// Start launches the host and waits for it to accept connections. onConnected is called with the host port
	// after this and every later successful start. Failures are logged; onConnected is then not called.
	Start(hostID string, onConnected func(port int))
	// Stop terminates the host and suppresses any further restart.
	Stop() error
	// State reports the current lifecycle state.
	State() State
}

// Params defines the dependencies of the supervisor.
type Params struct {
	fx.In

	Config         config.Provider
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	Executor       executor.Executor
	Lifecycle      fx.Lifecycle
	FS             fs.BridgeFS
	ServerInfoFile serverinfofile.ServerInfoFile
}

type supervisor struct {
	cfg      entity.HostConfig
	executor executor.Executor
	clock    clock.Clock
	logger   *zap.SugaredLogger
	stats    tally.Scope

	outputWriterParams logfilewriter.Params
	outputOnce         sync.Once
	output             io.Writer

	pickPort func() (int, error)
	probe    func(port int) error

	// restarts paces relaunches of a host that keeps crashing. Waiting is abandoned on Stop.
	restarts *rate.Limiter
	stopped  context.Context
	stop     context.CancelFunc

	mu    sync.Mutex
	state State
	proc  executor.Process
	wg    sync.WaitGroup
}

// New creates the supervisor and stops it with the application.
func New(p Params) (Controller, error) {
	var cfg entity.HostConfig
	if err := core.PopulateSection(p.Config, entity.ConfigKeyHost, &cfg); err != nil {
		return nil, err
	}

	s := newSupervisor(cfg, p.Executor, clock.New(), p.Logger, p.Stats)
	s.outputWriterParams = logfilewriter.Params{
		FS:             p.FS,
		Lifecycle:      p.Lifecycle,
		ServerInfoFile: p.ServerInfoFile,
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Stop()
		},
	})
	return s, nil
}

func newSupervisor(cfg entity.HostConfig, exec executor.Executor, clk clock.Clock, logger *zap.SugaredLogger, stats tally.Scope) *supervisor {
	s := &supervisor{
		cfg:      cfg,
		executor: exec,
		clock:    clk,
		logger:   logger.With("component", "supervisor"),
		stats:    stats.SubScope("supervisor"),
		pickPort: freePort,
		restarts: rate.NewLimiter(rate.Inf, 0),
	}
	if cfg.RestartInterval > 0 && cfg.RestartBurst > 0 {
		s.restarts = rate.NewLimiter(rate.Every(cfg.RestartInterval), cfg.RestartBurst)
	}
	s.stopped, s.stop = context.WithCancel(context.Background())
	s.probe = s.dial
	return s
}

func (s *supervisor) Start(hostID string, onConnected func(port int)) {
	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		if state != StateStopped {
			s.logger.Warnw("compilation host already started", "state", state)
		}
		return
	}
	s.state = StateStarting
	s.mu.Unlock()

	port, ok := s.launch(hostID)
	if !ok {
		return
	}
	onConnected(port)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateConnected {
		s.wg.Add(1)
		go s.supervise(hostID, onConnected)
	}
}

func (s *supervisor) Stop() error {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopped
	proc := s.proc
	s.proc = nil
	s.mu.Unlock()
	s.stop()

	var err error
	if proc != nil {
		err = proc.Terminate()
	}
	s.wg.Wait()
	s.logger.Infow("compilation host stopped")
	return err
}

func (s *supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// supervise owns the exit of the running host and restarts it until Stop is called or a restart fails.
func (s *supervisor) supervise(hostID string, onConnected func(port int)) {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		proc := s.proc
		s.mu.Unlock()
		if proc == nil {
			return
		}
		<-proc.Done()

		s.mu.Lock()
		if s.state == StateStopped {
			s.mu.Unlock()
			return
		}
		s.state = StateCrashed
		s.proc = nil
		s.mu.Unlock()

		s.logger.Warnw("compilation host exited unexpectedly, restarting", "pid", proc.Pid(), "exitCode", proc.ExitCode())
		s.stats.Counter("restarts").Inc(1)

		if !s.restarts.Allow() {
			s.stats.Counter("throttled_restarts").Inc(1)
			s.logger.Warnw("compilation host is crashing repeatedly, delaying restart", "interval", s.cfg.RestartInterval)
			if err := s.restarts.Wait(s.stopped); err != nil {
				return
			}
		}

		port, ok := s.launch(hostID)
		if !ok {
			return
		}
		onConnected(port)
	}
}

// launch starts one host process and waits for its handshake.
func (s *supervisor) launch(hostID string) (int, bool) {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		return 0, false
	}
	s.state = StateStarting

	port, err := s.pickPort()
	if err != nil {
		s.state = StateIdle
		s.mu.Unlock()
		s.logger.Errorw("selecting a port for the compilation host", zap.Error(err))
		return 0, false
	}

	args := append(append([]string{}, s.cfg.Arguments...), strconv.Itoa(port), strconv.Itoa(os.Getpid()), hostID)
	cmd := exec.Command(s.cfg.Executable, args...)
	proc, err := s.executor.Start(cmd, s.writeOutput)
	if err != nil {
		s.state = StateIdle
		s.mu.Unlock()
		s.logger.Errorw("starting compilation host", "executable", s.cfg.Executable, zap.Error(err))
		return 0, false
	}
	s.proc = proc
	s.mu.Unlock()
	s.stats.Counter("starts").Inc(1)

	if !s.handshake(proc, port) {
		s.stats.Counter("handshake_failures").Inc(1)
		s.mu.Lock()
		if s.state != StateStopped {
			s.state = StateIdle
		}
		if s.proc == proc {
			s.proc = nil
		}
		s.mu.Unlock()
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateStopped {
		return 0, false
	}
	s.state = StateConnected
	s.logger.Infow("compilation host started", "pid", proc.Pid(), "port", port, "hostId", hostID)
	return port, true
}

// handshake polls the host port until it accepts a connection, the process exits, or the timeout elapses.
func (s *supervisor) handshake(proc executor.Process, port int) bool {
	deadline := s.clock.Now().Add(s.cfg.HandshakeTimeout)
	for {
		if proc.HasExited() {
			s.logger.Errorw("compilation host exited before accepting connections", "port", port, "exitCode", proc.ExitCode())
			return false
		}
		if err := s.probe(port); err == nil {
			// Another listener may have answered on the port.
			if proc.HasExited() {
				s.logger.Errorw("compilation host exited during handshake", "port", port, "exitCode", proc.ExitCode())
				return false
			}
			return true
		}
		if !s.clock.Now().Before(deadline) {
			s.logger.Errorw("timed out waiting for compilation host", "port", port, "timeout", s.cfg.HandshakeTimeout)
			if err := proc.Terminate(); err != nil {
				s.logger.Warnw("terminating compilation host", zap.Error(err))
			}
			return false
		}
		s.clock.Sleep(s.cfg.PollInterval)
	}
}

func (s *supervisor) writeOutput(line string) {
	s.outputOnce.Do(func() {
		if s.outputWriterParams.FS == nil {
			return
		}
		w, err := logfilewriter.SetupOutputWriter(s.outputWriterParams, _logFileKey)
		if err != nil {
			s.logger.Warnw("setting up compilation host output file", zap.Error(err))
			return
		}
		s.output = w
	})
	s.logger.Debugw("compilation host output", "line", line)
	if s.output != nil {
		s.output.Write([]byte(line + "\n"))
	}
}

func (s *supervisor) dial(port int) error {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), s.cfg.PollInterval)
	if err != nil {
		return err
	}
	return conn.Close()
}

// freePort binds an ephemeral loopback port and releases it for the host to claim.
func freePort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}
