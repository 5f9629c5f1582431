// Package restore runs the external package restore tool for projects with unresolved dependencies.
package restore

//go:generate mockgen -destination=restoremock/restore_mock.go -package=restoremock . Controller

import (
	"context"
	"io"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	tally "github.com/uber-go/tally"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	editorclient "github.com/uber/dthbridge/src/dthbridge/gateway/editor-client"
	hostchannel "github.com/uber/dthbridge/src/dthbridge/gateway/host-channel"
	"github.com/uber/dthbridge/src/dthbridge/internal/clock"
	"github.com/uber/dthbridge/src/dthbridge/internal/core"
	"github.com/uber/dthbridge/src/dthbridge/internal/executor"
	"github.com/uber/dthbridge/src/dthbridge/internal/fs"
	"github.com/uber/dthbridge/src/dthbridge/internal/logfilewriter"
	"github.com/uber/dthbridge/src/dthbridge/internal/serverinfofile"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const _logFileKey = "restore"

// Controller coordinates restore runs.
type Controller interface {
	// Run schedules a restore for the project and returns immediately. It is a no-op when restore is disabled.
	Run(ref entity.ProjectRef)
	// Stop cancels queued runs, terminates running ones and waits for them to finish.
	Stop() error
}

// Params defines the dependencies of the restore coordinator.
type Params struct {
	fx.In

	Config         config.Provider
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	Executor       executor.Executor
	Emitter        editorclient.Gateway
	Channel        hostchannel.Channel
	Lifecycle      fx.Lifecycle
	FS             fs.BridgeFS
	ServerInfoFile serverinfofile.ServerInfoFile
}

type coordinator struct {
	cfg      entity.RestoreConfig
	executor executor.Executor
	emitter  editorclient.Gateway
	channel  hostchannel.Channel
	clock    clock.Clock
	logger   *zap.SugaredLogger
	stats    tally.Scope

	outputWriterParams logfilewriter.Params
	outputOnce         sync.Once
	output             io.Writer

	sem   *semaphore.Weighted
	locks lockRegistry

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup
}

// New creates the restore coordinator. In-flight runs are stopped with the application.
func New(p Params) (Controller, error) {
	var cfg entity.RestoreConfig
	if err := core.PopulateSection(p.Config, entity.ConfigKeyRestore, &cfg); err != nil {
		return nil, err
	}

	c := newCoordinator(cfg, p.Executor, p.Emitter, p.Channel, clock.New(), p.Logger, p.Stats)
	c.outputWriterParams = logfilewriter.Params{
		FS:             p.FS,
		Lifecycle:      p.Lifecycle,
		ServerInfoFile: p.ServerInfoFile,
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Stop()
		},
	})
	return c, nil
}

func newCoordinator(cfg entity.RestoreConfig, exec executor.Executor, emitter editorclient.Gateway, channel hostchannel.Channel, clk clock.Clock, logger *zap.SugaredLogger, stats tally.Scope) *coordinator {
	limit := cfg.MaxConcurrency
	if limit <= 0 {
		limit = max(1, runtime.NumCPU()/2)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &coordinator{
		cfg:      cfg,
		executor: exec,
		emitter:  emitter,
		channel:  channel,
		clock:    clk,
		logger:   logger.With("component", "restore"),
		stats:    stats.SubScope("restore"),
		sem:      semaphore.NewWeighted(int64(limit)),
		locks:    lockRegistry{locks: make(map[string]*lockEntry)},
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (c *coordinator) Run(ref entity.ProjectRef) {
	if !c.cfg.Enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx.Err() != nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.restore(c.ctx, ref)
	}()
}

func (c *coordinator) Stop() error {
	c.mu.Lock()
	c.cancel()
	c.mu.Unlock()
	c.wg.Wait()
	return nil
}

func (c *coordinator) restore(ctx context.Context, ref entity.ProjectRef) {
	c.stats.Counter("runs").Inc(1)

	// A run queued behind another run of the same project is reported as started right away.
	c.emit(ctx, entity.NewRestoreStartedEvent(ref.Path))
	release := c.locks.acquire(ref.Path)

	exitCode := -1
	if err := c.sem.Acquire(ctx, 1); err != nil {
		c.logger.Infow("restore cancelled before it started", "project", ref.Path)
	} else {
		exitCode = c.runWithRetries(ctx, ref)
		c.sem.Release(1)
	}
	release()

	succeeded := exitCode == 0
	// The editor is told about the outcome even when the run was cancelled.
	c.emit(context.WithoutCancel(ctx), entity.NewRestoreFinishedEvent(ref.Path, succeeded))
	if !succeeded {
		c.stats.Counter("failed").Inc(1)
		c.logger.Warnw("restore failed", "project", ref.Path, "exitCode", exitCode)
		return
	}

	c.stats.Counter("success").Inc(1)
	msg := entity.Message{MessageType: entity.MessageTypeRestoreComplete, ContextID: ref.ContextID}
	if err := c.channel.Send(ctx, msg); err != nil {
		c.logger.Warnw("notifying compilation host of restore", "project", ref.Path, zap.Error(err))
	}
}

// runWithRetries reruns the restore while the watchdog kills it and retries remain.
func (c *coordinator) runWithRetries(ctx context.Context, ref entity.ProjectRef) int {
	retries := c.cfg.Retries
	for {
		exitCode, killed := c.runOnce(ctx, ref)
		if !killed || retries <= 0 {
			return exitCode
		}
		retries--
		c.logger.Infow("retrying restore", "project", ref.Path, "retriesLeft", retries)
	}
}

// runOnce runs the restore tool in the project directory and reports whether the watchdog killed it.
func (c *coordinator) runOnce(ctx context.Context, ref entity.ProjectRef) (int, bool) {
	var lastOutput atomic.Int64
	lastOutput.Store(c.clock.Now().UnixNano())

	cmd := exec.Command(c.cfg.Executable, c.cfg.Arguments...)
	cmd.Dir = ref.Dir()
	proc, err := c.executor.Start(cmd, func(line string) {
		lastOutput.Store(c.clock.Now().UnixNano())
		c.writeOutput(line)
	})
	if err != nil {
		c.logger.Errorw("starting restore", "project", ref.Path, "executable", c.cfg.Executable, zap.Error(err))
		return -1, false
	}

	ticker := time.NewTicker(c.cfg.WatchdogInterval)
	defer ticker.Stop()

	killed := false
	for {
		select {
		case <-proc.Done():
			return proc.ExitCode(), killed
		case <-ctx.Done():
			c.terminate(proc, ref)
			<-proc.Done()
			return -1, false
		case <-ticker.C:
			if killed {
				continue
			}
			idle := c.clock.Now().Sub(time.Unix(0, lastOutput.Load()))
			if idle <= c.cfg.Timeout {
				continue
			}
			c.logger.Warnw("restore produced no output, killing it", "project", ref.Path, "idle", idle)
			c.stats.Counter("watchdog_kills").Inc(1)
			killed = true
			c.terminate(proc, ref)
		}
	}
}

func (c *coordinator) terminate(proc executor.Process, ref entity.ProjectRef) {
	if err := proc.Terminate(); err != nil {
		c.logger.Warnw("terminating restore", "project", ref.Path, "pid", proc.Pid(), zap.Error(err))
	}
}

func (c *coordinator) emit(ctx context.Context, event entity.Event) {
	if err := c.emitter.Emit(ctx, event); err != nil {
		c.logger.Warnw("emitting restore event", "event", event.Type, zap.Error(err))
	}
}

func (c *coordinator) writeOutput(line string) {
	c.outputOnce.Do(func() {
		if c.outputWriterParams.FS == nil {
			return
		}
		w, err := logfilewriter.SetupOutputWriter(c.outputWriterParams, _logFileKey)
		if err != nil {
			c.logger.Warnw("setting up restore output file", zap.Error(err))
			return
		}
		c.output = w
	})
	if c.output != nil {
		c.output.Write([]byte(line + "\n"))
	}
}
