package restore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/gateway/editor-client/editorclientmock"
	"github.com/uber/dthbridge/src/dthbridge/gateway/host-channel/hostchannelmock"
	"github.com/uber/dthbridge/src/dthbridge/internal/clock"
	"github.com/uber/dthbridge/src/dthbridge/internal/executor/executortest"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var _app = entity.ProjectRef{ContextID: 1, Path: "/src/app/project.json"}

func restoreConfig() entity.RestoreConfig {
	return entity.RestoreConfig{
		Enabled:          true,
		Executable:       "dnu",
		Arguments:        []string{"restore"},
		Timeout:          time.Hour,
		WatchdogInterval: time.Hour,
		Retries:          1,
		MaxConcurrency:   2,
	}
}

// eventLog records emitted events.
type eventLog struct {
	mu     sync.Mutex
	events []entity.Event
}

func (l *eventLog) emit(_ context.Context, event entity.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *eventLog) count(eventType entity.EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func (l *eventLog) finished() []entity.PackageRestoreMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []entity.PackageRestoreMessage
	for _, e := range l.events {
		if e.Type == entity.EventPackageRestoreFinished {
			result = append(result, e.Body.(entity.PackageRestoreMessage))
		}
	}
	return result
}

type fixture struct {
	c       *coordinator
	exec    *executortest.Executor
	channel *hostchannelmock.MockChannel
	events  *eventLog
	stats   tally.TestScope
}

func newFixture(t *testing.T, cfg entity.RestoreConfig) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		exec:    &executortest.Executor{},
		channel: hostchannelmock.NewMockChannel(ctrl),
		events:  &eventLog{},
		stats:   tally.NewTestScope("", nil),
	}
	emitter := editorclientmock.NewMockGateway(ctrl)
	emitter.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(f.events.emit).AnyTimes()
	f.c = newCoordinator(cfg, f.exec, emitter, f.channel, clock.New(), zap.NewNop().Sugar(), f.stats)
	t.Cleanup(func() { f.c.Stop() })
	return f
}

func (f *fixture) counter(name string) int64 {
	for _, c := range f.stats.Snapshot().Counters() {
		if c.Name() == "restore."+name {
			return c.Value()
		}
	}
	return 0
}

func (f *fixture) waitFinished(t *testing.T, n int) []entity.PackageRestoreMessage {
	require.Eventually(t, func() bool { return len(f.events.finished()) >= n }, 5*time.Second, time.Millisecond)
	return f.events.finished()
}

func TestNew(t *testing.T) {
	provider, err := config.NewStaticProvider(map[string]interface{}{
		entity.ConfigKeyRestore: map[string]interface{}{
			"enabled":          true,
			"executable":       "dnu",
			"timeout":          "180s",
			"watchdogInterval": "10s",
			"retries":          1,
		},
	})
	require.NoError(t, err)

	lc := fxtest.NewLifecycle(t)
	c, err := New(Params{
		Config:    provider,
		Logger:    zap.NewNop().Sugar(),
		Stats:     tally.NoopScope,
		Executor:  &executortest.Executor{},
		Lifecycle: lc,
	})
	require.NoError(t, err)
	assert.NotNil(t, c)
	lc.RequireStart().RequireStop()

	missing, err := config.NewStaticProvider(map[string]interface{}{
		entity.ConfigKeyRestore: map[string]interface{}{"enabled": true, "timeout": "1s", "watchdogInterval": "1s"},
	})
	require.NoError(t, err)
	_, err = New(Params{Config: missing, Logger: zap.NewNop().Sugar(), Stats: tally.NoopScope, Lifecycle: fxtest.NewLifecycle(t)})
	assert.Error(t, err, "an enabled restore needs an executable")
}

func TestRunSuccess(t *testing.T) {
	f := newFixture(t, restoreConfig())
	f.exec.OnStart = func(p *executortest.Process) {
		p.Output("Restoring packages for /src/app/project.json")
		p.Exit(0)
	}
	f.channel.EXPECT().Send(gomock.Any(), entity.Message{MessageType: entity.MessageTypeRestoreComplete, ContextID: 1}).Return(nil)

	f.c.Run(_app)

	finished := f.waitFinished(t, 1)
	assert.Equal(t, []entity.PackageRestoreMessage{{FileName: _app.Path, Succeeded: true}}, finished)
	require.NoError(t, f.c.Stop())

	procs := f.exec.Processes()
	require.Len(t, procs, 1)
	assert.Equal(t, "/src/app", procs[0].Cmd().Dir)
	assert.Equal(t, []string{"dnu", "restore"}, procs[0].Cmd().Args)
	assert.Equal(t, entity.EventPackageRestoreStarted, f.events.events[0].Type)
	assert.Equal(t, int64(1), f.counter("success"))
	assert.Zero(t, f.c.locks.len())
}

func TestRunFailure(t *testing.T) {
	f := newFixture(t, restoreConfig())
	f.exec.OnStart = func(p *executortest.Process) { p.Exit(1) }

	f.c.Run(_app)

	finished := f.waitFinished(t, 1)
	assert.False(t, finished[0].Succeeded)
	require.NoError(t, f.c.Stop())
	assert.Equal(t, int64(1), f.counter("failed"))
}

func TestRunStartError(t *testing.T) {
	f := newFixture(t, restoreConfig())
	f.exec.StartErr = executortest.ErrStart

	f.c.Run(_app)

	finished := f.waitFinished(t, 1)
	assert.False(t, finished[0].Succeeded)
}

func TestDisabled(t *testing.T) {
	cfg := restoreConfig()
	cfg.Enabled = false
	f := newFixture(t, cfg)

	f.c.Run(_app)
	require.NoError(t, f.c.Stop())

	assert.Empty(t, f.exec.Processes())
	assert.Empty(t, f.events.events)
}

func TestConcurrencyBound(t *testing.T) {
	f := newFixture(t, restoreConfig())
	f.channel.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(5)

	for i := 1; i <= 5; i++ {
		f.c.Run(entity.ProjectRef{ContextID: i, Path: fmt.Sprintf("/src/p%d/project.json", i)})
	}

	require.Eventually(t, func() bool { return f.exec.Running() == 2 }, 5*time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, f.exec.Processes(), 2, "no run starts beyond the bound")

	require.Eventually(t, func() bool {
		f.exec.ExitAll(0)
		return len(f.events.finished()) == 5
	}, 5*time.Second, time.Millisecond)

	assert.Equal(t, 2, f.exec.MaxRunning())
	assert.Len(t, f.exec.Processes(), 5)
}

func TestSameProjectSerialized(t *testing.T) {
	f := newFixture(t, restoreConfig())
	f.channel.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	f.c.Run(_app)
	f.c.Run(_app)

	require.Eventually(t, func() bool { return f.exec.Running() == 1 }, 5*time.Second, time.Millisecond)
	require.Eventually(t, func() bool {
		return f.events.count(entity.EventPackageRestoreStarted) == 2
	}, 5*time.Second, time.Millisecond, "the queued run is reported as started")
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, f.exec.Processes(), 1)

	f.exec.Processes()[0].Exit(0)
	require.Eventually(t, func() bool { return len(f.exec.Processes()) == 2 }, 5*time.Second, time.Millisecond)
	f.exec.Processes()[1].Exit(0)

	f.waitFinished(t, 2)
	assert.Equal(t, 1, f.exec.MaxRunning())
}

func TestWatchdogKillAndRetry(t *testing.T) {
	cfg := restoreConfig()
	cfg.Timeout = 20 * time.Millisecond
	cfg.WatchdogInterval = 5 * time.Millisecond
	f := newFixture(t, cfg)

	// The first run hangs silently; the retry succeeds.
	f.exec.OnStart = func(p *executortest.Process) {
		if p.Pid() > 1001 {
			p.Exit(0)
		}
	}
	f.channel.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	f.c.Run(_app)

	finished := f.waitFinished(t, 1)
	assert.True(t, finished[0].Succeeded)

	procs := f.exec.Processes()
	require.Len(t, procs, 2)
	assert.True(t, procs[0].Terminated())
	assert.False(t, procs[1].Terminated())
	assert.Equal(t, int64(1), f.counter("watchdog_kills"))
}

func TestWatchdogSecondStallFails(t *testing.T) {
	cfg := restoreConfig()
	cfg.Timeout = 20 * time.Millisecond
	cfg.WatchdogInterval = 5 * time.Millisecond
	f := newFixture(t, cfg)

	f.c.Run(_app)

	finished := f.waitFinished(t, 1)
	assert.False(t, finished[0].Succeeded)
	assert.Len(t, f.exec.Processes(), 2)
	assert.Equal(t, int64(2), f.counter("watchdog_kills"))
	assert.Equal(t, int64(1), f.counter("failed"))
}

func TestWatchdogSparedByOutput(t *testing.T) {
	cfg := restoreConfig()
	cfg.Timeout = 50 * time.Millisecond
	cfg.WatchdogInterval = 5 * time.Millisecond
	f := newFixture(t, cfg)
	f.channel.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	f.c.Run(_app)
	require.Eventually(t, func() bool { return f.exec.Running() == 1 }, 5*time.Second, time.Millisecond)
	p := f.exec.Processes()[0]
	for i := 0; i < 10; i++ {
		p.Output(fmt.Sprintf("GET https://nuget.org/api/v2/package-%d", i))
		time.Sleep(10 * time.Millisecond)
	}
	p.Exit(0)

	finished := f.waitFinished(t, 1)
	assert.True(t, finished[0].Succeeded)
	assert.False(t, p.Terminated())
	assert.Zero(t, f.counter("watchdog_kills"))
}

func TestStopTerminatesRunning(t *testing.T) {
	f := newFixture(t, restoreConfig())

	f.c.Run(_app)
	require.Eventually(t, func() bool { return f.exec.Running() == 1 }, 5*time.Second, time.Millisecond)

	require.NoError(t, f.c.Stop())
	assert.True(t, f.exec.Processes()[0].Terminated())
	assert.Equal(t, []entity.PackageRestoreMessage{{FileName: _app.Path}}, f.events.finished())

	// Runs after stop are ignored.
	f.c.Run(_app)
	assert.Len(t, f.exec.Processes(), 1)
}

func TestLockRegistry(t *testing.T) {
	r := lockRegistry{locks: make(map[string]*lockEntry)}

	release := r.acquire("a")
	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		r.acquire("a")()
	}()

	select {
	case <-acquired:
		require.FailNow(t, "lock acquired twice")
	case <-time.After(20 * time.Millisecond):
	}
	releaseB := r.acquire("b")
	assert.Equal(t, 2, r.len())

	release()
	release()
	<-acquired
	releaseB()
	assert.Zero(t, r.len())
}
