package projectsystem

import (
	"context"
	"errors"
	iofs "io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"github.com/uber/dthbridge/src/dthbridge/controller/dependency-notifier/dependencynotifiermock"
	"github.com/uber/dthbridge/src/dthbridge/controller/restore/restoremock"
	"github.com/uber/dthbridge/src/dthbridge/controller/supervisor"
	"github.com/uber/dthbridge/src/dthbridge/controller/supervisor/supervisormock"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/gateway/host-channel/hostchannelmock"
	bridgeerrors "github.com/uber/dthbridge/src/dthbridge/internal/errors"
	"github.com/uber/dthbridge/src/dthbridge/internal/filewatcher/filewatchermock"
	"github.com/uber/dthbridge/src/dthbridge/internal/fs/fsmock"
	"github.com/uber/dthbridge/src/dthbridge/mapper"
	"github.com/uber/dthbridge/src/dthbridge/repository/graph"
	"github.com/uber/dthbridge/src/dthbridge/repository/graph/graphmock"
	"go.uber.org/config"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type dirEntry struct {
	name string
	dir  bool
}

func (d dirEntry) Name() string                 { return d.name }
func (d dirEntry) IsDir() bool                  { return d.dir }
func (d dirEntry) Type() iofs.FileMode          { return 0 }
func (d dirEntry) Info() (iofs.FileInfo, error) { return nil, errors.New("not implemented") }

type fixture struct {
	c          *controller
	fs         *fsmock.MockBridgeFS
	store      graph.Store
	supervisor *supervisormock.MockController
	channel    *hostchannelmock.MockChannel
	watcher    *filewatchermock.MockWatcher
	notifier   *dependencynotifiermock.MockController
	restore    *restoremock.MockController

	receiver   func(context.Context, entity.Message)
	added      graph.ProjectListener
	loaded     graph.ProjectListener
	unresolved graph.ProjectListener
	watches    map[string]func(string)
}

func newFixture(t *testing.T, loadTimeout string) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		fs:         fsmock.NewMockBridgeFS(ctrl),
		store:      graph.NewStore(),
		supervisor: supervisormock.NewMockController(ctrl),
		channel:    hostchannelmock.NewMockChannel(ctrl),
		watcher:    filewatchermock.NewMockWatcher(ctrl),
		notifier:   dependencynotifiermock.NewMockController(ctrl),
		restore:    restoremock.NewMockController(ctrl),
		watches:    make(map[string]func(string)),
	}
	reconciler := graphmock.NewMockReconciler(ctrl)
	reconciler.EXPECT().OnProjectAdded(gomock.Any()).Do(func(l graph.ProjectListener) { f.added = l })
	reconciler.EXPECT().OnProjectLoaded(gomock.Any()).Do(func(l graph.ProjectListener) { f.loaded = l })
	reconciler.EXPECT().OnUnresolvedDependencies(gomock.Any()).Do(func(l graph.ProjectListener) { f.unresolved = l })
	f.channel.EXPECT().OnReceive(gomock.Any()).Do(func(h func(context.Context, entity.Message)) { f.receiver = h })
	f.watcher.EXPECT().Watch(gomock.Any(), gomock.Any()).DoAndReturn(func(path string, cb func(string)) error {
		f.watches[path] = cb
		return nil
	}).AnyTimes()

	provider, err := config.NewStaticProvider(map[string]interface{}{
		entity.ConfigKeyProjects: map[string]interface{}{
			"configuration":   "Debug",
			"sourceExtension": ".cs",
			"loadTimeout":     loadTimeout,
			"debounce":        "500ms",
		},
	})
	require.NoError(t, err)

	c, err := New(Params{
		Config:     provider,
		Logger:     zap.NewNop().Sugar(),
		Stats:      tally.NewTestScope("", nil),
		FS:         f.fs,
		Store:      f.store,
		Reconciler: reconciler,
		Supervisor: f.supervisor,
		Channel:    f.channel,
		Watcher:    f.watcher,
		Notifier:   f.notifier,
		Restore:    f.restore,
	})
	require.NoError(t, err)
	f.c = c.(*controller)
	require.NotNil(t, f.receiver)
	return f
}

// workspace lays out /ws with a global.json pointing at src, where app and lib live.
func (f *fixture) workspace() {
	f.fs.EXPECT().FileExists("/ws/global.json").Return(true, nil)
	f.fs.EXPECT().ReadFile("/ws/global.json").Return([]byte(`{"projects": ["src", "/elsewhere"]}`), nil)
	f.fs.EXPECT().DirExists("/ws/src").Return(true, nil)
	f.fs.EXPECT().DirExists("/elsewhere").Return(false, nil)
	f.fs.EXPECT().FileExists("/ws/src/project.json").Return(false, nil)
	f.fs.EXPECT().ReadDir("/ws/src").Return([]iofs.DirEntry{
		dirEntry{name: "app", dir: true},
		dirEntry{name: "lib", dir: true},
		dirEntry{name: "docs", dir: true},
		dirEntry{name: "README.md"},
	}, nil)
	f.fs.EXPECT().FileExists("/ws/src/app/project.json").Return(true, nil)
	f.fs.EXPECT().FileExists("/ws/src/lib/project.json").Return(true, nil)
	f.fs.EXPECT().FileExists("/ws/src/docs/project.json").Return(false, nil)
}

func initializeMessage(t *testing.T, contextID int, folder, configuration string) entity.Message {
	msg, err := mapper.NewHostMessage(entity.MessageTypeInitialize, contextID, entity.InitializeRequest{ProjectFolder: folder, Configuration: configuration})
	require.NoError(t, err)
	return msg
}

func TestInitialize(t *testing.T) {
	f := newFixture(t, "1m")
	f.workspace()

	var hostID string
	f.supervisor.EXPECT().Start(gomock.Any(), gomock.Any()).Do(func(id string, onConnected func(int)) {
		hostID = id
		onConnected(4100)
	})
	f.channel.EXPECT().Connect(gomock.Any(), 4100, gomock.Any()).DoAndReturn(func(_ context.Context, _ int, id string) error {
		assert.Equal(t, hostID, id)
		return nil
	})
	// Each project reports loaded as soon as it is initialized.
	f.channel.EXPECT().Send(gomock.Any(), initializeMessage(t, 1, "/ws/src/app", "Debug")).DoAndReturn(func(ctx context.Context, _ entity.Message) error {
		f.loaded(ctx, entity.ProjectRef{ContextID: 1, Path: "/ws/src/app/project.json"})
		return nil
	})
	f.channel.EXPECT().Send(gomock.Any(), initializeMessage(t, 2, "/ws/src/lib", "Debug")).DoAndReturn(func(ctx context.Context, _ entity.Message) error {
		f.loaded(ctx, entity.ProjectRef{ContextID: 2, Path: "/ws/src/lib/project.json"})
		return nil
	})

	require.NoError(t, f.c.Initialize(context.Background(), "/ws/"))

	projects := f.c.Projects()
	require.Len(t, projects, 2)
	for _, p := range projects {
		assert.True(t, p.InitializeSent)
		assert.Equal(t, []string{"/ws/src", "/elsewhere"}, p.ProjectSearchPaths)
		assert.Equal(t, "/ws/global.json", p.GlobalJSONPath)
	}
	assert.NotEmpty(t, hostID)
	assert.Contains(t, f.watches, "/ws/src/app/project.json")
	assert.Contains(t, f.watches, "/ws/src/lib/project.lock.json")
	assert.Empty(t, f.c.loads.pending())

	assert.ErrorIs(t, f.c.Initialize(context.Background(), "/ws"), ErrAlreadyInitialized)
}

func TestInitializeWithoutSettings(t *testing.T) {
	f := newFixture(t, "1m")
	f.fs.EXPECT().FileExists("/ws/global.json").Return(false, nil)
	f.fs.EXPECT().DirExists("/ws").Return(true, nil)
	f.fs.EXPECT().FileExists("/ws/project.json").Return(true, nil)
	f.fs.EXPECT().ReadDir("/ws").Return(nil, nil)
	f.supervisor.EXPECT().Start(gomock.Any(), gomock.Any()).Do(func(_ string, onConnected func(int)) { onConnected(4100) })
	f.channel.EXPECT().Connect(gomock.Any(), 4100, gomock.Any()).Return(nil)
	f.channel.EXPECT().Send(gomock.Any(), initializeMessage(t, 1, "/ws", "Debug")).DoAndReturn(func(ctx context.Context, _ entity.Message) error {
		f.loaded(ctx, entity.ProjectRef{ContextID: 1, Path: "/ws/project.json"})
		return nil
	})

	require.NoError(t, f.c.Initialize(context.Background(), "/ws"))

	p, err := f.store.GetByPath("/ws/project.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"/ws"}, p.ProjectSearchPaths)
	assert.Empty(t, p.GlobalJSONPath)
}

func TestInitializeLoadTimeout(t *testing.T) {
	f := newFixture(t, "20ms")
	f.workspace()
	f.supervisor.EXPECT().Start(gomock.Any(), gomock.Any()).Do(func(_ string, onConnected func(int)) { onConnected(4100) })
	f.channel.EXPECT().Connect(gomock.Any(), 4100, gomock.Any()).Return(nil)
	f.channel.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	start := time.Now()
	require.NoError(t, f.c.Initialize(context.Background(), "/ws"))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, []int{1, 2}, f.c.loads.pending())
}

func TestInitializeHostUnavailable(t *testing.T) {
	f := newFixture(t, "1m")
	f.workspace()
	f.supervisor.EXPECT().Start(gomock.Any(), gomock.Any())

	assert.ErrorIs(t, f.c.Initialize(context.Background(), "/ws"), ErrHostUnavailable)
	assert.Len(t, f.c.Projects(), 2)
}

func TestInitializeDiscoveryError(t *testing.T) {
	f := newFixture(t, "1m")
	f.fs.EXPECT().FileExists("/ws/global.json").Return(false, errors.New("permission denied"))

	assert.Error(t, f.c.Initialize(context.Background(), "/ws"))
}

func TestInitializeBadSettings(t *testing.T) {
	f := newFixture(t, "1m")
	f.fs.EXPECT().FileExists("/ws/global.json").Return(true, nil)
	f.fs.EXPECT().ReadFile("/ws/global.json").Return([]byte(`{"projects":`), nil)
	f.fs.EXPECT().DirExists("/ws").Return(true, nil)
	f.fs.EXPECT().FileExists("/ws/project.json").Return(false, nil)
	f.fs.EXPECT().ReadDir("/ws").Return(nil, nil)
	f.supervisor.EXPECT().Start(gomock.Any(), gomock.Any()).Do(func(_ string, onConnected func(int)) { onConnected(4100) })
	f.channel.EXPECT().Connect(gomock.Any(), 4100, gomock.Any()).Return(nil)

	require.NoError(t, f.c.Initialize(context.Background(), "/ws"))
	assert.Empty(t, f.c.Projects())
}

func TestReconnectReinitializes(t *testing.T) {
	f := newFixture(t, "1m")
	ref, _ := f.store.Track("/ws/src/app/project.json")

	f.channel.EXPECT().Connect(gomock.Any(), 4200, gomock.Any()).Return(nil)
	f.channel.EXPECT().Send(gomock.Any(), initializeMessage(t, ref.ContextID, "/ws/src/app", "Debug")).Return(nil)
	f.c.connected(4200)

	f.channel.EXPECT().Connect(gomock.Any(), 4300, gomock.Any()).Return(errors.New("refused"))
	f.c.connected(4300)
}

func TestProjectAdded(t *testing.T) {
	f := newFixture(t, "1m")
	lib, _ := f.store.Track("/ws/src/lib/project.json")

	f.supervisor.EXPECT().State().Return(supervisor.StateConnected)
	f.channel.EXPECT().Send(gomock.Any(), initializeMessage(t, lib.ContextID, "/ws/src/lib", "Debug")).Return(nil)
	f.added(context.Background(), lib)

	assert.Contains(t, f.watches, lib.Path)
	assert.Equal(t, []int{lib.ContextID}, f.c.loads.pending())

	other, _ := f.store.Track("/ws/src/other/project.json")
	f.supervisor.EXPECT().State().Return(supervisor.StateStarting)
	f.added(context.Background(), other)
	assert.Contains(t, f.watches, other.Path)
}

func TestInitializeSendFailure(t *testing.T) {
	f := newFixture(t, "1m")
	ref, _ := f.store.Track("/ws/src/app/project.json")

	f.channel.EXPECT().Send(gomock.Any(), gomock.Any()).Return(bridgeerrors.ErrNotConnected)
	f.c.initializeProject(context.Background(), ref)

	assert.Empty(t, f.c.loads.pending())
	p, err := f.store.Get(ref.ContextID)
	require.NoError(t, err)
	assert.False(t, p.InitializeSent)
}

func TestChangeConfiguration(t *testing.T) {
	f := newFixture(t, "1m")
	app, _ := f.store.Track("/ws/src/app/project.json")
	lib, _ := f.store.Track("/ws/src/lib/project.json")

	change := func(id int) entity.Message {
		msg, err := mapper.NewHostMessage(entity.MessageTypeChangeConfiguration, id, entity.ChangeConfigurationRequest{Configuration: "Release"})
		require.NoError(t, err)
		return msg
	}
	f.channel.EXPECT().Send(gomock.Any(), change(app.ContextID)).Return(nil)
	f.channel.EXPECT().Send(gomock.Any(), change(lib.ContextID)).Return(bridgeerrors.ErrNotConnected)

	err := f.c.ChangeConfiguration(context.Background(), "Release")
	assert.ErrorIs(t, err, bridgeerrors.ErrNotConnected)

	// Later initializations use the new configuration.
	f.channel.EXPECT().Send(gomock.Any(), initializeMessage(t, app.ContextID, "/ws/src/app", "Release")).Return(nil)
	f.c.initializeProject(context.Background(), app)
}

func TestRestore(t *testing.T) {
	f := newFixture(t, "1m")
	app, _ := f.store.Track("/ws/src/app/project.json")

	f.restore.EXPECT().Run(app)
	require.NoError(t, f.c.Restore(context.Background(), "/ws/src/app/project.json"))

	err := f.c.Restore(context.Background(), "/ws/src/missing/project.json")
	assert.True(t, bridgeerrors.IsProjectNotFound(err))
}

func TestListenerWiring(t *testing.T) {
	f := newFixture(t, "1m")
	app := entity.ProjectRef{ContextID: 1, Path: "/ws/src/app/project.json"}

	f.restore.EXPECT().Run(app)
	f.unresolved(context.Background(), app)

	f.supervisor.EXPECT().State().Return(supervisor.StateIdle)
	f.added(context.Background(), app)

	f.notifier.EXPECT().ManifestChanged(gomock.Any(), app.Path)
	f.watches[app.Path](app.Path)
	f.notifier.EXPECT().LockFileChanged(gomock.Any(), "/ws/src/app/project.lock.json")
	f.watches["/ws/src/app/project.lock.json"]("/ws/src/app/project.lock.json")
}

func TestLoadTracker(t *testing.T) {
	tracker := newLoadTracker()
	require.NoError(t, tracker.wait(context.Background(), time.Millisecond), "nothing to wait for")

	tracker.expect(1)
	tracker.expect(2)
	tracker.loaded(3)

	done := make(chan error, 1)
	go func() { done <- tracker.wait(context.Background(), time.Minute) }()
	tracker.loaded(1)
	tracker.loaded(2)
	require.NoError(t, <-done)

	tracker.expect(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tracker.wait(ctx, time.Minute), context.Canceled)
	assert.Error(t, tracker.wait(context.Background(), time.Millisecond))
}
