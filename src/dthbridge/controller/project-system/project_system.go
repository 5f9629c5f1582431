// Package projectsystem discovers the projects of a workspace and drives the compilation host through their lifecycle.
package projectsystem

//go:generate mockgen -destination=projectsystemmock/project_system_mock.go -package=projectsystemmock . Controller

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	dependencynotifier "github.com/uber/dthbridge/src/dthbridge/controller/dependency-notifier"
	"github.com/uber/dthbridge/src/dthbridge/controller/restore"
	"github.com/uber/dthbridge/src/dthbridge/controller/supervisor"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	hostchannel "github.com/uber/dthbridge/src/dthbridge/gateway/host-channel"
	"github.com/uber/dthbridge/src/dthbridge/internal/core"
	"github.com/uber/dthbridge/src/dthbridge/internal/errors"
	"github.com/uber/dthbridge/src/dthbridge/internal/filewatcher"
	"github.com/uber/dthbridge/src/dthbridge/internal/fs"
	"github.com/uber/dthbridge/src/dthbridge/mapper"
	"github.com/uber/dthbridge/src/dthbridge/repository/graph"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrAlreadyInitialized is returned when Initialize is called more than once.
var ErrAlreadyInitialized = errors.New("project system already initialized")

// ErrHostUnavailable is returned when the compilation host could not be started.
var ErrHostUnavailable = errors.New("compilation host did not start")

// Controller is the entry point editors use to load and query a workspace.
type Controller interface {
	// Initialize discovers the projects under root, starts the compilation host and waits for the projects to load.
	Initialize(ctx context.Context, root string) error
	// Projects returns a copy of every tracked project.
	Projects() []entity.Project
	// ChangeConfiguration switches every project to the named build configuration.
	ChangeConfiguration(ctx context.Context, configuration string) error
	// Restore runs a package restore for the tracked project at path.
	Restore(ctx context.Context, path string) error
}

// Params defines the dependencies of the project system.
type Params struct {
	fx.In

	Config     config.Provider
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	FS         fs.BridgeFS
	Store      graph.Store
	Reconciler graph.Reconciler
	Supervisor supervisor.Controller
	Channel    hostchannel.Channel
	Watcher    filewatcher.Watcher
	Notifier   dependencynotifier.Controller
	Restore    restore.Controller
}

type globalSettings struct {
	Projects []string `json:"projects"`
}

type controller struct {
	fs         fs.BridgeFS
	store      graph.Store
	supervisor supervisor.Controller
	channel    hostchannel.Channel
	watcher    filewatcher.Watcher
	notifier   dependencynotifier.Controller
	restore    restore.Controller
	logger     *zap.SugaredLogger
	stats      tally.Scope

	loadTimeout time.Duration
	loads       *loadTracker

	mu            sync.Mutex
	initialized   bool
	hostID        string
	configuration string
}

// New creates the project system and subscribes it to the host channel and the graph reconciler.
func New(p Params) (Controller, error) {
	var cfg entity.ProjectsConfig
	if err := core.PopulateSection(p.Config, entity.ConfigKeyProjects, &cfg); err != nil {
		return nil, err
	}

	c := &controller{
		fs:            p.FS,
		store:         p.Store,
		supervisor:    p.Supervisor,
		channel:       p.Channel,
		watcher:       p.Watcher,
		notifier:      p.Notifier,
		restore:       p.Restore,
		logger:        p.Logger.With("component", "project-system"),
		stats:         p.Stats.SubScope("project_system"),
		loadTimeout:   cfg.LoadTimeout,
		loads:         newLoadTracker(),
		configuration: cfg.Configuration,
	}

	p.Channel.OnReceive(p.Reconciler.Apply)
	p.Reconciler.OnProjectAdded(c.projectAdded)
	p.Reconciler.OnProjectLoaded(c.projectLoaded)
	p.Reconciler.OnUnresolvedDependencies(func(ctx context.Context, ref entity.ProjectRef) {
		c.restore.Run(ref)
	})
	return c, nil
}

func (c *controller) Initialize(ctx context.Context, root string) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return ErrAlreadyInitialized
	}
	c.initialized = true
	c.hostID = uuid.Must(uuid.NewV4()).String()
	hostID := c.hostID
	c.mu.Unlock()

	root = filepath.Clean(root)
	manifests, searchPaths, globalJSONPath, err := c.discover(root)
	if err != nil {
		return fmt.Errorf("discovering projects under %q: %w", root, err)
	}
	c.logger.Infow("discovered projects", "root", root, "count", len(manifests), "searchPaths", searchPaths)
	c.stats.Gauge("projects").Update(float64(len(manifests)))

	for _, manifest := range manifests {
		ref, _ := c.store.Track(manifest)
		if err := c.store.UpdateSettings(ref.ContextID, searchPaths, globalJSONPath); err != nil {
			return err
		}
		c.watch(ref)
	}

	var connected atomic.Bool
	c.supervisor.Start(hostID, func(port int) {
		connected.Store(true)
		c.connected(port)
	})
	if !connected.Load() {
		return ErrHostUnavailable
	}

	c.waitForLoads(ctx)
	return nil
}

func (c *controller) Projects() []entity.Project {
	return c.store.Projects()
}

func (c *controller) ChangeConfiguration(ctx context.Context, configuration string) error {
	c.mu.Lock()
	c.configuration = configuration
	c.mu.Unlock()

	var errs error
	for _, p := range c.store.Projects() {
		msg, err := mapper.NewHostMessage(entity.MessageTypeChangeConfiguration, p.ContextID, entity.ChangeConfigurationRequest{Configuration: configuration})
		if err != nil {
			return err
		}
		errs = multierr.Append(errs, c.channel.Send(ctx, msg))
	}
	return errs
}

func (c *controller) Restore(ctx context.Context, path string) error {
	id, ok := c.store.ContextID(path)
	if !ok {
		return &errors.ProjectNotFoundError{Path: path}
	}
	c.restore.Run(entity.ProjectRef{ContextID: id, Path: filepath.Clean(path)})
	return nil
}

// connected runs after every successful host start: the channel is reconnected and every project is initialized again.
func (c *controller) connected(port int) {
	c.mu.Lock()
	hostID := c.hostID
	c.mu.Unlock()

	ctx := context.Background()
	if err := c.channel.Connect(ctx, port, hostID); err != nil {
		c.logger.Errorw("connecting to compilation host", "port", port, zap.Error(err))
		return
	}
	for _, p := range c.store.Projects() {
		c.initializeProject(ctx, p.Ref())
	}
}

// projectAdded initializes a project first seen as the target of a project reference.
func (c *controller) projectAdded(ctx context.Context, ref entity.ProjectRef) {
	c.watch(ref)
	if c.supervisor.State() != supervisor.StateConnected {
		return
	}
	c.initializeProject(ctx, ref)
}

func (c *controller) projectLoaded(ctx context.Context, ref entity.ProjectRef) {
	c.loads.loaded(ref.ContextID)
}

func (c *controller) initializeProject(ctx context.Context, ref entity.ProjectRef) {
	c.mu.Lock()
	configuration := c.configuration
	c.mu.Unlock()

	msg, err := mapper.NewHostMessage(entity.MessageTypeInitialize, ref.ContextID, entity.InitializeRequest{
		ProjectFolder: ref.Dir(),
		Configuration: configuration,
	})
	if err != nil {
		c.logger.Errorw("building initialize message", "project", ref.Path, zap.Error(err))
		return
	}
	c.loads.expect(ref.ContextID)
	if err := c.channel.Send(ctx, msg); err != nil {
		c.loads.loaded(ref.ContextID)
		c.logger.Warnw("initializing project", "project", ref.Path, zap.Error(err))
		return
	}
	if err := c.store.MarkInitialized(ref.ContextID); err != nil {
		c.logger.Warnw("marking project initialized", "project", ref.Path, zap.Error(err))
	}
	c.stats.Counter("initialized").Inc(1)
}

func (c *controller) watch(ref entity.ProjectRef) {
	if err := c.watcher.Watch(ref.Path, func(path string) {
		c.notifier.ManifestChanged(context.Background(), path)
	}); err != nil {
		c.logger.Warnw("watching manifest", "project", ref.Path, zap.Error(err))
	}
	lockFile := filepath.Join(ref.Dir(), entity.LockFileName)
	if err := c.watcher.Watch(lockFile, func(path string) {
		c.notifier.LockFileChanged(context.Background(), path)
	}); err != nil {
		c.logger.Warnw("watching lock file", "project", ref.Path, zap.Error(err))
	}
}

func (c *controller) waitForLoads(ctx context.Context) {
	start := time.Now()
	err := c.loads.wait(ctx, c.loadTimeout)
	c.stats.Timer("load_latency").Record(time.Since(start))
	if err != nil {
		c.logger.Warnw("projects did not finish loading", "pending", c.loads.pending(), zap.Error(err))
		return
	}
	c.logger.Infow("projects loaded", "duration", time.Since(start))
}

// discover returns the manifests under root along with the search paths and settings file they were found through.
func (c *controller) discover(root string) ([]string, []string, string, error) {
	searchPaths := []string{root}
	var globalJSONPath string

	candidate := filepath.Join(root, entity.GlobalSettingsFileName)
	exists, err := c.fs.FileExists(candidate)
	if err != nil {
		return nil, nil, "", err
	}
	if exists {
		globalJSONPath = candidate
		paths, err := c.readGlobalSettings(root, candidate)
		if err != nil {
			c.logger.Warnw("ignoring unreadable settings file", "path", candidate, zap.Error(err))
		} else if len(paths) > 0 {
			searchPaths = paths
		}
	}

	seen := make(map[string]struct{})
	var manifests []string
	add := func(path string) error {
		if _, ok := seen[path]; ok {
			return nil
		}
		ok, err := c.fs.FileExists(path)
		if err != nil || !ok {
			return err
		}
		seen[path] = struct{}{}
		manifests = append(manifests, path)
		return nil
	}

	for _, searchPath := range searchPaths {
		isDir, err := c.fs.DirExists(searchPath)
		if err != nil {
			return nil, nil, "", err
		}
		if !isDir {
			continue
		}
		if err := add(filepath.Join(searchPath, entity.ManifestFileName)); err != nil {
			return nil, nil, "", err
		}
		entries, err := c.fs.ReadDir(searchPath)
		if err != nil {
			return nil, nil, "", err
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if err := add(filepath.Join(searchPath, entry.Name(), entity.ManifestFileName)); err != nil {
				return nil, nil, "", err
			}
		}
	}
	return manifests, searchPaths, globalJSONPath, nil
}

func (c *controller) readGlobalSettings(root, path string) ([]string, error) {
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var settings globalSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(settings.Projects))
	for _, p := range settings.Projects {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		paths = append(paths, filepath.Clean(p))
	}
	return paths, nil
}
