// Package dependencynotifier tells the compilation host which projects are affected by a manifest or lock file change.
package dependencynotifier

//go:generate mockgen -destination=dependencynotifiermock/dependency_notifier_mock.go -package=dependencynotifiermock . Controller

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	tally "github.com/uber-go/tally"
	"github.com/uber/dthbridge/src/dthbridge/controller/restore"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	hostchannel "github.com/uber/dthbridge/src/dthbridge/gateway/host-channel"
	"github.com/uber/dthbridge/src/dthbridge/internal/core"
	"github.com/uber/dthbridge/src/dthbridge/repository/graph"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Controller reacts to project file changes.
type Controller interface {
	// ManifestChanged restores the project and schedules FilesChanged for it and every project depending on it.
	ManifestChanged(ctx context.Context, path string)
	// LockFileChanged schedules RefreshDependencies for the owning project and every project depending on it.
	LockFileChanged(ctx context.Context, path string)
	// Stop cancels scheduled notifications.
	Stop()
}

// Params defines the dependencies of the notifier.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Store     graph.Store
	Channel   hostchannel.Channel
	Restore   restore.Controller
	Lifecycle fx.Lifecycle
}

type key struct {
	path        string
	messageType entity.MessageType
}

type notifier struct {
	store    graph.Store
	channel  hostchannel.Channel
	restore  restore.Controller
	logger   *zap.SugaredLogger
	stats    tally.Scope
	debounce time.Duration

	mu      sync.Mutex
	stopped bool
	timers  map[key]*time.Timer
	wg      sync.WaitGroup
}

// New creates the notifier. Scheduled notifications are dropped when the application stops.
func New(p Params) (Controller, error) {
	var cfg entity.ProjectsConfig
	if err := core.PopulateSection(p.Config, entity.ConfigKeyProjects, &cfg); err != nil {
		return nil, err
	}

	n := newNotifier(p.Store, p.Channel, p.Restore, p.Logger, p.Stats, cfg.Debounce)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			n.Stop()
			return nil
		},
	})
	return n, nil
}

func newNotifier(store graph.Store, channel hostchannel.Channel, restorer restore.Controller, logger *zap.SugaredLogger, stats tally.Scope, debounce time.Duration) *notifier {
	return &notifier{
		store:    store,
		channel:  channel,
		restore:  restorer,
		logger:   logger.With("component", "dependency-notifier"),
		stats:    stats.SubScope("dependency_notifier"),
		debounce: debounce,
		timers:   make(map[key]*time.Timer),
	}
}

func (n *notifier) ManifestChanged(ctx context.Context, path string) {
	path = filepath.Clean(path)
	if id, ok := n.store.ContextID(path); ok {
		n.restore.Run(entity.ProjectRef{ContextID: id, Path: path})
	}
	n.schedule(path, entity.MessageTypeFilesChanged)
}

func (n *notifier) LockFileChanged(ctx context.Context, path string) {
	n.schedule(entity.ManifestPathForLockFile(filepath.Clean(path)), entity.MessageTypeRefreshDependencies)
}

func (n *notifier) Stop() {
	n.mu.Lock()
	n.stopped = true
	for k, t := range n.timers {
		if t.Stop() {
			n.wg.Done()
		}
		delete(n.timers, k)
	}
	n.mu.Unlock()
	n.wg.Wait()
}

// schedule arms one timer per key; changes arriving while it is armed are folded into it.
func (n *notifier) schedule(path string, messageType entity.MessageType) {
	k := key{path: path, messageType: messageType}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		return
	}
	if _, ok := n.timers[k]; ok {
		n.stats.Counter("coalesced").Inc(1)
		return
	}
	n.wg.Add(1)
	n.timers[k] = time.AfterFunc(n.debounce, func() {
		defer n.wg.Done()
		n.mu.Lock()
		delete(n.timers, k)
		n.mu.Unlock()
		n.notify(k)
	})
}

func (n *notifier) notify(k key) {
	ids := n.closure(k.path)
	if len(ids) == 0 {
		n.logger.Debugw("change to untracked project", "project", k.path, "type", k.messageType)
		return
	}
	n.logger.Infow("notifying compilation host", "project", k.path, "type", k.messageType, "contextIds", ids)
	for _, id := range ids {
		n.stats.Tagged(map[string]string{"type": string(k.messageType)}).Counter("notifications").Inc(1)
		if err := n.channel.Send(context.Background(), entity.Message{MessageType: k.messageType, ContextID: id}); err != nil {
			n.logger.Warnw("notifying compilation host", "contextId", id, "type", k.messageType, zap.Error(err))
		}
	}
}

// closure returns the context ids of the tracked project at origin and every project that transitively depends on it.
func (n *notifier) closure(origin string) []int {
	visited := make(map[string]struct{})
	stack := []string{origin}
	var ids []int
	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[path]; ok {
			continue
		}
		visited[path] = struct{}{}

		if id, ok := n.store.ContextID(path); ok {
			ids = append(ids, id)
		}
		for _, dependee := range n.store.Dependees(path) {
			if _, ok := visited[dependee]; !ok {
				stack = append(stack, dependee)
			}
		}
	}
	sort.Ints(ids)
	return ids
}
