package graph

//go:generate mockgen -destination=graphmock/graph_mock.go -package=graphmock . Store,Reconciler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	editorclient "github.com/uber/dthbridge/src/dthbridge/gateway/editor-client"
	"github.com/uber/dthbridge/src/dthbridge/gateway/workspace"
	"github.com/uber/dthbridge/src/dthbridge/internal/core"
	"github.com/uber/dthbridge/src/dthbridge/internal/errors"
	"github.com/uber/dthbridge/src/dthbridge/mapper"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module is the Fx module for this package.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(func(s *store) Store { return s }),
	fx.Provide(New),
)

// ProjectListener receives a project reference from the reconciler.
type ProjectListener func(ctx context.Context, ref entity.ProjectRef)

// Reconciler applies host messages to the project graph and mirrors the changes into the workspace.
type Reconciler interface {
	// Apply reconciles one inbound host message. Failures are logged, never returned.
	Apply(ctx context.Context, msg entity.Message)
	// OnProjectLoaded registers a listener called whenever every variant of a project has applied sources.
	OnProjectLoaded(listener ProjectListener)
	// OnProjectAdded registers a listener called for projects first seen as reference targets.
	OnProjectAdded(listener ProjectListener)
	// OnUnresolvedDependencies registers a listener called when the host reports unresolved dependencies.
	OnUnresolvedDependencies(listener ProjectListener)
}

// Params define values to be used by Reconciler.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Store     *store
	Workspace workspace.Workspace
	Emitter   editorclient.Gateway
}

type reconciler struct {
	store           *store
	workspace       workspace.Workspace
	emitter         editorclient.Gateway
	logger          *zap.SugaredLogger
	stats           tally.Scope
	sourceExtension string

	listenersMu  sync.Mutex
	onLoaded     []ProjectListener
	onAdded      []ProjectListener
	onUnresolved []ProjectListener
}

// effects collects what to announce once the store lock is released.
type effects struct {
	events     []entity.Event
	added      []entity.ProjectRef
	unresolved bool
	changed    bool
	hostError  *entity.HostError
}

// New creates a Reconciler over the shared Store.
func New(p Params) (Reconciler, error) {
	var cfg entity.ProjectsConfig
	if err := core.PopulateSection(p.Config, entity.ConfigKeyProjects, &cfg); err != nil {
		return nil, err
	}
	return newReconciler(p.Store, p.Workspace, p.Emitter, p.Logger, p.Stats, cfg.SourceExtension), nil
}

func newReconciler(s *store, ws workspace.Workspace, emitter editorclient.Gateway, logger *zap.SugaredLogger, stats tally.Scope, sourceExtension string) *reconciler {
	return &reconciler{
		store:           s,
		workspace:       ws,
		emitter:         emitter,
		logger:          logger.With("component", "graph-reconciler"),
		stats:           stats.SubScope("graph"),
		sourceExtension: strings.ToLower(sourceExtension),
	}
}

func (r *reconciler) OnProjectLoaded(listener ProjectListener) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	r.onLoaded = append(r.onLoaded, listener)
}

func (r *reconciler) OnProjectAdded(listener ProjectListener) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	r.onAdded = append(r.onAdded, listener)
}

func (r *reconciler) OnUnresolvedDependencies(listener ProjectListener) {
	r.listenersMu.Lock()
	defer r.listenersMu.Unlock()
	r.onUnresolved = append(r.onUnresolved, listener)
}

func (r *reconciler) Apply(ctx context.Context, msg entity.Message) {
	r.stats.Tagged(map[string]string{"type": string(msg.MessageType)}).Counter("messages").Inc(1)

	payload, err := mapper.MessageToPayload(msg)
	if err != nil {
		r.stats.Counter("decode_errors").Inc(1)
		r.logger.Warnw("dropping host message", "contextId", msg.ContextID, zap.Error(err))
		return
	}
	if unknown, ok := payload.(entity.UnknownPayload); ok {
		r.stats.Counter("unknown_messages").Inc(1)
		r.logger.Warnw("ignoring host message", "contextId", msg.ContextID, zap.Error(&errors.UnknownMessageTypeError{MessageType: string(unknown.Type)}))
		return
	}

	r.store.mu.Lock()
	p, ok := r.store.projects[msg.ContextID]
	if !ok {
		r.store.mu.Unlock()
		r.logger.Warnw("dropping host message", "type", msg.MessageType, zap.Error(&errors.ProjectNotFoundError{ContextID: msg.ContextID}))
		return
	}

	var eff effects
	switch payload := payload.(type) {
	case entity.ProjectInformation:
		r.applyProjectInformation(p, payload)
		eff.changed = true
	case entity.References:
		r.applyReferences(p, payload, &eff)
	case entity.Dependencies:
		r.applyDependencies(p, payload, &eff)
	case entity.CompilerOptions:
		r.applyCompilerOptions(p, payload)
	case entity.Sources:
		r.applySources(p, payload)
		eff.changed = true
	case entity.HostError:
		eff.hostError = &payload
	}

	ref := entity.ProjectRef{ContextID: p.contextID, Path: p.path}
	loaded := p.allLoaded()
	if eff.changed {
		eff.events = append(eff.events, entity.NewProjectChangedEvent(r.store.snapshot(p)))
	}
	r.store.mu.Unlock()

	r.announce(ctx, ref, loaded, eff)
}

func (r *reconciler) announce(ctx context.Context, ref entity.ProjectRef, loaded bool, eff effects) {
	if eff.hostError != nil {
		r.logger.Errorw("compilation host reported an error",
			"project", ref.Path,
			"message", eff.hostError.Message,
			"path", eff.hostError.Path,
			"line", eff.hostError.Line,
			"column", eff.hostError.Column,
		)
		if err := r.emitter.LogMessage(ctx, &protocol.LogMessageParams{
			Type:    protocol.MessageTypeError,
			Message: formatHostError(ref, eff.hostError),
		}); err != nil {
			r.logger.Warnw("forwarding host error to editors", zap.Error(err))
		}
	}

	for _, event := range eff.events {
		if err := r.emitter.Emit(ctx, event); err != nil {
			r.logger.Warnw("emitting event", "event", event.Type, zap.Error(err))
		}
	}

	r.listenersMu.Lock()
	onAdded := append([]ProjectListener{}, r.onAdded...)
	onUnresolved := append([]ProjectListener{}, r.onUnresolved...)
	onLoaded := append([]ProjectListener{}, r.onLoaded...)
	r.listenersMu.Unlock()

	for _, added := range eff.added {
		for _, listener := range onAdded {
			listener(ctx, added)
		}
	}
	if eff.unresolved {
		for _, listener := range onUnresolved {
			listener(ctx, ref)
		}
	}
	if loaded {
		for _, listener := range onLoaded {
			listener(ctx, ref)
		}
	}
}

func (r *reconciler) applyProjectInformation(p *project, info entity.ProjectInformation) {
	p.name = info.Name
	p.configurations = append([]string(nil), info.Configurations...)
	p.commands = make(map[string]string, len(info.Commands))
	for k, v := range info.Commands {
		p.commands[k] = v
	}
	p.searchPaths = append([]string(nil), info.ProjectSearchPaths...)
	if info.GlobalJSONPath != "" {
		p.globalJSONPath = info.GlobalJSONPath
	}

	listed := make(map[string]struct{}, len(info.Frameworks))
	for _, framework := range info.Frameworks {
		listed[framework.FrameworkName] = struct{}{}
	}
	for name, v := range p.frameworks {
		if _, ok := listed[name]; !ok && v.registered {
			r.teardown(p, v)
		}
	}
	for _, framework := range info.Frameworks {
		v, _ := r.store.variant(p, framework)
		v.framework = framework
		r.register(p, v)
	}
}

// ownVariant returns the variant a project's own message refers to, registering it if needed.
func (r *reconciler) ownVariant(p *project, framework entity.FrameworkData) *variant {
	v, _ := r.store.variant(p, framework)
	r.register(p, v)
	return v
}

// register adds an unregistered variant to the workspace, re-applies its options, and resolves pending referrers.
func (r *reconciler) register(p *project, v *variant) {
	if v.registered {
		return
	}
	info := mapper.FrameworkToProjectInfo(entity.FrameworkVariant{FrameworkData: v.framework, Handle: v.handle}, p.name, p.path)
	if err := r.workspace.AddProject(info); err != nil {
		r.logWorkspaceError("adding project", p, v, err)
		return
	}
	v.registered = true

	if v.compilation != nil {
		if err := r.workspace.SetCompilationOptions(v.handle, *v.compilation); err != nil {
			r.logWorkspaceError("setting compilation options", p, v, err)
		}
	}
	if v.parse != nil {
		if err := r.workspace.SetParseOptions(v.handle, *v.parse); err != nil {
			r.logWorkspaceError("setting parse options", p, v, err)
		}
	}

	v.pendingMu.Lock()
	defer v.pendingMu.Unlock()
	for _, referrer := range v.pending {
		if err := r.workspace.AddProjectReference(referrer, v.handle); err != nil {
			r.logWorkspaceError("resolving pending reference", p, v, err)
		}
	}
	v.pending = nil
}

// teardown removes a framework the project no longer targets.
// Edges it contributed are withdrawn; edges pointing at it wait for the framework to return.
func (r *reconciler) teardown(p *project, v *variant) {
	for _, targetHandle := range v.projectRefs {
		target, ok := r.store.variants[targetHandle]
		if !ok {
			continue
		}
		target.removePending(v.handle)
		if !p.referencesVariant(targetHandle, v) {
			delete(target.dependees, p.path)
		}
	}

	if err := r.workspace.RemoveProject(v.handle); err != nil {
		r.logWorkspaceError("removing project", p, v, err)
	}
	v.registered = false
	v.loaded = false
	v.fileRefs = make(map[string]uuid.UUID)
	v.rawRefs = make(map[string]uuid.UUID)
	v.projectRefs = make(map[string]uuid.UUID)
	v.documents = make(map[string]uuid.UUID)
	v.compilation = nil
	v.parse = nil

	for _, other := range r.store.projects {
		for _, referrer := range other.frameworks {
			if referrer.projectRefs[p.path] == v.handle {
				v.addPending(referrer.handle)
			}
		}
	}

	if len(v.dependees) == 0 && !v.hasPending() {
		r.store.removeVariant(p, v)
	}
	r.logger.Infow("removed framework", "project", p.path, "framework", v.framework.FrameworkName)
}

func (r *reconciler) applyReferences(p *project, refs entity.References, eff *effects) {
	v := r.ownVariant(p, refs.Framework)

	files := make(map[string]struct{}, len(refs.FileReferences))
	for _, path := range refs.FileReferences {
		files[path] = struct{}{}
	}
	for path, handle := range v.fileRefs {
		if _, ok := files[path]; !ok {
			r.removeMetadataReference(p, v, handle)
			delete(v.fileRefs, path)
		}
	}
	for _, path := range refs.FileReferences {
		if _, ok := v.fileRefs[path]; ok {
			continue
		}
		handle := uuid.Must(uuid.NewV4())
		if err := r.workspace.AddMetadataReference(v.handle, workspace.MetadataReference{Handle: handle, Path: path}); err != nil {
			r.logWorkspaceError("adding file reference", p, v, err)
			continue
		}
		v.fileRefs[path] = handle
	}

	for name, handle := range v.rawRefs {
		if _, ok := refs.RawReferences[name]; !ok {
			r.removeMetadataReference(p, v, handle)
			delete(v.rawRefs, name)
		}
	}
	for name, raw := range refs.RawReferences {
		if _, ok := v.rawRefs[name]; ok {
			continue
		}
		handle := uuid.Must(uuid.NewV4())
		if err := r.workspace.AddMetadataReference(v.handle, workspace.MetadataReference{Handle: handle, Name: name, Bytes: raw}); err != nil {
			r.logWorkspaceError("adding raw reference", p, v, err)
			continue
		}
		v.rawRefs[name] = handle
	}

	targets := make(map[string]entity.ProjectReference, len(refs.ProjectReferences))
	for _, ref := range refs.ProjectReferences {
		targets[filepath.Clean(ref.Path)] = ref
	}
	for path, targetHandle := range v.projectRefs {
		if _, ok := targets[path]; !ok {
			r.removeProjectReference(p, v, path, targetHandle)
		}
	}
	for path, ref := range targets {
		if _, ok := v.projectRefs[path]; ok {
			continue
		}
		r.addProjectReference(p, v, path, ref.Framework, eff)
	}
}

func (r *reconciler) removeMetadataReference(p *project, v *variant, handle uuid.UUID) {
	if err := r.workspace.RemoveMetadataReference(v.handle, handle); err != nil {
		r.logWorkspaceError("removing metadata reference", p, v, err)
	}
}

func (r *reconciler) addProjectReference(p *project, v *variant, path string, framework entity.FrameworkData, eff *effects) {
	targetProject, created := r.store.track(path)
	if created {
		eff.added = append(eff.added, entity.ProjectRef{ContextID: targetProject.contextID, Path: targetProject.path})
		r.logger.Infow("tracking referenced project", "project", path, "contextId", targetProject.contextID)
	}
	target, _ := r.store.variant(targetProject, framework)

	target.dependees[p.path] = p.contextID
	v.projectRefs[path] = target.handle

	if !target.registered {
		target.addPending(v.handle)
		return
	}
	if err := r.workspace.AddProjectReference(v.handle, target.handle); err != nil {
		r.logWorkspaceError("adding project reference", p, v, err)
	}
}

func (r *reconciler) removeProjectReference(p *project, v *variant, path string, targetHandle uuid.UUID) {
	delete(v.projectRefs, path)

	target, ok := r.store.variants[targetHandle]
	if !ok {
		return
	}
	if target.registered {
		if err := r.workspace.RemoveProjectReference(v.handle, targetHandle); err != nil {
			r.logWorkspaceError("removing project reference", p, v, err)
		}
	} else {
		target.removePending(v.handle)
	}
	if !p.referencesVariant(targetHandle, nil) {
		delete(target.dependees, p.path)
	}
}

func (r *reconciler) applyDependencies(p *project, deps entity.Dependencies, eff *effects) {
	r.ownVariant(p, deps.Framework)

	unresolved := mapper.DependenciesToUnresolved(deps)
	if len(unresolved) == 0 {
		return
	}
	eff.events = append(eff.events, entity.NewUnresolvedDependenciesEvent(p.path, unresolved))
	eff.unresolved = true
}

func (r *reconciler) applyCompilerOptions(p *project, opts entity.CompilerOptions) {
	v := r.ownVariant(p, opts.Framework)

	compilation, parse := mapper.CompilerOptionsToWorkspace(opts)
	v.compilation = &compilation
	v.parse = &parse
	if !v.registered {
		return
	}
	if err := r.workspace.SetCompilationOptions(v.handle, compilation); err != nil {
		r.logWorkspaceError("setting compilation options", p, v, err)
	}
	if err := r.workspace.SetParseOptions(v.handle, parse); err != nil {
		r.logWorkspaceError("setting parse options", p, v, err)
	}
}

func (r *reconciler) applySources(p *project, sources entity.Sources) {
	v := r.ownVariant(p, sources.Framework)

	files := make(map[string]struct{}, len(sources.Files))
	for _, file := range sources.Files {
		if strings.HasSuffix(strings.ToLower(file), r.sourceExtension) {
			files[file] = struct{}{}
		}
	}
	for path, handle := range v.documents {
		if _, ok := files[path]; ok {
			continue
		}
		if err := r.workspace.RemoveDocument(v.handle, handle); err != nil {
			r.logWorkspaceError("removing document", p, v, err)
		}
		delete(v.documents, path)
	}
	for _, file := range sources.Files {
		if _, ok := files[file]; !ok {
			continue
		}
		if _, ok := v.documents[file]; ok {
			continue
		}
		handle := uuid.Must(uuid.NewV4())
		if err := r.workspace.AddDocument(v.handle, handle, file); err != nil {
			r.logWorkspaceError("adding document", p, v, err)
			continue
		}
		v.documents[file] = handle
	}
	v.loaded = true
}

func (r *reconciler) logWorkspaceError(action string, p *project, v *variant, err error) {
	r.stats.Counter("workspace_errors").Inc(1)
	r.logger.Warnw("workspace update failed",
		"action", action,
		"project", p.path,
		"framework", v.framework.FrameworkName,
		zap.Error(err),
	)
}

func formatHostError(ref entity.ProjectRef, e *entity.HostError) string {
	path := e.Path
	if path == "" {
		path = ref.Path
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s(%d,%d): %s", path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", path, e.Message)
}
