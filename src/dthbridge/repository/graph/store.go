// Package graph holds the project graph reported by the compilation host.
//
// The Store is an arena of tracked projects addressed by context id, with framework
// variants addressed by their workspace handle. Only the Reconciler mutates variants;
// project tracking at discovery is the one other writer.
package graph

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/gateway/workspace"
	"github.com/uber/dthbridge/src/dthbridge/internal/errors"
)

// Store is the read side of the project graph plus project tracking.
type Store interface {
	// Track returns the project for a manifest path, assigning a new context id if it is not yet tracked.
	Track(path string) (ref entity.ProjectRef, created bool)
	// UpdateSettings records the solution settings a project was discovered with.
	UpdateSettings(contextID int, searchPaths []string, globalJSONPath string) error
	// MarkInitialized records that Initialize has been sent for the project.
	MarkInitialized(contextID int) error

	Get(contextID int) (entity.Project, error)
	GetByPath(path string) (entity.Project, error)
	// ContextID returns the context id of a tracked manifest path.
	ContextID(path string) (int, bool)
	// Projects returns every tracked project ordered by context id.
	Projects() []entity.Project
	// Dependees returns the manifest paths of projects referencing any variant of the project at path.
	Dependees(path string) []string
}

type project struct {
	contextID      int
	path           string
	name           string
	configurations []string
	commands       map[string]string
	searchPaths    []string
	globalJSONPath string
	initializeSent bool
	// frameworks is keyed by framework name.
	frameworks map[string]*variant
}

type variant struct {
	owner      int
	framework  entity.FrameworkData
	handle     uuid.UUID
	registered bool
	loaded     bool

	fileRefs    map[string]uuid.UUID
	rawRefs     map[string]uuid.UUID
	projectRefs map[string]uuid.UUID // target manifest path -> target variant handle
	dependees   map[string]int       // referring manifest path -> referring context id
	documents   map[string]uuid.UUID

	compilation *workspace.CompilationOptions
	parse       *workspace.ParseOptions

	pendingMu sync.Mutex
	pending   []uuid.UUID // referring variants waiting for this variant to be registered
}

type store struct {
	mu       sync.RWMutex
	nextID   int
	projects map[int]*project
	byPath   map[string]int
	variants map[uuid.UUID]*variant
}

// NewStore creates an empty Store.
func NewStore() Store {
	return newStore()
}

func newStore() *store {
	return &store{
		nextID:   1,
		projects: make(map[int]*project),
		byPath:   make(map[string]int),
		variants: make(map[uuid.UUID]*variant),
	}
}

func (s *store) Track(path string) (entity.ProjectRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, created := s.track(path)
	return entity.ProjectRef{ContextID: p.contextID, Path: p.path}, created
}

func (s *store) UpdateSettings(contextID int, searchPaths []string, globalJSONPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[contextID]
	if !ok {
		return &errors.ProjectNotFoundError{ContextID: contextID}
	}
	p.searchPaths = append([]string(nil), searchPaths...)
	p.globalJSONPath = globalJSONPath
	return nil
}

func (s *store) MarkInitialized(contextID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[contextID]
	if !ok {
		return &errors.ProjectNotFoundError{ContextID: contextID}
	}
	p.initializeSent = true
	return nil
}

func (s *store) Get(contextID int) (entity.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[contextID]
	if !ok {
		return entity.Project{}, &errors.ProjectNotFoundError{ContextID: contextID}
	}
	return s.snapshot(p), nil
}

func (s *store) GetByPath(path string) (entity.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPath[filepath.Clean(path)]
	if !ok {
		return entity.Project{}, &errors.ProjectNotFoundError{Path: path}
	}
	return s.snapshot(s.projects[id]), nil
}

func (s *store) ContextID(path string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPath[filepath.Clean(path)]
	return id, ok
}

func (s *store) Projects() []entity.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entity.Project, 0, len(s.projects))
	for _, p := range s.projects {
		result = append(result, s.snapshot(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ContextID < result[j].ContextID })
	return result
}

func (s *store) Dependees(path string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPath[filepath.Clean(path)]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	for _, v := range s.projects[id].frameworks {
		for referrer := range v.dependees {
			seen[referrer] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// track must be called with mu held.
func (s *store) track(path string) (*project, bool) {
	path = filepath.Clean(path)
	if id, ok := s.byPath[path]; ok {
		return s.projects[id], false
	}
	p := &project{
		contextID:  s.nextID,
		path:       path,
		commands:   make(map[string]string),
		frameworks: make(map[string]*variant),
	}
	s.nextID++
	s.projects[p.contextID] = p
	s.byPath[path] = p.contextID
	return p, true
}

// variant returns the variant of p for a framework, creating an unregistered one if absent. Must be called with mu held.
func (s *store) variant(p *project, framework entity.FrameworkData) (*variant, bool) {
	if v, ok := p.frameworks[framework.FrameworkName]; ok {
		return v, false
	}
	v := &variant{
		owner:       p.contextID,
		framework:   framework,
		handle:      uuid.Must(uuid.NewV4()),
		fileRefs:    make(map[string]uuid.UUID),
		rawRefs:     make(map[string]uuid.UUID),
		projectRefs: make(map[string]uuid.UUID),
		dependees:   make(map[string]int),
		documents:   make(map[string]uuid.UUID),
	}
	p.frameworks[framework.FrameworkName] = v
	s.variants[v.handle] = v
	return v, true
}

// removeVariant drops a variant from the arena. Must be called with mu held.
func (s *store) removeVariant(p *project, v *variant) {
	delete(p.frameworks, v.framework.FrameworkName)
	delete(s.variants, v.handle)
}

// referencesVariant reports whether any variant of p other than except references the target handle.
func (p *project) referencesVariant(target uuid.UUID, except *variant) bool {
	for _, v := range p.frameworks {
		if v == except {
			continue
		}
		for _, h := range v.projectRefs {
			if h == target {
				return true
			}
		}
	}
	return false
}

// allLoaded reports whether the project has registered variants and every one of them has applied sources.
func (p *project) allLoaded() bool {
	registered := 0
	for _, v := range p.frameworks {
		if !v.registered {
			continue
		}
		registered++
		if !v.loaded {
			return false
		}
	}
	return registered > 0
}

func (v *variant) addPending(referrer uuid.UUID) {
	v.pendingMu.Lock()
	defer v.pendingMu.Unlock()

	for _, h := range v.pending {
		if h == referrer {
			return
		}
	}
	v.pending = append(v.pending, referrer)
}

func (v *variant) removePending(referrer uuid.UUID) {
	v.pendingMu.Lock()
	defer v.pendingMu.Unlock()

	for i, h := range v.pending {
		if h == referrer {
			v.pending = append(v.pending[:i], v.pending[i+1:]...)
			return
		}
	}
}

func (v *variant) hasPending() bool {
	v.pendingMu.Lock()
	defer v.pendingMu.Unlock()
	return len(v.pending) > 0
}

// snapshot must be called with mu held.
func (s *store) snapshot(p *project) entity.Project {
	result := entity.Project{
		ContextID:          p.contextID,
		Path:               p.path,
		Name:               p.name,
		Configurations:     append([]string(nil), p.configurations...),
		Commands:           make(map[string]string, len(p.commands)),
		ProjectSearchPaths: append([]string(nil), p.searchPaths...),
		GlobalJSONPath:     p.globalJSONPath,
		InitializeSent:     p.initializeSent,
	}
	for k, v := range p.commands {
		result.Commands[k] = v
	}
	for _, v := range p.frameworks {
		result.Frameworks = append(result.Frameworks, entity.FrameworkVariant{
			FrameworkData:     v.framework,
			Handle:            v.handle,
			Registered:        v.registered,
			Loaded:            v.loaded,
			FileReferences:    sortedKeys(v.fileRefs),
			RawReferences:     sortedKeys(v.rawRefs),
			ProjectReferences: sortedKeys(v.projectRefs),
			Dependees:         sortedKeys(v.dependees),
			Documents:         sortedKeys(v.documents),
		})
	}
	sort.Slice(result.Frameworks, func(i, j int) bool {
		return result.Frameworks[i].FrameworkName < result.Frameworks[j].FrameworkName
	})
	return result
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
