// Package workspace holds the semantic workspace consumed by editor features.
// The graph reconciler drives it through Workspace; editors read it through Snapshot.
package workspace

//go:generate mockgen -destination=workspacemock/workspace_mock.go -package=workspacemock . Workspace

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gofrs/uuid"
	bridgeerrors "github.com/uber/dthbridge/src/dthbridge/internal/errors"
	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Output kinds for CompilationOptions.
const (
	OutputKindConsoleApplication       = "ConsoleApplication"
	OutputKindDynamicallyLinkedLibrary = "DynamicallyLinkedLibrary"
)

// Optimization levels for CompilationOptions.
const (
	OptimizationLevelDebug   = "Debug"
	OptimizationLevelRelease = "Release"
)

// ProjectInfo describes one framework build of a project as the workspace sees it.
type ProjectInfo struct {
	Handle    uuid.UUID `json:"handle"`
	Name      string    `json:"name"`
	FilePath  string    `json:"filePath"`
	Framework string    `json:"framework"`
}

// MetadataReference is a compiled artifact referenced by a project. Exactly one of Path and Name is set.
type MetadataReference struct {
	Handle uuid.UUID `json:"handle"`
	// Path is set for file based references.
	Path string `json:"path,omitempty"`
	// Name is set for in-memory references.
	Name  string `json:"name,omitempty"`
	Bytes []byte `json:"-"`
}

// CompilationOptions are the compiler settings of a project.
type CompilationOptions struct {
	OutputKind        string `json:"outputKind"`
	OptimizationLevel string `json:"optimizationLevel"`
	AllowUnsafe       bool   `json:"allowUnsafe"`
	WarningsAsErrors  bool   `json:"warningsAsErrors"`
	Platform          string `json:"platform"`
	EmitEntryPoint    bool   `json:"emitEntryPoint"`
}

// ParseOptions are the parser settings of a project.
type ParseOptions struct {
	LanguageVersion     string   `json:"languageVersion"`
	PreprocessorSymbols []string `json:"preprocessorSymbols"`
}

// Workspace is the consuming workspace mutated by the graph reconciler.
type Workspace interface {
	AddProject(info ProjectInfo) error
	// RemoveProject removes the project, its documents and references, and every edge to or from it.
	RemoveProject(handle uuid.UUID) error
	AddMetadataReference(project uuid.UUID, ref MetadataReference) error
	RemoveMetadataReference(project uuid.UUID, ref uuid.UUID) error
	AddProjectReference(project uuid.UUID, target uuid.UUID) error
	RemoveProjectReference(project uuid.UUID, target uuid.UUID) error
	AddDocument(project uuid.UUID, document uuid.UUID, path string) error
	RemoveDocument(project uuid.UUID, document uuid.UUID) error
	SetCompilationOptions(project uuid.UUID, options CompilationOptions) error
	SetParseOptions(project uuid.UUID, options ParseOptions) error
	Snapshot() []ProjectSnapshot
}

// ProjectSnapshot is a copy of one workspace project.
type ProjectSnapshot struct {
	ProjectInfo
	MetadataReferences []MetadataReference `json:"metadataReferences"`
	ProjectReferences  []uuid.UUID         `json:"projectReferences"`
	Documents          []string            `json:"documents"`
	CompilationOptions *CompilationOptions `json:"compilationOptions,omitempty"`
	ParseOptions       *ParseOptions       `json:"parseOptions,omitempty"`
}

type project struct {
	info        ProjectInfo
	metadata    map[uuid.UUID]MetadataReference
	references  map[uuid.UUID]struct{}
	documents   map[uuid.UUID]string
	compilation *CompilationOptions
	parse       *ParseOptions
}

type workspace struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*project
}

// New creates an empty in-memory Workspace.
func New() Workspace {
	return &workspace{projects: make(map[uuid.UUID]*project)}
}

func (w *workspace) AddProject(info ProjectInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.projects[info.Handle]; ok {
		return fmt.Errorf("project %q already added", info.Handle)
	}
	w.projects[info.Handle] = &project{
		info:       info,
		metadata:   make(map[uuid.UUID]MetadataReference),
		references: make(map[uuid.UUID]struct{}),
		documents:  make(map[uuid.UUID]string),
	}
	return nil
}

func (w *workspace) RemoveProject(handle uuid.UUID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.projects[handle]; !ok {
		return &bridgeerrors.HandleNotFoundError{Handle: handle}
	}
	delete(w.projects, handle)
	for _, p := range w.projects {
		delete(p.references, handle)
	}
	return nil
}

func (w *workspace) AddMetadataReference(handle uuid.UUID, ref MetadataReference) error {
	return w.update(handle, func(p *project) error {
		p.metadata[ref.Handle] = ref
		return nil
	})
}

func (w *workspace) RemoveMetadataReference(handle uuid.UUID, ref uuid.UUID) error {
	return w.update(handle, func(p *project) error {
		if _, ok := p.metadata[ref]; !ok {
			return &bridgeerrors.HandleNotFoundError{Handle: ref}
		}
		delete(p.metadata, ref)
		return nil
	})
}

func (w *workspace) AddProjectReference(handle uuid.UUID, target uuid.UUID) error {
	return w.update(handle, func(p *project) error {
		if _, ok := w.projects[target]; !ok {
			return &bridgeerrors.HandleNotFoundError{Handle: target}
		}
		p.references[target] = struct{}{}
		return nil
	})
}

func (w *workspace) RemoveProjectReference(handle uuid.UUID, target uuid.UUID) error {
	return w.update(handle, func(p *project) error {
		delete(p.references, target)
		return nil
	})
}

func (w *workspace) AddDocument(handle uuid.UUID, document uuid.UUID, path string) error {
	return w.update(handle, func(p *project) error {
		p.documents[document] = path
		return nil
	})
}

func (w *workspace) RemoveDocument(handle uuid.UUID, document uuid.UUID) error {
	return w.update(handle, func(p *project) error {
		if _, ok := p.documents[document]; !ok {
			return &bridgeerrors.HandleNotFoundError{Handle: document}
		}
		delete(p.documents, document)
		return nil
	})
}

func (w *workspace) SetCompilationOptions(handle uuid.UUID, options CompilationOptions) error {
	return w.update(handle, func(p *project) error {
		p.compilation = &options
		return nil
	})
}

func (w *workspace) SetParseOptions(handle uuid.UUID, options ParseOptions) error {
	return w.update(handle, func(p *project) error {
		options.PreprocessorSymbols = append([]string(nil), options.PreprocessorSymbols...)
		p.parse = &options
		return nil
	})
}

func (w *workspace) Snapshot() []ProjectSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	result := make([]ProjectSnapshot, 0, len(w.projects))
	for _, p := range w.projects {
		s := ProjectSnapshot{ProjectInfo: p.info}
		for _, ref := range p.metadata {
			s.MetadataReferences = append(s.MetadataReferences, ref)
		}
		sort.Slice(s.MetadataReferences, func(i, j int) bool {
			a, b := s.MetadataReferences[i], s.MetadataReferences[j]
			return a.Path+a.Name < b.Path+b.Name
		})
		for target := range p.references {
			s.ProjectReferences = append(s.ProjectReferences, target)
		}
		sort.Slice(s.ProjectReferences, func(i, j int) bool {
			return s.ProjectReferences[i].String() < s.ProjectReferences[j].String()
		})
		for _, path := range p.documents {
			s.Documents = append(s.Documents, path)
		}
		sort.Strings(s.Documents)
		if p.compilation != nil {
			c := *p.compilation
			s.CompilationOptions = &c
		}
		if p.parse != nil {
			po := *p.parse
			po.PreprocessorSymbols = append([]string(nil), po.PreprocessorSymbols...)
			s.ParseOptions = &po
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FilePath != result[j].FilePath {
			return result[i].FilePath < result[j].FilePath
		}
		return result[i].Framework < result[j].Framework
	})
	return result
}

func (w *workspace) update(handle uuid.UUID, fn func(p *project) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, ok := w.projects[handle]
	if !ok {
		return &bridgeerrors.HandleNotFoundError{Handle: handle}
	}
	return fn(p)
}
