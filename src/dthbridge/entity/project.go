package entity

import (
	"path/filepath"

	"github.com/gofrs/uuid"
)

const (
	// ManifestFileName is the name of a project manifest.
	ManifestFileName = "project.json"
	// LockFileName is the name of the dependency lock file written next to a manifest by restore.
	LockFileName = "project.lock.json"
	// GlobalSettingsFileName is the name of the solution level settings file listing project search paths.
	GlobalSettingsFileName = "global.json"
)

// ProjectRef identifies a tracked project.
type ProjectRef struct {
	ContextID int    `json:"contextId"`
	Path      string `json:"path"`
}

// Dir returns the directory containing the project manifest.
func (p ProjectRef) Dir() string {
	return filepath.Dir(p.Path)
}

// Project is a point in time copy of a tracked project and its framework variants.
type Project struct {
	ContextID          int                `json:"contextId"`
	Path               string             `json:"path"`
	Name               string             `json:"name"`
	Configurations     []string           `json:"configurations"`
	Commands           map[string]string  `json:"commands"`
	ProjectSearchPaths []string           `json:"projectSearchPaths"`
	GlobalJSONPath     string             `json:"globalJsonPath"`
	InitializeSent     bool               `json:"initializeSent"`
	Frameworks         []FrameworkVariant `json:"frameworks"`
}

// Ref returns the ProjectRef for the project.
func (p Project) Ref() ProjectRef {
	return ProjectRef{ContextID: p.ContextID, Path: p.Path}
}

// FrameworkVariant is a point in time copy of one target framework build of a project.
type FrameworkVariant struct {
	FrameworkData
	Handle            uuid.UUID `json:"handle"`
	Registered        bool      `json:"registered"`
	Loaded            bool      `json:"loaded"`
	FileReferences    []string  `json:"fileReferences"`
	RawReferences     []string  `json:"rawReferences"`
	ProjectReferences []string  `json:"projectReferences"`
	Dependees         []string  `json:"dependees"`
	Documents         []string  `json:"documents"`
}

// ManifestPathForLockFile returns the manifest that owns a lock file.
func ManifestPathForLockFile(lockFile string) string {
	return filepath.Join(filepath.Dir(lockFile), ManifestFileName)
}
