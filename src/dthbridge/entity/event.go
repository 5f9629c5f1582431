package entity

// EventType names a notification sent to connected editors.
type EventType string

// Editor notification methods.
const (
	EventUnresolvedDependencies EventType = "dth/unresolvedDependencies"
	EventPackageRestoreStarted  EventType = "dth/packageRestoreStarted"
	EventPackageRestoreFinished EventType = "dth/packageRestoreFinished"
	EventProjectChanged         EventType = "dth/projectChanged"
)

// Event is a notification produced by the bridge.
type Event struct {
	Type EventType
	Body interface{}
}

// PackageDependency is a name and version pair.
type PackageDependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// UnresolvedDependenciesMessage lists the dependencies the host could not resolve for a project.
type UnresolvedDependenciesMessage struct {
	FileName               string              `json:"fileName"`
	UnresolvedDependencies []PackageDependency `json:"unresolvedDependencies"`
}

// PackageRestoreMessage reports the start or completion of a restore run.
type PackageRestoreMessage struct {
	FileName  string `json:"fileName"`
	Succeeded bool   `json:"succeeded"`
}

// ProjectChangedMessage carries the current state of a project.
type ProjectChangedMessage struct {
	Project Project `json:"project"`
}

// NewUnresolvedDependenciesEvent builds an EventUnresolvedDependencies event.
func NewUnresolvedDependenciesEvent(path string, deps []PackageDependency) Event {
	return Event{
		Type: EventUnresolvedDependencies,
		Body: UnresolvedDependenciesMessage{FileName: path, UnresolvedDependencies: deps},
	}
}

// NewRestoreStartedEvent builds an EventPackageRestoreStarted event.
func NewRestoreStartedEvent(path string) Event {
	return Event{
		Type: EventPackageRestoreStarted,
		Body: PackageRestoreMessage{FileName: path},
	}
}

// NewRestoreFinishedEvent builds an EventPackageRestoreFinished event.
func NewRestoreFinishedEvent(path string, succeeded bool) Event {
	return Event{
		Type: EventPackageRestoreFinished,
		Body: PackageRestoreMessage{FileName: path, Succeeded: succeeded},
	}
}

// NewProjectChangedEvent builds an EventProjectChanged event.
func NewProjectChangedEvent(p Project) Event {
	return Event{
		Type: EventProjectChanged,
		Body: ProjectChangedMessage{Project: p},
	}
}
