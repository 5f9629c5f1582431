package entity

import (
	"encoding/json"
)

// MessageType tags a message exchanged with the compilation host.
type MessageType string

// Messages received from the compilation host.
const (
	MessageTypeProjectInformation MessageType = "ProjectInformation"
	MessageTypeReferences         MessageType = "References"
	MessageTypeDependencies       MessageType = "Dependencies"
	MessageTypeCompilerOptions    MessageType = "CompilerOptions"
	MessageTypeSources            MessageType = "Sources"
	MessageTypeError              MessageType = "Error"
)

// Messages sent to the compilation host.
const (
	MessageTypeInitialize          MessageType = "Initialize"
	MessageTypeChangeConfiguration MessageType = "ChangeConfiguration"
	MessageTypeFilesChanged        MessageType = "FilesChanged"
	MessageTypeRefreshDependencies MessageType = "RefreshDependencies"
	MessageTypeRestoreComplete     MessageType = "RestoreComplete"
)

// Message is the envelope exchanged with the compilation host in both directions.
// The payload is decoded once, at the boundary, into one of the Payload types.
type Message struct {
	HostID      string          `json:"HostId"`
	MessageType MessageType     `json:"MessageType"`
	ContextID   int             `json:"ContextId"`
	Payload     json.RawMessage `json:"Payload,omitempty"`
}

// Payload is the closed set of decoded inbound message bodies.
type Payload interface {
	messageType() MessageType
}

// FrameworkData identifies one target framework of a project.
type FrameworkData struct {
	FrameworkName string `json:"FrameworkName"`
	FriendlyName  string `json:"FriendlyName"`
	ShortName     string `json:"ShortName"`
}

// ProjectInformation carries the project metadata reported by the host.
type ProjectInformation struct {
	Name               string            `json:"Name"`
	Frameworks         []FrameworkData   `json:"Frameworks"`
	Configurations     []string          `json:"Configurations"`
	Commands           map[string]string `json:"Commands"`
	ProjectSearchPaths []string          `json:"ProjectSearchPaths"`
	GlobalJSONPath     string            `json:"GlobalJsonPath"`
}

// ProjectReference names another project referenced by one framework variant.
type ProjectReference struct {
	Name      string        `json:"Name"`
	Path      string        `json:"Path"`
	Framework FrameworkData `json:"Framework"`
}

// References carries the complete reference set of one framework variant.
type References struct {
	Framework         FrameworkData      `json:"Framework"`
	FileReferences    []string           `json:"FileReferences"`
	RawReferences     map[string][]byte  `json:"RawReferences"`
	ProjectReferences []ProjectReference `json:"ProjectReferences"`
}

// DependencyDescription describes one package dependency of a framework variant.
type DependencyDescription struct {
	Name     string `json:"Name"`
	Version  string `json:"Version"`
	Path     string `json:"Path"`
	Type     string `json:"Type"`
	Resolved bool   `json:"Resolved"`
}

// Dependencies carries the dependency graph of one framework variant.
type Dependencies struct {
	Framework      FrameworkData                    `json:"Framework"`
	RootDependency string                           `json:"RootDependency"`
	Dependencies   map[string]DependencyDescription `json:"Dependencies"`
}

// CompilerOptions carries the compilation settings of one framework variant.
type CompilerOptions struct {
	Framework        FrameworkData `json:"Framework"`
	Defines          []string      `json:"Defines"`
	LanguageVersion  string        `json:"LanguageVersion"`
	AllowUnsafe      bool          `json:"AllowUnsafe"`
	Optimize         bool          `json:"Optimize"`
	WarningsAsErrors bool          `json:"WarningsAsErrors"`
	EmitEntryPoint   bool          `json:"EmitEntryPoint"`
	Platform         string        `json:"Platform"`
}

// Sources carries the full source file list of one framework variant.
type Sources struct {
	Framework FrameworkData `json:"Framework"`
	Files     []string      `json:"Files"`
}

// HostError is an error reported by the host for a project.
type HostError struct {
	Message string `json:"Message"`
	Path    string `json:"Path"`
	Line    int    `json:"Line"`
	Column  int    `json:"Column"`
}

// UnknownPayload is the fallback for message types the bridge does not recognize.
type UnknownPayload struct {
	Type MessageType
	Raw  json.RawMessage
}

func (ProjectInformation) messageType() MessageType { return MessageTypeProjectInformation }
func (References) messageType() MessageType         { return MessageTypeReferences }
func (Dependencies) messageType() MessageType       { return MessageTypeDependencies }
func (CompilerOptions) messageType() MessageType    { return MessageTypeCompilerOptions }
func (Sources) messageType() MessageType            { return MessageTypeSources }
func (HostError) messageType() MessageType          { return MessageTypeError }
func (u UnknownPayload) messageType() MessageType   { return u.Type }

// PayloadType returns the message type tag a decoded payload was read from.
func PayloadType(p Payload) MessageType {
	return p.messageType()
}

// InitializeRequest is the payload of an Initialize message.
type InitializeRequest struct {
	ProjectFolder string `json:"ProjectFolder"`
	Configuration string `json:"Configuration"`
}

// ChangeConfigurationRequest is the payload of a ChangeConfiguration message.
type ChangeConfigurationRequest struct {
	Configuration string `json:"Configuration"`
}
