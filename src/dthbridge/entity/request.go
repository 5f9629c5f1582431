package entity

// Editor request methods served by the bridge in addition to the LSP lifecycle.
const (
	MethodProjects            = "dth/projects"
	MethodWorkspace           = "dth/workspace"
	MethodRestore             = "dth/restore"
	MethodChangeConfiguration = "dth/changeConfiguration"
)

// RestoreParams requests a package restore for one project.
type RestoreParams struct {
	FileName string `json:"fileName"`
}

// ChangeConfigurationParams switches the build configuration of every tracked project.
type ChangeConfigurationParams struct {
	Configuration string `json:"configuration"`
}
