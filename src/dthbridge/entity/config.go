package entity

import "time"

// Config keys for the typed sections below.
const (
	ConfigKeyHost     = "host"
	ConfigKeyRestore  = "restore"
	ConfigKeyProjects = "projects"
	ConfigKeyBridge   = "bridge"
)

// HostConfig describes how the compilation host is launched and connected to.
type HostConfig struct {
	// Executable is used verbatim as the host binary path.
	Executable string `yaml:"executable" validate:"required"`
	// Arguments are passed ahead of the port, parent pid and host id.
	Arguments        []string      `yaml:"arguments"`
	HandshakeTimeout time.Duration `yaml:"handshakeTimeout" validate:"gt=0"`
	PollInterval     time.Duration `yaml:"pollInterval" validate:"gt=0"`
	// RestartBurst restarts are allowed back to back, after which one more is allowed every RestartInterval.
	// Either being zero disables throttling.
	RestartBurst    int           `yaml:"restartBurst" validate:"gte=0"`
	RestartInterval time.Duration `yaml:"restartInterval" validate:"gte=0"`
}

// RestoreConfig describes the package restore tool.
type RestoreConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Executable string   `yaml:"executable" validate:"required_if=Enabled true"`
	Arguments  []string `yaml:"arguments"`
	// Timeout is the longest a restore may go without writing output before the watchdog kills it.
	Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
	WatchdogInterval time.Duration `yaml:"watchdogInterval" validate:"gt=0"`
	Retries          int           `yaml:"retries" validate:"gte=0"`
	// MaxConcurrency of zero sizes the pool to half the available CPUs.
	MaxConcurrency int `yaml:"maxConcurrency" validate:"gte=0"`
}

// ProjectsConfig describes project discovery and loading.
type ProjectsConfig struct {
	Configuration   string        `yaml:"configuration" validate:"required"`
	SourceExtension string        `yaml:"sourceExtension" validate:"required"`
	LoadTimeout     time.Duration `yaml:"loadTimeout" validate:"gt=0"`
	Debounce        time.Duration `yaml:"debounce" validate:"gt=0"`
}

// BridgeConfig describes the editor facing side of the bridge.
type BridgeConfig struct {
	// IdleTimeout is how long the bridge keeps running without a connected editor.
	IdleTimeout time.Duration `yaml:"idleTimeout" validate:"gt=0"`
}
