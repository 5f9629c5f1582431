package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// ErrNotConnected reports that no connection to the compilation host is open.
	ErrNotConnected = New("not connected to compilation host")
	// ErrStopped reports that the component has been stopped and accepts no further work.
	ErrStopped = New("stopped")
	// ErrNoWorkspaceRoot reports that an initialize request did not carry a usable root.
	ErrNoWorkspaceRoot = New("workspace root is required")
)

// IsNotConnected reports whether the error is caused by a missing host connection.
func IsNotConnected(e error) bool {
	return stderr.Is(e, ErrNotConnected)
}
