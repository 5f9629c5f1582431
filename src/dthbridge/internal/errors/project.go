package errors

import (
	stderr "errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// ProjectNotFoundError indicates that no tracked project exists for a context id or path.
type ProjectNotFoundError struct {
	ContextID int
	Path      string
}

// Error is an implementation of the error interface.
func (n *ProjectNotFoundError) Error() string {
	if n.Path != "" {
		return fmt.Sprintf("project %q not found", n.Path)
	}
	return fmt.Sprintf("project with context id %d not found", n.ContextID)
}

// IsProjectNotFound reports whether ProjectNotFoundError is part of the error chain.
func IsProjectNotFound(e error) bool {
	var nf *ProjectNotFoundError
	return stderr.As(e, &nf)
}

// HandleNotFoundError indicates that the consuming workspace has no entry for a handle.
type HandleNotFoundError struct {
	Handle uuid.UUID
}

// Error is an implementation of the error interface.
func (n *HandleNotFoundError) Error() string {
	return fmt.Sprintf("handle %q not found", n.Handle)
}

// NotFoundHandle returns the handle and true if HandleNotFoundError is part of the error chain.
func NotFoundHandle(e error) (_ uuid.UUID, ok bool) {
	var nf *HandleNotFoundError
	if !stderr.As(e, &nf) {
		return uuid.Nil, false
	}
	return nf.Handle, true
}

// PayloadDecodeError indicates that a host message payload could not be decoded.
type PayloadDecodeError struct {
	MessageType string
	Err         error
}

// Error is an implementation of the error interface.
func (n *PayloadDecodeError) Error() string {
	return fmt.Sprintf("decoding %s payload: %v", n.MessageType, n.Err)
}

// Unwrap returns the underlying decode error.
func (n *PayloadDecodeError) Unwrap() error {
	return n.Err
}

// UnknownMessageTypeError indicates that a host message carried a type tag the bridge does not handle.
type UnknownMessageTypeError struct {
	MessageType string
}

// Error is an implementation of the error interface.
func (n *UnknownMessageTypeError) Error() string {
	return fmt.Sprintf("unknown message type %q", n.MessageType)
}
