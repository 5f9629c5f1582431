package entity

import (
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

type keyType string

// SessionContextKey indicates the key to be used to identify the session UUID in the context.
const SessionContextKey keyType = "SessionUUID"

// Session is one connected editor.
type Session struct {
	UUID             uuid.UUID                  `json:"uuid"`
	Conn             *jsonrpc2.Conn             `json:"-"`
	InitializeParams *protocol.InitializeParams `json:"-"`
	WorkspaceRoot    string                     `json:"workspaceRoot"`
}
