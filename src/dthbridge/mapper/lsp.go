package mapper

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/internal/errors"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// RequestToInitializeParams maps the parameters from a jsconrpc2.Request into protocol.InitializeParams.
func RequestToInitializeParams(req jsonrpc2.Request) (*protocol.InitializeParams, error) {
	params := protocol.InitializeParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToInitializedParams maps the parameters from a jsconrpc2.Request into protocol.InitializedParams.
func RequestToInitializedParams(req jsonrpc2.Request) (*protocol.InitializedParams, error) {
	params := protocol.InitializedParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToDidChangeWatchedFilesParams maps the parameters from a jsconrpc2.Request into protocol.DidChangeWatchedFilesParams.
func RequestToDidChangeWatchedFilesParams(req jsonrpc2.Request) (*protocol.DidChangeWatchedFilesParams, error) {
	params := protocol.DidChangeWatchedFilesParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToRestoreParams maps the parameters from a jsconrpc2.Request into entity.RestoreParams.
func RequestToRestoreParams(req jsonrpc2.Request) (*entity.RestoreParams, error) {
	params := entity.RestoreParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if params.FileName == "" {
		return nil, fmt.Errorf("%w: fileName is required", jsonrpc2.ErrInvalidParams)
	}
	return &params, nil
}

// RequestToChangeConfigurationParams maps the parameters from a jsconrpc2.Request into entity.ChangeConfigurationParams.
func RequestToChangeConfigurationParams(req jsonrpc2.Request) (*entity.ChangeConfigurationParams, error) {
	params := entity.ChangeConfigurationParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if params.Configuration == "" {
		return nil, fmt.Errorf("%w: configuration is required", jsonrpc2.ErrInvalidParams)
	}
	return &params, nil
}

// InitializeParamsToWorkspaceRoot returns the directory the editor opened.
// The first workspace folder wins, then the root URI, then the deprecated root path.
func InitializeParamsToWorkspaceRoot(params *protocol.InitializeParams) (string, error) {
	if params == nil {
		return "", errors.ErrNoWorkspaceRoot
	}
	if len(params.WorkspaceFolders) > 0 && params.WorkspaceFolders[0].URI != "" {
		return uriToPath(uri.URI(params.WorkspaceFolders[0].URI))
	}
	if params.RootURI != "" {
		return uriToPath(params.RootURI)
	}
	if params.RootPath != "" {
		return filepath.Clean(params.RootPath), nil
	}
	return "", errors.ErrNoWorkspaceRoot
}

// FileEventToPath returns the local path of a watched file event.
func FileEventToPath(event *protocol.FileEvent) (string, error) {
	return uriToPath(event.URI)
}

// PathToURI returns the file URI for a local path.
func PathToURI(path string) uri.URI {
	return uri.File(path)
}

func uriToPath(u uri.URI) (string, error) {
	if !strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return "", fmt.Errorf("%w: %q is not a file uri", jsonrpc2.ErrInvalidParams, u)
	}
	return filepath.Clean(u.Filename()), nil
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err)
}
