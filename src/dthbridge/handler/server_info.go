package handler

import (
	"fmt"
	"os"
	"strconv"

	"github.com/uber/dthbridge/src/dthbridge/internal/serverinfofile"
	"go.uber.org/config"
)

const (
	_configKeyServiceName = "service.name"

	_infoKeyServiceName = "service-name"
	_infoKeyPID         = "bridge-pid"
)

// Output the service name and process id so editors can tell which bridge wrote the Server Info file.
// The JSON-RPC address is added separately by the server once it is listening.
func outputServiceInfo(cfg config.Provider, infofile serverinfofile.ServerInfoFile) error {
	var name string
	if err := cfg.Get(_configKeyServiceName).Populate(&name); err != nil {
		return fmt.Errorf("loading service name: %w", err)
	}
	if name == "" {
		return fmt.Errorf("type error or missing field for key %q", _configKeyServiceName)
	}

	if err := infofile.UpdateField(_infoKeyServiceName, name); err != nil {
		return fmt.Errorf("outputting service name to info file: %w", err)
	}
	if err := infofile.UpdateField(_infoKeyPID, strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("outputting pid to info file: %w", err)
	}
	return nil
}
