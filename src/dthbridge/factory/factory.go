// Package factory builds values used across the bridge and its tests.
package factory

import (
	"encoding/json"

	"github.com/gofrs/uuid"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"go.lsp.dev/jsonrpc2"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// JSONRPCRequest is a user-defined factory for a JSON-RPC request containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// Framework returns framework data for a short framework name such as "dnx451".
func Framework(shortName string) entity.FrameworkData {
	return entity.FrameworkData{
		FrameworkName: "DNX,Version=" + shortName,
		FriendlyName:  shortName,
		ShortName:     shortName,
	}
}

// HostMessage builds an inbound host message whose payload is the JSON encoding of body.
func HostMessage(messageType entity.MessageType, contextID int, body interface{}) entity.Message {
	raw, _ := json.Marshal(body)
	return entity.Message{
		HostID:      "host",
		MessageType: messageType,
		ContextID:   contextID,
		Payload:     raw,
	}
}

// ProjectInformation returns a ProjectInformation payload listing the given frameworks.
func ProjectInformation(name string, frameworks ...entity.FrameworkData) entity.ProjectInformation {
	return entity.ProjectInformation{
		Name:           name,
		Frameworks:     frameworks,
		Configurations: []string{"Debug", "Release"},
		Commands:       map[string]string{},
	}
}
