package mapper

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/internal/errors"
)

// MessageToPayload decodes the payload of an inbound host message into its typed form.
// Unrecognized message types decode to entity.UnknownPayload.
func MessageToPayload(msg entity.Message) (entity.Payload, error) {
	var payload entity.Payload
	var err error
	switch msg.MessageType {
	case entity.MessageTypeProjectInformation:
		payload, err = decode[entity.ProjectInformation](msg)
	case entity.MessageTypeReferences:
		payload, err = decode[entity.References](msg)
	case entity.MessageTypeDependencies:
		payload, err = decode[entity.Dependencies](msg)
	case entity.MessageTypeCompilerOptions:
		payload, err = decode[entity.CompilerOptions](msg)
	case entity.MessageTypeSources:
		payload, err = decode[entity.Sources](msg)
	case entity.MessageTypeError:
		payload, err = decode[entity.HostError](msg)
	default:
		return entity.UnknownPayload{Type: msg.MessageType, Raw: msg.Payload}, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func decode[T entity.Payload](msg entity.Message) (T, error) {
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, &errors.PayloadDecodeError{MessageType: string(msg.MessageType), Err: err}
	}
	return payload, nil
}

// NewHostMessage builds an outbound host message for a project. A nil body produces a message without payload.
func NewHostMessage(messageType entity.MessageType, contextID int, body interface{}) (entity.Message, error) {
	msg := entity.Message{MessageType: messageType, ContextID: contextID}
	if body == nil {
		return msg, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return entity.Message{}, fmt.Errorf("encoding %s payload: %w", messageType, err)
	}
	msg.Payload = raw
	return msg, nil
}

// DependenciesToUnresolved lists the unresolved dependencies of a variant, ordered by name.
// The root dependency is the project itself and is never reported.
func DependenciesToUnresolved(deps entity.Dependencies) []entity.PackageDependency {
	var unresolved []entity.PackageDependency
	for key, dep := range deps.Dependencies {
		if dep.Resolved || key == deps.RootDependency || dep.Name == deps.RootDependency {
			continue
		}
		name := dep.Name
		if name == "" {
			name = key
		}
		unresolved = append(unresolved, entity.PackageDependency{Name: name, Version: dep.Version})
	}
	sort.Slice(unresolved, func(i, j int) bool {
		return unresolved[i].Name < unresolved[j].Name
	})
	return unresolved
}
