package errors

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsNotConnected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "sentinel",
			err:  ErrNotConnected,
			want: true,
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("sending FilesChanged: %w", ErrNotConnected),
			want: true,
		},
		{
			name: "other",
			err:  New("other"),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsNotConnected(tt.err))
		})
	}
}

func TestProjectNotFound(t *testing.T) {
	assert.Equal(t, `project "/src/a/project.json" not found`, (&ProjectNotFoundError{Path: "/src/a/project.json"}).Error())
	assert.Equal(t, "project with context id 4 not found", (&ProjectNotFoundError{ContextID: 4}).Error())
	assert.True(t, IsProjectNotFound(fmt.Errorf("apply: %w", &ProjectNotFoundError{ContextID: 4})))
	assert.False(t, IsProjectNotFound(ErrStopped))
}

func TestNotFoundHandle(t *testing.T) {
	id := uuid.Must(uuid.FromString("4d8c6b36-4e9b-4469-8a05-2c60b9671590"))
	err := &HandleNotFoundError{Handle: id}
	assert.Equal(t, `handle "4d8c6b36-4e9b-4469-8a05-2c60b9671590" not found`, err.Error())

	got, ok := NotFoundHandle(fmt.Errorf("remove: %w", err))
	assert.True(t, ok)
	assert.Equal(t, id, got)

	got, ok = NotFoundHandle(New("err"))
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, got)
}

func TestPayloadDecodeError(t *testing.T) {
	var syntaxErr *json.SyntaxError
	inner := json.Unmarshal([]byte("{"), &struct{}{})
	err := &PayloadDecodeError{MessageType: "Sources", Err: inner}
	assert.Contains(t, err.Error(), "decoding Sources payload")
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestNotFoundMessages(t *testing.T) {
	id := uuid.Must(uuid.FromString("4d8c6b36-4e9b-4469-8a05-2c60b9671590"))
	assert.Equal(t, `UUID "4d8c6b36-4e9b-4469-8a05-2c60b9671590" not found`, (&UUIDNotFoundError{UUID: id}).Error())
	assert.Equal(t, "no session found in context", (&NoSessionFoundError{}).Error())
}

func TestUnknownMessageType(t *testing.T) {
	assert.Equal(t, `unknown message type "Diagnostics"`, (&UnknownMessageTypeError{MessageType: "Diagnostics"}).Error())
}
