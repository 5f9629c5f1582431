package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	tally "github.com/uber-go/tally"
	"github.com/uber/dthbridge/src/dthbridge/factory"
	"go.lsp.dev/jsonrpc2"
)

func TestHandleReq(t *testing.T) {
	ctx := context.Background()
	testScope := tally.NewTestScope("", nil)
	m := jsonRPCRouter{stats: testScope}

	request, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), "sampleMethod", []string{"val1", "val2"})
	err := m.HandleReq(ctx, newMockReplier(), request)
	assert.ErrorIs(t, err, jsonrpc2.ErrMethodNotFound)
	assert.EqualValues(t, 1, testScope.Snapshot().Counters()["unknown_method+method=sampleMethod"].Value())
}

func TestUUID(t *testing.T) {
	sampleUUID := factory.UUID()
	m := jsonRPCRouter{uuid: sampleUUID}
	assert.Equal(t, sampleUUID, m.UUID())
}
