package model

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Model = (*MockModel)(nil)

func collect(t *testing.T, respCh <-chan Response, errCh <-chan error) ([]Response, error) {
	t.Helper()
	var responses []Response
	for r := range respCh {
		responses = append(responses, r)
	}
	return responses, <-errCh
}

func TestMockModelCannedResponse(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("ping", "pong")

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Text: "ping"}},
	})

	responses, err := collect(t, respCh, errCh)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "pong", responses[0].Text)
	assert.Equal(t, "stop", responses[0].FinishReason)
	assert.False(t, responses[0].Partial)
}

func TestMockModelFallbackResponse(t *testing.T) {
	m := NewMockModel("test-model")

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Text: "unknown"}},
	})

	responses, err := collect(t, respCh, errCh)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Contains(t, responses[0].Text, "unknown")
}

func TestMockModelStreaming(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("ping", "pong")

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Text: "ping"}},
		Stream:   true,
	})

	responses, err := collect(t, respCh, errCh)
	require.NoError(t, err)
	require.Len(t, responses, len("pong")+1)

	var sb strings.Builder
	for _, r := range responses[:len(responses)-1] {
		assert.True(t, r.Partial)
		sb.WriteString(r.Text)
	}
	assert.Equal(t, "pong", sb.String())

	final := responses[len(responses)-1]
	assert.False(t, final.Partial)
	assert.Equal(t, "pong", final.Text)
}

func TestMockModelNoMessages(t *testing.T) {
	m := NewMockModel("test-model")

	respCh, errCh := m.Generate(context.Background(), Request{})
	responses, err := collect(t, respCh, errCh)
	assert.Empty(t, responses)
	assert.Error(t, err)
}

func TestMockModelContextCancelled(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("ping", strings.Repeat("a", 4096))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	respCh, errCh := m.Generate(ctx, Request{
		Messages: []Message{{Role: RoleUser, Text: "ping"}},
		Stream:   true,
	})

	_, err := collect(t, respCh, errCh)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockModelInfo(t *testing.T) {
	m := NewMockModel("test-model")
	info := m.Info()
	assert.Equal(t, "test-model", info.Name)
	assert.Equal(t, "mock", info.Provider)
}
