package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainAppliesMiddlewaresOutermostFirst(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next Client) Client {
			return WrapClient(
				func(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
					order = append(order, name)
					return next.Complete(ctx, req)
				},
				next.ModelName,
			)
		}
	}

	mock := NewMockClient(MockResponse("done"))
	client := Chain(mock, tag("outer"), tag("inner"))

	_, err := client.Complete(context.Background(), NewCompletionRequest([]CompletionMessage{NewUserMessage("hi")}))
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, "mock-model", client.ModelName())
}

func TestChainPreservesResponseFields(t *testing.T) {
	base := WrapClient(
		func(_ context.Context, _ CompletionRequest) (CompletionResponse, error) {
			return CompletionResponse{Content: "answer text", StopReason: "end_turn"}, nil
		},
		func() string { return "base-model" },
	)
	passthrough := func(next Client) Client { return next }

	resp, err := Chain(base, passthrough).Complete(context.Background(),
		NewCompletionRequest([]CompletionMessage{NewUserMessage("hi")}))
	require.NoError(t, err)
	assert.Equal(t, "answer text", resp.Content)
	assert.Equal(t, "end_turn", resp.StopReason)
}
