package anthropic

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/pagechat-service/internal/repository"
)

type fakeMessages struct {
	msg    *sdk.Message
	err    error
	params sdk.MessageNewParams
}

func (f *fakeMessages) New(_ context.Context, params sdk.MessageNewParams, _ ...option.RequestOption) (*sdk.Message, error) {
	f.params = params
	return f.msg, f.err
}

func textMessage(stopReason string, blocks ...string) *sdk.Message {
	msg := &sdk.Message{StopReason: sdk.StopReason(stopReason)}
	for _, text := range blocks {
		msg.Content = append(msg.Content, sdk.ContentBlockUnion{Type: "text", Text: text})
	}
	return msg
}

func newTestGenerator(messages messageService) *Generator {
	return &Generator{messages: messages, model: "claude-haiku-4-5", maxTokens: 1024}
}

func TestGenerate_Success(t *testing.T) {
	fake := &fakeMessages{msg: textMessage("end_turn", "Hello, ", "world.")}
	g := newTestGenerator(fake)

	text, err := g.Generate(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello, world.", text)
}

func TestGenerate_PassesParams(t *testing.T) {
	fake := &fakeMessages{msg: textMessage("end_turn", "ok")}
	g := newTestGenerator(fake)

	_, err := g.Generate(context.Background(), "the prompt")
	require.NoError(t, err)

	assert.Equal(t, sdk.Model("claude-haiku-4-5"), fake.params.Model)
	assert.Equal(t, int64(1024), fake.params.MaxTokens)
	require.Len(t, fake.params.Messages, 1)
}

func TestGenerate_Refusal(t *testing.T) {
	fake := &fakeMessages{msg: textMessage("refusal")}
	g := newTestGenerator(fake)

	_, err := g.Generate(context.Background(), "blocked prompt")
	assert.ErrorIs(t, err, repository.ErrGenerationBlocked)
}

func TestGenerate_Truncated(t *testing.T) {
	for _, reason := range []string{"max_tokens", "pause_turn"} {
		t.Run(reason, func(t *testing.T) {
			fake := &fakeMessages{msg: textMessage(reason, "partial")}
			g := newTestGenerator(fake)

			_, err := g.Generate(context.Background(), "long prompt")
			assert.ErrorIs(t, err, repository.ErrGenerationStopped)
		})
	}
}

func TestGenerate_EmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		msg  *sdk.Message
	}{
		{"no blocks", textMessage("end_turn")},
		{"whitespace only", textMessage("end_turn", "  \n\t ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(&fakeMessages{msg: tt.msg})

			_, err := g.Generate(context.Background(), "prompt")
			assert.ErrorIs(t, err, repository.ErrGenerationEmpty)
		})
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	cause := errors.New("429 rate limited")
	g := newTestGenerator(&fakeMessages{err: cause})

	_, err := g.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, repository.ErrProviderFailure)
	assert.Contains(t, err.Error(), "429 rate limited")
}

func TestGenerate_TrimsSurroundingWhitespace(t *testing.T) {
	fake := &fakeMessages{msg: textMessage("end_turn", "\n  answer  \n")}
	g := newTestGenerator(fake)

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
}
