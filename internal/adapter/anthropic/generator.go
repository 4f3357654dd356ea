// Package anthropic implements the TextGenerator boundary over the official
// Anthropic SDK. Provider-specific failures are translated into the closed
// error taxonomy here, so nothing upstream depends on SDK error types.
package anthropic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/user/pagechat-service/internal/repository"
	"github.com/user/pagechat-service/pkg/metrics"
)

// messageService is the slice of the SDK the generator uses. sdk.Client's
// Messages service satisfies it; tests substitute a fake.
type messageService interface {
	New(ctx context.Context, params sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Generator sends prompts to the Anthropic Messages API. One request per
// call, no internal retries.
type Generator struct {
	messages  messageService
	model     string
	maxTokens int64
}

// NewGenerator creates a Generator backed by the SDK.
func NewGenerator(apiKey, model string, maxTokens int64) *Generator {
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	slog.Info("content analyzer initialized", "model", model)
	return &Generator{
		messages:  &client.Messages,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Generate submits the prompt and returns the generated text, or one of the
// taxonomy errors from the repository package.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		slog.Error("provider request failed", "model", g.model, "error", err)
		metrics.AnalysisTotal.WithLabelValues("failure", "provider").Inc()
		return "", fmt.Errorf("%w: %w", repository.ErrProviderFailure, err)
	}

	text, err := translateMessage(msg)
	if err != nil {
		metrics.AnalysisTotal.WithLabelValues("failure", outcomeReason(err)).Inc()
		return "", err
	}

	metrics.AnalysisTotal.WithLabelValues("success", "").Inc()
	return text, nil
}

// translateMessage maps a provider response onto the local taxonomy. Stop
// reasons are compared as strings so the mapping stays a closed set here.
func translateMessage(msg *sdk.Message) (string, error) {
	switch string(msg.StopReason) {
	case "refusal":
		return "", repository.ErrGenerationBlocked
	case "max_tokens", "pause_turn":
		return "", repository.ErrGenerationStopped
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", repository.ErrGenerationEmpty
	}
	return text, nil
}

func outcomeReason(err error) string {
	switch err {
	case repository.ErrGenerationBlocked:
		return "blocked"
	case repository.ErrGenerationStopped:
		return "stopped"
	case repository.ErrGenerationEmpty:
		return "empty"
	}
	return "provider"
}
