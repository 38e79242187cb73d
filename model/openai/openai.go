// Package openai implements model.Model on the OpenAI Chat Completions API.
// Classification and composition are single non-streaming completions; the
// routing-tag contract shared with the other vendor adapters lives in the
// parent model package.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/campusops/adminflow/core"
	"github.com/campusops/adminflow/model"
)

// Options configure the OpenAI model adapter. Fields mirror a minimal
// subset of Chat Completion parameters; extend via functional options
// without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Model wraps the OpenAI Chat Completions API behind model.Model.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client.
func NewModel(optFns ...func(o *Options)) *Model {
	client := openai.NewClient()
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.2,
		MaxCompletionTokens: 2048,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Classify implements model.Classifier via the shared routing-tag prompt.
func (m *Model) Classify(ctx context.Context, history []core.Message, message string) (model.Classification, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(model.ClassificationPrompt),
	}
	for _, h := range history {
		switch h.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(h.Text))
		default:
			messages = append(messages, openai.UserMessage(h.Text))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	reply, err := m.complete(ctx, messages)
	if err != nil {
		return model.Classification{}, err
	}
	return model.ParseRouting(reply), nil
}

// Compose implements model.Composer with a purpose-specific system prompt.
func (m *Model) Compose(ctx context.Context, req model.ComposeRequest) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(model.ComposePrompt(req)),
		openai.UserMessage(req.Instruction),
	}
	return m.complete(ctx, messages)
}

func (m *Model) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               m.opts.Model,
		Messages:            messages,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: empty choice list")
	}
	return resp.Choices[0].Message.Content, nil
}
