// Package ai adapts the OpenAI SDK to the orchestrator's narrow
// LanguageModel and Translator collaborator interfaces.
package ai

import (
	"context"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
	"finassist/pkg/logger"
)

// OpenAIModel implements orchestrator.LanguageModel and
// orchestrator.Translator using the official OpenAI Go SDK's chat
// completions endpoint.
type OpenAIModel struct {
	client  openai.Client
	model   openai.ChatModel
	timeout time.Duration
	log     *logger.Logger
}

// NewOpenAIModel constructs a chat-completions-backed language model. An
// empty model name defaults to gpt-4o-mini.
func NewOpenAIModel(apiKey string, model string, timeout time.Duration) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "openai API key is required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIModel{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   openai.ChatModel(model),
		timeout: timeout,
		log:     logger.Get().With("component", "openai_model", "model", model),
	}, nil
}

var _ orchestrator.LanguageModel = (*OpenAIModel)(nil)
var _ orchestrator.Translator = (*OpenAIModel)(nil)

// Complete sends a single system/user turn and returns the assistant's
// text, satisfying orchestrator.LanguageModel.
func (m *OpenAIModel) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: m.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(temperature),
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(errors.ErrTransientExternal, err.Error())
	}
	if len(resp.Choices) == 0 {
		return "", errors.Wrap(errors.ErrPermanentExternal, "openai returned no choices")
	}

	m.log.Debugf("chat completion: prompt_tokens=%d completion_tokens=%d",
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}

// Translate asks the model to render text in targetLang, satisfying
// orchestrator.Translator.
func (m *OpenAIModel) Translate(ctx context.Context, text string, targetLang string) (string, error) {
	system := "You are a translator. Translate the user's text to " + targetLang + ". Reply with only the translation."
	return m.Complete(ctx, system, text, 0, 0)
}
