package embeddings

import (
	"context"
	"fmt"
	"time"

	"finassist/internal/orchestrator"
	"finassist/pkg/errors"
)

// ProviderType defines supported embedding providers
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	// Future providers:
	// ProviderCohere   ProviderType = "cohere"
	// ProviderLocal    ProviderType = "local"    // ollama/llama.cpp
	// ProviderVertexAI ProviderType = "vertexai"
)

// Config holds configuration for embedding provider
type Config struct {
	Provider ProviderType
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// NewProvider creates an embedding provider based on config
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.Timeout)

	// Future providers can be added here:
	// case ProviderCohere:
	//     return NewCohereProvider(cfg.APIKey, cfg.Model, cfg.Timeout)
	// case ProviderLocal:
	//     return NewLocalProvider(cfg.Model, cfg.Timeout)

	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput,
			"unsupported embedding provider: %s", cfg.Provider)
	}
}

// MustNewProvider creates a provider or panics
func MustNewProvider(cfg Config) Provider {
	provider, err := NewProvider(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create embedding provider: %v", err))
	}
	return provider
}

// AsEmbedder adapts a Provider to the orchestrator's single-text Embedder
// capability, which has no context parameter of its own.
type AsEmbedder struct {
	Provider Provider
}

var _ orchestrator.Embedder = AsEmbedder{}

func (a AsEmbedder) Embed(text string) ([]float32, error) {
	return a.Provider.GenerateEmbedding(context.Background(), text)
}
