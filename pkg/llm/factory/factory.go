package factory

import (
	"fmt"

	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/llm"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/llm/ollama"
	"github.com/Alpha-Bytes-Department/daissy-ai/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an api key")
		}
		return openai.NewOpenAIProvider(baseURL, apiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
