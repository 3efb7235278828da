package embedding

import "fmt"

func NewProvider(providerType, model, baseURL, apiKey string) (EmbeddingProvider, error) {
	switch providerType {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires an api key")
		}
		return NewOpenAIProvider(baseURL, apiKey, model), nil
	case "ollama":
		return NewOllamaProvider(baseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", providerType)
	}
}
