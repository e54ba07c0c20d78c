package factory

import (
	"fmt"

	"sparkmart-ai-be/pkg/llm"
	"sparkmart-ai-be/pkg/llm/groq"
	"sparkmart-ai-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, apiKey, baseURL string) (llm.LLMProvider, error) {
	switch providerType {
	case "groq":
		if apiKey == "" {
			return nil, fmt.Errorf("groq provider requires an API key")
		}
		return groq.NewGroqProvider(apiKey, modelName, baseURL), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
