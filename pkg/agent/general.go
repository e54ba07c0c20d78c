package agent

import (
	"context"
	"log"
	"strings"

	"sparkmart-ai-be/internal/constant"
	"sparkmart-ai-be/pkg/llm"
)

// GeneralAgent answers greetings, store questions and anything the other
// agents don't cover.
type GeneralAgent struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGeneralAgent(llmProvider llm.LLMProvider, logger *log.Logger) *GeneralAgent {
	return &GeneralAgent{llmProvider: llmProvider, logger: logger}
}

func (a *GeneralAgent) Handle(ctx context.Context, message string, history []llm.Message) string {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: constant.GeneralQueryPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: message})

	response, err := a.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.7))
	if err != nil {
		a.logger.Printf("[GENERAL_AGENT] Error: %v", err)
		return constant.GenericAgentApology
	}

	if strings.TrimSpace(response) == "" {
		return constant.EmptyResponseFallback
	}
	return strings.TrimSpace(response)
}
