package services

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIService wraps the OpenAI client. If client is nil, drafting is disabled.
type OpenAIService struct {
	client *openai.Client
}

// NewOpenAIService creates the service. Pass an empty apiKey to disable calls.
func NewOpenAIService(apiKey string) *OpenAIService {
	if apiKey == "" {
		return &OpenAIService{client: nil}
	}
	c := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIService{client: &c}
}

// Enabled reports whether drafting is available.
func (s *OpenAIService) Enabled() bool { return s.client != nil }

// DraftScopeDocument generates a first-pass scope-of-work document in
// markdown from a service description. Callers upload the result as the
// scope's initial version; it is never written to storage here.
func (s *OpenAIService) DraftScopeDocument(
	ctx context.Context,
	serviceName string,
	propertyType string,
	requirements string,
) (string, error) {

	if s.client == nil {
		return "", fmt.Errorf("openai: drafting is disabled")
	}

	prompt := fmt.Sprintf(`Draft a scope of work document in markdown for a property-services contract.

Service: %s
Property type: %s
Requirements:
%s

Structure it with these sections: Overview, Scope of Services, Service Frequency, Vendor Responsibilities, Exclusions, Term and Termination.
Keep it factual and contract-ready; do not invent pricing.`, serviceName, propertyType, requirements)

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModelGPT4oMini,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a procurement specialist writing scope-of-work documents for commercial property services."),
			openai.UserMessage(prompt),
		},
	}

	resp, err := s.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
