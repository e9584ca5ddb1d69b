package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/pemistahl/lingua-go"
	openai "github.com/sashabaranov/go-openai"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectLanguage guesses the transcript language. The cloud backend does not
// report one, so this fills the gap; the detector is expensive to build and
// shared across runs.
func DetectLanguage(text string) string {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build()
	})
	lang, ok := detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return lang.String()
}

// OpenAISummarizer produces a short transcript summary via chat completion.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

func NewOpenAISummarizer(apiKey, model string) *OpenAISummarizer {
	return &OpenAISummarizer{client: openai.NewClient(apiKey), model: model}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text, language string) (string, error) {
	system := "You are a helpful assistant that summarizes video transcripts concisely while retaining key information."
	if language != "" {
		system = fmt.Sprintf("%s Always respond in %s.", system, language)
	}
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Summarize the following video transcript in a short paragraph:\n\n%s", text)},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarize: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
