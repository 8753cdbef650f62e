package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister for the API at baseURL
func NewLister(apiKey, baseURL string) *Lister {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}

	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// ListAvailableModels prints the available models to w, chat models first
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return fmt.Errorf("API key not found. Set DEEPSEEK_API_KEY environment variable or configure llm.api_key in .storysnippet.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	chatModels, otherModels := Categorize(models.Models)

	fmt.Fprintln(w, "Available Models:")
	fmt.Fprintln(w, "\nChat Models (for word lookups and translation):")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	}
	for _, model := range chatModels {
		fmt.Fprintf(w, "  %s\n", model)
	}

	if len(otherModels) > 0 {
		fmt.Fprintln(w, "\nOther Models:")
		for _, model := range otherModels {
			fmt.Fprintf(w, "  %s\n", model)
		}
	}

	return nil
}

// Categorize splits model IDs into sorted chat and non-chat lists
func Categorize(models []openai.Model) (chat, other []string) {
	for _, model := range models {
		if isChatModel(model.ID) {
			chat = append(chat, model.ID)
		} else {
			other = append(other, model.ID)
		}
	}
	sort.Strings(chat)
	sort.Strings(other)
	return chat, other
}

func isChatModel(id string) bool {
	for _, marker := range []string{"chat", "gpt", "reasoner", "o1", "o3", "o4"} {
		if strings.Contains(id, marker) {
			return !strings.Contains(id, "tts") && !strings.Contains(id, "audio") && !strings.Contains(id, "image")
		}
	}
	return false
}
