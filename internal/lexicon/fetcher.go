package lexicon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/storysnippet/internal/vocab"
)

const (
	// DefaultModel is the chat model used when none is configured
	DefaultModel = "deepseek-chat"

	// DefaultMaxTokens bounds the size of a word description
	DefaultMaxTokens = 300

	// DefaultTimeout bounds a single lookup
	DefaultTimeout = 60 * time.Second
)

var (
	// ErrMissingAPIKey is returned when no API key was configured
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrEmptyResponse is returned when the model sent no usable content
	ErrEmptyResponse = errors.New("no word information in response")
)

// Config configures a Fetcher
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Fetcher looks up word information
type Fetcher struct {
	apiKey    string
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration

	// OnError is called for every failed lookup swallowed by EnrichWord.
	// It may be called from several goroutines at once.
	OnError func(word string, err error)
}

// NewFetcher creates a new word information fetcher
func NewFetcher(cfg Config) *Fetcher {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Fetcher{
		apiKey:    cfg.APIKey,
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
}

// Lookup asks the model to describe word. It makes exactly one request.
func (f *Fetcher) Lookup(ctx context.Context, word string) (vocab.WordInfo, error) {
	if f.apiKey == "" {
		return vocab.WordInfo{}, ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Return JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: Prompt(word),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens: f.maxTokens,
	}

	resp, err := f.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return vocab.WordInfo{}, fmt.Errorf("chat completion API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return vocab.WordInfo{}, ErrEmptyResponse
	}

	return ParseWordInfo(resp.Choices[0].Message.Content)
}

// EnrichWord is Lookup with every failure turned into an empty WordInfo.
// A bad response for one word must never abort a batch.
func (f *Fetcher) EnrichWord(ctx context.Context, word string) vocab.WordInfo {
	info, err := f.Lookup(ctx, word)
	if err != nil {
		if f.OnError != nil {
			f.OnError(word, err)
		}
		return vocab.WordInfo{Examples: vocab.Examples{}}
	}
	return info
}

// Prompt returns the user prompt for word
func Prompt(word string) string {
	return fmt.Sprintf(`Provide JSON for the English word '%s':

pos,
en_definition,
pl_definition,
pl_translation,
examples (3 short sentences)

Return JSON only.`, word)
}

// response mirrors the JSON object requested by Prompt. Some models answer
// with "example" instead of "examples".
type response struct {
	PartOfSpeech      string         `json:"pos"`
	EnglishDefinition string         `json:"en_definition"`
	PolishDefinition  string         `json:"pl_definition"`
	PolishTranslation string         `json:"pl_translation"`
	Examples          vocab.Examples `json:"examples"`
	Example           vocab.Examples `json:"example"`
}

// ParseWordInfo decodes the model's JSON answer. Markdown code fences
// around the object are tolerated.
func ParseWordInfo(content string) (vocab.WordInfo, error) {
	content = stripCodeFence(content)
	if content == "" {
		return vocab.WordInfo{}, ErrEmptyResponse
	}

	var r response
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return vocab.WordInfo{}, fmt.Errorf("malformed word JSON: %w", err)
	}

	examples := r.Examples
	if len(examples) == 0 {
		examples = r.Example
	}
	if examples == nil {
		examples = vocab.Examples{}
	}

	info := vocab.WordInfo{
		PartOfSpeech:      strings.TrimSpace(r.PartOfSpeech),
		PolishTranslation: strings.TrimSpace(r.PolishTranslation),
		EnglishDefinition: strings.TrimSpace(r.EnglishDefinition),
		PolishDefinition:  strings.TrimSpace(r.PolishDefinition),
		Examples:          examples,
	}
	if info.IsEmpty() {
		return vocab.WordInfo{}, ErrEmptyResponse
	}
	return info, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
