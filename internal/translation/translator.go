package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

const (
	// DefaultModel is the chat model used when none is configured
	DefaultModel = "deepseek-chat"

	// DefaultMaxTokens bounds the size of one translated paragraph
	DefaultMaxTokens = 1000

	// DefaultTimeout bounds a single paragraph translation
	DefaultTimeout = 60 * time.Second

	// DefaultBreakerThreshold is the number of consecutive failures after
	// which the remaining paragraphs fall back without calling the API
	DefaultBreakerThreshold = 5

	systemPrompt = "Translate to Polish. Keep the line breaks of the text exactly as they are and answer with the translation only."
)

// ErrMissingAPIKey is returned when no API key was configured
var ErrMissingAPIKey = errors.New("API key not found")

// Config configures a Translator
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration

	// BreakerThreshold is the number of consecutive failures that opens
	// the circuit. Negative disables the breaker, zero means default.
	BreakerThreshold int
}

// Translator handles English to Polish paragraph translation
type Translator struct {
	apiKey    string
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	breaker   *gobreaker.CircuitBreaker
	cache     *TranslationCache

	// OnError is called for every paragraph that fell back to English
	OnError func(index int, err error)

	// OnProgress is called after every paragraph
	OnProgress func(done, total int)
}

// NewTranslator creates a new translator instance
func NewTranslator(cfg Config) *Translator {
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
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = DefaultBreakerThreshold
	}

	t := &Translator{
		apiKey:    cfg.APIKey,
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		cache:     NewTranslationCache(),
	}

	if cfg.BreakerThreshold > 0 {
		threshold := uint32(cfg.BreakerThreshold)
		t.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "translation",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		})
	}

	return t
}

// TranslateParagraph translates one paragraph to Polish. The answer is
// returned as sent, without surrounding whitespace.
func (t *Translator) TranslateParagraph(ctx context.Context, paragraph string) (string, error) {
	if strings.TrimSpace(paragraph) == "" {
		return paragraph, nil
	}

	if translated, ok := t.cache.Get(paragraph); ok {
		return translated, nil
	}

	if t.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	call := func() (interface{}, error) {
		return t.complete(ctx, paragraph)
	}

	var (
		result interface{}
		err    error
	)
	if t.breaker != nil {
		result, err = t.breaker.Execute(call)
	} else {
		result, err = call()
	}
	if err != nil {
		return "", err
	}

	translated := result.(string)
	t.cache.Add(paragraph, translated)
	return translated, nil
}

func (t *Translator) complete(ctx context.Context, paragraph string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: paragraph,
			},
		},
		MaxTokens: t.maxTokens,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	translation := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translation == "" {
		return "", fmt.Errorf("empty translation returned")
	}
	return translation, nil
}

// TranslateParagraphs translates paragraphs in order, one request at a
// time. The result has the same length as the input; a paragraph that
// cannot be translated is returned unchanged. Once ctx is done no further
// paragraph is translated and ctx's error is returned instead.
func (t *Translator) TranslateParagraphs(ctx context.Context, paragraphs []string) ([]string, error) {
	translated := make([]string, len(paragraphs))

	for i, paragraph := range paragraphs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := t.TranslateParagraph(ctx, paragraph)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if t.OnError != nil {
				t.OnError(i, err)
			}
			text = paragraph
		}
		translated[i] = text

		if t.OnProgress != nil {
			t.OnProgress(i+1, len(paragraphs))
		}
	}

	return translated, nil
}

// TranslationCache stores paragraph translations in memory so repeated
// paragraphs are translated once
type TranslationCache struct {
	translations *gocache.Cache
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: gocache.New(gocache.NoExpiration, 0),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(paragraph, translation string) {
	tc.translations.Set(paragraph, translation, gocache.NoExpiration)
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(paragraph string) (string, bool) {
	v, ok := tc.translations.Get(paragraph)
	if !ok {
		return "", false
	}
	return v.(string), true
}
