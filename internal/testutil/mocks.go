package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/storysnippet/internal/vocab"
)

// ChatHandler answers one chat completion request with the assistant
// content and an HTTP status. Any status other than 200 is sent as an
// API error.
type ChatHandler func(req openai.ChatCompletionRequest) (content string, status int)

// ChatServer is a fake OpenAI-compatible endpoint serving
// /chat/completions and /models
type ChatServer struct {
	*httptest.Server

	Models []string

	mu       sync.Mutex
	handler  ChatHandler
	requests []openai.ChatCompletionRequest
	auth     []string
}

// NewChatServer starts a fake chat server that is closed with the test
func NewChatServer(t *testing.T, handler ChatHandler) *ChatServer {
	t.Helper()

	s := &ChatServer{handler: handler}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *ChatServer) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/models"):
		list := openai.ModelsList{}
		for _, id := range s.Models {
			list.Models = append(list.Models, openai.Model{ID: id, Object: "model"})
		}
		_ = json.NewEncoder(w).Encode(list)

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/chat/completions"):
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.auth = append(s.auth, r.Header.Get("Authorization"))
		s.mu.Unlock()

		content, status := s.handler(req)
		if status != http.StatusOK {
			writeAPIError(w, status, content)
			return
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    openai.ChatMessageRoleAssistant,
						Content: content,
					},
					FinishReason: openai.FinishReasonStop,
				},
			},
		})

	default:
		writeAPIError(w, http.StatusNotFound, "not found")
	}
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    "test_error",
		},
	})
}

// Calls returns the number of chat completion requests received
func (s *ChatServer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of all chat completion requests received
func (s *ChatServer) Requests() []openai.ChatCompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), s.requests...)
}

// AuthHeaders returns the Authorization header of every request
func (s *ChatServer) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.auth...)
}

// UserContent returns the content of the last user message in req
func UserContent(req openai.ChatCompletionRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == openai.ChatMessageRoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}

// SystemContent returns the content of the first system message in req
func SystemContent(req openai.ChatCompletionRequest) string {
	for _, m := range req.Messages {
		if m.Role == openai.ChatMessageRoleSystem {
			return m.Content
		}
	}
	return ""
}

// MockEnricher returns canned word information
type MockEnricher struct {
	Infos  map[string]vocab.WordInfo
	Panics map[string]bool

	mu    sync.Mutex
	calls []string
}

// EnrichWord returns Infos[word], an empty WordInfo for unknown words, and
// panics for words listed in Panics
func (m *MockEnricher) EnrichWord(ctx context.Context, word string) vocab.WordInfo {
	m.mu.Lock()
	m.calls = append(m.calls, word)
	m.mu.Unlock()

	if m.Panics[word] {
		panic("mock enricher failure for " + word)
	}
	return m.Infos[word]
}

// Calls returns the words passed to EnrichWord
func (m *MockEnricher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
