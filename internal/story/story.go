// Package story reads input stories and splits them into paragraphs and
// sentences.
package story

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ParagraphSeparator delimits paragraphs in input text
const ParagraphSeparator = "\n\n"

// sentence terminator followed by at least one space
var sentenceEnd = regexp.MustCompile(`[.!?][\s\p{Z}]+`)

// Story is an English input text
type Story struct {
	Name string
	Path string
	Text string
}

// Read loads the story at path. Line endings are normalised to \n and
// surrounding whitespace is trimmed.
func Read(path string) (*Story, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story file: %w", err)
	}

	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	return &Story{
		Name: Name(path),
		Path: path,
		Text: strings.TrimSpace(text),
	}, nil
}

// Name returns the story name for path: the base name without extension
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Paragraphs splits the story text into paragraphs
func (s *Story) Paragraphs() []string {
	return SplitParagraphs(s.Text)
}

// SplitParagraphs splits text on blank lines. Empty paragraphs are kept so
// that joining the result with ParagraphSeparator gives back the text.
func SplitParagraphs(text string) []string {
	return strings.Split(text, ParagraphSeparator)
}

// SplitSentences splits a paragraph after every '.', '!' or '?' that is
// followed by whitespace. The whitespace between sentences is dropped,
// everything else is kept. An empty paragraph has no sentences.
func SplitSentences(paragraph string) []string {
	text := strings.TrimSpace(paragraph)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		sentences = append(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	return append(sentences, text[start:])
}
