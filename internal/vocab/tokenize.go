package vocab

import (
	"regexp"
	"strings"
	"unicode"
)

const wordClass = `[\p{L}\p{M}\p{N}_]`

var (
	// a word, optionally joined to one more word by a straight or curly apostrophe
	wordPattern = regexp.MustCompile(wordClass + `+(?:['’]` + wordClass + `+)?`)

	// words plus every other non-space character as a token of its own
	tokenPattern = regexp.MustCompile(wordClass + `+(?:['’]` + wordClass + `+)?|[^\p{L}\p{M}\p{N}_\s]`)
)

// Tokenize returns the word tokens of text in order of appearance
func Tokenize(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

// TokenizeWithPunctuation returns word tokens and single-character
// punctuation tokens in order of appearance. Whitespace is dropped.
// The HTML composer does not use it: WrapWords rewrites word tokens in
// place and never needs the punctuation as separate tokens.
func TokenizeWithPunctuation(text string) []string {
	return tokenPattern.FindAllString(text, -1)
}

// WrapWords replaces every word token in text with wrap(token) and leaves
// all other bytes untouched.
func WrapWords(text string, wrap func(token string) string) string {
	return wordPattern.ReplaceAllStringFunc(text, wrap)
}

// Key returns the vocabulary identity of a token
func Key(token string) string {
	return strings.ToLower(token)
}

// IsWord reports whether token contains at least one word character
func IsWord(token string) bool {
	return strings.IndexFunc(token, isWordRune) >= 0
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
