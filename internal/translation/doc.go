// Package translation translates English story paragraphs to Polish using
// an OpenAI-compatible chat completion endpoint. Paragraphs are translated
// one after another; a failed paragraph falls back to its English text.
package translation
