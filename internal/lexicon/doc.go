// Package lexicon fetches dictionary information for single English words
// (part of speech, definitions, Polish translation and usage examples)
// from an OpenAI-compatible chat completion endpoint.
package lexicon
