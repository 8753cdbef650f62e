// Package models lists the chat models available to the configured API
// key, so users can pick one for word lookups and translation.
package models
