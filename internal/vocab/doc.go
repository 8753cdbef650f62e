// Package vocab extracts vocabulary from English text. It tokenizes
// stories, builds the sorted set of unique word records and persists
// them as words.json.
package vocab
