package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// FileName is the vocabulary file written next to the bilingual HTML
const FileName = "words.json"

// Marshal encodes records as an indented JSON array sorted by word.
// Non-ASCII characters and HTML-sensitive characters are written as is.
func Marshal(records []Record) ([]byte, error) {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	Sort(sorted)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sorted); err != nil {
		return nil, fmt.Errorf("failed to encode vocabulary: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a words.json document. Word and id are both set to the
// lower-cased word, taken from id when word is missing.
func Unmarshal(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}

	for i := range records {
		word := records[i].Word
		if word == "" {
			word = records[i].ID
		}
		records[i].Word = Key(word)
		records[i].ID = records[i].Word
		if records[i].Examples == nil {
			records[i].Examples = Examples{}
		}
	}
	return records, nil
}

// Save writes records to path
func Save(path string, records []Record) error {
	data, err := Marshal(records)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write vocabulary file: %w", err)
	}
	return nil
}

// Load reads records from path
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	return Unmarshal(data)
}
