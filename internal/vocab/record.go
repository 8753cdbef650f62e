package vocab

import (
	"encoding/json"
	"fmt"
)

// Examples holds usage sentences for a word. It decodes from either a JSON
// string or a JSON array of strings and always encodes as an array.
type Examples []string

// UnmarshalJSON accepts "sentence" as well as ["sentence", ...]
func (e *Examples) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		*e = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("examples must be a string or a list of strings: %w", err)
	}
	if single == "" {
		*e = Examples{}
		return nil
	}
	*e = Examples{single}
	return nil
}

// MarshalJSON encodes nil as an empty array
func (e Examples) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(e))
}

// WordInfo is the enrichment payload for a single word
type WordInfo struct {
	PartOfSpeech      string   `json:"pos"`
	PolishTranslation string   `json:"pl_translation"`
	EnglishDefinition string   `json:"en_definition"`
	PolishDefinition  string   `json:"pl_definition"`
	Examples          Examples `json:"examples"`
}

// IsEmpty reports whether no field carries any data
func (w WordInfo) IsEmpty() bool {
	return w.PartOfSpeech == "" &&
		w.PolishTranslation == "" &&
		w.EnglishDefinition == "" &&
		w.PolishDefinition == "" &&
		len(w.Examples) == 0
}

// Record is one words.json entry. ID and Word both hold the lower-cased
// word form, which is the record identity.
type Record struct {
	ID   string `json:"id"`
	Word string `json:"word"`
	WordInfo
}

// NewRecord creates an empty record for the given word
func NewRecord(word string) Record {
	key := Key(word)
	return Record{
		ID:       key,
		Word:     key,
		WordInfo: WordInfo{Examples: Examples{}},
	}
}

// Apply replaces the enrichment fields with info
func (r *Record) Apply(info WordInfo) {
	if info.Examples == nil {
		info.Examples = Examples{}
	}
	r.WordInfo = info
}

// Enriched reports whether the record already has an English definition.
// Records without one are picked up again on the next run.
func (r Record) Enriched() bool {
	return r.EnglishDefinition != ""
}
