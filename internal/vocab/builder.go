package vocab

import "sort"

// Build creates one empty record per unique lower-cased word in tokens,
// sorted by word. Punctuation-only tokens are ignored.
func Build(tokens []string) []Record {
	seen := make(map[string]struct{}, len(tokens))
	keys := make([]string, 0, len(tokens))

	for _, token := range tokens {
		if !IsWord(token) {
			continue
		}
		key := Key(token)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	sort.Strings(keys)

	records := make([]Record, 0, len(keys))
	for _, key := range keys {
		records = append(records, NewRecord(key))
	}
	return records
}

// BuildFromText tokenizes text and builds its vocabulary
func BuildFromText(text string) []Record {
	return Build(Tokenize(text))
}

// Merge returns the union of existing and fresh keyed by word. Existing
// records win so that enrichment already done is kept. The result is
// sorted by word.
func Merge(existing, fresh []Record) []Record {
	byKey := make(map[string]Record, len(existing)+len(fresh))
	for _, r := range fresh {
		byKey[Key(r.Word)] = r
	}
	for _, r := range existing {
		byKey[Key(r.Word)] = r
	}

	merged := make([]Record, 0, len(byKey))
	for _, r := range byKey {
		merged = append(merged, r)
	}
	Sort(merged)
	return merged
}

// Sort orders records by word
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Word < records[j].Word
	})
}
