// Package processor turns one story file into its study artifacts. It
// builds and enriches the vocabulary, translates the story paragraph by
// paragraph and composes the bilingual HTML, coordinating the lexicon,
// enrich, translation and bilingual packages.
package processor
