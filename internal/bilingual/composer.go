// Package bilingual renders an English story and its Polish translation as
// an HTML fragment of side-by-side paragraphs. Every English word is
// wrapped in a span carrying its vocabulary key and every sentence carries
// a document-wide number shared by the English and Polish columns.
package bilingual

import (
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/storysnippet/internal/story"
	"codeberg.org/snonux/storysnippet/internal/vocab"
)

// FileName is the HTML fragment written next to words.json
const FileName = "story-bilingual.html"

// ErrParagraphMismatch is returned when the two texts have a different
// number of paragraphs
var ErrParagraphMismatch = errors.New("english and polish paragraph counts differ")

// Composer builds bilingual HTML fragments
type Composer struct {
	// OnSentenceMismatch is called for every paragraph whose English and
	// Polish sentence counts differ. Numbering stays positional.
	OnSentenceMismatch func(paragraph, english, polish int)
}

// Compose renders english and polish with a default Composer
func Compose(english, polish string) (string, error) {
	return (&Composer{}).Compose(english, polish)
}

// Compose splits both texts into paragraphs and renders them
func (c *Composer) Compose(english, polish string) (string, error) {
	return c.ComposeParagraphs(story.SplitParagraphs(english), story.SplitParagraphs(polish))
}

// ComposeParagraphs renders paragraph pairs. Both slices must have the
// same length.
func (c *Composer) ComposeParagraphs(english, polish []string) (string, error) {
	if len(english) != len(polish) {
		return "", fmt.Errorf("%w: %d english, %d polish", ErrParagraphMismatch, len(english), len(polish))
	}

	lines := []string{`<div class="bilingual-container">`}
	sentence := 1

	for i := range english {
		lines = append(lines, fmt.Sprintf(`<div class="paragraph" data-paragraph="%d">`, i+1))

		enSentences := story.SplitSentences(WrapWords(english[i]))
		plSentences := story.SplitSentences(polish[i])
		if len(enSentences) != len(plSentences) && c.OnSentenceMismatch != nil {
			c.OnSentenceMismatch(i+1, len(enSentences), len(plSentences))
		}

		first := sentence

		lines = append(lines, `<div class="english-column">`)
		for _, s := range enSentences {
			lines = append(lines, fmt.Sprintf(`<div class="english-sentence" data-sentence="%d">%s</div>`, sentence, s))
			sentence++
		}
		lines = append(lines, `</div>`)

		lines = append(lines, `<div class="polish-column">`)
		for k, s := range plSentences {
			lines = append(lines, fmt.Sprintf(`<div class="polish-sentence" data-sentence="%d">%s</div>`, first+k, s))
		}
		lines = append(lines, `</div>`)

		lines = append(lines, `</div>`)
	}

	lines = append(lines, `</div>`)
	return strings.Join(lines, "\n"), nil
}

// WrapWords wraps every word of text in a lookup span and leaves all other
// characters untouched
func WrapWords(text string) string {
	return vocab.WrapWords(text, wordSpan)
}

func wordSpan(token string) string {
	return `<span class="word" data-id="` + vocab.Key(token) + `">` + token + `</span>`
}
