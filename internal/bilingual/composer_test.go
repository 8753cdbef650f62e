package bilingual

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	englishSentenceRE = regexp.MustCompile(`<div class="english-sentence" data-sentence="(\d+)">`)
	polishSentenceRE  = regexp.MustCompile(`<div class="polish-sentence" data-sentence="(\d+)">`)
	paragraphRE       = regexp.MustCompile(`<div class="paragraph" data-paragraph="(\d+)">`)
	tagRE             = regexp.MustCompile(`<[^>]*>`)
)

func numbers(re *regexp.Regexp, html string) []int {
	var out []int
	for _, m := range re.FindAllStringSubmatch(html, -1) {
		n, _ := strconv.Atoi(m[1])
		out = append(out, n)
	}
	return out
}

func nonSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestCompose_Scenario(t *testing.T) {
	html, err := Compose("Hello world. It runs.\n\nNext one.", "Witaj świecie. To działa.\n\nNastępny.")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, numbers(paragraphRE, html))
	assert.Equal(t, []int{1, 2, 3}, numbers(englishSentenceRE, html))
	assert.Equal(t, []int{1, 2, 3}, numbers(polishSentenceRE, html))

	ids := regexp.MustCompile(`data-id="([^"]+)"`).FindAllStringSubmatch(html, -1)
	var got []string
	for _, m := range ids {
		got = append(got, m[1])
	}
	assert.Equal(t, []string{"hello", "world", "it", "runs", "next", "one"}, got)
}

func TestCompose_ExactMarkup(t *testing.T) {
	html, err := Compose("Hi, Tom. Go!", "Cześć, Tom. Idź!")
	require.NoError(t, err)

	want := strings.Join([]string{
		`<div class="bilingual-container">`,
		`<div class="paragraph" data-paragraph="1">`,
		`<div class="english-column">`,
		`<div class="english-sentence" data-sentence="1"><span class="word" data-id="hi">Hi</span>, <span class="word" data-id="tom">Tom</span>.</div>`,
		`<div class="english-sentence" data-sentence="2"><span class="word" data-id="go">Go</span>!</div>`,
		`</div>`,
		`<div class="polish-column">`,
		`<div class="polish-sentence" data-sentence="1">Cześć, Tom.</div>`,
		`<div class="polish-sentence" data-sentence="2">Idź!</div>`,
		`</div>`,
		`</div>`,
		`</div>`,
	}, "\n")
	assert.Equal(t, want, html)
}

func TestCompose_NumberingIsGlobal(t *testing.T) {
	english := "One. Two. Three.\n\nFour!\n\nFive? Six."
	polish := "Jeden. Dwa. Trzy.\n\nCztery!\n\nPięć? Sześć."

	html, err := Compose(english, polish)
	require.NoError(t, err)

	en := numbers(englishSentenceRE, html)
	require.Len(t, en, 6)
	for i, n := range en {
		assert.Equal(t, i+1, n, "english sentence numbers must increase by one")
	}
	assert.Equal(t, en, numbers(polishSentenceRE, html))
}

func TestCompose_PreservesContent(t *testing.T) {
	english := []string{
		"\"Don't!\" she cried—loudly.\nThe dog’s bowl (red) was 3.5 kg. Really?",
		"End; fin: 100%.",
	}
	polish := []string{
		"\"Nie!\" krzyknęła—głośno.\nMiska psa (czerwona) ważyła 3,5 kg. Naprawdę?",
		"Koniec; fin: 100%.",
	}

	html, err := Compose(strings.Join(english, "\n\n"), strings.Join(polish, "\n\n"))
	require.NoError(t, err)

	var want strings.Builder
	for i := range english {
		want.WriteString(english[i])
		want.WriteString(polish[i])
	}
	assert.Equal(t, nonSpace(want.String()), nonSpace(tagRE.ReplaceAllString(html, "")))
}

func TestCompose_KeepsLineBreaksInsideSentence(t *testing.T) {
	html, err := Compose("A long\nline", "Długa\nlinia")
	require.NoError(t, err)

	assert.Contains(t, html, `<span class="word" data-id="long">long</span>`+"\n"+`<span class="word" data-id="line">line</span>`)
	assert.Contains(t, html, "Długa\nlinia")
}

func TestCompose_ParagraphMismatch(t *testing.T) {
	_, err := Compose("One.\n\nTwo.", "Jeden.")
	assert.ErrorIs(t, err, ErrParagraphMismatch)
}

func TestCompose_SentenceMismatchIsPositional(t *testing.T) {
	var reported [][3]int
	c := &Composer{OnSentenceMismatch: func(p, en, pl int) {
		reported = append(reported, [3]int{p, en, pl})
	}}

	html, err := c.Compose("A. B.\n\nC.", "X. Y. Z.\n\nW.")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, numbers(englishSentenceRE, html))
	assert.Equal(t, []int{1, 2, 3, 3}, numbers(polishSentenceRE, html))
	assert.Equal(t, [][3]int{{1, 2, 3}}, reported)
}

func TestCompose_EmptyParagraph(t *testing.T) {
	html, err := Compose("A.\n\n\n\nB.", "X.\n\n\n\nY.")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, numbers(paragraphRE, html))
	assert.Equal(t, []int{1, 2}, numbers(englishSentenceRE, html))
	assert.Equal(t, []int{1, 2}, numbers(polishSentenceRE, html))
}

func TestWrapWords(t *testing.T) {
	assert.Equal(t,
		`<span class="word" data-id="it’s">It’s</span> <span class="word" data-id="ok">OK</span>...`,
		WrapWords("It’s OK..."))
	assert.Equal(t, " \n ", WrapWords(" \n "))
}
