package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/storysnippet/internal/archive"
	"codeberg.org/snonux/storysnippet/internal/bilingual"
	"codeberg.org/snonux/storysnippet/internal/cli"
	"codeberg.org/snonux/storysnippet/internal/enrich"
	"codeberg.org/snonux/storysnippet/internal/lexicon"
	"codeberg.org/snonux/storysnippet/internal/story"
	"codeberg.org/snonux/storysnippet/internal/translation"
	"codeberg.org/snonux/storysnippet/internal/vocab"
	"codeberg.org/snonux/storysnippet/internal/worker"
)

// Processor handles the main story processing logic
type Processor struct {
	flags      *cli.Flags
	fetcher    *lexicon.Fetcher
	translator *translation.Translator
	composer   *bilingual.Composer
	limiter    *worker.Limiter

	out    io.Writer
	errOut io.Writer
}

// NewProcessor creates a new story processor
func NewProcessor(flags *cli.Flags, apiKey string) *Processor {
	timeout := time.Duration(flags.Timeout) * time.Second

	p := &Processor{
		flags: flags,
		fetcher: lexicon.NewFetcher(lexicon.Config{
			APIKey:    apiKey,
			BaseURL:   flags.BaseURL,
			Model:     flags.Model,
			MaxTokens: flags.WordMaxTokens,
			Timeout:   timeout,
		}),
		translator: translation.NewTranslator(translation.Config{
			APIKey:           apiKey,
			BaseURL:          flags.BaseURL,
			Model:            flags.Model,
			MaxTokens:        flags.TranslateMaxTokens,
			Timeout:          timeout,
			BreakerThreshold: flags.BreakerThreshold,
		}),
		composer: &bilingual.Composer{},
		limiter:  worker.NewLimiter(flags.RateLimit, flags.Concurrency),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}

	p.composer.OnSentenceMismatch = func(paragraph, english, polish int) {
		cli.Warnf(p.errOut, "paragraph %d has %d English and %d Polish sentences, numbering by position",
			paragraph, english, polish)
	}
	p.translator.OnError = func(index int, err error) {
		cli.Warnf(p.errOut, "translation of paragraph %d failed, keeping English text: %v", index+1, err)
	}

	return p
}

// StoryDir returns the output directory for the story at path
func (p *Processor) StoryDir(path string) string {
	return filepath.Join(p.flags.OutputDir, story.Name(path))
}

// ProcessStory generates words.json and the bilingual HTML for the story
// at path
func (p *Processor) ProcessStory(ctx context.Context, path string) error {
	s, err := story.Read(path)
	if err != nil {
		return err
	}

	storyDir := p.StoryDir(path)
	if p.flags.Archive {
		if err := p.archivePrevious(storyDir); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(storyDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fmt.Fprintf(p.out, "\nProcessing story: %s\n", s.Name)

	cli.Step(p.out, "Building vocabulary...")
	wordsPath := filepath.Join(storyDir, vocab.FileName)
	records, stats := p.buildVocabulary(ctx, s.Text, wordsPath)
	if err := vocab.Save(wordsPath, records); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "  %d words: %d enriched, %d reused, %d empty, %d failed\n",
		stats.Total, stats.Enriched, stats.Skipped, stats.Empty, stats.Failed)

	// words.json keeps partial progress, the HTML of an earlier run stays
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted before translation: %w", err)
	}

	english := s.Paragraphs()
	polish, err := p.translate(ctx, english)
	if err != nil {
		return fmt.Errorf("interrupted during translation: %w", err)
	}

	cli.Step(p.out, "Composing bilingual HTML...")
	html, err := p.composer.ComposeParagraphs(english, polish)
	if err != nil {
		return err
	}

	htmlPath := filepath.Join(storyDir, bilingual.FileName)
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", bilingual.FileName, err)
	}

	fmt.Fprintf(p.out, "Generated %s and bilingual HTML in %s/\n", vocab.FileName, storyDir)
	return nil
}

func (p *Processor) archivePrevious(storyDir string) error {
	if _, err := os.Stat(storyDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	archivedPath, err := archive.ArchiveStory(storyDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Archived previous output to %s\n", archivedPath)
	return nil
}

// buildVocabulary returns the story vocabulary with every record that
// still lacks an English definition enriched. Records found in an
// existing words.json are reused unless refreshing.
func (p *Processor) buildVocabulary(ctx context.Context, text, wordsPath string) ([]vocab.Record, enrich.Stats) {
	records := vocab.BuildFromText(text)

	if !p.flags.RefreshWords {
		existing, err := vocab.Load(wordsPath)
		switch {
		case err == nil:
			fmt.Fprintf(p.out, "  Resuming from existing %s (%d words)\n", vocab.FileName, len(existing))
			records = vocab.Merge(existing, records)
		case !errors.Is(err, os.ErrNotExist):
			cli.Warnf(p.errOut, "ignoring unreadable %s: %v", wordsPath, err)
		}
	}

	reporter := cli.NewProgressReporter(p.out, "Enriching", p.flags.NoProgress)
	defer reporter.Finish()

	p.fetcher.OnError = func(word string, err error) {
		reporter.Failed(word, err)
	}

	filler := enrich.NewFiller(p.fetcher, enrich.Config{
		Concurrency:  p.flags.Concurrency,
		SkipEnriched: true,
		Limiter:      p.limiter,
		Reporter:     reporter,
	})
	return filler.FillAll(ctx, records)
}

// translate returns one Polish paragraph per English paragraph. With
// translation skipped the English text is used on both sides.
func (p *Processor) translate(ctx context.Context, paragraphs []string) ([]string, error) {
	if p.flags.SkipTranslation {
		fmt.Fprintf(p.out, "  Skipping translation\n")
		return append([]string(nil), paragraphs...), nil
	}

	cli.Step(p.out, "Translating %d paragraphs...", len(paragraphs))
	reporter := cli.NewProgressReporter(p.out, "Translating", p.flags.NoProgress)
	reporter.Start(len(paragraphs))
	defer reporter.Finish()

	p.translator.OnProgress = func(done, total int) {
		reporter.Done(done, total, "")
	}
	return p.translator.TranslateParagraphs(ctx, paragraphs)
}
