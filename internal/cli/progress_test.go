package cli

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
)

func TestProgressReporter_Plain(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := NewProgressReporter(&buf, "Filling words", true)

	r.Start(2)
	r.Done(1, 2, "cat")
	r.Failed("dog", errors.New("boom"))
	r.Done(2, 2, "dog")
	r.Finish()

	out := buf.String()
	for _, want := range []string{
		"  Filling words 1/2: cat\n",
		"Warning: Filling words failed for 'dog': boom\n",
		"  Filling words 2/2: dog\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressReporter_PlainWithoutItem(t *testing.T) {
	var buf bytes.Buffer
	r := NewProgressReporter(&buf, "Translating", true)

	r.Start(3)
	r.Done(1, 3, "")

	if got := buf.String(); got != "  Translating 1/3\n" {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestProgressReporter_BarIsConcurrencySafe(t *testing.T) {
	var buf bytes.Buffer
	r := NewProgressReporter(&buf, "Filling words", false)
	r.Start(50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Done(i+1, 50, "w")
		}(i)
	}
	wg.Wait()
	r.Finish()

	if buf.Len() == 0 {
		t.Error("Expected progress bar output")
	}
}

func TestWarnf(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	Warnf(&buf, "paragraph %d kept in English", 3)

	if got := buf.String(); got != "Warning: paragraph 3 kept in English\n" {
		t.Errorf("Unexpected warning %q", got)
	}
}
