package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressReporter renders batch progress on the console, either as a
// progress bar or as one line per finished item. It is safe for
// concurrent use.
type ProgressReporter struct {
	out         io.Writer
	description string
	plain       bool

	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewProgressReporter creates a reporter writing to out
func NewProgressReporter(out io.Writer, description string, plain bool) *ProgressReporter {
	return &ProgressReporter{
		out:         out,
		description: description,
		plain:       plain,
	}
}

// Start begins a batch of total items
func (r *ProgressReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.plain || total == 0 {
		return
	}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(color.BlueString(r.description)),
		progressbar.OptionSetItsString("items"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(r.out) }),
	)
}

// Done records one finished item
func (r *ProgressReporter) Done(completed, total int, item string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Add(1)
		return
	}
	if item == "" {
		fmt.Fprintf(r.out, "  %s %d/%d\n", r.description, completed, total)
		return
	}
	fmt.Fprintf(r.out, "  %s %d/%d: %s\n", r.description, completed, total, item)
}

// Failed prints a warning for item
func (r *ProgressReporter) Failed(item string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil {
		_ = r.bar.Clear()
	}
	Warnf(r.out, "%s failed for '%s': %v", r.description, item, err)
	if r.bar != nil {
		_ = r.bar.RenderBlank()
	}
}

// Finish completes the progress bar if one is shown
func (r *ProgressReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bar != nil && !r.bar.IsFinished() {
		_ = r.bar.Finish()
	}
	r.bar = nil
}

// Warnf prints a warning line to w
func Warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString("Warning:"), fmt.Sprintf(format, args...))
}

// Step prints a pipeline step heading to w
func Step(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, color.CyanString(format, args...))
}
