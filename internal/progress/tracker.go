package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"git-where/internal/output"
	"git-where/internal/repo"
)

// Tracker is the single consumer of the scan event stream. It keeps
// running counters, streams matches to the terminal as they arrive, and
// drives an optional spinner on stderr.
type Tracker struct {
	events  <-chan Event
	bar     *progressbar.ProgressBar
	stream  bool
	out     io.Writer
	errOut  io.Writer
	verbose int

	dirs    int
	matches []repo.Match
}

// NewTracker builds a tracker reading from events. In stream mode matches
// are rendered as they arrive; the spinner additionally requires stderr to
// be a terminal.
func NewTracker(events <-chan Event, stream bool, verbose int) *Tracker {
	return &Tracker{
		events:  events,
		bar:     newSpinner(stream),
		stream:  stream,
		out:     os.Stdout,
		errOut:  os.Stderr,
		verbose: verbose,
	}
}

func newSpinner(enabled bool) *progressbar.ProgressBar {
	if !enabled {
		return nil
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}

	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
}

// Run consumes events until Done arrives or the channel is closed, then
// returns the matches it saw in arrival order.
func (t *Tracker) Run() []repo.Match {
	for ev := range t.events {
		switch ev := ev.(type) {
		case Scanning:
			t.dirs++
			if t.verbose >= 2 {
				t.println(t.errOut, fmt.Sprintf("Scanning: %s", ev.Path))
			}
			t.refresh()
		case Found:
			t.matches = append(t.matches, ev.Match)
			// Matches stream to the terminal only in stream mode; the
			// caller prints the final list otherwise.
			if t.stream {
				t.println(t.out, "\n"+output.FormatMatch(len(t.matches), ev.Match))
			}
			t.refresh()
		case Warn:
			if t.verbose >= 1 {
				t.println(t.errOut, ev.Message)
				t.refresh()
			}
		case Done:
			t.finish()
			return t.matches
		}
	}

	t.finish()
	return t.matches
}

// println writes a line through the status-safe path so it does not
// corrupt an in-progress spinner line.
func (t *Tracker) println(w io.Writer, line string) {
	if t.bar != nil {
		_ = t.bar.Clear()
	}
	fmt.Fprintln(w, line)
}

func (t *Tracker) refresh() {
	if t.bar == nil {
		return
	}
	t.bar.Describe(fmt.Sprintf("scanned %d directories, found %d matches", t.dirs, len(t.matches)))
	_ = t.bar.Add(1)
}

func (t *Tracker) finish() {
	if t.bar == nil {
		return
	}
	t.bar.Describe(fmt.Sprintf("scan complete: %d directories scanned, %d matches found", t.dirs, len(t.matches)))
	_ = t.bar.Finish()
	fmt.Fprintln(t.errOut)
}
