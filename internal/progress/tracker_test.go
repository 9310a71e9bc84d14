package progress

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git-where/internal/repo"
)

func match(path string) repo.Match {
	return repo.Match{
		Path:    path,
		Remotes: []repo.Remote{{Name: "origin", URL: "https://github.com/acme/widget.git"}},
	}
}

func runTracker(t *testing.T, stream bool, verbose int, events []Event) (*Tracker, []repo.Match, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	color.NoColor = true
	ch := make(chan Event, len(events)+1)
	for _, ev := range events {
		ch <- ev
	}
	ch <- Done{}

	tracker := NewTracker(ch, stream, verbose)
	var out, errOut bytes.Buffer
	tracker.out = &out
	tracker.errOut = &errOut

	return tracker, tracker.Run(), &out, &errOut
}

func TestTracker_AccumulatesMatchesInArrivalOrder(t *testing.T) {
	_, matches, _, _ := runTracker(t, false, 0, []Event{
		Scanning{Path: "/tmp/a"},
		Found{Match: match("/tmp/a/x")},
		Scanning{Path: "/tmp/b"},
		Found{Match: match("/tmp/b/y")},
	})

	require.Len(t, matches, 2)
	assert.Equal(t, "/tmp/a/x", matches[0].Path)
	assert.Equal(t, "/tmp/b/y", matches[1].Path)
}

func TestTracker_CountsScannedDirectories(t *testing.T) {
	tracker, _, _, _ := runTracker(t, false, 0, []Event{
		Scanning{Path: "/a"},
		Scanning{Path: "/b"},
		Scanning{Path: "/c"},
	})

	assert.Equal(t, 3, tracker.dirs)
}

func TestTracker_StreamModePrintsMatches(t *testing.T) {
	_, _, out, _ := runTracker(t, true, 0, []Event{
		Found{Match: match("/tmp/clone")},
	})

	assert.Contains(t, out.String(), "/tmp/clone")
	assert.Contains(t, out.String(), "origin")
}

func TestTracker_NonStreamModeStaysQuiet(t *testing.T) {
	_, _, out, _ := runTracker(t, false, 0, []Event{
		Found{Match: match("/tmp/clone")},
	})

	assert.Empty(t, out.String())
}

func TestTracker_WarningsGatedByVerbosity(t *testing.T) {
	_, _, _, errOut := runTracker(t, false, 0, []Event{
		Warn{Message: "Warning: Cannot read directory /locked"},
	})
	assert.Empty(t, errOut.String())

	_, _, _, errOut = runTracker(t, false, 1, []Event{
		Warn{Message: "Warning: Cannot read directory /locked"},
	})
	assert.Contains(t, errOut.String(), "/locked")
}

func TestTracker_ScannedPathsShownAtHighVerbosity(t *testing.T) {
	_, _, _, errOut := runTracker(t, false, 2, []Event{
		Scanning{Path: "/projects/deep"},
	})

	assert.Contains(t, errOut.String(), "/projects/deep")
}

func TestTracker_StopsOnClosedChannel(t *testing.T) {
	color.NoColor = true
	ch := make(chan Event, 1)
	ch <- Found{Match: match("/tmp/clone")}
	close(ch)

	tracker := NewTracker(ch, false, 0)
	var out bytes.Buffer
	tracker.out = &out
	tracker.errOut = &out

	matches := tracker.Run()
	require.Len(t, matches, 1)
}

func TestTracker_WarningRestoresSpinner(t *testing.T) {
	color.NoColor = true
	ch := make(chan Event, 2)
	ch <- Warn{Message: "Warning: Cannot read directory /locked"}
	ch <- Done{}

	tracker := NewTracker(ch, false, 1)
	var out, barOut bytes.Buffer
	tracker.out = &out
	tracker.errOut = &out
	tracker.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(&barOut),
		progressbar.OptionSpinnerType(14),
	)

	tracker.Run()

	// The status line must be redrawn after the warning clears it, not
	// only at finish.
	assert.Contains(t, barOut.String(), "scanned 0 directories, found 0 matches")
	assert.Contains(t, out.String(), "/locked")
}

func TestStream_NilSendIsNoop(t *testing.T) {
	var s *Stream
	assert.NotPanics(t, func() {
		s.Send(Scanning{Path: "/a"})
	})
}

func TestStream_DeliversEveryEventInOrder(t *testing.T) {
	s := NewStream()

	// Far more events than any internal buffer, sent with no consumer
	// attached: none may be lost and none may block the producer.
	const total = 5000
	for i := 0; i < total; i++ {
		s.Send(Scanning{Path: fmt.Sprintf("/dir/%d", i)})
	}
	s.Close()

	var got []Event
	for ev := range s.Events() {
		got = append(got, ev)
	}

	require.Len(t, got, total)
	assert.Equal(t, Scanning{Path: "/dir/0"}, got[0])
	assert.Equal(t, Scanning{Path: fmt.Sprintf("/dir/%d", total-1)}, got[total-1])
}

func TestStream_CloseDrainsPendingEvents(t *testing.T) {
	s := NewStream()
	s.Send(Found{Match: match("/tmp/clone")})
	s.Send(Warn{Message: "late warning"})
	s.Close()

	var got []Event
	for ev := range s.Events() {
		got = append(got, ev)
	}

	require.Len(t, got, 2)
	assert.Equal(t, Found{Match: match("/tmp/clone")}, got[0])
	assert.Equal(t, Warn{Message: "late warning"}, got[1])
}
