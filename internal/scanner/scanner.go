// Package scanner implements the concurrent, pruning directory scan.
//
// Each directory visit is an independently scheduled goroutine bounded by
// a channel semaphore. A directory containing a .git entry is a repository
// root: its remotes are matched against the pattern and traversal stops
// there, so nested checkouts are never reported.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"git-where/internal/matcher"
	"git-where/internal/progress"
	"git-where/internal/repo"
)

// Scanner walks a directory tree looking for repositories whose remotes
// reference the configured pattern.
type Scanner struct {
	root    string
	pattern *matcher.RepositoryPattern
	sem     chan struct{}
	verbose int

	events *progress.Stream

	mu      sync.Mutex
	results []repo.Match

	visited  atomic.Int64
	inFlight atomic.Int64
	peak     atomic.Int64
}

// New builds a scanner rooted at root. maxConcurrent bounds the number of
// simultaneously active directory visits; a non-positive bound means the
// concurrency limiter cannot be constructed and is rejected outright.
func New(root string, pattern *matcher.RepositoryPattern, maxConcurrent, verbose int) (*Scanner, error) {
	if maxConcurrent < 1 {
		return nil, fmt.Errorf("max concurrency must be >= 1, got %d", maxConcurrent)
	}
	return &Scanner{
		root:    root,
		pattern: pattern,
		sem:     make(chan struct{}, maxConcurrent),
		verbose: verbose,
	}, nil
}

// Scan visits the tree and returns the matches found. It returns only
// after the root visit and every spawned sub-visit have completed. events
// may be nil; when present, every lifecycle event is delivered to it in
// producer order. The returned slice is the authoritative result set
// either way.
func (s *Scanner) Scan(events *progress.Stream) ([]repo.Match, error) {
	s.events = events

	var wg sync.WaitGroup
	wg.Add(1)
	go s.visit(s.root, &wg)
	wg.Wait()

	return s.results, nil
}

// Visited returns the number of directory visits performed.
func (s *Scanner) Visited() int64 { return s.visited.Load() }

// PeakInFlight returns the highest number of simultaneously active
// directory visits observed during the scan.
func (s *Scanner) PeakInFlight() int64 { return s.peak.Load() }

func (s *Scanner) updatePeak(n int64) {
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

// visit handles one directory. Soft failures terminate the branch without
// affecting siblings; the semaphore unit is released on every exit path.
func (s *Scanner) visit(dir string, wg *sync.WaitGroup) {
	defer wg.Done()

	s.events.Send(progress.Scanning{Path: dir})

	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	s.visited.Add(1)
	s.updatePeak(s.inFlight.Add(1))
	defer s.inFlight.Add(-1)

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.warnf("Warning: Cannot read directory %s: %v", dir, err)
		return
	}

	isRepoRoot := false
	var subdirs []string
	for _, entry := range entries {
		if entry.Name() == ".git" {
			isRepoRoot = true
			continue
		}
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
		}
	}

	if isRepoRoot {
		s.checkRepository(dir)
		// Never descend below a repository root: nested worktrees,
		// submodules and vendored checkouts are not top-level matches.
		return
	}

	for _, subdir := range subdirs {
		wg.Add(1)
		go s.visit(subdir, wg)
	}
}

// checkRepository matches the remotes of the repository rooted at dir and
// records a result when at least one remote references the pattern.
func (s *Scanner) checkRepository(dir string) {
	remotes, err := repo.ListRemotes(dir)
	if err != nil {
		s.warnf("Warning: Failed to read remotes from git repo at %s: %v", dir, err)
		return
	}

	var matching []repo.Remote
	for _, remote := range remotes {
		if s.pattern.Matches(remote.URL) {
			matching = append(matching, remote)
		}
	}
	if len(matching) == 0 {
		return
	}

	match := repo.Match{Path: dir, Remotes: matching}
	s.events.Send(progress.Found{Match: match})

	s.mu.Lock()
	s.results = append(s.results, match)
	s.mu.Unlock()
}

// warnf surfaces a soft failure: through the event stream when a tracker
// is attached, otherwise to the diagnostic log when verbosity permits.
func (s *Scanner) warnf(format string, args ...any) {
	if s.events != nil {
		s.events.Send(progress.Warn{Message: fmt.Sprintf(format, args...)})
		return
	}
	if s.verbose >= 1 {
		logrus.Warnf(format, args...)
	}
}
