// Package matcher decides whether a git remote URL designates a given
// owner/repo identity, independent of the URL scheme.
package matcher

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// RepositoryPattern is the owner/repo identity being searched for.
// Case is preserved for display but comparison is case-insensitive.
// Immutable after construction; safe to share across goroutines.
type RepositoryPattern struct {
	owner string
	repo  string
	raw   string
}

// New parses an "owner/repo" pattern. The string must contain exactly one
// slash with non-empty trimmed halves.
func New(pattern string) (*RepositoryPattern, error) {
	parts := strings.Split(pattern, "/")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid search pattern %q: expected format owner/repo", pattern)
	}

	owner := strings.TrimSpace(parts[0])
	repo := strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid search pattern %q: expected format owner/repo", pattern)
	}

	return &RepositoryPattern{owner: owner, repo: repo, raw: pattern}, nil
}

// String returns the pattern as given at construction.
func (p *RepositoryPattern) String() string { return p.raw }

// Owner returns the owner half of the pattern.
func (p *RepositoryPattern) Owner() string { return p.owner }

// Repo returns the repository half of the pattern.
func (p *RepositoryPattern) Repo() string { return p.repo }

// Matches reports whether a remote URL designates this owner/repo.
// Structured parsing handles ssh://, scp-style and http(s) forms; anything
// the endpoint parser rejects goes through a permissive segment fallback.
func (p *RepositoryPattern) Matches(remoteURL string) bool {
	ep, err := transport.NewEndpoint(remoteURL)
	if err == nil {
		segments := pathSegments(ep.Path)
		if len(segments) >= 2 {
			owner := segments[len(segments)-2]
			repo := stripGitSuffix(segments[len(segments)-1])
			return p.equals(owner, repo)
		}
		// Endpoint parsed but its path has no owner/repo shape;
		// fall through to the manual heuristic.
	}
	return p.matchFallback(remoteURL)
}

func (p *RepositoryPattern) equals(owner, repo string) bool {
	return strings.EqualFold(p.owner, owner) && strings.EqualFold(p.repo, repo)
}

// matchFallback extracts owner/repo from URL forms the endpoint parser
// cannot handle. The colon delimiter is tried before the slash; this order
// decides which forms are accepted and must not change.
func (p *RepositoryPattern) matchFallback(remoteURL string) bool {
	url := remoteURL
	for _, prefix := range []string{"https://", "http://", "ssh://", "git@"} {
		url = strings.TrimPrefix(url, prefix)
	}

	if i := strings.Index(url, ":"); i >= 0 {
		return p.matchPath(url[i+1:])
	}
	if i := strings.Index(url, "/"); i >= 0 {
		return p.matchPath(url[i+1:])
	}
	return false
}

// matchPath checks whether the leading two segments of a path are the
// pattern's owner and repo.
func (p *RepositoryPattern) matchPath(path string) bool {
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return false
	}
	return p.equals(parts[0], stripGitSuffix(parts[1]))
}

// stripGitSuffix drops a trailing .git in any casing, so the repo segment
// compares on identity alone.
func stripGitSuffix(repo string) string {
	if len(repo) >= 4 && strings.EqualFold(repo[len(repo)-4:], ".git") {
		return repo[:len(repo)-4]
	}
	return repo
}

func pathSegments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
