package repo

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
)

// Remote is one configured remote of a repository.
type Remote struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Match is a repository directory whose remotes reference the searched
// owner/repo. Remotes holds only the matching subset, in reader order.
// Never mutated after creation.
type Match struct {
	Path    string   `json:"path"`
	Remotes []Remote `json:"remotes"`
}

// ListRemotes returns the configured remotes of the repository rooted at
// dir, one entry per remote using its first fetch URL. Remotes are sorted
// by name so the order is stable within a call. Fails when dir is not a
// valid git repository.
func ListRemotes(dir string) ([]Remote, error) {
	r, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("open repo %s: %w", dir, err)
	}

	remotes, err := r.Remotes()
	if err != nil {
		return nil, fmt.Errorf("list remotes %s: %w", dir, err)
	}

	out := make([]Remote, 0, len(remotes))
	for _, remote := range remotes {
		cfg := remote.Config()
		if len(cfg.URLs) == 0 {
			continue
		}
		out = append(out, Remote{Name: cfg.Name, URL: cfg.URLs[0]})
	}

	// go-git stores remotes in a map; sort for a stable per-call order.
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
