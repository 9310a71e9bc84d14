// Package output renders scan results as colored text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"git-where/internal/repo"
)

var (
	indexColor   = color.New(color.FgYellow)
	pathColor    = color.New(color.Bold)
	remoteColor  = color.New(color.FgBlue)
	countColor   = color.New(color.FgGreen, color.Bold)
	patternColor = color.New(color.FgCyan)
	emptyColor   = color.New(color.FgYellow, color.Bold)
)

// FormatMatch renders one numbered match with its matching remotes.
func FormatMatch(index int, m repo.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s. %s", indexColor.Sprint(index), pathColor.Sprint(m.Path))
	for _, remote := range m.Remotes {
		fmt.Fprintf(&b, "\n   %s: %s", remoteColor.Sprint(remote.Name), remote.URL)
	}
	return b.String()
}

// PrintResults writes the human-readable result list.
func PrintResults(w io.Writer, results []repo.Match, pattern string) {
	if len(results) == 0 {
		fmt.Fprintln(w, emptyColor.Sprintf("No repositories found matching '%s'", pattern))
		return
	}

	noun := "repositories"
	if len(results) == 1 {
		noun = "repository"
	}
	fmt.Fprintf(w, "Found %s matching %s for '%s':\n\n",
		countColor.Sprint(len(results)), noun, patternColor.Sprint(pattern))

	for i, result := range results {
		fmt.Fprintln(w, FormatMatch(i+1, result))
		fmt.Fprintln(w)
	}
}

type jsonOutput struct {
	Pattern      string       `json:"pattern"`
	Count        int          `json:"count"`
	Repositories []repo.Match `json:"repositories"`
}

// PrintJSON writes the machine-readable result document. The repositories
// field is always an array, never null.
func PrintJSON(w io.Writer, results []repo.Match, pattern string) error {
	if results == nil {
		results = []repo.Match{}
	}
	doc := jsonOutput{
		Pattern:      pattern,
		Count:        len(results),
		Repositories: results,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}
