package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"git-where/internal/config"
	"git-where/internal/matcher"
	"git-where/internal/output"
	"git-where/internal/progress"
	"git-where/internal/repo"
	"git-where/internal/scanner"
)

// errNoMatches signals the exit-1-without-message path: the scan worked
// but nothing matched.
var errNoMatches = errors.New("no matching repositories")

var (
	maxConcurrency int
	jsonOutput     bool
	verbosity      int
	noProgress     bool
)

var rootCmd = &cobra.Command{
	Use:   "git-where <owner/repo> [path]",
	Short: "Find local clones of a remote repository",
	Long: `Search a directory tree for git repositories whose remotes reference an
owner/repo identity. SSH (git@github.com:owner/repo.git), ssh:// and
http(s) remote URLs all match, on any remote name, at any nesting depth.
Traversal stops at repository roots, so nested checkouts are never
reported.`,
	Args:          cobra.RangeArgs(1, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd.OutOrStdout(), args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNoMatches) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntVarP(&maxConcurrency, "max-concurrency", "j", 0, "Maximum number of concurrent scan tasks (default 100)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Verbose output (-v warnings, -vv scanned directories)")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the live progress display")
}

func runSearch(out io.Writer, args []string) error {
	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pattern, err := matcher.New(args[0])
	if err != nil {
		return err
	}

	searchPath, err := resolveSearchPath(args)
	if err != nil {
		return err
	}

	concurrency := maxConcurrency
	if concurrency == 0 {
		concurrency = cfg.MaxConcurrency
	}

	showProgress := !jsonOutput && !noProgress && !cfg.NoProgress

	sc, err := scanner.New(searchPath, pattern, concurrency, verbosity)
	if err != nil {
		return err
	}

	logrus.Debugf("scanning %s for %s with max concurrency %d", searchPath, pattern, concurrency)

	var events *progress.Stream
	var trackerDone chan []repo.Match
	if showProgress || verbosity > 0 {
		events = progress.NewStream()
		tracker := progress.NewTracker(events.Events(), showProgress, verbosity)
		trackerDone = make(chan []repo.Match, 1)
		go func() {
			trackerDone <- tracker.Run()
		}()
	}

	results, err := sc.Scan(events)
	if err != nil {
		return err
	}

	if events != nil {
		events.Send(progress.Done{})
		<-trackerDone
		events.Close()
	}

	logrus.Debugf("visited %d directories, peak concurrency %d", sc.Visited(), sc.PeakInFlight())

	switch {
	case jsonOutput:
		if err := output.PrintJSON(out, results, args[0]); err != nil {
			return err
		}
	case !showProgress:
		output.PrintResults(out, results, args[0])
	default:
		printSummary(out, results, args[0])
	}

	if len(results) == 0 {
		return errNoMatches
	}
	return nil
}

func setupLogging() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	if verbosity >= 2 {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func resolveSearchPath(args []string) (string, error) {
	path := ""
	if len(args) == 2 {
		path = args[1]
	}
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return cwd, nil
	}

	st, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("search path does not exist: %s", path)
	}
	if !st.IsDir() {
		return "", fmt.Errorf("search path is not a directory: %s", path)
	}
	return path, nil
}

// printSummary closes out streaming mode, where matches were already
// rendered by the tracker.
func printSummary(out io.Writer, results []repo.Match, pattern string) {
	if len(results) == 0 {
		fmt.Fprintf(out, "\n%s\n", color.New(color.FgYellow, color.Bold).Sprintf("No repositories found matching '%s'", pattern))
		return
	}

	noun := "repositories"
	if len(results) == 1 {
		noun = "repository"
	}
	fmt.Fprintf(out, "\n%s %d %s matching '%s'\n",
		color.New(color.FgGreen, color.Bold).Sprint("Found"),
		len(results), noun,
		color.New(color.FgCyan).Sprint(pattern))
}
