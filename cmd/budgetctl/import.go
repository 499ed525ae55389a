package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"budgetwise/internal/logger"
)

type rowError struct {
	Row     int    `json:"row"`
	Message string `json:"error"`
}

type importError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type importResult struct {
	Imported    int           `json:"imported"`
	Failed      int           `json:"failed"`
	Total       int           `json:"total"`
	Errors      []importError `json:"errors"`
	DryRun      bool          `json:"dry_run"`
	Parsed      []any         `json:"parsed"`
	ParseErrors []rowError    `json:"parse_errors"`
}

// importSummary adds up the results of several files.
type importSummary struct {
	Files       int
	Parsed      int
	Imported    int
	Failed      int
	ParseErrors int
}

func (s *importSummary) add(r importResult) {
	s.Files++
	s.Parsed += len(r.Parsed)
	s.Imported += r.Imported
	s.Failed += r.Failed
	s.ParseErrors += len(r.ParseErrors)
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import bank CSV exports",
		Long: `Upload one or more CSV files to BudgetWise. Each file needs a header row
with date, description and amount columns. Rows that fail to parse are listed
with their line number; the rest are imported.

With --dry-run the files are only parsed and nothing is stored.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "parse the files without importing")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")
	return cmd
}

func runImport(cmd *cobra.Command, files []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	api := newAPIClient(newAuthClient(ctx))
	if !api.auth.IsAuthenticated() {
		return errNotLoggedIn
	}

	out := cmd.OutOrStdout()
	progressOut := cmd.ErrOrStderr()
	if noProgress {
		progressOut = io.Discard
	}
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progressOut),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(progressOut) }),
	)

	var summary importSummary
	results := make(map[string]importResult, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		var result importResult
		if err := api.uploadCSV(ctx, filepath.Base(path), data, dryRun, &result); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		results[path] = result
		summary.add(result)

		if err := bar.Add(1); err != nil {
			logger.Named("budgetctl").Warnw("Failed to update progress bar", "error", err)
		}
	}

	for _, path := range files {
		printFileIssues(out, path, results[path])
	}
	printSummary(out, summary, dryRun)
	return nil
}

func printFileIssues(w io.Writer, path string, r importResult) {
	if len(r.ParseErrors) == 0 && len(r.Errors) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", path)
	for _, e := range r.ParseErrors {
		fmt.Fprintf(w, "  row %d: %s\n", e.Row, e.Message)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  transaction %d: %s\n", e.Index+1, e.Error)
	}
}

func printSummary(w io.Writer, s importSummary, dryRun bool) {
	if dryRun {
		fmt.Fprintf(w, "Dry run: %d transactions parsed from %d file(s), %d row(s) skipped\n",
			s.Parsed, s.Files, s.ParseErrors)
		return
	}
	fmt.Fprintf(w, "Imported %d transactions from %d file(s)", s.Imported, s.Files)
	if s.Failed > 0 || s.ParseErrors > 0 {
		fmt.Fprintf(w, ", %d failed, %d row(s) skipped", s.Failed, s.ParseErrors)
	}
	fmt.Fprintln(w)
}
