package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/sonnik/internal/datasync"
	"github.com/at-ishikawa/sonnik/internal/interpretation"
)

func newStatsCommand() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how many interpretations are stored",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			repo, closeDB, err := openRepository(cmd)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, closeDB())
			}()

			stats, err := repo.Stats(cmd.Context(), top)
			if err != nil {
				return fmt.Errorf("repo.Stats() > %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Interpretations: %d\n", stats.Records)
			_, _ = fmt.Fprintf(out, "Requesters:      %d\n", stats.Requesters)
			if len(stats.TopTerms) == 0 {
				return nil
			}
			_, _ = fmt.Fprintln(out, "Top symbols:")
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, term := range stats.TopTerms {
				_, _ = fmt.Fprintf(w, "  %s\t%d\n", term.Term, term.Count)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "Number of most frequent symbols to show")
	return cmd
}

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and move the interpretation history",
	}
	cmd.AddCommand(
		newHistoryShowCommand(),
		newHistoryExportCommand(),
		newHistoryImportCommand(),
	)
	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <symbol>",
		Short: "Show every stored interpretation of a symbol, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			term := strings.ToLower(strings.TrimSpace(args[0]))

			repo, closeDB, err := openRepository(cmd)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, closeDB())
			}()

			records, err := repo.History(cmd.Context(), term)
			if err != nil {
				return fmt.Errorf("repo.History(%s) > %w", term, err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintf(out, "No interpretations stored for %q\n", term)
				return nil
			}
			for _, record := range records {
				_, _ = fmt.Fprintf(out, "[%s] requester %d\n%s\n\n",
					record.CreatedAt.UTC().Format("2006-01-02 15:04:05"), record.RequesterID, record.Interpretation)
			}
			return nil
		},
	}
}

func newHistoryExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the interpretation history to YAML",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			repo, closeDB, err := openRepository(cmd)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, closeDB())
			}()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, createErr := os.Create(output)
				if createErr != nil {
					return fmt.Errorf("os.Create(%s) > %w", output, createErr)
				}
				defer func() {
					err = errors.Join(err, f.Close())
				}()
				w = f
			}

			n, err := datasync.NewExporter(repo).Export(cmd.Context(), w)
			if err != nil {
				return fmt.Errorf("exporter.Export() > %w", err)
			}
			if output != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d interpretations to %s\n", n, output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write. Defaults to standard output")
	return cmd
}

func newHistoryImportCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import interpretation history from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			defer func() {
				_ = f.Close()
			}()

			repo, closeDB, err := openRepository(cmd)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, closeDB())
			}()

			out := cmd.OutOrStdout()
			result, err := datasync.NewImporter(repo, out).Import(cmd.Context(), f, datasync.ImportOptions{DryRun: dryRun})
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}

			_, _ = fmt.Fprintln(out, "\nImport Summary:")
			if dryRun {
				_, _ = fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			_, _ = fmt.Fprintf(out, "  Interpretations: %d new, %d skipped\n", result.New, result.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	return cmd
}

func openRepository(cmd *cobra.Command) (*interpretation.DBRepository, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := openDatabase(cmd.Context(), cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return interpretation.NewDBRepository(db), db.Close, nil
}
