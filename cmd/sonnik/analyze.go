package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/sonnik/internal/pdf"
)

type OutputFormat string

const (
	OutputText     OutputFormat = "text"
	OutputMarkdown OutputFormat = "markdown"
	OutputPDF      OutputFormat = "pdf"
)

// Set implements pflag.Value.
func (f *OutputFormat) Set(v string) error {
	switch OutputFormat(v) {
	case OutputText, OutputMarkdown, OutputPDF:
		*f = OutputFormat(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q, %q or %q", v, OutputText, OutputMarkdown, OutputPDF)
	}
	return nil
}

// String implements pflag.Value.
func (f *OutputFormat) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *OutputFormat) Type() string {
	return "OutputFormat"
}

var (
	_ pflag.Value = (*OutputFormat)(nil)
)

func newAnalyzeCommand() *cobra.Command {
	format := OutputText
	var output string
	var requesterID int64

	cmd := &cobra.Command{
		Use:   "analyze [dream description]",
		Short: "Interpret the symbols of a dream",
		Long:  "Interpret the symbols of a dream. The description is read from standard input when no arguments are given.",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				contents, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("io.ReadAll(stdin) > %w", err)
				}
				text = string(contents)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("dream description is empty")
			}
			if format == OutputPDF && output == "" {
				return fmt.Errorf("--output is required for the %s format", OutputPDF)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := newPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, p.Close())
			}()

			rep, err := p.builder.Build(cmd.Context(), text, requesterID)
			if err != nil {
				return fmt.Errorf("builder.Build() > %w", err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case OutputMarkdown:
				_, _ = fmt.Fprint(out, rep.Markdown())
			case OutputPDF:
				path, err := pdf.WriteMarkdownPDF([]byte(rep.Markdown()), output)
				if err != nil {
					return fmt.Errorf("pdf.WriteMarkdownPDF() > %w", err)
				}
				_, _ = fmt.Fprintf(out, "PDF written to %s\n", path)
			default:
				_, _ = fmt.Fprintln(out, strings.TrimRight(rep.Text, "\n"))
			}
			return nil
		},
	}
	cmd.Flags().Var(&format, "format", "Output format. Options: text, markdown, pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "PDF file to write when --format=pdf")
	cmd.Flags().Int64Var(&requesterID, "requester-id", 0, "Requester id stored with new interpretations")
	return cmd
}

func newInterpretCommand() *cobra.Command {
	var requesterID int64

	cmd := &cobra.Command{
		Use:   "interpret <symbol>",
		Short: "Look up a single dream symbol",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			symbol := strings.ToLower(strings.TrimSpace(strings.Join(args, " ")))
			if symbol == "" {
				return fmt.Errorf("symbol is empty")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := newPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, p.Close())
			}()

			result, err := p.resolver.Resolve(cmd.Context(), requesterID, symbol)
			if err != nil {
				return fmt.Errorf("resolver.Resolve(%s) > %w", symbol, err)
			}
			if result.Err != nil {
				return fmt.Errorf("lookup %q failed: %w", symbol, result.Err)
			}

			out := cmd.OutOrStdout()
			if !result.IsFound() {
				_, _ = fmt.Fprintf(out, "%s: interpretation not found\n", symbol)
				return nil
			}
			_, _ = fmt.Fprintf(out, "%s:\n%s\n", symbol, result.Text)
			return nil
		},
	}
	cmd.Flags().Int64Var(&requesterID, "requester-id", 0, "Requester id stored with a new interpretation")
	return cmd
}
