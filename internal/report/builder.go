// Package report turns a dream description into a readable summary of its symbols.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/at-ishikawa/sonnik/internal/config"
	"github.com/at-ishikawa/sonnik/internal/interpretation"
	"github.com/at-ishikawa/sonnik/internal/keyword"
)

//go:generate mockgen -source=builder.go -destination=../mocks/report/mock_builder.go -package=mock_report

const (
	Header                   = "🔍 Результаты анализа сна:\n\n"
	NoSymbolsMessage         = "Не нашёл значимых символов в описании сна. Попробуй описать подробнее."
	NoInterpretationsMessage = "К сожалению, не удалось найти интерпретаций для символов в вашем сне."

	// DefaultMaxLength is the longest message the chat channels accept, in characters.
	DefaultMaxLength = 4000
)

type TermExtractor interface {
	Extract(ctx context.Context, text string, maxTerms int) ([]string, error)
}

type TermResolver interface {
	Resolve(ctx context.Context, requesterID int64, term string) (interpretation.Result, error)
}

type Entry struct {
	Term   string
	Result interpretation.Result
}

type Report struct {
	Text    string
	Found   bool
	Entries []Entry
}

// Markdown renders the found interpretations as a Markdown document.
func (r Report) Markdown() string {
	if !r.Found {
		return r.Text + "\n"
	}

	var sb strings.Builder
	sb.WriteString("# Результаты анализа сна\n\n")
	for _, entry := range r.Entries {
		if !entry.Result.IsFound() {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", Capitalize(entry.Term), entry.Result.Text)
	}
	return sb.String()
}

type Builder struct {
	extractor TermExtractor
	resolver  TermResolver
	maxTerms  int
	maxLength int
}

func NewBuilder(extractor TermExtractor, resolver TermResolver, cfg config.ReportConfig) *Builder {
	maxLength := cfg.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Builder{
		extractor: extractor,
		resolver:  resolver,
		maxTerms:  cfg.MaxTerms,
		maxLength: maxLength,
	}
}

// Build extracts the symbols of text and resolves each of them.
// A term that cannot be resolved is skipped; only a failing extractor returns an error.
func (b *Builder) Build(ctx context.Context, text string, requesterID int64) (Report, error) {
	terms, err := b.extractor.Extract(ctx, text, b.maxTerms)
	if err != nil {
		return Report{}, fmt.Errorf("extractor.Extract() > %w", err)
	}
	if len(terms) == 0 {
		return Report{Text: NoSymbolsMessage}, nil
	}

	var sb strings.Builder
	sb.WriteString(Header)
	report := Report{
		Entries: make([]Entry, 0, len(terms)),
	}
	for _, term := range terms {
		result, err := b.resolver.Resolve(ctx, requesterID, term)
		if err != nil {
			slog.Default().Warn("Failed to resolve term", "term", term, "error", err)
			result = interpretation.Failed(err)
		}
		report.Entries = append(report.Entries, Entry{Term: term, Result: result})
		if !result.IsFound() {
			continue
		}

		fmt.Fprintf(&sb, "%s:\n%s\n\n", Capitalize(term), result.Text)
		report.Found = true
	}

	if !report.Found {
		report.Text = NoInterpretationsMessage
		return report, nil
	}
	report.Text = Truncate(sb.String(), b.maxLength)
	return report, nil
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Truncate cuts s to at most maxLength runes.
func Truncate(s string, maxLength int) string {
	if maxLength <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength])
}

var _ TermExtractor = (*keyword.Extractor)(nil)
var _ TermResolver = (*interpretation.Resolver)(nil)
