package keyword

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxTerms is how many terms a dream description is reduced to.
const DefaultMaxTerms = 5

const minTermLength = 3

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

type Extractor struct {
	analyzer       Analyzer
	extraStopWords map[string]struct{}
}

// NewExtractor creates an Extractor. Lemmas in extraStopWords are never emitted.
func NewExtractor(analyzer Analyzer, extraStopWords []string) *Extractor {
	return &Extractor{
		analyzer:       analyzer,
		extraStopWords: newWordSet(extraStopWords),
	}
}

// Extract returns up to maxTerms distinct lemmas of text in order of first appearance.
func (e *Extractor) Extract(ctx context.Context, text string, maxTerms int) ([]string, error) {
	if maxTerms <= 0 {
		return []string{}, nil
	}

	cleaned := punctuation.ReplaceAllString(strings.ToLower(text), " ")
	tokens, err := e.analyzer.Analyze(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("analyzer.Analyze() > %w", err)
	}

	terms := make([]string, 0, maxTerms)
	seen := make(map[string]struct{}, maxTerms)
	for _, token := range tokens {
		if !e.isSignificant(token) {
			continue
		}
		if _, ok := seen[token.Lemma]; ok {
			continue
		}
		seen[token.Lemma] = struct{}{}
		terms = append(terms, token.Lemma)
		if len(terms) >= maxTerms {
			break
		}
	}
	return terms, nil
}

func (e *Extractor) isSignificant(token Token) bool {
	if !token.IsAlpha || token.IsStop {
		return false
	}
	if utf8.RuneCountInString(token.Text) < minTermLength {
		return false
	}
	if token.Lemma == "" {
		return false
	}
	_, isStop := e.extraStopWords[token.Lemma]
	return !isStop
}
