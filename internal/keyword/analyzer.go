// Package keyword extracts the salient terms of a dream description.
package keyword

import (
	"context"
)

// Token is one word of an analyzed text.
type Token struct {
	Text    string
	Lemma   string
	IsAlpha bool
	IsStop  bool
}

// Analyzer segments text into tokens in order of appearance and reduces each to its base form.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]Token, error)
}
