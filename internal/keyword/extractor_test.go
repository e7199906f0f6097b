package keyword

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analyzerFunc func(ctx context.Context, text string) ([]Token, error)

func (f analyzerFunc) Analyze(ctx context.Context, text string) ([]Token, error) {
	return f(ctx, text)
}

func word(text string) Token {
	return Token{Text: text, Lemma: text, IsAlpha: true}
}

func staticAnalyzer(tokens ...Token) Analyzer {
	return analyzerFunc(func(context.Context, string) ([]Token, error) {
		return tokens, nil
	})
}

func TestExtractor_Extract(t *testing.T) {
	tests := []struct {
		name           string
		tokens         []Token
		extraStopWords []string
		maxTerms       int
		want           []string
	}{
		{
			name:     "keeps order of appearance",
			tokens:   []Token{word("вода"), word("змея"), word("дом")},
			maxTerms: 5,
			want:     []string{"вода", "змея", "дом"},
		},
		{
			name: "first occurrence of a lemma wins",
			tokens: []Token{
				word("вода"),
				{Text: "воду", Lemma: "вода", IsAlpha: true},
				word("змея"),
			},
			maxTerms: 5,
			want:     []string{"вода", "змея"},
		},
		{
			name:     "stops at maxTerms",
			tokens:   []Token{word("вода"), word("змея"), word("лес"), word("река")},
			maxTerms: 2,
			want:     []string{"вода", "змея"},
		},
		{
			name: "filters stop words, short and non alphabetic tokens",
			tokens: []Token{
				{Text: "мне", Lemma: "я", IsAlpha: true, IsStop: true},
				word("он"),
				{Text: "123", Lemma: "123"},
				word("кот"),
			},
			maxTerms: 5,
			want:     []string{"кот"},
		},
		{
			name: "filters supplementary stop lemmas",
			tokens: []Token{
				{Text: "своей", Lemma: "свой", IsAlpha: true},
				word("лодка"),
			},
			extraStopWords: SupplementaryStopWords("russian"),
			maxTerms:       5,
			want:           []string{"лодка"},
		},
		{
			name:     "no qualifying token is not an error",
			tokens:   []Token{{Text: "12"}, word("и")},
			maxTerms: 5,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewExtractor(staticAnalyzer(tt.tokens...), tt.extraStopWords)

			got, err := extractor.Extract(context.Background(), "ignored", tt.maxTerms)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractor_Extract_ZeroMaxTermsSkipsAnalyzer(t *testing.T) {
	extractor := NewExtractor(analyzerFunc(func(context.Context, string) ([]Token, error) {
		t.Fatal("analyzer must not be called")
		return nil, nil
	}), nil)

	got, err := extractor.Extract(context.Background(), "вода и змея", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractor_Extract_StripsPunctuationAndLowerCases(t *testing.T) {
	var received string
	extractor := NewExtractor(analyzerFunc(func(_ context.Context, text string) ([]Token, error) {
		received = text
		return nil, nil
	}), nil)

	_, err := extractor.Extract(context.Background(), "Вода, ЗМЕЯ!.. и (лес)", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"вода", "змея", "и", "лес"}, strings.Fields(received))
}

func TestExtractor_Extract_AnalyzerError(t *testing.T) {
	extractor := NewExtractor(analyzerFunc(func(context.Context, string) ([]Token, error) {
		return nil, errors.New("model unavailable")
	}), nil)

	got, err := extractor.Extract(context.Background(), "вода", 5)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
	assert.Nil(t, got)
}

func TestExtractor_Extract_WithSnowballAnalyzer(t *testing.T) {
	analyzer, err := NewSnowballAnalyzer("russian")
	require.NoError(t, err)
	extractor := NewExtractor(analyzer, SupplementaryStopWords("russian"))
	ctx := context.Background()

	t.Run("no alphabetic tokens longer than two characters", func(t *testing.T) {
		got, err := extractor.Extract(ctx, "12 3 ! ?", 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("dream description", func(t *testing.T) {
		text := "Мне снилась вода и змея, а потом снова вода!"
		got, err := extractor.Extract(ctx, text, 5)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(got), 5)
		assert.Contains(t, got, "вода")
		assert.Contains(t, got, "змея")
		assert.NotContains(t, got, "мне")
		assert.NotContains(t, got, "потом")

		seen := map[string]bool{}
		for _, term := range got {
			assert.False(t, seen[term], "duplicate term %q", term)
			seen[term] = true
		}

		again, err := extractor.Extract(ctx, text, 5)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	})

	t.Run("inflected symbols give the same terms in every description", func(t *testing.T) {
		tests := []struct {
			text string
			want []string
		}{
			{text: "Видел змеи и змея", want: []string{"змея"}},
			{text: "Видел змей у воды", want: []string{"змея", "вода"}},
			{text: "Мне снилась змея", want: []string{"змея"}},
			{text: "Приснились цветы и огня много", want: []string{"цветок", "огонь"}},
		}
		for _, tt := range tests {
			got, err := extractor.Extract(ctx, tt.text, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, tt.text)
		}
	})

	t.Run("never more than maxTerms", func(t *testing.T) {
		got, err := extractor.Extract(ctx, "лес река гора небо солнце луна звезда", 3)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}
