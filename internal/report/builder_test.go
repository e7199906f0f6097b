package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/sonnik/internal/config"
	"github.com/at-ishikawa/sonnik/internal/interpretation"
	mock_report "github.com/at-ishikawa/sonnik/internal/mocks/report"
)

func TestBuilder_Build(t *testing.T) {
	const dream = "Мне снилась вода и змея"
	type resolution struct {
		result interpretation.Result
		err    error
	}

	tests := []struct {
		name        string
		terms       []string
		resolutions map[string]resolution
		want        Report
	}{
		{
			name:  "found and missing terms",
			terms: []string{"вода", "змея"},
			resolutions: map[string]resolution{
				"вода": {result: interpretation.Found("Вода символизирует перемены.")},
				"змея": {result: interpretation.NotFound()},
			},
			want: Report{
				Text:  Header + "Вода:\nВода символизирует перемены.\n\n",
				Found: true,
				Entries: []Entry{
					{Term: "вода", Result: interpretation.Found("Вода символизирует перемены.")},
					{Term: "змея", Result: interpretation.NotFound()},
				},
			},
		},
		{
			name:  "blocks keep the term order",
			terms: []string{"змея", "вода"},
			resolutions: map[string]resolution{
				"змея": {result: interpretation.Found("Интриги.")},
				"вода": {result: interpretation.Found("Перемены.")},
			},
			want: Report{
				Text:  Header + "Змея:\nИнтриги.\n\nВода:\nПеремены.\n\n",
				Found: true,
				Entries: []Entry{
					{Term: "змея", Result: interpretation.Found("Интриги.")},
					{Term: "вода", Result: interpretation.Found("Перемены.")},
				},
			},
		},
		{
			name:  "all terms unresolved",
			terms: []string{"вода", "змея"},
			resolutions: map[string]resolution{
				"вода": {result: interpretation.NotFound()},
				"змея": {result: interpretation.Failed(errors.New("timeout"))},
			},
			want: Report{
				Text: NoInterpretationsMessage,
				Entries: []Entry{
					{Term: "вода", Result: interpretation.NotFound()},
					{Term: "змея", Result: interpretation.Failed(errors.New("timeout"))},
				},
			},
		},
		{
			name:  "resolver error skips only that term",
			terms: []string{"вода", "змея"},
			resolutions: map[string]resolution{
				"вода": {err: errors.New("database is locked")},
				"змея": {result: interpretation.Found("Интриги.")},
			},
			want: Report{
				Text:  Header + "Змея:\nИнтриги.\n\n",
				Found: true,
				Entries: []Entry{
					{Term: "вода", Result: interpretation.Failed(errors.New("database is locked"))},
					{Term: "змея", Result: interpretation.Found("Интриги.")},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			extractor := mock_report.NewMockTermExtractor(ctrl)
			resolver := mock_report.NewMockTermResolver(ctrl)

			extractor.EXPECT().Extract(gomock.Any(), dream, 5).Return(tt.terms, nil)
			for _, term := range tt.terms {
				r := tt.resolutions[term]
				resolver.EXPECT().Resolve(gomock.Any(), int64(42), term).Return(r.result, r.err)
			}

			builder := NewBuilder(extractor, resolver, config.ReportConfig{MaxTerms: 5, MaxLength: DefaultMaxLength})
			got, err := builder.Build(context.Background(), dream, 42)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilder_Build_NoTerms(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mock_report.NewMockTermExtractor(ctrl)
	// no expectations: the resolver must never be called
	resolver := mock_report.NewMockTermResolver(ctrl)

	extractor.EXPECT().Extract(gomock.Any(), "и в на", 5).Return([]string{}, nil)

	builder := NewBuilder(extractor, resolver, config.ReportConfig{MaxTerms: 5, MaxLength: DefaultMaxLength})
	got, err := builder.Build(context.Background(), "и в на", 1)
	require.NoError(t, err)
	assert.Equal(t, Report{Text: NoSymbolsMessage}, got)
}

func TestBuilder_Build_ExtractorError(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mock_report.NewMockTermExtractor(ctrl)
	resolver := mock_report.NewMockTermResolver(ctrl)

	extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("analyzer failed"))

	builder := NewBuilder(extractor, resolver, config.ReportConfig{MaxTerms: 5})
	_, err := builder.Build(context.Background(), "сон", 1)
	assert.ErrorContains(t, err, "analyzer failed")
}

func TestBuilder_Build_Truncates(t *testing.T) {
	tests := []struct {
		name      string
		maxLength int
		wantLen   int
	}{
		{
			name:      "default limit",
			maxLength: 0,
			wantLen:   DefaultMaxLength,
		},
		{
			name:      "configured limit",
			maxLength: 50,
			wantLen:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			extractor := mock_report.NewMockTermExtractor(ctrl)
			resolver := mock_report.NewMockTermResolver(ctrl)

			terms := []string{"вода", "змея", "лес"}
			extractor.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).Return(terms, nil)
			resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(interpretation.Found(strings.Repeat("сон ", 600)), nil).
				Times(len(terms))

			builder := NewBuilder(extractor, resolver, config.ReportConfig{MaxTerms: 5, MaxLength: tt.maxLength})
			got, err := builder.Build(context.Background(), "сон", 1)
			require.NoError(t, err)
			assert.True(t, got.Found)
			assert.Equal(t, tt.wantLen, utf8.RuneCountInString(got.Text))
			assert.True(t, strings.HasPrefix(got.Text, Header))
			assert.True(t, utf8.ValidString(got.Text))
		})
	}
}

func TestReport_Markdown(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   string
	}{
		{
			name: "found entries only",
			report: Report{
				Found: true,
				Entries: []Entry{
					{Term: "вода", Result: interpretation.Found("Перемены.")},
					{Term: "змея", Result: interpretation.NotFound()},
				},
			},
			want: "# Результаты анализа сна\n\n## Вода\n\nПеремены.\n\n",
		},
		{
			name:   "nothing found",
			report: Report{Text: NoSymbolsMessage},
			want:   NoSymbolsMessage + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Markdown())
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "вода", want: "Вода"},
		{in: "ЗМЕЯ", want: "Змея"},
		{in: "fly", want: "Fly"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Capitalize(tt.in))
		})
	}
}
