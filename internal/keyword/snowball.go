package keyword

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

//go:embed lemmas/russian.yml
var russianLemmas []byte

// builtinLemmas are the dictionaries every analyzer of a language starts from.
var builtinLemmas = map[string][]byte{
	"russian": russianLemmas,
}

// symbolDictionary is the format of a built-in dictionary.
type symbolDictionary struct {
	Symbols []string          `yaml:"symbols"`
	Forms   map[string]string `yaml:"forms"`
}

// SnowballAnalyzer is an Analyzer backed by the snowball stemmers.
//
// A word's lemma comes from the lemma dictionary when the word has an entry, or when its stem
// is the stem of a dictionary lemma, so "змеи" and "змей" both become "змея" in every text.
// Other words sharing a stem are folded onto the first form of that stem seen in the same
// text.
type SnowballAnalyzer struct {
	language  string
	stopWords map[string]struct{}
	lemmas    map[string]string
	// stemLemmas maps the stem of every dictionary lemma to the lemma
	stemLemmas map[string]string
}

type SnowballOption func(*SnowballAnalyzer) error

// WithLemmaDictionary loads a YAML mapping of word forms to lemmas.
func WithLemmaDictionary(path string) SnowballOption {
	return func(a *SnowballAnalyzer) error {
		if path == "" {
			return nil
		}
		contents, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("os.ReadFile(%s) > %w", path, err)
		}
		var lemmas map[string]string
		if err := yaml.Unmarshal(contents, &lemmas); err != nil {
			return fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
		}
		return WithLemmas(lemmas)(a)
	}
}

// WithLemmas adds form to lemma entries. Entries override the built-in dictionary and earlier options.
func WithLemmas(lemmas map[string]string) SnowballOption {
	return func(a *SnowballAnalyzer) error {
		bases := make([]string, 0, len(lemmas))
		for form, lemma := range lemmas {
			lemma = strings.ToLower(lemma)
			a.lemmas[strings.ToLower(form)] = lemma
			bases = append(bases, lemma)
		}
		a.indexLemmas(bases)
		return nil
	}
}

func withBuiltinLemmas() SnowballOption {
	return func(a *SnowballAnalyzer) error {
		contents, ok := builtinLemmas[a.language]
		if !ok {
			return nil
		}
		var dict symbolDictionary
		if err := yaml.Unmarshal(contents, &dict); err != nil {
			return fmt.Errorf("yaml.Unmarshal(%s lemmas) > %w", a.language, err)
		}

		lemmas := make(map[string]string, len(dict.Symbols)+len(dict.Forms))
		for _, symbol := range dict.Symbols {
			lemmas[symbol] = symbol
		}
		for form, lemma := range dict.Forms {
			lemmas[form] = lemma
		}
		return WithLemmas(lemmas)(a)
	}
}

// indexLemmas records the stem of each lemma. When lemmas of one call share a stem, the
// alphabetically first wins.
func (a *SnowballAnalyzer) indexLemmas(lemmas []string) {
	sort.Strings(lemmas)
	indexed := make(map[string]bool, len(lemmas))
	for _, lemma := range lemmas {
		stem, err := snowball.Stem(lemma, a.language, true)
		if err != nil || stem == "" || indexed[stem] {
			continue
		}
		indexed[stem] = true
		a.stemLemmas[stem] = lemma
	}
}

func NewSnowballAnalyzer(language string, opts ...SnowballOption) (*SnowballAnalyzer, error) {
	if !IsSupportedLanguage(language) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	// fail at startup rather than on the first request
	if _, err := snowball.Stem("probe", language, true); err != nil {
		return nil, fmt.Errorf("snowball.Stem(%s) > %w", language, err)
	}

	analyzer := &SnowballAnalyzer{
		language:   language,
		stopWords:  languageStopWords(language),
		lemmas:     make(map[string]string),
		stemLemmas: make(map[string]string),
	}
	for _, opt := range append([]SnowballOption{withBuiltinLemmas()}, opts...) {
		if err := opt(analyzer); err != nil {
			return nil, err
		}
	}
	return analyzer, nil
}

func (a *SnowballAnalyzer) Language() string {
	return a.language
}

func (a *SnowballAnalyzer) Analyze(ctx context.Context, text string) ([]Token, error) {
	words := strings.Fields(text)
	tokens := make([]Token, 0, len(words))
	formByStem := make(map[string]string)
	for _, word := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		word = strings.ToLower(word)
		_, isStop := a.stopWords[word]
		tokens = append(tokens, Token{
			Text:    word,
			Lemma:   a.lemma(word, formByStem),
			IsAlpha: isAlpha(word),
			IsStop:  isStop,
		})
	}
	return tokens, nil
}

func (a *SnowballAnalyzer) lemma(word string, formByStem map[string]string) string {
	stem, err := snowball.Stem(word, a.language, true)
	if err != nil || stem == "" {
		stem = word
	}

	if lemma, ok := a.lemmas[word]; ok {
		if _, seen := formByStem[stem]; !seen {
			formByStem[stem] = lemma
		}
		return lemma
	}
	if lemma, ok := a.stemLemmas[stem]; ok {
		return lemma
	}
	if form, ok := formByStem[stem]; ok {
		return form
	}
	formByStem[stem] = word
	return word
}

func isAlpha(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
