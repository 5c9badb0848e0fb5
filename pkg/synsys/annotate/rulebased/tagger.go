// Package rulebased implements a dependency-free Portuguese tagger used when no
// spaCy sidecar is configured. It tokenizes on Unicode classes, flags
// punctuation, whitespace, numerals and stop-words, and lemmatizes through a
// lookup table followed by plural suffix rules.
package rulebased

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate"
)

// Tagger is the built-in annotate.Tagger. It is immutable after New and safe
// for concurrent use.
type Tagger struct {
	stops   map[string]struct{}
	numbers map[string]struct{}
	lemmas  map[string]string
	rules   []SuffixRule
}

// New creates a tagger from the given resources.
func New(res *Resources) *Tagger {
	t := &Tagger{
		stops:   make(map[string]struct{}, len(res.StopWords)),
		numbers: make(map[string]struct{}, len(res.NumberWords)),
		lemmas:  make(map[string]string, len(res.Lemmas)),
		rules:   append([]SuffixRule(nil), res.SuffixRules...),
	}
	for _, w := range res.StopWords {
		t.stops[w] = struct{}{}
	}
	for _, w := range res.NumberWords {
		t.numbers[w] = struct{}{}
	}
	for form, lemma := range res.Lemmas {
		t.lemmas[form] = lemma
	}
	return t
}

// NewDefault creates a tagger backed by the embedded Portuguese resources.
func NewDefault() (*Tagger, error) {
	res, err := DefaultResources()
	if err != nil {
		return nil, err
	}
	return New(res), nil
}

// Tag splits text into word, number, punctuation and whitespace tokens.
// A single space between tokens is not emitted; longer whitespace runs and
// line breaks are.
func (t *Tagger) Tag(ctx context.Context, text string) ([]annotate.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runes := []rune(norm.NFC.String(text))
	var tokens []annotate.Token

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			j := i
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			if ws := string(runes[i:j]); ws != " " {
				tokens = append(tokens, annotate.Token{Text: ws, Lemma: ws, IsSpace: true})
			}
			i = j

		case isWordRune(r):
			j := i + 1
			for j < len(runes) {
				if isWordRune(runes[j]) {
					j++
					continue
				}
				// Keep decimal and thousands separators inside numbers: 3,5 and 1.000
				if (runes[j] == '.' || runes[j] == ',') && j+1 < len(runes) &&
					unicode.IsDigit(runes[j-1]) && unicode.IsDigit(runes[j+1]) {
					j += 2
					continue
				}
				break
			}
			tokens = append(tokens, t.wordToken(string(runes[i:j])))
			i = j

		default:
			s := string(r)
			tokens = append(tokens, annotate.Token{Text: s, Lemma: s, IsPunct: unicode.IsPunct(r)})
			i++
		}
	}

	return tokens, nil
}

func (t *Tagger) wordToken(text string) annotate.Token {
	lower := strings.ToLower(text)

	tok := annotate.Token{
		Text:    text,
		IsAlpha: isAlpha(text),
	}
	_, tok.IsStop = t.stops[lower]
	_, numberWord := t.numbers[lower]
	tok.LikeNum = numberWord || isNumeric(lower)

	switch {
	case !tok.IsAlpha || tok.LikeNum:
		tok.Lemma = lower
	case tok.IsStop:
		tok.Lemma = t.lookup(lower)
	default:
		tok.Lemma = t.lemmatize(lower)
	}
	return tok
}

func (t *Tagger) lookup(lower string) string {
	if lemma, ok := t.lemmas[lower]; ok {
		return lemma
	}
	return lower
}

// lemmatize resolves a lowercase word: lookup first, then the first matching
// suffix rule, otherwise the word itself.
func (t *Tagger) lemmatize(lower string) string {
	if lemma, ok := t.lemmas[lower]; ok {
		return lemma
	}
	n := utf8.RuneCountInString(lower)
	for _, rule := range t.rules {
		if n < rule.MinLen || !strings.HasSuffix(lower, rule.Suffix) {
			continue
		}
		return strings.TrimSuffix(lower, rule.Suffix) + rule.Replace
	}
	return lower
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.Is(unicode.Mn, r) {
			return false
		}
	}
	return s != ""
}

// isNumeric returns true if the token contains only digits and separators.
func isNumeric(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '.' || r == ',':
		default:
			return false
		}
	}
	return digits > 0
}
