package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed data/default.yaml
var defaultYAML []byte

// Lexicon is the curated synonym table: lemma -> ordered synonyms.
//
// Entries are kept in file order so suggestions are reproducible. Lookups are
// case-insensitive. A Lexicon is populated once and then only read, so it is
// safe to share between goroutines after construction.
type Lexicon struct {
	synonyms map[string][]string
	lemmas   []string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{synonyms: make(map[string][]string)}
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
	defaultErr  error
)

// Default returns the built-in Portuguese table. It is parsed once and shared.
func Default() (*Lexicon, error) {
	defaultOnce.Do(func() {
		defaultLex, defaultErr = Parse(defaultYAML)
	})
	return defaultLex, defaultErr
}

// LoadFromYAML loads a synonym table from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - lemma: futuro
//	    words: [porvir, destino, amanhã, prospecto]
//	  - lemma: sistema
//	    words: [estrutura, mecanismo, modelo, arcabouço]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML synonym table. Repeated lemmas are merged in order.
func Parse(data []byte) (*Lexicon, error) {
	var doc struct {
		Synonyms []struct {
			Lemma string   `yaml:"lemma"`
			Words []string `yaml:"words"`
		} `yaml:"synonyms"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse synonym table: %w", err)
	}

	lex := New()
	for i, entry := range doc.Synonyms {
		if strings.TrimSpace(entry.Lemma) == "" {
			return nil, fmt.Errorf("synonym entry %d: empty lemma", i)
		}
		lex.Add(entry.Lemma, entry.Words)
	}
	return lex, nil
}

// Add appends words to the synonyms of lemma, skipping blanks, the lemma
// itself and words already present.
func (l *Lexicon) Add(lemma string, words []string) {
	key := normalize(lemma)
	if key == "" {
		return
	}

	existing, ok := l.synonyms[key]
	if !ok {
		l.lemmas = append(l.lemmas, key)
	}

	for _, w := range words {
		w = norm.NFC.String(strings.TrimSpace(w))
		if w == "" || strings.EqualFold(w, key) || containsFold(existing, w) {
			continue
		}
		existing = append(existing, w)
	}
	l.synonyms[key] = existing
}

// Lookup returns the synonyms of lemma in table order.
func (l *Lexicon) Lookup(lemma string) ([]string, bool) {
	if l == nil {
		return nil, false
	}
	words, ok := l.synonyms[normalize(lemma)]
	if !ok || len(words) == 0 {
		return nil, false
	}
	out := make([]string, len(words))
	copy(out, words)
	return out, true
}

// Has reports whether lemma has at least one synonym.
func (l *Lexicon) Has(lemma string) bool {
	_, ok := l.Lookup(lemma)
	return ok
}

// Lemmas returns the table's lemmas in insertion order.
func (l *Lexicon) Lemmas() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.lemmas))
	copy(out, l.lemmas)
	return out
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	if l == nil {
		return Stats{}
	}
	total := 0
	for _, words := range l.synonyms {
		total += len(words)
	}
	return Stats{Lemmas: len(l.lemmas), TotalWords: total}
}

// Stats holds statistics about lexicon contents.
type Stats struct {
	Lemmas     int // Number of lemmas with an entry
	TotalWords int // Total synonyms across all entries
}

func normalize(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

func containsFold(list []string, w string) bool {
	for _, existing := range list {
		if strings.EqualFold(existing, w) {
			return true
		}
	}
	return false
}
