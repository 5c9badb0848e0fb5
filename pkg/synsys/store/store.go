package store

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SynonymSource is the lexical database consulted by the dynamic synonym tier.
type SynonymSource interface {
	// Synsets returns every synset of lang containing lemma, in database
	// order. An unknown lemma yields no synsets and no error.
	Synsets(ctx context.Context, lemma, lang string) ([]Synset, error)
}

// Store is a writable lexical database.
type Store interface {
	SynonymSource

	// UpsertSynsets inserts or replaces synsets of lang, keyed by synset ID.
	UpsertSynsets(ctx context.Context, lang string, sets []Synset) error
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// Synset is a set of words sharing one sense. Multiword members keep the
// wordnet convention of joining parts with underscores.
type Synset struct {
	ID    string
	Words []string
}

// Stats holds counts describing database contents.
type Stats struct {
	Synsets int64
	Words   int64
}

// WordKey is the lookup form of a synset member or lemma: trimmed,
// lowercased and NFC-composed.
func WordKey(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}
