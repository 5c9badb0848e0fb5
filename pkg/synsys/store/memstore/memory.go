package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/internalerr"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/store"
)

// Store is an in-memory store.Store used as a test double for the sqlite
// lexical database. FailWith injects lookup errors.
type Store struct {
	mu      sync.RWMutex
	records []record
	index   map[recordKey]int
	err     error
}

type recordKey struct {
	ID   string
	Lang string
}

type record struct {
	key   recordKey
	words []string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{index: make(map[recordKey]int)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// FailWith makes every subsequent lookup return err. Passing nil restores
// normal behavior.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Synsets implements store.SynonymSource.
func (s *Store) Synsets(ctx context.Context, lemma, lang string) ([]store.Synset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return nil, s.err
	}

	key := store.WordKey(lemma)
	if key == "" {
		return nil, nil
	}

	var out []store.Synset
	for _, rec := range s.records {
		if rec.key.Lang != lang || !hasKey(rec.words, key) {
			continue
		}
		words := make([]string, len(rec.words))
		copy(words, rec.words)
		out = append(out, store.Synset{ID: rec.key.ID, Words: words})
	}
	return out, nil
}

// UpsertSynsets implements store.Store.
func (s *Store) UpsertSynsets(ctx context.Context, lang string, sets []store.Synset) error {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return fmt.Errorf("%w: empty language", internalerr.ErrInvalidInput)
	}
	for _, set := range sets {
		if strings.TrimSpace(set.ID) == "" {
			return fmt.Errorf("%w: synset without id", internalerr.ErrInvalidInput)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, set := range sets {
		k := recordKey{ID: set.ID, Lang: lang}
		words := uniqueWords(set.Words)
		if i, ok := s.index[k]; ok {
			s.records[i].words = words
			continue
		}
		s.index[k] = len(s.records)
		s.records = append(s.records, record{key: k, words: words})
	}
	return nil
}

// Stats implements store.Store.
func (s *Store) Stats(ctx context.Context) (store.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := store.Stats{Synsets: int64(len(s.records))}
	for _, rec := range s.records {
		st.Words += int64(len(rec.words))
	}
	return st, nil
}

func hasKey(words []string, key string) bool {
	for _, w := range words {
		if store.WordKey(w) == key {
			return true
		}
	}
	return false
}

func uniqueWords(in []string) []string {
	set := make(map[string]struct{}, len(in))
	var out []string
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := set[v]; ok {
			continue
		}
		set[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
