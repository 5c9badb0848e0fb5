// Package synonym resolves vocabulary suggestions for a lemma through an
// ordered chain of tiers: the lexical database, then the curated table, then
// a fixed sentinel.
package synonym

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/lexicon"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/metrics"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/store"
)

// NoSuggestion is returned when no tier has anything for a lemma. It never
// collides with a real suggestion list.
const NoSuggestion = "N/A - Sugestões de vocabulário"

// MaxSuggestions caps how many words a suggestion lists.
const MaxSuggestions = 3

// minWordRunes is the shortest candidate the dynamic tier accepts.
const minWordRunes = 3

// Tier names, as reported in Suggestion.Tier.
const (
	TierDynamic = "dynamic"
	TierStatic  = "static"
	TierNone    = "none"
)

// Resolver is one tier of the chain. It returns candidate words in
// preference order; no words means the next tier is consulted.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, lemma string) []string
}

// Suggestion is the outcome of a chain lookup.
type Suggestion struct {
	Text string
	Tier string
}

// Chain consults resolvers in order; the first non-empty answer wins.
type Chain struct {
	tiers   []Resolver
	metrics *metrics.Collector
}

// NewChain builds a chain over the given tiers. Nil tiers are skipped.
func NewChain(m *metrics.Collector, tiers ...Resolver) *Chain {
	c := &Chain{metrics: m}
	for _, t := range tiers {
		if t != nil {
			c.tiers = append(c.tiers, t)
		}
	}
	return c
}

// Suggest returns the suggestion for lemma. The text is never empty.
func (c *Chain) Suggest(ctx context.Context, lemma string) Suggestion {
	for _, tier := range c.tiers {
		words := tier.Resolve(ctx, lemma)
		if len(words) == 0 {
			continue
		}
		c.metrics.ObserveSynonym(tier.Name())
		return Suggestion{Text: Format(words), Tier: tier.Name()}
	}
	c.metrics.ObserveSynonym(TierNone)
	return Suggestion{Text: NoSuggestion, Tier: TierNone}
}

// Format joins up to MaxSuggestions words with ", ". No words formats as
// NoSuggestion.
func Format(words []string) string {
	if len(words) == 0 {
		return NoSuggestion
	}
	if len(words) > MaxSuggestions {
		words = words[:MaxSuggestions]
	}
	return strings.Join(words, ", ")
}

// Dynamic resolves synonyms from the lexical database.
type Dynamic struct {
	src     store.SynonymSource
	lang    string
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewDynamic creates the database tier for lang.
func NewDynamic(src store.SynonymSource, lang string, logger *zap.Logger, m *metrics.Collector) *Dynamic {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dynamic{src: src, lang: lang, logger: logger, metrics: m}
}

// Name implements Resolver.
func (d *Dynamic) Name() string { return TierDynamic }

// Resolve flattens every synset containing lemma into one candidate list.
// Lookup failures are logged and count as no candidates.
func (d *Dynamic) Resolve(ctx context.Context, lemma string) []string {
	if d == nil || d.src == nil {
		return nil
	}

	sets, err := d.src.Synsets(ctx, lemma, d.lang)
	if err != nil {
		d.logger.Warn("synonym lookup failed",
			zap.String("lemma", lemma),
			zap.String("lang", d.lang),
			zap.Error(err))
		d.metrics.ObserveSourceError()
		return nil
	}
	return Candidates(lemma, sets)
}

// Candidates flattens synsets into at most MaxSuggestions display words.
// Underscores become spaces. Duplicates (case-insensitive), the lemma itself
// and words of fewer than three letters are dropped.
func Candidates(lemma string, sets []store.Synset) []string {
	self := store.WordKey(lemma)
	seen := make(map[string]struct{})

	var out []string
	for _, set := range sets {
		for _, w := range set.Words {
			w = strings.TrimSpace(strings.ReplaceAll(w, "_", " "))
			key := store.WordKey(w)
			if key == self || utf8.RuneCountInString(key) < minWordRunes {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, w)
			if len(out) == MaxSuggestions {
				return out
			}
		}
	}
	return out
}

// Static resolves synonyms from the curated table.
type Static struct {
	lex *lexicon.Lexicon
}

// NewStatic creates the curated-table tier.
func NewStatic(lex *lexicon.Lexicon) *Static {
	return &Static{lex: lex}
}

// Name implements Resolver.
func (s *Static) Name() string { return TierStatic }

// Resolve returns the first MaxSuggestions table entries for lemma.
func (s *Static) Resolve(ctx context.Context, lemma string) []string {
	if s == nil {
		return nil
	}
	words, ok := s.lex.Lookup(lemma)
	if !ok {
		return nil
	}
	if len(words) > MaxSuggestions {
		words = words[:MaxSuggestions]
	}
	return words
}
