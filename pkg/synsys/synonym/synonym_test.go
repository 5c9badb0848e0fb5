package synonym

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/lexicon"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/metrics"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/store"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/store/memstore"
)

func seeded(t *testing.T, sets ...store.Synset) *memstore.Store {
	t.Helper()
	st := memstore.New()
	require.NoError(t, st.UpsertSynsets(context.Background(), "por", sets))
	return st
}

func defaultLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	return lex
}

func TestCandidates(t *testing.T) {
	sets := []store.Synset{
		{ID: "1", Words: []string{"futuro", "porvir", "Porvir", "fu"}},
		{ID: "2", Words: []string{"FUTURO", "tempo_vindouro", "amanhã", "destino"}},
	}

	got := Candidates("futuro", sets)
	assert.Equal(t, []string{"porvir", "tempo vindouro", "amanhã"}, got)
}

func TestCandidatesProperties(t *testing.T) {
	sets := []store.Synset{
		{ID: "1", Words: []string{"sol", "astro", "Astro", "aa", "ó", "sol", "estrela", "luz", "brilho"}},
	}

	got := Candidates("Sol", sets)
	require.LessOrEqual(t, len(got), MaxSuggestions)

	seen := map[string]bool{}
	for _, w := range got {
		assert.False(t, strings.EqualFold(w, "sol"), "lemma itself must be excluded")
		assert.Greater(t, utf8.RuneCountInString(w), 2, "short words must be excluded")
		assert.False(t, seen[strings.ToLower(w)], "duplicate %q", w)
		seen[strings.ToLower(w)] = true
	}
}

func TestCandidatesCountRunesNotBytes(t *testing.T) {
	// "pão" is three letters but four bytes; "né" is two letters, three bytes
	got := Candidates("comida", []store.Synset{{ID: "1", Words: []string{"né", "pão"}}})
	assert.Equal(t, []string{"pão"}, got)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, NoSuggestion, Format(nil))
	assert.Equal(t, "vital", Format([]string{"vital"}))
	assert.Equal(t, "vital, essencial, chave", Format([]string{"vital", "essencial", "chave", "fundamental"}))
}

func TestChainDynamicFirst(t *testing.T) {
	ctx := context.Background()
	src := seeded(t, store.Synset{ID: "1", Words: []string{"futuro", "vindouro"}})

	chain := NewChain(nil,
		NewDynamic(src, "por", nil, nil),
		NewStatic(defaultLexicon(t)),
	)

	got := chain.Suggest(ctx, "futuro")
	assert.Equal(t, Suggestion{Text: "vindouro", Tier: TierDynamic}, got)
}

func TestChainStaticOnlyWhenDynamicEmpty(t *testing.T) {
	ctx := context.Background()
	src := seeded(t, store.Synset{ID: "1", Words: []string{"sol", "astro"}})

	chain := NewChain(nil,
		NewDynamic(src, "por", nil, nil),
		NewStatic(defaultLexicon(t)),
	)

	got := chain.Suggest(ctx, "sustentabilidade")
	assert.Equal(t, Suggestion{Text: "ecologia, preservação, conservação", Tier: TierStatic}, got)
}

func TestChainDynamicOnlySelfFallsThrough(t *testing.T) {
	// a synset holding only the lemma and short words yields no candidates
	src := seeded(t, store.Synset{ID: "1", Words: []string{"crucial", "ok"}})
	chain := NewChain(nil, NewDynamic(src, "por", nil, nil), NewStatic(defaultLexicon(t)))

	got := chain.Suggest(context.Background(), "crucial")
	assert.Equal(t, "vital, essencial, chave", got.Text)
	assert.Equal(t, TierStatic, got.Tier)
}

func TestChainSentinel(t *testing.T) {
	chain := NewChain(nil, NewDynamic(memstore.New(), "por", nil, nil), NewStatic(defaultLexicon(t)))

	got := chain.Suggest(context.Background(), "sol")
	assert.Equal(t, Suggestion{Text: NoSuggestion, Tier: TierNone}, got)
}

func TestChainSourceFailureFallsThrough(t *testing.T) {
	src := memstore.New()
	src.FailWith(errors.New("database is locked"))

	core, logs := observer.New(zapcore.WarnLevel)
	m := metrics.NewCollector("test")
	chain := NewChain(m, NewDynamic(src, "por", zap.New(core), m), NewStatic(defaultLexicon(t)))

	got := chain.Suggest(context.Background(), "futuro")
	assert.Equal(t, "porvir, destino, amanhã", got.Text)
	assert.Equal(t, TierStatic, got.Tier)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "synonym lookup failed", entry.Message)
	assert.Equal(t, "futuro", entry.ContextMap()["lemma"])
}

func TestChainNilTiers(t *testing.T) {
	var dyn *Dynamic
	chain := NewChain(nil, dyn, nil, NewStatic(nil))

	got := chain.Suggest(context.Background(), "futuro")
	assert.Equal(t, NoSuggestion, got.Text)
}

func TestChainDeterministic(t *testing.T) {
	src := seeded(t,
		store.Synset{ID: "1", Words: []string{"sistema", "estrutura", "mecanismo"}},
		store.Synset{ID: "2", Words: []string{"sistema", "método", "regime"}},
	)
	chain := NewChain(nil, NewDynamic(src, "por", nil, nil), NewStatic(defaultLexicon(t)))

	first := chain.Suggest(context.Background(), "sistema")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, chain.Suggest(context.Background(), "sistema"))
	}
	assert.Equal(t, "estrutura, mecanismo, método", first.Text)
}
