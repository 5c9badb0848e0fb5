package report

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/freq"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/synonym"
)

type countingSuggester struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *countingSuggester) Suggest(ctx context.Context, lemma string) synonym.Suggestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = map[string]int{}
	}
	c.calls[lemma]++
	if lemma == "futuro" {
		return synonym.Suggestion{Text: "porvir, destino, amanhã", Tier: synonym.TierStatic}
	}
	return synonym.Suggestion{Text: synonym.NoSuggestion, Tier: synonym.TierNone}
}

func TestCapitalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"sol", "Sol"},
		{"ação", "Ação"},
		{"écran", "Écran"},
		{"tempo vindouro", "Tempo vindouro"},
		{"mcDonald", "McDonald"},
		{"", ""},
		{"x", "X"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Capitalize(tt.in), "Capitalize(%q)", tt.in)
	}
}

func TestAssemblerEntries(t *testing.T) {
	s := &countingSuggester{}
	a := NewAssembler(s)

	ranked := []freq.Ranked{{Lemma: "futuro", Count: 3}, {Lemma: "sol", Count: 2}}
	got := a.Entries(context.Background(), ranked)

	want := []Entry{
		{Word: "Futuro", Frequency: 3, Synonyms: "porvir, destino, amanhã", Source: synonym.TierStatic},
		{Word: "Sol", Frequency: 2, Synonyms: synonym.NoSuggestion, Source: synonym.TierNone},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, map[string]int{"futuro": 1, "sol": 1}, s.calls)
}

func TestAssemblerWithoutSuggester(t *testing.T) {
	a := NewAssembler(nil)
	got := a.Entries(context.Background(), []freq.Ranked{{Lemma: "sol", Count: 2}})
	require.Len(t, got, 1)
	assert.Equal(t, synonym.NoSuggestion, got[0].Synonyms)
}

func TestAssemblerNewReport(t *testing.T) {
	a := NewAssembler(nil)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return fixed }

	r := a.New(nil, true)
	assert.NotNil(t, r.Entries)
	assert.Equal(t, 0, r.Total())
	assert.True(t, r.Degraded)
	assert.Equal(t, fixed, r.CreatedAt)

	id, err := ulid.ParseStrict(r.ID)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(fixed), id.Time())
}

func TestAssemblerULIDUniqueness(t *testing.T) {
	a := NewAssembler(nil)

	var (
		mu  sync.Mutex
		ids = make(map[string]bool)
		wg  sync.WaitGroup
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := a.New(nil, false).ID
				mu.Lock()
				if ids[id] {
					t.Errorf("Duplicate ULID generated: %s", id)
				}
				ids[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, ids, 800)
}

func TestFormatTableEmpty(t *testing.T) {
	want := "\n| Palavra Original | Frequência | Sinônimos Sugeridos |\n" +
		"| :--- | :--- | :--- |\n" +
		"| Nenhuma palavra significativa repetida. | - | - |"
	assert.Equal(t, want, FormatTable(nil))
}

func TestFormatTable(t *testing.T) {
	entries := []Entry{
		{Word: "Futuro", Frequency: 2, Synonyms: "porvir, destino, amanhã"},
		{Word: "Sol", Frequency: 2, Synonyms: synonym.NoSuggestion},
	}
	want := "| Palavra Original | Frequência | Sinônimos Sugeridos |\n" +
		"| :--- | :--- | :--- |\n" +
		"| **Futuro** | 2 | porvir, destino, amanhã |\n" +
		"| **Sol** | 2 | N/A - Sugestões de vocabulário |\n"
	assert.Equal(t, want, FormatTable(entries))
}

func TestFormatJSON(t *testing.T) {
	out, err := FormatJSON([]Entry{{Word: "Ação", Frequency: 2, Synonyms: "medidas, iniciativas, providências", Source: synonym.TierStatic}})
	require.NoError(t, err)

	assert.True(t, strings.Contains(out, `"palavra": "Ação"`), out)
	assert.True(t, strings.Contains(out, `"frequencia": 2`), out)
	assert.False(t, strings.HasSuffix(out, "\n"))

	var decoded []Entry
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "medidas, iniciativas, providências", decoded[0].Synonyms)

	empty, err := FormatJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)
}
