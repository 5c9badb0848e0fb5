package report

import (
	"context"
	"crypto/rand"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/freq"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/synonym"
)

// Entry is one repeated lemma in an analysis result.
type Entry struct {
	Word      string `json:"palavra"`
	Frequency int    `json:"frequencia"`
	Synonyms  string `json:"sinonimos"`
	Source    string `json:"fonte,omitempty"`
}

// Report is an identified analysis result.
type Report struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"criado_em"`
	Entries   []Entry   `json:"resultados"`
	Degraded  bool      `json:"degradado,omitempty"`
}

// Total returns the number of repeated lemmas in the report.
func (r Report) Total() int {
	return len(r.Entries)
}

// Suggester produces the synonym suggestion for a lemma.
type Suggester interface {
	Suggest(ctx context.Context, lemma string) synonym.Suggestion
}

// Assembler turns a frequency ranking into report entries.
type Assembler struct {
	suggester Suggester

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewAssembler creates an assembler resolving synonyms through s.
func NewAssembler(s Suggester) *Assembler {
	return &Assembler{
		suggester: s,
		entropy:   ulid.Monotonic(rand.Reader, 0),
		now:       time.Now,
	}
}

// Entries builds one entry per ranked lemma, preserving ranking order. The
// suggester is consulted once per lemma.
func (a *Assembler) Entries(ctx context.Context, ranked []freq.Ranked) []Entry {
	entries := make([]Entry, 0, len(ranked))
	for _, r := range ranked {
		s := synonym.Suggestion{Text: synonym.NoSuggestion, Tier: synonym.TierNone}
		if a.suggester != nil {
			s = a.suggester.Suggest(ctx, r.Lemma)
		}
		entries = append(entries, Entry{
			Word:      Capitalize(r.Lemma),
			Frequency: r.Count,
			Synonyms:  s.Text,
			Source:    s.Tier,
		})
	}
	return entries
}

// New wraps entries in a report with a fresh ULID.
func (a *Assembler) New(entries []Entry, degraded bool) Report {
	if entries == nil {
		entries = []Entry{}
	}

	a.mu.Lock()
	now := a.now()
	id := ulid.MustNew(ulid.Timestamp(now), a.entropy).String()
	a.mu.Unlock()

	return Report{
		ID:        id,
		CreatedAt: now.UTC(),
		Entries:   entries,
		Degraded:  degraded,
	}
}

// Capitalize upper-cases the first letter and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
