package stoplist

import (
	"sort"
	"strings"
)

// DefaultExtra lists near-functional Portuguese words that the annotation
// engine's own stop-list lets through: casual auxiliaries, light verbs and
// discourse fillers.
var DefaultExtra = []string{"hoje", "pra", "ta", "vou", "ser", "ter", "ir", "fazer", "dar"}

// Manager holds the extra stop-list applied to lemmas after tagging.
// It is built once at startup and only read afterwards.
type Manager struct {
	stops map[string]struct{}
}

// NewManager creates a new stoplist manager
func NewManager(initialStops []string) *Manager {
	stops := make(map[string]struct{}, len(initialStops))
	for _, s := range initialStops {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		stops[s] = struct{}{}
	}
	return &Manager{stops: stops}
}

// Default returns a manager seeded with DefaultExtra.
func Default() *Manager {
	return NewManager(DefaultExtra)
}

// IsStop checks if a lemma is a stopword. The check is case-insensitive.
func (m *Manager) IsStop(lemma string) bool {
	if m == nil {
		return false
	}
	_, ok := m.stops[strings.ToLower(lemma)]
	return ok
}

// Len returns the number of stopwords
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	return len(m.stops)
}

// All returns all stopwords in alphabetical order
func (m *Manager) All() []string {
	if m == nil {
		return nil
	}
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}
