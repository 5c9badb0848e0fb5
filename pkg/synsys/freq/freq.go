package freq

import "sort"

// Table maintains lemma occurrence counts in first-seen order.
type Table struct {
	counts map[string]int
	order  []string
	total  int
}

// Ranked is a lemma with its occurrence count.
type Ranked struct {
	Lemma string
	Count int
}

// NewTable creates an empty frequency table
func NewTable() *Table {
	return &Table{counts: make(map[string]int)}
}

// Count tallies a lemma sequence into a new table.
func Count(lemmas []string) *Table {
	t := NewTable()
	for _, l := range lemmas {
		t.Add(l)
	}
	return t
}

// Add records one occurrence of lemma
func (t *Table) Add(lemma string) {
	if _, ok := t.counts[lemma]; !ok {
		t.order = append(t.order, lemma)
	}
	t.counts[lemma]++
	t.total++
}

// Get returns the count for a lemma
func (t *Table) Get(lemma string) int {
	return t.counts[lemma]
}

// Len returns the number of distinct lemmas
func (t *Table) Len() int {
	return len(t.order)
}

// Total returns the number of occurrences counted
func (t *Table) Total() int {
	return t.total
}

// Lemmas returns the distinct lemmas in first-seen order
func (t *Table) Lemmas() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// AtLeast returns lemmas seen at least min times, in first-seen order.
func (t *Table) AtLeast(min int) []Ranked {
	var out []Ranked
	for _, l := range t.order {
		if c := t.counts[l]; c >= min {
			out = append(out, Ranked{Lemma: l, Count: c})
		}
	}
	return out
}

// Ranking returns lemmas seen at least twice, most frequent first. Equal
// counts keep first-seen order.
func (t *Table) Ranking() []Ranked {
	ranked := t.AtLeast(2)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// Rank counts lemmas and returns their ranking.
func Rank(lemmas []string) []Ranked {
	return Count(lemmas).Ranking()
}
