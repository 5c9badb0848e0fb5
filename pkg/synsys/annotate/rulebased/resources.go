package rulebased

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed resources/pt.yaml
var defaultResourcesYAML []byte

// Resources holds the word lists driving the built-in tagger.
type Resources struct {
	StopWords   []string          `yaml:"stop_words"`
	NumberWords []string          `yaml:"number_words"`
	Lemmas      map[string]string `yaml:"lemmas"`
	SuffixRules []SuffixRule      `yaml:"suffix_rules"`
}

// SuffixRule rewrites a word ending. Rules apply only to words of at least
// MinLen runes.
type SuffixRule struct {
	Suffix  string `yaml:"suffix"`
	Replace string `yaml:"replace"`
	MinLen  int    `yaml:"min_len"`
}

var (
	defaultOnce sync.Once
	defaultRes  *Resources
	defaultErr  error
)

// DefaultResources returns the embedded Portuguese resources. They are parsed
// once and shared; callers must not modify the result.
func DefaultResources() (*Resources, error) {
	defaultOnce.Do(func() {
		defaultRes, defaultErr = ParseResources(defaultResourcesYAML)
	})
	return defaultRes, defaultErr
}

// LoadResources loads tagger resources from a YAML file.
func LoadResources(path string) (*Resources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseResources(data)
}

// ParseResources decodes YAML resources and normalizes every entry to
// lowercase NFC.
func ParseResources(data []byte) (*Resources, error) {
	var res Resources
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parse tagger resources: %w", err)
	}

	res.StopWords = normalizeList(res.StopWords)
	res.NumberWords = normalizeList(res.NumberWords)

	lemmas := make(map[string]string, len(res.Lemmas))
	for form, lemma := range res.Lemmas {
		lemmas[normalizeWord(form)] = normalizeWord(lemma)
	}
	res.Lemmas = lemmas

	for i, rule := range res.SuffixRules {
		if rule.Suffix == "" {
			return nil, fmt.Errorf("suffix rule %d: empty suffix", i)
		}
		res.SuffixRules[i].Suffix = normalizeWord(rule.Suffix)
		res.SuffixRules[i].Replace = normalizeWord(rule.Replace)
	}

	return &res, nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, w := range in {
		w = normalizeWord(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

func normalizeWord(w string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(w)))
}
