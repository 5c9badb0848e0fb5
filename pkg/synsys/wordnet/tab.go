// Package wordnet reads Open Multilingual Wordnet data into synsets for the
// lexical database.
package wordnet

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/internalerr"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/store"
)

// ParseTab reads an OMW tab file (synset<TAB>type<TAB>value).
//
// Only lemma rows are used. The type column is either "lemma" or
// "<lang>:lemma"; prefixed rows for another language are skipped. Synsets
// come back in first-appearance order with members in file order.
func ParseTab(r io.Reader, lang string) ([]store.Synset, error) {
	var (
		out   []store.Synset
		index = make(map[string]int)
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d: want 3 tab-separated fields, got %d",
				internalerr.ErrInvalidInput, lineNo, len(fields))
		}

		if !isLemmaRow(fields[1], lang) {
			continue
		}

		id := strings.TrimSpace(fields[0])
		word := strings.TrimSpace(fields[2])
		if id == "" || word == "" {
			continue
		}

		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, store.Synset{ID: id})
		}
		out[i].Words = append(out[i].Words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func isLemmaRow(kind, lang string) bool {
	kind = strings.TrimSpace(kind)
	if kind == "lemma" {
		return true
	}
	prefix, rest, ok := strings.Cut(kind, ":")
	return ok && rest == "lemma" && (lang == "" || prefix == lang)
}
