package ingest

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/stoplist"
)

// Normalizer turns raw text into the sequence of lowercase lemmas worth
// counting.
type Normalizer struct {
	tagger annotate.Tagger
	extra  *stoplist.Manager
}

// NewNormalizer creates a normalizer. A nil tagger puts the normalizer in
// degraded mode where every text yields no lemmas.
func NewNormalizer(tagger annotate.Tagger, extra *stoplist.Manager) *Normalizer {
	return &Normalizer{tagger: tagger, extra: extra}
}

// Available reports whether an annotation engine is attached.
func (n *Normalizer) Available() bool {
	return n.tagger != nil
}

// Lemmas tags text and returns the lemmas of the tokens that pass Keep, in
// text order. Blank text returns nil without calling the tagger.
func (n *Normalizer) Lemmas(ctx context.Context, text string) ([]string, error) {
	if n.tagger == nil || strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tokens, err := n.tagger.Tag(ctx, norm.NFC.String(text))
	if err != nil {
		return nil, err
	}

	var lemmas []string
	for _, tok := range tokens {
		if lemma, ok := n.Keep(tok); ok {
			lemmas = append(lemmas, lemma)
		}
	}
	return lemmas, nil
}

// Keep applies the token filter and returns the canonical lemma.
func (n *Normalizer) Keep(tok annotate.Token) (string, bool) {
	if tok.IsPunct || tok.IsSpace || tok.IsStop || tok.LikeNum || !tok.IsAlpha {
		return "", false
	}

	lemma := canonical(tok.Lemma)
	if lemma == "" {
		return "", false
	}
	if n.extra.IsStop(lemma) {
		return "", false
	}
	return lemma, true
}

func canonical(lemma string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(lemma)))
}
