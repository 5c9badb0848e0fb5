package ingest

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate/rulebased"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/stoplist"
)

func word(text, lemma string) annotate.Token {
	return annotate.Token{Text: text, Lemma: lemma, IsAlpha: true}
}

func staticTagger(tokens ...annotate.Token) annotate.Tagger {
	return annotate.TaggerFunc(func(ctx context.Context, text string) ([]annotate.Token, error) {
		return tokens, nil
	})
}

func TestNormalizerFilters(t *testing.T) {
	tagger := staticTagger(
		word("Ações", "Ação"),
		annotate.Token{Text: ",", Lemma: ",", IsPunct: true},
		annotate.Token{Text: "\n\n", Lemma: "\n\n", IsSpace: true},
		annotate.Token{Text: "o", Lemma: "o", IsStop: true, IsAlpha: true},
		annotate.Token{Text: "dez", Lemma: "dez", LikeNum: true, IsAlpha: true},
		annotate.Token{Text: "covid19", Lemma: "covid19"},
		word("fazemos", "fazer"),
		word("Hoje", "hoje"),
		word("sol", "sol"),
	)

	n := NewNormalizer(tagger, stoplist.Default())
	lemmas, err := n.Lemmas(context.Background(), "irrelevant")
	if err != nil {
		t.Fatalf("Lemmas: %v", err)
	}

	want := []string{"ação", "sol"}
	if !reflect.DeepEqual(lemmas, want) {
		t.Errorf("Lemmas = %v, want %v", lemmas, want)
	}
}

func TestNormalizerPreservesOrder(t *testing.T) {
	tagger := staticTagger(word("b", "beta"), word("a", "alfa"), word("b", "beta"))
	n := NewNormalizer(tagger, stoplist.NewManager(nil))

	lemmas, err := n.Lemmas(context.Background(), "b a b")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"beta", "alfa", "beta"}
	if !reflect.DeepEqual(lemmas, want) {
		t.Errorf("Lemmas = %v, want %v", lemmas, want)
	}
}

func TestNormalizerBlankTextSkipsTagger(t *testing.T) {
	called := false
	tagger := annotate.TaggerFunc(func(ctx context.Context, text string) ([]annotate.Token, error) {
		called = true
		return nil, nil
	})
	n := NewNormalizer(tagger, stoplist.Default())

	for _, text := range []string{"", "   ", "\n\t"} {
		lemmas, err := n.Lemmas(context.Background(), text)
		if err != nil {
			t.Fatalf("blank text should not error: %v", err)
		}
		if len(lemmas) != 0 {
			t.Errorf("blank text should yield no lemmas, got %v", lemmas)
		}
	}
	if called {
		t.Error("tagger should not be called for blank text")
	}
}

func TestNormalizerWithoutTagger(t *testing.T) {
	n := NewNormalizer(nil, stoplist.Default())

	if n.Available() {
		t.Error("normalizer without tagger should not be available")
	}

	lemmas, err := n.Lemmas(context.Background(), "O sol brilha. O sol é quente.")
	if err != nil {
		t.Fatalf("degraded mode should not error: %v", err)
	}
	if len(lemmas) != 0 {
		t.Errorf("degraded mode should yield no lemmas, got %v", lemmas)
	}
}

func TestNormalizerTaggerError(t *testing.T) {
	boom := errors.New("boom")
	tagger := annotate.TaggerFunc(func(ctx context.Context, text string) ([]annotate.Token, error) {
		return nil, boom
	})
	n := NewNormalizer(tagger, nil)

	if _, err := n.Lemmas(context.Background(), "texto"); !errors.Is(err, boom) {
		t.Errorf("expected tagger error, got %v", err)
	}
}

func TestNormalizerWithBuiltinTagger(t *testing.T) {
	tagger, err := rulebased.NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	n := NewNormalizer(tagger, stoplist.Default())

	lemmas, err := n.Lemmas(context.Background(), "O sol brilha. O sol é quente.")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"sol", "brilhar", "sol", "quente"}
	if !reflect.DeepEqual(lemmas, want) {
		t.Errorf("Lemmas = %v, want %v", lemmas, want)
	}
}

func TestKeepNormalizesLemma(t *testing.T) {
	n := NewNormalizer(nil, nil)

	// decomposed "Ação"
	lemma, ok := n.Keep(word("Ac\u0327a\u0303o", "  Ac\u0327a\u0303o "))
	if !ok {
		t.Fatal("token should be kept")
	}
	if lemma != "ação" {
		t.Errorf("lemma = %q, want composed lowercase 'ação'", lemma)
	}

	if _, ok := n.Keep(word("x", "")); ok {
		t.Error("empty lemma should be dropped")
	}
}
