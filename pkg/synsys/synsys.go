// Package synsys finds the words a Portuguese text repeats and suggests
// synonyms for each, so writers can vary their vocabulary.
//
// Analysis runs in three stages. The text is tagged and reduced to
// canonical lemmas (ingest.Normalizer), lemmas seen at least twice are ranked
// by frequency (freq), and every ranked lemma gets a suggestion from the
// lexical database, the curated table, or a fixed sentinel (synonym.Chain).
package synsys

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/freq"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/ingest"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/internalerr"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/lexicon"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/metrics"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/report"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/stoplist"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/store"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/synonym"
)

// DefaultLang is the wordnet language code used when Options.Lang is empty.
const DefaultLang = "por"

// Analyzer is the text analysis facade. It holds only read-only state after
// New and is safe for concurrent use.
type Analyzer struct {
	normalizer *ingest.Normalizer
	assembler  *report.Assembler
	synsets    store.SynonymSource
	logger     *zap.Logger
	metrics    *metrics.Collector
}

// Options configures an Analyzer
type Options struct {
	// Tagger may be nil; the analyzer then runs degraded and reports nothing.
	Tagger annotate.Tagger
	// TaggerErr is why Tagger is nil, if known. It is included in the
	// degraded-mode log.
	TaggerErr error
	// ExtraStops defaults to stoplist.Default().
	ExtraStops *stoplist.Manager
	// Synsets may be nil to skip the lexical database tier.
	Synsets store.SynonymSource
	// Static defaults to lexicon.Default().
	Static  *lexicon.Lexicon
	Lang    string
	Logger  *zap.Logger
	Metrics *metrics.Collector
}

// New creates an Analyzer with the given dependencies. A missing tagger is
// logged once here rather than on every call.
func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	extra := opts.ExtraStops
	if extra == nil {
		extra = stoplist.Default()
	}
	static := opts.Static
	if static == nil {
		lex, err := lexicon.Default()
		if err != nil {
			logger.Error("Built-in synonym table failed to load", zap.Error(err))
		}
		static = lex
	}
	lang := opts.Lang
	if lang == "" {
		lang = DefaultLang
	}

	var dynamic synonym.Resolver
	if opts.Synsets != nil {
		dynamic = synonym.NewDynamic(opts.Synsets, lang, logger, opts.Metrics)
	}
	chain := synonym.NewChain(opts.Metrics, dynamic, synonym.NewStatic(static))

	a := &Analyzer{
		normalizer: ingest.NewNormalizer(opts.Tagger, extra),
		assembler:  report.NewAssembler(chain),
		synsets:    opts.Synsets,
		logger:     logger,
		metrics:    opts.Metrics,
	}

	a.metrics.SetTaggerAvailable(a.Ready())
	if !a.Ready() {
		fields := []zap.Field{}
		if opts.TaggerErr != nil {
			fields = append(fields, zap.Error(opts.TaggerErr))
		}
		logger.Error("No annotation engine loaded, analyses will return empty results", fields...)
	}
	return a
}

// Ready reports whether an annotation engine is loaded.
func (a *Analyzer) Ready() bool {
	return a.normalizer.Available()
}

// Close releases the lexical database if the analyzer was given one that
// needs closing.
func (a *Analyzer) Close() error {
	if c, ok := a.synsets.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Analyze returns the repeated lemmas of text, most frequent first, each with
// a synonym suggestion. Blank text and degraded mode yield an empty result.
// Errors wrap internalerr.ErrAnalysis.
func (a *Analyzer) Analyze(ctx context.Context, text string) (entries []report.Entry, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Analysis panicked", zap.Any("panic", r), zap.Stack("stack"))
			entries, err = nil, fmt.Errorf("%w: %v", internalerr.ErrAnalysis, r)
		}
		a.observe(entries, err, time.Since(start))
	}()

	lemmas, err := a.normalizer.Lemmas(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrAnalysis, err)
	}

	ranked := freq.Rank(lemmas)
	entries = a.assembler.Entries(ctx, ranked)

	a.logger.Debug("Analyzed text",
		zap.Int("lemmas", len(lemmas)),
		zap.Int("repeated", len(entries)),
	)
	return entries, nil
}

func (a *Analyzer) observe(entries []report.Entry, err error, d time.Duration) {
	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case !a.Ready():
		outcome = metrics.OutcomeDegraded
	}
	a.metrics.ObserveAnalysis(outcome, len(entries), d)
}

// Request is an analysis request in one of the ingest formats.
type Request struct {
	Text   string
	Format string
}

// Report analyzes req and wraps the result with an ID and timestamp.
func (a *Analyzer) Report(ctx context.Context, req Request) (report.Report, error) {
	text, err := ingest.ExtractText(req.Text, req.Format)
	if err != nil {
		return report.Report{}, err
	}

	entries, err := a.Analyze(ctx, text)
	if err != nil {
		return report.Report{}, err
	}
	return a.assembler.New(entries, !a.Ready()), nil
}
