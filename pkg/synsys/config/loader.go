package config

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate/rulebased"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/annotate/spacyhttp"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/internalerr"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/lexicon"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/stoplist"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/store"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/store/sqlite"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	StoplistPath    string
	SynonymsPath    string
	SynsetsPath     string
	Tagger          string
	TaggerResources string
	SpacyURL        string
	SpacyModel      string
	Logger          *zap.Logger
}

// Components holds all loaded configuration components
type Components struct {
	// Tagger is nil when no annotation engine could be loaded.
	Tagger     annotate.Tagger
	TaggerErr  error
	ExtraStops *stoplist.Manager
	Static     *lexicon.Lexicon
	// Synsets is nil when no lexical database is configured or it failed
	// to open.
	Synsets store.Store
}

// Close releases the lexical database, if any.
func (c *Components) Close() error {
	if c == nil || c.Synsets == nil {
		return nil
	}
	return c.Synsets.Close()
}

// Load reads all configuration files and returns initialized components.
// Bad or unreadable stop-list and synonym files are errors. An annotation
// engine that cannot be loaded or reached, or a lexical database that cannot
// be opened, is not: the component is left nil. TaggerErr carries the
// tagger's cause for the analyzer to report.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	comp := &Components{}

	// Load stoplist
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.ExtraStops = stoplist.NewManager(sl.Terms)
	} else {
		comp.ExtraStops = stoplist.Default()
	}
	logger.Debug("Extra stop-list loaded",
		zap.Int("count", comp.ExtraStops.Len()),
		zap.Strings("terms", comp.ExtraStops.All()))

	// Load static synonyms
	if l.SynonymsPath != "" {
		lex, err := lexicon.LoadFromYAML(l.SynonymsPath)
		if err != nil {
			return nil, fmt.Errorf("load synonyms: %w", err)
		}
		comp.Static = lex
	} else {
		lex, err := lexicon.Default()
		if err != nil {
			return nil, fmt.Errorf("load default synonyms: %w", err)
		}
		comp.Static = lex
	}

	tagger, err := l.loadTagger(ctx, logger)
	if err != nil {
		var unavailable *taggerUnavailable
		if !errors.As(err, &unavailable) {
			return nil, err
		}
		// The analyzer reports degraded mode once; here it is only traced.
		comp.TaggerErr = unavailable.cause
		logger.Debug("Annotation engine unavailable",
			zap.String("tagger", l.Tagger),
			zap.Error(unavailable.cause))
	} else {
		comp.Tagger = tagger
	}

	// Open lexical database
	if l.SynsetsPath != "" {
		st, err := sqlite.OpenSQLite(ctx, l.SynsetsPath)
		if err != nil {
			logger.Warn("Lexical database unavailable, using curated synonyms only",
				zap.String("path", l.SynsetsPath),
				zap.Error(err))
		} else {
			comp.Synsets = st
		}
	}

	return comp, nil
}

type taggerUnavailable struct {
	cause error
}

func (e *taggerUnavailable) Error() string { return e.cause.Error() }

func (l *Loader) loadTagger(ctx context.Context, logger *zap.Logger) (annotate.Tagger, error) {
	switch l.Tagger {
	case "", TaggerBuiltin:
		if l.TaggerResources == "" {
			t, err := rulebased.NewDefault()
			if err != nil {
				return nil, &taggerUnavailable{cause: fmt.Errorf("%w: built-in resources: %v", internalerr.ErrTaggerUnavailable, err)}
			}
			return t, nil
		}
		res, err := rulebased.LoadResources(l.TaggerResources)
		if err != nil {
			return nil, &taggerUnavailable{cause: fmt.Errorf("%w: load tagger resources: %v", internalerr.ErrTaggerUnavailable, err)}
		}
		return rulebased.New(res), nil

	case TaggerSpacy:
		cfg := spacyhttp.DefaultConfig(l.SpacyURL)
		if l.SpacyModel != "" {
			cfg.Model = l.SpacyModel
		}
		client, err := spacyhttp.New(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx); err != nil {
			return nil, &taggerUnavailable{cause: err}
		}
		return client, nil

	case TaggerNone:
		return nil, &taggerUnavailable{cause: fmt.Errorf("%w: disabled by configuration", internalerr.ErrTaggerUnavailable)}

	default:
		return nil, fmt.Errorf("%w: unknown tagger %q", internalerr.ErrInvalidConfig, l.Tagger)
	}
}
