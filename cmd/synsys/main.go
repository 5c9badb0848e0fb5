// Command synsys analyzes Portuguese text for repeated words and suggests
// synonyms. It serves the HTTP API, analyzes text from the command line and
// imports wordnet data into the lexical database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "synsys",
		Short: "Find repeated words in Portuguese text and suggest synonyms",
		Long: `synsys lemmatizes a text, ranks the words it repeats and suggests
up to three synonyms for each, from a wordnet database or a curated table.

Configuration comes from environment variables (SYNSYS_TAGGER, SPACY_URL,
SYNSETS_DB, STOPLIST_PATH, SYNONYMS_PATH, LOG_LEVEL, ...).`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newAnalyzeCmd(),
		newImportCmd(),
	)
	return rootCmd
}

// newLogger builds the process logger: JSON in production, console
// otherwise, both on stderr.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
