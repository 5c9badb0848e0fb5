package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/config"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/store/sqlite"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/wordnet"
)

// importBatch is how many synsets are written per transaction.
const importBatch = 1000

func newImportCmd() *cobra.Command {
	var (
		dbPath string
		lang   string
	)

	cmd := &cobra.Command{
		Use:   "import-synsets <omw-tab-file>",
		Short: "Import an Open Multilingual Wordnet tab file into the lexical database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.SynsetsDB
			}
			if dbPath == "" {
				return fmt.Errorf("no database: pass --db or set SYNSETS_DB")
			}
			if lang == "" {
				lang = cfg.Lang
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			sets, err := wordnet.ParseTab(f, lang)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			st, err := sqlite.OpenSQLite(ctx, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			for start := 0; start < len(sets); start += importBatch {
				end := start + importBatch
				if end > len(sets) {
					end = len(sets)
				}
				if err := st.UpsertSynsets(ctx, lang, sets[start:end]); err != nil {
					return fmt.Errorf("import synsets %d-%d: %w", start, end, err)
				}
				logger.Debug("Imported batch", zap.Int("from", start), zap.Int("to", end))
			}

			stats, err := st.Stats(ctx)
			if err != nil {
				return err
			}
			logger.Info("Import finished",
				zap.String("file", args[0]),
				zap.String("lang", lang),
				zap.Int("parsed", len(sets)),
				zap.Int64("synsets", stats.Synsets),
				zap.Int64("words", stats.Words),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d synsets (%d total, %d words) into %s\n",
				len(sets), stats.Synsets, stats.Words, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (default $SYNSETS_DB)")
	cmd.Flags().StringVar(&lang, "lang", "", "wordnet language code (default $SYNSYS_LANG)")
	return cmd
}
