package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bredscc/synsys-text-analyzer/pkg/synsys"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/config"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/ingest"
	"github.com/bredscc/synsys-text-analyzer/pkg/synsys/report"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		file    string
		format  string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Analyze text given as arguments, a file or stdin",
		Example: `  synsys analyze "O sol brilha. O sol é quente."
  synsys analyze --file artigo.html --format html --json
  cat texto.txt | synsys analyze`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			text, err := readInput(cmd.InOrStdin(), file, args)
			if err != nil {
				return err
			}

			analyzer, comp, err := buildAnalyzer(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			defer comp.Close()

			rep, err := analyzer.Report(cmd.Context(), synsys.Request{Text: text, Format: format})
			if err != nil {
				logger.Error("Analysis failed", zap.Error(err))
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				s, err := report.FormatJSON(rep.Entries)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
				return nil
			}
			fmt.Fprintln(out, report.FormatTable(rep.Entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read text from file instead of arguments")
	cmd.Flags().StringVar(&format, "format", ingest.FormatText, "input format: texto or html")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print results as JSON")
	return cmd
}

// readInput picks the text source: arguments, then --file, then stdin.
func readInput(stdin io.Reader, file string, args []string) (string, error) {
	if len(args) > 0 && file != "" {
		return "", fmt.Errorf("give text as arguments or --file, not both")
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
