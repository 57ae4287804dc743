package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/galemark/clausewitz"
	"github.com/galemark/clausewitz/clauerr"
	"github.com/galemark/clausewitz/internal/cliconfig"
)

var (
	filterFlag     string
	filterPreset   string
	jsonErrorsFlag bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a Clausewitz-format file and print the resulting JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&filterFlag, "filter", "", "inline JSON filter document (default: include everything)")
	parseCmd.Flags().StringVar(&filterPreset, "preset", "", "named filter preset from clausewitz.yml")
	parseCmd.Flags().BoolVar(&jsonErrorsFlag, "json-errors", false, "emit parse errors as JSON instead of a formatted terminal message")
}

func newLogger() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func runParse(cmd *cobra.Command, args []string) error {
	traceID := uuid.New().String()
	logger := newLogger().With(zap.String("trace_id", traceID))
	defer logger.Sync()

	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read input file", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("read %s: %w", path, err)
	}

	filter, err := resolveFilter(cmd, logger)
	if err != nil {
		return err
	}

	logger.Info("parsing", zap.String("path", path))
	value, err := clausewitz.Parse(cmd.Context(), string(source), filter)
	if err != nil {
		return reportParseError(err, string(source), logger)
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// resolveFilter picks the filter to parse with, in priority order:
// --filter (inline JSON), --preset (named, from clausewitz.yml), an
// interactive prompt when stdin is a terminal, neither flag was given
// and clausewitz.yml defines at least one preset, and otherwise
// FilterAll.
func resolveFilter(cmd *cobra.Command, logger *zap.Logger) (clausewitz.Filter, error) {
	if filterFlag != "" {
		var f clausewitz.Filter
		if err := json.Unmarshal([]byte(filterFlag), &f); err != nil {
			return clausewitz.Filter{}, fmt.Errorf("invalid --filter: %w", err)
		}
		return f, nil
	}

	cfg, err := cliconfig.Load()
	if err != nil {
		logger.Warn("failed to load clausewitz.yml, continuing without presets", zap.Error(err))
		cfg = &cliconfig.Config{}
	}

	if filterPreset != "" {
		return presetFilter(cfg, filterPreset)
	}

	if len(cfg.FilterPresets) > 0 && isTerminal(os.Stdin) {
		var chosen string
		prompt := &survey.Select{
			Message: "Choose a filter preset:",
			Options: append([]string{"(include everything)"}, cfg.PresetNames()...),
		}
		if err := survey.AskOne(prompt, &chosen); err != nil {
			return clausewitz.Filter{}, fmt.Errorf("filter selection cancelled: %w", err)
		}
		if chosen == "(include everything)" {
			return clausewitz.FilterAll(), nil
		}
		return presetFilter(cfg, chosen)
	}

	return clausewitz.FilterAll(), nil
}

func presetFilter(cfg *cliconfig.Config, name string) (clausewitz.Filter, error) {
	raw, ok := cfg.FilterPresets[name]
	if !ok {
		return clausewitz.Filter{}, fmt.Errorf("no such filter preset: %s", name)
	}
	var f clausewitz.Filter
	if err := json.Unmarshal(raw, &f); err != nil {
		return clausewitz.Filter{}, fmt.Errorf("invalid preset %s: %w", name, err)
	}
	return f, nil
}

func reportParseError(err error, source string, logger *zap.Logger) error {
	var d *clauerr.Diagnostic
	if diag, ok := err.(*clauerr.Diagnostic); ok {
		d = diag
	}
	if d == nil {
		logger.Error("parse failed", zap.Error(err))
		return err
	}

	clauerr.Enrich(d, source)
	logger.Error("parse failed", zap.String("kind", d.Kind.String()), zap.Int("line", d.Location.Line))

	if jsonErrorsFlag {
		out, mErr := json.Marshal(d)
		if mErr != nil {
			return mErr
		}
		fmt.Fprintln(os.Stderr, string(out))
	} else {
		fmt.Fprintln(os.Stderr, d.FormatForTerminal())
	}
	return fmt.Errorf("parse failed")
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
