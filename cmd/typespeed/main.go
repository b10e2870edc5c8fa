// Package main provides the CLI entrypoint for typespeed.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typespeed/internal/config"
	"github.com/verte-zerg/typespeed/internal/diag"
	"github.com/verte-zerg/typespeed/internal/engine"
	"github.com/verte-zerg/typespeed/internal/generator"
	"github.com/verte-zerg/typespeed/internal/model"
	"github.com/verte-zerg/typespeed/internal/store"
	"github.com/verte-zerg/typespeed/internal/tui"
	"github.com/verte-zerg/typespeed/internal/wordbank"
)

const (
	defaultDurationSec  = 60.0
	defaultWords        = 900
	defaultTickInterval = 10 * time.Millisecond
	defaultSampleWords  = 10

	defaultLogMaxSizeMB  = 5
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 28
)

var (
	testDuration float64
	testWords    int
	testSeed     int64
	testVerbose  bool

	sampleCount int
	sampleSeed  int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typespeed",
		Short:         "Terminal typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().Float64Var(&testDuration, "duration", defaultDurationSec, "test duration in seconds")
	rootCmd.Flags().IntVar(&testWords, "words", defaultWords, "words per test")
	rootCmd.Flags().Int64Var(&testSeed, "seed", 0, "word selection seed (0 = random)")
	rootCmd.Flags().BoolVar(&testVerbose, "verbose", false, "write debug entries to the log")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHighScoreCmd())
	rootCmd.AddCommand(newWordsCmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.EnvOverrides()
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidConfiguration, err)
	}
	cfg, err := resolveConfig(cmd, fileCfg.Test, envCfg)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("typespeed needs an interactive terminal")
	}

	level := slog.LevelInfo
	if testVerbose {
		level = slog.LevelDebug
	}
	logger, err := diag.Setup(config.DefaultLogDir(), level, rotationFromConfig(fileCfg.Log))
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		if cerr := logger.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	bank, err := wordbank.Default()
	if err != nil {
		logger.LogError("load word bank", err)
		return fmt.Errorf("failed to load word bank: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.LogError("open store", err)
		return fmt.Errorf("%w: failed to open db: %w", model.ErrPersistence, err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, bank, newGenerator(cfg.Seed), st, logger)
	if err != nil {
		return fmt.Errorf("failed to prepare test: %w", err)
	}
	logger.Slog().Debug("starting",
		"duration", cfg.Duration.String(),
		"words", cfg.Words,
		"seed", cfg.Seed,
		"log", logger.Path(),
	)

	program := tea.NewProgram(m, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		logger.LogError("run tui", err)
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if fm, ok := final.(*tui.Model); ok && fm.Err() != nil {
		if res := fm.Result(); res != nil {
			logErrf("FINAL METRICS: %d CPM (%d WPM)\n", res.CPM, res.WPM)
		}
		logErrf("Details were written to %s\n", logger.Path())
		return fm.Err()
	}
	return nil
}

// resolveConfig overlays file values, then environment values, under any
// flags set explicitly on the command line.
func resolveConfig(cmd *cobra.Command, fileCfg, envCfg config.TestConfig) (model.Config, error) {
	applyFloatConfig(cmd, "duration", &testDuration, fileCfg.Duration)
	applyIntConfig(cmd, "words", &testWords, fileCfg.Words)
	applyInt64Config(cmd, "seed", &testSeed, fileCfg.Seed)

	applyFloatConfig(cmd, "duration", &testDuration, envCfg.Duration)
	applyIntConfig(cmd, "words", &testWords, envCfg.Words)

	cfg := model.Config{
		Duration:     time.Duration(testDuration * float64(time.Second)),
		TickInterval: defaultTickInterval,
		Words:        testWords,
		Seed:         testSeed,
	}
	if err := engine.Validate(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func newGenerator(seed int64) *generator.Generator {
	if seed == 0 {
		return generator.New()
	}
	return generator.NewSeeded(seed)
}

func rotationFromConfig(c config.LogConfig) diag.Rotation {
	r := diag.Rotation{
		MaxSizeMB:  defaultLogMaxSizeMB,
		MaxBackups: defaultLogMaxBackups,
		MaxAgeDays: defaultLogMaxAgeDays,
		Compress:   true,
	}
	if c.MaxSizeMB != nil && *c.MaxSizeMB > 0 {
		r.MaxSizeMB = *c.MaxSizeMB
	}
	if c.MaxBackups != nil && *c.MaxBackups >= 0 {
		r.MaxBackups = *c.MaxBackups
	}
	if c.MaxAgeDays != nil && *c.MaxAgeDays >= 0 {
		r.MaxAgeDays = *c.MaxAgeDays
	}
	if c.Compress != nil {
		r.Compress = *c.Compress
	}
	return r
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHighScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "highscore",
		Short: "Show the stored high score",
		Args:  cobra.NoArgs,
		RunE:  runHighScoreCmd,
	}
}

func runHighScoreCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("%w: failed to open db: %w", model.ErrPersistence, err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cpm, err := st.HighScore(context.Background())
	if err != nil {
		return fmt.Errorf("%w: failed to read high score: %w", model.ErrPersistence, err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d CPM (%d WPM)\n", cpm, engine.WordsPerMinute(cpm)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Print a word selection",
		Args:  cobra.NoArgs,
		RunE:  runWordsCmd,
	}
	cmd.Flags().IntVar(&sampleCount, "count", defaultSampleWords, "number of words")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "selection seed (0 = random)")
	return cmd
}

func runWordsCmd(cmd *cobra.Command, _ []string) error {
	bank, err := wordbank.Default()
	if err != nil {
		return fmt.Errorf("failed to load word bank: %w", err)
	}
	words, err := newGenerator(sampleSeed).Select(bank, sampleCount)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, word := range words {
		if _, err := fmt.Fprintln(out, word); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typespeed configuration
# Uncomment a value to enable it. Environment variables (%[1]s_DURATION,
# %[1]s_WORDS) override these values, and CLI flags override both.

[test]
# duration = %.0f          # Test duration in seconds
# words = %d              # Words per test
# seed = 0                # Word selection seed (0 = random)

[log]
# max-size-mb = %d          # Rotate the log after this many megabytes
# max-backups = %d          # Rotated files to keep
# max-age-days = %d        # Days to keep rotated files
# compress = true           # Gzip rotated files
`,
		config.EnvPrefix,
		defaultDurationSec,
		defaultWords,
		defaultLogMaxSizeMB,
		defaultLogMaxBackups,
		defaultLogMaxAgeDays,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
