// Package main provides the CLI entrypoint for typeahead.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/ultrasecure/typeahead/internal/config"
	"github.com/ultrasecure/typeahead/internal/engine"
	"github.com/ultrasecure/typeahead/internal/model"
	"github.com/ultrasecure/typeahead/internal/sim"
	"github.com/ultrasecure/typeahead/internal/stats"
	"github.com/ultrasecure/typeahead/internal/store"
	"github.com/ultrasecure/typeahead/internal/tui"
	"github.com/ultrasecure/typeahead/internal/wordlist"
)

const (
	defaultLang        = "en"
	defaultUser        = "demo"
	defaultSuggestions = 5
	defaultWarmEvents  = 500
	defaultCurveWindow = 20
	defaultTopWords    = 10
	defaultDictSize    = 10000
)

var (
	demoUser        string
	demoSuggestions int
	demoLang        string
	demoWarm        int

	benchScenario string
	benchUsers    int
	benchMessages int
	benchWorkers  int
	benchSeed     int64
	benchDuration time.Duration
	benchLimit    int
	benchArchive  bool
	benchLang     string

	statsUser        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTop         int

	dictLang  string
	dictFrom  string
	dictSize  int
	dictForce bool
)

func main() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typeahead",
		Short:         "Adaptive next-word prediction demo",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDemoCmd,
	}

	rootCmd.Flags().StringVar(&demoUser, "user", defaultUser, "user id messages are recorded under")
	rootCmd.Flags().IntVar(&demoSuggestions, "suggestions", defaultSuggestions, "suggestions shown per keystroke")
	rootCmd.Flags().StringVar(&demoLang, "lang", defaultLang, "installed dictionary used to seed the engine")
	rootCmd.Flags().IntVar(&demoWarm, "warm", defaultWarmEvents, "archived events replayed on startup (0 disables)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newDictCmd())
	rootCmd.AddCommand(newBenchCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runDemoCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "user", &demoUser, fileCfg.Demo.User)
	applyIntConfig(cmd, "suggestions", &demoSuggestions, fileCfg.Demo.Suggestions)
	applyStringConfig(cmd, "lang", &demoLang, fileCfg.Demo.Lang)
	applyIntConfig(cmd, "warm", &demoWarm, fileCfg.Demo.Warm)

	if demoUser == "" {
		return fmt.Errorf("--user must not be empty")
	}
	if demoWarm < 0 {
		return fmt.Errorf("--warm must be >= 0")
	}

	eng := engine.New(fileCfg.EngineConfig())

	wordPath := config.DefaultWordListPath(demoLang)
	words, err := wordlist.LoadWords(wordPath)
	if err != nil {
		slog.Warn("no dictionary loaded, suggestions build from typing alone", "path", wordPath, "err", err)
	} else {
		eng.Seed(words)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if demoWarm > 0 {
		events, err := st.ListEvents(context.Background(), "", demoWarm)
		if err != nil {
			return fmt.Errorf("failed to load archived events: %w", err)
		}
		for _, ev := range events {
			eng.RecordTyping(ev.UserID, ev.Text, ev.ElapsedSec)
		}
		if len(events) > 0 {
			slog.Info("warmed engine from archive", "events", len(events))
		}
	}

	model := tui.NewModel(eng, st, demoUser, demoSuggestions)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Replay synthetic typing traffic against the engine",
		Args:  cobra.NoArgs,
		RunE:  runBenchCmd,
	}
	cmd.Flags().StringVar(&benchScenario, "scenario", "", "scenario YAML file")
	cmd.Flags().IntVar(&benchUsers, "users", 0, "override scenario user count")
	cmd.Flags().IntVar(&benchMessages, "messages", 0, "override messages per user")
	cmd.Flags().IntVar(&benchWorkers, "workers", 0, "override worker count")
	cmd.Flags().Int64Var(&benchSeed, "seed", 0, "override random seed (0 uses the clock)")
	cmd.Flags().DurationVar(&benchDuration, "duration", 0, "stop after this long (0 runs to completion)")
	cmd.Flags().IntVar(&benchLimit, "limit", 0, "override suggestions per prediction")
	cmd.Flags().BoolVar(&benchArchive, "archive", false, "archive generated traffic to the db")
	cmd.Flags().StringVar(&benchLang, "lang", defaultLang, "dictionary used when the scenario names no wordlist")
	return cmd
}

func runBenchCmd(cmd *cobra.Command, _ []string) error {
	sc := sim.DefaultScenario()
	if benchScenario != "" {
		loaded, err := sim.LoadScenario(benchScenario)
		if err != nil {
			return fmt.Errorf("failed to load scenario: %w", err)
		}
		sc = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("users") {
		sc.Users = benchUsers
	}
	if flags.Changed("messages") {
		sc.Messages = benchMessages
	}
	if flags.Changed("workers") {
		sc.Workers = benchWorkers
	}
	if flags.Changed("seed") {
		sc.Seed = benchSeed
	}
	if flags.Changed("duration") {
		sc.Duration = sim.Duration(benchDuration)
	}
	if flags.Changed("limit") {
		sc.Limit = benchLimit
	}
	if flags.Changed("archive") {
		sc.Archive = benchArchive
	}
	if err := sc.Validate(); err != nil {
		return err
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	wordPath := sc.Wordlist
	if wordPath == "" {
		wordPath = config.DefaultWordListPath(benchLang)
	}
	words, err := wordlist.LoadWords(wordPath)
	if err != nil {
		return dictionaryLoadError(benchLang, wordPath, err)
	}

	eng := engine.New(fileCfg.EngineConfig())
	eng.Seed(words)

	var st *store.Store
	if sc.Archive {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	runner := sim.NewRunner(eng, words, st)
	res, err := runner.Run(context.Background(), sc)
	if err != nil {
		return fmt.Errorf("failed to run scenario: %w", err)
	}
	return renderBenchResult(cmd.OutOrStdout(), res)
}

func renderBenchResult(w io.Writer, res sim.Result) error {
	lines := []string{
		fmt.Sprintf("Scenario %s: %d users, %s messages, %s predictions in %s",
			res.Scenario, res.Users,
			humanize.Comma(res.Messages), humanize.Comma(res.Predictions),
			res.Elapsed.Round(10*time.Millisecond)),
		fmt.Sprintf("Throughput: %s ops/s", humanize.CommafWithDigits(res.Throughput, 0)),
		fmt.Sprintf("Latency: mean %s, p50 %s, p95 %s, p99 %s",
			roundLatency(res.Latency.Mean), roundLatency(res.Latency.P50),
			roundLatency(res.Latency.P95), roundLatency(res.Latency.P99)),
		fmt.Sprintf("Suggestions: %.1f%% of predictions had candidates", res.SuggestionRate()*100),
		fmt.Sprintf("Cache: %.1f%% hit rate, %s evictions",
			res.HitRate()*100, humanize.Comma(int64(res.Metrics.CacheEvictions))),
		fmt.Sprintf("Engine: %s users, %s distinct words",
			humanize.Comma(int64(res.Metrics.TotalUsers)),
			humanize.Comma(int64(res.Metrics.TotalDistinctWords))),
	}
	if res.Errors > 0 {
		lines = append(lines, fmt.Sprintf("Errors: %s", humanize.Comma(res.Errors)))
	}
	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func roundLatency(d time.Duration) time.Duration {
	return d.Round(100 * time.Nanosecond)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show archived typing stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsUser, "user", "", "user filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultTopWords, "top words to show")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		UserID:      statsUser,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		TopWords:    statsTop,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build stats: %w", err)
	}
	return stats.RenderReport(cmd.OutOrStdout(), report, cfg.CurveWindow, 0, false)
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

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List installed dictionaries",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	dir := config.DefaultWordListDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("No dictionaries found. Install with: typeahead dict --lang <code> --from <file>\n")
			return fmt.Errorf("dictionary directory does not exist")
		}
		return fmt.Errorf("failed to read dictionary directory: %w", err)
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	if len(langs) == 0 {
		logErrf("No dictionaries found. Install with: typeahead dict --lang <code> --from <file>\n")
		return fmt.Errorf("no dictionaries found")
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Install a dictionary from a word file",
		Args:  cobra.NoArgs,
		RunE:  runDictCmd,
	}
	cmd.Flags().StringVar(&dictLang, "lang", defaultLang, "language code to install as")
	cmd.Flags().StringVar(&dictFrom, "from", "", "source word file, one word per line")
	cmd.Flags().IntVar(&dictSize, "size", defaultDictSize, "number of words to keep")
	cmd.Flags().BoolVar(&dictForce, "force", false, "overwrite an existing dictionary")
	return cmd
}

func runDictCmd(_ *cobra.Command, _ []string) error {
	lang := strings.TrimSpace(strings.ToLower(dictLang))
	if lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if dictFrom == "" {
		return fmt.Errorf("--from is required")
	}
	if dictSize <= 0 {
		return fmt.Errorf("--size must be greater than 0")
	}

	words, err := wordlist.LoadWords(dictFrom)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", dictFrom, err)
	}
	words = wordlist.Clean(words, wordlist.FilterForLang(lang))
	if len(words) == 0 {
		return fmt.Errorf("no usable words in %s", dictFrom)
	}
	if len(words) > dictSize {
		words = words[:dictSize]
	}

	outPath := filepath.Join(config.DefaultWordListDir(), lang+".txt")
	if !dictForce {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("dictionary already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat dictionary: %w", err)
		}
	}
	if err := writeWordList(outPath, words); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logErrf("Wrote %s (%d words)\n", outPath, len(words))
	return nil
}

func writeWordList(path string, words []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dictionary dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "dict-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp dictionary: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range words {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write dictionary: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush dictionary: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close dictionary: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
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

func defaultConfigTemplate() string {
	def := model.DefaultEngineConfig()
	return fmt.Sprintf(`# typeahead configuration
# Uncomment a value to enable it. CLI flags override config values.

[engine]
# history-words = %d     # Words of history kept per user
# speed-samples = %d      # Typing speed samples kept per user
# max-users = %d        # Tracked users kept before idle eviction
# cache-entries = %d     # Prediction cache capacity
# evict-batch = %d        # Cache entries dropped when full
# key-tail-runes = %d      # Trailing query runes used for cache keys
# default-limit = %d        # Suggestions returned when no limit is given

[demo]
# user = %q            # Message composer user id
# suggestions = %d         # Suggestions shown in the composer
# lang = %q              # Installed dictionary used to seed the engine
# warm = %d              # Archived events replayed on startup
`,
		def.HistoryWords,
		def.SpeedSamples,
		def.MaxUsers,
		def.CacheEntries,
		def.EvictBatch,
		def.KeyTailRunes,
		def.DefaultLimit,
		defaultUser,
		defaultSuggestions,
		defaultLang,
		defaultWarmEvents,
	)
}

func dictionaryLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load dictionary: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not installed", lang),
		"Run: typeahead langs",
		fmt.Sprintf("Install: typeahead dict --lang %s --from <file>", lang),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
