// Package main provides the CLI entrypoint for cangtype.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/cangtype/internal/catalog"
	"github.com/verte-zerg/cangtype/internal/config"
	"github.com/verte-zerg/cangtype/internal/dictionary"
	"github.com/verte-zerg/cangtype/internal/drill"
	"github.com/verte-zerg/cangtype/internal/server"
	"github.com/verte-zerg/cangtype/internal/stats"
	"github.com/verte-zerg/cangtype/internal/statsui"
	"github.com/verte-zerg/cangtype/internal/tui"
)

const (
	defaultAnswerMode  = "glyph"
	defaultLogEnv      = "development"
	defaultDictTTL     = "24h"
	defaultStatsLast   = 10
	defaultStatsWindow = 5
)

var (
	dbPath      string
	catalogPath string
	logEnv      string

	drillMode    string
	drillProfile string
	drillLesson  string

	serveAddr      string
	serveStaticDir string
	dictURL        string
	dictTTL        string
	dictCacheSize  int

	statsProfile string
	statsLast    int
	statsWindow  int
	statsTop     int
	statsColor   bool
	statsUI      bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cangtype",
		Short:         "Cangjie typing tutor",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDrillCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "lesson catalog JSON (default: built-in lessons)")
	rootCmd.PersistentFlags().StringVar(&logEnv, "log-env", defaultLogEnv, "logger environment: development, production or nop")

	rootCmd.Flags().StringVar(&drillMode, "mode", defaultAnswerMode, "answer mode for characters: glyph or code")
	rootCmd.Flags().StringVar(&drillProfile, "profile", "", "profile id or name to activate before the drill")
	rootCmd.Flags().StringVar(&drillLesson, "lesson", "", "lesson id to start at")
	addDictionaryFlags(rootCmd)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newProfilesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLessonsCmd())
	rootCmd.AddCommand(newDictCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Store.Path)
	applyStringConfig(cmd, "catalog", &catalogPath, fileCfg.Catalog.Path)
	applyStringConfig(cmd, "log-env", &logEnv, fileCfg.Log.Env)
	return fileCfg, nil
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "mode", &drillMode, fileCfg.Drill.AnswerMode)
	applyStringConfig(cmd, "profile", &drillProfile, fileCfg.Drill.Profile)

	mode, err := drill.ParseAnswerMode(drillMode)
	if err != nil {
		return fmt.Errorf("--mode: %w", err)
	}
	dict, err := dictionaryOptions(cmd, fileCfg)
	if err != nil {
		return err
	}

	// The TUI owns the terminal; log output would corrupt the screen.
	logEnv = "nop"
	a, err := openApp(dict)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	ev := drill.New(a.lessons, a.progress, drill.WithAnswerMode(mode), drill.WithLogger(a.log))
	ev.Start(ctx)
	if drillProfile != "" {
		p, err := a.progress.Resolve(drillProfile)
		if err != nil {
			return err
		}
		ev.ActivateProfile(ctx, p.ID)
	}
	if drillLesson != "" {
		if _, err := ev.JumpToLesson(ctx, drillLesson); err != nil {
			return err
		}
	}

	model := tui.NewModel(ctx, ev, a.dict)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the browser front end",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", config.DefaultAddr(), "listen address")
	cmd.Flags().StringVar(&serveStaticDir, "static-dir", "", "directory with the built front end")
	cmd.Flags().StringVar(&drillMode, "mode", defaultAnswerMode, "answer mode for characters: glyph or code")
	addDictionaryFlags(cmd)
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyStringConfig(cmd, "static-dir", &serveStaticDir, fileCfg.Server.StaticDir)
	applyStringConfig(cmd, "mode", &drillMode, fileCfg.Drill.AnswerMode)

	mode, err := drill.ParseAnswerMode(drillMode)
	if err != nil {
		return fmt.Errorf("--mode: %w", err)
	}
	dict, err := dictionaryOptions(cmd, fileCfg)
	if err != nil {
		return err
	}
	a, err := openApp(dict)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ev := drill.New(a.lessons, a.progress, drill.WithAnswerMode(mode), drill.WithLogger(a.log))
	ev.Start(ctx)

	srv := server.New(server.Config{
		Addr:      serveAddr,
		StaticDir: serveStaticDir,
	}, a.lessons, a.progress, ev, a.dict, a.log)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func addDictionaryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dictURL, "dict-url", "", "base URL of a remote character dictionary")
	cmd.Flags().StringVar(&dictTTL, "dict-ttl", defaultDictTTL, "how long cached dictionary entries stay fresh")
	cmd.Flags().IntVar(&dictCacheSize, "dict-cache-size", dictionary.DefaultSize, "in-memory dictionary entries")
}

type dictSettings struct {
	url  string
	ttl  time.Duration
	size int
}

func dictionaryOptions(cmd *cobra.Command, fileCfg config.FileConfig) (dictSettings, error) {
	applyStringConfig(cmd, "dict-url", &dictURL, fileCfg.Dictionary.URL)
	applyStringConfig(cmd, "dict-ttl", &dictTTL, fileCfg.Dictionary.TTL)
	applyIntConfig(cmd, "dict-cache-size", &dictCacheSize, fileCfg.Dictionary.CacheSize)

	ttl, err := time.ParseDuration(dictTTL)
	if err != nil {
		return dictSettings{}, fmt.Errorf("invalid --dict-ttl value: %w", err)
	}
	if ttl <= 0 {
		return dictSettings{}, fmt.Errorf("--dict-ttl must be > 0")
	}
	if dictCacheSize <= 0 {
		return dictSettings{}, fmt.Errorf("--dict-cache-size must be > 0")
	}
	return dictSettings{url: strings.TrimSpace(dictURL), ttl: ttl, size: dictCacheSize}, nil
}

func newLessonsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List catalog lessons",
		Args:  cobra.NoArgs,
		RunE:  runLessonsCmd,
	}
}

func runLessonsCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	lessons, err := catalog.LoadFile(catalogPath)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(lessons))
	for _, l := range lessons {
		chars, sentences := 0, 0
		for _, ex := range l.Exercises {
			if ex.Kind() == catalog.KindSentence {
				sentences++
			} else {
				chars++
			}
		}
		rows = append(rows, []string{l.ID, l.Title, fmt.Sprintf("%d", chars), fmt.Sprintf("%d", sentences)})
	}
	return stats.WriteTable(cmd.OutOrStdout(), []string{"ID", "Title", "Characters", "Sentences"}, rows, 2, 3)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsProfile, "profile", "", "profile id or name (default: active profile)")
	cmd.Flags().IntVar(&statsLast, "last", defaultStatsLast, "limit history to the last N lesson runs (0 for all)")
	cmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "moving average window for the accuracy sparkline")
	cmd.Flags().IntVar(&statsTop, "top", 0, "only list the N most practised lessons")
	cmd.Flags().BoolVar(&statsColor, "color", false, "force colored output")
	cmd.Flags().BoolVar(&statsUI, "ui", false, "open the interactive stats viewer")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsWindow <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	if statsTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	if statsUI {
		logEnv = "nop"
	}
	a, err := openApp(dictSettings{})
	if err != nil {
		return err
	}
	defer a.close()

	profile := a.progress.Active()
	if statsProfile != "" {
		profile, err = a.progress.Resolve(statsProfile)
		if err != nil {
			return err
		}
	}
	profileID := profile.ID

	load := func() stats.Report {
		p, ok := a.progress.Snapshot().Find(profileID)
		if !ok {
			p = a.progress.Active()
		}
		return stats.BuildReport(p, a.lessons, time.Now())
	}

	if statsUI {
		program := tea.NewProgram(statsui.NewModel(load, statsWindow), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report := load()
	if statsTop > 0 {
		report.Lessons = stats.TopLessons(report.Lessons, statsTop)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report, stats.UseColor(out, statsColor)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderLessons(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderHistory(out, report, statsLast, statsWindow); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if f := cmd.Flags().Lookup(name); f == nil || f.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if f := cmd.Flags().Lookup(name); f == nil || f.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cangtype configuration
# Uncomment a value to enable it. CLI flags override config values.

[server]
# addr = %q             # Listen address (PORT is honored when unset)
# static-dir = "dist"      # Built browser front end

[store]
# path = %q

[catalog]
# path = "lessons.json"    # Lesson catalog; built-in lessons when unset

[drill]
# answer-mode = %q      # glyph or code
# profile = "Default"      # Profile to activate before the drill

[dictionary]
# url = ""                 # Remote dictionary base URL; GET <url>/<char>
# ttl = %q               # Freshness window for cached entries
# cache-size = %d         # In-memory entries

[log]
# env = %q       # development, production or nop
`,
		config.DefaultAddr(),
		config.DefaultDBPath(),
		defaultAnswerMode,
		defaultDictTTL,
		dictionary.DefaultSize,
		defaultLogEnv,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
