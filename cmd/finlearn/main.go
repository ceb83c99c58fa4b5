// Package main provides the CLI entrypoint for finlearn.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/finlearn/internal/advisor"
	"github.com/verte-zerg/finlearn/internal/config"
	"github.com/verte-zerg/finlearn/internal/homeui"
	"github.com/verte-zerg/finlearn/internal/lessons"
	"github.com/verte-zerg/finlearn/internal/locale"
	"github.com/verte-zerg/finlearn/internal/logging"
	"github.com/verte-zerg/finlearn/internal/model"
	"github.com/verte-zerg/finlearn/internal/progress"
	"github.com/verte-zerg/finlearn/internal/remote"
	"github.com/verte-zerg/finlearn/internal/search"
	"github.com/verte-zerg/finlearn/internal/store"
)

const (
	defaultLang            = "en"
	defaultDebounceMs      = 150
	defaultRemoteTimeoutMs = 10000
	startupTimeout         = 15 * time.Second
)

var (
	appLang       string
	appLessonsDir string
	appOffline    bool
	appVerbose    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "finlearn",
		Short:         "Financial literacy lessons in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runHomeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&appLang, "lang", defaultLang, "content language (en, es, fr)")
	rootCmd.PersistentFlags().StringVar(&appLessonsDir, "lessons-dir", "", "directory of JSON/YAML lessons")
	rootCmd.PersistentFlags().BoolVar(&appOffline, "offline", false, "skip the remote lesson store")
	rootCmd.PersistentFlags().BoolVar(&appVerbose, "verbose", false, "log at debug level")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newPathCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newBudgetCmd())
	rootCmd.AddCommand(newAdvisorCmd())
	rootCmd.AddCommand(newLessonsCmd())

	return rootCmd
}

// app bundles what every command needs after configuration is merged.
type app struct {
	cfg    model.Config
	loc    locale.Locale
	logger *zap.Logger
	store  *store.Store
	remote *remote.Client
}

func loadConfig(cmd *cobra.Command) (model.Config, error) {
	if err := config.LoadEnv(".", config.DefaultConfigDir()); err != nil {
		logErrf("failed to load .env: %v\n", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(&fileCfg)

	applyStringConfig(cmd, "lang", &appLang, fileCfg.App.Lang)
	applyStringConfig(cmd, "lessons-dir", &appLessonsDir, fileCfg.App.LessonsDir)

	cfg := model.Config{
		Lang:            appLang,
		LessonsDir:      appLessonsDir,
		Offline:         appOffline,
		SearchThreshold: search.DefaultThreshold,
		DebounceMs:      defaultDebounceMs,
		Remote: model.RemoteConfig{
			Enabled:   true,
			TimeoutMs: defaultRemoteTimeoutMs,
		},
	}
	if v := fileCfg.Search.Threshold; v != nil {
		cfg.SearchThreshold = *v
	}
	if v := fileCfg.Search.DebounceMs; v != nil {
		cfg.DebounceMs = *v
	}
	if v := fileCfg.Remote.Enabled; v != nil {
		cfg.Remote.Enabled = *v
	}
	if v := fileCfg.Remote.ProjectID; v != nil {
		cfg.Remote.ProjectID = *v
	}
	if v := fileCfg.Remote.CredentialsFile; v != nil {
		cfg.Remote.CredentialsFile = *v
	}
	if v := fileCfg.Remote.TimeoutMs; v != nil {
		cfg.Remote.TimeoutMs = *v
	}
	if cfg.Offline {
		cfg.Remote.Enabled = false
	}

	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if _, ok := locale.Match(cfg.Lang); !ok {
		return fmt.Errorf("--lang must be one of en, es, fr")
	}
	if cfg.SearchThreshold < 0 || cfg.SearchThreshold > 1 {
		return fmt.Errorf("search threshold must be between 0 and 1")
	}
	if cfg.DebounceMs < 0 {
		return fmt.Errorf("search debounce-ms must be >= 0")
	}
	if cfg.Remote.TimeoutMs < 0 {
		return fmt.Errorf("remote timeout-ms must be >= 0")
	}
	return nil
}

// openApp merges configuration and opens storage. With logFile set, logs go
// to the state directory so they do not draw over the TUI. Neither an
// unusable log file nor an unusable database stops the app: logging is
// disabled and progress stays in memory for the session.
func openApp(ctx context.Context, cmd *cobra.Command, logFile bool) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts := logging.Options{Verbose: appVerbose}
	if logFile {
		opts.File = config.DefaultLogPath()
	}
	logger, err := logging.New(opts)
	if err != nil {
		logErrf("failed to create logger, logging disabled: %v\n", err)
		logger = zap.NewNop()
	}
	a := &app{cfg: cfg, loc: locale.Parse(cfg.Lang), logger: logger}

	dbPath := config.DefaultDBPath()
	st, err := store.Open(dbPath)
	if err != nil {
		logger.Warn("failed to open db, progress will not be saved",
			zap.String("path", dbPath), zap.Error(err))
	} else {
		a.store = st
		a.logStoredDocuments(ctx)
	}

	client, err := remote.New(ctx, cfg.Remote, logger)
	switch {
	case errors.Is(err, lessons.ErrNotConfigured):
		logger.Debug("remote store not configured")
	case err != nil:
		logger.Warn("failed to connect to remote store, continuing offline", zap.Error(err))
	default:
		a.remote = client
	}
	return a, nil
}

func (a *app) logStoredDocuments(ctx context.Context) {
	if !a.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	entries, err := a.store.List(ctx)
	if err != nil {
		a.logger.Debug("failed to list stored documents", zap.Error(err))
		return
	}
	for _, e := range entries {
		a.logger.Debug("stored document",
			zap.String("key", e.Key),
			zap.Int("bytes", len(e.Value)),
			zap.String("updated_at", e.UpdatedAt))
	}
}

func (a *app) close() {
	if a.remote != nil {
		if cerr := a.remote.Close(); cerr != nil {
			a.logger.Warn("failed to close remote client", zap.Error(cerr))
		}
	}
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	if cerr := a.logger.Sync(); cerr != nil {
		// Best-effort flush; stderr cannot always be synced.
		_ = cerr
	}
}

// kv returns the document store, or a nil interface when it could not be
// opened so the components see no backend at all.
func (a *app) kv() kvStore {
	if a.store == nil {
		return nil
	}
	return a.store
}

type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

func (a *app) resolver() *lessons.Resolver {
	var fetcher lessons.Fetcher
	if a.remote != nil {
		fetcher = a.remote
	}
	return lessons.NewResolver(fetcher, a.kv(), a.cfg.LessonsDir, a.logger)
}

func (a *app) advisorSource() advisor.Source {
	if a.remote == nil {
		return nil
	}
	return a.remote
}

func (a *app) tracker(ctx context.Context) *progress.Tracker {
	t := progress.NewTracker(a.kv(), a.logger)
	t.Load(ctx)
	return t
}

func (a *app) history() *search.History {
	return search.NewHistory(a.kv(), a.logger)
}

func (a *app) index(lessonList []model.Lesson) *search.Index {
	return search.NewIndex(lessonList, a.loc, search.WithThreshold(a.cfg.SearchThreshold))
}

func runHomeCmd(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := openApp(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	tracker := a.tracker(ctx)
	tracker.StartSession(ctx)

	resolver := a.resolver()
	advisors := advisor.NewCache(a.advisorSource(), a.loc, nil)

	var collection lessons.Collection
	startCtx, startCancel := context.WithTimeout(ctx, startupTimeout)
	g, gctx := errgroup.WithContext(startCtx)
	g.Go(func() error {
		c, err := resolver.Load(gctx)
		if err != nil {
			return fmt.Errorf("failed to load lessons: %w", err)
		}
		collection = c
		return nil
	})
	g.Go(func() error {
		if a.remote == nil {
			return nil
		}
		if _, err := advisors.Current(gctx); err != nil {
			a.logger.Info("advisor prefetch failed", zap.Error(err))
		}
		return nil
	})
	err = g.Wait()
	startCancel()
	if err != nil {
		return err
	}
	a.logger.Info("lessons loaded",
		zap.String("source", string(collection.Source)),
		zap.Int("count", len(collection.Lessons)))

	history := a.history()
	history.Load(ctx)
	index := a.index(collection.Lessons)
	a.logger.Debug("search index built",
		zap.Int("lessons", index.Len()),
		zap.String("locale", index.Locale().String()))
	live := search.NewLive(ctx, index, history, time.Duration(a.cfg.DebounceMs)*time.Millisecond)
	defer live.Close()

	deps := homeui.Deps{
		Collection: collection,
		Tracker:    tracker,
		Live:       live,
		Advisors:   advisors,
		Locale:     a.loc,
		Threshold:  a.cfg.SearchThreshold,
		Logger:     a.logger,
	}
	if collection.Source == lessons.SourceDir {
		watcher, err := lessons.NewWatcher(a.cfg.LessonsDir, lessons.DefaultWatchDebounce, a.logger)
		if err != nil {
			a.logger.Warn("failed to create lessons watcher", zap.Error(err))
		} else if err := watcher.Start(ctx); err != nil {
			a.logger.Warn("failed to watch lessons dir", zap.Error(err))
			watcher.Stop()
		} else {
			defer watcher.Stop()
			deps.Watcher = watcher
			deps.Reload = resolver.Local
		}
	}

	program := tea.NewProgram(homeui.NewModel(ctx, deps), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
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
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# finlearn configuration
# Uncomment a value to enable it. CLI flags override config values.
# A .env file next to this config may also set %s, %s and %s.

[app]
# lang = %q               # Content language: en, es or fr
# lessons-dir = ""          # Directory of JSON/YAML lessons used when the remote store is unavailable

[search]
# threshold = %.1f          # Highest fuzzy score still counted as a match (0-1, lower is stricter)
# debounce-ms = %d         # Quiet time before a typed query is searched

[remote]
# enabled = true
# project-id = "YOUR_PROJECT_ID"
# credentials-file = ""     # Service account JSON
# timeout-ms = %d
`,
		config.EnvLang,
		config.EnvProjectID,
		config.EnvCredentials,
		defaultLang,
		search.DefaultThreshold,
		defaultDebounceMs,
		defaultRemoteTimeoutMs,
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
