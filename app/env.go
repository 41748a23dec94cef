package app

import (
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/tally/internal/config"
	"github.com/ayoisaiah/tally/internal/llm"
	"github.com/ayoisaiah/tally/internal/logger"
	"github.com/ayoisaiah/tally/internal/notify"
	"github.com/ayoisaiah/tally/internal/parser"
	"github.com/ayoisaiah/tally/internal/pathutil"
	"github.com/ayoisaiah/tally/internal/taxonomy"
	"github.com/ayoisaiah/tally/internal/tracker"
	"github.com/ayoisaiah/tally/internal/ui"
	"github.com/ayoisaiah/tally/store"
)

// env holds everything a command needs to talk to the ledger.
type env struct {
	cfg      *config.Config
	db       store.DB
	tracker  *tracker.Tracker
	taxonomy *taxonomy.Holder
	logger   *slog.Logger
	logFile  io.Closer
}

func (e *env) Close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.logger.Warn("closing database failed", slog.Any("error", err))
		}
	}

	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// configPath returns the config file chosen with --config or the default
// one.
func configPath(ctx *cli.Context) string {
	if p := ctx.String("config"); p != "" {
		return p
	}

	return pathutil.ConfigFilePath()
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if err := pathutil.Initialize(); err != nil {
		return nil, err
	}

	path := configPath(ctx)

	return config.New(
		config.WithPromptConfig(path),
		config.WithViperConfig(path),
		config.WithCLIConfig(ctx),
	)
}

// newEnv loads the configuration and opens the database.
func newEnv(ctx *cli.Context) (*env, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	l, logFile := logger.New(logger.Options{
		Path:       pathutil.LogFilePath(),
		Level:      cfg.Log.Level,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})

	slog.SetDefault(l)

	e := &env{
		cfg:      cfg,
		logger:   l,
		logFile:  logFile,
		taxonomy: taxonomy.NewHolder(taxonomy.New(cfg.Taxonomy)),
	}

	dbPath := cfg.Storage.Path
	if dbPath == "" {
		dbPath = pathutil.DBFilePath(cfg.Storage.Backend)
	}

	e.db, err = store.Open(store.Backend(cfg.Storage.Backend), dbPath)
	if err != nil {
		e.Close()
		return nil, err
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notifications.Enabled {
		notifier = notify.NewDesktop(pathutil.Dir())
	}

	e.tracker = tracker.New(tracker.Options{
		DB:       e.db,
		Parser:   e.newParser(ctx),
		Taxonomy: e.taxonomy,
		Notifier: notifier,
		Logger:   l,
		Location: cfg.Location,
	})

	return e, nil
}

// newParser builds the parsing chain. The AI strategy comes first when a
// provider is configured; the rule strategy is always available.
func (e *env) newParser(ctx *cli.Context) *parser.Chain {
	var strategies []parser.Strategy

	if e.cfg.AIEnabled() {
		gemini, err := llm.NewGemini(ctx.Context, llm.Options{
			APIKey:      e.cfg.LLM.APIKey,
			Model:       e.cfg.LLM.Model,
			Temperature: float32(e.cfg.LLM.Temperature),
			MaxTokens:   int32(e.cfg.LLM.MaxTokens),
		})
		if err != nil {
			e.logger.Warn("AI parsing disabled", slog.Any("error", err))
		} else {
			e.logger.Debug("AI parsing enabled", slog.String("provider", gemini.Name()))

			strategies = append(strategies, parser.NewAIStrategy(
				gemini,
				e.taxonomy,
				e.cfg.Location,
				e.cfg.LLM.Timeout,
			))
		}
	}

	strategies = append(strategies, parser.NewRuleStrategy(e.taxonomy, e.cfg.Location))

	return parser.NewChain(e.logger, strategies...)
}
