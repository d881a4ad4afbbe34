package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"drylog/internal/config"
	"drylog/internal/golden"
	"drylog/internal/notify"
	"drylog/internal/record"
	"drylog/internal/schema"
	"drylog/internal/slogutil"
	"drylog/internal/storage"
	"drylog/internal/store"
)

// appEnv bundles everything a command needs: config, logger, the open
// database, the loaded record store and the schema provider.
type appEnv struct {
	cfg     *config.Config
	logger  *slog.Logger
	logFile *os.File
	db      *storage.DB
	store   *store.Store
	schemas *schema.Provider
	golden  *golden.Registry
}

// openEnv wires the full environment. Callers must Close it.
func openEnv() (*appEnv, error) {
	cfg, err := config.LoadConfig(rootFlag)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slogutil.LevelFromString(cfg.Logging.Level)
	if verboseFlag {
		level = slog.LevelDebug
	}
	logger := slogutil.NewLogger(os.Stderr, level)
	var logFile *os.File
	if cfg.Logging.File != "" {
		logger, logFile, err = slogutil.NewFileLogger(cfg.Logging.File, level)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
	}

	schemas, err := schema.Load()
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(rootFlag, logger)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}

	st := store.New(db.Slot(store.RecordsSlot), schemas, logger)
	if err := st.Load(); err != nil {
		// A corrupt snapshot resets to empty; tell the operator and
		// keep going.
		printNotification(notify.FromError(err))
	}

	return &appEnv{
		cfg:     cfg,
		logger:  logger,
		logFile: logFile,
		db:      db,
		store:   st,
		schemas: schemas,
		golden:  golden.New(db),
	}, nil
}

func (e *appEnv) Close() {
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			e.logger.Error("closing database", "error", err)
		}
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}

// resolveScope combines the per-command --type/--model flags with the
// configured defaults.
func (e *appEnv) resolveScope(typeFlag, modelFlag string) (record.Type, string, error) {
	typeText := typeFlag
	if typeText == "" {
		typeText = e.cfg.View.DefaultType
	}
	recType, ok := record.ParseType(typeText)
	if !ok {
		return "", "", fmt.Errorf("unknown record type %q", typeText)
	}

	model := strings.ToLower(modelFlag)
	if model == "" {
		model = e.cfg.View.DefaultModel
	}
	if !e.schemas.Supported(model) {
		return "", "", fmt.Errorf("unsupported dryer model %q (supported: %s)",
			model, strings.Join(e.schemas.SupportedModels(), ", "))
	}
	return recType, model, nil
}

func printNotification(n notify.Notification) {
	switch n.Level {
	case notify.Error:
		fmt.Fprintln(os.Stderr, n.Message)
	default:
		fmt.Println(n.Message)
	}
}
