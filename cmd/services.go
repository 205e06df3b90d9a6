package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/xvierd/dailo/internal/adapters/git"
	"github.com/xvierd/dailo/internal/adapters/notification"
	"github.com/xvierd/dailo/internal/adapters/storage"
	"github.com/xvierd/dailo/internal/config"
	"github.com/xvierd/dailo/internal/domain"
	"github.com/xvierd/dailo/internal/services"
	"github.com/xvierd/dailo/internal/store"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config    *config.Config
	storage   *storage.SQLiteStorage
	store     *store.Store
	persister *services.Persister
	tasks     *services.TaskService
	git       *git.Detector
	notifier  *notification.Notifier
	logger    *log.Logger
	logFile   io.Closer
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	if configPath != "" {
		app.config, err = config.LoadFrom(configPath)
	} else {
		app.config, err = config.Load()
	}
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.logger, app.logFile = openLog(config.GetLogPath(app.config))

	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// The configured timer only seeds a fresh install; a stored snapshot wins.
	app.store = store.New(store.WithState(seedState(app.config)))
	if err := app.store.Load(context.Background(), app.storage); err != nil {
		app.logger.Printf("store: %v", err)
	}
	app.persister = services.NewPersister(app.store, app.storage, prefixed(app.logger, "persist: "))

	app.notifier = notification.New(&app.config.Notifications)
	app.git = git.NewDetector()
	app.tasks = services.NewTaskService(app.store, app.git, app.config.Tasks.TagGitBranch)

	return nil
}

// seedState is the state a fresh install starts from.
func seedState(cfg *config.Config) domain.State {
	st := domain.DefaultState()
	st.PomodoroSettings = cfg.Pomodoro.Settings()
	st.PomodoroTimer = domain.NewTimerState(st.PomodoroSettings)
	if cfg.Theme.Mode == string(domain.ThemeLight) {
		st.Theme = domain.ThemeLight
	}
	return st
}

// openLog opens the background log. The dashboard owns the terminal, so
// nothing is logged to stderr.
func openLog(path string) (*log.Logger, io.Closer) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return log.New(io.Discard, "", 0), nil
	}
	return log.New(f, "", log.LstdFlags), f
}

func prefixed(l *log.Logger, prefix string) *log.Logger {
	return log.New(l.Writer(), prefix, l.Flags())
}

// cleanupServices flushes the last snapshot and closes all resources.
func cleanupServices() error {
	var firstErr error
	if app.persister != nil {
		if err := app.persister.Close(); err != nil {
			firstErr = fmt.Errorf("failed to save state: %w", err)
		}
		app.persister = nil
	}
	if app.storage != nil {
		if err := app.storage.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		app.storage = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
	return firstErr
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
