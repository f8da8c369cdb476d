package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/flow-vikunja/internal/cache"
	"github.com/teemow/flow-vikunja/internal/config"
	"github.com/teemow/flow-vikunja/internal/flow"
	"github.com/teemow/flow-vikunja/internal/instrumentation"
	"github.com/teemow/flow-vikunja/internal/logging"
	"github.com/teemow/flow-vikunja/internal/plugin"
	"github.com/teemow/flow-vikunja/internal/vikunja"
)

// shutdownTimeout bounds the telemetry flush at exit.
const shutdownTimeout = 5 * time.Second

// app holds everything one invocation needs.
type app struct {
	options      *config.Options
	store        *config.FileStore
	cache        *cache.ListCache
	logger       *slog.Logger
	logCloser    io.Closer
	provider     *instrumentation.Provider
	router       *plugin.Router
	invocationID string
}

// newApp loads runtime options and wires the logger, telemetry and router.
// Setup failures fall back to defaults so the launcher always gets a result.
func newApp(ctx context.Context, pluginDir string) *app {
	opts, optsErr := config.LoadOptions(pluginDir)
	if optsErr != nil {
		opts = config.DefaultOptions(pluginDir)
	}

	logger, logCloser, logErr := logging.New(logging.Options{
		Level:  opts.LogLevel,
		Format: opts.LogFormat,
		File:   opts.LogFile,
	})
	if logErr != nil {
		logger, logCloser = fallbackLogger(opts.LogFile)
	}

	if optsErr != nil {
		logger.WarnContext(ctx, "runtime options ignored", logging.Err(optsErr))
	}
	if logErr != nil {
		logger.WarnContext(ctx, "log settings ignored", logging.Err(logErr))
	}

	invocationID := uuid.NewString()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		// Telemetry must never block the launcher.
		logger.WarnContext(ctx, "instrumentation disabled", logging.Err(err))
		provider, _ = instrumentation.NewProvider(ctx, instrumentation.Config{Enabled: false})
	}

	a := &app{
		options:      opts,
		store:        config.NewFileStore(opts.PluginDir),
		cache:        cache.New(opts.CachePath()),
		logger:       logger,
		logCloser:    logCloser,
		provider:     provider,
		invocationID: invocationID,
	}

	metrics := provider.Metrics()
	a.router = plugin.NewRouter(a.store, a.cache,
		plugin.WithClientFactory(func(s *config.Settings) plugin.TaskService {
			return vikunja.NewClient(s.VikunjaURL, s.APIToken,
				vikunja.WithTimeout(opts.HTTPTimeout),
				vikunja.WithMetrics(metrics),
				vikunja.WithLogger(logger),
			)
		}),
		plugin.WithIcon(opts.IconPath),
		plugin.WithLogger(logger),
		plugin.WithMetrics(metrics),
		plugin.WithInvocationID(invocationID),
	)

	return a
}

// fallbackLogger retries the log file with default level and format, and
// discards output if the file cannot be opened either.
func fallbackLogger(file string) (*slog.Logger, io.Closer) {
	logger, closer, err := logging.New(logging.Options{File: file})
	if err != nil {
		logger, closer, _ = logging.New(logging.Options{})
	}
	return logger, closer
}

// Close flushes telemetry and closes the log file.
func (a *app) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.provider.Shutdown(ctx); err != nil {
		a.logger.Warn("instrumentation shutdown failed", logging.Err(err))
		errs = append(errs, err)
	}
	if err := a.logCloser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close log file: %w", err))
	}
	return errors.Join(errs...)
}

// withApp builds an app, runs fn and writes the resulting items to w.
func withApp(ctx context.Context, w io.Writer, fn func(a *app) []flow.Item) error {
	a := newApp(ctx, pluginDir)
	defer func() { _ = a.Close() }()

	return flow.Write(w, fn(a))
}
