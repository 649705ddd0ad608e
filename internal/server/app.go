// Package server wires configuration, storage, services and transports
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/httpapi"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/tasktracker/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	memory      *repomanager.MemoryRepositoryManager
	userService *services.UserService
	taskService *services.TaskService
	metrics     *httpapi.Metrics
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// NewApp prepares storage (running migrations for postgres) and services.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {

	logger := logging.NewJSONLogger(out, c.LogLevel)

	var (
		db     *sql.DB
		memory *repomanager.MemoryRepositoryManager
		exec   dbx.Executor
		rm     repomanager.RepositoryManager
	)

	switch c.StorageType {
	case config.StorageMemory:
		exec = dbx.NopExecutor{}
		memory = repomanager.NewMemoryRepositoryManager()
		rm = memory
		logger.Warn(ctx, "using in-memory storage, data is lost on exit")

	default:
		var err error
		db, err = sqlOpen("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db ping error: %w", err)
		}

		pm := repomanager.NewPostgresRepositoryManager()
		if err := pm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
		exec = dbx.NewSQLExecutor(db)
		rm = pm
	}

	signer := auth.NewJWTSigner([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	hasher := auth.NewArgon2Hasher(auth.DefaultArgon2Params)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		memory:      memory,
		userService: services.NewUserService(exec, rm, signer, hasher),
		taskService: services.NewTaskService(exec, rm),
		metrics:     httpapi.NewMetrics(),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()
}

func (app *App) probe(ctx context.Context) error {
	if app.db == nil {
		return nil
	}
	return app.db.PingContext(ctx)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	api := httpapi.NewAPI(app.userService, app.taskService, app.logger, app.metrics, httpapi.Options{
		AllowedOrigins: app.config.AllowedOrigins,
		RequestTimeout: app.config.RequestTimeout,
	})
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, api.Handler(), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.probe)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or a
// server fails to start.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageType)

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err.Error())
		}
	}

	if app.memory != nil {
		app.logger.Warn(ctx, "discarding in-memory data",
			"users", app.memory.UserStore().Count(),
			"tasks", app.memory.TaskStore().Count(),
		)
	}

	app.logger.Info(ctx, "App stopped")
}
