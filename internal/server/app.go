// Package server initializes and runs the ArtVault server: it opens the
// store, wires the services, and runs the HTTP and gRPC endpoints until a
// shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/artvault/internal/dbx"
	"github.com/dmitrijs2005/artvault/internal/logging"
	"github.com/dmitrijs2005/artvault/internal/server/auth"
	"github.com/dmitrijs2005/artvault/internal/server/config"
	"github.com/dmitrijs2005/artvault/internal/server/httpapi"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/memory"
	"github.com/dmitrijs2005/artvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/artvault/internal/server/services"

	gs "github.com/dmitrijs2005/artvault/internal/server/grpc"
)

// MemoryDSN selects the in-process store instead of PostgreSQL.
const MemoryDSN = "memory://"

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	artworkService *services.ArtworkService
	gate           *auth.Gate
}

// openStore returns the repository manager for dsn and, for PostgreSQL, the
// migrated connection pool.
func openStore(ctx context.Context, dsn string) (repomanager.RepositoryManager, *sql.DB, error) {
	if dsn == MemoryDSN {
		return memory.NewManager(), nil, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}

	return rm, db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "using the built-in development secret; set ARTVAULT_SECRET_KEY in production")
	}

	rm, db, err := openStore(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var dbtx dbx.DBTX
	if db != nil {
		dbtx = db
	}

	tokens := auth.NewTokenService(c.SecretKey, c.TokenValidityDuration)
	us := services.NewUserService(dbtx, rm, tokens, logger)
	as := services.NewArtworkService(dbtx, rm, services.NewS3ImageStore(c), logger)
	gate := auth.NewGate(tokens, us, logger)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		userService:    us,
		artworkService: as,
		gate:           gate,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.gate)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.artworkService, app.gate)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "close db", "error", err)
		}
	}

	app.logger.Info(ctx, "App stopped")
}
