// Package server assembles the strengthsmap API: it opens the database,
// applies migrations, wires repositories into services and serves them over
// HTTP until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/strengthsmap/internal/logging"
	"github.com/dmitrijs2005/strengthsmap/internal/server/auth"
	"github.com/dmitrijs2005/strengthsmap/internal/server/config"
	"github.com/dmitrijs2005/strengthsmap/internal/server/oauth"
	"github.com/dmitrijs2005/strengthsmap/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/strengthsmap/internal/server/rest"
	"github.com/dmitrijs2005/strengthsmap/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

// NewApp connects to the database, runs migrations and builds the HTTP
// server. The returned App owns the database handle.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: rest.NewServer(c.EndpointAddrHTTP, newHandler(c, db, rm, logger).Router(c.CORSOrigins), c.ShutdownTimeout, logger),
	}, nil
}

func newHandler(c *config.Config, db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *rest.Handler {
	tokens := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration)
	accounts := services.NewAccountService(db, rm, tokens, c.BcryptCost, logger)

	var exchanger services.CodeExchanger
	if c.GoogleClientID != "" {
		exchanger = oauth.NewGoogleProvider(oauth.Config{
			ClientID:     c.GoogleClientID,
			ClientSecret: c.GoogleClientSecret,
			RedirectURL:  c.GoogleRedirectURL,
		}, nil)
	}

	return rest.NewHandler(
		accounts,
		services.NewOAuthService(exchanger, accounts, c.GoogleClientID, logger),
		services.NewEntryService(db, rm),
		services.NewCommunityService(db, rm, logger),
		c.FrontendURL,
		logger,
	)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until SIGINT/SIGTERM/SIGQUIT or ctx cancellation, then closes
// the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
