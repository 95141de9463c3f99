// Package server wires the application together: configuration, storage,
// the identity layer, domain services, and the HTTP transport, plus
// graceful shutdown on OS signals.
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

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mbelyaev/postboard/internal/logging"
	"github.com/mbelyaev/postboard/internal/server/auth"
	"github.com/mbelyaev/postboard/internal/server/config"
	"github.com/mbelyaev/postboard/internal/server/graph"
	"github.com/mbelyaev/postboard/internal/server/httpapi"
	"github.com/mbelyaev/postboard/internal/server/mailer"
	"github.com/mbelyaev/postboard/internal/server/metrics"
	"github.com/mbelyaev/postboard/internal/server/repositories/repomanager"
	"github.com/mbelyaev/postboard/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	router *httpapi.RouterDeps
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repos, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		return nil, fmt.Errorf("repository init error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	passwords := auth.NewPasswordService(0)
	tokens := auth.NewTokenService([]byte(cfg.SecretKey),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration, cfg.ResetTokenValidityDuration)

	var mail mailer.Mailer
	if cfg.SMTPAddr != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPAddr, cfg.EmailFrom)
	} else {
		mail = mailer.NewLogMailer(logger)
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	deps := &httpapi.RouterDeps{
		Resolver:    auth.NewContextResolver(tokens),
		Accounts:    services.NewAccountService(db, repos, passwords, tokens, cfg),
		Content:     services.NewContentService(db, repos, cfg),
		Resets:      services.NewResetFlowService(db, repos, passwords, tokens, mail, cfg, logger),
		Graph:       graph.NewResolver(db, repos),
		Collector:   collector,
		Gatherer:    registry,
		RateLimiter: httpapi.NewRateLimiter(httpapi.DefaultRateLimiterConfig()),
	}

	return &App{config: cfg, logger: logger, db: db, router: deps}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, httpapi.NewRouter(app.router), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.router.RateLimiter.Stop()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
