// Package server initializes and runs the application: database and cache
// connections, schema migrations, services and the HTTP endpoint, with
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

	"github.com/redis/go-redis/v9"

	"github.com/logit-team/logit/internal/logging"
	"github.com/logit-team/logit/internal/server/config"
	"github.com/logit-team/logit/internal/server/github"
	"github.com/logit-team/logit/internal/server/httpapi"
	"github.com/logit-team/logit/internal/server/repositories/repomanager"
	"github.com/logit-team/logit/internal/server/services"
	"github.com/logit-team/logit/internal/server/snippetcache"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	cache := snippetcache.NewRedisGateway(redisClient)

	codeService := services.NewCodeService(db, rm, cache, logger)
	categoryService := services.NewCategoryService(db, rm)
	githubService := services.NewGithubService(db, rm, github.NewClient(cfg.GithubAPIBaseURL), logger)

	srv := httpapi.NewServer(cfg.EndpointAddrHTTP, []byte(cfg.SecretKey), logger,
		codeService, categoryService, githubService)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
