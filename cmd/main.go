package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "book_catalog/docs"
	"book_catalog/internal/catalog"
	"book_catalog/internal/config"
	"book_catalog/internal/handlers"
	"book_catalog/internal/logger"
	"book_catalog/internal/repository"
	"book_catalog/internal/repository/db"
	"book_catalog/internal/server"
	"book_catalog/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title                       Book Catalog API
// @version                     1.0
// @description                 Book metadata and per-user reviews with session-gated writes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// load configs/config.yml, .env and BOOKS_* overrides
	cfg, err := config.Load("configs", ".")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	repos, closeRepos, err := openRepository(cfg.Storage, log)
	if err != nil {
		log.Fatalw("failed to init storage", "driver", cfg.Storage.Driver, "err", err)
	}
	defer closeRepos()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	books, err := catalog.Load(ctx, cfg.Catalog)
	if err == nil {
		err = repos.Catalog.Load(ctx, books)
	}
	cancel()
	if err != nil {
		log.Fatalw("failed to seed catalog", "source", cfg.Catalog.Source, "err", err)
	}
	log.Infow("catalog seeded", "source", cfg.Catalog.Source, "books", len(books))

	// wire dependencies
	services := service.NewService(repos, service.AuthConfig{
		Secret:   cfg.Auth.Secret,
		TokenTTL: cfg.Auth.TokenTTL,
	}, service.WithLogger(log))
	apiHandler := handlers.NewHandler(services, log, handlers.WithSession(handlers.SessionConfig{
		CookieName: cfg.Auth.CookieName,
		Secure:     cfg.Auth.CookieSecure,
		MaxAge:     cfg.Auth.TokenTTL,
	}))

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, log)
}

// openRepository picks the store implementation for the configured driver.
func openRepository(sc config.StorageConfig, log *logger.Logger) (*repository.Repository, func(), error) {
	if sc.Driver != config.DriverSQLite {
		log.Infow("using in-memory storage")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	conn, err := db.InitDB(sc.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	log.Infow("using sqlite storage", "path", sc.SQLitePath)
	return repository.NewRepository(conn), func() { closeDB(conn, log) }, nil
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "5000"
		}
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
