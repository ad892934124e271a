package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/DanielTsay1/AMS/internal/config"
	"github.com/DanielTsay1/AMS/internal/documents"
	"github.com/DanielTsay1/AMS/internal/extract"
	"github.com/DanielTsay1/AMS/internal/index"
	"github.com/DanielTsay1/AMS/internal/logger"
	"github.com/DanielTsay1/AMS/internal/pipeline"
	"github.com/DanielTsay1/AMS/internal/routes"
	"github.com/DanielTsay1/AMS/internal/search"
	"github.com/DanielTsay1/AMS/internal/storage"
	"github.com/DanielTsay1/AMS/migrations"
)

// apiPrefix is prepended to every registered route group.
const apiPrefix = "/api"

type Application struct {
	config   *config.Config
	db       *sql.DB
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	docs     *documents.Handler
	search   *search.Handler
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Finalize(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&cfg.Logging).Logger()

	db, err := openDB(&cfg.Database)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := runMigrations(db); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	app, err := build(cfg, db, log)
	if err != nil {
		log.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.routes(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeoutDuration())
		defer cancel()

		err := srv.Shutdown(ctx)

		// let in-flight document processing settle before closing the db
		app.pipeline.Wait()

		shutdownError <- err
	}()

	log.Info("starting server", "addr", srv.Addr)

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	err = <-shutdownError
	if err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func build(cfg *config.Config, db *sql.DB, log *slog.Logger) (*Application, error) {
	store, err := storage.New(&cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnTimeoutDuration())
	fullText := index.Probe(ctx, db)
	cancel()

	if !fullText {
		log.Warn("full-text search unavailable, using substring fallback")
	}

	idx := index.New(db, log, fullText)
	docs := documents.New(db, store, log, cfg.Pagination)

	pipe := pipeline.New(extract.New(log), idx, log, &cfg.Indexing)
	engine := search.New(idx, log, cfg.Search)

	app := &Application{
		config:   cfg,
		db:       db,
		logger:   log,
		pipeline: pipe,
		docs:     documents.NewHandler(docs, pipe, log, cfg.Pagination, cfg.Storage.MaxUploadSizeBytes()),
		search:   search.NewHandler(engine, idx, pipe, log),
	}
	return app, nil
}

func (app *Application) routes() http.Handler {
	sys := routes.New(app.logger)

	for _, group := range []routes.Group{app.docs.Routes(), app.search.Routes()} {
		group.Prefix = apiPrefix + group.Prefix
		sys.RegisterGroup(group)
	}

	sys.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: apiPrefix + "/stats",
		Handler: app.search.StatsHandler,
	})

	sys.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		},
	})

	return app.enableCORS(sys.Build())
}

func (app *Application) enableCORS(next http.Handler) http.Handler {
	cors := app.config.CORS
	if !cors.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(cors.Origins) > 0 {
			origin := r.Header.Get("Origin")
			if slices.Contains(cors.Origins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
		}

		if len(cors.AllowedMethods) > 0 {
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(cors.AllowedMethods, ", "))
		}

		if len(cors.AllowedHeaders) > 0 {
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(cors.AllowedHeaders, ", "))
		}

		if cors.AllowCredentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if cors.MaxAge > 0 {
			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cors.MaxAge))
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func openDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnTimeoutDuration())
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	return nil
}
