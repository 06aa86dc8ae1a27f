package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"employeedir/internal/domain/employee"
	"employeedir/internal/platform/config"
	"employeedir/internal/platform/db"
	"employeedir/internal/platform/logger"
	"employeedir/internal/platform/metrics"
	"employeedir/internal/storage/postgres"
	"employeedir/internal/storage/postgres/migrations"
	"employeedir/internal/storage/sqlite"
	employeeshandler "employeedir/internal/transport/http/handlers/employees"
	"employeedir/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Service *employee.Service
	Metrics *metrics.Collector
	Router  http.Handler

	close func()
}

// OpenStore connects to the configured backend. SQLite always applies its
// embedded schema; Postgres does so only when migrate is true.
func OpenStore(ctx context.Context, cfg config.Config, migrate bool) (employee.Store, func(), error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		if migrate {
			if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("migrations: %w", err)
			}
		}
		return postgres.NewStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DatabaseDriver)
	}
}

// New opens the store and builds the application around it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, closeStore, err := OpenStore(ctx, cfg, cfg.RunMigrations)
	if err != nil {
		return nil, err
	}

	if cfg.RunSeed {
		inserted, err := db.Seed(ctx, store)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("seed: %w", err)
		}
		if inserted > 0 {
			logger.L().Info().Int("rows", inserted).Msg("seeded sample employees")
		}
	}

	app := NewWithStore(cfg, store)
	app.close = closeStore
	return app, nil
}

// NewWithStore wires handlers and middleware around an already opened store.
func NewWithStore(cfg config.Config, store employee.Store) *App {
	collector := metrics.New()
	service := employee.NewService(store, employee.Options{
		ValidationMode: cfg.Validation(),
		DefaultLimit:   cfg.DefaultPageSize,
		MaxLimit:       cfg.MaxPageSize,
		Recorder:       collector,
	})

	var recorder middleware.RequestRecorder
	if cfg.MetricsEnabled {
		recorder = collector
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(recorder))
	router.Use(chimw.Recoverer)
	router.Use(middleware.CORS)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.MutationRateLimit(cfg.RateLimitPerMinute, time.Minute, cfg.TrustProxyHeaders))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := service.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Warn().Err(err).Msg("readiness check failed")
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", collector.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		employeesHandler := employeeshandler.NewHandler(service, cfg.DefaultPageSize, cfg.MaxPageSize)
		employeesHandler.RegisterRoutes(r)
	})

	if info, err := os.Stat(cfg.FrontendDir); err == nil && info.IsDir() {
		router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	}

	return &App{
		Config:  cfg,
		Service: service,
		Metrics: collector,
		Router:  router,
	}
}

func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadTimeout:       a.Config.ReadTimeout,
		ReadHeaderTimeout: a.Config.ReadTimeout,
		WriteTimeout:      a.Config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info().Str("addr", a.Config.Addr).Str("driver", a.Config.DatabaseDriver).Msg("employee directory listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.L().Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
