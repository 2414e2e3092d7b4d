package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	api "github.com/mind-engage/mindengage-courses/internal/api/http"
	auth "github.com/mind-engage/mindengage-courses/internal/auth/middleware"
	"github.com/mind-engage/mindengage-courses/internal/config"
	"github.com/mind-engage/mindengage-courses/internal/db"
	"github.com/mind-engage/mindengage-courses/internal/delivery"
	"github.com/mind-engage/mindengage-courses/internal/logger"
	"github.com/mind-engage/mindengage-courses/internal/progress"
	"github.com/mind-engage/mindengage-courses/internal/quiz"
	"github.com/mind-engage/mindengage-courses/internal/rbac"
	syncx "github.com/mind-engage/mindengage-courses/internal/sync"
)

func main() {
	os.Exit(start(config.Load))
}

// start returns the process exit code so deferred cleanup in run and the
// logger flush happen before os.Exit.
func start(load func() (*config.Config, error)) int {
	cfg, err := load()
	if err != nil {
		// no logger yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		return 1
	}
	log, err := logger.New(cfg)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("gateway stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, log *zap.Logger) error {
	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	defer dbh.Close()
	events := syncx.NewEventRepo(dbh)

	// --- Stores ---
	var (
		quizStore    quiz.Store
		trackerStore progress.Store
		ready        = func() error { return dbh.PingContext(context.Background()) }
	)
	switch cfg.StoreDriver {
	case "memory":
		quizStore, trackerStore = quiz.NewMemoryStore(), progress.NewMemoryStore()
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		quizStore, trackerStore = quiz.NewSQLStore(dbh), progress.NewRedisStore(rdb)
		ready = func() error {
			if err := dbh.PingContext(context.Background()); err != nil {
				return err
			}
			return rdb.Ping(context.Background()).Err()
		}
	default:
		quizStore, trackerStore = quiz.NewSQLStore(dbh), progress.NewSQLStore(dbh)
	}

	quizSvc := quiz.NewService(quizStore, log.Named("quiz"))
	progressSvc := progress.NewService(trackerStore,
		progress.WithEvents(events, cfg.SiteID),
		progress.WithLogger(log.Named("progress")))

	authSvc := auth.NewAuthService(cfg.HMACSecret,
		auth.Account{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: rbac.RoleAdmin},
		auth.Account{Username: cfg.CreatorUser, PassHash: cfg.CreatorPassHash, Role: rbac.RoleCreator},
		auth.Account{Username: cfg.StudentUser, PassHash: cfg.StudentPassHash, Role: rbac.RoleStudent},
	)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, api.RequestLogger(log.Named("http")), middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Auth:     authSvc,
		Quizzes:  quizSvc,
		Progress: progressSvc,
		Delivery: &delivery.Service{Quizzes: quizStore, Progress: progressSvc},
		Events:   events,
		Ready:    ready,
		Log:      log,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening",
			zap.String("addr", cfg.HTTPAddr), zap.String("mode", string(cfg.Mode)),
			zap.String("db", cfg.DBDriver), zap.String("store", cfg.StoreDriver))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	return srv.Shutdown(shutdownCtx)
}
