package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/export"
	adapterHTTP "github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/adapters/storage"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/config"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/domain"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/services"
	"github.com/comitanigiacomo/kanso-study-tracker/internal/core/workers"
)

type backends struct {
	durable  repository.Store
	checkers []adapterHTTP.HealthChecker
	closers  []func() error
}

func (b *backends) Close() {
	for _, c := range b.closers {
		if err := c(); err != nil {
			log.Printf("Close error: %v", err)
		}
	}
}

// openStorage connects Postgres and, when SQLITE_PATH is set, the local
// SQLite file. With both available SQLite takes over whenever Postgres
// fails; with only one, that one is used alone.
func openStorage(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{}

	log.Println("Connecting to database...")
	pg, err := sqlx.Connect("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Printf("Warning: Postgres unavailable: %v", err)
	} else {
		pg.SetMaxOpenConns(25)
		pg.SetMaxIdleConns(25)
		pg.SetConnMaxLifetime(5 * time.Minute)

		if err := repository.Migrate(ctx, pg); err != nil {
			pg.Close()
			return nil, fmt.Errorf("postgres migration failed: %w", err)
		}
		b.closers = append(b.closers, pg.Close)
		b.checkers = append(b.checkers, adapterHTTP.NewDBChecker("database", pg))
		log.Println("Database connected successfully.")
	}

	var local *sqlx.DB
	if cfg.SQLitePath != "" {
		local, err = repository.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to open sqlite at %s: %w", cfg.SQLitePath, err)
		}
		if err := repository.Migrate(ctx, local); err != nil {
			local.Close()
			b.Close()
			return nil, fmt.Errorf("sqlite migration failed: %w", err)
		}
		b.closers = append(b.closers, local.Close)
		log.Printf("Local store ready at %s", cfg.SQLitePath)
	}

	switch {
	case pg != nil && local != nil:
		b.durable = repository.NewFallbackStore(repository.NewSQLStore(pg), repository.NewSQLStore(local))
	case pg != nil:
		b.durable = repository.NewSQLStore(pg)
	case local != nil:
		b.durable = repository.NewSQLStore(local)
	default:
		return nil, fmt.Errorf("no storage available: postgres unreachable and SQLITE_PATH not set")
	}
	return b, nil
}

type app struct {
	router    *gin.Engine
	worker    *workers.PersistWorker
	scheduler *workers.ResyncScheduler
}

type appOptions struct {
	Redis   *redis.Client
	Objects services.ObjectStore
}

// newApp hydrates the in-memory session from durable storage, seeds the
// schedule and wires services to the router. Background work stops when
// ctx is cancelled.
func newApp(ctx context.Context, cfg *config.Config, b *backends, opts appOptions) (*app, error) {
	worker := workers.NewPersistWorker(cfg.PersistQueueSize)
	worker.Start(ctx)

	session := repository.NewWriteBehindStore(repository.NewSessionStore(), b.durable, worker)
	if err := session.Hydrate(ctx); err != nil {
		return nil, err
	}
	store := session.Store()

	now := cfg.Now
	subjectService := services.NewSubjectService(store.Subjects, store.Progress, domain.DefaultSchedule(), nil, now)
	taskService := services.NewTaskService(store.Tasks, now)

	if err := subjectService.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seed failed: %w", err)
	}

	months := cache.NewLocalCache(cfg.CalendarCacheTTL, 2*cfg.CalendarCacheTTL)
	boardService := services.NewBoardService(subjectService, taskService, now)
	calendarService := services.NewCalendarService(subjectService, taskService, months, now)
	exportService := services.NewExportService(boardService, export.NewXLSXRenderer(), opts.Objects, cfg.ExportURLTTL, now)

	scheduler := workers.NewResyncScheduler(cfg.Location, cfg.ResyncInterval, map[string]workers.Resyncer{
		"subjects": subjectService,
		"tasks":    taskService,
	})
	if err := scheduler.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start resync scheduler: %w", err)
	}

	checkers := append([]adapterHTTP.HealthChecker{}, b.checkers...)
	checkers = append(checkers, cache.NewRedisChecker(opts.Redis))

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		SubjectHandler: adapterHTTP.NewSubjectHandler(subjectService),
		TaskHandler:    adapterHTTP.NewTaskHandler(taskService),
		BoardHandler:   adapterHTTP.NewBoardHandler(boardService, calendarService, now),
		ExportHandler:  adapterHTTP.NewExportHandler(exportService),
		Checkers:       checkers,
		Redis:          opts.Redis,
		RateLimit:      cfg.RateLimit,
		AllowedOrigins: cfg.AllowedOrigins,
		StartTime:      time.Now(),
	})

	return &app{router: router, worker: worker, scheduler: scheduler}, nil
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	defer b.Close()

	var opts appOptions

	rdb, err := cache.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("Warning: rate limiting disabled: %v", err)
	} else {
		defer rdb.Close()
		opts.Redis = rdb
	}

	if cfg.MinIOEndpoint != "" {
		objects, err := storage.NewMinIOStore(storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err == nil {
			err = objects.EnsureBucket(ctx)
		}
		if err != nil {
			log.Printf("Warning: snapshots disabled: %v", err)
		} else {
			opts.Objects = objects
		}
	}

	a, err := newApp(ctx, cfg, b, opts)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kanso Study Tracker running on http://localhost:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown error: %v", err)
	}

	a.scheduler.Stop()
	cancel()
	a.worker.Wait()

	log.Println("Server stopped gracefully.")
}
