package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mgrozdek22/TBP-nail-app/internal/config"
	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/queue"
	"github.com/mgrozdek22/TBP-nail-app/internal/router"
	"github.com/mgrozdek22/TBP-nail-app/internal/service"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg)
	if err != nil {
		lg.Fatal("database open failed", "driver", cfg.DBDriver, "error", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		lg.Fatal("migrations failed", "error", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		lg.Warn("redis unavailable; caching and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	g, gctx := errgroup.WithContext(ctx)

	var pub service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		pub = &service.AMQPPublisher{URL: cfg.RabbitMQURL, Log: lg}
		consumer := &queue.AuditConsumer{URL: cfg.RabbitMQURL, Dir: cfg.AuditLogDir, Log: lg}
		g.Go(func() error {
			// the audit trail is secondary; its failure must not stop the API
			if err := consumer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("audit consumer stopped", "error", err)
			}
			return nil
		})
	}

	e, err := router.NewServer(router.Deps{
		Cfg:       cfg,
		DB:        db,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Publisher: pub,
		Log:       lg,
	})
	if err != nil {
		lg.Fatal("server setup failed", "error", err)
	}

	addr := ":" + cfg.Port
	g.Go(func() error {
		lg.Info("listening", "addr", addr, "env", cfg.Env, "driver", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		lg.Error("server stopped", "error", err)
	}
}

func openDB(cfg config.Config) (*database.DB, error) {
	d, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	if d == database.SQLite {
		return database.OpenSQLite(cfg.SQLitePath)
	}
	return database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}
