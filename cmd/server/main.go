package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sauna-locker-desk/config"
	"sauna-locker-desk/internal/clock"
	"sauna-locker-desk/internal/database"
	"sauna-locker-desk/internal/handler"
	"sauna-locker-desk/internal/ledger"
	"sauna-locker-desk/internal/pricing"
	"sauna-locker-desk/internal/queue"
	"sauna-locker-desk/internal/service"
	"sauna-locker-desk/internal/storage"
	"sauna-locker-desk/internal/worker"
	"sauna-locker-desk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "time/tzdata"
)

func main() {
	if err := run(); err != nil {
		logger.L.Fatal("server terminated with error", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Server.LogLevel)
	log := logger.WithComponent("server")

	for _, o := range pricing.Overlaps(&cfg.Venue.Pricing) {
		log.Warn("pricing rules overlap, first declared wins",
			zap.String("first", o.First),
			zap.String("second", o.Second),
			zap.Int("weekday", int(o.Weekday)),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Storage.Driver == "redis" || cfg.Queue.Driver == "redis" {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			return fmt.Errorf("init redis: %w", err)
		}
		defer rdb.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Storage.Driver == "postgres" {
		pool, err = database.InitDatabase(&cfg.Database)
		if err != nil {
			return fmt.Errorf("init database: %w", err)
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			return err
		}
	}

	store := newStore(cfg.Storage, rdb, pool)
	events, err := newEventQueue(cfg.Queue, rdb)
	if err != nil {
		return fmt.Errorf("init event queue: %w", err)
	}

	clk := clock.NewReal(cfg.Venue.Location)
	lockers := ledger.NewLockerLedger(store, clk, cfg.Venue.LockerCount)
	tickets := ledger.NewTicketLedger(store, clk)

	entryService := service.NewEntryService(store, lockers, tickets, &cfg.Venue.Pricing, clk, events)
	ticketService := service.NewTicketService(tickets, cfg.Venue.TicketTypes, clk, events)
	statsService := service.NewStatsService(store)

	g, ctx := errgroup.WithContext(ctx)

	statsWorker := worker.NewStatsWorker(statsService, events)
	if err := statsWorker.Start(ctx); err != nil {
		return fmt.Errorf("start stats worker: %w", err)
	}

	gin.SetMode(cfg.Server.GinMode)
	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	handler.NewPricingHandler(entryService).RegisterRoutes(router)
	handler.NewLockerHandler(lockers).RegisterRoutes(router)
	handler.NewEntryHandler(entryService).RegisterRoutes(router)
	handler.NewTicketHandler(ticketService).RegisterRoutes(router)
	handler.NewStatsHandler(statsService).RegisterRoutes(router)

	// 前端頁面放在 STATIC_DIR，目錄不存在時只提供 API
	if info, err := os.Stat(cfg.Server.StaticDir); err == nil && info.IsDir() {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.Server.StaticDir))))
	} else {
		log.Info("static dir not found, serving API only", zap.String("dir", cfg.Server.StaticDir))
	}

	server := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: cors.New(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info("starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("venue", cfg.Venue.Name),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("queue", cfg.Queue.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		log.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newStore(cfg config.StorageConfig, rdb *redis.Client, pool *pgxpool.Pool) storage.Store {
	switch cfg.Driver {
	case "redis":
		return storage.NewRedisStore(rdb, cfg.KeyPrefix)
	case "postgres":
		return storage.NewPostgresStore(pool)
	default:
		return storage.NewMemoryStore()
	}
}

func newEventQueue(cfg config.QueueConfig, rdb *redis.Client) (queue.EventQueue, error) {
	if cfg.Driver == "redis" {
		return queue.NewRedisStreamEventQueue(rdb, cfg.ConsumerID, nil)
	}
	return queue.NewEventQueue(cfg.BufferSize), nil
}
