package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nicezozad/railbook/config"
	"github.com/nicezozad/railbook/internal/adapter/eventbus"
	"github.com/nicezozad/railbook/internal/adapter/handler"
	"github.com/nicezozad/railbook/internal/adapter/storage"
	"github.com/nicezozad/railbook/internal/core/domain"
	"github.com/nicezozad/railbook/internal/core/service"
	"github.com/nicezozad/railbook/internal/port"
	"github.com/nicezozad/railbook/internal/seed"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := log.With().Str("app", cfg.AppName).Logger()

	// MySQL
	db, err := sqlx.Connect("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect mysql")
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	logger.Info().Msg("connected to mysql")

	mysqlAdapter := storage.NewMySQLAdapter(db)
	if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	if cfg.SeedOnStart {
		if err := seed.New(mysqlAdapter, logger).Run(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed catalog")
		}
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: cfg.RedisPoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}
	logger.Info().Msg("connected to redis")
	redisAdapter := storage.NewRedisAdapter(rdb)

	// RabbitMQ is optional: bookings work without the event bus.
	var publisher port.EventPublisher
	rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.TicketExchange, cfg.TicketRoutingKey)
	if err != nil {
		logger.Warn().Err(err).Msg("rabbitmq unavailable, ticket events disabled")
	} else {
		publisher = rabbit
		defer rabbit.Close()
	}

	// Services
	bookingService := service.NewBookingService(mysqlAdapter, redisAdapter, logger, cfg.EventQueueSize)
	catalogService := service.NewCatalogService(mysqlAdapter, logger)

	// Event worker pool
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			publishLoop(id, bookingService.Events(), publisher, logger)
		}(i)
	}
	logger.Info().Int("workers", cfg.WorkerCount).Msg("started event workers")

	// HTTP server
	httpHandler := handler.NewHTTPHandler(bookingService, catalogService, logger)
	mux := http.NewServeMux()
	httpHandler.Register(mux)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info().Msg("HTTP server stopped")

	bookingService.Close()
	wg.Wait()
	logger.Info().Msg("event workers stopped")

	rdb.Close()
	db.Close()
	logger.Info().Msg("connections closed")
}

func publishLoop(id int, queue <-chan domain.TicketIssuedEvent, publisher port.EventPublisher, logger zerolog.Logger) {
	for evt := range queue {
		if publisher == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := publisher.PublishTicketIssued(ctx, evt); err != nil {
			logger.Error().Err(err).Int("worker", id).Int64("ticket_id", evt.TicketID).Msg("failed to publish ticket event")
		} else {
			logger.Debug().Int("worker", id).Int64("ticket_id", evt.TicketID).Msg("published ticket event")
		}
		cancel()
	}
}
