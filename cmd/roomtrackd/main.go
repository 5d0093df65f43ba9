package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"roomtrack-backend/config"
	"roomtrack-backend/internal/api"
	"roomtrack-backend/internal/db"
	"roomtrack-backend/internal/drift"
	"roomtrack-backend/internal/events"
	"roomtrack-backend/internal/mw"
	"roomtrack-backend/internal/notification"
	"roomtrack-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "roomtrack-backend ", log.LstdFlags)

	flags := pflag.NewFlagSet("roomtrackd", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "path to the YAML configuration file (default $CONFIG_PATH or ./config/config.yaml)")
	seed := flags.Bool("seed", false, "seed sample rooms into an empty database")
	_ = flags.Parse(os.Args[1:])

	if *configPath == "" {
		*configPath = os.Getenv("CONFIG_PATH")
	}
	if *configPath == "" {
		*configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", *configPath, err)
	}
	if *seed {
		cfg.Database.SeedSampleData = true
	}
	logger.Printf("configuration loaded successfully from %s", *configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	loc, err := time.LoadLocation(cfg.Drift.Timezone)
	if err != nil {
		logger.Printf("invalid timezone %q, using local time: %v", cfg.Drift.Timezone, err)
		loc = time.Local
	}

	handlerOpts := []api.Option{api.WithLocation(loc)}

	// Push notifications are optional; without VAPID keys rooms still drift
	// but nobody is told.
	var notifier drift.Notifier
	if cfg.Push.Enabled() {
		webpushOptions := &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
		pool.Start(ctx)
		notifier = pool
		handlerOpts = append(handlerOpts, api.WithWebPush(webpushOptions))
	} else {
		logger.Println("VAPID keys not configured, push notifications disabled")
	}

	sim := drift.NewSimulator(cfg.Drift, drift.WithLocation(loc))
	driftSvc := drift.NewService(appStore, sim, notifier, cfg.Drift.Enabled, cfg.Drift.Interval)
	go driftSvc.Run(ctx)
	handlerOpts = append(handlerOpts, api.WithDrift(driftSvc))

	if cfg.Events.Enabled {
		handlerOpts = append(handlerOpts, api.WithEvents(events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue)))
		logger.Printf("publishing domain events to queue %s", cfg.Events.Queue)
	}

	var responseCache mw.ResponseCache = mw.NewMemoryCache(2 * cfg.Server.CacheTTL())
	if cfg.Server.CacheBackend == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Printf("redis unavailable at %s, falling back to in-memory cache: %v", cfg.Redis.Addr, err)
			_ = rdb.Close()
		} else {
			responseCache = mw.NewRedisCache(rdb, cfg.Redis.Prefix)
			defer rdb.Close()
			logger.Printf("using redis response cache at %s", cfg.Redis.Addr)
		}
		pingCancel()
	}

	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	go limiter.RunEviction(ctx, time.Minute, 10*time.Minute)

	router := api.NewRouter(api.NewHandler(appStore, handlerOpts...), api.RouterOptions{
		RateLimiter: limiter,
		Cache:       responseCache,
		CacheTTL:    cfg.Server.CacheTTL(),
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
