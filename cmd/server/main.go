package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lamanda20/ecommerce-backend/internal/cache"
	"github.com/lamanda20/ecommerce-backend/internal/cartstore"
	"github.com/lamanda20/ecommerce-backend/internal/catalog"
	"github.com/lamanda20/ecommerce-backend/internal/events"
	h "github.com/lamanda20/ecommerce-backend/internal/http"
	"github.com/lamanda20/ecommerce-backend/internal/repository"
	"github.com/lamanda20/ecommerce-backend/internal/service"
)

type Config struct {
	HTTPPort        string
	DBPath          string
	MigrationsPath  string
	RedisAddr       string
	KafkaBrokers    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "4000"),
		DBPath:          getEnv("DB_PATH", "shop.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	repo, err := repository.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open product repository: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Product cache is optional, the catalog falls through to the
	// repository without it.
	var productCache cache.ProductCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unavailable, product cache disabled: %v", err)
		} else {
			productCache = cache.NewRedisCache(client)
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kp := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kp.Close()
		publisher = kp
	}

	catalogSvc := catalog.NewService(repo, productCache)
	cartSvc := service.NewCartService(cartstore.NewMemoryStore(), catalogSvc, publisher)

	cartHandler := h.NewCartHandler(cartSvc, cfg.RequestTimeout)
	productHandler := h.NewProductHandler(catalogSvc, cfg.RequestTimeout)

	router := h.NewRouter(cartHandler, productHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
