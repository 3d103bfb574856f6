package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parichay/internal/audit"
	auditpublisher "parichay/internal/audit/publisher"
	"parichay/internal/audit/sink"
	auditmemory "parichay/internal/audit/store/memory"
	auditpostgres "parichay/internal/audit/store/postgres"
	"parichay/internal/platform/config"
	"parichay/internal/platform/database"
	"parichay/internal/platform/health"
	"parichay/internal/platform/httpserver"
	"parichay/internal/platform/kafka/producer"
	"parichay/internal/platform/logger"
	platformredis "parichay/internal/platform/redis"
	"parichay/internal/scan/cache"
	scanhandler "parichay/internal/scan/handler"
	scanmetrics "parichay/internal/scan/metrics"
	"parichay/internal/scan/service"
	scanstore "parichay/internal/scan/store"
	"parichay/internal/scan/tracer"
	httptransport "parichay/internal/transport/http"
	"parichay/pkg/platform/middleware/auth"
	"parichay/pkg/platform/middleware/request"
)

const auditBufferSize = 256

var errKafkaUnreachable = errors.New("kafka brokers unreachable")

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
// Every external dependency is optional: without Postgres, Redis, or Kafka
// the gateway runs on in-process fallbacks.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing parichay",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	healthHandler := health.New(cfg.Environment)

	// Postgres: scan history and the audit trail. Memory fallback otherwise.
	pool, err := database.New(databaseConfig(cfg))
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	var scans scanstore.Store = scanstore.NewInMemoryStore()
	var auditStore audit.Store = auditmemory.NewInMemoryStore()
	if pool != nil {
		scans = scanstore.NewPostgresStore(pool.DB())
		auditStore = auditpostgres.New(pool.DB())
		healthHandler.RegisterCheck("postgres", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		defer pool.Close() //nolint:errcheck // shutdown path
		log.Info("scan history backed by postgres")
	} else {
		log.Warn("DATABASE_URL not set, scan history is in-memory and lost on restart")
	}

	// Redis: decode cache. Disabled otherwise.
	redisClient, err := redisClientFromConfig(cfg)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	var decodeCache cache.Cache = cache.NewNoop()
	if redisClient != nil {
		decodeCache = cache.NewRedisCache(redisClient.Client, cfg.CacheTTL)
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Health(ctx)
		})
		defer redisClient.Close() //nolint:errcheck // shutdown path
		log.Info("decode cache backed by redis", "ttl", cfg.CacheTTL)
	} else {
		log.Warn("REDIS_URL not set, decode caching disabled")
	}

	// Kafka: audit event forwarding. The local store stays authoritative.
	var auditTarget audit.Store = auditStore
	if cfg.KafkaBrokers != "" {
		kafkaProducer, err := producer.New(producer.Config{
			Brokers:         cfg.KafkaBrokers,
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaProducer.Close() //nolint:errcheck // shutdown path
		auditTarget = audit.NewFanout(auditStore, log, sink.NewKafka(kafkaProducer, cfg.AuditTopic))
		healthHandler.RegisterCheck("kafka", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if !kafkaProducer.Healthy(ctx) {
				return errKafkaUnreachable
			}
			return nil
		})
		log.Info("audit events forwarded to kafka", "topic", cfg.AuditTopic)
	}

	auditor := auditpublisher.New(auditTarget,
		auditpublisher.WithAsyncBuffer(auditBufferSize),
		auditpublisher.WithLogger(log),
	)
	defer auditor.Close()

	verifier := auth.NewVerifier(cfg.JWTSigningKey)
	if !verifier.Enabled() {
		log.Warn("JWT_SIGNING_KEY not set, decode API is unauthenticated")
	}
	if cfg.AdminTokenHash == "" {
		log.Warn("ADMIN_TOKEN_HASH not set, admin endpoints disabled")
	}

	svc := service.NewScanService(scans,
		service.WithCache(decodeCache),
		service.WithAuditPublisher(auditor),
		service.WithMetrics(scanmetrics.New()),
		service.WithTracer(tracer.NewOTel()),
		service.WithLogger(log),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Config:         cfg,
		Scans:          scanhandler.New(svc, log),
		Health:         healthHandler,
		Verifier:       verifier,
		LatencyMetrics: request.NewMetrics(),
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func databaseConfig(cfg config.Server) database.Config {
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	return dbCfg
}

func redisClientFromConfig(cfg config.Server) (*platformredis.Client, error) {
	redisCfg := platformredis.DefaultConfig()
	redisCfg.URL = cfg.RedisURL
	return platformredis.New(redisCfg)
}
