package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/shenikar/incident_intelligence/internal/config"
	v1 "github.com/shenikar/incident_intelligence/internal/handler/http/v1"
	"github.com/shenikar/incident_intelligence/internal/intelligence"
	"github.com/shenikar/incident_intelligence/internal/metrics"
	"github.com/shenikar/incident_intelligence/internal/repository"
	"github.com/shenikar/incident_intelligence/internal/service"
	"github.com/shenikar/incident_intelligence/internal/webhook"
	"github.com/shenikar/incident_intelligence/pkg/logger"
	natsclient "github.com/shenikar/incident_intelligence/pkg/nats"
	"github.com/shenikar/incident_intelligence/pkg/postgres"
	redisclient "github.com/shenikar/incident_intelligence/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/incident_intelligence/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Incident Intelligence API
// @version 1.0
// @description Incident registry with keyword priority classification and spatio-temporal alerting.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// loadClassifier читает словарь ключевых слов, если он задан
func loadClassifier(cfg *config.Config, log *logrus.Logger) (*intelligence.Classifier, error) {
	if cfg.KeywordsFile == "" {
		return intelligence.DefaultClassifier(), nil
	}
	rules, err := intelligence.LoadRulesFile(cfg.KeywordsFile)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"file":  cfg.KeywordsFile,
		"rules": len(rules),
	}).Info("Loaded classifier keywords")
	return intelligence.NewClassifier(rules), nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Издатели: очередь вебхуков всегда, NATS если задан URL
	publishers := webhook.MultiPublisher{webhook.NewRedisWebhookPublisher(redisClient)}
	if cfg.NATSURL != "" {
		nc, err := natsclient.NewNATSConn(cfg.NATSURL, "incident-intelligence")
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer nc.Drain()
		publishers = append(publishers, webhook.NewNATSPublisher(nc, cfg.NATSSubject))
		log.WithField("subject", cfg.NATSSubject).Info("Successfully connected to NATS")
	}

	classifier, err := loadClassifier(cfg, log)
	if err != nil {
		log.Fatalf("Failed to load classifier keywords: %v", err)
	}

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient)

	// Инициализация сервисов
	alertService := service.NewAlertService(incidentRepo, classifier, publishers, m, log, cfg)
	incidentService := service.NewIncidentService(incidentRepo, alertService, log, cfg)

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, alertService, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Метрики и Swagger UI
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// Воркер вебхуков
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg)
	g.Go(func() error {
		return webhookWorker.Run(gctx)
	})

	// HTTP-сервер
	g.Go(func() error {
		log.Infof("HTTP server started on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Received shutdown signal, shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Service stopped with error")
		return
	}
	log.Info("Server gracefully stopped")
}
