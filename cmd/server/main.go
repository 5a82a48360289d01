package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/projexhub-backend/internal/app"
	"github.com/ignatzorin/projexhub-backend/internal/config"
	"github.com/ignatzorin/projexhub-backend/internal/db"
	"github.com/ignatzorin/projexhub-backend/internal/domain/repository"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexhub-backend/internal/goroutine"
	"github.com/ignatzorin/projexhub-backend/internal/http/router"
	"github.com/ignatzorin/projexhub-backend/internal/infrastructure/export"
	"github.com/ignatzorin/projexhub-backend/internal/infrastructure/gateway"
	"github.com/ignatzorin/projexhub-backend/internal/infrastructure/lock"
	infranotification "github.com/ignatzorin/projexhub-backend/internal/infrastructure/notification"
	"github.com/ignatzorin/projexhub-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/projexhub-backend/internal/interface/http/handler"
	"github.com/ignatzorin/projexhub-backend/internal/logger"
	"github.com/ignatzorin/projexhub-backend/internal/service"
	"github.com/ignatzorin/projexhub-backend/internal/usecase/payment"
	"github.com/ignatzorin/projexhub-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.Log.Level)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}
	if cfg.Log.FilePath != "" {
		if err := logger.AttachFile(logger.FileOptions{
			Path:       cfg.Log.FilePath,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		}); err != nil {
			logger.Log.WithError(err).Fatal("main: не удалось открыть файл логов")
		}
	}

	// Подключение к базе и проверка схемы.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if cfg.AutoMigrate {
		if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
			logger.Log.WithError(err).Fatal("main: ошибка миграций")
		}
	}
	if err := db.RequireSchema(ctx, dbConn, cfg.MigrationsPath); err != nil {
		logger.Log.WithError(err).Fatal("main: схема базы не готова")
	}

	// Репозитории.
	repos := app.Repositories{
		Projects:      persistence.NewProjectRepositoryAdapter(dbConn),
		Proposals:     persistence.NewProposalRepositoryAdapter(dbConn),
		Payments:      persistence.NewPaymentRepositoryAdapter(dbConn),
		Progress:      persistence.NewProgressRepositoryAdapter(dbConn),
		Disputes:      persistence.NewDisputeRepositoryAdapter(dbConn),
		Reviews:       persistence.NewReviewRepositoryAdapter(dbConn),
		Notifications: persistence.NewNotificationRepositoryAdapter(dbConn),
	}

	healthChecks := map[string]handler.Pinger{"database": dbConn}

	// Блокировка создания заказов: Redis, если он настроен, иначе в памяти процесса.
	var locker repository.Locker = lock.NewMemoryLocker()
	if cfg.Redis.Addr != "" {
		redisClient, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Log.WithError(err).Fatal("main: ошибка подключения к redis")
		}
		defer safeCloseRedis(redisClient)
		locker = lock.NewRedisLocker(redisClient, cfg.Redis.LockTTL)
		healthChecks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	var paymentGateway repository.PaymentGateway = gateway.Unconfigured{}
	if cfg.Payments.GatewayConfigured() {
		paymentGateway = gateway.NewRazorpayGateway(
			cfg.Payments.RazorpayBaseURL,
			cfg.Payments.RazorpayKeyID,
			cfg.Payments.RazorpayKeySecret,
			cfg.Payments.GatewayTimeout,
		)
	} else {
		logger.Log.Warn("main: ключи платёжного шлюза не заданы, создание заказов недоступно")
	}

	commission, err := valueobject.NewCommissionRate(cfg.Payments.CommissionPercentage)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: некорректная комиссия платформы")
	}

	// Вебсокеты и доставка уведомлений.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	handlers := app.BuildHandlers(app.Deps{
		Repos:         repos,
		Gateway:       paymentGateway,
		Locker:        locker,
		Notifier:      infranotification.NewDispatcher(repos.Notifications, hub),
		NotifyTimeout: cfg.NotifyTimeout,
		Payments: payment.Settings{
			Commission:     commission,
			Currency:       cfg.Payments.Currency,
			GatewayTimeout: cfg.Payments.GatewayTimeout,
		},
		SheetWriter:    export.NewXLSXWriter(),
		Tokens:         tokenManager,
		Hub:            hub,
		AllowedOrigins: cfg.AllowedOrigins,
		HealthChecks:   healthChecks,
	})

	engine := router.SetupRouter(cfg, handlers, tokenManager)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}

func safeCloseRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия redis")
	}
}
