package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/lock"
	"storefront/internal/logger"
	"storefront/internal/migrations"
	"storefront/internal/redis"
	"storefront/internal/repository"
	"storefront/internal/repository/memory"
	"storefront/internal/services"
	"storefront/pkg/whatsapp"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type repositories struct {
	orders     repository.OrderRepository
	ledger     repository.LedgerRepository
	affiliates repository.AffiliateRepository
	rules      repository.CommissionRuleRepository
}

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()

	// Initialize storage
	repos, err := initRepositories(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize storage", zap.Error(err))
	}

	// Initialize Redis, optional
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.Initialize(cfg.RedisURL)
		if err != nil {
			zl.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
	}

	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.LockBackend == config.LockBackendRedis {
		locker = redisClient.NewLocker(cfg.LockTTLDuration())
	}

	// Initialize services
	affiliateService := services.NewAffiliateService(repos.affiliates)
	commissionEngine := services.NewCommissionEngine(affiliateService, repos.rules, repos.affiliates, zl)
	ledgerPoster := services.NewLedgerPoster(repos.ledger)

	orderOpts := []services.OrderServiceOption{services.WithOrderLogger(zl)}
	if redisClient != nil {
		orderOpts = append(orderOpts, services.WithOrderCache(redisClient, cfg.CacheTTLDuration()))
	}
	orderService := services.NewOrderService(repos.orders, locker, commissionEngine, orderOpts...)

	settlementOpts := []services.SettlementOption{services.WithSettlementLogger(zl)}
	if cfg.NotificationsEnabled() {
		whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		settlementOpts = append(settlementOpts, services.WithNotifier(services.NewWhatsAppNotifier(whatsappClient, cfg.MerchantWhatsApp)))
	}
	settlementService := services.NewSettlementService(orderService, ledgerPoster, commissionEngine, locker, settlementOpts...)

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(orderService, ledgerPoster, affiliateService, repos.rules)
	paymentHandler := handlers.NewPaymentHandler(settlementService, cfg.PaymentWebhookSecret, zl)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(apiHandler, paymentHandler, zl)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting",
			zap.String("port", cfg.ServerPort),
			zap.String("lock_backend", cfg.LockBackend),
			zap.Bool("notifications", cfg.NotificationsEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}
	zl.Info("server stopped")
}

func initRepositories(cfg *config.Config, zl *zap.Logger) (*repositories, error) {
	if cfg.DatabaseURL == config.DatabaseMemory {
		zl.Warn("using in-memory storage; data is lost on restart")
		rules := memory.NewCommissionRuleRepository()
		if err := migrations.SeedDefaultRules(context.Background(), rules, zl); err != nil {
			return nil, err
		}
		return &repositories{
			orders:     memory.NewOrderRepository(),
			ledger:     memory.NewLedgerRepository(),
			affiliates: memory.NewAffiliateRepository(),
			rules:      rules,
		}, nil
	}

	db, err := database.Initialize(cfg.DatabaseURL, zl)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunMigrations(db, cfg.ResetSchema, zl); err != nil {
		return nil, err
	}
	return &repositories{
		orders:     repository.NewOrderRepository(db),
		ledger:     repository.NewLedgerRepository(db),
		affiliates: repository.NewAffiliateRepository(db),
		rules:      repository.NewCommissionRuleRepository(db),
	}, nil
}
