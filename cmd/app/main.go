package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"farm_miniapp/internal/api"
	"farm_miniapp/internal/chest"
	"farm_miniapp/internal/login"
	"farm_miniapp/internal/metrics"
	"farm_miniapp/internal/middleware"
	"farm_miniapp/internal/onboarding"
	"farm_miniapp/internal/repository"
	"farm_miniapp/internal/service"
	"farm_miniapp/internal/wallet"
	"farm_miniapp/pkg/auth"
	"farm_miniapp/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(cfg.Database, cfg.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	userService := service.NewUserService(repo)
	dailyRewardService := service.NewDailyRewardService(repo, repo)
	chestService := service.NewChestService(repo)

	purchaseService, err := service.NewPurchaseService(cfg.Payment, repo)
	if err != nil {
		zapLogger.Fatal("Failed to initialize purchase service", zap.Error(err))
	}

	notifier := service.NewChestNotifier()
	sessions, err := service.NewSessions(cfg.Sessions, service.SessionDeps{
		Games:          repo,
		Rewards:        dailyRewardService,
		Chests:         chestService,
		Auth:           repo,
		Purchaser:      purchaseService,
		Wallets:        wallet.NewSequenceClient(cfg.Wallet),
		Login:          login.NewClient(cfg.Login),
		Notifier:       notifier,
		ChestObservers: []func(chest.Transition){metrics.ObserveChest},
		StepObservers:  []func(onboarding.StepChange){metrics.ObserveStep},
	})
	if err != nil {
		zapLogger.Fatal("Failed to initialize sessions", zap.Error(err))
	}

	purchaseService.OnUpgraded = func(ctx context.Context, telegramID int64) {
		metrics.ObservePurchase()
		sessions.Refresh(ctx, telegramID)
	}
	go purchaseService.StartPaymentListener(ctx)

	telegramAuth := auth.NewTelegramAuth(cfg.TelegramAuth.TelegramBotToken, cfg.TelegramAuth.DebugMode)
	authorization := middleware.NewAuthorization(userService)

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a := router.Group("/api/v1")
	api.NewUserRoutes(a, userService, telegramAuth, authorization)
	api.NewDailyRewardRoutes(a, sessions, dailyRewardService, notifier, telegramAuth, authorization)
	api.NewOnboardingRoutes(a, sessions, telegramAuth, authorization)
	api.NewAdminRoutes(a, repo, telegramAuth, authorization)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Failed to shut down server", zap.Error(err))
	}
}
