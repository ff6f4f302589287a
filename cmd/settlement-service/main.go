package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/lunamarket/settlement-service/internal/app/background"
	"github.com/lunamarket/settlement-service/internal/client"
	"github.com/lunamarket/settlement-service/internal/config"
	httpdelivery "github.com/lunamarket/settlement-service/internal/delivery/http"
	"github.com/lunamarket/settlement-service/internal/delivery/http/handlers"
	publisher "github.com/lunamarket/settlement-service/internal/infrastructure/kafka"
	"github.com/lunamarket/settlement-service/internal/infrastructure/metrics"
	"github.com/lunamarket/settlement-service/internal/infrastructure/migrate"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres"
	"github.com/lunamarket/settlement-service/internal/infrastructure/postgres/repository"
	disputeusecase "github.com/lunamarket/settlement-service/internal/usecase/dispute"
	orderusecase "github.com/lunamarket/settlement-service/internal/usecase/order"
	payoutusecase "github.com/lunamarket/settlement-service/internal/usecase/payout"
	sellerusecase "github.com/lunamarket/settlement-service/internal/usecase/seller"
	settingsusecase "github.com/lunamarket/settlement-service/internal/usecase/settings"
	webhookusecase "github.com/lunamarket/settlement-service/internal/usecase/webhook"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg.LogConfig)

	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.LedgerDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.LedgerDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	kafkaPublisher := publisher.NewKafkaPublisher(brokers, cfg.KafkaService.Topic)
	defer kafkaPublisher.Close()

	// Init metrics
	settlementMetrics := metrics.NewSettlementMetrics()

	// Init repositories
	orderRepo := repository.NewDefaultOrderRepository(db)
	paymentRepo := repository.NewDefaultPaymentRepository(db)
	payoutRepo := repository.NewDefaultPayoutRepository(db)
	disputeRepo := repository.NewDefaultDisputeRepository(db)
	accessRepo := repository.NewDefaultAccessRepository(db)
	accountRepo := repository.NewDefaultSellerAccountRepository(db)
	settingsRepo := repository.NewDefaultSettingsRepository(db)
	ledger := repository.NewDefaultSettlementLedger(db)

	// Init external clients
	listingClient := client.NewHTTPListingClient(cfg.ListingService.BaseURL, cfg.ListingService.Timeout)
	transferClient := client.NewHTTPTransferClient(cfg.TransferService.BaseURL, cfg.TransferService.Timeout)

	// Init usecases
	settingsUc := settingsusecase.NewDefaultSettingsUsecase(settingsRepo)
	orderUc := orderusecase.NewDefaultOrderUsecase(
		orderRepo,
		paymentRepo,
		accessRepo,
		listingClient,
		settingsUc,
		kafkaPublisher,
		settlementMetrics,
	)
	webhookUc := webhookusecase.NewDefaultWebhookUsecase(
		cfg.GatewayWebhook.Secret,
		paymentRepo,
		orderRepo,
		ledger,
		settingsUc,
		kafkaPublisher,
		settlementMetrics,
	)
	payoutUc := payoutusecase.NewDefaultPayoutUsecase(
		payoutRepo,
		orderRepo,
		accountRepo,
		transferClient,
		kafkaPublisher,
		settlementMetrics,
		cfg.PayoutWorker.Workers,
		cfg.PayoutWorker.StaleAfter,
	)
	disputeUc := disputeusecase.NewDefaultDisputeUsecase(
		disputeRepo,
		orderRepo,
		ledger,
		kafkaPublisher,
		settlementMetrics,
	)
	sellerUc := sellerusecase.NewDefaultSellerUsecase(accountRepo)

	// Background jobs
	scheduler := background.NewScheduler(payoutUc, cfg.PayoutWorker)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	router := httpdelivery.SetupRouter(&httpdelivery.Handlers{
		Order:    handlers.NewOrderHandler(orderUc),
		Webhook:  handlers.NewWebhookHandler(webhookUc),
		Dispute:  handlers.NewDisputeHandler(disputeUc),
		Payout:   handlers.NewPayoutHandler(payoutUc, cfg.PayoutWorker.BatchLimit),
		Seller:   handlers.NewSellerHandler(sellerUc),
		Settings: handlers.NewSettingsHandler(settingsUc),
	})

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	slog.Info("settlement service listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("http server stopped: %v", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
