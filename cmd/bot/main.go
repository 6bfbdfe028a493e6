package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/spendsapp/receipt-service/internal/bot"
	"github.com/spendsapp/receipt-service/internal/config"
	"github.com/spendsapp/receipt-service/internal/database"
	"github.com/spendsapp/receipt-service/internal/openrouter"
	"github.com/spendsapp/receipt-service/internal/repository"
	"github.com/spendsapp/receipt-service/internal/service"
	"github.com/spendsapp/receipt-service/internal/storage"
)

func main() {
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storageCfg := &storage.Config{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		AccessKeySecret: cfg.AWSSecretAccessKey,
		Bucket:          cfg.S3Bucket,
	}
	sess, err := storage.NewSession(storageCfg)
	if err != nil {
		log.Fatalf("Failed to create AWS session: %v", err)
	}

	uploader, err := storage.NewS3Uploader(sess, storageCfg)
	if err != nil {
		log.Fatalf("Failed to create S3 uploader: %v", err)
	}

	backend, err := repository.ParseBackend(cfg.StorageBackend)
	if err != nil {
		log.Fatalf("Invalid storage backend: %v", err)
	}

	var repo repository.ReceiptRepository
	switch backend {
	case repository.BackendPostgres:
		db, err := database.NewPostgresDB(ctx, cfg.PostgresDBURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer db.Close()
		repo = repository.NewPostgresReceiptRepository(db.GetPool())
	case repository.BackendDynamoDB:
		repo = repository.NewDynamoDBReceiptRepository(dynamodb.New(sess), cfg.DynamoDBTable)
	}

	extractor := openrouter.NewClient(&openrouter.Config{
		APIKey:  cfg.OpenRouterAPIKey,
		ModelID: cfg.OpenRouterModelID,
		Timeout: cfg.OpenRouterTimeout,
	})

	receiptService := service.NewReceiptService(repo, extractor, uploader, cfg.MaxWorkers)
	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiration)

	receiptBot, err := bot.NewBot(cfg.TelegramBotToken, receiptService, authService)
	if err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}

	log.Println("Bot is running, press Ctrl+C to stop")
	if err := receiptBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot error: %v", err)
	}

	log.Println("Bot stopped")
}
