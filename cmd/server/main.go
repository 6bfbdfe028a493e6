package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	_ "github.com/spendsapp/receipt-service/docs"
	"github.com/spendsapp/receipt-service/internal/config"
	"github.com/spendsapp/receipt-service/internal/database"
	"github.com/spendsapp/receipt-service/internal/handler"
	"github.com/spendsapp/receipt-service/internal/openrouter"
	"github.com/spendsapp/receipt-service/internal/repository"
	"github.com/spendsapp/receipt-service/internal/server"
	"github.com/spendsapp/receipt-service/internal/service"
	"github.com/spendsapp/receipt-service/internal/storage"
)

// @title Receipt Service API
// @version 1.0
// @description Receipt photo upload, extraction and management API
// @BasePath /
func main() {
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

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

	log.Printf("Initializing %s repository...", backend)
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

	receiptHandler := handler.NewReceiptHandler(receiptService)
	authHandler := handler.NewAuthHandler(authService, cfg.JWTExpiration)

	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)
	appServer.RegisterRoutes(receiptHandler, authHandler, authService)

	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
