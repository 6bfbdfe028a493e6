package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxWorkers   int
	LogFormat    string
	LogLevel     string

	// Storage backend selection: "postgres" or "dynamodb"
	StorageBackend string
	PostgresDBURL  string
	DynamoDBTable  string

	// AWS configuration (S3 image storage and DynamoDB)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3Bucket           string

	// Extraction API configuration
	OpenRouterAPIKey  string
	OpenRouterModelID string
	OpenRouterTimeout time.Duration

	// Auth configuration
	JWTSecret     string
	JWTExpiration time.Duration

	// Telegram bot configuration
	TelegramBotToken string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 90)) * time.Second,
		MaxWorkers:   getEnvInt("MAX_WORKERS", 5),
		LogFormat:    getEnvString("LOG_FORMAT", "json"),
		LogLevel:     getEnvString("LOG_LEVEL", "info"),

		// Storage configuration
		StorageBackend: getEnvString("STORAGE_BACKEND", "postgres"),
		PostgresDBURL:  os.Getenv("POSTGRES_DB_URL"),
		DynamoDBTable:  getEnvString("DYNAMODB_TABLE", "receipts"),

		// AWS configuration
		AWSRegion:          getEnvString("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		S3Bucket:           os.Getenv("AWS_BUCKET_NAME"),

		// Extraction API configuration
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModelID: getEnvString("OPENROUTER_MODEL_ID", "meta-llama/llama-3.2-11b-vision-instruct:free"),
		OpenRouterTimeout: time.Duration(getEnvInt("OPENROUTER_TIMEOUT", 60)) * time.Second,

		// Auth configuration
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 168)) * time.Hour,

		// Telegram bot configuration
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	validateConfig(config)

	return config, nil
}

// validateConfig checks if critical configuration values are set and logs warnings if they're missing
func validateConfig(config *Config) {
	if config.OpenRouterAPIKey == "" {
		log.Println("Warning: No OpenRouter API key provided. Extraction requests will fail.")
	}

	if config.StorageBackend == "postgres" && config.PostgresDBURL == "" {
		log.Println("Warning: STORAGE_BACKEND is postgres but POSTGRES_DB_URL is not set.")
	}

	if config.S3Bucket == "" {
		log.Println("Warning: No S3 bucket configured. Image uploads will fail.")
	}

	if config.JWTSecret == "" {
		log.Println("Warning: No JWT secret provided. Token validation will fail.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvStringSlice gets a string slice from a comma-separated environment variable
func getEnvStringSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	return strings.Split(valueStr, ",")
}
