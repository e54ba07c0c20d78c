package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	Ai       AIConfig
	Payment  PaymentConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	SessionStore       string // "memory" or "redis"
	SessionTTLMinutes  int
}

type DatabaseConfig struct {
	Connection   string
	CatalogTable string
}

type SMTPConfig struct {
	Host         string
	Port         int
	Email        string
	Password     string
	SenderName   string
	SupportEmail string
}

type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	PublicBaseURL   string
}

type AIConfig struct {
	LLMProvider   string // "groq" or "ollama"
	LLMModel      string
	GroqAPIKey    string
	GroqBaseURL   string
	OllamaBaseURL string
}

type PaymentConfig struct {
	MidtransServerKey string
	MidtransEnv       string // "sandbox" or "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionStore:       getEnv("SESSION_STORE", "memory"),
			SessionTTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Database: DatabaseConfig{
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			CatalogTable: getEnv("CATALOG_TABLE", "Ecommerce_Data"),
		},
		SMTP: SMTPConfig{
			Host:         getEnv("SMTP_HOST", ""),
			Port:         getEnvAsInt("SMTP_PORT", 587),
			Email:        getEnv("SMTP_EMAIL", ""),
			Password:     getEnv("SMTP_PASSWORD", ""),
			SenderName:   getEnv("SMTP_SENDER_NAME", "SparkMart"),
			SupportEmail: getEnv("SUPPORT_EMAIL", "support@sparkmart.local"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:          getEnv("STORAGE_BUCKET", "sparkmart-complaints"),
			UseSSL:          getEnv("STORAGE_USE_SSL", "false") == "true",
			PublicBaseURL:   getEnv("STORAGE_PUBLIC_BASE_URL", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "groq"),
			LLMModel:      getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
			GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
			GroqBaseURL:   getEnv("GROQ_BASE_URL", "https://api.groq.com/openai"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Payment: PaymentConfig{
			MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
			MidtransEnv:       getEnv("MIDTRANS_ENV", "sandbox"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
