package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Payment gateway credentials
	GatewayKeyID     string
	GatewayKeySecret string

	// Permit fee settings
	PermitFeeAmount   float64
	PermitFeeCurrency string
	PermitValidityDays int

	// Base URL the gateway redirects back to and the QR artifact points at
	PublicBaseURL string

	// Verification polling
	VerifyPollIntervalSeconds int
	VerifyMaxAttempts         int

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// Kafka
	KafkaBrokers string
	KafkaTopic   string
}

var AppConfig Config

func LoadConfig() {
	// Try loading .env from different locations
	envLocations := []string{
		".env",
		"config/.env",
		"../config/.env",
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = Config{
		DBHost:     getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "postgres"),
		DBPassword: getEnvWithDefault("DB_PASSWORD", "postgres"),
		DBName:     getEnvWithDefault("DB_NAME", "permit_portal"),

		GatewayKeyID:     os.Getenv("GATEWAY_KEY_ID"),
		GatewayKeySecret: os.Getenv("GATEWAY_KEY_SECRET"),

		PermitFeeAmount:    getEnvFloat("PERMIT_FEE_AMOUNT", 500.0),
		PermitFeeCurrency:  getEnvWithDefault("PERMIT_FEE_CURRENCY", "NGN"),
		PermitValidityDays: getEnvInt("PERMIT_VALIDITY_DAYS", 180),

		PublicBaseURL: getEnvWithDefault("PUBLIC_BASE_URL", "http://localhost:8080"),

		VerifyPollIntervalSeconds: getEnvInt("VERIFY_POLL_INTERVAL_SECONDS", 10),
		VerifyMaxAttempts:         getEnvInt("VERIFY_MAX_ATTEMPTS", 30),

		SMTPHost:  getEnvWithDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  getEnvWithDefault("SMTP_PORT", "587"),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		// Kafka settings (comma-separated brokers)
		KafkaBrokers: getEnvWithDefault("KAFKA_BROKERS", "127.0.0.1:9092"),
		KafkaTopic:   getEnvWithDefault("KAFKA_TOPIC", "council.permits"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func GetDBConnString() string {
	return "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=disable"
}
