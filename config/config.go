package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	Environment string
	LogLevel    string

	MongoURI  string
	MongoDB   string
	Port      string
	JWTSecret string

	// EmailProvider selects the OTP delivery backend: "sendgrid", "smtp"
	// or "log" (codes written to the server log, for local runs).
	EmailProvider  string
	SendGridAPIKey string
	SMTPHost       string
	SMTPPort       int
	SMTPUsername   string
	SMTPPassword   string
	FromEmail      string
	FromName       string

	OTPTTLSeconds   int
	SessionTTLHours int

	// RedisURL is optional; when empty, sessions are held in process memory.
	RedisURL string

	AWSRegion     string
	AWSBucketName string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	Environment = getEnv("ENVIRONMENT", "development")
	LogLevel = getEnv("LOG_LEVEL", "info")

	MongoURI = getEnv("MONGO_URI", "mongodb://localhost:27017/")
	MongoDB = getEnv("MONGO_DB", "timeless_threads")
	Port = getEnv("PORT", "8080")
	JWTSecret = os.Getenv("JWT_SECRET")

	EmailProvider = getEnv("EMAIL_PROVIDER", "log")
	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	SMTPHost = getEnv("SMTP_HOST", "smtp.gmail.com")
	SMTPPort = getEnvInt("SMTP_PORT", 587)
	SMTPUsername = os.Getenv("SMTP_USERNAME")
	SMTPPassword = os.Getenv("SMTP_PASSWORD")
	FromEmail = getEnv("FROM_EMAIL", "no-reply@timelessthreads.in")
	FromName = getEnv("FROM_NAME", "Timeless Threads")

	OTPTTLSeconds = getEnvInt("OTP_TTL_SECONDS", 300)
	SessionTTLHours = getEnvInt("SESSION_TTL_HOURS", 24)

	RedisURL = os.Getenv("REDIS_URL")

	AWSRegion = getEnv("AWS_REGION", "ap-south-1")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	GoogleRedirectURL = getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
