package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/piresc/ramein/internal/pkg/models"
)

func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	configs.App.Name = GetEnv("APP_NAME", "payments-service")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", false)
	configs.App.Version = GetEnv("APP_VERSION", "")

	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 9995)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 15)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 30)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30)

	configs.Database.Driver = GetEnv("DB_DRIVER", "pgx")
	configs.Database.Host = GetEnv("DB_HOST", "")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 5432)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "disable")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 20)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 5)

	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 6379)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 10)

	configs.NATS.URL = GetEnv("NATS_URL", "nats://localhost:4222")

	configs.JWT.Secret = GetEnv("JWT_SECRET", "")
	configs.JWT.Issuer = GetEnv("JWT_ISSUER", "")

	configs.APIKey.Admin = GetEnv("ADMIN_API_KEY", "")
	configs.APIKey.EventService = GetEnv("EVENT_SERVICE_API_KEY", "")

	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)
	configs.NewRelic.ForwardLogs = GetEnvAsBool("NEW_RELIC_FORWARD_LOGS", false)

	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "")
	configs.Logger.Type = GetEnv("LOG_TYPE", "stdout")

	// Payment lifecycle
	configs.Payment.DefaultGateway = GetEnv("PAYMENT_DEFAULT_GATEWAY", "midtrans")
	configs.Payment.AdminFeeRate = GetEnvAsFloat("PAYMENT_ADMIN_FEE_RATE", 0.02)
	configs.Payment.AdminFeeMin = GetEnvAsInt64("PAYMENT_ADMIN_FEE_MIN", 1000)
	configs.Payment.AdminFeeMax = GetEnvAsInt64("PAYMENT_ADMIN_FEE_MAX", 10000)
	configs.Payment.InvoiceDurationMins = GetEnvAsInt("PAYMENT_INVOICE_DURATION_MINUTES", 1440)
	configs.Payment.PollIntervalSeconds = GetEnvAsInt("PAYMENT_POLL_INTERVAL_SECONDS", 60)
	configs.Payment.PollBatchSize = GetEnvAsInt("PAYMENT_POLL_BATCH_SIZE", 50)
	configs.Payment.PendingCheckAfter = GetEnvAsInt("PAYMENT_PENDING_CHECK_AFTER_SECONDS", 300)
	configs.Payment.CreateRateLimit = GetEnvAsInt("PAYMENT_CREATE_RATE_LIMIT", 5)
	configs.Payment.CreateRateWindow = GetEnvAsInt("PAYMENT_CREATE_RATE_WINDOW_SECONDS", 60)
	configs.Payment.WebhookRateLimit = GetEnvAsInt("PAYMENT_WEBHOOK_RATE_LIMIT", 300)
	configs.Payment.GatewayTimeout = GetEnvAsInt("PAYMENT_GATEWAY_TIMEOUT_SECONDS", 15)

	configs.Midtrans.ServerKey = GetEnv("MIDTRANS_SERVER_KEY", "")
	configs.Midtrans.IsProduction = GetEnvAsBool("MIDTRANS_IS_PRODUCTION", false)
	configs.Midtrans.SnapBaseURL = GetEnv("MIDTRANS_SNAP_URL", midtransSnapURL(configs.Midtrans.IsProduction))
	configs.Midtrans.APIBaseURL = GetEnv("MIDTRANS_API_URL", midtransAPIURL(configs.Midtrans.IsProduction))

	configs.Xendit.SecretKey = GetEnv("XENDIT_SECRET_KEY", "")
	configs.Xendit.CallbackToken = GetEnv("XENDIT_CALLBACK_TOKEN", "")
	configs.Xendit.WebhookSecret = GetEnv("XENDIT_WEBHOOK_SECRET", "")
	configs.Xendit.APIBaseURL = GetEnv("XENDIT_API_URL", "https://api.xendit.co")
	configs.Xendit.SuccessRedirect = GetEnv("XENDIT_SUCCESS_REDIRECT_URL", "")
	configs.Xendit.FailureRedirect = GetEnv("XENDIT_FAILURE_REDIRECT_URL", "")

	return configs
}

func midtransSnapURL(production bool) string {
	if production {
		return "https://app.midtrans.com"
	}
	return "https://app.sandbox.midtrans.com"
}

func midtransAPIURL(production bool) string {
	if production {
		return "https://api.midtrans.com"
	}
	return "https://api.sandbox.midtrans.com"
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Invalid int64 value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
