package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	JWT      JWTConfig
	APIKey   APIKeyConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
	Payment  PaymentConfig
	Midtrans MidtransConfig
	Xendit   XenditConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// JWTConfig contains JWT validation configuration
type JWTConfig struct {
	Secret string
	Issuer string
}

// APIKeyConfig holds the keys accepted on internal routes
type APIKeyConfig struct {
	Admin        string
	EventService string
}

// NewRelicConfig contains New Relic agent configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	ForwardLogs bool
}

// LoggerConfig contains zap logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
	Type     string
}

// PaymentConfig contains payment lifecycle settings
type PaymentConfig struct {
	DefaultGateway      string
	AdminFeeRate        float64 // e.g. 0.02 for 2%
	AdminFeeMin         int64
	AdminFeeMax         int64 // 0 disables the cap
	InvoiceDurationMins int
	PollIntervalSeconds int
	PollBatchSize       int
	PendingCheckAfter   int // seconds a PENDING transaction waits before the poller checks it
	CreateRateLimit     int // creations per user per window, 0 disables
	CreateRateWindow    int // seconds
	WebhookRateLimit    int // webhook calls per client IP per minute, 0 disables
	GatewayTimeout      int // seconds
}

// MidtransConfig contains Midtrans credentials and endpoints
type MidtransConfig struct {
	ServerKey    string
	SnapBaseURL  string
	APIBaseURL   string
	IsProduction bool
}

// XenditConfig contains Xendit credentials and endpoints
type XenditConfig struct {
	SecretKey       string
	CallbackToken   string
	WebhookSecret   string
	APIBaseURL      string
	SuccessRedirect string
	FailureRedirect string
}
