package config

import (
	"time"
)

type AppConfig struct {
	APIPort     string `env:"PORT,required" envDefault:"12333"`
	APIKey      string `env:"API_KEY,required"`
	RabbitMQURL string `env:"RABBITMQ_URL"`
}

// ScanConfig bounds the full unread scan. The batch delay is a cooperative
// rate limit against the Gmail API quota, not a tuning knob.
type ScanConfig struct {
	LookbackDays       int   `env:"SCAN_LOOKBACK_DAYS" envDefault:"7"`
	MaxMessages        int   `env:"SCAN_MAX_MESSAGES" envDefault:"1000"`
	PageSize           int64 `env:"SCAN_PAGE_SIZE" envDefault:"500"`
	BatchSize          int   `env:"SCAN_BATCH_SIZE" envDefault:"10"`
	BatchDelayMs       int   `env:"SCAN_BATCH_DELAY_MS" envDefault:"100"`
	AuditRetentionDays int   `env:"SCAN_AUDIT_RETENTION_DAYS" envDefault:"30"`
}

func (c *ScanConfig) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMs) * time.Millisecond
}

type DatabaseConfig struct {
	Host            string `env:"INBOXPULSE_POSTGRES_HOST"`
	Port            string `env:"INBOXPULSE_POSTGRES_PORT" envDefault:"5432"`
	User            string `env:"INBOXPULSE_POSTGRES_USER"`
	DBName          string `env:"INBOXPULSE_POSTGRES_DB_NAME"`
	Password        string `env:"INBOXPULSE_POSTGRES_PASSWORD"`
	MaxConn         int    `env:"INBOXPULSE_POSTGRES_DB_MAX_CONN" envDefault:"20"`
	MaxIdleConn     int    `env:"INBOXPULSE_POSTGRES_DB_MAX_IDLE_CONN" envDefault:"5"`
	ConnMaxLifetime int    `env:"INBOXPULSE_POSTGRES_DB_CONN_MAX_LIFETIME" envDefault:"60"`
	LogLevel        string `env:"INBOXPULSE_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"INBOXPULSE_POSTGRES_SSL_MODE" envDefault:"disable"`
}

// Enabled reports whether a database was configured. The engine runs without
// one; only the scan audit trail is skipped.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

type GmailConfig struct {
	AccessToken string `env:"GMAIL_ACCESS_TOKEN"`
	TokenFile   string `env:"GMAIL_TOKEN_FILE"`
}
