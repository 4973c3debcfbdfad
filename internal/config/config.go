package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSecret = "dev-secret-key"

var ErrInsecureSecret = errors.New("SECRET_KEY must be set in production")

// Config holds runtime settings. Every field maps to an environment variable
// of the same name in upper snake case.
type Config struct {
	Env        string
	Port       string
	SecretKey  string
	TokenTTL   time.Duration
	SessionTTL time.Duration

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPURL       string
	SalesQueue    string
	SalesAuditLog string

	AdminUsername string
	AdminPassword string

	CORSAllowedOrigins []string
	TrustProxy         bool

	Mail MailConfig
}

// MailConfig is used by stock alert e-mails. An empty Server disables mail.
type MailConfig struct {
	Server       string
	Port         string
	User         string
	Password     string
	AuthDisabled bool
	From         string
	To           string
}

// Load reads .env (when present), an optional config.yaml and the process
// environment, in increasing order of precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not read .env: %v", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("SECRET_KEY", defaultSecret)
	v.SetDefault("TOKEN_TTL", "15m")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("SALES_QUEUE", "sales.recorded")
	v.SetDefault("SALES_AUDIT_LOG", "logs/sales.log")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("SMTP_SERVER", "")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("SMTP_AUTH_DISABLED", false)
	v.SetDefault("ALERT_FROM", "")
	v.SetDefault("ALERT_TO", "")
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:                strings.ToLower(v.GetString("APP_ENV")),
		Port:               v.GetString("PORT"),
		SecretKey:          v.GetString("SECRET_KEY"),
		TokenTTL:           v.GetDuration("TOKEN_TTL"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		AMQPURL:            v.GetString("AMQP_URL"),
		SalesQueue:         v.GetString("SALES_QUEUE"),
		SalesAuditLog:      v.GetString("SALES_AUDIT_LOG"),
		AdminUsername:      v.GetString("ADMIN_USERNAME"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		TrustProxy:         v.GetBool("TRUST_PROXY"),
		Mail: MailConfig{
			Server:       v.GetString("SMTP_SERVER"),
			Port:         v.GetString("SMTP_PORT"),
			User:         v.GetString("SMTP_USER"),
			Password:     v.GetString("SMTP_PASS"),
			AuthDisabled: v.GetBool("SMTP_AUTH_DISABLED"),
			From:         v.GetString("ALERT_FROM"),
			To:           v.GetString("ALERT_TO"),
		},
	}

	if cfg.IsProduction() && (cfg.SecretKey == "" || cfg.SecretKey == defaultSecret) {
		return Config{}, ErrInsecureSecret
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = defaultSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 15 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// MailEnabled reports whether enough SMTP settings are present to send mail.
func (m MailConfig) MailEnabled() bool {
	return m.Server != "" && m.From != "" && m.To != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
