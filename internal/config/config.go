package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	OrderAPI  OrderAPIConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Kafka     KafkaConfig
	Log       LogConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// OrderAPIConfig points at the remote order service. Either Token or the
// client credentials triple is used to authenticate.
type OrderAPIConfig struct {
	BaseURL      string
	Timeout      time.Duration
	Token        string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

type DatabaseConfig struct {
	Driver   string // "postgres" or "sqlite"
	Path     string // sqlite file, ":memory:" for a throwaway journal
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	Issuer      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type PrinterConfig struct {
	Type         string // "network", "usb" or "none"
	Address      string // host:port for network printers
	USBPath      string // device path for usb printers
	StoreName    string
	StoreAddress string
	StorePhone   string
	Currency     string
}

type KafkaConfig struct {
	Brokers       []string
	PaymentsTopic string
	ClientID      string
}

// Enabled reports whether payment events should be published.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Warnf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "vegnbio-pos-gateway")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("ORDER_API_BASE_URL", "http://localhost:8000/api")
	viper.SetDefault("ORDER_API_TIMEOUT_SECONDS", 10)
	viper.SetDefault("ORDER_API_TOKEN", "")
	viper.SetDefault("ORDER_API_CLIENT_ID", "")
	viper.SetDefault("ORDER_API_CLIENT_SECRET", "")
	viper.SetDefault("ORDER_API_TOKEN_URL", "")
	viper.SetDefault("ORDER_API_SCOPES", "")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_PATH", "vegnbio_pos.db")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "vegnbio_pos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Europe/Paris")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_ISSUER", "vegnbio")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_ADDRESS", "")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_STORE_NAME", "Veg'N Bio")
	viper.SetDefault("PRINTER_STORE_ADDRESS", "")
	viper.SetDefault("PRINTER_STORE_PHONE", "")
	viper.SetDefault("PRINTER_CURRENCY", "EUR ")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_PAYMENTS_TOPIC", "pos.payments")
	viper.SetDefault("KAFKA_CLIENT_ID", "vegnbio-pos-gateway")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		OrderAPI: OrderAPIConfig{
			BaseURL:      strings.TrimRight(viper.GetString("ORDER_API_BASE_URL"), "/"),
			Timeout:      time.Duration(viper.GetInt("ORDER_API_TIMEOUT_SECONDS")) * time.Second,
			Token:        viper.GetString("ORDER_API_TOKEN"),
			ClientID:     viper.GetString("ORDER_API_CLIENT_ID"),
			ClientSecret: viper.GetString("ORDER_API_CLIENT_SECRET"),
			TokenURL:     viper.GetString("ORDER_API_TOKEN_URL"),
			Scopes:       splitList(viper.GetString("ORDER_API_SCOPES")),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Path:     viper.GetString("DB_PATH"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			Issuer:      viper.GetString("JWT_ISSUER"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: PrinterConfig{
			Type:         viper.GetString("PRINTER_TYPE"),
			Address:      viper.GetString("PRINTER_ADDRESS"),
			USBPath:      viper.GetString("PRINTER_USB_PATH"),
			StoreName:    viper.GetString("PRINTER_STORE_NAME"),
			StoreAddress: viper.GetString("PRINTER_STORE_ADDRESS"),
			StorePhone:   viper.GetString("PRINTER_STORE_PHONE"),
			Currency:     viper.GetString("PRINTER_CURRENCY"),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(viper.GetString("KAFKA_BROKERS")),
			PaymentsTopic: viper.GetString("KAFKA_PAYMENTS_TOPIC"),
			ClientID:      viper.GetString("KAFKA_CLIENT_ID"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// Validate checks the settings the gateway cannot start without.
func (c *Config) Validate() error {
	if c.OrderAPI.BaseURL == "" {
		return fmt.Errorf("ORDER_API_BASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.OrderAPI.ClientID != "" && c.OrderAPI.TokenURL == "" {
		return fmt.Errorf("ORDER_API_TOKEN_URL is required when ORDER_API_CLIENT_ID is set")
	}
	return nil
}

// splitList parses comma separated env values, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
