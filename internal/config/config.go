package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"taxdesk/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Log      LogConfig
	CORS     CORSConfig
	Supplier SupplierConfig
	EInvoice EInvoiceConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds store settings. Driver selects between the durable
// PostgreSQL store and the in-memory store.
type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SupplierConfig is the process-wide default supplier block stamped
// onto every e-invoice derived from a generic sales invoice.
type SupplierConfig struct {
	GSTIN     string `mapstructure:"gstin"`
	LegalName string `mapstructure:"legal_name"`
	TradeName string `mapstructure:"trade_name"`
	Address1  string `mapstructure:"address1"`
	Address2  string `mapstructure:"address2"`
	Location  string `mapstructure:"location"`
	PINCode   string `mapstructure:"pin_code"`
	StateCode string `mapstructure:"state_code"`
	Phone     string `mapstructure:"phone"`
	Email     string `mapstructure:"email"`
}

// Party converts the configured supplier block to a domain party.
func (s *SupplierConfig) Party() domain.Party {
	return domain.Party{
		GSTIN:     s.GSTIN,
		LegalName: s.LegalName,
		TradeName: s.TradeName,
		Address1:  s.Address1,
		Address2:  s.Address2,
		Location:  s.Location,
		PINCode:   s.PINCode,
		StateCode: s.StateCode,
		Phone:     s.Phone,
		Email:     s.Email,
	}
}

// EInvoiceConfig holds engine settings.
type EInvoiceConfig struct {
	Rounding string `mapstructure:"rounding"`
}

// RoundingStrategy maps the configured rounding name to its strategy,
// defaulting to nearest-rupee.
func (e *EInvoiceConfig) RoundingStrategy() domain.RoundingStrategy {
	if e.Rounding == string(domain.RoundingNone) {
		return domain.RoundingNone
	}
	return domain.RoundingNearestRupee
}

// Load reads configuration from environment variables with the TAXDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "taxdesk")
	v.SetDefault("db.password", "taxdesk_secret")
	v.SetDefault("db.name", "taxdesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Supplier defaults (must be overridden for real use)
	v.SetDefault("supplier.gstin", "")
	v.SetDefault("supplier.legal_name", "")
	v.SetDefault("supplier.trade_name", "")
	v.SetDefault("supplier.address1", "")
	v.SetDefault("supplier.address2", "")
	v.SetDefault("supplier.location", "")
	v.SetDefault("supplier.pin_code", "")
	v.SetDefault("supplier.state_code", "")
	v.SetDefault("supplier.phone", "")
	v.SetDefault("supplier.email", "")

	// E-invoice engine defaults
	v.SetDefault("einvoice.rounding", string(domain.RoundingNearestRupee))

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "TAXDESK_SERVER_PORT",
		"server.read_timeout":   "TAXDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "TAXDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":    "TAXDESK_SERVER_ENVIRONMENT",
		"db.driver":             "TAXDESK_DB_DRIVER",
		"db.host":               "TAXDESK_DB_HOST",
		"db.port":               "TAXDESK_DB_PORT",
		"db.user":               "TAXDESK_DB_USER",
		"db.password":           "TAXDESK_DB_PASSWORD",
		"db.name":               "TAXDESK_DB_NAME",
		"db.sslmode":            "TAXDESK_DB_SSLMODE",
		"db.max_open":           "TAXDESK_DB_MAX_OPEN",
		"db.max_idle":           "TAXDESK_DB_MAX_IDLE",
		"log.level":             "TAXDESK_LOG_LEVEL",
		"log.format":            "TAXDESK_LOG_FORMAT",
		"cors.allowed_origins":  "TAXDESK_CORS_ALLOWED_ORIGINS",
		"supplier.gstin":        "TAXDESK_SUPPLIER_GSTIN",
		"supplier.legal_name":   "TAXDESK_SUPPLIER_LEGAL_NAME",
		"supplier.trade_name":   "TAXDESK_SUPPLIER_TRADE_NAME",
		"supplier.address1":     "TAXDESK_SUPPLIER_ADDRESS1",
		"supplier.address2":     "TAXDESK_SUPPLIER_ADDRESS2",
		"supplier.location":     "TAXDESK_SUPPLIER_LOCATION",
		"supplier.pin_code":     "TAXDESK_SUPPLIER_PIN_CODE",
		"supplier.state_code":   "TAXDESK_SUPPLIER_STATE_CODE",
		"supplier.phone":        "TAXDESK_SUPPLIER_PHONE",
		"supplier.email":        "TAXDESK_SUPPLIER_EMAIL",
		"einvoice.rounding":     "TAXDESK_EINVOICE_ROUNDING",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TAXDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TAXDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Driver:   v.GetString("db.driver"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Supplier = SupplierConfig{
		GSTIN:     v.GetString("supplier.gstin"),
		LegalName: v.GetString("supplier.legal_name"),
		TradeName: v.GetString("supplier.trade_name"),
		Address1:  v.GetString("supplier.address1"),
		Address2:  v.GetString("supplier.address2"),
		Location:  v.GetString("supplier.location"),
		PINCode:   v.GetString("supplier.pin_code"),
		StateCode: v.GetString("supplier.state_code"),
		Phone:     v.GetString("supplier.phone"),
		Email:     v.GetString("supplier.email"),
	}

	cfg.EInvoice = EInvoiceConfig{
		Rounding: v.GetString("einvoice.rounding"),
	}

	return cfg, nil
}
