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

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultEnv          = EnvLocal
	defaultLogLevel     = ""
	defaultHTTPAddress  = "localhost:8080"
	defaultDatabaseURI  = "data/bot_users.db"
	defaultERPProtocol  = "xmlrpc"
	defaultQueryTimeout = 60 * time.Second
	defaultLLMModel     = "gemini-2.0-flash"
	defaultLLMBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	defaultLookbackDays = 30
)

var ErrMissingPassphrase = errors.New("VAULT_PASSPHRASE is required")

type Config struct {
	Env      string
	LogLevel string
	HTTP     HTTP
	DB       DB
	Vault    Vault
	ERP      ERP
	LLM      LLM
}

type HTTP struct {
	Address  string
	APIToken string
}

type DB struct {
	URI string
}

type Vault struct {
	Passphrase string
}

type ERP struct {
	Protocol     string
	QueryTimeout time.Duration
	LookbackDays int
}

type LLM struct {
	Model   string
	BaseURL string
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	loadDotEnv()

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("HTTP_ADDRESS", defaultHTTPAddress)
	viper.SetDefault("DATABASE_URI", defaultDatabaseURI)
	viper.SetDefault("ERP_PROTOCOL", defaultERPProtocol)
	viper.SetDefault("QUERY_TIMEOUT", defaultQueryTimeout)
	viper.SetDefault("LOOKBACK_DAYS", defaultLookbackDays)
	viper.SetDefault("LLM_MODEL", defaultLLMModel)
	viper.SetDefault("LLM_BASE_URL", defaultLLMBaseURL)

	cfg := &Config{
		Env:      viper.GetString("APP_ENV"),
		LogLevel: viper.GetString("LOG_LEVEL"),
		HTTP: HTTP{
			Address:  viper.GetString("HTTP_ADDRESS"),
			APIToken: viper.GetString("API_TOKEN"),
		},
		DB: DB{URI: viper.GetString("DATABASE_URI")},
		Vault: Vault{
			Passphrase: viper.GetString("VAULT_PASSPHRASE"),
		},
		ERP: ERP{
			Protocol:     strings.ToLower(viper.GetString("ERP_PROTOCOL")),
			QueryTimeout: viper.GetDuration("QUERY_TIMEOUT"),
			LookbackDays: viper.GetInt("LOOKBACK_DAYS"),
		},
		LLM: LLM{
			Model:   viper.GetString("LLM_MODEL"),
			BaseURL: strings.TrimRight(viper.GetString("LLM_BASE_URL"), "/"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoad - Load, паникующий при ошибке конфигурации.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("config error: %v", err))
	}
	return cfg
}

func loadDotEnv() {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return
	}

	if err := godotenv.Load(envPath); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}
	if c.Vault.Passphrase == "" {
		return ErrMissingPassphrase
	}
	if c.DB.URI == "" {
		return fmt.Errorf("DATABASE_URI must not be empty")
	}
	switch c.ERP.Protocol {
	case "xmlrpc", "jsonrpc":
	default:
		return fmt.Errorf("unknown ERP_PROTOCOL %q", c.ERP.Protocol)
	}
	if c.ERP.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive")
	}
	if c.ERP.LookbackDays <= 0 {
		return fmt.Errorf("LOOKBACK_DAYS must be positive")
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
