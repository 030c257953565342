package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreSheets = "sheets"
	StoreExcel  = "excel"
	StoreMemory = "memory"
)

type StoreConfig struct {
	Driver              string `yaml:"driver"`
	SpreadsheetID       string `yaml:"spreadsheet_id"`
	SheetTitle          string `yaml:"sheet_title"`
	ServiceAccountEmail string `yaml:"service_account_email"`
	PrivateKey          string `yaml:"private_key"`
	CredentialsFile     string `yaml:"credentials_file"`
	ExcelPath           string `yaml:"excel_path"`
}

type SchemaConfig struct {
	Variant    string `yaml:"variant"`
	Cache      bool   `yaml:"cache"`
	WriteGuard bool   `yaml:"write_guard"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type Config struct {
	Port        string          `yaml:"port"`
	LogLevel    string          `yaml:"log_level"`
	LogFormat   string          `yaml:"log_format"`
	Timezone    string          `yaml:"timezone"`
	RedisAddr   string          `yaml:"redis_addr"`
	CORSOrigins []string        `yaml:"cors_origins"`
	Store       StoreConfig     `yaml:"store"`
	Schema      SchemaConfig    `yaml:"schema"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

func Default() Config {
	return Config{
		Port:      "3001",
		LogLevel:  "info",
		LogFormat: "json",
		Timezone:  "Asia/Kolkata",
		Store: StoreConfig{
			Driver:    StoreSheets,
			ExcelPath: "visitors.xlsx",
		},
		Schema: SchemaConfig{
			Variant: "contact",
			Cache:   true,
		},
		RateLimit: RateLimitConfig{
			RPS:   5,
			Burst: 10,
		},
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if set),
// then lets environment variables override individual keys.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal yaml: %w", err)
		}
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) LoadFromEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.Timezone, "TIMEZONE")
	setString(&c.RedisAddr, "REDIS_ADDR")

	setString(&c.Store.Driver, "STORE_DRIVER")
	setString(&c.Store.SpreadsheetID, "GOOGLE_SPREADSHEET_ID")
	setString(&c.Store.SheetTitle, "SHEET_TITLE")
	setString(&c.Store.ServiceAccountEmail, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	setString(&c.Store.PrivateKey, "GOOGLE_PRIVATE_KEY")
	setString(&c.Store.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	setString(&c.Store.ExcelPath, "EXCEL_PATH")
	// keys pasted from a JSON credential keep their escaped newlines
	c.Store.PrivateKey = strings.ReplaceAll(c.Store.PrivateKey, `\n`, "\n")

	setString(&c.Schema.Variant, "SCHEMA_VARIANT")

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}

	if err := setBool(&c.Schema.Cache, "SCHEMA_CACHE"); err != nil {
		return err
	}
	if err := setBool(&c.Schema.WriteGuard, "WRITE_GUARD"); err != nil {
		return err
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimit.RPS = rps
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		c.RateLimit.Burst = burst
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreSheets:
		if c.Store.SpreadsheetID == "" {
			return errors.New("GOOGLE_SPREADSHEET_ID is required for the sheets store")
		}
		if c.Store.CredentialsFile == "" && (c.Store.ServiceAccountEmail == "" || c.Store.PrivateKey == "") {
			return errors.New("sheets store needs GOOGLE_CREDENTIALS_FILE or GOOGLE_SERVICE_ACCOUNT_EMAIL with GOOGLE_PRIVATE_KEY")
		}
	case StoreExcel:
		if c.Store.ExcelPath == "" {
			return errors.New("EXCEL_PATH is required for the excel store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
