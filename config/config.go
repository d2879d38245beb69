package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DBPostgres = "postgres"
	DBMongo    = "mongo"
	DBSQLite   = "sqlite"
)

type R2Config struct {
	AccountID       string
	Bucket          string
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
}

func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.Bucket != "" && c.PublicURL != ""
}

type Config struct {
	DBType      string
	PostgresURL string
	MongoURL    string
	MongoDB     string
	SQLitePath  string
	Port        string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigins []string
	LogLevel    string
	PDFDir      string
	VendorName  string
	R2          R2Config
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using system environment variables")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		DBType:      strings.ToLower(getEnv("DB_TYPE", DBSQLite)),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		MongoURL:    os.Getenv("MONGO_URL"),
		MongoDB:     getEnv("MONGO_DB", "milkledger"),
		SQLitePath:  getEnv("SQLITE_PATH", "./data/milkledger.db"),
		Port:        getEnv("PORT", "5000"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		PDFDir:      getEnv("PDF_DIR", "./pdfs"),
		VendorName:  os.Getenv("VENDOR_NAME"),
		R2: R2Config{
			AccountID:       os.Getenv("R2_ACCOUNT_ID"),
			Bucket:          os.Getenv("R2_BUCKET"),
			PublicURL:       os.Getenv("R2_PUBLIC_URL"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		},
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBType {
	case DBPostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL not set in environment"))
		}
	case DBMongo:
		if c.MongoURL == "" {
			errs = append(errs, errors.New("MONGO_URL not set in environment"))
		}
	case DBSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH not set in environment"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_TYPE %q not supported", c.DBType))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET not set in environment"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
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
