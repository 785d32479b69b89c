package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingOpenAIKey   = errors.New("OPENAI_API_KEY is not set")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")
	ErrMissingSheetID     = errors.New("SHEET_ID is not set")
	ErrMissingSalePath    = errors.New("no sale given (SALE_PATH or --sale)")
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	OpenAIKey   string
	OpenAIModel string
	MetricsPort string

	BaseURL      string
	SalePath     string
	HTTPTimeout  time.Duration
	PageCacheTTL time.Duration

	CredentialsFile string
	SheetID         string
	SheetName       string
	OutputFile      string
}

func Load() *Config {
	// .env from the project root when run from cmd/<tool>, then the working directory
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()
	return &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		BaseURL:         getEnv("BASE_URL", "https://www.guitar-auctions.co.uk"),
		SalePath:        os.Getenv("SALE_PATH"),
		HTTPTimeout:     getDuration("HTTP_TIMEOUT", 60*time.Second),
		PageCacheTTL:    getDuration("PAGE_CACHE_TTL", 24*time.Hour),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		SheetID:         os.Getenv("SHEET_ID"),
		SheetName:       getEnv("SHEET_NAME", "lots"),
		OutputFile:      getEnv("OUTPUT_FILE", "scraped_data.jsonl"),
	}
}

// Requirement names a setting a command cannot run without.
type Requirement int

const (
	NeedOpenAI Requirement = iota
	NeedDatabase
	NeedSheet
	NeedSale
)

// Validate returns the errors for every unmet requirement, joined.
func (c *Config) Validate(reqs ...Requirement) error {
	var errs []error
	for _, r := range reqs {
		switch {
		case r == NeedOpenAI && c.OpenAIKey == "":
			errs = append(errs, ErrMissingOpenAIKey)
		case r == NeedDatabase && c.DatabaseURL == "":
			errs = append(errs, ErrMissingDatabaseURL)
		case r == NeedSheet && c.SheetID == "":
			errs = append(errs, ErrMissingSheetID)
		case r == NeedSale && c.SalePath == "":
			errs = append(errs, ErrMissingSalePath)
		}
	}
	return errors.Join(errs...)
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getDuration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil && v > 0 {
		return v
	}
	return d
}
