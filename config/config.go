package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	BaseURL        string
	SearchPath     string // may carry a [lang] token, replaced with Locale
	Locale         string
	PagesToScrape  int
	RequestDelayMs int
	FetchTimeoutS  int
	MaxRetries     int
	EnrichDetails  bool

	FetchMode string // "http" or "chrome"
	ChromeBin string

	CSVOutputPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "apartments_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		BaseURL:        getEnv("BASE_URL", "https://www.otodom.pl"),
		SearchPath:     getEnv("SEARCH_PATH", "/[lang]/wyniki/sprzedaz/mieszkanie/malopolskie/krakow"),
		Locale:         getEnv("LOCALE", "pl"),
		PagesToScrape:  getEnvInt("PAGES_TO_SCRAPE", 2),
		RequestDelayMs: getEnvInt("REQUEST_DELAY_MS", 2000),
		FetchTimeoutS:  getEnvInt("FETCH_TIMEOUT_SEC", 30),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		EnrichDetails:  getEnvBool("ENRICH_DETAILS", true),

		FetchMode: getEnv("FETCH_MODE", "http"),
		ChromeBin: getEnv("CHROME_BIN", ""),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/listings.csv"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
