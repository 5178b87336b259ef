package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/saasradar/saasradar/internal/scoring"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Debug bool

	// Database
	DatabaseURL string

	// Acquisition
	AccountsFile   string
	HarvestToken   string
	BrowserEnabled bool
	BrowserWorkers int
	RateLimitDelay time.Duration
	RequestTimeout time.Duration

	// Discovery
	ScrapeInterval    time.Duration
	MaxPostsPerQuery  int
	MinMonthlyRevenue float64
	Queries           []string

	Thresholds scoring.Thresholds

	// Notifications
	DiscordWebhookID    string
	DiscordWebhookToken string
	NotifyMinScore      int

	// API
	ListenAddr      string
	APIPasswordHash string
}

var defaultQueries = []string{
	`"MRR" "$" SaaS`,
	`"monthly recurring revenue" launched`,
	`"reached" "$" "MRR"`,
	`indie hacker revenue milestone`,
	`"my SaaS" "per month"`,
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Debug: envBool("DEBUG", false),

		AccountsFile:   envStr("ACCOUNTS_FILE", "accounts.txt"),
		HarvestToken:   os.Getenv("HARVEST_TOKEN"),
		BrowserEnabled: envBool("BROWSER_ENABLED", false),
		BrowserWorkers: envInt("BROWSER_WORKERS", 2),
		RateLimitDelay: envDuration("RATE_LIMIT_DELAY", 2*time.Second),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 2*time.Minute),

		ScrapeInterval:    envDuration("SCRAPE_INTERVAL", time.Hour),
		MaxPostsPerQuery:  envInt("MAX_POSTS_PER_QUERY", 50),
		MinMonthlyRevenue: envFloat("MIN_MONTHLY_REVENUE", 1000),

		Thresholds: scoring.Thresholds{
			RevenueHigh:    envFloat("THRESHOLD_MRR_HIGH", 10000),
			RevenueMedium:  envFloat("THRESHOLD_MRR_MEDIUM", 5000),
			RevenueLow:     envFloat("THRESHOLD_MRR_LOW", 1000),
			EngagementRate: envFloat("THRESHOLD_ENGAGEMENT_RATE", 0.05),
			Followers:      envInt("THRESHOLD_FOLLOWERS", 5000),
			OrganicTraffic: envFloat("THRESHOLD_ORGANIC_TRAFFIC", 0.30),
		},

		DiscordWebhookID:    os.Getenv("DISCORD_WEBHOOK_ID"),
		DiscordWebhookToken: os.Getenv("DISCORD_WEBHOOK_TOKEN"),
		NotifyMinScore:      envInt("NOTIFY_MIN_SCORE", 70),

		ListenAddr:      envStr("LISTEN_ADDR", ":8080"),
		APIPasswordHash: os.Getenv("API_PASSWORD_HASH"),
	}

	if queries := os.Getenv("SEARCH_QUERIES"); queries != "" {
		for _, q := range strings.Split(queries, ";") {
			if q = strings.TrimSpace(q); q != "" {
				cfg.Queries = append(cfg.Queries, q)
			}
		}
	}
	if len(cfg.Queries) == 0 {
		cfg.Queries = defaultQueries
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	} else {
		dbName := os.Getenv("POSTGRES_DB")
		dbUser := os.Getenv("POSTGRES_USER")
		dbPassword := os.Getenv("POSTGRES_PASSWORD")
		dbHost := envStr("POSTGRES_HOST", "db")

		if dbName != "" && dbUser != "" && dbPassword != "" {
			cfg.DatabaseURL = fmt.Sprintf("postgres://%v:%v@%v:5432/%v?sslmode=disable",
				dbUser, dbPassword, dbHost, dbName)
		}
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database is not configured, set DATABASE_URL or POSTGRES_DB/USER/PASSWORD")
	}
	if c.BrowserWorkers < 1 {
		return fmt.Errorf("BROWSER_WORKERS must be at least 1")
	}
	if (c.DiscordWebhookID == "") != (c.DiscordWebhookToken == "") {
		return fmt.Errorf("DISCORD_WEBHOOK_ID and DISCORD_WEBHOOK_TOKEN must be set together")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
