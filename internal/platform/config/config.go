package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted in DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Budget scopes accepted in REWARD_BUDGET_SCOPE.
const (
	BudgetScopeAllTime      = "all_time"
	BudgetScopeCurrentMonth = "current_month"
)

// Award policies accepted in REWARD_AWARD_POLICY.
const (
	AwardPolicyOncePerPeriod = "once_per_period"
	AwardPolicyEveryCheck    = "every_check"
)

const insecureJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port               string
	IsProduction       bool
	LogLevel           string
	CORSAllowedOrigins []string

	DBDriver      string
	SQLitePath    string
	DatabaseURL   string
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	LoginRateLimit    string
	APIRateLimit      string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	// Advisory collaborator
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	// Receipt OCR collaborator
	OCREndpoint string
	OCRTimeout  time.Duration

	RewardBudgetScope string
	RewardAwardPolicy string

	AMQPURL       string
	AMQPExchange  string
	PosthogAPIKey string

	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "expenses.db")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)

	v.SetDefault("JWT_SECRET", insecureJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "pocket-ledger")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("API_RATE_LIMIT", "300-M")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")

	v.SetDefault("LLM_API_KEY", "")
	v.SetDefault("LLM_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("LLM_MODEL", "google/gemma-3n-e2b-it:free")
	v.SetDefault("LLM_TIMEOUT", "30s")

	v.SetDefault("OCR_ENDPOINT", "")
	v.SetDefault("OCR_TIMEOUT", "20s")

	v.SetDefault("REWARD_BUDGET_SCOPE", BudgetScopeAllTime)
	v.SetDefault("REWARD_AWARD_POLICY", AwardPolicyOncePerPeriod)

	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "pocket_ledger.events")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("METRICS_ENABLED", true)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		SQLitePath:         v.GetString("SQLITE_PATH"),
		DatabaseURL:        v.GetString("PGSQL_URL"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		LoginRateLimit:     v.GetString("LOGIN_RATE_LIMIT"),
		APIRateLimit:       v.GetString("API_RATE_LIMIT"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		LLMAPIKey:          v.GetString("LLM_API_KEY"),
		LLMBaseURL:         strings.TrimRight(v.GetString("LLM_BASE_URL"), "/"),
		LLMModel:           v.GetString("LLM_MODEL"),
		OCREndpoint:        v.GetString("OCR_ENDPOINT"),
		RewardBudgetScope:  strings.ToLower(v.GetString("REWARD_BUDGET_SCOPE")),
		RewardAwardPolicy:  strings.ToLower(v.GetString("REWARD_AWARD_POLICY")),
		AMQPURL:            v.GetString("AMQP_URL"),
		AMQPExchange:       v.GetString("AMQP_EXCHANGE"),
		PosthogAPIKey:      v.GetString("POSTHOG_API_KEY"),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
	}

	cfg.JWTExpiryDuration = parseDurationOr(v.GetString("JWT_EXPIRY_DURATION"), time.Hour, "JWT_EXPIRY_DURATION")
	cfg.LLMTimeout = parseDurationOr(v.GetString("LLM_TIMEOUT"), 30*time.Second, "LLM_TIMEOUT")
	cfg.OCRTimeout = parseDurationOr(v.GetString("OCR_TIMEOUT"), 20*time.Second, "OCR_TIMEOUT")

	if cfg.JWTSecret == "" || cfg.JWTSecret == insecureJWTSecret {
		cfg.JWTSecret = insecureJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}
	if cfg.LLMAPIKey == "" {
		log.Println("Warning: LLM_API_KEY not set. Free-form advisor questions will use the help template.")
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH must be set when DB_DRIVER=%s", DriverSQLite)
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when DB_DRIVER=%s", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.RewardBudgetScope {
	case BudgetScopeAllTime, BudgetScopeCurrentMonth:
	default:
		return nil, fmt.Errorf("unsupported REWARD_BUDGET_SCOPE %q", cfg.RewardBudgetScope)
	}

	switch cfg.RewardAwardPolicy {
	case AwardPolicyOncePerPeriod, AwardPolicyEveryCheck:
	default:
		return nil, fmt.Errorf("unsupported REWARD_AWARD_POLICY %q", cfg.RewardAwardPolicy)
	}

	return cfg, nil
}

func parseDurationOr(raw string, fallback time.Duration, key string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
