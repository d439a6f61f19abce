package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
)

type Config struct {
	Server       ServerConfig
	Backend      BackendConfig
	Storage      StorageConfig
	Session      SessionConfig
	Subscription SubscriptionConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Log          LogConfig
	RateLimit    RateLimitConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	Environment    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	TLSCertFile    string
	TLSKeyFile     string
	AllowedOrigins []string
}

// BackendConfig locates the clinic REST backend. Requests go to the workspace's own hostname
// on Port so the backend routes them to the right clinic schema. DialAddr, when set, makes
// every connection go to that address whatever the hostname.
type BackendConfig struct {
	Scheme     string
	Port       string
	PathPrefix string
	DialAddr   string
	Timeout    time.Duration
	// HealthHost is the hostname probed by the health check.
	HealthHost string
}

type StorageConfig struct {
	Driver string // redis or memory
}

type SessionConfig struct {
	CookieName    string
	CookieSecure  bool
	TTL           time.Duration
	SealKey       string
	DebounceDelay time.Duration
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

type SubscriptionConfig struct {
	Clinics     map[int64]tenant.SubscriptionTier
	DefaultTier tenant.SubscriptionTier
	CacheTTL    time.Duration
}

type DatabaseConfig struct {
	Enabled        bool
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	DSN            string
	MigrationsPath string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

type RateLimitConfig struct {
	Enabled                  bool
	DefaultRequestsPerMinute int
	PublicRequestsPerMinute  int
	BurstMultiplier          float64
	Window                   time.Duration
	KeyPrefix                string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")

	clinics, err := ParseTierMap(getEnv("SUBSCRIPTION_CLINIC_TIERS", ""))
	if err != nil {
		return nil, err
	}
	defaultTier, ok := tenant.ParseTier(getEnv("SUBSCRIPTION_DEFAULT_TIER", string(tenant.Tier1)))
	if !ok {
		return nil, fmt.Errorf("SUBSCRIPTION_DEFAULT_TIER: unknown tier")
	}

	sealKey := getEnv("SESSION_SEAL_KEY", "")
	if env == "production" {
		sealKey = getEnvRequired("SESSION_SEAL_KEY")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8080"),
			Environment:    env,
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:    getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:     getEnv("TLS_KEY_FILE", ""),
			AllowedOrigins: getListEnv("ALLOWED_ORIGINS", nil),
		},
		Backend: BackendConfig{
			Scheme:     getEnv("BACKEND_SCHEME", "http"),
			Port:       getEnv("BACKEND_PORT", "8000"),
			PathPrefix: getEnv("BACKEND_PATH_PREFIX", "/api"),
			DialAddr:   getEnv("BACKEND_DIAL_ADDR", ""),
			Timeout:    getDurationEnv("BACKEND_TIMEOUT", 15*time.Second),
			HealthHost: getEnv("BACKEND_HEALTH_HOST", "localhost"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", "redis")),
		},
		Session: SessionConfig{
			CookieName:    getEnv("SESSION_COOKIE_NAME", "clinic_workspace"),
			CookieSecure:  getBoolEnv("SESSION_COOKIE_SECURE", env == "production"),
			TTL:           getDurationEnv("SESSION_TTL", 24*time.Hour),
			SealKey:       sealKey,
			DebounceDelay: getDurationEnv("SEARCH_DEBOUNCE", 500*time.Millisecond),
			IdleTimeout:   getDurationEnv("WORKSPACE_IDLE_TIMEOUT", 30*time.Minute),
			SweepInterval: getDurationEnv("WORKSPACE_SWEEP_INTERVAL", 5*time.Minute),
		},
		Subscription: SubscriptionConfig{
			Clinics:     clinics,
			DefaultTier: defaultTier,
			CacheTTL:    getDurationEnv("SUBSCRIPTION_CACHE_TTL", 5*time.Minute),
		},
		Database: DatabaseConfig{
			Enabled:         getBoolEnv("DB_ENABLED", false),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "clinic_console"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MigrationsPath:  getEnv("DB_MIGRATIONS_PATH", "migrations"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			Enabled:                  getBoolEnv("RATE_LIMIT_ENABLED", true),
			DefaultRequestsPerMinute: getIntEnv("RATE_LIMIT_RPM", 120),
			PublicRequestsPerMinute:  getIntEnv("RATE_LIMIT_PUBLIC_RPM", 30),
			BurstMultiplier:          getFloatEnv("RATE_LIMIT_BURST", 2.0),
			Window:                   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			KeyPrefix:                getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit:tenant"),
		},
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

// ParseTierMap reads "clinicID=TIER" pairs separated by commas, e.g. "1=TIER_1,2=TIER_3".
func ParseTierMap(s string) (map[int64]tenant.SubscriptionTier, error) {
	out := map[int64]tenant.SubscriptionTier{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid clinic tier entry %q: want id=TIER", pair)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid clinic id in %q: %w", pair, err)
		}
		tier, ok := tenant.ParseTier(v)
		if !ok {
			return nil, fmt.Errorf("unknown tier in %q", pair)
		}
		out[id] = tier
	}
	return out, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
