package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Location  LocationConfig
	Geocoder  GeocoderConfig
	Places    PlacesConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type CacheConfig struct {
	SearchCacheTTL time.Duration
}

// LocationConfig - параметры обогащения локации объекта
type LocationConfig struct {
	FreshnessWindow time.Duration
	NearbyRadiusM   float64
	NearbyLimit     int
}

// GeocoderConfig - Nominatim. UserAgent обязателен по правилам использования сервиса.
type GeocoderConfig struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
	RetryMax       int
	RatePerSecond  float64
}

// PlacesConfig - Overpass API для поиска объектов рядом
type PlacesConfig struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
	RetryMax       int
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled       bool
	ConsumerGroup string
	BatchSize     int
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// .env необязателен, переменные окружения имеют приоритет
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 1800)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 300)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("SEARCH_CACHE_TTL", 60)

	v.SetDefault("LOCATION_FRESHNESS_HOURS", 24)
	v.SetDefault("NEARBY_RADIUS_M", 2000)
	v.SetDefault("NEARBY_LIMIT", 8)

	v.SetDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("GEO_USER_AGENT", "property-service/1.0 (ops@property-service.local)")
	v.SetDefault("GEO_REQUEST_TIMEOUT", 10)
	v.SetDefault("GEO_RETRY_MAX", 0)
	v.SetDefault("GEO_RATE_PER_SECOND", 1.0)

	v.SetDefault("OVERPASS_BASE_URL", "https://overpass-api.de/api")
	v.SetDefault("OVERPASS_REQUEST_TIMEOUT", 25)
	v.SetDefault("OVERPASS_RETRY_MAX", 0)

	v.SetDefault("RATE_LIMIT_MAX", 120)
	v.SetDefault("RATE_LIMIT_WINDOW", 60)

	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("WORKER_CONSUMER_GROUP", "location-refresh-workers")
	v.SetDefault("WORKER_BATCH_SIZE", 10)
}

func fromViper(v *viper.Viper) *Config {
	userAgent := v.GetString("GEO_USER_AGENT")

	return &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		Cache: CacheConfig{
			SearchCacheTTL: time.Duration(v.GetInt("SEARCH_CACHE_TTL")) * time.Second,
		},
		Location: LocationConfig{
			FreshnessWindow: time.Duration(v.GetInt("LOCATION_FRESHNESS_HOURS")) * time.Hour,
			NearbyRadiusM:   v.GetFloat64("NEARBY_RADIUS_M"),
			NearbyLimit:     v.GetInt("NEARBY_LIMIT"),
		},
		Geocoder: GeocoderConfig{
			BaseURL:        v.GetString("NOMINATIM_BASE_URL"),
			UserAgent:      userAgent,
			RequestTimeout: time.Duration(v.GetInt("GEO_REQUEST_TIMEOUT")) * time.Second,
			RetryMax:       v.GetInt("GEO_RETRY_MAX"),
			RatePerSecond:  v.GetFloat64("GEO_RATE_PER_SECOND"),
		},
		Places: PlacesConfig{
			BaseURL:        v.GetString("OVERPASS_BASE_URL"),
			UserAgent:      userAgent,
			RequestTimeout: time.Duration(v.GetInt("OVERPASS_REQUEST_TIMEOUT")) * time.Second,
			RetryMax:       v.GetInt("OVERPASS_RETRY_MAX"),
		},
		RateLimit: RateLimitConfig{
			Max:    v.GetInt("RATE_LIMIT_MAX"),
			Window: time.Duration(v.GetInt("RATE_LIMIT_WINDOW")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:       v.GetBool("WORKER_ENABLED"),
			ConsumerGroup: v.GetString("WORKER_CONSUMER_GROUP"),
			BatchSize:     v.GetInt("WORKER_BATCH_SIZE"),
		},
	}
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
